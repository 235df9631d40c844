package redesign

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/value"
)

//go:embed templates
var templatesFS embed.FS

// Palette is the pair of colours behind the page gradient.
type Palette struct {
	Name    string
	Primary string
	Accent  string
}

//nolint:gochecknoglobals
var palettes = map[value.Priority]Palette{
	value.PriorityCritical: {Name: "purple", Primary: "#7c3aed", Accent: "#c026d3"},
	value.PriorityHigh:     {Name: "teal", Primary: "#0f766e", Accent: "#0891b2"},
	value.PriorityGood:     {Name: "indigo", Primary: "#4338ca", Accent: "#2563eb"},
}

//nolint:gochecknoglobals
var baselineImprovements = []string{
	"Modern gradient design",
	"Mobile-first responsive layout",
	"Interactive hover animations",
	"Professional color scheme",
	"Optimized for conversion",
}

type Request struct {
	Filename value.RedesignFilename
	Business entity.Business
	Niche    string
	Location string
}

type pageData struct {
	Name     string
	Niche    string
	Location string
	Phone    string
	Email    string
	Address  string
	Year     int
	CSS      template.CSS
}

func (p pageData) NicheOrDefault() string {
	if p.Niche == "" {
		return "local services"
	}
	return p.Niche
}

// Generator renders landing page proposals from the embedded template.
type Generator struct {
	page *template.Template
	css  string
	now  func() time.Time
}

func NewGenerator() (*Generator, error) {
	page, err := template.ParseFS(templatesFS, "templates/landing.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("template.ParseFS: %w", err)
	}

	css, err := templatesFS.ReadFile("templates/landing.css")
	if err != nil {
		return nil, fmt.Errorf("templatesFS.ReadFile: %w", err)
	}

	return &Generator{
		page: page,
		css:  string(css),
		now:  time.Now,
	}, nil
}

func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

func (g *Generator) Generate(req Request) (entity.Redesign, error) {
	b := req.Business
	palette := PaletteFor(b.Priority())
	css := fmt.Sprintf(":root{--primary:%s;--accent:%s}\n%s", palette.Primary, palette.Accent, g.css)

	var buf bytes.Buffer

	err := g.page.Execute(&buf, pageData{
		Name:     b.Name,
		Niche:    req.Niche,
		Location: req.Location,
		Phone:    b.Phone,
		Email:    b.Email,
		Address:  b.Address,
		Year:     g.now().Year(),
		CSS:      template.CSS(css), //nolint:gosec // generated from constants
	})
	if err != nil {
		return entity.Redesign{}, fmt.Errorf("page.Execute: %w", err)
	}

	return entity.Redesign{
		Filename:     req.Filename,
		BusinessID:   b.ID,
		BusinessName: b.Name,
		HTML:         buf.String(),
		CSS:          css,
		Improvements: improvements(b),
		DesignNotes:  designNotes(palette),
		CreatedAt:    g.now(),
	}, nil
}

func PaletteFor(p value.Priority) Palette {
	if palette, ok := palettes[p]; ok {
		return palette
	}
	return palettes[value.PriorityGood]
}

func improvements(b entity.Business) []string {
	out := make([]string, 0, len(baselineImprovements)+len(b.Issues))
	out = append(out, baselineImprovements...)

	for _, issue := range b.Issues {
		out = append(out, "Resolves: "+issue)
	}

	return out
}

func designNotes(p Palette) []string {
	return []string{
		"Applied modern gradient backgrounds",
		fmt.Sprintf("Used %s as primary brand color", p.Name),
		"Implemented smooth animations",
		"Added professional card layouts",
	}
}
