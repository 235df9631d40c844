package server

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/errcodes"
	"website_revolution/pkg/httpx/reply"
)

//go:embed templates
var templatesFS embed.FS

type RedesignFinder interface {
	Get(ctx context.Context, filename value.RedesignFilename) (entity.Redesign, error)
}

type previewPage struct {
	Found        bool
	BusinessName string
	Document     string
	Improvements []string
	DesignNotes  []string
}

type RedesignServer struct {
	finder  RedesignFinder
	preview *template.Template
}

func NewRedesignServer(finder RedesignFinder) (RedesignServer, error) {
	preview, err := template.ParseFS(templatesFS, "templates/preview.html.tmpl")
	if err != nil {
		return RedesignServer{}, fmt.Errorf("template.ParseFS: %w", err)
	}

	return RedesignServer{
		finder:  finder,
		preview: preview,
	}, nil
}

func (s RedesignServer) getAPIRedesign(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	filename, err := value.ParseRedesignFilename(r.PathValue("filename"))
	if err != nil {
		return failure.NewInvalidArgumentError(
			err.Error(),
			failure.WithCode(errcodes.InvalidFilename),
			failure.WithDescription("Invalid redesign filename"),
		)
	}

	redesign, err := s.finder.Get(ctx, filename)
	if err != nil {
		return fmt.Errorf("finder.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTRedesign(redesign))

	return nil
}

// getRedesignPage renders the preview. Malformed and unknown filenames both
// get the not found page.
func (s RedesignServer) getRedesignPage(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	filename, err := value.ParseRedesignFilename(r.PathValue("filename"))
	if err != nil {
		return s.render(ctx, w, http.StatusNotFound, previewPage{})
	}

	redesign, err := s.finder.Get(ctx, filename)
	if err != nil {
		if failure.IsNotFoundError(err) {
			return s.render(ctx, w, http.StatusNotFound, previewPage{})
		}

		return fmt.Errorf("finder.Get: %w", err)
	}

	return s.render(ctx, w, http.StatusOK, previewPage{
		Found:        true,
		BusinessName: redesign.BusinessName,
		Document:     redesign.HTML,
		Improvements: redesign.Improvements,
		DesignNotes:  redesign.DesignNotes,
	})
}

func (s RedesignServer) render(ctx context.Context, w http.ResponseWriter, status int, page previewPage) error {
	var buf bytes.Buffer

	if err := s.preview.Execute(&buf, page); err != nil {
		return fmt.Errorf("preview.Execute: %w", err)
	}

	reply.HTML(ctx, w, status, buf.Bytes())

	return nil
}
