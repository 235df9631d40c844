package value

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	redesignFilenameExt = ".html"
	maxSlugLen          = 48
	idSuffixLen         = 8
)

var (
	ErrInvalidRedesignFilename = errors.New("invalid redesign filename")

	redesignFilenamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*\.html$`) //nolint:gochecknoglobals
)

// RedesignFilename identifies a generated redesign, e.g. "joes-diner-1a2b3c4d.html".
type RedesignFilename string

// NewRedesignFilename derives a stable filename from a business name and id.
// The suffix is a hash of the whole id; place ids share long prefixes.
func NewRedesignFilename(businessName, businessID string) RedesignFilename {
	slug := Slugify(businessName)
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}

	if slug == "" {
		slug = "business"
	}

	if businessID != "" {
		sum := uuid.NewSHA1(uuid.Nil, []byte(businessID))
		slug += "-" + strings.ReplaceAll(sum.String(), "-", "")[:idSuffixLen]
	}

	return RedesignFilename(slug + redesignFilenameExt)
}

func ParseRedesignFilename(s string) (RedesignFilename, error) {
	if !redesignFilenamePattern.MatchString(s) {
		return "", ErrInvalidRedesignFilename
	}

	return RedesignFilename(s), nil
}

func (f RedesignFilename) String() string {
	return string(f)
}

// Path is the preview route of the redesign.
func (f RedesignFilename) Path() string {
	return "/redesigns/" + string(f)
}

// Slugify lower-cases s and collapses every run of non-alphanumerics into one
// hyphen.
func Slugify(s string) string {
	var b strings.Builder

	pendingDash := false

	for _, r := range strings.ToLower(s) {
		if isASCIIAlnum(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}

			pendingDash = false

			b.WriteRune(r)

			continue
		}

		pendingDash = true
	}

	return b.String()
}
