package dashboard

import "website_revolution/internal/domain/entity"

// State is what the discover section shows. Exactly one variant holds at a
// time: Idle, Loading, SetupRequired, Failed or Results.
type State interface {
	state()
}

type Idle struct{}

type Loading struct{}

// SetupRequired means the server has no places credentials.
type SetupRequired struct{}

type Failed struct {
	Message string
}

// Results holds the latest successful search. An empty list renders as "no
// businesses found".
type Results struct {
	SearchID   string
	Businesses []entity.Business
}

func (Idle) state()          {}
func (Loading) state()       {}
func (SetupRequired) state() {}
func (Failed) state()        {}
func (Results) state()       {}

func (r Results) Empty() bool {
	return len(r.Businesses) == 0
}

// ExportStatus tracks the last export attempt. It lives beside State so a
// failed export never hides the results.
type ExportStatus interface {
	exportStatus()
}

type ExportIdle struct{}

type Exporting struct{}

type Exported struct {
	Filename string
}

type ExportFailed struct {
	Message string
}

func (ExportIdle) exportStatus()   {}
func (Exporting) exportStatus()    {}
func (Exported) exportStatus()     {}
func (ExportFailed) exportStatus() {}

type Section string

const (
	SectionDiscover   Section = "discover"
	SectionEngagement Section = "engagement"
	SectionAnalytics  Section = "analytics"
)

func ParseSection(s string) (Section, bool) {
	switch sec := Section(s); sec {
	case SectionDiscover, SectionEngagement, SectionAnalytics:
		return sec, true
	default:
		return "", false
	}
}

type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

func (m ViewMode) Toggle() ViewMode {
	if m == ViewGrid {
		return ViewList
	}
	return ViewGrid
}
