package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"

	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/service/insights"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/contextx"
	"website_revolution/pkg/logx"
	"website_revolution/pkg/lox"
	"website_revolution/pkg/rest"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	MsgNetworkError = "Network error occurred. Please try again."
	MsgGenericError = "An error occurred"
	MsgExportFailed = "Failed to export CSV. Please try again."
)

var (
	ErrSearchNotReady   = errors.New("location and niche are required")
	ErrSearchInFlight   = errors.New("search already in progress")
	ErrNothingToExport  = errors.New("no businesses to export")
	ErrExportInProgress = errors.New("export already in progress")
)

type API interface {
	Review(ctx context.Context, location, niche string) (rest.BusinessesReviewResponse, error)
	Export(ctx context.Context, req rest.CSVExportRequest) (ExportFile, error)
}

// Downloader hands an exported file to the user.
type Downloader interface {
	Download(ctx context.Context, filename string, data []byte) error
}

// Session is the dashboard state machine a renderer binds to. It is safe for
// concurrent use.
type Session struct {
	api        API
	downloader Downloader

	mu       sync.Mutex
	location string
	niche    string
	state    State
	export   ExportStatus
	section  Section
	view     ViewMode
}

func NewSession(api API, downloader Downloader) *Session {
	return &Session{
		api:        api,
		downloader: downloader,
		state:      Idle{},
		export:     ExportIdle{},
		section:    SectionDiscover,
		view:       ViewGrid,
	}
}

func (s *Session) SetLocation(location string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.location = location
}

func (s *Session) SetNiche(niche string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.niche = niche
}

// CanSearch mirrors the enabled state of the search button.
func (s *Session) CanSearch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.canSearch()
}

func (s *Session) canSearch() bool {
	_, loading := s.state.(Loading)

	return strings.TrimSpace(s.location) != "" && strings.TrimSpace(s.niche) != "" && !loading
}

// Search runs one review. Server and network failures land in State; the
// returned error only reports that no request was sent.
func (s *Session) Search(ctx context.Context) error {
	s.mu.Lock()

	if _, loading := s.state.(Loading); loading {
		s.mu.Unlock()
		return ErrSearchInFlight
	}

	if !s.canSearch() {
		s.mu.Unlock()
		return ErrSearchNotReady
	}

	location, niche := s.location, s.niche
	s.state = Loading{}
	s.export = ExportIdle{}
	s.mu.Unlock()

	resp, err := s.api.Review(ctx, location, niche)

	next := searchOutcome(resp, err)
	if err != nil {
		logger(ctx).Warn("review request failed", logx.Error(err))
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	return nil
}

func searchOutcome(resp rest.BusinessesReviewResponse, err error) State {
	if err != nil {
		if errors.Is(err, ErrTransport) {
			return Failed{Message: MsgNetworkError}
		}

		return Failed{Message: MsgGenericError}
	}

	switch {
	case resp.Success:
		return Results{
			SearchID:   resp.SearchID,
			Businesses: lox.Map(resp.Businesses, businessFromREST),
		}
	case resp.SetupRequired:
		return SetupRequired{}
	default:
		return Failed{Message: lo.CoalesceOrEmpty(resp.Details, resp.Error, MsgGenericError)}
	}
}

// Export sends the current results to the server and downloads the CSV.
// A failure is kept in ExportStatus and the results stay on screen.
func (s *Session) Export(ctx context.Context) error {
	s.mu.Lock()

	results, ok := s.state.(Results)
	if !ok || results.Empty() {
		s.mu.Unlock()
		return ErrNothingToExport
	}

	if _, busy := s.export.(Exporting); busy {
		s.mu.Unlock()
		return ErrExportInProgress
	}

	location, niche := s.location, s.niche
	s.export = Exporting{}
	s.mu.Unlock()

	status := s.runExport(ctx, results.Businesses, location, niche)

	s.mu.Lock()
	s.export = status
	s.mu.Unlock()

	return nil
}

func (s *Session) runExport(ctx context.Context, businesses []entity.Business, location, niche string) ExportStatus {
	file, err := s.api.Export(ctx, rest.CSVExportRequest{
		Businesses:      lox.Map(businesses, businessToREST),
		IncludeOutreach: true,
		IncludeAnalysis: true,
		Niche:           niche,
		Location:        location,
	})
	if err != nil {
		logger(ctx).Warn("export request failed", logx.Error(err))

		return ExportFailed{Message: exportMessage(err)}
	}

	filename := value.ExportFilename(location, niche)

	if err := s.downloader.Download(ctx, filename, file.Data); err != nil {
		logger(ctx).Warn("download failed", logx.Error(err))

		return ExportFailed{Message: fmt.Sprintf("Failed to save %s: %v", filename, err)}
	}

	return Exported{Filename: filename}
}

func exportMessage(err error) string {
	if errors.Is(err, ErrTransport) {
		return MsgNetworkError
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return MsgExportFailed
}

// SelectSection is idempotent. An unknown section is ignored and reported as
// false; the active section stays unchanged.
func (s *Session) SelectSection(section Section) bool {
	if _, ok := ParseSection(string(section)); !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.section = section

	return true
}

func (s *Session) ToggleView() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = s.view.Toggle()

	return s.view
}

func (s *Session) SetView(mode ViewMode) bool {
	if mode != ViewGrid && mode != ViewList {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = mode

	return true
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Session) ExportStatus() ExportStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.export
}

func (s *Session) Section() Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.section
}

func (s *Session) ViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view
}

// Businesses is the current result list, empty unless State is Results.
func (s *Session) Businesses() []entity.Business {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.state.(Results); ok {
		return r.Businesses
	}

	return nil
}

// View is a consistent snapshot of everything a renderer needs.
type View struct {
	Location       string
	Niche          string
	CanSearch      bool
	State          State
	Export         ExportStatus
	Section        Section
	ViewMode       ViewMode
	Cards          []Card
	Breakdown      map[value.Priority]int
	Engagement     entity.EngagementStats
	Analytics      entity.Analytics
	RecentActivity []entity.Activity
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	var businesses []entity.Business
	if r, ok := s.state.(Results); ok {
		businesses = r.Businesses
	}

	return View{
		Location:       s.location,
		Niche:          s.niche,
		CanSearch:      s.canSearch(),
		State:          s.state,
		Export:         s.export,
		Section:        s.section,
		ViewMode:       s.view,
		Cards:          NewCards(businesses),
		Breakdown:      insights.PriorityBreakdown(businesses),
		Engagement:     insights.Engagement(businesses),
		Analytics:      insights.Analyze(businesses, s.niche),
		RecentActivity: insights.RecentActivity(businesses),
	}
}
