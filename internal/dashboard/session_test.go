package dashboard_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"website_revolution/internal/dashboard"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/rest"
)

type fakeAPI struct {
	mu        sync.Mutex
	review    rest.BusinessesReviewResponse
	reviewErr error
	exportErr error
	reviews   int
	exports   []rest.CSVExportRequest

	// block, when set, holds Review until it is closed.
	block   chan struct{}
	started chan struct{}
}

func (f *fakeAPI) Review(ctx context.Context, _, _ string) (rest.BusinessesReviewResponse, error) {
	f.mu.Lock()
	f.reviews++
	f.mu.Unlock()

	if f.block != nil {
		close(f.started)

		select {
		case <-f.block:
		case <-ctx.Done():
			return rest.BusinessesReviewResponse{}, ctx.Err()
		}
	}

	return f.review, f.reviewErr
}

func (f *fakeAPI) Export(_ context.Context, req rest.CSVExportRequest) (dashboard.ExportFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.exports = append(f.exports, req)

	if f.exportErr != nil {
		return dashboard.ExportFile{}, f.exportErr
	}

	return dashboard.ExportFile{Filename: "server.csv", Data: []byte("Business Name\n")}, nil
}

type fakeDownloader struct {
	err   error
	files map[string][]byte
}

func (d *fakeDownloader) Download(_ context.Context, filename string, data []byte) error {
	if d.err != nil {
		return d.err
	}

	if d.files == nil {
		d.files = map[string][]byte{}
	}

	d.files[filename] = data

	return nil
}

func successResponse() rest.BusinessesReviewResponse {
	return rest.BusinessesReviewResponse{
		Success:  true,
		SearchID: "run-1",
		Businesses: []rest.Business{
			{ID: "1", Name: "Cafe Nowhere", Score: 15, Issues: []string{"a", "b", "c", "d"}},
			{ID: "2", Name: "Aroma", Score: 55, Issues: []string{"x"}},
			{ID: "3", Name: "Bean There", Score: 100, Issues: []string{}},
		},
	}
}

func newSession(api *fakeAPI, d *fakeDownloader) *dashboard.Session {
	s := dashboard.NewSession(api, d)
	s.SetLocation("New York!")
	s.SetNiche("Coffee/Shops")

	return s
}

func TestSessionDefaults(t *testing.T) {
	rq := require.New(t)

	s := dashboard.NewSession(&fakeAPI{}, &fakeDownloader{})

	rq.Equal(dashboard.Idle{}, s.State())
	rq.Equal(dashboard.ExportIdle{}, s.ExportStatus())
	rq.Equal(dashboard.SectionDiscover, s.Section())
	rq.Equal(dashboard.ViewGrid, s.ViewMode())
	rq.False(s.CanSearch())
}

func TestSessionSearchRequiresBothTerms(t *testing.T) {
	testCases := []struct {
		name     string
		location string
		niche    string
	}{
		{name: "Both empty"},
		{name: "Blank location", location: "   ", niche: "cafes"},
		{name: "Blank niche", location: "Austin", niche: "\t"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			api := &fakeAPI{review: successResponse()}
			s := dashboard.NewSession(api, &fakeDownloader{})
			s.SetLocation(tc.location)
			s.SetNiche(tc.niche)

			rq.ErrorIs(s.Search(context.Background()), dashboard.ErrSearchNotReady)
			rq.Zero(api.reviews)
			rq.Equal(dashboard.Idle{}, s.State())
		})
	}
}

func TestSessionSearchSuccess(t *testing.T) {
	rq := require.New(t)

	s := newSession(&fakeAPI{review: successResponse()}, &fakeDownloader{})

	rq.NoError(s.Search(context.Background()))

	results, ok := s.State().(dashboard.Results)
	rq.True(ok)
	rq.Equal("run-1", results.SearchID)
	rq.Len(results.Businesses, 3)
	rq.False(results.Empty())

	view := s.View()
	rq.Len(view.Cards, 3)
	rq.Equal("Critical", view.Cards[0].Label)
	rq.Equal("rose", view.Cards[0].Theme)
	rq.Equal([]string{"a", "b", "c"}, view.Cards[0].Issues)
	rq.Equal(1, view.Cards[0].MoreIssues)
	rq.Equal("amber", view.Cards[1].Theme)
	rq.Equal("emerald", view.Cards[2].Theme)
	rq.Equal(map[value.Priority]int{
		value.PriorityCritical: 1,
		value.PriorityHigh:     1,
		value.PriorityGood:     1,
	}, view.Breakdown)

	rq.Equal(3, view.Engagement.TotalContacts)
	rq.Equal(5000, view.Analytics.TotalValue)
	rq.Equal("Coffee/Shops", view.Analytics.TopPerformingNiche)
	rq.Len(view.RecentActivity, 3)
}

func TestSessionSearchEmptyResults(t *testing.T) {
	rq := require.New(t)

	s := newSession(&fakeAPI{review: rest.BusinessesReviewResponse{Success: true, Businesses: []rest.Business{}}}, &fakeDownloader{})

	rq.NoError(s.Search(context.Background()))

	results, ok := s.State().(dashboard.Results)
	rq.True(ok)
	rq.True(results.Empty())
}

func TestSessionSearchFailures(t *testing.T) {
	testCases := []struct {
		name     string
		response rest.BusinessesReviewResponse
		err      error
		want     dashboard.State
	}{
		{
			name:     "Setup required",
			response: rest.BusinessesReviewResponse{SetupRequired: true, Error: "no key"},
			want:     dashboard.SetupRequired{},
		},
		{
			name:     "Details win over error",
			response: rest.BusinessesReviewResponse{Error: "Failed", Details: "quota exceeded"},
			want:     dashboard.Failed{Message: "quota exceeded"},
		},
		{
			name:     "Error only",
			response: rest.BusinessesReviewResponse{Error: "Failed to review businesses"},
			want:     dashboard.Failed{Message: "Failed to review businesses"},
		},
		{
			name: "Neither",
			want: dashboard.Failed{Message: dashboard.MsgGenericError},
		},
		{
			name: "Network error",
			err:  fmt.Errorf("%w: connection refused", dashboard.ErrTransport),
			want: dashboard.Failed{Message: dashboard.MsgNetworkError},
		},
		{
			name: "Unreadable answer",
			err:  &dashboard.APIError{StatusCode: 502},
			want: dashboard.Failed{Message: dashboard.MsgGenericError},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			api := &fakeAPI{review: successResponse()}
			s := newSession(api, &fakeDownloader{})

			rq.NoError(s.Search(context.Background()))
			rq.NotEmpty(s.Businesses())

			api.review, api.reviewErr = tc.response, tc.err

			rq.NoError(s.Search(context.Background()))
			rq.Equal(tc.want, s.State())
			rq.Empty(s.Businesses())
		})
	}
}

func TestSessionSearchInFlight(t *testing.T) {
	rq := require.New(t)

	api := &fakeAPI{
		review:  successResponse(),
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	s := newSession(api, &fakeDownloader{})

	done := make(chan error, 1)

	go func() {
		done <- s.Search(context.Background())
	}()

	<-api.started

	rq.Equal(dashboard.Loading{}, s.State())
	rq.False(s.CanSearch())
	rq.ErrorIs(s.Search(context.Background()), dashboard.ErrSearchInFlight)

	close(api.block)
	rq.NoError(<-done)

	rq.Equal(1, api.reviews)
	rq.IsType(dashboard.Results{}, s.State())
	rq.True(s.CanSearch())
}

func TestSessionExport(t *testing.T) {
	rq := require.New(t)

	api := &fakeAPI{review: successResponse()}
	d := &fakeDownloader{}
	s := newSession(api, d)

	rq.ErrorIs(s.Export(context.Background()), dashboard.ErrNothingToExport)
	rq.Empty(api.exports)

	rq.NoError(s.Search(context.Background()))
	rq.NoError(s.Export(context.Background()))

	const filename = "website-revolution-New-York--Coffee-Shops.csv"

	rq.Equal(dashboard.Exported{Filename: filename}, s.ExportStatus())
	rq.Equal([]byte("Business Name\n"), d.files[filename])

	rq.Len(api.exports, 1)
	req := api.exports[0]
	rq.True(req.IncludeOutreach)
	rq.True(req.IncludeAnalysis)
	rq.Equal("New York!", req.Location)
	rq.Equal("Coffee/Shops", req.Niche)
	rq.Len(req.Businesses, 3)
	rq.NotNil(req.Businesses[2].Issues)
}

func TestSessionExportFailureIsVisible(t *testing.T) {
	testCases := []struct {
		name        string
		exportErr   error
		downloadErr error
		message     string
	}{
		{
			name:      "Server rejected",
			exportErr: &dashboard.APIError{StatusCode: 400, Code: "InvalidExportRequest", Message: "There are no businesses to export"},
			message:   "There are no businesses to export",
		},
		{
			name:      "Server error without body",
			exportErr: &dashboard.APIError{StatusCode: 500},
			message:   dashboard.MsgExportFailed,
		},
		{
			name:      "Network error",
			exportErr: fmt.Errorf("%w: reset", dashboard.ErrTransport),
			message:   dashboard.MsgNetworkError,
		},
		{
			name:        "Download failed",
			downloadErr: errors.New("disk full"),
			message:     "Failed to save website-revolution-New-York--Coffee-Shops.csv: disk full",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			api := &fakeAPI{review: successResponse(), exportErr: tc.exportErr}
			s := newSession(api, &fakeDownloader{err: tc.downloadErr})

			rq.NoError(s.Search(context.Background()))
			rq.NoError(s.Export(context.Background()))

			rq.Equal(dashboard.ExportFailed{Message: tc.message}, s.ExportStatus())
			rq.Len(s.Businesses(), 3)
		})
	}
}

func TestSessionNewSearchResetsExportStatus(t *testing.T) {
	rq := require.New(t)

	api := &fakeAPI{review: successResponse(), exportErr: errors.New("boom")}
	s := newSession(api, &fakeDownloader{})

	rq.NoError(s.Search(context.Background()))
	rq.NoError(s.Export(context.Background()))
	rq.IsType(dashboard.ExportFailed{}, s.ExportStatus())

	rq.NoError(s.Search(context.Background()))
	rq.Equal(dashboard.ExportIdle{}, s.ExportStatus())
}

func TestSessionSectionAndView(t *testing.T) {
	rq := require.New(t)

	s := dashboard.NewSession(&fakeAPI{}, &fakeDownloader{})

	rq.Equal(dashboard.SectionDiscover, s.Section())

	testCases := []struct {
		name     string
		selected dashboard.Section
		accepted bool
		active   dashboard.Section
	}{
		{name: "analytics", selected: dashboard.SectionAnalytics, accepted: true, active: dashboard.SectionAnalytics},
		{name: "same section again", selected: dashboard.SectionAnalytics, accepted: true, active: dashboard.SectionAnalytics},
		{name: "unknown keeps previous", selected: dashboard.Section("settings"), accepted: false, active: dashboard.SectionAnalytics},
		{name: "empty keeps previous", selected: dashboard.Section(""), accepted: false, active: dashboard.SectionAnalytics},
		{name: "engagement", selected: dashboard.SectionEngagement, accepted: true, active: dashboard.SectionEngagement},
	}

	for _, tc := range testCases {
		rq.Equal(tc.accepted, s.SelectSection(tc.selected), tc.name)
		rq.Equal(tc.active, s.Section(), tc.name)

		_, legal := dashboard.ParseSection(string(s.Section()))
		rq.True(legal, tc.name)
	}

	rq.Equal(dashboard.ViewList, s.ToggleView())
	rq.Equal(dashboard.ViewGrid, s.ToggleView())

	rq.True(s.SetView(dashboard.ViewList))
	rq.Equal(dashboard.ViewList, s.ViewMode())

	rq.False(s.SetView(dashboard.ViewMode("table")))
	rq.Equal(dashboard.ViewList, s.ViewMode())

	sec, ok := dashboard.ParseSection("discover")
	rq.True(ok)
	rq.Equal(dashboard.SectionDiscover, sec)

	_, ok = dashboard.ParseSection("settings")
	rq.False(ok)
}
