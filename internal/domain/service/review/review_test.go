package review_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"website_revolution/internal/domain"
	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/service/outreach"
	"website_revolution/internal/domain/service/redesign"
	"website_revolution/internal/domain/service/review"
	"website_revolution/internal/domain/service/scoring"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/errcodes"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeFinder struct {
	places []entity.Place
	err    error
	calls  int
}

func (f *fakeFinder) Search(_ context.Context, _ value.SearchQuery) ([]entity.Place, error) {
	f.calls++
	return f.places, f.err
}

type fakeAnalyzer map[string]entity.WebsiteReport

func (a fakeAnalyzer) Analyze(_ context.Context, website string) entity.WebsiteReport {
	if r, ok := a[website]; ok {
		return r
	}
	return entity.WebsiteReport{}
}

type fakeScheduler struct {
	mu   sync.Mutex
	reqs []redesign.Request
	err  error
}

func (s *fakeScheduler) Schedule(_ context.Context, req redesign.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append(s.reqs, req)
	return s.err
}

type fakeRepo struct {
	saved []entity.SearchRun
	err   error
}

func (r *fakeRepo) Save(_ context.Context, run entity.SearchRun) error {
	r.saved = append(r.saved, run)
	return r.err
}

func (r *fakeRepo) Recent(_ context.Context, limit int) ([]entity.SearchSummary, error) {
	out := make([]entity.SearchSummary, 0, limit)
	for i := len(r.saved) - 1; i >= 0 && len(out) < limit; i-- {
		run := r.saved[i]
		out = append(out, entity.SearchSummary{ID: run.ID, Location: run.Location, Niche: run.Niche, ResultCount: len(run.Businesses)})
	}
	return out, nil
}

func (r *fakeRepo) Get(_ context.Context, id value.SearchID) (entity.SearchRun, error) {
	for _, run := range r.saved {
		if run.ID == id {
			return run, nil
		}
	}
	return entity.SearchRun{}, domain.NewError(errcodes.SearchNotFound, "search run not found")
}

type fakeNotifier struct {
	leads []entity.Business
	calls int

	// stall, when set, blocks NotifyLeads until ctx is done.
	stall bool
	err   error
}

func (n *fakeNotifier) NotifyLeads(ctx context.Context, _ entity.SearchRun, leads []entity.Business) error {
	n.calls++
	n.leads = append(n.leads, leads...)

	if n.stall {
		<-ctx.Done()
		n.err = ctx.Err()
		return n.err
	}

	return nil
}

func goodSite(url string) entity.WebsiteReport {
	return entity.WebsiteReport{
		URL:                url,
		HasWebsite:         true,
		Reachable:          true,
		StatusCode:         200,
		HTTPS:              true,
		LoadTime:           300 * time.Millisecond,
		HasViewport:        true,
		HasTitle:           true,
		HasMetaDescription: true,
		HasH1:              true,
		HasContactPath:     true,
		HasSocialLinks:     true,
		TextLength:         2000,
		CopyrightYear:      time.Now().Year(),
		Emails:             []string{"hello@example.com"},
	}
}

type fixture struct {
	finder    *fakeFinder
	scheduler *fakeScheduler
	repo      *fakeRepo
	notifier  *fakeNotifier
	service   *review.ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	scorer, err := scoring.NewScorer(scoring.DefaultRules(), scoring.DefaultThresholds())
	require.NoError(t, err)

	f := &fixture{
		finder: &fakeFinder{places: []entity.Place{
			{ID: "p-good", Name: "Bean There", Website: "https://bean.example", Phone: "+1 555 0100"},
			{ID: "p-none", Name: "Cafe Nowhere", Phone: "+1 555 0101"},
			{ID: "p-slow", Name: "Aroma", Website: "http://aroma.example"},
		}},
		scheduler: &fakeScheduler{},
		repo:      &fakeRepo{},
		notifier:  &fakeNotifier{},
	}

	slow := goodSite("http://aroma.example")
	slow.HTTPS = false
	slow.HasViewport = false
	slow.HasMetaDescription = false

	analyzer := fakeAnalyzer{
		"https://bean.example": goodSite("https://bean.example"),
		"http://aroma.example": slow,
	}

	drafter := outreach.NewOutreachService(outreach.TemplateDrafter{SenderName: "Sam", SenderCompany: "Website Revolution"})

	f.service = review.NewReviewService(f.finder, analyzer, scorer, drafter, f.scheduler, f.repo).
		WithNotifier(f.notifier).
		WithPublicBaseURL("https://leads.example/")

	return f
}

func mustQuery(t *testing.T, location, niche string) value.SearchQuery {
	t.Helper()
	q, err := value.NewSearchQuery(location, niche)
	require.NoError(t, err)
	return q
}

func TestReviewServiceSearch(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)

	run, err := f.service.Search(context.Background(), mustQuery(t, "Austin", "coffee shops"))
	rq.NoError(err)
	rq.Len(run.Businesses, 3)
	rq.Equal("Austin", run.Location)
	rq.Equal("coffee shops", run.Niche)

	names := []string{run.Businesses[0].Name, run.Businesses[1].Name, run.Businesses[2].Name}
	rq.Equal([]string{"Cafe Nowhere", "Aroma", "Bean There"}, names)

	for i := 1; i < len(run.Businesses); i++ {
		rq.LessOrEqual(run.Businesses[i-1].Score, run.Businesses[i].Score)
	}

	none := run.Businesses[0]
	rq.Equal(value.PriorityCritical, none.Priority())
	rq.Contains(none.Issues, "No website found")
	rq.True(strings.HasPrefix(none.RedesignURL, "https://leads.example/redesigns/cafe-nowhere-"))
	rq.Contains(none.OutreachMessages.Email, none.RedesignURL)

	good := run.Businesses[2]
	rq.Equal(value.PriorityGood, good.Priority())
	rq.Empty(good.RedesignURL)
	rq.Equal("hello@example.com", good.Email)
	rq.NotEmpty(good.OutreachMessages.SMS)

	rq.Len(f.scheduler.reqs, 2)
	rq.Len(f.repo.saved, 1)
	rq.Len(f.notifier.leads, 1)
	rq.Equal("Cafe Nowhere", f.notifier.leads[0].Name)
}

func TestReviewServiceSearchSlowNotifier(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	f.notifier.stall = true
	f.service.WithNotifyWait(20 * time.Millisecond)

	start := time.Now()

	run, err := f.service.Search(context.Background(), mustQuery(t, "Austin", "coffee shops"))
	rq.NoError(err)
	rq.Len(run.Businesses, 3)
	rq.Less(time.Since(start), 2*time.Second)

	rq.Equal(1, f.notifier.calls)
	rq.Len(f.notifier.leads, 1)
	rq.ErrorIs(f.notifier.err, context.DeadlineExceeded)
}

func TestReviewServiceSearchCached(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)

	first, err := f.service.Search(context.Background(), mustQuery(t, "Austin", "Coffee Shops"))
	rq.NoError(err)

	second, err := f.service.Search(context.Background(), mustQuery(t, " austin ", "coffee   shops"))
	rq.NoError(err)

	rq.Equal(first.ID, second.ID)
	rq.Equal(1, f.finder.calls)

	f.service.WithCacheTTL(0)

	_, err = f.service.Search(context.Background(), mustQuery(t, "Austin", "Coffee Shops"))
	rq.NoError(err)
	rq.Equal(2, f.finder.calls)
}

func TestReviewServiceSearchSetupRequired(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	f.finder.err = domain.ErrSetupRequired

	_, err := f.service.Search(context.Background(), mustQuery(t, "Austin", "bakeries"))
	rq.Error(err)
	rq.ErrorIs(err, domain.ErrSetupRequired)
	rq.Empty(f.repo.saved)
}

func TestReviewServiceSearchSchedulerFailure(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	f.scheduler.err = errors.New("queue down")

	run, err := f.service.Search(context.Background(), mustQuery(t, "Austin", "bakeries"))
	rq.NoError(err)

	for _, b := range run.Businesses {
		rq.Empty(b.RedesignURL)
	}
}

func TestReviewServiceSearchSaveFailureKeepsResults(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)
	f.repo.err = errors.New("disk full")

	run, err := f.service.Search(context.Background(), mustQuery(t, "Austin", "bakeries"))
	rq.NoError(err)
	rq.Len(run.Businesses, 3)
}

func TestReviewServiceSearchCanceled(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.Search(ctx, mustQuery(t, "Austin", "bakeries"))
	rq.ErrorIs(err, context.Canceled)
}

func TestReviewServiceGetSearch(t *testing.T) {
	rq := require.New(t)
	f := newFixture(t)

	run, err := f.service.Search(context.Background(), mustQuery(t, "Austin", "bakeries"))
	rq.NoError(err)

	got, err := f.service.GetSearch(context.Background(), run.ID)
	rq.NoError(err)
	rq.Equal(run.ID, got.ID)

	_, err = f.service.GetSearch(context.Background(), value.NewSearchID())
	rq.Error(err)
	rq.True(failure.IsNotFoundError(err))
	rq.Equal(errcodes.SearchNotFound, failure.Code(err))

	recent, err := f.service.RecentSearches(context.Background(), 10)
	rq.NoError(err)
	rq.Len(recent, 1)
	rq.Equal(3, recent[0].ResultCount)
}
