package review

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"website_revolution/internal/domain"
	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/service/outreach"
	"website_revolution/internal/domain/service/redesign"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/contextx"
	"website_revolution/pkg/errcodes"
	"website_revolution/pkg/logx"
	"website_revolution/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	defaultConcurrency = 5
	defaultCacheTTL    = 10 * time.Minute
	defaultNotifyWait  = 5 * time.Second
)

type PlaceFinder interface {
	Search(ctx context.Context, query value.SearchQuery) ([]entity.Place, error)
}

type WebsiteAnalyzer interface {
	Analyze(ctx context.Context, website string) entity.WebsiteReport
}

type Scorer interface {
	Score(report entity.WebsiteReport) (value.Score, []string)
}

type OutreachDrafter interface {
	Draft(ctx context.Context, lead outreach.Lead) entity.OutreachMessages
}

type RedesignScheduler interface {
	Schedule(ctx context.Context, req redesign.Request) error
}

type SearchRepository interface {
	Save(ctx context.Context, run entity.SearchRun) error
	Recent(ctx context.Context, limit int) ([]entity.SearchSummary, error)
	Get(ctx context.Context, id value.SearchID) (entity.SearchRun, error)
}

type LeadNotifier interface {
	NotifyLeads(ctx context.Context, run entity.SearchRun, leads []entity.Business) error
}

type ReviewService struct {
	finder    PlaceFinder
	analyzer  WebsiteAnalyzer
	scorer    Scorer
	outreach  OutreachDrafter
	scheduler RedesignScheduler
	repo      SearchRepository
	notifier  LeadNotifier

	publicBaseURL string
	concurrency   int
	notifyWait    time.Duration
	results       *cache.Cache
	now           func() time.Time
}

func NewReviewService(
	finder PlaceFinder,
	analyzer WebsiteAnalyzer,
	scorer Scorer,
	outreach OutreachDrafter,
	scheduler RedesignScheduler,
	repo SearchRepository,
) *ReviewService {
	return &ReviewService{
		finder:      finder,
		analyzer:    analyzer,
		scorer:      scorer,
		outreach:    outreach,
		scheduler:   scheduler,
		repo:        repo,
		concurrency: defaultConcurrency,
		notifyWait:  defaultNotifyWait,
		results:     cache.New(defaultCacheTTL, 0),
		now:         time.Now,
	}
}

func (s *ReviewService) WithNotifier(n LeadNotifier) *ReviewService {
	s.notifier = n
	return s
}

// WithNotifyWait bounds how long a search waits for lead alerts.
func (s *ReviewService) WithNotifyWait(d time.Duration) *ReviewService {
	if d > 0 {
		s.notifyWait = d
	}
	return s
}

func (s *ReviewService) WithConcurrency(n int) *ReviewService {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// WithCacheTTL sets how long identical searches are answered from memory. A
// non-positive ttl disables the cache.
func (s *ReviewService) WithCacheTTL(ttl time.Duration) *ReviewService {
	if ttl <= 0 {
		s.results = nil
		return s
	}

	s.results = cache.New(ttl, 0)

	return s
}

// WithPublicBaseURL makes redesign links absolute so they work in outreach
// messages.
func (s *ReviewService) WithPublicBaseURL(u string) *ReviewService {
	s.publicBaseURL = strings.TrimRight(u, "/")
	return s
}

func (s *ReviewService) WithClock(now func() time.Time) *ReviewService {
	s.now = now
	return s
}

// Search discovers businesses for the query, reviews their websites and
// returns them worst score first.
func (s *ReviewService) Search(ctx context.Context, query value.SearchQuery) (entity.SearchRun, error) {
	if run, ok := s.cached(query); ok {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeCached).Inc()
		return run, nil
	}

	places, err := s.finder.Search(ctx, query)
	if err != nil {
		if domain.HasCode(err, errcodes.SetupRequired) {
			metrics.SearchesTotal.WithLabelValues(metrics.OutcomeSetupRequired).Inc()
		} else {
			metrics.SearchesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		}

		return entity.SearchRun{}, fmt.Errorf("finder.Search: %w", err)
	}

	run := entity.SearchRun{
		ID:        value.NewSearchID(),
		Location:  query.Location(),
		Niche:     query.Niche(),
		CreatedAt: s.now(),
	}

	ctx = contextx.WithSearchID(ctx, contextx.SearchID(run.ID.String()))
	ctx = contextx.WithLogger(ctx, logger(ctx).With(
		slog.String(logx.FieldSearchID, run.ID.String()),
		slog.String(logx.FieldLocation, run.Location),
		slog.String(logx.FieldNiche, run.Niche),
	))

	logger(ctx).Info("places discovered", slog.Int(logx.FieldCount, len(places)))

	businesses, err := s.reviewAll(ctx, query, places)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return entity.SearchRun{}, err
	}

	run.Businesses = businesses

	if err := s.repo.Save(ctx, run); err != nil {
		logger(ctx).Error("failed to save search run", logx.Error(err))
	}

	if s.results != nil {
		// no janitor goroutine; expired runs are swept on write
		s.results.DeleteExpired()
		s.results.Set(query.Key(), run, cache.DefaultExpiration)
	}

	s.notify(ctx, run)

	metrics.SearchesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	logger(ctx).Info("search completed", slog.Int(logx.FieldCount, len(businesses)))

	return run, nil
}

func (s *ReviewService) cached(query value.SearchQuery) (entity.SearchRun, bool) {
	if s.results == nil {
		return entity.SearchRun{}, false
	}

	v, found := s.results.Get(query.Key())
	if !found {
		return entity.SearchRun{}, false
	}

	run, ok := v.(entity.SearchRun)

	return run, ok
}

func (s *ReviewService) reviewAll(
	ctx context.Context,
	query value.SearchQuery,
	places []entity.Place,
) ([]entity.Business, error) {
	businesses := make([]entity.Business, len(places))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, place := range places {
		g.Go(func() error {
			businesses[i] = s.review(gctx, query, place)
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // review never fails

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("review: %w", err)
	}

	sort.SliceStable(businesses, func(i, j int) bool {
		if businesses[i].Score != businesses[j].Score {
			return businesses[i].Score < businesses[j].Score
		}
		return businesses[i].Name < businesses[j].Name
	})

	return businesses, nil
}

func (s *ReviewService) review(ctx context.Context, query value.SearchQuery, place entity.Place) entity.Business {
	start := time.Now()
	report := s.analyzer.Analyze(ctx, place.Website)
	metrics.WebsiteAnalysisSeconds.Observe(time.Since(start).Seconds())

	score, issues := s.scorer.Score(report)

	b := entity.Business{
		ID:      place.ID,
		Name:    place.Name,
		Website: lo.CoalesceOrEmpty(report.URL, place.Website),
		Phone:   place.Phone,
		Email:   report.ContactEmail(),
		Address: place.Address,
		Score:   score.Int(),
		Issues:  issues,
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	if score.Priority().NeedsRedesign() {
		filename := value.NewRedesignFilename(b.Name, b.ID)

		err := s.scheduler.Schedule(ctx, redesign.Request{
			Filename: filename,
			Business: b,
			Niche:    query.Niche(),
			Location: query.Location(),
		})
		if err != nil {
			logger(ctx).Error("failed to schedule redesign",
				logx.Error(err),
				slog.String(logx.FieldBusinessID, b.ID),
			)
		} else {
			b.RedesignURL = s.publicBaseURL + filename.Path()
		}
	}

	b.OutreachMessages = s.outreach.Draft(ctx, outreach.Lead{
		Business: b,
		Niche:    query.Niche(),
		Location: query.Location(),
	})

	metrics.BusinessesReviewedTotal.WithLabelValues(score.Priority().String()).Inc()

	logger(ctx).Debug("business reviewed",
		slog.String(logx.FieldBusinessID, b.ID),
		slog.String(logx.FieldWebsite, b.Website),
		slog.Int(logx.FieldScore, b.Score),
	)

	return b
}

func (s *ReviewService) notify(ctx context.Context, run entity.SearchRun) {
	if s.notifier == nil {
		return
	}

	critical := lo.Filter(run.Businesses, func(b entity.Business, _ int) bool {
		return b.Priority() == value.PriorityCritical
	})

	if len(critical) == 0 {
		return
	}

	// detached from request cancellation, bounded by notifyWait
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyWait)
	defer cancel()

	if err := s.notifier.NotifyLeads(nctx, run, critical); err != nil {
		logger(ctx).Error("failed to notify leads", logx.Error(err))
	}
}

func (s *ReviewService) RecentSearches(ctx context.Context, limit int) ([]entity.SearchSummary, error) {
	runs, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("repo.Recent: %w", err)
	}

	return runs, nil
}

func (s *ReviewService) GetSearch(ctx context.Context, id value.SearchID) (entity.SearchRun, error) {
	run, err := s.repo.Get(ctx, id)
	if err != nil {
		if domain.HasCode(err, errcodes.SearchNotFound) {
			return entity.SearchRun{}, failure.NewNotFoundError(
				err.Error(),
				failure.WithCode(errcodes.SearchNotFound),
				failure.WithDescription("Search not found"),
			)
		}

		return entity.SearchRun{}, fmt.Errorf("repo.Get: %w", err)
	}

	return run, nil
}
