package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"website_revolution/internal/config"
	"website_revolution/internal/domain/service/export"
	"website_revolution/internal/domain/service/outreach"
	"website_revolution/internal/domain/service/redesign"
	"website_revolution/internal/domain/service/review"
	"website_revolution/internal/domain/service/scoring"
	"website_revolution/internal/infrastructure/llm"
	"website_revolution/internal/infrastructure/notifier"
	"website_revolution/internal/infrastructure/persistence"
	"website_revolution/internal/infrastructure/places"
	"website_revolution/internal/infrastructure/queue"
	"website_revolution/internal/infrastructure/rulesfile"
	"website_revolution/internal/infrastructure/website"
	"website_revolution/internal/server"
	"website_revolution/internal/transport/bot"
	"website_revolution/internal/transport/bot/handler"
	"website_revolution/internal/worker"
	"website_revolution/pkg/application/connectors"
	"website_revolution/pkg/application/modules"
	"website_revolution/pkg/contextx"
	"website_revolution/pkg/httpx"
	"website_revolution/pkg/logx"
	"website_revolution/pkg/middlewarex"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	httpServerReadHeaderTimeout = 5 * time.Second
	redesignQueuePriority       = 1
)

// Serve runs the API with every optional integration the config enables and
// blocks until ctx is done or a module fails.
func Serve(ctx context.Context, cfg config.Config) error {
	validation := cfg.Validate()
	for _, w := range validation.Warnings {
		logger(ctx).Warn(w)
	}

	if err := validation.Err(); err != nil {
		return err
	}

	db := newDatabase(cfg)
	defer db.Close(ctx)

	dbClient := db.Client(ctx)

	if err := persistence.Migrate(ctx, dbClient); err != nil {
		return fmt.Errorf("persistence.Migrate: %w", err)
	}

	masker := logx.NewSensitiveDataMasker()
	httpOpts := []httpx.Option{
		httpx.WithSensitiveDataMasker(masker),
		httpx.WithLogFieldMaxLen(cfg.HTTP.LogFieldMaxLen),
	}

	scorer, err := newScorer(ctx, cfg)
	if err != nil {
		return err
	}

	generator, err := redesign.NewGenerator()
	if err != nil {
		return fmt.Errorf("redesign.NewGenerator: %w", err)
	}

	redesignService := redesign.NewRedesignService(persistence.NewRedesignRepository(dbClient), generator)

	outreachService := outreach.NewOutreachService(outreach.TemplateDrafter{
		SenderName:    cfg.Outreach.SenderName,
		SenderCompany: cfg.Outreach.SenderCompany,
	})

	if cfg.LLM.Enabled() {
		drafter, err := llm.NewDrafter(ctx, llm.Config{
			BaseURL:       cfg.LLM.BaseURL,
			APIKey:        cfg.LLM.APIKey,
			Model:         cfg.LLM.Model,
			ReqPerMinute:  cfg.LLM.ReqPerMinute,
			SenderName:    cfg.Outreach.SenderName,
			SenderCompany: cfg.Outreach.SenderCompany,
		})
		if err != nil {
			return fmt.Errorf("llm.NewDrafter: %w", err)
		}

		outreachService.WithDrafter(drafter)
	}

	g, ctx := errgroup.WithContext(ctx)

	var scheduler review.RedesignScheduler = redesignService

	redis := &connectors.Redis{
		Address:        cfg.Redis.Address,
		Username:       cfg.Redis.Username,
		Password:       cfg.Redis.Password,
		DatabaseNumber: cfg.Redis.DB,
	}
	defer redis.Close(ctx)

	if redis.Enabled() {
		asynqClient := asynq.NewClientFromRedisClient(redis.Client(ctx))
		defer func() {
			if err := asynqClient.Close(); err != nil {
				logger(ctx).Error("asynqClient.Close", logx.Error(err))
			}
		}()

		scheduler = queue.NewRedesignScheduler(asynqClient)

		modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DB,
		}.Run(ctx, g,
			modules.AsynqQueues{queue.QueueRedesigns: redesignQueuePriority},
			worker.NewRedesignWorker(redesignService).Handler(),
		)
	}

	reviewService := review.NewReviewService(
		places.NewClient(places.Config{
			APIKey:     cfg.Places.APIKey,
			BaseURL:    cfg.Places.BaseURL,
			MaxResults: cfg.Places.MaxResults,
			RetryMax:   cfg.Places.RetryMax,
			Timeout:    cfg.Places.Timeout,
		}, httpOpts...),
		website.NewAnalyzer(website.Config{
			Timeout:   cfg.Analyzer.Timeout,
			ReqPerSec: cfg.Analyzer.ReqPerSec,
			Burst:     cfg.Analyzer.Burst,
		}, httpOpts...),
		scorer,
		outreachService,
		scheduler,
		persistence.NewSearchRepository(dbClient),
	).
		WithConcurrency(cfg.Analyzer.Concurrency).
		WithCacheTTL(cfg.Cache.ReviewTTL).
		WithPublicBaseURL(cfg.HTTP.PublicBaseURL)

	if err := runTelegram(ctx, g, cfg.Bot, reviewService); err != nil {
		return err
	}

	if cfg.Scoring.RulesPath != "" {
		watcher := rulesfile.NewWatcher(cfg.Scoring.RulesPath, scorer)

		g.Go(func() error {
			if err := watcher.Run(ctx); err != nil {
				return fmt.Errorf("watcher.Run: %w", err)
			}

			return nil
		})
	}

	redesignServer, err := server.NewRedesignServer(redesignService)
	if err != nil {
		return fmt.Errorf("server.NewRedesignServer: %w", err)
	}

	srv := server.NewServer(
		server.NewReviewServer(reviewService),
		server.NewExportServer(export.NewCSVExporter(cfg.HTTP.PublicBaseURL)),
		redesignServer,
	)

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger(logger(ctx)),
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.HTTP.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.HTTP.LogFieldMaxLen),
	)
	srv.RegisterRoutes(router)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsListenAddress,
	}.Run(ctx, g)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}

// Migrate applies the embedded schema and exits.
func Migrate(ctx context.Context, cfg config.Config) error {
	db := newDatabase(cfg)
	defer db.Close(ctx)

	if err := persistence.Migrate(ctx, db.Client(ctx)); err != nil {
		return fmt.Errorf("persistence.Migrate: %w", err)
	}

	logger(ctx).Info("schema applied", slog.String("driver", cfg.Database.Driver))

	return nil
}

func newDatabase(cfg config.Config) *connectors.Database {
	return &connectors.Database{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
}

func newScorer(ctx context.Context, cfg config.Config) (*scoring.Scorer, error) {
	thresholds := scoring.DefaultThresholds()
	if cfg.Analyzer.SlowPage > 0 {
		thresholds.SlowLoad = cfg.Analyzer.SlowPage
	}

	scorer, err := scoring.NewScorer(scoring.DefaultRules(), thresholds)
	if err != nil {
		return nil, fmt.Errorf("scoring.NewScorer: %w", err)
	}

	if cfg.Scoring.RulesPath == "" {
		return scorer, nil
	}

	if err := rulesfile.NewWatcher(cfg.Scoring.RulesPath, scorer).Reload(ctx); err != nil {
		return nil, fmt.Errorf("watcher.Reload: %w", err)
	}

	return scorer, nil
}

func runTelegram(ctx context.Context, g *errgroup.Group, cfg config.Bot, reviewService *review.ReviewService) error {
	if cfg.Token == "" {
		return nil
	}

	tgBot, err := notifier.NewTelegramBot(cfg.Token)
	if err != nil {
		return fmt.Errorf("notifier.NewTelegramBot: %w", err)
	}

	if cfg.NotifierEnabled() {
		reviewService.WithNotifier(notifier.NewTelegramNotifier(tgBot, cfg.ChatID))
	}

	if cfg.CommandsEnabled() {
		b := bot.New(tgBot, handler.New(reviewService), cfg.AdminID)

		g.Go(func() error {
			if err := b.Run(ctx); err != nil {
				return fmt.Errorf("bot.Run: %w", err)
			}

			return nil
		})
	}

	return nil
}
