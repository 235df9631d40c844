package redesign

import (
	"context"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"website_revolution/internal/domain"
	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/contextx"
	"website_revolution/pkg/errcodes"
	"website_revolution/pkg/logx"
	"website_revolution/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Repository interface {
	Save(ctx context.Context, redesign entity.Redesign) error
	Get(ctx context.Context, filename value.RedesignFilename) (entity.Redesign, error)
}

type RedesignService struct {
	repo      Repository
	generator *Generator
}

func NewRedesignService(repo Repository, generator *Generator) *RedesignService {
	return &RedesignService{
		repo:      repo,
		generator: generator,
	}
}

// Generate renders and stores a redesign. Regenerating an existing filename
// replaces it.
func (s *RedesignService) Generate(ctx context.Context, req Request) (entity.Redesign, error) {
	redesign, err := s.generator.Generate(req)
	if err != nil {
		return entity.Redesign{}, fmt.Errorf("generator.Generate: %w", err)
	}

	if err := s.repo.Save(ctx, redesign); err != nil {
		return entity.Redesign{}, fmt.Errorf("repo.Save: %w", err)
	}

	metrics.RedesignsGeneratedTotal.Inc()

	logger(ctx).Info("redesign generated",
		logx.Stringer(logx.FieldFilename, redesign.Filename),
		"business", redesign.BusinessName,
	)

	return redesign, nil
}

// Get returns a failure not-found error when no redesign has that filename.
func (s *RedesignService) Get(ctx context.Context, filename value.RedesignFilename) (entity.Redesign, error) {
	redesign, err := s.repo.Get(ctx, filename)
	if err != nil {
		if domain.HasCode(err, errcodes.RedesignNotFound) {
			return entity.Redesign{}, failure.NewNotFoundError(
				err.Error(),
				failure.WithCode(errcodes.RedesignNotFound),
				failure.WithDescription("Redesign Not Found"),
			)
		}

		return entity.Redesign{}, fmt.Errorf("repo.Get: %w", err)
	}

	return redesign, nil
}

// Schedule generates the redesign in the caller's goroutine. It satisfies the
// same contract as the queued scheduler.
func (s *RedesignService) Schedule(ctx context.Context, req Request) error {
	if _, err := s.Generate(ctx, req); err != nil {
		return fmt.Errorf("redesignService.Generate: %w", err)
	}

	return nil
}
