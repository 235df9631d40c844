package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/service/redesign"
	"website_revolution/internal/infrastructure/queue"
	"website_revolution/pkg/application/modules"
	"website_revolution/pkg/contextx"
	"website_revolution/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type RedesignGenerator interface {
	Generate(ctx context.Context, req redesign.Request) (entity.Redesign, error)
}

// RedesignWorker renders redesigns queued by the review pipeline.
type RedesignWorker struct {
	generator RedesignGenerator
}

func NewRedesignWorker(generator RedesignGenerator) *RedesignWorker {
	return &RedesignWorker{generator: generator}
}

func (w *RedesignWorker) Handler() modules.AsynqHandler {
	return modules.AsynqHandler{
		Pattern: queue.TypeRedesignGenerate,
		Handle:  w.Handle,
	}
}

// Handle does not retry payloads that cannot be decoded.
func (w *RedesignWorker) Handle(ctx context.Context, task *asynq.Task) error {
	req, err := queue.DecodeRedesignTask(task)
	if err != nil {
		return fmt.Errorf("queue.DecodeRedesignTask: %v: %w", err, asynq.SkipRetry)
	}

	ctx = contextx.WithLogger(ctx, logger(ctx).With(
		logx.Stringer(logx.FieldFilename, req.Filename),
		slog.String(logx.FieldBusinessID, req.Business.ID),
	))

	if _, err := w.generator.Generate(ctx, req); err != nil {
		logger(ctx).Error("redesign generation failed", logx.Error(err))
		return fmt.Errorf("generator.Generate: %w", err)
	}

	return nil
}
