package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/service/redesign"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/contextx"
	"website_revolution/pkg/logx"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

const (
	TypeRedesignGenerate = "redesign:generate"
	QueueRedesigns       = "redesigns"
	redesignMaxRetry     = 3
)

type redesignPayload struct {
	Filename string          `json:"filename"`
	Niche    string          `json:"niche"`
	Location string          `json:"location"`
	Business businessPayload `json:"business"`
}

type businessPayload struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Website     string   `json:"website"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Address     string   `json:"address"`
	Score       int      `json:"score"`
	Issues      []string `json:"issues"`
	RedesignURL string   `json:"redesignUrl"`
}

func NewRedesignTask(req redesign.Request) (*asynq.Task, error) {
	b := req.Business

	payload, err := json.Marshal(redesignPayload{
		Filename: req.Filename.String(),
		Niche:    req.Niche,
		Location: req.Location,
		Business: businessPayload{
			ID:          b.ID,
			Name:        b.Name,
			Website:     b.Website,
			Phone:       b.Phone,
			Email:       b.Email,
			Address:     b.Address,
			Score:       b.Score,
			Issues:      b.Issues,
			RedesignURL: b.RedesignURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(
		TypeRedesignGenerate,
		payload,
		asynq.TaskID(req.Filename.String()),
		asynq.MaxRetry(redesignMaxRetry),
		asynq.Queue(QueueRedesigns),
	), nil
}

// DecodeRedesignTask validates the filename so a tampered payload cannot
// write outside the redesign namespace.
func DecodeRedesignTask(task *asynq.Task) (redesign.Request, error) {
	var p redesignPayload

	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return redesign.Request{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	filename, err := value.ParseRedesignFilename(p.Filename)
	if err != nil {
		return redesign.Request{}, fmt.Errorf("value.ParseRedesignFilename: %w", err)
	}

	return redesign.Request{
		Filename: filename,
		Niche:    p.Niche,
		Location: p.Location,
		Business: entity.Business{
			ID:          p.Business.ID,
			Name:        p.Business.Name,
			Website:     p.Business.Website,
			Phone:       p.Business.Phone,
			Email:       p.Business.Email,
			Address:     p.Business.Address,
			Score:       p.Business.Score,
			Issues:      p.Business.Issues,
			RedesignURL: p.Business.RedesignURL,
		},
	}, nil
}

type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RedesignScheduler queues redesign generation. A filename that is already
// queued is not queued again.
type RedesignScheduler struct {
	client Enqueuer
}

func NewRedesignScheduler(client Enqueuer) *RedesignScheduler {
	return &RedesignScheduler{client: client}
}

func (s *RedesignScheduler) Schedule(ctx context.Context, req redesign.Request) error {
	task, err := NewRedesignTask(req)
	if err != nil {
		return err
	}

	info, err := s.client.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			logger(ctx).Debug("redesign already queued", logx.Stringer(logx.FieldFilename, req.Filename))
			return nil
		}

		return fmt.Errorf("client.EnqueueContext: %w", err)
	}

	logger(ctx).Info("redesign queued",
		logx.Stringer(logx.FieldFilename, req.Filename),
		slog.String("queue", info.Queue),
	)

	return nil
}
