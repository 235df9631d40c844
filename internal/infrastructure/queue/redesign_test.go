package queue_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/service/redesign"
	"website_revolution/internal/domain/value"
	"website_revolution/internal/infrastructure/queue"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (e *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if e.err != nil {
		return nil, e.err
	}

	e.tasks = append(e.tasks, task)

	return &asynq.TaskInfo{ID: "x", Queue: queue.QueueRedesigns, Type: task.Type()}, nil
}

func request() redesign.Request {
	return redesign.Request{
		Filename: value.NewRedesignFilename("Cafe Nowhere", "p-none"),
		Niche:    "coffee shops",
		Location: "Austin",
		Business: entity.Business{
			ID:     "p-none",
			Name:   "Cafe Nowhere",
			Phone:  "+1 555 0101",
			Score:  15,
			Issues: []string{"No website found"},
		},
	}
}

func TestRedesignTaskRoundTrip(t *testing.T) {
	rq := require.New(t)

	task, err := queue.NewRedesignTask(request())
	rq.NoError(err)
	rq.Equal(queue.TypeRedesignGenerate, task.Type())

	got, err := queue.DecodeRedesignTask(task)
	rq.NoError(err)
	rq.Equal(request(), got)
}

func TestDecodeRedesignTaskRejectsBadFilename(t *testing.T) {
	rq := require.New(t)

	task := asynq.NewTask(queue.TypeRedesignGenerate, []byte(`{"filename":"../../etc/passwd"}`))

	_, err := queue.DecodeRedesignTask(task)
	rq.ErrorIs(err, value.ErrInvalidRedesignFilename)

	_, err = queue.DecodeRedesignTask(asynq.NewTask(queue.TypeRedesignGenerate, []byte(`not json`)))
	rq.Error(err)
}

func TestRedesignSchedulerSchedule(t *testing.T) {
	rq := require.New(t)

	enq := &fakeEnqueuer{}
	rq.NoError(queue.NewRedesignScheduler(enq).Schedule(context.Background(), request()))
	rq.Len(enq.tasks, 1)

	conflict := &fakeEnqueuer{err: asynq.ErrTaskIDConflict}
	rq.NoError(queue.NewRedesignScheduler(conflict).Schedule(context.Background(), request()))

	broken := &fakeEnqueuer{err: errors.New("redis down")}
	rq.Error(queue.NewRedesignScheduler(broken).Schedule(context.Background(), request()))
}
