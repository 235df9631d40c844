package dashboard

import (
	"context"
	"errors"
	"sync"

	"website_revolution/internal/domain/value"
	"website_revolution/pkg/logx"
	"website_revolution/pkg/rest"
)

type PreviewState interface {
	previewState()
}

type PreviewLoading struct{}

type PreviewLoaded struct {
	Redesign rest.Redesign
}

type PreviewNotFound struct{}

type PreviewFailed struct {
	Message string
}

func (PreviewLoading) previewState()  {}
func (PreviewLoaded) previewState()   {}
func (PreviewNotFound) previewState() {}
func (PreviewFailed) previewState()   {}

type RedesignAPI interface {
	Redesign(ctx context.Context, filename string) (rest.Redesign, error)
}

// Preview loads one redesign by the filename taken from the navigation path.
type Preview struct {
	api RedesignAPI

	mu    sync.Mutex
	state PreviewState
}

func NewPreview(api RedesignAPI) *Preview {
	return &Preview{
		api:   api,
		state: PreviewLoading{},
	}
}

func (p *Preview) Load(ctx context.Context, filename string) PreviewState {
	p.set(PreviewLoading{})

	next := p.load(ctx, filename)
	p.set(next)

	return next
}

func (p *Preview) load(ctx context.Context, filename string) PreviewState {
	if _, err := value.ParseRedesignFilename(filename); err != nil {
		return PreviewNotFound{}
	}

	redesign, err := p.api.Redesign(ctx, filename)
	switch {
	case err == nil:
		return PreviewLoaded{Redesign: redesign}
	case errors.Is(err, ErrRedesignNotFound):
		return PreviewNotFound{}
	case errors.Is(err, ErrTransport):
		logger(ctx).Warn("redesign request failed", logx.Error(err))
		return PreviewFailed{Message: MsgNetworkError}
	default:
		logger(ctx).Warn("redesign request failed", logx.Error(err))
		return PreviewFailed{Message: MsgGenericError}
	}
}

func (p *Preview) State() PreviewState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

func (p *Preview) set(s PreviewState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}
