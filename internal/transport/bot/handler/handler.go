package handler

import (
	"context"

	"github.com/mymmrac/telego"

	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Searcher interface {
	Search(ctx context.Context, query value.SearchQuery) (entity.SearchRun, error)
	RecentSearches(ctx context.Context, limit int) ([]entity.SearchSummary, error)
}

type ChatActionSender interface {
	SendChatAction(ctx context.Context, params *telego.SendChatActionParams) error
}

type Handler struct {
	svc Searcher
}

func New(svc Searcher) *Handler {
	return &Handler{svc: svc}
}
