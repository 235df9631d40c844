package handler_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"website_revolution/internal/transport/bot/handler"
	"website_revolution/pkg/contextx"
)

type fakeChatActions struct {
	params []*telego.SendChatActionParams
	err    error
}

func (f *fakeChatActions) SendChatAction(_ context.Context, params *telego.SendChatActionParams) error {
	f.params = append(f.params, params)
	return f.err
}

func TestParseSearchArgs(t *testing.T) {
	tests := []struct {
		text         string
		wantNiche    string
		wantLocation string
		wantOK       bool
	}{
		{text: "/search coffee shops in Austin, TX", wantNiche: "coffee shops", wantLocation: "Austin, TX", wantOK: true},
		{text: "/search@website_bot dentists IN Denver", wantNiche: "dentists", wantLocation: "Denver", wantOK: true},
		{text: "/search bed and breakfast in inverness in Scotland", wantNiche: "bed and breakfast in inverness", wantLocation: "Scotland", wantOK: true},
		{text: "/search coffee shops", wantOK: false},
		{text: "/search in Austin", wantOK: false},
		{text: "/search", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			rq := require.New(t)

			niche, location, ok := handler.ParseSearchArgs(tt.text)
			rq.Equal(tt.wantOK, ok)
			rq.Equal(tt.wantNiche, niche)
			rq.Equal(tt.wantLocation, location)
		})
	}
}

func TestSendTyping(t *testing.T) {
	rq := require.New(t)

	var logs bytes.Buffer
	ctx := contextx.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&logs, nil)))

	ok := &fakeChatActions{}
	handler.SendTyping(ctx, ok, 42)
	rq.Len(ok.params, 1)
	rq.Equal(int64(42), ok.params[0].ChatID.ID)
	rq.Equal(telego.ChatActionTyping, ok.params[0].Action)
	rq.Empty(logs.String())

	failing := &fakeChatActions{err: errors.New("bot was blocked by the user")}
	handler.SendTyping(ctx, failing, 42)
	rq.Len(failing.params, 1)
	rq.Contains(logs.String(), "failed to send chat action")
	rq.Contains(logs.String(), "bot was blocked by the user")
	rq.Contains(logs.String(), "chat-id=42")
}
