package handler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"website_revolution/internal/domain"
	"website_revolution/internal/domain/value"
	"website_revolution/internal/transport/bot/view"
	"website_revolution/pkg/logx"
)

const (
	leadsInReply  = 10
	recentInReply = 10
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnSearch(ctx *th.Context, msg telego.Message) error {
	niche, location, ok := ParseSearchArgs(msg.Text)
	if !ok {
		return h.sendText(ctx, msg.Chat.ID, view.SearchUsage)
	}

	query, err := value.NewSearchQuery(location, niche)
	if err != nil {
		return h.sendText(ctx, msg.Chat.ID, view.SearchUsage)
	}

	SendTyping(ctx, ctx.Bot(), msg.Chat.ID)

	run, err := h.svc.Search(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrSetupRequired) {
			return h.sendText(ctx, msg.Chat.ID, view.SetupRequired)
		}

		if sendErr := h.sendText(ctx, msg.Chat.ID, "❌ Search failed, please try again."); sendErr != nil {
			logger(ctx).Error("failed to send search failure", logx.Error(sendErr))
		}

		return fmt.Errorf("svc.Search: %w", err)
	}

	if len(run.Businesses) == 0 {
		return h.sendText(ctx, msg.Chat.ID, view.NoResults)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔎 <b>%s</b>: %d businesses\n\n", html.EscapeString(query.Text()), len(run.Businesses))

	for i, b := range run.Businesses {
		if i == leadsInReply {
			break
		}

		issue := "No issues found"
		if top := b.TopIssues(1); len(top) > 0 {
			issue = top[0]
		}

		fmt.Fprintf(&sb, view.LeadTemplate,
			i+1,
			html.EscapeString(b.Name),
			b.Score,
			b.Priority().Label(),
			html.EscapeString(issue),
		)
	}

	return h.sendHTML(ctx, msg.Chat.ID, sb.String())
}

func (h *Handler) OnRecent(ctx *th.Context, msg telego.Message) error {
	runs, err := h.svc.RecentSearches(ctx, recentInReply)
	if err != nil {
		return fmt.Errorf("svc.RecentSearches: %w", err)
	}

	if len(runs) == 0 {
		return h.sendText(ctx, msg.Chat.ID, view.NoSearches)
	}

	var sb strings.Builder
	for _, r := range runs {
		fmt.Fprintf(&sb, view.SearchTemplate,
			html.EscapeString(r.Niche),
			html.EscapeString(r.Location),
			r.ResultCount,
			r.CreatedAt.Format(time.DateTime),
		)
	}

	return h.sendHTML(ctx, msg.Chat.ID, sb.String())
}

// SendTyping shows the typing indicator. A failure only affects the indicator
// and is logged.
func SendTyping(ctx context.Context, bot ChatActionSender, chatID int64) {
	err := bot.SendChatAction(ctx, tu.ChatAction(tu.ID(chatID), telego.ChatActionTyping))
	if err != nil {
		logger(ctx).Warn("failed to send chat action",
			logx.Error(err),
			slog.Int64(logx.FieldChatID, chatID),
		)
	}
}

// ParseSearchArgs splits "/search <niche> in <location>" on the last " in ".
func ParseSearchArgs(text string) (string, string, bool) {
	_, _, args := tu.ParseCommand(text)
	rest := strings.Join(args, " ")

	i := strings.LastIndex(strings.ToLower(rest), " in ")
	if i < 0 {
		return "", "", false
	}

	niche := strings.TrimSpace(rest[:i])
	location := strings.TrimSpace(rest[i+len(" in "):])

	if niche == "" || location == "" {
		return "", "", false
	}

	return niche, location, true
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
	return err
}

func (h *Handler) sendText(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(chatID), text))
	return err
}
