package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"website_revolution/internal/domain/entity"
	"website_revolution/pkg/contextx"
	"website_revolution/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	issuesInAlert = 3
	maxMessageLen = 4096
	leadSeparator = "\n\n"
)

type MessageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramNotifier posts Critical leads to a chat.
type TelegramNotifier struct {
	bot    MessageSender
	chatID int64
}

func NewTelegramBot(token string) (*telego.Bot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return bot, nil
}

func NewTelegramNotifier(bot MessageSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
	}
}

// NotifyLeads sends the leads of a run in as few messages as Telegram allows.
func (n *TelegramNotifier) NotifyLeads(ctx context.Context, run entity.SearchRun, leads []entity.Business) error {
	for i, text := range BatchLeads(run, leads) {
		msg := tu.Message(tu.ID(n.chatID), text).WithParseMode(telego.ModeHTML)

		if _, err := n.bot.SendMessage(ctx, msg); err != nil {
			return fmt.Errorf("send message %d: %w", i+1, err)
		}
	}

	logger(ctx).Debug("leads sent", slog.Int(logx.FieldCount, len(leads)))

	return nil
}

// BatchLeads joins formatted leads into messages no longer than
// maxMessageLen characters.
func BatchLeads(run entity.SearchRun, leads []entity.Business) []string {
	var (
		out []string
		sb  strings.Builder
	)

	for _, lead := range leads {
		text := FormatLead(run, lead)

		if sb.Len() > 0 && utf8.RuneCountInString(sb.String())+len(leadSeparator)+utf8.RuneCountInString(text) > maxMessageLen {
			out = append(out, sb.String())
			sb.Reset()
		}

		if sb.Len() > 0 {
			sb.WriteString(leadSeparator)
		}

		sb.WriteString(text)
	}

	if sb.Len() > 0 {
		out = append(out, sb.String())
	}

	return out
}

func FormatLead(run entity.SearchRun, lead entity.Business) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🚨 <b>%s lead</b>: %s\n", lead.Priority().Label(), html.EscapeString(lead.Name))
	fmt.Fprintf(&sb, "📍 %s · %s\n", html.EscapeString(run.Niche), html.EscapeString(run.Location))
	fmt.Fprintf(&sb, "📊 <b>Score:</b> %d/100\n", lead.Score)

	if issues := lead.TopIssues(issuesInAlert); len(issues) > 0 {
		sb.WriteString("\n")
		for _, issue := range issues {
			fmt.Fprintf(&sb, "• %s\n", html.EscapeString(issue))
		}
	}

	sb.WriteString("\n")

	if lead.Website != "" {
		fmt.Fprintf(&sb, "🌐 %s\n", html.EscapeString(lead.Website))
	}

	if lead.Phone != "" {
		fmt.Fprintf(&sb, "📞 %s\n", html.EscapeString(lead.Phone))
	}

	if lead.HasRedesign() {
		fmt.Fprintf(&sb, "🎨 <a href=\"%s\">Redesign preview</a>\n", html.EscapeString(lead.RedesignURL))
	}

	return strings.TrimRight(sb.String(), "\n")
}
