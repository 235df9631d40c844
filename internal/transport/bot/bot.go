package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"website_revolution/internal/transport/bot/handler"
	"website_revolution/pkg/contextx"
	"website_revolution/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Bot answers admin commands over long polling.
type Bot struct {
	bot     *telego.Bot
	handler *handler.Handler
	adminID int64
}

func New(bot *telego.Bot, h *handler.Handler, adminID int64) *Bot {
	return &Bot{
		bot:     bot,
		handler: h,
		adminID: adminID,
	}
}

// Run blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return fmt.Errorf("failed to get updates: %w", err)
	}

	bh, err := th.NewBotHandler(b.bot, updates)
	if err != nil {
		return fmt.Errorf("failed to create bot handler: %w", err)
	}

	b.handler.RegisterRoutes(bh, b.adminID)

	go func() {
		<-ctx.Done()

		if err := bh.Stop(); err != nil {
			logger(ctx).Error("bot handler stop", logx.Error(err))
		}
	}()

	logger(ctx).Info("telegram bot started")

	if err := bh.Start(); err != nil {
		return fmt.Errorf("bot handler: %w", err)
	}

	logger(ctx).Info("telegram bot stopped")

	return nil
}
