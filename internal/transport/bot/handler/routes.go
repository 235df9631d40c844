package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"website_revolution/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnSearch, th.CommandEqual("search"))
	adminGroup.HandleMessage(h.OnRecent, th.CommandEqual("recent"))
}
