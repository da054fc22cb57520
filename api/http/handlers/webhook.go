package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/artem13815/hrbot/api/http/presenter"
	"github.com/artem13815/hrbot/pkg/conversation"
	"github.com/artem13815/hrbot/pkg/logger"
	"github.com/artem13815/hrbot/pkg/telegram"
)

// SecretHeader carries the secret_token given to setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// EventHandler consumes one conversation event.
type EventHandler interface {
	Handle(ctx context.Context, ev conversation.Event) error
}

// WebhookHandler receives Telegram updates and feeds them to the conversation.
type WebhookHandler struct {
	events EventHandler
	secret string
	log    *zap.Logger
}

func NewWebhookHandler(events EventHandler, secret string, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{events: events, secret: secret, log: logger.OrNop(log).Named("webhook")}
}

// Webhook processes one update to completion before answering.
// @Summary Telegram webhook
// @Tags    telegram
// @Accept  json
// @Produce json
// @Param   update body object true "Telegram Update"
// @Success 200 {object} presenter.StatusResponse
// @Failure 400 {object} presenter.DetailResponse
// @Failure 401 {object} presenter.DetailResponse
// @Failure 500 {object} presenter.DetailResponse
// @Router  /webhook [post]
func (h *WebhookHandler) Webhook(c *fiber.Ctx) error {
	if h.secret != "" && subtle.ConstantTimeCompare([]byte(c.Get(SecretHeader)), []byte(h.secret)) != 1 {
		return presenter.Detail(c, http.StatusUnauthorized, "invalid secret token")
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(c.Body(), &update); err != nil {
		h.log.Warn("decode update", zap.Error(err))
		return presenter.Detail(c, http.StatusBadRequest, "invalid update payload: "+err.Error())
	}

	ev, ok := telegram.EventFromUpdate(update)
	if !ok {
		h.log.Debug("update skipped", zap.Int("update_id", update.UpdateID))
		return presenter.JSON(c, http.StatusOK, presenter.StatusResponse{Status: "ok"})
	}
	if err := h.events.Handle(c.UserContext(), ev); err != nil {
		h.log.Error("handle update", zap.Int("update_id", update.UpdateID), zap.Error(err))
		return presenter.Detail(c, http.StatusInternalServerError, err.Error())
	}
	return presenter.JSON(c, http.StatusOK, presenter.StatusResponse{Status: "ok"})
}
