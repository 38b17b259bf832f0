package handlers

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/icognita1702/festalog/internal/domain"
	"github.com/icognita1702/festalog/pkg/logger"
	"github.com/icognita1702/festalog/pkg/response"
)

// botService is the slice of the bot pipeline the webhook needs.
type botService interface {
	HandleIncoming(ctx context.Context, msg domain.InboundMessage) (string, error)
}

// WebhookHandler receives gateway events for the WhatsApp instance.
type WebhookHandler struct {
	bot botService
}

func NewWebhookHandler(bot botService) *WebhookHandler {
	return &WebhookHandler{bot: bot}
}

// WebhookEvent is the gateway's messages.upsert payload. Only the fields
// this service reads are declared.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Key struct {
			RemoteJid string `json:"remoteJid"`
			FromMe    bool   `json:"fromMe"`
		} `json:"key"`
		PushName string `json:"pushName"`
		Message  struct {
			Conversation        string `json:"conversation"`
			ExtendedTextMessage struct {
				Text string `json:"text"`
			} `json:"extendedTextMessage"`
		} `json:"message"`
	} `json:"data"`
}

// Receive godoc
// @Summary Receive a WhatsApp gateway event
// @Description Handles messages.upsert events; non-text, self-sent and group messages are ignored
// @Tags webhook
// @Accept json
// @Produce json
// @Param event body WebhookEvent true "Gateway event"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /webhook/whatsapp [post]
func (h *WebhookHandler) Receive(c echo.Context) error {
	var event WebhookEvent
	if err := c.Bind(&event); err != nil {
		return response.BadRequest(c, err)
	}

	msg, ok := extractInbound(event)
	if !ok {
		// Acknowledge so the gateway does not retry events we ignore.
		return response.OkWithMessage(c, "Event ignored", nil)
	}

	reply, err := h.bot.HandleIncoming(c.Request().Context(), msg)
	if err != nil {
		logger.Errorf("Bot pipeline failed for %s: %v", msg.SenderNumber, err)
		// The reply was computed even if delivery failed; still acknowledge.
		return response.OkWithMessage(c, "Reply delivery failed", map[string]any{"reply": reply})
	}

	return response.Ok(c, map[string]any{"reply": reply})
}

// extractInbound normalizes the event to (sender, text, name). It filters
// self-sent messages, group chats and non-text payloads.
func extractInbound(event WebhookEvent) (domain.InboundMessage, bool) {
	if event.Event != "" && event.Event != "messages.upsert" {
		return domain.InboundMessage{}, false
	}

	if event.Data.Key.FromMe {
		return domain.InboundMessage{}, false
	}

	jid := event.Data.Key.RemoteJid
	if jid == "" || strings.HasSuffix(jid, "@g.us") {
		return domain.InboundMessage{}, false
	}

	text := event.Data.Message.Conversation
	if text == "" {
		text = event.Data.Message.ExtendedTextMessage.Text
	}
	if strings.TrimSpace(text) == "" {
		return domain.InboundMessage{}, false
	}

	sender := jid
	if at := strings.Index(jid, "@"); at >= 0 {
		sender = jid[:at]
	}

	return domain.InboundMessage{
		SenderNumber: sender,
		Text:         text,
		DisplayName:  event.Data.PushName,
	}, true
}
