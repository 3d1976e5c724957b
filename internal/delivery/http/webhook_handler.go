// Package http exposes the webhook dispatcher, the functions API and the
// ops endpoints
package http

import (
	"encoding/json"
	"strconv"
	"time"

	tgmodels "github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	pkgerrors "github.com/adiel098/subscribely-serenity-sub007/pkg/errors"
	"github.com/adiel098/subscribely-serenity-sub007/pkg/httputil"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/metrics"
)

// routeBroadcast is the body-level route dispatched to the broadcast use case
const routeBroadcast = "/broadcast"

// webhookRoute carries only the routing discriminant. A body with a path is
// an internal command; a body without one is a raw Telegram update. The full
// payload is decoded per route because a Telegram update carries "message"
// as an object where the broadcast command carries a string.
type webhookRoute struct {
	Path string `json:"path"`
}

// WebhookHandler dispatches inbound webhook events
type WebhookHandler struct {
	broadcastUC  domain.BroadcastUseCase
	membershipUC domain.MembershipUseCase
	dedup        domain.EventDedupStore
	mapper       *pkgerrors.Mapper
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(
	broadcastUC domain.BroadcastUseCase,
	membershipUC domain.MembershipUseCase,
	dedup domain.EventDedupStore,
	mapper *pkgerrors.Mapper,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		broadcastUC:  broadcastUC,
		membershipUC: membershipUC,
		dedup:        dedup,
		mapper:       mapper,
		metrics:      m,
		logger:       logger,
	}
}

// Handle processes one webhook delivery
func (h *WebhookHandler) Handle(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	defer func() {
		h.metrics.WebhookHandleDuration.Observe(time.Since(start).Seconds())
	}()

	body := ctx.PostBody()

	var route webhookRoute
	if err := json.Unmarshal(body, &route); err != nil {
		httputil.WriteErrorResponse(ctx, "invalid JSON body", fasthttp.StatusBadRequest)
		return
	}

	switch route.Path {
	case "":
		h.handleUpdate(ctx, body)
	case routeBroadcast:
		h.handleBroadcast(ctx, body)
	default:
		h.metrics.WebhookUnhandled.Inc()
		h.logger.Warn().Str("path", route.Path).Msg("Unhandled webhook route")
		status, msg := h.mapper.MapErrorToHTTP(domain.ErrUnhandledRoute)
		httputil.WriteErrorResponse(ctx, msg, status)
	}
}

// handleBroadcast dispatches a broadcast command. Dedup by event id happens
// inside the use case so the functions API shares the same guarantee.
func (h *WebhookHandler) handleBroadcast(ctx *fasthttp.RequestCtx, body []byte) {
	var req domain.BroadcastRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httputil.WriteErrorResponse(ctx, "invalid JSON body", fasthttp.StatusBadRequest)
		return
	}

	h.metrics.WebhookEventsTotal.WithLabelValues("broadcast").Inc()

	result, err := h.broadcastUC.SendBroadcast(ctx, &req)
	if err != nil {
		status, msg := h.mapper.MapErrorToHTTP(err)
		httputil.WriteErrorResponse(ctx, msg, status)
		return
	}

	httputil.WriteData(ctx, result)
}

// handleUpdate processes a raw Telegram update. Updates are deduplicated by
// update id before any side effect runs.
func (h *WebhookHandler) handleUpdate(ctx *fasthttp.RequestCtx, body []byte) {
	var update tgmodels.Update
	if err := json.Unmarshal(body, &update); err != nil || update.ID == 0 {
		httputil.WriteErrorResponse(ctx, "unrecognized webhook payload", fasthttp.StatusBadRequest)
		return
	}

	eventID := "tg-update:" + strconv.FormatInt(update.ID, 10)
	first, err := h.dedup.MarkProcessed(ctx, eventID)
	if err != nil {
		status, msg := h.mapper.MapErrorToHTTP(err)
		httputil.WriteErrorResponse(ctx, msg, status)
		return
	}

	if !first {
		h.metrics.WebhookDuplicates.Inc()
		httputil.WriteData(ctx, map[string]any{"duplicate": true})
		return
	}

	h.metrics.WebhookEventsTotal.WithLabelValues("update").Inc()

	if update.Message != nil {
		chatID := update.Message.Chat.ID

		for _, user := range update.Message.NewChatMembers {
			if err := h.membershipUC.HandleJoin(ctx, chatID, user.ID, user.Username); err != nil {
				h.logger.Error().Err(err).
					Int64("chat_id", chatID).
					Int64("telegram_user_id", user.ID).
					Msg("Failed to handle member join")
			}
		}

		if left := update.Message.LeftChatMember; left != nil {
			if err := h.membershipUC.HandleLeave(ctx, chatID, left.ID); err != nil {
				h.logger.Error().Err(err).
					Int64("chat_id", chatID).
					Int64("telegram_user_id", left.ID).
					Msg("Failed to handle member leave")
			}
		}
	}

	httputil.WriteData(ctx, map[string]any{"ok": true})
}
