package http

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	pkgerrors "github.com/adiel098/subscribely-serenity-sub007/pkg/errors"
	"github.com/adiel098/subscribely-serenity-sub007/pkg/httputil"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// Invokable function names
const (
	FuncCheckSubscription = "check-subscription"
	FuncListPayments      = "list-payments"
	FuncCreatePayment     = "create-payment"
	FuncSendBroadcast     = "send-broadcast"
)

// FunctionsHandler serves POST /functions/{name}: JSON in, {data, error} out
type FunctionsHandler struct {
	statusUC    domain.StatusUseCase
	broadcastUC domain.BroadcastUseCase
	paymentUC   domain.PaymentUseCase
	mapper      *pkgerrors.Mapper
	logger      zerolog.Logger
}

// NewFunctionsHandler creates a new functions handler
func NewFunctionsHandler(
	statusUC domain.StatusUseCase,
	broadcastUC domain.BroadcastUseCase,
	paymentUC domain.PaymentUseCase,
	mapper *pkgerrors.Mapper,
	logger zerolog.Logger,
) *FunctionsHandler {
	return &FunctionsHandler{
		statusUC:    statusUC,
		broadcastUC: broadcastUC,
		paymentUC:   paymentUC,
		mapper:      mapper,
		logger:      logger,
	}
}

// Handle routes one function invocation by name
func (h *FunctionsHandler) Handle(ctx *fasthttp.RequestCtx, name string) {
	switch name {
	case FuncCheckSubscription:
		h.checkSubscription(ctx)
	case FuncListPayments:
		h.listPayments(ctx)
	case FuncCreatePayment:
		h.createPayment(ctx)
	case FuncSendBroadcast:
		h.sendBroadcast(ctx)
	default:
		h.logger.Warn().Str("function", name).Msg("Unknown function invoked")
		status, msg := h.mapper.MapErrorToHTTP(domain.ErrUnhandledRoute)
		httputil.WriteErrorResponse(ctx, msg, status)
	}
}

type checkSubscriptionRequest struct {
	CommunityID    string `json:"community_id"`
	TelegramUserID int64  `json:"telegram_user_id"`
}

type checkSubscriptionResponse struct {
	Status    domain.MemberStatus `json:"status"`
	ExpiresAt *string             `json:"expires_at,omitempty"`
}

func (h *FunctionsHandler) checkSubscription(ctx *fasthttp.RequestCtx) {
	var req checkSubscriptionRequest
	if !h.decode(ctx, &req) {
		return
	}

	result, err := h.statusUC.CheckMember(ctx, req.CommunityID, req.TelegramUserID)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	resp := checkSubscriptionResponse{Status: result.Status}
	if result.ExpiresAt != nil {
		formatted := result.ExpiresAt.UTC().Format(time.RFC3339)
		resp.ExpiresAt = &formatted
	}

	httputil.WriteData(ctx, resp)
}

type listPaymentsRequest struct {
	OwnerID     string `json:"owner_id"`
	CommunityID string `json:"community_id"`
}

func (h *FunctionsHandler) listPayments(ctx *fasthttp.RequestCtx) {
	var req listPaymentsRequest
	if !h.decode(ctx, &req) {
		return
	}

	payments, err := h.paymentUC.ListPayments(ctx, req.OwnerID, req.CommunityID)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteData(ctx, map[string]any{"payments": payments})
}

type createPaymentResponse struct {
	InvoiceID  string `json:"invoice_id"`
	PaymentURL string `json:"payment_url"`
}

func (h *FunctionsHandler) createPayment(ctx *fasthttp.RequestCtx) {
	var req domain.CreatePaymentRequest
	if !h.decode(ctx, &req) {
		return
	}

	invoice, err := h.paymentUC.CreatePayment(ctx, &req)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteData(ctx, createPaymentResponse{
		InvoiceID:  invoice.InvoiceID,
		PaymentURL: invoice.PaymentURL,
	})
}

func (h *FunctionsHandler) sendBroadcast(ctx *fasthttp.RequestCtx) {
	var req domain.BroadcastRequest
	if !h.decode(ctx, &req) {
		return
	}

	result, err := h.broadcastUC.SendBroadcast(ctx, &req)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteData(ctx, result)
}

// decode unmarshals the request body, writing a 400 envelope on failure
func (h *FunctionsHandler) decode(ctx *fasthttp.RequestCtx, v any) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		httputil.WriteErrorResponse(ctx, "invalid JSON body", fasthttp.StatusBadRequest)
		return false
	}
	return true
}

func (h *FunctionsHandler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteErrorResponse(ctx, msg, status)
}

// FunctionName extracts the function name from a /functions/{name} path
func FunctionName(path string) (string, bool) {
	name := strings.TrimPrefix(path, "/functions/")
	if name == path || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}
