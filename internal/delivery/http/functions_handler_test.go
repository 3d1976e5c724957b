package http

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	pkgerrors "github.com/adiel098/subscribely-serenity-sub007/pkg/errors"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// mockStatusUseCase is a mock implementation of domain.StatusUseCase
type mockStatusUseCase struct {
	checkMemberFunc func(ctx context.Context, communityID string, telegramUserID int64) (*domain.StatusResult, error)
}

func (m *mockStatusUseCase) CheckMember(ctx context.Context, communityID string, telegramUserID int64) (*domain.StatusResult, error) {
	if m.checkMemberFunc != nil {
		return m.checkMemberFunc(ctx, communityID, telegramUserID)
	}
	return &domain.StatusResult{Status: domain.MemberStatusActive}, nil
}

func (m *mockStatusUseCase) SweepCommunity(ctx context.Context, communityID string) (int, error) {
	return 0, nil
}

// mockPaymentUseCase is a mock implementation of domain.PaymentUseCase
type mockPaymentUseCase struct {
	listPaymentsFunc  func(ctx context.Context, ownerID, communityID string) ([]domain.UnifiedPayment, error)
	createPaymentFunc func(ctx context.Context, req *domain.CreatePaymentRequest) (*domain.Invoice, error)
}

func (m *mockPaymentUseCase) ListPayments(ctx context.Context, ownerID, communityID string) ([]domain.UnifiedPayment, error) {
	if m.listPaymentsFunc != nil {
		return m.listPaymentsFunc(ctx, ownerID, communityID)
	}
	return nil, nil
}

func (m *mockPaymentUseCase) CreatePayment(ctx context.Context, req *domain.CreatePaymentRequest) (*domain.Invoice, error) {
	if m.createPaymentFunc != nil {
		return m.createPaymentFunc(ctx, req)
	}
	return &domain.Invoice{InvoiceID: "inv-1", PaymentURL: "https://pay.example/inv-1"}, nil
}

func (m *mockPaymentUseCase) CompletePayment(ctx context.Context, invoiceID string) error {
	return nil
}

func (m *mockPaymentUseCase) RefundPayment(ctx context.Context, invoiceID string) error {
	return nil
}

func (m *mockPaymentUseCase) ExpireStalePayments(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

func newFunctionsHandler(statusUC domain.StatusUseCase, paymentUC domain.PaymentUseCase, broadcastUC domain.BroadcastUseCase) *FunctionsHandler {
	return NewFunctionsHandler(
		statusUC,
		broadcastUC,
		paymentUC,
		pkgerrors.NewMapper(zerolog.Nop()),
		zerolog.Nop(),
	)
}

func invoke(h *FunctionsHandler, name, body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetRequestURI("/functions/" + name)
	ctx.Request.SetBodyString(body)
	h.Handle(ctx, name)
	return ctx
}

func TestFunctionName(t *testing.T) {
	cases := []struct {
		path string
		name string
		ok   bool
	}{
		{"/functions/check-subscription", "check-subscription", true},
		{"/functions/send-broadcast", "send-broadcast", true},
		{"/functions/", "", false},
		{"/functions", "", false},
		{"/functions/a/b", "", false},
		{"/webhook", "", false},
	}

	for _, tc := range cases {
		name, ok := FunctionName(tc.path)
		if name != tc.name || ok != tc.ok {
			t.Errorf("FunctionName(%q) = %q,%v; want %q,%v", tc.path, name, ok, tc.name, tc.ok)
		}
	}
}

func TestCheckSubscriptionFunction(t *testing.T) {
	expires := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	statusUC := &mockStatusUseCase{
		checkMemberFunc: func(ctx context.Context, communityID string, telegramUserID int64) (*domain.StatusResult, error) {
			if communityID != "c-1" || telegramUserID != 555 {
				t.Errorf("Unexpected lookup %s/%d", communityID, telegramUserID)
			}
			return &domain.StatusResult{Status: domain.MemberStatusActive, ExpiresAt: &expires}, nil
		},
	}
	h := newFunctionsHandler(statusUC, &mockPaymentUseCase{}, &mockBroadcastUseCase{})

	ctx := invoke(h, FuncCheckSubscription, `{"community_id":"c-1","telegram_user_id":555}`)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("Expected 200, got %d", ctx.Response.StatusCode())
	}

	var resp struct {
		Data struct {
			Status    string `json:"status"`
			ExpiresAt string `json:"expires_at"`
		} `json:"data"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Data.Status != "active" {
		t.Errorf("Expected active, got %q", resp.Data.Status)
	}
	if resp.Data.ExpiresAt != "2024-04-01T00:00:00Z" {
		t.Errorf("Unexpected expiry %q", resp.Data.ExpiresAt)
	}
}

func TestCheckSubscriptionNotFound(t *testing.T) {
	statusUC := &mockStatusUseCase{
		checkMemberFunc: func(ctx context.Context, communityID string, telegramUserID int64) (*domain.StatusResult, error) {
			return nil, domain.ErrMemberNotFound
		},
	}
	h := newFunctionsHandler(statusUC, &mockPaymentUseCase{}, &mockBroadcastUseCase{})

	ctx := invoke(h, FuncCheckSubscription, `{"community_id":"c-1","telegram_user_id":1}`)

	if ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("Expected 404, got %d", ctx.Response.StatusCode())
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error == "" {
		t.Error("Expected error message in envelope")
	}
}

func TestListPaymentsFunction(t *testing.T) {
	paymentUC := &mockPaymentUseCase{
		listPaymentsFunc: func(ctx context.Context, ownerID, communityID string) ([]domain.UnifiedPayment, error) {
			return []domain.UnifiedPayment{
				{Type: domain.SourceProject, ID: 1, Amount: 500, Payer: domain.Payer{Name: "dana_k"}},
				{Type: domain.SourcePlatform, ID: 2, Amount: 2500, Payer: domain.Payer{Name: domain.UnknownPayerName}},
			}, nil
		},
	}
	h := newFunctionsHandler(&mockStatusUseCase{}, paymentUC, &mockBroadcastUseCase{})

	ctx := invoke(h, FuncListPayments, `{"owner_id":"owner-1","community_id":"c-1"}`)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("Expected 200, got %d", ctx.Response.StatusCode())
	}

	var resp struct {
		Data struct {
			Payments []domain.UnifiedPayment `json:"payments"`
		} `json:"data"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Data.Payments) != 2 {
		t.Fatalf("Expected 2 payments, got %d", len(resp.Data.Payments))
	}
	if resp.Data.Payments[1].Payer.Name != domain.UnknownPayerName {
		t.Errorf("Expected unknown payer fallback, got %q", resp.Data.Payments[1].Payer.Name)
	}
}

func TestCreatePaymentFunction(t *testing.T) {
	paymentUC := &mockPaymentUseCase{
		createPaymentFunc: func(ctx context.Context, req *domain.CreatePaymentRequest) (*domain.Invoice, error) {
			if req.Provider != domain.ProviderNOWPayments {
				t.Errorf("Unexpected provider %s", req.Provider)
			}
			return &domain.Invoice{InvoiceID: "inv-9", PaymentURL: "https://pay.example/inv-9"}, nil
		},
	}
	h := newFunctionsHandler(&mockStatusUseCase{}, paymentUC, &mockBroadcastUseCase{})

	ctx := invoke(h, FuncCreatePayment, `{"community_id":"c-1","telegram_user_id":555,"plan_id":5,"provider":"nowpayments"}`)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("Expected 200, got %d", ctx.Response.StatusCode())
	}

	var resp struct {
		Data struct {
			InvoiceID  string `json:"invoice_id"`
			PaymentURL string `json:"payment_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Data.InvoiceID != "inv-9" || resp.Data.PaymentURL == "" {
		t.Errorf("Unexpected invoice data %+v", resp.Data)
	}
}

func TestUnknownFunction(t *testing.T) {
	h := newFunctionsHandler(&mockStatusUseCase{}, &mockPaymentUseCase{}, &mockBroadcastUseCase{})

	ctx := invoke(h, "mint-tokens", `{}`)

	if ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("Expected 404, got %d", ctx.Response.StatusCode())
	}
}
