package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adiel098/subscribely-serenity-sub007/config"
	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/metrics"
)

func newPaymentUC(
	paymentRepo *mockPaymentRepo,
	memberRepo *mockMemberRepo,
	planRepo *mockPlanRepo,
	registry ProviderRegistry,
	publisher *mockPublisher,
) domain.PaymentUseCase {
	return NewPaymentUseCase(
		paymentRepo,
		memberRepo,
		planRepo,
		registry,
		publisher,
		&config.ProvidersConfig{CallbackBaseURL: "https://membify.example"},
		metrics.GetDefaultMetrics(),
		zerolog.Nop(),
	)
}

func TestMapPlatform(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	planID := uint(4)

	t.Run("FullRecord", func(t *testing.T) {
		p := &domain.PlatformPayment{
			ID: 10, OwnerID: "owner-1", PlanID: &planID, PlanName: "Pro",
			Amount: 2500, Currency: "EUR", Status: domain.PaymentCompleted,
			Provider: domain.ProviderStripe, PayerName: "Dana", CreatedAt: created,
		}

		u := MapPlatform(p)

		if u.Type != domain.SourcePlatform {
			t.Errorf("Expected platform type, got %s", u.Type)
		}
		if u.Payer.Name != "Dana" || u.Payer.ID != "owner-1" {
			t.Errorf("Unexpected payer %+v", u.Payer)
		}
		if u.Currency != "EUR" || u.Amount != 2500 {
			t.Errorf("Unexpected amount %d %s", u.Amount, u.Currency)
		}
	})

	t.Run("MissingPayerAndCurrency", func(t *testing.T) {
		u := MapPlatform(&domain.PlatformPayment{ID: 11, Amount: 100})

		if u.Payer.Name != domain.UnknownPayerName {
			t.Errorf("Expected %q payer, got %q", domain.UnknownPayerName, u.Payer.Name)
		}
		if u.Currency != "USD" {
			t.Errorf("Expected USD default, got %q", u.Currency)
		}
	})
}

func TestMapProject(t *testing.T) {
	t.Run("UsernameAsPayerName", func(t *testing.T) {
		u := MapProject(&domain.ProjectPayment{
			ID: 20, CommunityID: "c-1", TelegramUserID: 777, TelegramUsername: "dana_k",
			Amount: 500, Currency: "USD", Status: domain.PaymentPending, Provider: domain.ProviderPayPal,
		})

		if u.Type != domain.SourceProject {
			t.Errorf("Expected project type, got %s", u.Type)
		}
		if u.Payer.Name != "dana_k" || u.Payer.TelegramID != 777 {
			t.Errorf("Unexpected payer %+v", u.Payer)
		}
		if u.CommunityID != "c-1" {
			t.Errorf("Expected community c-1, got %q", u.CommunityID)
		}
	})

	t.Run("MissingUsername", func(t *testing.T) {
		u := MapProject(&domain.ProjectPayment{ID: 21, TelegramUserID: 888})

		if u.Payer.Name != domain.UnknownPayerName {
			t.Errorf("Expected %q payer, got %q", domain.UnknownPayerName, u.Payer.Name)
		}
		if u.Currency != "USD" {
			t.Errorf("Expected USD default, got %q", u.Currency)
		}
	})
}

func TestReconcile(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	platform := []domain.PlatformPayment{
		{ID: 1, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 2, CreatedAt: base},
	}
	project := []domain.ProjectPayment{
		{ID: 3, CreatedAt: base.Add(3 * time.Hour)},
		{ID: 4, CreatedAt: base.Add(time.Hour)},
	}

	unified := Reconcile(platform, project)

	if len(unified) != 4 {
		t.Fatalf("Expected 4 payments, got %d", len(unified))
	}

	for i := 1; i < len(unified); i++ {
		if unified[i].CreatedAt.After(unified[i-1].CreatedAt) {
			t.Errorf("Payments not sorted newest first at index %d", i)
		}
	}

	if unified[0].ID != 3 || unified[0].Type != domain.SourceProject {
		t.Errorf("Expected project payment 3 first, got %s %d", unified[0].Type, unified[0].ID)
	}

	// same inputs, same output order
	again := Reconcile(platform, project)
	for i := range unified {
		if unified[i].ID != again[i].ID || unified[i].Type != again[i].Type {
			t.Fatalf("Reconcile is not deterministic at index %d", i)
		}
	}
}

func TestCreatePayment(t *testing.T) {
	plan := &domain.SubscriptionPlan{ID: 5, CommunityID: "c-1", Name: "Gold", PriceCents: 999, Currency: "USD", Interval: domain.IntervalMonthly}
	planRepo := &mockPlanRepo{
		getByIDFunc: func(ctx context.Context, id uint) (*domain.SubscriptionPlan, error) {
			return plan, nil
		},
	}

	t.Run("Success", func(t *testing.T) {
		var gotReq domain.InvoiceRequest
		client := &mockProviderClient{
			name: domain.ProviderStripe,
			createInvoiceFunc: func(ctx context.Context, req domain.InvoiceRequest) (*domain.Invoice, error) {
				gotReq = req
				return &domain.Invoice{InvoiceID: "inv-77", PaymentURL: "https://pay.example/inv-77"}, nil
			},
		}
		paymentRepo := &mockPaymentRepo{}
		var recorded *domain.ProjectPayment
		paymentRepo.createProjectFunc = func(ctx context.Context, payment *domain.ProjectPayment) (bool, error) {
			recorded = payment
			return true, nil
		}

		uc := newPaymentUC(paymentRepo, &mockMemberRepo{}, planRepo, &mockRegistry{client: client}, &mockPublisher{})

		invoice, err := uc.CreatePayment(context.Background(), &domain.CreatePaymentRequest{
			CommunityID:    "c-1",
			TelegramUserID: 555,
			PlanID:         5,
			Provider:       domain.ProviderStripe,
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if invoice.InvoiceID != "inv-77" {
			t.Errorf("Expected invoice inv-77, got %s", invoice.InvoiceID)
		}
		if gotReq.Amount != 999 || gotReq.Currency != "USD" || gotReq.Description != "Gold" {
			t.Errorf("Unexpected invoice request %+v", gotReq)
		}
		if gotReq.OrderID == "" {
			t.Error("Expected a generated order id")
		}

		if recorded == nil {
			t.Fatal("Expected a recorded raw payment")
		}
		if recorded.Status != domain.PaymentPending {
			t.Errorf("Expected pending raw payment, got %s", recorded.Status)
		}
		if recorded.PlanName != "Gold" {
			t.Errorf("Expected denormalized plan name, got %q", recorded.PlanName)
		}
		if recorded.InvoiceID != "inv-77" {
			t.Errorf("Expected invoice id on raw payment, got %q", recorded.InvoiceID)
		}
	})

	t.Run("DuplicateInvoice", func(t *testing.T) {
		paymentRepo := &mockPaymentRepo{
			createProjectFunc: func(ctx context.Context, payment *domain.ProjectPayment) (bool, error) {
				return false, nil
			},
		}
		client := &mockProviderClient{name: domain.ProviderStripe}
		uc := newPaymentUC(paymentRepo, &mockMemberRepo{}, planRepo, &mockRegistry{client: client}, &mockPublisher{})

		_, err := uc.CreatePayment(context.Background(), &domain.CreatePaymentRequest{
			CommunityID: "c-1", TelegramUserID: 555, PlanID: 5, Provider: domain.ProviderStripe,
		})
		if err != domain.ErrDuplicatePayment {
			t.Errorf("Expected ErrDuplicatePayment, got %v", err)
		}
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		uc := newPaymentUC(&mockPaymentRepo{}, &mockMemberRepo{}, planRepo, &mockRegistry{}, &mockPublisher{})

		_, err := uc.CreatePayment(context.Background(), &domain.CreatePaymentRequest{
			CommunityID: "c-1", TelegramUserID: 555, PlanID: 5, Provider: "cash",
		})
		if err != domain.ErrUnknownProvider {
			t.Errorf("Expected ErrUnknownProvider, got %v", err)
		}
	})
}

func TestCompletePayment(t *testing.T) {
	pendingPayment := func() *domain.ProjectPayment {
		return &domain.ProjectPayment{
			ID: 30, CommunityID: "c-1", TelegramUserID: 555,
			Amount: 999, Currency: "USD", Status: domain.PaymentPending,
			Provider: domain.ProviderStripe, InvoiceID: "inv-30",
		}
	}

	t.Run("PendingWalksThroughProcessing", func(t *testing.T) {
		paymentRepo := &mockPaymentRepo{
			getProjectByInvoiceFunc: func(ctx context.Context, invoiceID string) (*domain.ProjectPayment, error) {
				return pendingPayment(), nil
			},
		}
		memberRepo := &mockMemberRepo{
			getByTelegramIDFunc: func(ctx context.Context, communityID string, telegramUserID int64) (*domain.Member, error) {
				return &domain.Member{ID: 42, CommunityID: communityID, TelegramUserID: telegramUserID}, nil
			},
		}
		publisher := &mockPublisher{}
		uc := newPaymentUC(paymentRepo, memberRepo, &mockPlanRepo{}, &mockRegistry{}, publisher)

		if err := uc.CompletePayment(context.Background(), "inv-30"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		want := []domain.PaymentStatus{domain.PaymentProcessing, domain.PaymentCompleted}
		if len(paymentRepo.projectTransitions) != len(want) {
			t.Fatalf("Expected transitions %v, got %v", want, paymentRepo.projectTransitions)
		}
		for i, s := range want {
			if paymentRepo.projectTransitions[i] != s {
				t.Errorf("Transition %d: expected %s, got %s", i, s, paymentRepo.projectTransitions[i])
			}
		}

		if len(memberRepo.setLastPaymentCalls) != 1 || memberRepo.setLastPaymentCalls[0] != 42 {
			t.Errorf("Expected last payment recorded for member 42, got %v", memberRepo.setLastPaymentCalls)
		}

		if len(publisher.published) != 1 {
			t.Fatalf("Expected 1 published event, got %d", len(publisher.published))
		}
		if publisher.published[0].topic != domain.TopicPaymentEvents {
			t.Errorf("Expected topic %s, got %s", domain.TopicPaymentEvents, publisher.published[0].topic)
		}
	})

	t.Run("AlreadyCompletedIsNoOp", func(t *testing.T) {
		paymentRepo := &mockPaymentRepo{
			getProjectByInvoiceFunc: func(ctx context.Context, invoiceID string) (*domain.ProjectPayment, error) {
				p := pendingPayment()
				p.Status = domain.PaymentCompleted
				return p, nil
			},
		}
		memberRepo := &mockMemberRepo{}
		uc := newPaymentUC(paymentRepo, memberRepo, &mockPlanRepo{}, &mockRegistry{}, &mockPublisher{})

		if err := uc.CompletePayment(context.Background(), "inv-30"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if len(paymentRepo.projectTransitions) != 0 {
			t.Errorf("Expected no transitions, got %v", paymentRepo.projectTransitions)
		}
		if len(memberRepo.setLastPaymentCalls) != 0 {
			t.Errorf("Expected no member updates, got %v", memberRepo.setLastPaymentCalls)
		}
	})

	t.Run("UnknownInvoice", func(t *testing.T) {
		uc := newPaymentUC(&mockPaymentRepo{}, &mockMemberRepo{}, &mockPlanRepo{}, &mockRegistry{}, &mockPublisher{})

		if err := uc.CompletePayment(context.Background(), "inv-missing"); err != domain.ErrPaymentNotFound {
			t.Errorf("Expected ErrPaymentNotFound, got %v", err)
		}
	})
}

func TestRefundPayment(t *testing.T) {
	paymentRepo := &mockPaymentRepo{
		getProjectByInvoiceFunc: func(ctx context.Context, invoiceID string) (*domain.ProjectPayment, error) {
			return &domain.ProjectPayment{
				ID: 31, CommunityID: "c-1", TelegramUserID: 555,
				Status: domain.PaymentCompleted, InvoiceID: invoiceID,
			}, nil
		},
	}
	publisher := &mockPublisher{}
	uc := newPaymentUC(paymentRepo, &mockMemberRepo{}, &mockPlanRepo{}, &mockRegistry{}, publisher)

	if err := uc.RefundPayment(context.Background(), "inv-31"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(paymentRepo.projectTransitions) != 1 || paymentRepo.projectTransitions[0] != domain.PaymentRefunded {
		t.Errorf("Expected refunded transition, got %v", paymentRepo.projectTransitions)
	}
	if len(publisher.published) != 1 {
		t.Errorf("Expected 1 published event, got %d", len(publisher.published))
	}
}

func TestExpireStalePayments(t *testing.T) {
	t.Run("PassesCutoffAndReportsCount", func(t *testing.T) {
		paymentRepo := &mockPaymentRepo{
			expireStaleFunc: func(ctx context.Context, before time.Time) (int64, error) {
				return 3, nil
			},
		}
		uc := newPaymentUC(paymentRepo, &mockMemberRepo{}, &mockPlanRepo{}, &mockRegistry{}, &mockPublisher{})

		start := time.Now()
		expired, err := uc.ExpireStalePayments(context.Background(), 24*time.Hour)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if expired != 3 {
			t.Errorf("Expected 3 expired, got %d", expired)
		}

		if len(paymentRepo.expireStaleCutoffs) != 1 {
			t.Fatalf("Expected 1 repo call, got %d", len(paymentRepo.expireStaleCutoffs))
		}
		cutoff := paymentRepo.expireStaleCutoffs[0]
		want := start.Add(-24 * time.Hour)
		if cutoff.Before(want.Add(-time.Minute)) || cutoff.After(want.Add(time.Minute)) {
			t.Errorf("Expected cutoff near %v, got %v", want, cutoff)
		}
	})

	t.Run("RepoErrorPropagates", func(t *testing.T) {
		paymentRepo := &mockPaymentRepo{
			expireStaleFunc: func(ctx context.Context, before time.Time) (int64, error) {
				return 0, domain.ErrDatabaseOperation
			},
		}
		uc := newPaymentUC(paymentRepo, &mockMemberRepo{}, &mockPlanRepo{}, &mockRegistry{}, &mockPublisher{})

		if _, err := uc.ExpireStalePayments(context.Background(), time.Hour); err != domain.ErrDatabaseOperation {
			t.Errorf("Expected ErrDatabaseOperation, got %v", err)
		}
	})
}
