package providers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// StripeClient creates checkout sessions with the Stripe-like collaborator
type StripeClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewStripeClient creates a new Stripe client
func NewStripeClient(baseURL, apiKey string, logger zerolog.Logger) *StripeClient {
	return &StripeClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// Name returns the provider this client talks to
func (c *StripeClient) Name() domain.PaymentProvider {
	return domain.ProviderStripe
}

type stripeSessionRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	OrderID     string `json:"client_reference_id"`
	Description string `json:"description"`
	SuccessURL  string `json:"success_url"`
}

type stripeSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateInvoice creates a checkout session and returns the redirect URL
func (c *StripeClient) CreateInvoice(ctx context.Context, req domain.InvoiceRequest) (*domain.Invoice, error) {
	body := stripeSessionRequest{
		Amount:      req.Amount,
		Currency:    req.Currency,
		OrderID:     req.OrderID,
		Description: req.Description,
		SuccessURL:  req.CallbackURL,
	}

	var resp stripeSessionResponse
	err := postJSON(ctx, c.client, "stripe", c.baseURL+"/v1/checkout/sessions", map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, body, &resp)
	if err != nil {
		c.logger.Error().Err(err).Str("order_id", req.OrderID).Msg("stripe session creation failed")
		return nil, err
	}

	return &domain.Invoice{
		InvoiceID:  resp.ID,
		PaymentURL: resp.URL,
	}, nil
}
