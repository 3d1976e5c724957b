package providers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// NOWPaymentsClient creates crypto invoices with the NOWPayments collaborator
type NOWPaymentsClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewNOWPaymentsClient creates a new NOWPayments client
func NewNOWPaymentsClient(baseURL, apiKey string, logger zerolog.Logger) *NOWPaymentsClient {
	return &NOWPaymentsClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// Name returns the provider this client talks to
func (c *NOWPaymentsClient) Name() domain.PaymentProvider {
	return domain.ProviderNOWPayments
}

type nowPaymentsInvoiceRequest struct {
	PriceAmount      float64 `json:"price_amount"`
	PriceCurrency    string  `json:"price_currency"`
	OrderID          string  `json:"order_id"`
	OrderDescription string  `json:"order_description,omitempty"`
	IPNCallbackURL   string  `json:"ipn_callback_url,omitempty"`
}

type nowPaymentsInvoiceResponse struct {
	ID         any    `json:"id"`
	InvoiceURL string `json:"invoice_url"`
}

// CreateInvoice creates a crypto invoice and returns the hosted invoice URL
func (c *NOWPaymentsClient) CreateInvoice(ctx context.Context, req domain.InvoiceRequest) (*domain.Invoice, error) {
	body := nowPaymentsInvoiceRequest{
		PriceAmount:      amountToDecimal(req.Amount),
		PriceCurrency:    req.Currency,
		OrderID:          req.OrderID,
		OrderDescription: req.Description,
		IPNCallbackURL:   req.CallbackURL,
	}

	var resp nowPaymentsInvoiceResponse
	err := postJSON(ctx, c.client, "nowpayments", c.baseURL+"/v1/invoice", map[string]string{
		"x-api-key": c.apiKey,
	}, body, &resp)
	if err != nil {
		c.logger.Error().Err(err).Str("order_id", req.OrderID).Msg("nowpayments invoice creation failed")
		return nil, err
	}

	return &domain.Invoice{
		InvoiceID:  invoiceIDString(resp.ID),
		PaymentURL: resp.InvoiceURL,
	}, nil
}

// invoiceIDString normalizes the id field, which NOWPayments returns either
// as a number or a string
func invoiceIDString(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}
