package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	pkgerrors "github.com/adiel098/subscribely-serenity-sub007/pkg/errors"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// PayPalClient creates checkout orders with the PayPal-like collaborator
type PayPalClient struct {
	baseURL  string
	clientID string
	secret   string
	client   *http.Client
	logger   zerolog.Logger
}

// NewPayPalClient creates a new PayPal client
func NewPayPalClient(baseURL, clientID, secret string, logger zerolog.Logger) *PayPalClient {
	return &PayPalClient{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		client:   &http.Client{Timeout: requestTimeout},
		logger:   logger,
	}
}

// Name returns the provider this client talks to
func (c *PayPalClient) Name() domain.PaymentProvider {
	return domain.ProviderPayPal
}

type paypalOrderRequest struct {
	Intent        string       `json:"intent"`
	PurchaseUnits []paypalUnit `json:"purchase_units"`
}

type paypalUnit struct {
	ReferenceID string       `json:"reference_id"`
	Description string       `json:"description,omitempty"`
	Amount      paypalAmount `json:"amount"`
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalOrderResponse struct {
	ID    string `json:"id"`
	Links []struct {
		Rel  string `json:"rel"`
		Href string `json:"href"`
	} `json:"links"`
}

// CreateInvoice creates an order and returns the approval URL
func (c *PayPalClient) CreateInvoice(ctx context.Context, req domain.InvoiceRequest) (*domain.Invoice, error) {
	body := paypalOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalUnit{
			{
				ReferenceID: req.OrderID,
				Description: req.Description,
				Amount: paypalAmount{
					CurrencyCode: req.Currency,
					Value:        fmt.Sprintf("%.2f", amountToDecimal(req.Amount)),
				},
			},
		},
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.secret))

	var resp paypalOrderResponse
	err := postJSON(ctx, c.client, "paypal", c.baseURL+"/v2/checkout/orders", map[string]string{
		"Authorization": "Basic " + auth,
	}, body, &resp)
	if err != nil {
		c.logger.Error().Err(err).Str("order_id", req.OrderID).Msg("paypal order creation failed")
		return nil, err
	}

	for _, link := range resp.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			return &domain.Invoice{InvoiceID: resp.ID, PaymentURL: link.Href}, nil
		}
	}

	return nil, pkgerrors.NewUpstreamError("paypal: order response carries no approval link")
}
