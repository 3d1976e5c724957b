// Package providers contains the outbound REST clients for the external
// payment collaborators
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	pkgerrors "github.com/adiel098/subscribely-serenity-sub007/pkg/errors"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

const requestTimeout = 30 * time.Second

// Registry resolves the client for a requested payment provider
type Registry struct {
	clients map[domain.PaymentProvider]domain.ProviderClient
}

// NewRegistry builds a registry from the given clients
func NewRegistry(clients ...domain.ProviderClient) *Registry {
	m := make(map[domain.PaymentProvider]domain.ProviderClient, len(clients))
	for _, c := range clients {
		m[c.Name()] = c
	}
	return &Registry{clients: m}
}

// ByName returns the client for the provider, or ErrUnknownProvider
func (r *Registry) ByName(provider domain.PaymentProvider) (domain.ProviderClient, error) {
	c, ok := r.clients[provider]
	if !ok {
		return nil, domain.ErrUnknownProvider
	}
	return c, nil
}

// providerError is the error body shape shared by the payment collaborators
type providerError struct {
	Message string `json:"message"`
}

// postJSON performs a JSON POST and decodes the response into out.
// Non-2xx responses are surfaced as upstream errors carrying the
// collaborator's message.
func postJSON(ctx context.Context, client *http.Client, name string, url string, headers map[string]string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal request: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return pkgerrors.NewUpstreamErrorf("%s: %v", name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.NewUpstreamErrorf("%s: failed to read response: %v", name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var perr providerError
		if err := json.Unmarshal(data, &perr); err == nil && perr.Message != "" {
			return pkgerrors.NewUpstreamErrorf("%s: %s", name, perr.Message)
		}
		return pkgerrors.NewUpstreamErrorf("%s: unexpected status %d", name, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return pkgerrors.NewUpstreamErrorf("%s: failed to decode response: %v", name, err)
		}
	}

	return nil
}

// amountToDecimal converts minor units to a decimal major-unit amount
func amountToDecimal(amount int64) float64 {
	return float64(amount) / 100
}
