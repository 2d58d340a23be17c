package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPProvider forwards charge requests to a payment terminal service
// over HTTP. The service reports outcomes asynchronously by POSTing a
// Result back to this app's callback endpoint with the same ID.
type HTTPProvider struct {
	ChargeURL string
	Client    *http.Client
}

// NewHTTPProvider creates a provider for the given charge endpoint. An
// empty URL means no provider is configured.
func NewHTTPProvider(chargeURL string) *HTTPProvider {
	return &HTTPProvider{
		ChargeURL: chargeURL,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether a charge endpoint is set
func (p *HTTPProvider) Configured() bool {
	return p.ChargeURL != ""
}

// Charge submits the request to the terminal service
func (p *HTTPProvider) Charge(ctx context.Context, req Request) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.ChargeURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("charge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("terminal service returned %s", resp.Status)
	}
	return nil
}
