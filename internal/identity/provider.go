// Package identity talks to the external identity provider's privileged
// admin API. The only mutation this application ever performs there is
// attaching the boolean admin custom claim to a user record.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Provider is the privileged identity-provider surface the admin handlers
// depend on. Implementations are external services; tests substitute fakes.
type Provider interface {
	// GrantAdmin attaches the admin custom claim to the user identified
	// by email. The claim takes effect on the user's next token refresh.
	GrantAdmin(ctx context.Context, email string) error
}

// HTTPProvider implements Provider against the identity provider's REST
// admin API, authenticated with a server-side API key.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTP creates an HTTPProvider. Returns nil when no endpoint is
// configured, allowing the app to start without admin provisioning.
func NewHTTP(baseURL, apiKey string) *HTTPProvider {
	if baseURL == "" {
		return nil
	}
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// grantRequest is the admin API payload for setting custom claims.
type grantRequest struct {
	Email  string          `json:"email"`
	Claims map[string]bool `json:"claims"`
}

// GrantAdmin calls the provider's setCustomClaims endpoint.
func (p *HTTPProvider) GrantAdmin(ctx context.Context, email string) error {
	payload, err := json.Marshal(grantRequest{
		Email:  email,
		Claims: map[string]bool{"admin": true},
	})
	if err != nil {
		return fmt.Errorf("identity marshal: %w", err)
	}

	url := p.baseURL + "/v1/users:setCustomClaims"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("identity request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("identity API error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
