// Package identity verifies login tokens against the external identity
// provider. The service never checks passwords itself: the client
// obtains an opaque token from the provider and trades it here for a
// profile, which auth then upserts into the local users table.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Profile is what the provider knows about a signed-in person.
type Profile struct {
	OpenID      string `json:"openId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	LoginMethod string `json:"loginMethod"`
}

// Verifier exchanges a provider token for a profile.
type Verifier interface {
	Verify(ctx context.Context, token string) (Profile, error)
}

// HTTPVerifier posts the token to the provider's verification endpoint.
type HTTPVerifier struct {
	URL   string
	httpc *http.Client
}

func NewHTTPVerifier(url string) *HTTPVerifier {
	return &HTTPVerifier{URL: url, httpc: &http.Client{Timeout: 10 * time.Second}}
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) (Profile, error) {
	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return Profile{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.URL, bytes.NewReader(body))
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpc.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("verify token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("verify token: status %d", resp.StatusCode)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("verify token: decode: %w", err)
	}
	if p.OpenID == "" {
		return Profile{}, fmt.Errorf("verify token: empty openId in provider response")
	}
	return p, nil
}

// DevVerifier trusts the token as an openId outright. Used only when no
// provider URL is configured, for local development.
type DevVerifier struct{}

func (DevVerifier) Verify(ctx context.Context, token string) (Profile, error) {
	if token == "" {
		return Profile{}, fmt.Errorf("verify token: empty token")
	}
	return Profile{OpenID: token, LoginMethod: "dev"}, nil
}

// New returns the HTTP verifier when a URL is configured, the dev
// verifier otherwise.
func New(url string) Verifier {
	if url == "" {
		return DevVerifier{}
	}
	return NewHTTPVerifier(url)
}
