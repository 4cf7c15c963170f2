package job

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ServiceTokenConfig configures the service-token transport.
type ServiceTokenConfig struct {
	// Key is the shared HMAC signing key. Required.
	Key []byte

	// Issuer is the iss claim identifying this client.
	Issuer string

	// Audience is the aud claim naming the job service.
	Audience string

	// Subject is the sub claim, typically a stable client id.
	Subject string

	// TokenTTL is the exp horizon for each minted token.
	// Default: 60s
	TokenTTL time.Duration
}

// ServiceTokenTransport is an http.RoundTripper that mints a short-lived
// HS256 bearer token per request. Wrap the HTTP client's transport with
// it when the job service requires authentication.
type ServiceTokenTransport struct {
	base http.RoundTripper
	cfg  ServiceTokenConfig
	now  func() time.Time
}

// NewServiceTokenTransport creates a transport wrapping base. A nil
// base uses http.DefaultTransport.
func NewServiceTokenTransport(base http.RoundTripper, cfg ServiceTokenConfig) *ServiceTokenTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 60 * time.Second
	}

	return &ServiceTokenTransport{base: base, cfg: cfg, now: time.Now}
}

// RoundTrip implements http.RoundTripper. The request is cloned before
// the Authorization header is set, per the RoundTripper contract.
func (t *ServiceTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.mint()
	if err != nil {
		return nil, fmt.Errorf("job: mint service token: %w", err)
	}

	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(cloned)
}

func (t *ServiceTokenTransport) mint() (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(t.cfg.TokenTTL).Unix(),
	}
	if t.cfg.Issuer != "" {
		claims["iss"] = t.cfg.Issuer
	}
	if t.cfg.Audience != "" {
		claims["aud"] = t.cfg.Audience
	}
	if t.cfg.Subject != "" {
		claims["sub"] = t.cfg.Subject
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.Key)
}

// Ensure ServiceTokenTransport implements http.RoundTripper
var _ http.RoundTripper = (*ServiceTokenTransport)(nil)
