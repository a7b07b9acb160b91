package amadeus

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Kiran-230202/Otelier-Explorer/internal/apperr"
)

// expiryBuffer keeps us from presenting a token that is about to lapse
// mid-request.
const expiryBuffer = 10 * time.Second

// TokenCache holds a bearer credential for the upstream API and refreshes it
// on expiry. Concurrent refreshes collapse into a single exchange, so two
// callers racing an expired cache cost one network round trip.
type TokenCache struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	log          zerolog.Logger
	onRefresh    func()

	group singleflight.Group

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	now func() time.Time
}

func NewTokenCache(httpClient *http.Client, baseURL, clientID, clientSecret string, log zerolog.Logger) *TokenCache {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenCache{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		log:          log,
		now:          time.Now,
	}
}

// OnRefresh registers a hook invoked after every successful exchange.
func (c *TokenCache) OnRefresh(fn func()) { c.onRefresh = fn }

// Token returns the cached token while it is fresh, otherwise performs a
// client-credentials exchange. A failed exchange is not cached; the next
// call retries.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && c.now().Before(c.expiresAt) {
		tok := c.token
		c.mu.Unlock()
		return tok, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("token", func() (any, error) {
		// Re-check under the group: the winner of a race may have
		// refreshed already.
		c.mu.Lock()
		if c.token != "" && c.now().Before(c.expiresAt) {
			tok := c.token
			c.mu.Unlock()
			return tok, nil
		}
		c.mu.Unlock()
		return c.exchange(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *TokenCache) exchange(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperr.Wrap(apperr.KindAuth, "build token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.KindAuth, "token exchange failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn().Int("status", resp.StatusCode).Msg("token exchange rejected")
		var env errorEnvelope
		if json.Unmarshal(body, &env) == nil && env.detail() != "" {
			return "", apperr.Authf("token exchange rejected: %s", env.detail())
		}
		return "", apperr.Authf("token exchange rejected with status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", apperr.Wrap(apperr.KindAuth, "decode token response", err)
	}
	if tr.AccessToken == "" {
		return "", apperr.Authf("token exchange returned an empty token")
	}

	c.mu.Lock()
	c.token = tr.AccessToken
	c.expiresAt = c.now().Add(time.Duration(tr.ExpiresIn)*time.Second - expiryBuffer)
	c.mu.Unlock()

	if c.onRefresh != nil {
		c.onRefresh()
	}
	c.log.Debug().Int("expires_in", tr.ExpiresIn).Msg("token refreshed")
	return tr.AccessToken, nil
}
