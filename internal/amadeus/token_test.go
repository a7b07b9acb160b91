package amadeus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Kiran-230202/Otelier-Explorer/internal/apperr"
)

func tokenServer(t *testing.T, expiresIn int, calls *atomic.Int64, delay time.Duration) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		require.Equal(t, "id", r.PostForm.Get("client_id"))
		require.Equal(t, "secret", r.PostForm.Get("client_secret"))

		if delay > 0 {
			time.Sleep(delay)
		}
		n := calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-" + string(rune('a'+n-1)),
			"expires_in":   expiresIn,
		})
	}))
}

func TestTokenCache_ReusesWithinTTL(t *testing.T) {
	var calls atomic.Int64
	srv := tokenServer(t, 3600, &calls, 0)
	defer srv.Close()

	tc := NewTokenCache(srv.Client(), srv.URL, "id", "secret", zerolog.Nop())

	tok1, err := tc.Token(context.Background())
	require.NoError(t, err)
	tok2, err := tc.Token(context.Background())
	require.NoError(t, err)

	require.Equal(t, tok1, tok2)
	require.EqualValues(t, 1, calls.Load())
}

func TestTokenCache_RefreshesAfterExpiry(t *testing.T) {
	var calls atomic.Int64
	srv := tokenServer(t, 3600, &calls, 0)
	defer srv.Close()

	tc := NewTokenCache(srv.Client(), srv.URL, "id", "secret", zerolog.Nop())

	_, err := tc.Token(context.Background())
	require.NoError(t, err)

	// Jump past the TTL; the next call must exchange again.
	tc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = tc.Token(context.Background())
	require.NoError(t, err)

	require.EqualValues(t, 2, calls.Load())
}

func TestTokenCache_ExpiryBufferApplied(t *testing.T) {
	var calls atomic.Int64
	// expires_in below the safety buffer: the stored expiry is already in
	// the past, so every call exchanges.
	srv := tokenServer(t, 5, &calls, 0)
	defer srv.Close()

	tc := NewTokenCache(srv.Client(), srv.URL, "id", "secret", zerolog.Nop())

	_, err := tc.Token(context.Background())
	require.NoError(t, err)
	_, err = tc.Token(context.Background())
	require.NoError(t, err)

	require.EqualValues(t, 2, calls.Load())
}

func TestTokenCache_ConcurrentRefreshCollapses(t *testing.T) {
	// The cache adds a single-flight guarantee on top of the contract:
	// concurrent calls in the expired state cost one exchange.
	var calls atomic.Int64
	srv := tokenServer(t, 3600, &calls, 30*time.Millisecond)
	defer srv.Close()

	tc := NewTokenCache(srv.Client(), srv.URL, "id", "secret", zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tc.Token(context.Background())
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, calls.Load())
}

func TestTokenCache_FailureNotCached(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	}))
	defer srv.Close()

	tc := NewTokenCache(srv.Client(), srv.URL, "id", "secret", zerolog.Nop())

	_, err := tc.Token(context.Background())
	require.Error(t, err)
	require.Equal(t, apperr.KindAuth, apperr.KindOf(err))

	tok, err := tc.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok", tok)
	require.EqualValues(t, 2, calls.Load())
}
