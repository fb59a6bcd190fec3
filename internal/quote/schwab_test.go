package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*SchwabClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewSchwabClient(SchwabConfig{
		Credentials: Credentials{AppKey: "key", AppSecret: "secret"},
		TokenURL:    srv.URL + "/v1/oauth/token",
		APIBase:     srv.URL,
		Tokens:      &EnvTokenStore{RefreshToken: "refresh-1"},
	})
	return c, srv
}

func writeToken(w http.ResponseWriter, access string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"access_token":%q,"refresh_token":"refresh-2","expires_in":1800}`, access)
}

func TestSchwabClient_RefreshThenQuotes(t *testing.T) {
	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
		assert.Equal(t, "refresh-1", r.FormValue("refresh_token"))
		writeToken(w, "access-1")
	})
	mux.HandleFunc("/marketdata/v1/quotes", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		assert.Equal(t, "ABCD,WXYZ", r.URL.Query().Get("symbols"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"ABCD": {"quote": {"lastPrice": 48.0, "netChange": -1.2, "bidPrice": 47.9, "askPrice": 48.1, "totalVolume": 120000}},
			"WXYZ": {"lastPrice": 12.5, "bidPrice": 12.4, "askPrice": 12.6}
		}`)
	})

	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	require.True(t, c.Authenticate(ctx))
	assert.True(t, c.Authenticate(ctx), "second call should reuse the cached token")
	assert.Equal(t, int32(1), tokenCalls.Load())

	quotes := c.Quotes(ctx, []string{"ABCD", "WXYZ"})
	require.Len(t, quotes, 2)
	assert.Equal(t, 48.0, quotes["ABCD"].Last)
	assert.Equal(t, int64(120000), quotes["ABCD"].Volume)
	assert.Equal(t, 12.5, quotes["WXYZ"].Last, "flat payload without nested quote object")
}

func TestSchwabClient_RetriesOnceAfter401(t *testing.T) {
	var tokenCalls, quoteCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		writeToken(w, fmt.Sprintf("access-%d", tokenCalls.Add(1)))
	})
	mux.HandleFunc("/marketdata/v1/quotes", func(w http.ResponseWriter, r *http.Request) {
		if quoteCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer access-2", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"ABCD": {"quote": {"lastPrice": 48.0}}}`)
	})

	c, _ := newTestClient(t, mux)
	quotes := c.Quotes(context.Background(), []string{"ABCD"})

	require.Len(t, quotes, 1)
	assert.Equal(t, int32(2), quoteCalls.Load())
	assert.Equal(t, int32(2), tokenCalls.Load(), "initial refresh plus one 401-triggered refresh")
}

func TestSchwabClient_SecondUnauthorizedIsAMiss(t *testing.T) {
	var quoteCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		writeToken(w, "access-1")
	})
	mux.HandleFunc("/marketdata/v1/quotes", func(w http.ResponseWriter, r *http.Request) {
		quoteCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	c, _ := newTestClient(t, mux)
	quotes := c.Quotes(context.Background(), []string{"ABCD"})

	assert.Nil(t, quotes)
	assert.Equal(t, int32(2), quoteCalls.Load(), "exactly one retry after a refresh")
}

func TestSchwabClient_RefreshFailureIsSoft(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	assert.False(t, c.Authenticate(ctx))
	assert.Nil(t, c.Quotes(ctx, []string{"ABCD"}))
	q, ok := c.OptionQuote(ctx, "ABCD", "2026-07-17", 50, model.OptionCall)
	assert.False(t, ok)
	assert.Zero(t, q)
}

func TestSchwabClient_NoRefreshToken(t *testing.T) {
	c := NewSchwabClient(SchwabConfig{
		Credentials: Credentials{AppKey: "key", AppSecret: "secret"},
	})
	assert.False(t, c.Authenticate(context.Background()))
}

func TestSchwabClient_Unconfigured(t *testing.T) {
	c := NewSchwabClient(SchwabConfig{Tokens: &EnvTokenStore{RefreshToken: "refresh-1"}})
	assert.False(t, c.Configured())
	assert.False(t, c.Authenticate(context.Background()))
}

func TestSchwabClient_OptionQuote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		writeToken(w, "access-1")
	})
	mux.HandleFunc("/marketdata/v1/chains", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ABCD", r.URL.Query().Get("symbol"))
		assert.Equal(t, "CALL", r.URL.Query().Get("contractType"))
		assert.Equal(t, "2026-07-17", r.URL.Query().Get("fromDate"))
		assert.Equal(t, "2026-07-17", r.URL.Query().Get("toDate"))
		fmt.Fprint(w, `{
			"callExpDateMap": {
				"2026-07-17:320": {
					"45.0": [{"bid": 5.0, "ask": 5.4, "last": 5.1}],
					"50.0": [{"bid": 1.70, "ask": 1.90, "last": 1.75, "totalVolume": 42, "openInterest": 310, "volatility": 140.5}]
				}
			}
		}`)
	})

	c, _ := newTestClient(t, mux)
	q, ok := c.OptionQuote(context.Background(), "ABCD", "2026-07-17", 50, model.OptionCall)

	require.True(t, ok)
	assert.InDelta(t, 1.80, q.Mid, 1e-9)
	assert.Equal(t, int64(310), q.OpenInterest)
}

func TestSchwabClient_OptionQuoteStrikeMissing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		writeToken(w, "access-1")
	})
	mux.HandleFunc("/marketdata/v1/chains", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"callExpDateMap": {"2026-07-17:320": {"45.0": [{"bid": 5.0, "ask": 5.4}]}}}`)
	})

	c, _ := newTestClient(t, mux)
	_, ok := c.OptionQuote(context.Background(), "ABCD", "2026-07-17", 50, model.OptionCall)
	assert.False(t, ok)
}
