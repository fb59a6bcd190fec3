package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jbpowers9/powersbiostrikes-web/internal/model"
)

const (
	defaultTokenURL = "https://api.schwabapi.com/v1/oauth/token"
	defaultAPIBase  = "https://api.schwabapi.com"
	defaultTimeout  = 30 * time.Second

	// Refresh this many seconds before the reported expiry to avoid using a
	// token that dies mid-request.
	expirySafetyMargin = 60
)

// Credentials are the OAuth2 app key and secret.
type Credentials struct {
	AppKey    string
	AppSecret string
}

// SchwabConfig wires one SchwabClient instance; nothing here is process
// global, so tests can point a client at a local server.
type SchwabConfig struct {
	Credentials Credentials
	TokenURL    string
	APIBase     string
	Tokens      TokenStore
	Timeout     time.Duration
}

// SchwabClient implements Source against the Schwab Trader API, managing the
// OAuth2 refresh-token lifecycle.
type SchwabClient struct {
	cfg    SchwabConfig
	client *http.Client
	now    func() time.Time

	mu    sync.Mutex
	token Token
}

// NewSchwabClient creates a client and loads any cached token pair.
func NewSchwabClient(cfg SchwabConfig) *SchwabClient {
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	c := &SchwabClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		now:    time.Now,
	}
	if cfg.Tokens != nil {
		tok, err := cfg.Tokens.Load()
		if err != nil {
			log.Printf("[WARN] load schwab tokens: %v", err)
		} else {
			c.token = tok
		}
	}
	return c
}

func (c *SchwabClient) Name() string { return "schwab" }

// Configured reports whether app credentials are present.
func (c *SchwabClient) Configured() bool {
	return c.cfg.Credentials.AppKey != "" && c.cfg.Credentials.AppSecret != ""
}

// Authenticate short-circuits on a valid access token, otherwise attempts a
// refresh-token exchange. False means the run proceeds on fallback prices.
func (c *SchwabClient) Authenticate(ctx context.Context) bool {
	if !c.Configured() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token.Valid(c.now()) {
		return true
	}
	return c.refreshLocked(ctx)
}

// refreshLocked exchanges the refresh token for a new access token. Caller
// holds c.mu.
func (c *SchwabClient) refreshLocked(ctx context.Context) bool {
	if c.token.RefreshToken == "" {
		log.Println("[WARN] schwab: no refresh token available")
		return false
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {c.token.RefreshToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		log.Printf("[WARN] schwab: build token request: %v", err)
		return false
	}
	req.SetBasicAuth(c.cfg.Credentials.AppKey, c.cfg.Credentials.AppSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[WARN] schwab: token refresh: %v", err)
		c.token.AccessToken = ""
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[WARN] schwab: token refresh failed: status %d, body: %s", resp.StatusCode, string(body))
		c.token.AccessToken = ""
		return false
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("[WARN] schwab: decode token response: %v", err)
		c.token.AccessToken = ""
		return false
	}

	c.token.AccessToken = payload.AccessToken
	if payload.RefreshToken != "" {
		c.token.RefreshToken = payload.RefreshToken
	}
	expiresIn := payload.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 1800
	}
	c.token.Expiry = c.now().Add(time.Duration(expiresIn-expirySafetyMargin) * time.Second)

	if c.cfg.Tokens != nil {
		if err := c.cfg.Tokens.Save(c.token); err != nil {
			log.Printf("[WARN] schwab: save tokens: %v", err)
		}
	}
	return true
}

// get performs an authenticated GET. On a 401 it refreshes once and retries
// once; a second 401 is a hard miss for this request only.
func (c *SchwabClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if !c.Authenticate(ctx) {
		return nil, fmt.Errorf("schwab: not authenticated")
	}

	for attempt := 0; ; attempt++ {
		endpoint := c.cfg.APIBase + path
		if len(params) > 0 {
			endpoint += "?" + params.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		req.Header.Set("Authorization", "Bearer "+c.token.AccessToken)
		c.mu.Unlock()
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("schwab: %s: %w", path, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("schwab: read %s: %w", path, err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusUnauthorized && attempt == 0:
			c.mu.Lock()
			ok := c.refreshLocked(ctx)
			c.mu.Unlock()
			if !ok {
				return nil, fmt.Errorf("schwab: %s: 401 and refresh failed", path)
			}
			// retry once with the fresh token
		default:
			return nil, fmt.Errorf("schwab: %s: status %d, body: %s", path, resp.StatusCode, string(body))
		}
	}
}

type schwabQuoteFields struct {
	LastPrice                float64 `json:"lastPrice"`
	Mark                     float64 `json:"mark"`
	NetChange                float64 `json:"netChange"`
	NetPercentChangeInDouble float64 `json:"netPercentChangeInDouble"`
	BidPrice                 float64 `json:"bidPrice"`
	AskPrice                 float64 `json:"askPrice"`
	TotalVolume              int64   `json:"totalVolume"`
}

// Quotes fetches a comma-separated batch; a symbol that fails to decode is
// skipped, never fatal for the batch.
func (c *SchwabClient) Quotes(ctx context.Context, symbols []string) map[string]model.LiveQuote {
	if len(symbols) == 0 {
		return nil
	}
	body, err := c.get(ctx, "/marketdata/v1/quotes", url.Values{"symbols": {strings.Join(symbols, ",")}})
	if err != nil {
		log.Printf("[WARN] schwab: batch quotes: %v", err)
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		log.Printf("[WARN] schwab: decode quotes: %v", err)
		return nil
	}

	out := make(map[string]model.LiveQuote, len(raw))
	for symbol, entry := range raw {
		// Quote fields are usually nested under "quote"; fall back to the
		// flat object when they are not.
		var wrapper struct {
			Quote json.RawMessage `json:"quote"`
		}
		payload := entry
		if err := json.Unmarshal(entry, &wrapper); err == nil && len(wrapper.Quote) > 0 {
			payload = wrapper.Quote
		}
		var q schwabQuoteFields
		if err := json.Unmarshal(payload, &q); err != nil {
			log.Printf("[WARN] schwab: decode quote for %s: %v", symbol, err)
			continue
		}
		price := q.LastPrice
		if price == 0 {
			price = q.Mark
		}
		out[symbol] = model.LiveQuote{
			Last:      price,
			NetChange: q.NetChange,
			ChangePct: q.NetPercentChangeInDouble,
			Bid:       q.BidPrice,
			Ask:       q.AskPrice,
			Volume:    q.TotalVolume,
		}
	}
	return out
}

type chainContract struct {
	Bid          float64 `json:"bid"`
	Ask          float64 `json:"ask"`
	Last         float64 `json:"last"`
	TotalVolume  int64   `json:"totalVolume"`
	OpenInterest int64   `json:"openInterest"`
	Volatility   float64 `json:"volatility"`
}

// OptionQuote looks up one contract in the chain for its expiration. The
// chain maps are keyed "<expiration>:<days-to-expiry>" then by strike string.
func (c *SchwabClient) OptionQuote(ctx context.Context, ticker, expiration string, strike float64, optType model.OptionType) (model.OptionQuote, bool) {
	params := url.Values{
		"symbol":        {ticker},
		"contractType":  {string(optType)},
		"strikeCount":   {"10"},
		"includeQuotes": {"true"},
		"fromDate":      {expiration},
		"toDate":        {expiration},
	}
	body, err := c.get(ctx, "/marketdata/v1/chains", params)
	if err != nil {
		log.Printf("[WARN] schwab: option chain %s %s: %v", ticker, expiration, err)
		return model.OptionQuote{}, false
	}

	var chain struct {
		CallExpDateMap map[string]map[string][]chainContract `json:"callExpDateMap"`
		PutExpDateMap  map[string]map[string][]chainContract `json:"putExpDateMap"`
	}
	if err := json.Unmarshal(body, &chain); err != nil {
		log.Printf("[WARN] schwab: decode chain for %s: %v", ticker, err)
		return model.OptionQuote{}, false
	}

	expMap := chain.CallExpDateMap
	if optType == model.OptionPut {
		expMap = chain.PutExpDateMap
	}

	for expKey, strikes := range expMap {
		if !strings.Contains(expKey, expiration) {
			continue
		}
		for strikeKey, contracts := range strikes {
			parsed, err := strconv.ParseFloat(strikeKey, 64)
			if err != nil || len(contracts) == 0 {
				continue
			}
			if parsed != strike {
				continue
			}
			opt := contracts[0]
			mid := opt.Last
			if opt.Bid > 0 && opt.Ask > 0 {
				mid = (opt.Bid + opt.Ask) / 2
			}
			return model.OptionQuote{
				Bid:          opt.Bid,
				Ask:          opt.Ask,
				Last:         opt.Last,
				Mid:          mid,
				Volume:       opt.TotalVolume,
				OpenInterest: opt.OpenInterest,
				IV:           opt.Volatility,
			}, true
		}
	}

	log.Printf("[WARN] schwab: strike %.2f not found in %s chain for %s", strike, expiration, ticker)
	return model.OptionQuote{}, false
}
