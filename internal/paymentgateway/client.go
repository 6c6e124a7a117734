package paymentgateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultTokenTTL = time.Hour
	tokenTTLMargin  = time.Minute
)

type Config struct {
	BaseURL           string
	ConsumerKey       string
	ConsumerSecret    string
	ShortCode         string
	Passkey           string
	TransactionType   string
	CallbackURL       string
	Timeout           time.Duration
	RequestsPerSecond float64
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenCache(tc TokenCache) Option {
	return func(c *Client) { c.tokens = tc }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// Client talks to the Safaricom Daraja API. It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     TokenCache
	logger     *slog.Logger
	now        func() time.Time
}

func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.TransactionType == "" {
		cfg.TransactionType = TransactionTypePayBill
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = int(math.Max(1, math.Ceil(cfg.RequestsPerSecond)))
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		tokens:     NewMemoryTokenCache(),
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timestamp renders t in the gateway's YYYYMMDDHHMMSS form, in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format("20060102150405")
}

func Password(shortCode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))
}

func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c.cfg.ConsumerKey == "" || c.cfg.ConsumerSecret == "" {
		return "", ErrCredentialsMissing
	}
	if token, ok := c.tokens.Get(ctx); ok {
		return token, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+tokenPath, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read token response: %v", ErrUnavailable, err)
	}

	var tr tokenResponse
	_ = json.Unmarshal(body, &tr)

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("%w: token endpoint returned status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK || tr.AccessToken == "" {
		msg := tr.ErrorMessage
		if msg == "" {
			msg = "Failed to get M-Pesa access token"
		}
		return "", &RejectedError{StatusCode: resp.StatusCode, Code: tr.ErrorCode, Message: msg}
	}

	ttl := defaultTokenTTL
	if secs, err := strconv.Atoi(tr.ExpiresIn); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}
	if ttl > tokenTTLMargin {
		ttl -= tokenTTLMargin
	}
	c.tokens.Set(ctx, tr.AccessToken, ttl)

	return tr.AccessToken, nil
}

// STKPush sends the payment prompt. A nil error means the gateway accepted the request;
// the payer's PIN entry arrives later through the callback.
func (c *Client) STKPush(ctx context.Context, in PushInput) (*STKPushResponse, error) {
	if c.cfg.ShortCode == "" || c.cfg.Passkey == "" {
		return nil, ErrCredentialsMissing
	}

	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	ts := Timestamp(c.now())
	payload := STKPushRequest{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          Password(c.cfg.ShortCode, c.cfg.Passkey, ts),
		Timestamp:         ts,
		TransactionType:   c.cfg.TransactionType,
		Amount:            int64(math.Round(in.Amount)),
		PartyA:            in.PhoneNumber,
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       in.PhoneNumber,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  in.AccountReference,
		TransactionDesc:   in.Description,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stk push request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+stkPushPath, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create stk push request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("mpesa: sending stk push",
		"account_reference", in.AccountReference,
		"amount", payload.Amount)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: stk push: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: stk push returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var out STKPushResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode stk push response: %v", ErrUnavailable, err)
	}

	c.logger.Info("mpesa: stk push response",
		"account_reference", in.AccountReference,
		"response_code", out.ResponseCode,
		"checkout_request_id", out.CheckoutRequestID)

	if !out.Accepted() {
		code := out.ErrorCode
		if code == "" {
			code = out.ResponseCode
		}
		return nil, &RejectedError{StatusCode: resp.StatusCode, Code: code, Message: out.failureMessage()}
	}

	return &out, nil
}
