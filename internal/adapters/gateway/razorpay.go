package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/helpbridge/helpbridge/internal/domain"
)

// Config carries the gateway credentials. Empty credentials leave the client
// unconfigured and callers fall back to mock orders.
type Config struct {
	KeyID     string
	KeySecret string
	APIBase   string
	Timeout   time.Duration
}

// Client talks to a Razorpay-compatible orders API over basic auth.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.razorpay.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Configured() bool {
	return c.cfg.KeyID != "" && c.cfg.KeySecret != ""
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (domain.PaymentOrder, error) {
	if !c.Configured() {
		return domain.PaymentOrder{}, domain.ErrGatewayUnavailable
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return domain.PaymentOrder{}, fmt.Errorf("encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBase+"/orders", bytes.NewReader(body))
	if err != nil {
		return domain.PaymentOrder{}, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return domain.PaymentOrder{}, domain.ErrGatewayUnavailable
		}
		return domain.PaymentOrder{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.PaymentOrder{}, fmt.Errorf("read order response: %w", err)
	}
	if resp.StatusCode >= 500 {
		return domain.PaymentOrder{}, fmt.Errorf("%w: gateway returned %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.PaymentOrder{}, fmt.Errorf("gateway rejected order: status %d: %s", resp.StatusCode, raw)
	}

	var out createOrderResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.PaymentOrder{}, fmt.Errorf("decode order response: %w", err)
	}
	return domain.PaymentOrder{
		OrderID:     out.ID,
		AmountMinor: out.Amount,
		Currency:    out.Currency,
		Status:      out.Status,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// VerifySignature checks the gateway's HMAC-SHA256 over "<orderID>|<paymentID>"
// keyed with the secret, compared in constant time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	if !c.Configured() || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.cfg.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
