package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hopefund/backend/internal/config"
	"github.com/hopefund/backend/pkg/logger"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// PaymentOrder is the provider-side order handshake artifact. Amount is in
// minor currency units (paise for INR).
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// RazorpayClient creates provider-side payment orders and verifies the
// provider's completion signatures.
type RazorpayClient struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

func NewRazorpayClient(cfg *config.RazorpayConfig) *RazorpayClient {
	return &RazorpayClient{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   razorpayBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateOrder creates a payment order with the provider. amount is in major
// units; the provider receives minor units (x100, truncated).
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount float64, currency string) (*PaymentOrder, error) {
	body, err := json.Marshal(map[string]interface{}{
		"amount":          int64(amount * 100),
		"currency":        currency,
		"payment_capture": 1,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(raw)).
			Msg("razorpay order creation rejected")
		return nil, fmt.Errorf("razorpay order creation failed: status %d", resp.StatusCode)
	}

	var order PaymentOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("razorpay order decode failed: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	return &order, nil
}

// VerifySignature checks the provider's completion callback: the signature
// must be the hex HMAC-SHA256 of "orderID|paymentID" under the key secret.
// Pure local check, constant-time comparison, no network call.
func (c *RazorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
