package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"CloudusAPI/internal/services"
)

type Config struct {
	SecretKey string
	BaseURL   string // defaults to the live API
}

func ConfigFromEnv() Config {
	return Config{
		SecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
	}
}

type Client struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("PAYSTACK_SECRET_KEY not set")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}

	return &Client{
		secretKey: cfg.SecretKey,
		baseURL:   baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

type initializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"` // minor units
	Currency    string            `json:"currency"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// InitializeCheckout calls POST /transaction/initialize. Paystack treats our
// reference as the transaction reference, so webhooks come back with it.
func (c *Client) InitializeCheckout(
	ctx context.Context,
	req services.CheckoutRequest,
) (*services.CheckoutSession, error) {

	body := initializeRequest{
		Email:       req.CustomerEmail,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Reference:   req.Reference,
		CallbackURL: req.SuccessURL,
		Metadata:    req.Metadata,
	}

	b, _ := json.Marshal(body)

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/transaction/initialize",
		bytes.NewBuffer(b),
	)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 || !out.Status {
		if out.Message != "" {
			return nil, errors.New("paystack initialize failed: " + out.Message)
		}
		return nil, errors.New("paystack initialize failed: " + resp.Status)
	}

	return &services.CheckoutSession{
		CheckoutURL: out.Data.AuthorizationURL,
		ProviderRef: out.Data.AccessCode,
	}, nil
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	} `json:"data"`
}

// VerifyEvent recomputes the HMAC-SHA512 of the raw body with the secret key
// and compares it to the x-paystack-signature value.
func (c *Client) VerifyEvent(rawBody []byte, signature string) (*services.PaymentEvent, error) {
	if signature == "" {
		return nil, errors.New("missing x-paystack-signature header")
	}

	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(rawBody)
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(signature)
	if err != nil || !hmac.Equal(expected, got) {
		return nil, errors.New("signature mismatch")
	}

	var ev webhookEvent
	if err := json.Unmarshal(rawBody, &ev); err != nil {
		return nil, err
	}

	out := &services.PaymentEvent{
		Reference: ev.Data.Reference,
		EventType: ev.Event,
		Outcome:   services.OutcomeIgnored,
		Raw:       rawBody,
	}

	switch ev.Event {
	case "charge.success":
		out.Outcome = services.OutcomePaid
	case "charge.failed":
		out.Outcome = services.OutcomeFailed
	}

	return out, nil
}
