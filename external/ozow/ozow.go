package ozow

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"CloudusAPI/internal/services"
)

type Config struct {
	SiteCode    string
	CountryCode string // defaults to ZA
	APIKey      string
	PrivateKey  string
	IsTest      bool
	BaseURL     string // defaults to the live API
}

func ConfigFromEnv() Config {
	return Config{
		SiteCode:   os.Getenv("OZOW_SITE_CODE"),
		APIKey:     os.Getenv("OZOW_API_KEY"),
		PrivateKey: os.Getenv("OZOW_PRIVATE_KEY"),
		IsTest:     os.Getenv("OZOW_IS_TEST") == "true",
	}
}

type Client struct {
	siteCode    string
	countryCode string
	apiKey      string
	privateKey  string
	isTest      bool
	baseURL     string
	client      *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.SiteCode == "" {
		return nil, errors.New("OZOW_SITE_CODE not set")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("OZOW_API_KEY not set")
	}
	if cfg.PrivateKey == "" {
		return nil, errors.New("OZOW_PRIVATE_KEY not set")
	}

	countryCode := cfg.CountryCode
	if countryCode == "" {
		countryCode = "ZA"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.ozow.com"
	}

	return &Client{
		siteCode:    cfg.SiteCode,
		countryCode: countryCode,
		apiKey:      cfg.APIKey,
		privateKey:  cfg.PrivateKey,
		isTest:      cfg.IsTest,
		baseURL:     baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// CanonicalHash is the SHA-512 hex digest over the field values taken in
// alphabetical key order, upper-cased, with the private key appended.
func CanonicalHash(fields map[string]string, privateKey string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(strings.ToUpper(fields[k]))
	}
	sb.WriteString(privateKey)

	sum := sha512.Sum512([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// minorToDecimal renders minor units the way Ozow wants amounts, e.g. 30000 -> "300.00".
func minorToDecimal(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}

type paymentRequestResponse struct {
	PaymentRequestID string  `json:"paymentRequestId"`
	URL              string  `json:"url"`
	ErrorMessage     *string `json:"errorMessage"`
}

// InitializeCheckout calls POST /postpaymentrequest with a hashed request and
// returns the hosted payment page URL.
func (c *Client) InitializeCheckout(
	ctx context.Context,
	req services.CheckoutRequest,
) (*services.CheckoutSession, error) {

	fields := map[string]string{
		"SiteCode":             c.siteCode,
		"CountryCode":          c.countryCode,
		"CurrencyCode":         req.Currency,
		"Amount":               minorToDecimal(req.Amount),
		"TransactionReference": req.Reference,
		"BankReference":        req.Reference,
		"CancelUrl":            req.CancelURL,
		"ErrorUrl":             req.CancelURL,
		"SuccessUrl":           req.SuccessURL,
		"NotifyUrl":            req.CallbackURL,
		"IsTest":               fmt.Sprintf("%t", c.isTest),
	}

	payload := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload["HashCheck"] = CanonicalHash(fields, c.privateKey)

	b, _ := json.Marshal(payload)

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/postpaymentrequest",
		bytes.NewBuffer(b),
	)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("ApiKey", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, errors.New("ozow payment request failed: " + resp.Status)
	}

	var out paymentRequestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.ErrorMessage != nil && *out.ErrorMessage != "" {
		return nil, errors.New("ozow payment request failed: " + *out.ErrorMessage)
	}
	if out.URL == "" {
		return nil, errors.New("ozow payment request returned no url")
	}

	return &services.CheckoutSession{
		CheckoutURL: out.URL,
		ProviderRef: out.PaymentRequestID,
	}, nil
}

// VerifyEvent recomputes the canonical hash over the notification fields and
// compares it (case-insensitively) to the supplied Hash. Ozow carries the hash
// in the body, not a header, so the signature argument is unused.
func (c *Client) VerifyEvent(rawBody []byte, _ string) (*services.PaymentEvent, error) {
	fields, err := parseNotification(rawBody)
	if err != nil {
		return nil, err
	}

	hash, ok := fields["Hash"]
	if !ok || hash == "" {
		return nil, errors.New("missing Hash field")
	}
	delete(fields, "Hash")

	if !strings.EqualFold(CanonicalHash(fields, c.privateKey), hash) {
		return nil, errors.New("hash mismatch")
	}

	out := &services.PaymentEvent{
		Reference: fields["TransactionReference"],
		EventType: "ozow." + strings.ToLower(fields["Status"]),
		Outcome:   services.OutcomeIgnored,
		Raw:       rawBody,
	}

	switch strings.ToUpper(fields["Status"]) {
	case "COMPLETE":
		out.Outcome = services.OutcomePaid
	case "CANCELLED", "ERROR", "ABANDONED":
		out.Outcome = services.OutcomeFailed
	}

	return out, nil
}

// parseNotification accepts either JSON or form-encoded notification bodies.
func parseNotification(rawBody []byte) (map[string]string, error) {
	trimmed := bytes.TrimSpace(rawBody)

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var raw map[string]any
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, err
		}
		fields := make(map[string]string, len(raw))
		for k, v := range raw {
			switch val := v.(type) {
			case string:
				fields[k] = val
			case nil:
				fields[k] = ""
			default:
				fields[k] = fmt.Sprint(val)
			}
		}
		return fields, nil
	}

	values, err := url.ParseQuery(string(trimmed))
	if err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(values))
	for k := range values {
		fields[k] = values.Get(k)
	}
	return fields, nil
}
