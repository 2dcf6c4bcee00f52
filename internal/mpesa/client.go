package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/markjakearzadon/mindcare-gobackend/internal/config"
)

const (
	tokenPath = "/oauth/v1/generate?grant_type=client_credentials"
	stkPath   = "/mpesa/stkpush/v1/processrequest"

	transactionType   = "CustomerPayBillOnline"
	timestampLayout   = "20060102150405"
	defaultRejectText = "Failed to initiate payment"

	// ResponseCodeAccepted is the ResponseCode of an STK push the provider
	// has queued for the payer.
	ResponseCodeAccepted = "0"
)

type stkPushRequest struct {
	BusinessShortCode string      `json:"BusinessShortCode"`
	Password          string      `json:"Password"`
	Timestamp         string      `json:"Timestamp"`
	TransactionType   string      `json:"TransactionType"`
	Amount            json.Number `json:"Amount"`
	PartyA            string      `json:"PartyA"`
	PartyB            string      `json:"PartyB"`
	PhoneNumber       string      `json:"PhoneNumber"`
	CallBackURL       string      `json:"CallBackURL"`
	AccountReference  string      `json:"AccountReference"`
	TransactionDesc   string      `json:"TransactionDesc"`
}

// Acceptance is the provider's answer to an STK push that reached it.
// Raw holds the payload exactly as received.
type Acceptance struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage,omitempty"`

	// Phone is the normalised number the push was sent to.
	Phone string          `json:"-"`
	Raw   json.RawMessage `json:"-"`
}

func (a *Acceptance) Accepted() bool {
	return a.ResponseCode == ResponseCodeAccepted
}

type Client struct {
	cfg        config.MpesaConfig
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(cfg config.MpesaConfig, logger *slog.Logger, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "mpesa")),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AccessToken exchanges the consumer key and secret for a bearer token.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+tokenPath, nil)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.ErrorContext(ctx, "access token rejected", "status", resp.StatusCode, "body", string(body))
		return "", &AuthError{StatusCode: resp.StatusCode}
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   string `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", &AuthError{Err: fmt.Errorf("decode token response: %w", err)}
	}
	if token.AccessToken == "" {
		return "", &AuthError{Err: fmt.Errorf("empty access token")}
	}
	return token.AccessToken, nil
}

// Password derives the STK push password for the given timestamp.
func (c *Client) Password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.cfg.ShortCode + c.cfg.Passkey + timestamp))
}

// Timestamp formats t the way the STK push API expects.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Initiate sends an STK push prompt to phone. It does not persist anything.
func (c *Client) Initiate(ctx context.Context, phone string, amount decimal.Decimal, referenceCode, description string) (*Acceptance, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := Timestamp(c.now())
	formatted := NormalizePhone(phone)

	payload := stkPushRequest{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          c.Password(timestamp),
		Timestamp:         timestamp,
		TransactionType:   transactionType,
		Amount:            json.Number(amount.String()),
		PartyA:            formatted,
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       formatted,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  referenceCode,
		TransactionDesc:   description,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal stk push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+stkPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create stk push request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	c.logger.InfoContext(ctx, "sending stk push",
		"phone", MaskPhone(formatted), "amount", amount.String(), "reference", referenceCode)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stk push request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read stk push response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var fault struct {
			RequestID    string `json:"requestId"`
			ErrorCode    string `json:"errorCode"`
			ErrorMessage string `json:"errorMessage"`
		}
		_ = json.Unmarshal(raw, &fault)
		msg := fault.ErrorMessage
		if msg == "" {
			msg = defaultRejectText
		}
		return nil, &RequestError{StatusCode: resp.StatusCode, Code: fault.ErrorCode, Message: msg, Body: string(raw)}
	}

	var acc Acceptance
	if err := json.Unmarshal(raw, &acc); err != nil {
		return nil, fmt.Errorf("decode stk push response: %w", err)
	}
	acc.Phone = formatted
	acc.Raw = json.RawMessage(raw)
	return &acc, nil
}
