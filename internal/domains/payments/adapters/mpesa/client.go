// Package mpesa implements the Daraja STK push client.
package mpesa

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
)

const (
	// SandboxBaseURL is Safaricom's test environment.
	SandboxBaseURL = "https://sandbox.safaricom.co.ke"
	// ProductionBaseURL is the live Daraja endpoint.
	ProductionBaseURL = "https://api.safaricom.co.ke"

	oauthPath   = "/oauth/v1/generate"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"

	// Daraja tokens live for an hour; renewing slightly early avoids
	// pushing with a token that expires mid-request.
	tokenTTL = 58 * time.Minute

	timestampLayout = "20060102150405"
)

// Config carries the Daraja credentials and routing for one shortcode.
type Config struct {
	BaseURL         string
	ConsumerKey     string
	ConsumerSecret  string
	ShortCode       string
	Passkey         string
	CallbackURL     string
	TransactionType string
}

// Client pushes STK prompts through Daraja, caching the OAuth token
// between calls.
type Client struct {
	http   *resty.Client
	config Config
	tokens ports.TokenCache
	clock  func() time.Time
}

// Option configures the Client.
type Option func(*Client)

// WithClock overrides the wall clock, for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Client) { c.clock = clock }
}

// NewClient builds a Daraja client. tokens must not be nil; use the
// in-memory cache when Redis is unavailable.
func NewClient(config Config, tokens ports.TokenCache, opts ...Option) *Client {
	if config.BaseURL == "" {
		config.BaseURL = SandboxBaseURL
	}
	if config.TransactionType == "" {
		config.TransactionType = "CustomerPayBillOnline"
	}
	c := &Client{
		http:   resty.New().SetBaseURL(config.BaseURL).SetTimeout(30 * time.Second),
		config: config,
		tokens: tokens,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.StkClient = (*Client)(nil)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type pushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type pushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
	ErrorCode           string `json:"errorCode"`
	ErrorMessage        string `json:"errorMessage"`
}

// Push sends the STK prompt to the subscriber's handset.
func (c *Client) Push(ctx context.Context, push ports.StkPush) (*ports.StkReceipt, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching access token: %w", err)
	}

	timestamp := c.clock().UTC().Format(timestampLayout)
	password := base64.StdEncoding.EncodeToString(
		[]byte(c.config.ShortCode + c.config.Passkey + timestamp))

	var result pushResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(pushRequest{
			BusinessShortCode: c.config.ShortCode,
			Password:          password,
			Timestamp:         timestamp,
			TransactionType:   c.config.TransactionType,
			Amount:            push.AmountShillings,
			PartyA:            push.Phone,
			PartyB:            c.config.ShortCode,
			PhoneNumber:       push.Phone,
			CallBackURL:       c.config.CallbackURL,
			AccountReference:  push.AccountReference,
			TransactionDesc:   push.Description,
		}).
		SetResult(&result).
		SetError(&result).
		Post(stkPushPath)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("stk push failed with status %d: %s %s",
			resp.StatusCode(), result.ErrorCode, result.ErrorMessage)
	}
	return &ports.StkReceipt{
		MerchantRequestID:   result.MerchantRequestID,
		CheckoutRequestID:   result.CheckoutRequestID,
		ResponseCode:        result.ResponseCode,
		ResponseDescription: result.ResponseDescription,
		CustomerMessage:     result.CustomerMessage,
	}, nil
}

// accessToken returns a cached OAuth token, fetching a fresh one when
// the cache is empty.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if token, ok, err := c.tokens.Get(ctx); err == nil && ok {
		return token, nil
	}

	var result tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.config.ConsumerKey, c.config.ConsumerSecret).
		SetQueryParam("grant_type", "client_credentials").
		SetResult(&result).
		Get(oauthPath)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("token request failed with status %d", resp.StatusCode())
	}
	if result.AccessToken == "" {
		return "", errors.New("token response missing access_token")
	}
	if err := c.tokens.Set(ctx, result.AccessToken, tokenTTL); err != nil {
		return "", fmt.Errorf("caching access token: %w", err)
	}
	return result.AccessToken, nil
}
