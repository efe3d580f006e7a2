package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cachememory "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/cache/memory"
	"github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
)

type darajaStub struct {
	t          *testing.T
	tokenCalls int
	pushCalls  int
	lastPush   pushRequest

	tokenStatus int
	pushStatus  int
	pushBody    map[string]any
}

func newDarajaStub(t *testing.T) *darajaStub {
	return &darajaStub{
		t:           t,
		tokenStatus: http.StatusOK,
		pushStatus:  http.StatusOK,
		pushBody: map[string]any{
			"MerchantRequestID":   "29115-34620561-1",
			"CheckoutRequestID":   "ws_CO_191220191020363925",
			"ResponseCode":        "0",
			"ResponseDescription": "Success. Request accepted for processing",
			"CustomerMessage":     "Success. Request accepted for processing",
		},
	}
}

func (s *darajaStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case oauthPath:
		s.tokenCalls++
		user, pass, ok := r.BasicAuth()
		assert.True(s.t, ok)
		assert.Equal(s.t, "consumer-key", user)
		assert.Equal(s.t, "consumer-secret", pass)
		assert.Equal(s.t, "client_credentials", r.URL.Query().Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.tokenStatus)
		if s.tokenStatus == http.StatusOK {
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": "token-abc",
				"expires_in":   "3599",
			})
		}
	case stkPushPath:
		s.pushCalls++
		assert.Equal(s.t, "Bearer token-abc", r.Header.Get("Authorization"))
		assert.NoError(s.t, json.NewDecoder(r.Body).Decode(&s.lastPush))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.pushStatus)
		json.NewEncoder(w).Encode(s.pushBody)
	default:
		s.t.Errorf("unexpected request path %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, stub *darajaStub, clock func() time.Time) *Client {
	t.Helper()
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)
	return NewClient(Config{
		BaseURL:        server.URL,
		ConsumerKey:    "consumer-key",
		ConsumerSecret: "consumer-secret",
		ShortCode:      "174379",
		Passkey:        "passkey-sandbox",
		CallbackURL:    "https://api.farmart.example/v1/payments/callback",
	}, cachememory.NewTokenCacheWithClock(clock), WithClock(clock))
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestPush_SendsSignedRequest(t *testing.T) {
	at := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	stub := newDarajaStub(t)
	client := newTestClient(t, stub, fixedClock(at))

	receipt, err := client.Push(context.Background(), ports.StkPush{
		Phone:            "254712345678",
		AmountShillings:  1601,
		AccountReference: "FARMART-7",
		Description:      "Galla Goat",
	})
	require.NoError(t, err)

	assert.Equal(t, "ws_CO_191220191020363925", receipt.CheckoutRequestID)
	assert.Equal(t, "29115-34620561-1", receipt.MerchantRequestID)
	assert.Equal(t, "0", receipt.ResponseCode)

	wantPassword := base64.StdEncoding.EncodeToString(
		[]byte("174379" + "passkey-sandbox" + "20260115103000"))
	assert.Equal(t, wantPassword, stub.lastPush.Password)
	assert.Equal(t, "20260115103000", stub.lastPush.Timestamp)
	assert.Equal(t, "CustomerPayBillOnline", stub.lastPush.TransactionType)
	assert.Equal(t, int64(1601), stub.lastPush.Amount)
	assert.Equal(t, "254712345678", stub.lastPush.PartyA)
	assert.Equal(t, "174379", stub.lastPush.PartyB)
	assert.Equal(t, "254712345678", stub.lastPush.PhoneNumber)
	assert.Equal(t, "https://api.farmart.example/v1/payments/callback", stub.lastPush.CallBackURL)
	assert.Equal(t, "FARMART-7", stub.lastPush.AccountReference)
	assert.Equal(t, "Galla Goat", stub.lastPush.TransactionDesc)
}

func TestPush_ReusesCachedToken(t *testing.T) {
	at := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	stub := newDarajaStub(t)
	client := newTestClient(t, stub, fixedClock(at))

	for i := 0; i < 3; i++ {
		_, err := client.Push(context.Background(), ports.StkPush{
			Phone: "254712345678", AmountShillings: 100, AccountReference: "FARMART-1",
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, stub.tokenCalls)
	assert.Equal(t, 3, stub.pushCalls)
}

func TestPush_RefreshesExpiredToken(t *testing.T) {
	at := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	stub := newDarajaStub(t)
	client := newTestClient(t, stub, func() time.Time { return at })

	_, err := client.Push(context.Background(), ports.StkPush{
		Phone: "254712345678", AmountShillings: 100, AccountReference: "FARMART-1",
	})
	require.NoError(t, err)

	at = at.Add(tokenTTL + time.Minute)
	_, err = client.Push(context.Background(), ports.StkPush{
		Phone: "254712345678", AmountShillings: 100, AccountReference: "FARMART-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stub.tokenCalls)
}

func TestPush_SurfacesGatewayError(t *testing.T) {
	stub := newDarajaStub(t)
	stub.pushStatus = http.StatusBadRequest
	stub.pushBody = map[string]any{
		"errorCode":    "400.002.02",
		"errorMessage": "Bad Request - Invalid PhoneNumber",
	}
	client := newTestClient(t, stub, fixedClock(time.Now()))

	_, err := client.Push(context.Background(), ports.StkPush{
		Phone: "254712345678", AmountShillings: 100, AccountReference: "FARMART-1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400.002.02")
	assert.Contains(t, err.Error(), "Invalid PhoneNumber")
}

func TestPush_FailsWhenTokenRequestFails(t *testing.T) {
	stub := newDarajaStub(t)
	stub.tokenStatus = http.StatusUnauthorized
	client := newTestClient(t, stub, fixedClock(time.Now()))

	_, err := client.Push(context.Background(), ports.StkPush{
		Phone: "254712345678", AmountShillings: 100, AccountReference: "FARMART-1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching access token")
	assert.Zero(t, stub.pushCalls)
}
