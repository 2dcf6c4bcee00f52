package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
	"github.com/markjakearzadon/mindcare-gobackend/internal/mpesa"
	"github.com/markjakearzadon/mindcare-gobackend/internal/services"
	"github.com/markjakearzadon/mindcare-gobackend/internal/store"
)

type stubGateway struct {
	calls int
	acc   *mpesa.Acceptance
	err   error
}

func (g *stubGateway) Initiate(_ context.Context, phone string, _ decimal.Decimal, _, _ string) (*mpesa.Acceptance, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	acc := *g.acc
	acc.Phone = mpesa.NormalizePhone(phone)
	return &acc, nil
}

const acceptedRaw = `{"MerchantRequestID":"m-1","CheckoutRequestID":"ws_CO_1","ResponseCode":"0","ResponseDescription":"Success. Request accepted for processing","CustomerMessage":"Success. Request accepted for processing"}`

type mpesaFixture struct {
	router  *mux.Router
	gateway *stubGateway
	store   *store.Memory
}

func newMpesaFixture(t *testing.T, dev bool) *mpesaFixture {
	t.Helper()
	var acc mpesa.Acceptance
	require.NoError(t, json.Unmarshal([]byte(acceptedRaw), &acc))
	acc.Raw = json.RawMessage(acceptedRaw)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &mpesaFixture{gateway: &stubGateway{acc: &acc}, store: store.NewMemory()}
	svc := services.NewMpesaService(f.gateway, f.store, logger)

	f.router = mux.NewRouter()
	NewMpesaHandler(svc, NewResponder(logger, dev)).Register(f.router.PathPrefix("/api").Subrouter())
	return f
}

func (f *mpesaFixture) do(method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestInitiateAccepted(t *testing.T) {
	f := newMpesaFixture(t, false)

	rec, body := f.do(http.MethodPost, "/api/initiate", `{"phoneNumber":"0712345678","amount":100,"referenceCode":"REF-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "STK Push initiated successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "ws_CO_1", data["CheckoutRequestID"])
	assert.Equal(t, "0", data["ResponseCode"])

	tx, err := f.store.GetByCheckoutID(t.Context(), "ws_CO_1")
	require.NoError(t, err)
	assert.Equal(t, "254712345678", tx.PhoneNumber)
	assert.Equal(t, "Payment", tx.Description)
}

func TestInitiateValidation(t *testing.T) {
	f := newMpesaFixture(t, false)

	rec, body := f.do(http.MethodPost, "/api/initiate", `{"phoneNumber":"0712345678","amount":0,"referenceCode":"REF-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Validation error", body["message"])
	assert.Contains(t, body["error"], "amount")
	assert.Equal(t, 0, f.gateway.calls)

	all, _ := f.store.List(t.Context())
	assert.Empty(t, all)
}

func TestInitiateRejectsInexactOrQuotedAmounts(t *testing.T) {
	for _, amount := range []string{`0.99999999999999999`, `"500"`, `123456789012`} {
		t.Run(amount, func(t *testing.T) {
			f := newMpesaFixture(t, false)

			rec, body := f.do(http.MethodPost, "/api/initiate", `{"phoneNumber":"0712345678","amount":`+amount+`,"referenceCode":"REF-1"}`)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, body["error"], "amount")
			assert.Equal(t, 0, f.gateway.calls)

			all, _ := f.store.List(t.Context())
			assert.Empty(t, all)
		})
	}
}

func TestInitiateMalformedBody(t *testing.T) {
	f := newMpesaFixture(t, false)

	rec, _ := f.do(http.MethodPost, "/api/initiate", `{"phoneNumber":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.gateway.calls)
}

func TestInitiateProviderRejected(t *testing.T) {
	f := newMpesaFixture(t, false)
	f.gateway.err = &mpesa.RequestError{StatusCode: 400, Message: "Bad Request - Invalid PhoneNumber"}

	rec, body := f.do(http.MethodPost, "/api/initiate", `{"phoneNumber":"0712345678","amount":10,"referenceCode":"R"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Bad Request - Invalid PhoneNumber", body["message"])
	assert.NotContains(t, body, "stack")
}

func TestInitiateAuthFailureHidesDetail(t *testing.T) {
	f := newMpesaFixture(t, false)
	f.gateway.err = &mpesa.AuthError{StatusCode: 401}

	rec, body := f.do(http.MethodPost, "/api/initiate", `{"phoneNumber":"0712345678","amount":10,"referenceCode":"R"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, body, "error")
	assert.NotContains(t, body, "stack")
}

func TestInitiateDevModeExposesDetail(t *testing.T) {
	f := newMpesaFixture(t, true)
	f.gateway.err = &mpesa.AuthError{StatusCode: 401}

	_, body := f.do(http.MethodPost, "/api/initiate", `{"phoneNumber":"0712345678","amount":10,"referenceCode":"R"}`)
	assert.Contains(t, body["error"], "status 401")
	assert.NotEmpty(t, body["stack"])
}

const callbackBody = `{"Body":{"stkCallback":{"MerchantRequestID":"m-1","CheckoutRequestID":"ws_CO_1","ResultCode":0,"ResultDesc":"ok","CallbackMetadata":{"Item":[{"Name":"Amount","Value":100},{"Name":"MpesaReceiptNumber","Value":"ABC123"}]}}}}`

func TestCallbackFlow(t *testing.T) {
	f := newMpesaFixture(t, false)
	rec, _ := f.do(http.MethodPost, "/api/initiate", `{"phoneNumber":"0712345678","amount":100,"referenceCode":"REF-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := f.do(http.MethodPost, "/api/callback", callbackBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Callback processed successfully", body["message"])

	rec, body = f.do(http.MethodGet, "/api/transaction/ws_CO_1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "ABC123", data["mpesaReceiptNumber"])
	assert.Equal(t, true, data["isComplete"])
	assert.Equal(t, true, data["isSuccessful"])
	assert.Equal(t, string(models.StatusSuccess), data["status"])
}

func TestCallbackUnknownCheckoutIsAcknowledged(t *testing.T) {
	f := newMpesaFixture(t, false)

	rec, body := f.do(http.MethodPost, "/api/callback", callbackBody)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	all, _ := f.store.List(t.Context())
	assert.Empty(t, all)
}

func TestCallbackBadShape(t *testing.T) {
	f := newMpesaFixture(t, false)

	for _, in := range []string{
		`{}`,
		`{"Body":{}}`,
		`{"Body":{"stkCallback":{"MerchantRequestID":"m","CheckoutRequestID":"c","ResultCode":"0","ResultDesc":"x"}}}`,
		`{"Body":{"stkCallback":{"MerchantRequestID":"m","CheckoutRequestID":"c","ResultDesc":"x"}}}`,
		`{"Body":{"stkCallback":{"CheckoutRequestID":"c","ResultCode":0,"ResultDesc":"x"}}}`,
		`{"Body":{"stkCallback":{"MerchantRequestID":1,"CheckoutRequestID":"c","ResultCode":0,"ResultDesc":"x"}}}`,
		`not json`,
	} {
		rec, body := f.do(http.MethodPost, "/api/callback", in)
		assert.Equal(t, http.StatusBadRequest, rec.Code, in)
		assert.Equal(t, "Invalid callback data format", body["message"], in)
	}
}

func TestCallbackEmptyMerchantRequestID(t *testing.T) {
	f := newMpesaFixture(t, false)
	rec, _ := f.do(http.MethodPost, "/api/initiate", `{"phoneNumber":"0712345678","amount":100,"referenceCode":"REF-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := f.do(http.MethodPost, "/api/callback",
		`{"Body":{"stkCallback":{"MerchantRequestID":"","CheckoutRequestID":"ws_CO_1","ResultCode":1032,"ResultDesc":"Request cancelled by user"}}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	tx, err := f.store.GetByCheckoutID(t.Context(), "ws_CO_1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, tx.Status)
}

func TestGetTransactionNotFound(t *testing.T) {
	f := newMpesaFixture(t, false)

	rec, body := f.do(http.MethodGet, "/api/transaction/ws_CO_missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Transaction not found", body["message"])
}

func TestGetTransactionsAlwaysArray(t *testing.T) {
	f := newMpesaFixture(t, false)

	rec, _ := f.do(http.MethodGet, "/api/transactions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())

	f.do(http.MethodPost, "/api/initiate", `{"phoneNumber":"0712345678","amount":100,"referenceCode":"REF-1"}`)
	_, body := f.do(http.MethodGet, "/api/transactions", "")
	assert.Len(t, body["data"], 1)
}
