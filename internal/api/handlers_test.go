package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitstack/telebirr-payments/internal/domain"
	"github.com/fitstack/telebirr-payments/internal/observability/metrics"
	"github.com/fitstack/telebirr-payments/internal/payment"
	"github.com/fitstack/telebirr-payments/internal/platform/nativebridge"
)

const (
	testAPIKey      = "service-key"
	testReceiveCode = "TELEBIRR$BUYGOODS$5510$0.05$10527506c5822051eae86ffbeba60036387009$120m"
)

type stubNative struct {
	resp      *domain.PaymentResponse
	err       error
	installed bool
}

func (s stubNative) StartPayment(context.Context, string, string, string) (*domain.PaymentResponse, error) {
	return s.resp, s.err
}

func (s stubNative) IsAppInstalled(context.Context) (bool, error) {
	return s.installed, nil
}

func newTestRouter(native domain.NativePayment) *gin.Engine {
	m := metrics.NewCollector()
	svc := payment.NewService(native, zap.NewNop(), payment.WithMetrics(m))
	handler := NewHandler(svc, m, zap.NewNop())
	return SetupRouter(handler, RouterConfig{GinMode: gin.TestMode, ServiceAPIKey: testAPIKey}, zap.NewNop(), m)
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testAPIKey)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validPaymentBody() domain.PaymentRequest {
	return domain.PaymentRequest{AppID: "test-app-id", ShortCode: "1234", ReceiveCode: testReceiveCode}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestStartPayment_Success(t *testing.T) {
	r := newTestRouter(stubNative{resp: &domain.PaymentResponse{Code: 0, Message: "success", TransactionID: "tx-1", Timestamp: 42}})

	w := doRequest(t, r, http.MethodPost, "/api/v1/payments/start", validPaymentBody())

	require.Equal(t, http.StatusOK, w.Code)
	var resp domain.PaymentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.PaymentResponse{Code: 0, Message: "success", TransactionID: "tx-1", Timestamp: 42}, resp)
}

func TestStartPayment_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		native     domain.NativePayment
		body       any
		wantStatus int
		wantType   domain.ErrorType
	}{
		{
			name:       "validation",
			native:     stubNative{},
			body:       domain.PaymentRequest{AppID: "app"},
			wantStatus: http.StatusBadRequest,
			wantType:   domain.ErrorTypeValidation,
		},
		{
			name:       "malformed_body",
			native:     stubNative{},
			body:       `{"appId": 5}`,
			wantStatus: http.StatusBadRequest,
			wantType:   domain.ErrorTypeValidation,
		},
		{
			name:       "user_cancelled",
			native:     stubNative{err: &domain.NativeError{Code: -3, Message: "cancelled"}},
			body:       validPaymentBody(),
			wantStatus: http.StatusPaymentRequired,
			wantType:   domain.ErrorTypePayment,
		},
		{
			name:       "network",
			native:     stubNative{err: &domain.NativeError{Code: -20, Message: "timeout"}},
			body:       validPaymentBody(),
			wantStatus: http.StatusBadGateway,
			wantType:   domain.ErrorTypeNetwork,
		},
		{
			name:       "not_linked",
			native:     nativebridge.NotLinked{},
			body:       validPaymentBody(),
			wantStatus: http.StatusInternalServerError,
			wantType:   domain.ErrorTypeSystem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, newTestRouter(tt.native), http.MethodPost, "/api/v1/payments/start", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantType, resp.Error.Type)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestStartPayment_ErrorBodyCarriesDetails(t *testing.T) {
	w := doRequest(t, newTestRouter(nativebridge.NotLinked{}), http.MethodPost, "/api/v1/payments/start", validPaymentBody())

	resp := decodeError(t, w)
	assert.Equal(t, domain.CodeSystemError, resp.Error.Code)
	assert.Equal(t, domain.SetupSuggestions, resp.Error.Suggestions)
	assert.Equal(t, domain.ErrNotLinked.Error(), resp.Error.Details["reason"])
}

func TestValidatePayment(t *testing.T) {
	r := newTestRouter(stubNative{})

	w := doRequest(t, r, http.MethodPost, "/api/v1/payments/validate", domain.PaymentRequest{
		AppID:       "app",
		ShortCode:   "1234",
		ReceiveCode: "TELEBIRR$BUYGOODS$5510$abc$10527506c5822051eae86ffbeba60036387009$120m",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var result domain.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"receiveCode amount must be a positive number"}, result.Errors)
}

func TestStatusEndpoints(t *testing.T) {
	r := newTestRouter(stubNative{installed: true})

	w := doRequest(t, r, http.MethodGet, "/api/v1/payments/app-installed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isInstalled":true}`, w.Body.String())

	w = doRequest(t, r, http.MethodGet, "/api/v1/payments/configuration", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"configured":true}`, w.Body.String())

	r = newTestRouter(nativebridge.NotLinked{})
	w = doRequest(t, r, http.MethodGet, "/api/v1/payments/configuration", nil)
	assert.JSONEq(t, `{"configured":false}`, w.Body.String())
}

func TestValidatePlugin(t *testing.T) {
	r := newTestRouter(stubNative{})

	w := doRequest(t, r, http.MethodPost, "/api/v1/plugin/validate", map[string]any{
		"appId":       "test-app-id",
		"shortCode":   "1234",
		"environment": "production",
		"timeout":     20,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var ok PluginValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	assert.True(t, ok.Validation.IsValid)
	assert.Equal(t, []string{"timeout less than 30 seconds may cause payment failures"}, ok.Validation.Warnings)
	require.NotNil(t, ok.Config)
	assert.Equal(t, float64(20), ok.Config.Timeout)
	assert.Equal(t, domain.EnvironmentProduction, ok.Config.Environment)

	w = doRequest(t, r, http.MethodPost, "/api/v1/plugin/validate", map[string]any{
		"appId":         "test-app-id",
		"shortCode":     "1234",
		"environment":   "uat",
		"enableLogging": "yes",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var invalid PluginValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invalid))
	assert.False(t, invalid.Validation.IsValid)
	assert.Equal(t, []string{"enableLogging must be a boolean if provided"}, invalid.Validation.Errors)
	assert.Nil(t, invalid.Config)
}

func TestServiceAuth(t *testing.T) {
	r := newTestRouter(stubNative{})

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "wrong_scheme", header: "Basic " + testAPIKey},
		{name: "wrong_key", header: "Bearer nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/app-installed", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(stubNative{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "telebirr_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(stubNative{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/payments/start", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
