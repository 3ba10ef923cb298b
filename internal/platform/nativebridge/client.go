// Package nativebridge implements the domain.NativePayment port.
//
// Client talks to a device bridge that exposes the Telebirr SDK over HTTP.
// NotLinked stands in when no bridge is configured.
package nativebridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fitstack/telebirr-payments/internal/domain"
)

// DefaultTimeout bounds a single bridge call. It is longer than the default
// plugin timeout of 120 seconds.
const DefaultTimeout = 150 * time.Second

// Client implements domain.NativePayment by making HTTP requests to the
// native bridge.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a new bridge client. A zero timeout uses DefaultTimeout.
func NewClient(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// startPaymentRequest is the JSON body sent to the bridge.
type startPaymentRequest struct {
	AppID       string `json:"appId"`
	ShortCode   string `json:"shortCode"`
	ReceiveCode string `json:"receiveCode"`
}

// startPaymentResponse is the settled SDK result.
type startPaymentResponse struct {
	Code          int    `json:"code"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
	Timestamp     int64  `json:"timestamp"`
}

// errorResponse is a rejection from the native module. The Android module
// rejects with symbolic codes ("PARAMETER_ERROR"), the iOS module with numbers.
type errorResponse struct {
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
}

type appInstalledResponse struct {
	IsInstalled bool `json:"isInstalled"`
}

// StartPayment asks the bridge to launch the Telebirr payment flow and waits
// for it to settle.
func (c *Client) StartPayment(ctx context.Context, appID, shortCode, receiveCode string) (*domain.PaymentResponse, error) {
	url := fmt.Sprintf("%s/payments/start", c.baseURL)

	jsonBody, err := json.Marshal(startPaymentRequest{
		AppID:       appID,
		ShortCode:   shortCode,
		ReceiveCode: receiveCode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, url, jsonBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeRejection(resp)
	}

	var payload startPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &domain.PaymentResponse{
		Code:          payload.Code,
		Message:       payload.Message,
		TransactionID: payload.TransactionID,
		Timestamp:     payload.Timestamp,
	}, nil
}

// IsAppInstalled asks the bridge whether the Telebirr app is installed on
// the device.
func (c *Client) IsAppInstalled(ctx context.Context) (bool, error) {
	url := fmt.Sprintf("%s/app/installed", c.baseURL)

	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, decodeRejection(resp)
	}

	var payload appInstalledResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return payload.IsInstalled, nil
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		req.Header.Set("X-Bridge-API-Key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("bridge request failed",
			zap.String("method", method),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, fmt.Errorf("bridge connection failed: %w: %w", domain.ErrBridgeUnavailable, err)
	}
	c.log.Debug("bridge request",
		zap.String("method", method),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))
	return resp, nil
}

// decodeRejection turns a non-2xx bridge response into a *domain.NativeError
// when the body carries an SDK code, or a plain error otherwise.
func decodeRejection(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("bridge returned status %d: failed to read body: %w", resp.StatusCode, err)
	}

	var rejection errorResponse
	if err := json.Unmarshal(body, &rejection); err != nil || len(rejection.Code) == 0 {
		return fmt.Errorf("bridge returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return &domain.NativeError{
		Code:    parseCode(rejection.Code),
		Message: rejection.Message,
	}
}

// parseCode accepts a numeric code or a symbolic SDK name. Unknown names map
// to the SDK system error.
func parseCode(raw json.RawMessage) int {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if code, ok := domain.ParseErrorCode(name); ok {
			return int(code)
		}
		if n, err := strconv.Atoi(name); err == nil {
			return n
		}
		return int(domain.CodeSystemError)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil && n == float64(int(n)) {
		return int(n)
	}
	return int(domain.CodeSystemError)
}
