// Package api contains the HTTP handlers and routing for the payment service.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fitstack/telebirr-payments/internal/domain"
	"github.com/fitstack/telebirr-payments/internal/observability/metrics"
	"github.com/fitstack/telebirr-payments/internal/payment"
	"github.com/fitstack/telebirr-payments/internal/plugin"
	"github.com/fitstack/telebirr-payments/internal/validation"
)

// Handler contains the HTTP handlers for the payment API.
type Handler struct {
	paymentService *payment.Service
	metrics        *metrics.Collector
	log            *zap.Logger
}

// NewHandler creates a new API handler with the payment service.
func NewHandler(paymentService *payment.Service, m *metrics.Collector, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		paymentService: paymentService,
		metrics:        m,
		log:            log,
	}
}

// ErrorBody is the JSON shape of a PaymentError.
type ErrorBody struct {
	Code        domain.PaymentErrorCode `json:"code"`
	Message     string                  `json:"message"`
	Type        domain.ErrorType        `json:"type"`
	Details     map[string]any          `json:"details,omitempty"`
	Suggestions []string                `json:"suggestions,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// PluginValidationResponse is the response of the plugin validation endpoint.
type PluginValidationResponse struct {
	Validation domain.ValidationResult `json:"validation"`
	Config     *domain.ResolvedConfig  `json:"config,omitempty"`
}

// StartPayment handles POST /payments/start
// Runs a payment attempt and waits for the native module to settle it.
func (h *Handler) StartPayment(c *gin.Context) {
	var req domain.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, domain.NewPaymentError(domain.CodeValidationError,
			"Invalid request body: "+err.Error(), domain.ErrorTypeValidation))
		return
	}

	resp, err := h.paymentService.StartPayment(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ValidatePayment handles POST /payments/validate
// Checks a payment request without starting a payment.
func (h *Handler) ValidatePayment(c *gin.Context) {
	var req domain.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, domain.NewPaymentError(domain.CodeValidationError,
			"Invalid request body: "+err.Error(), domain.ErrorTypeValidation))
		return
	}

	result := validation.ValidatePaymentRequest(req)
	h.metrics.RecordValidation(metrics.SubjectPaymentRequest, result)
	c.JSON(http.StatusOK, result)
}

// AppInstalled handles GET /payments/app-installed
func (h *Handler) AppInstalled(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"isInstalled": h.paymentService.IsAppInstalled(c.Request.Context()),
	})
}

// Configuration handles GET /payments/configuration
func (h *Handler) Configuration(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"configured": h.paymentService.ValidateConfiguration(c.Request.Context()),
	})
}

// ValidatePlugin handles POST /plugin/validate
// Validates raw plugin options and returns the resolved configuration.
func (h *Handler) ValidatePlugin(c *gin.Context) {
	var opts domain.PluginOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		handleServiceError(c, domain.NewPaymentError(domain.CodeValidationError,
			"Invalid request body: "+err.Error(), domain.ErrorTypeValidation))
		return
	}

	cfg, result, err := plugin.Resolve(opts)
	h.metrics.RecordValidation(metrics.SubjectPluginConfig, result)

	var cfgErr *plugin.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusUnprocessableEntity, PluginValidationResponse{Validation: result})
	case err != nil:
		h.log.Error("failed to resolve plugin options", zap.Error(err))
		handleServiceError(c, err)
	default:
		c.JSON(http.StatusOK, PluginValidationResponse{Validation: result, Config: &cfg})
	}
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "telebirr-payments",
	})
}

// handleServiceError maps payment errors to HTTP responses.
func handleServiceError(c *gin.Context, err error) {
	var paymentErr *domain.PaymentError
	if !errors.As(err, &paymentErr) {
		paymentErr = domain.NewPaymentError(domain.CodeSystemError, "Internal server error", domain.ErrorTypeSystem)
	}

	statusCode := http.StatusInternalServerError
	switch paymentErr.Type {
	case domain.ErrorTypeValidation:
		statusCode = http.StatusBadRequest
	case domain.ErrorTypePayment:
		statusCode = http.StatusPaymentRequired
	case domain.ErrorTypeNetwork:
		statusCode = http.StatusBadGateway
	}

	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Code:        paymentErr.Code,
			Message:     paymentErr.Message,
			Type:        paymentErr.Type,
			Details:     renderDetails(paymentErr.Details),
			Suggestions: paymentErr.Suggestions,
		},
	})
}

// renderDetails replaces error values, which encode as {}, with their messages.
func renderDetails(details map[string]any) map[string]any {
	if len(details) == 0 {
		return nil
	}
	out := make(map[string]any, len(details))
	for k, v := range details {
		if err, ok := v.(error); ok {
			out[k] = err.Error()
			continue
		}
		out[k] = v
	}
	return out
}
