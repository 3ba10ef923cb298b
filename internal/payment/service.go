// Package payment implements the runtime payment flow on top of the native
// Telebirr capability: request validation, the native call, response
// normalization and error classification.
package payment

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fitstack/telebirr-payments/internal/domain"
	"github.com/fitstack/telebirr-payments/internal/observability/logger"
	"github.com/fitstack/telebirr-payments/internal/observability/metrics"
	"github.com/fitstack/telebirr-payments/internal/validation"
)

// State is a step of a payment attempt.
type State string

const (
	StateIdle        State = "idle"
	StateValidating  State = "validating"
	StateCalling     State = "calling"
	StateNormalizing State = "normalizing"
	StateSuccess     State = "success"
	StateFailed      State = "failed"
)

// Service runs payment attempts against the native capability.
// It holds no per-call state; concurrent calls are independent.
type Service struct {
	native  domain.NativePayment
	log     *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time

	plugin *domain.ResolvedConfig
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records payment outcomes on the given collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source used to stamp responses.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPluginConfig lets the service compare requests against the plugin
// configuration the app was built with.
func WithPluginConfig(cfg domain.ResolvedConfig) Option {
	return func(s *Service) { s.plugin = &cfg }
}

// NewService creates a new payment service with the required dependencies.
func NewService(native domain.NativePayment, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		native: native,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartPayment handles a payment attempt:
// 1. Validates the request
// 2. Calls the native payment capability and waits for it to settle
// 3. Stamps the response with the capture time if the native layer did not
// Every failure is returned as a *domain.PaymentError. Nothing is retried.
func (s *Service) StartPayment(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentResponse, error) {
	start := s.now()
	log := s.log.With(zap.String("app_id", logger.MaskSecret(req.AppID)))
	s.transition(log, StateIdle, StateValidating)

	result := validation.ValidatePaymentRequest(req)
	s.metrics.RecordValidation(metrics.SubjectPaymentRequest, result)
	if !result.IsValid {
		perr := domain.NewPaymentError(domain.CodeValidationError,
			"Validation failed: "+strings.Join(result.Errors, ", "),
			domain.ErrorTypeValidation).
			WithDetails(map[string]any{"errors": result.Errors})
		return nil, s.fail(log, StateValidating, perr, start)
	}

	s.checkPluginMatch(log, req)
	if rc, err := validation.ParseReceiveCode(req.ReceiveCode); err == nil {
		log = log.With(zap.String("merchant_code", rc.MerchantCode), zap.Float64("amount", rc.Amount))
	}

	s.transition(log, StateValidating, StateCalling)
	if s.native == nil {
		return nil, s.fail(log, StateCalling, domain.NewNotConfiguredError(), start)
	}
	resp, err := s.native.StartPayment(ctx, req.AppID, req.ShortCode, req.ReceiveCode)
	if err != nil {
		return nil, s.fail(log, StateCalling, Classify(err), start)
	}
	if resp == nil {
		perr := domain.NewPaymentError(domain.CodeSystemError,
			"native payment module returned no result", domain.ErrorTypeSystem)
		return nil, s.fail(log, StateCalling, perr, start)
	}

	s.transition(log, StateCalling, StateNormalizing)
	normalized := *resp
	if normalized.Timestamp == 0 {
		normalized.Timestamp = s.now().UnixMilli()
	}

	s.transition(log, StateNormalizing, StateSuccess)
	s.metrics.RecordPayment(string(StateSuccess), "", s.now().Sub(start))
	log.Info("payment settled",
		zap.Int("code", normalized.Code),
		zap.String("transaction_id", normalized.TransactionID))

	return &normalized, nil
}

// IsAppInstalled reports whether the Telebirr app is installed. If the
// native capability cannot answer, the app is assumed not installed.
func (s *Service) IsAppInstalled(ctx context.Context) bool {
	if s.native == nil {
		s.log.Warn("could not check Telebirr app installation status", zap.Error(domain.ErrNotLinked))
		return false
	}
	installed, err := s.native.IsAppInstalled(ctx)
	if err != nil {
		s.log.Warn("could not check Telebirr app installation status", zap.Error(err))
		return false
	}
	return installed
}

// ValidateConfiguration queries the native capability to check that the
// plugin is linked and configured.
func (s *Service) ValidateConfiguration(ctx context.Context) bool {
	if s.native == nil {
		s.log.Error("Telebirr plugin configuration validation failed", zap.Error(domain.ErrNotLinked))
		return false
	}
	if _, err := s.native.IsAppInstalled(ctx); err != nil {
		s.log.Error("Telebirr plugin configuration validation failed", zap.Error(err))
		return false
	}
	return true
}

func (s *Service) fail(log *zap.Logger, from State, perr *domain.PaymentError, start time.Time) *domain.PaymentError {
	s.transition(log, from, StateFailed)
	s.metrics.RecordPayment(string(StateFailed), perr.Type, s.now().Sub(start))
	log.Warn("payment failed",
		zap.Int("code", int(perr.Code)),
		zap.String("error_type", string(perr.Type)),
		zap.String("error", perr.Message))
	return perr
}

func (s *Service) transition(log *zap.Logger, from, to State) {
	log.Debug("payment state", zap.String("from", string(from)), zap.String("to", string(to)))
}

// checkPluginMatch warns when a request targets different credentials than
// the plugin was configured with.
func (s *Service) checkPluginMatch(log *zap.Logger, req domain.PaymentRequest) {
	if s.plugin == nil {
		return
	}
	if req.AppID != s.plugin.AppID {
		log.Warn("payment appId does not match plugin configuration")
	}
	if req.ShortCode != s.plugin.ShortCode {
		log.Warn("payment shortCode does not match plugin configuration",
			zap.String("short_code", logger.MaskSecret(req.ShortCode)))
	}
}
