// Package plugin is the build-time entry point of the Telebirr integration:
// it validates the plugin options, resolves defaults and runs the platform
// steps that configure the native projects.
package plugin

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fitstack/telebirr-payments/internal/domain"
	"github.com/fitstack/telebirr-payments/internal/observability/logger"
	"github.com/fitstack/telebirr-payments/internal/observability/metrics"
	"github.com/fitstack/telebirr-payments/internal/validation"
)

const configErrorPrefix = "Telebirr Plugin Configuration Error:"

// ConfigError is returned when the plugin options are invalid. Errors keeps
// the validator's order.
type ConfigError struct {
	Errors []string
}

func (e *ConfigError) Error() string {
	return configErrorPrefix + "\n" + strings.Join(e.Errors, "\n")
}

// Result is the outcome of a successful configuration run.
type Result struct {
	Config   domain.ResolvedConfig `json:"config"`
	Warnings []string              `json:"warnings"`
}

// Resolve validates opts and, when valid, decodes them and applies defaults.
// The validation result is always returned; the error is a *ConfigError when
// the options are invalid.
func Resolve(opts domain.PluginOptions) (domain.ResolvedConfig, domain.ValidationResult, error) {
	result := validation.ValidatePluginOptions(opts)
	if !result.IsValid {
		return domain.ResolvedConfig{}, result, &ConfigError{Errors: result.Errors}
	}
	cfg, err := validation.DecodePluginOptions(opts)
	if err != nil {
		return domain.ResolvedConfig{}, result, err
	}
	return validation.ApplyConfigDefaults(cfg), result, nil
}

// Configurator runs a plugin configuration pass.
type Configurator struct {
	steps   []Step
	log     *zap.Logger
	metrics *metrics.Collector
}

// Option configures a Configurator.
type Option func(*Configurator)

// WithMetrics records validation outcomes on the given collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Configurator) { c.metrics = m }
}

// WithSteps replaces the default platform steps.
func WithSteps(steps ...Step) Option {
	return func(c *Configurator) { c.steps = steps }
}

// NewConfigurator creates a Configurator that writes the Android and iOS plans
// for app through writer.
func NewConfigurator(writer ProjectWriter, app AppInfo, log *zap.Logger, opts ...Option) *Configurator {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("telebirr-plugin")
	c := &Configurator{
		steps: []Step{
			NewAndroidStep(writer, log),
			NewIOSStep(writer, app, log),
		},
		log: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure validates opts, reports warnings, resolves defaults and applies
// every platform step. Steps run concurrently; the first failure cancels the
// rest and is returned. Nothing is applied when validation fails.
func (c *Configurator) Configure(ctx context.Context, opts domain.PluginOptions) (*Result, error) {
	cfg, result, err := Resolve(opts)
	c.metrics.RecordValidation(metrics.SubjectPluginConfig, result)
	if err != nil {
		c.log.Error("invalid plugin configuration", zap.Strings("errors", result.Errors))
		return nil, err
	}

	for _, warning := range result.Warnings {
		c.log.Warn("Telebirr plugin warning", zap.String("warning", warning))
	}

	if cfg.EnableLogging {
		c.log.Info("Telebirr plugin configuration",
			zap.String("environment", string(cfg.Environment)),
			zap.Bool("enable_logging", cfg.EnableLogging),
			zap.Float64("timeout", cfg.Timeout),
			zap.String("app_id", logger.Presence(cfg.AppID)),
			zap.String("short_code", logger.Presence(cfg.ShortCode)))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, step := range c.steps {
		g.Go(func() error {
			if err := step.Apply(gctx, cfg); err != nil {
				return fmt.Errorf("%s step: %w", step.Name(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{Config: cfg, Warnings: result.Warnings}, nil
}
