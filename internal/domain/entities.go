// Package domain contains the core entities and interfaces for the Telebirr integration.
// This is the innermost layer - it has no dependencies on external frameworks or infrastructure.
package domain

import "time"

// Environment selects which Telebirr SDK variant the native projects embed.
type Environment string

const (
	EnvironmentUAT        Environment = "uat"
	EnvironmentProduction Environment = "production"
)

// Valid reports whether e is one of the supported SDK environments.
func (e Environment) Valid() bool {
	return e == EnvironmentUAT || e == EnvironmentProduction
}

// Plugin option keys, as they appear in the app configuration.
const (
	OptionAppID         = "appId"
	OptionShortCode     = "shortCode"
	OptionEnvironment   = "environment"
	OptionEnableLogging = "enableLogging"
	OptionCustomScheme  = "customScheme"
	OptionTimeout       = "timeout"
)

// PluginOptionKeys lists every option the plugin understands.
var PluginOptionKeys = []string{
	OptionAppID,
	OptionShortCode,
	OptionEnvironment,
	OptionEnableLogging,
	OptionCustomScheme,
	OptionTimeout,
}

// PluginOptions is the plugin configuration exactly as decoded from the app
// configuration (JSON, YAML or TOML). Values keep their decoded types so that
// type mismatches can be reported by the validator.
type PluginOptions map[string]any

// PluginConfig is the typed, raw plugin configuration.
// Optional fields are nil when not provided.
type PluginConfig struct {
	AppID         string      `json:"appId"`                   // Telebirr provided app ID
	ShortCode     string      `json:"shortCode"`               // Telebirr provided short code
	Environment   Environment `json:"environment"`             // "uat" or "production"
	EnableLogging *bool       `json:"enableLogging,omitempty"` // Detailed build logging
	CustomScheme  *string     `json:"customScheme,omitempty"`  // iOS URL scheme override
	Timeout       *float64    `json:"timeout,omitempty"`       // Payment timeout in seconds
}

// Options renders the config as a raw options document. Zero-valued required
// fields and nil optional fields are left out, as if never provided.
func (c PluginConfig) Options() PluginOptions {
	opts := PluginOptions{}
	if c.AppID != "" {
		opts[OptionAppID] = c.AppID
	}
	if c.ShortCode != "" {
		opts[OptionShortCode] = c.ShortCode
	}
	if c.Environment != "" {
		opts[OptionEnvironment] = string(c.Environment)
	}
	if c.EnableLogging != nil {
		opts[OptionEnableLogging] = *c.EnableLogging
	}
	if c.CustomScheme != nil {
		opts[OptionCustomScheme] = *c.CustomScheme
	}
	if c.Timeout != nil {
		opts[OptionTimeout] = *c.Timeout
	}
	return opts
}

// ResolvedConfig is a plugin configuration with every optional field populated.
type ResolvedConfig struct {
	AppID         string      `json:"appId"`
	ShortCode     string      `json:"shortCode"`
	Environment   Environment `json:"environment"`
	EnableLogging bool        `json:"enableLogging"`
	CustomScheme  string      `json:"customScheme"`
	Timeout       float64     `json:"timeout"`
}

// PluginConfig converts the resolved config back into a raw config with every
// optional field present.
func (r ResolvedConfig) PluginConfig() PluginConfig {
	enableLogging := r.EnableLogging
	customScheme := r.CustomScheme
	timeout := r.Timeout
	return PluginConfig{
		AppID:         r.AppID,
		ShortCode:     r.ShortCode,
		Environment:   r.Environment,
		EnableLogging: &enableLogging,
		CustomScheme:  &customScheme,
		Timeout:       &timeout,
	}
}

// TimeoutDuration returns the advisory payment timeout as a duration.
func (r ResolvedConfig) TimeoutDuration() time.Duration {
	return time.Duration(r.Timeout * float64(time.Second))
}

// PaymentRequest represents a single payment attempt.
type PaymentRequest struct {
	AppID       string `json:"appId"`       // Must match the plugin configuration appId
	ShortCode   string `json:"shortCode"`   // Must match the plugin configuration shortCode
	ReceiveCode string `json:"receiveCode"` // From the Telebirr createOrder response
}

// PaymentResponse is the result of a payment attempt.
type PaymentResponse struct {
	Code          int    `json:"code"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId,omitempty"`
	Timestamp     int64  `json:"timestamp"` // Epoch milliseconds
}

// ReceiveCode is a parsed receive code:
// TELEBIRR$BUYGOODS$<merchant_code>$<amount>$<prepay_id>$<timeout_express>
type ReceiveCode struct {
	MerchantCode   string  `json:"merchantCode"`
	Amount         float64 `json:"amount"`
	PrepayID       string  `json:"prepayId"`
	TimeoutExpress string  `json:"timeoutExpress"`
}

// ValidationResult collects blocking errors and advisory warnings.
// IsValid is true iff Errors is empty.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
