// Package validation checks plugin configurations and payment requests, and
// resolves configuration defaults.
//
// Validators never fail: they return a domain.ValidationResult and leave it to
// the caller to decide whether an invalid result is fatal.
package validation

import (
	"math"
	"strings"

	"github.com/fitstack/telebirr-payments/internal/domain"
)

// Plugin configuration messages.
const (
	msgAppIDRequired       = "appId is required and must be a non-empty string"
	msgAppIDBlank          = "appId cannot be empty or whitespace only"
	msgShortCodeRequired   = "shortCode is required and must be a non-empty string"
	msgShortCodeBlank      = "shortCode cannot be empty or whitespace only"
	msgEnvironmentRequired = "environment is required"
	msgEnvironmentInvalid  = `environment must be either "uat" or "production"`
	msgEnableLoggingType   = "enableLogging must be a boolean if provided"
	msgCustomSchemeType    = "customScheme must be a string if provided"
	msgCustomSchemeBlank   = "customScheme cannot be empty if provided"
	msgTimeoutInvalid      = "timeout must be a positive number if provided"
	warnTimeoutTooShort    = "timeout less than 30 seconds may cause payment failures"
	warnTimeoutTooLong     = "timeout greater than 5 minutes may provide poor user experience"
)

const (
	minRecommendedTimeout = 30
	maxRecommendedTimeout = 300
)

// ValidatePluginConfig validates a typed plugin configuration.
func ValidatePluginConfig(cfg domain.PluginConfig) domain.ValidationResult {
	return ValidatePluginOptions(cfg.Options())
}

// ValidatePluginOptions validates a raw plugin options document. Checks run
// in a fixed order so the messages are reproducible.
func ValidatePluginOptions(opts domain.PluginOptions) domain.ValidationResult {
	var errs, warnings []string

	errs = append(errs, requiredString(opts, domain.OptionAppID, msgAppIDRequired, msgAppIDBlank)...)
	errs = append(errs, requiredString(opts, domain.OptionShortCode, msgShortCodeRequired, msgShortCodeBlank)...)

	if env, ok := lookup(opts, domain.OptionEnvironment); !ok || env == "" {
		errs = append(errs, msgEnvironmentRequired)
	} else if s, isString := env.(string); !isString || !domain.Environment(s).Valid() {
		errs = append(errs, msgEnvironmentInvalid)
	}

	if v, ok := lookup(opts, domain.OptionEnableLogging); ok {
		if _, isBool := v.(bool); !isBool {
			errs = append(errs, msgEnableLoggingType)
		}
	}

	if v, ok := lookup(opts, domain.OptionCustomScheme); ok {
		s, isString := v.(string)
		switch {
		case !isString:
			errs = append(errs, msgCustomSchemeType)
		case strings.TrimSpace(s) == "":
			errs = append(errs, msgCustomSchemeBlank)
		}
	}

	if v, ok := lookup(opts, domain.OptionTimeout); ok {
		timeout, isNumber := toFloat(v)
		switch {
		case !isNumber || math.IsNaN(timeout) || math.IsInf(timeout, 0) || timeout <= 0:
			errs = append(errs, msgTimeoutInvalid)
		case timeout < minRecommendedTimeout:
			warnings = append(warnings, warnTimeoutTooShort)
		case timeout > maxRecommendedTimeout:
			warnings = append(warnings, warnTimeoutTooLong)
		}
	}

	return newResult(errs, warnings)
}

// requiredString checks a required string option. A missing, non-string or
// empty value gets the required message; a string that trims to empty gets
// the blank message.
func requiredString(opts domain.PluginOptions, key, requiredMsg, blankMsg string) []string {
	v, _ := lookup(opts, key)
	s, isString := v.(string)
	switch {
	case !isString || s == "":
		return []string{requiredMsg}
	case strings.TrimSpace(s) == "":
		return []string{blankMsg}
	}
	return nil
}

// lookup returns the option value, treating an explicit null as absent.
func lookup(opts domain.PluginOptions, key string) (any, bool) {
	v, ok := opts[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// toFloat converts any Go numeric value to float64. Strings are not numbers.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func newResult(errs, warnings []string) domain.ValidationResult {
	if errs == nil {
		errs = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return domain.ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}
