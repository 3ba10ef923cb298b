package validation

import (
	"fmt"

	"github.com/fitstack/telebirr-payments/internal/domain"
)

// DecodePluginOptions converts a raw options document into a typed config.
// Unknown keys are ignored and explicit nulls count as absent. It only fails
// when a value has the wrong type; content rules are left to the validator.
func DecodePluginOptions(opts domain.PluginOptions) (domain.PluginConfig, error) {
	var cfg domain.PluginConfig

	if v, ok := lookup(opts, domain.OptionAppID); ok {
		s, isString := v.(string)
		if !isString {
			return domain.PluginConfig{}, typeError(domain.OptionAppID, "string", v)
		}
		cfg.AppID = s
	}

	if v, ok := lookup(opts, domain.OptionShortCode); ok {
		s, isString := v.(string)
		if !isString {
			return domain.PluginConfig{}, typeError(domain.OptionShortCode, "string", v)
		}
		cfg.ShortCode = s
	}

	if v, ok := lookup(opts, domain.OptionEnvironment); ok {
		s, isString := v.(string)
		if !isString {
			return domain.PluginConfig{}, typeError(domain.OptionEnvironment, "string", v)
		}
		cfg.Environment = domain.Environment(s)
	}

	if v, ok := lookup(opts, domain.OptionEnableLogging); ok {
		b, isBool := v.(bool)
		if !isBool {
			return domain.PluginConfig{}, typeError(domain.OptionEnableLogging, "boolean", v)
		}
		cfg.EnableLogging = &b
	}

	if v, ok := lookup(opts, domain.OptionCustomScheme); ok {
		s, isString := v.(string)
		if !isString {
			return domain.PluginConfig{}, typeError(domain.OptionCustomScheme, "string", v)
		}
		cfg.CustomScheme = &s
	}

	if v, ok := lookup(opts, domain.OptionTimeout); ok {
		timeout, isNumber := toFloat(v)
		if !isNumber {
			return domain.PluginConfig{}, typeError(domain.OptionTimeout, "number", v)
		}
		cfg.Timeout = &timeout
	}

	return cfg, nil
}

func typeError(key, want string, got any) error {
	return fmt.Errorf("%w: %s must be a %s, got %T", domain.ErrInvalidPluginOptions, key, want, got)
}
