package validation

import "github.com/fitstack/telebirr-payments/internal/domain"

// Defaults for optional plugin fields.
const (
	DefaultEnableLogging = false
	DefaultCustomScheme  = ""
	DefaultTimeout       = 120.0
)

// ApplyConfigDefaults fills every absent optional field with its default and
// returns a new resolved config. Provided values are kept verbatim. It does
// not validate.
func ApplyConfigDefaults(cfg domain.PluginConfig) domain.ResolvedConfig {
	resolved := domain.ResolvedConfig{
		AppID:         cfg.AppID,
		ShortCode:     cfg.ShortCode,
		Environment:   cfg.Environment,
		EnableLogging: DefaultEnableLogging,
		CustomScheme:  DefaultCustomScheme,
		Timeout:       DefaultTimeout,
	}
	if cfg.EnableLogging != nil {
		resolved.EnableLogging = *cfg.EnableLogging
	}
	if cfg.CustomScheme != nil {
		resolved.CustomScheme = *cfg.CustomScheme
	}
	if cfg.Timeout != nil {
		resolved.Timeout = *cfg.Timeout
	}
	return resolved
}
