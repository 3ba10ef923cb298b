package logger

import "strings"

const (
	presenceConfigured = "[CONFIGURED]"
	presenceMissing    = "[MISSING]"
)

// Presence reports whether a credential is set without revealing it.
func Presence(value string) string {
	if strings.TrimSpace(value) == "" {
		return presenceMissing
	}
	return presenceConfigured
}

// MaskSecret masks a credential, preserving only the last 4 characters. Characters
// are counted as runes so multi-byte input stays valid UTF-8.
func MaskSecret(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return maskLast4(value)
}

func maskLast4(value string) string {
	runes := []rune(value)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
