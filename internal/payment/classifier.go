package payment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fitstack/telebirr-payments/internal/domain"
)

// nativeCoder is implemented by errors that carry an SDK result code, such
// as *domain.NativeError.
type nativeCoder interface {
	NativeCode() int
	NativeMessage() string
}

// Substrings that identify a linking or configuration failure.
var notConfiguredMarkers = []string{"LINKING_ERROR", "not properly configured"}

// Substrings that identify a transport failure.
var networkMarkers = []string{"network", "connection"}

// Classify turns any failure signal into exactly one *domain.PaymentError.
//
// A *domain.PaymentError (also when wrapped) is returned unchanged. Values
// carrying a non-zero SDK code and a non-empty message are classified by
// code. Anything else is classified by its message. Classify never panics
// and never returns nil.
func Classify(signal any) *domain.PaymentError {
	if err, ok := signal.(error); ok {
		var perr *domain.PaymentError
		if errors.As(err, &perr) {
			if perr == nil {
				signal = nil
			} else {
				return perr
			}
		}
	}

	if code, message, ok := nativeShape(signal); ok {
		return domain.NewPaymentError(domain.PaymentErrorCode(code), message, domain.PaymentErrorCode(code).Type()).
			WithCause(signal)
	}

	message := signalMessage(signal)
	switch {
	case containsAny(message, notConfiguredMarkers):
		return domain.NewNotConfiguredError().WithCause(signal)
	case containsAny(message, networkMarkers):
		return domain.NewPaymentError(domain.CodeNetworkError, domain.MessageNetworkError, domain.ErrorTypeNetwork).
			WithCause(signal)
	default:
		return domain.NewPaymentError(domain.CodeSystemError, message, domain.ErrorTypeSystem).
			WithCause(signal)
	}
}

// nativeShape extracts an SDK code and message from a native error, either a
// nativeCoder anywhere in an error chain or a decoded {code, message} document.
func nativeShape(signal any) (int, string, bool) {
	switch s := signal.(type) {
	case error:
		var coder nativeCoder
		if errors.As(s, &coder) && coder != nil {
			return validNativeShape(coder.NativeCode(), coder.NativeMessage())
		}
	case map[string]any:
		message, isString := s["message"].(string)
		if !isString {
			return 0, "", false
		}
		switch code := s["code"].(type) {
		case int:
			return validNativeShape(code, message)
		case int64:
			return validNativeShape(int(code), message)
		case float64:
			if code != float64(int(code)) {
				return 0, "", false
			}
			return validNativeShape(int(code), message)
		}
	}
	return 0, "", false
}

// validNativeShape rejects a zero code or an empty message; neither
// identifies an SDK failure.
func validNativeShape(code int, message string) (int, string, bool) {
	if code == 0 || message == "" {
		return 0, "", false
	}
	return code, message, true
}

func signalMessage(signal any) string {
	switch s := signal.(type) {
	case nil:
		return "unknown error"
	case string:
		return s
	case error:
		return s.Error()
	case map[string]any:
		if message, ok := s["message"].(string); ok && message != "" {
			return message
		}
	}
	return fmt.Sprint(signal)
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
