package domain

import (
	"errors"
	"strconv"
)

// Domain errors represent conditions the integration recognizes.
var (
	// ErrNotLinked is returned when the native payment module is not available.
	ErrNotLinked = errors.New("telebirr native module is not linked")

	// ErrInvalidReceiveCode is returned when a receive code cannot be parsed.
	ErrInvalidReceiveCode = errors.New("invalid receive code")

	// ErrInvalidPluginOptions is returned when plugin options have the wrong types.
	ErrInvalidPluginOptions = errors.New("invalid plugin options")

	// ErrBridgeUnavailable is returned when the native bridge cannot be reached.
	ErrBridgeUnavailable = errors.New("native bridge unavailable")
)

// ErrorType is the closed taxonomy of payment failures.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypePayment    ErrorType = "payment"
	ErrorTypeSystem     ErrorType = "system"
)

// PaymentErrorCode is a result code reported by the Telebirr SDK.
type PaymentErrorCode int

// Error codes based on the Telebirr SDK documentation.
const (
	CodeParameterError  PaymentErrorCode = -2
	CodeUserCancelled   PaymentErrorCode = -3
	CodeAppNotInstalled PaymentErrorCode = -10
	CodeNetworkError    PaymentErrorCode = -20
	CodeValidationError PaymentErrorCode = -30
	CodeSystemError     PaymentErrorCode = -40
)

var codeNames = map[PaymentErrorCode]string{
	CodeParameterError:  "PARAMETER_ERROR",
	CodeUserCancelled:   "USER_CANCELLED",
	CodeAppNotInstalled: "APP_NOT_INSTALLED",
	CodeNetworkError:    "NETWORK_ERROR",
	CodeValidationError: "VALIDATION_ERROR",
	CodeSystemError:     "SYSTEM_ERROR",
}

// String returns the SDK name of the code, or the number for unknown codes.
func (c PaymentErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return strconv.Itoa(int(c))
}

// Type classifies the code into an error category.
func (c PaymentErrorCode) Type() ErrorType {
	switch c {
	case CodeParameterError, CodeValidationError:
		return ErrorTypeValidation
	case CodeNetworkError:
		return ErrorTypeNetwork
	case CodeUserCancelled, CodeAppNotInstalled:
		return ErrorTypePayment
	default:
		return ErrorTypeSystem
	}
}

// ParseErrorCode maps an SDK code name such as "USER_CANCELLED" to its value.
func ParseErrorCode(name string) (PaymentErrorCode, bool) {
	for code, n := range codeNames {
		if n == name {
			return code, true
		}
	}
	return 0, false
}

// NativeError is an error raised by the native payment module: a numeric
// SDK code and a message.
type NativeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *NativeError) Error() string {
	if e == nil {
		return "native error"
	}
	return "native error " + strconv.Itoa(e.Code) + ": " + e.Message
}

// NativeCode returns the SDK result code.
func (e *NativeError) NativeCode() int {
	if e == nil {
		return 0
	}
	return e.Code
}

// NativeMessage returns the SDK message.
func (e *NativeError) NativeMessage() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// PaymentError is the structured error every failed payment operation yields.
type PaymentError struct {
	Code        PaymentErrorCode `json:"code"`
	Message     string           `json:"message"`
	Type        ErrorType        `json:"type"`
	Details     map[string]any   `json:"details,omitempty"`
	Suggestions []string         `json:"suggestions,omitempty"`

	// Err is the underlying cause, if the original signal was an error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *PaymentError) Error() string {
	if e == nil {
		return "payment error"
	}
	return e.Message
}

// Unwrap allows errors.Is and errors.As to reach the original cause.
func (e *PaymentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewPaymentError creates a new PaymentError with the given code, message and type.
func NewPaymentError(code PaymentErrorCode, message string, errType ErrorType) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Type:    errType,
	}
}

// WithDetails returns a copy of e with the given details attached.
func (e *PaymentError) WithDetails(details map[string]any) *PaymentError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithSuggestions returns a copy of e with the given remediation suggestions.
func (e *PaymentError) WithSuggestions(suggestions ...string) *PaymentError {
	cp := *e
	cp.Suggestions = append([]string(nil), suggestions...)
	return &cp
}

// WithCause returns a copy of e recording signal as the original error. If
// signal is an error it also becomes the wrapped cause.
func (e *PaymentError) WithCause(signal any) *PaymentError {
	cp := *e
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details["originalError"] = signal
	cp.Details = details
	if err, ok := signal.(error); ok {
		cp.Err = err
	}
	return &cp
}

// Misconfiguration messages shared by the classifier and the "not linked" module.
const (
	MessageNotConfigured = "Plugin not properly configured. Please check your setup."
	MessageNetworkError  = "Network error occurred during payment"
)

// SetupSuggestions are the remediation steps for a plugin that is not properly configured.
var SetupSuggestions = []string{
	"Run npx expo prebuild",
	"Rebuild your app",
	"Check plugin configuration in app.config.js",
}

// NewNotConfiguredError returns the system error reported when the native
// module is missing or misconfigured.
func NewNotConfiguredError() *PaymentError {
	return NewPaymentError(CodeSystemError, MessageNotConfigured, ErrorTypeSystem).
		WithSuggestions(SetupSuggestions...)
}
