package nativebridge

import (
	"context"

	"github.com/fitstack/telebirr-payments/internal/domain"
)

// NotLinked is the native capability of a build without the Telebirr
// module. Every operation fails with the not-configured error.
type NotLinked struct{}

// StartPayment always fails.
func (NotLinked) StartPayment(context.Context, string, string, string) (*domain.PaymentResponse, error) {
	return nil, notLinkedError()
}

// IsAppInstalled always fails.
func (NotLinked) IsAppInstalled(context.Context) (bool, error) {
	return false, notLinkedError()
}

func notLinkedError() *domain.PaymentError {
	perr := domain.NewNotConfiguredError()
	perr.Err = domain.ErrNotLinked
	return perr.WithDetails(map[string]any{"reason": domain.ErrNotLinked.Error()})
}
