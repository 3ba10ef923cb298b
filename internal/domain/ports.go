// Package domain contains the core entities and interfaces for the Telebirr integration.
package domain

import "context"

// NativePayment defines the native Telebirr capability the runtime wrapper calls.
// This is a "port" in hexagonal architecture - the domain defines what it needs,
// and the platform layer provides the implementation.
type NativePayment interface {
	// StartPayment launches the Telebirr SDK payment flow and waits for its result.
	// Failures are either a *NativeError (SDK code and message) or an arbitrary error.
	StartPayment(ctx context.Context, appID, shortCode, receiveCode string) (*PaymentResponse, error)

	// IsAppInstalled reports whether the Telebirr app is installed on the device.
	IsAppInstalled(ctx context.Context) (bool, error)
}
