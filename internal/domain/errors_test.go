package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentError_NilReceiver(t *testing.T) {
	t.Parallel()

	var perr *PaymentError
	require.NotPanics(t, func() {
		assert.Equal(t, "payment error", perr.Error())
		assert.NoError(t, perr.Unwrap())
	})

	var err error = perr
	var target *NativeError
	require.NotPanics(t, func() { assert.False(t, errors.As(err, &target)) })
}

func TestPaymentError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("bridge down")
	perr := NewPaymentError(CodeNetworkError, MessageNetworkError, ErrorTypeNetwork).WithCause(cause)

	assert.ErrorIs(t, perr, cause)
	assert.Equal(t, MessageNetworkError, perr.Error())
}
