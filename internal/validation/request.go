package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fitstack/telebirr-payments/internal/domain"
)

// Receive code layout: TELEBIRR$BUYGOODS$merch_code$total_amount$prepay_id$timeout_express
const (
	receiveCodeSeparator = "$"
	receiveCodeParts     = 6
	receiveCodeProvider  = "TELEBIRR"
	receiveCodeTradeType = "BUYGOODS"
)

// Payment request messages.
const (
	msgRequestAppID         = "appId is required and must be a non-empty string"
	msgRequestShortCode     = "shortCode is required and must be a non-empty string"
	msgReceiveCodeRequired  = "receiveCode is required and must be a non-empty string"
	msgReceiveCodeFormat    = "receiveCode must follow format: TELEBIRR$BUYGOODS$merch_code$total_amount$prepay_id$timeout_express"
	msgReceiveCodeProvider  = `receiveCode must start with "TELEBIRR"`
	msgReceiveCodeTradeType = `receiveCode must have "BUYGOODS" as second component`
	msgReceiveCodeAmount    = "receiveCode amount must be a positive number"
)

// ValidatePaymentRequest validates a payment request. It never produces warnings.
func ValidatePaymentRequest(req domain.PaymentRequest) domain.ValidationResult {
	var errs []string

	if isBlank(req.AppID) {
		errs = append(errs, msgRequestAppID)
	}
	if isBlank(req.ShortCode) {
		errs = append(errs, msgRequestShortCode)
	}
	if isBlank(req.ReceiveCode) {
		errs = append(errs, msgReceiveCodeRequired)
	} else {
		errs = append(errs, receiveCodeErrors(req.ReceiveCode)...)
	}

	return newResult(errs, nil)
}

// ParseReceiveCode splits a receive code into its components. It fails with
// domain.ErrInvalidReceiveCode under the same rules ValidatePaymentRequest uses.
func ParseReceiveCode(code string) (domain.ReceiveCode, error) {
	if isBlank(code) {
		return domain.ReceiveCode{}, fmt.Errorf("%w: %s", domain.ErrInvalidReceiveCode, msgReceiveCodeRequired)
	}
	if errs := receiveCodeErrors(code); len(errs) > 0 {
		return domain.ReceiveCode{}, fmt.Errorf("%w: %s", domain.ErrInvalidReceiveCode, strings.Join(errs, ", "))
	}

	parts := strings.Split(code, receiveCodeSeparator)
	amount, _ := parseAmount(parts[3])
	return domain.ReceiveCode{
		MerchantCode:   parts[2],
		Amount:         amount,
		PrepayID:       parts[4],
		TimeoutExpress: parts[5],
	}, nil
}

// receiveCodeErrors checks the structure of a non-empty receive code. A wrong
// part count short-circuits; otherwise every component check runs.
func receiveCodeErrors(code string) []string {
	parts := strings.Split(code, receiveCodeSeparator)
	if len(parts) != receiveCodeParts {
		return []string{msgReceiveCodeFormat}
	}

	var errs []string
	if parts[0] != receiveCodeProvider {
		errs = append(errs, msgReceiveCodeProvider)
	}
	if parts[1] != receiveCodeTradeType {
		errs = append(errs, msgReceiveCodeTradeType)
	}
	if _, ok := parseAmount(parts[3]); !ok {
		errs = append(errs, msgReceiveCodeAmount)
	}
	return errs
}

// parseAmount parses a finite, strictly positive amount.
func parseAmount(s string) (float64, bool) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
