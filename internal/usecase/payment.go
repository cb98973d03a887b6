package usecase

import (
	"math"
	"strings"
	"unicode/utf8"

	"hospital-booking/internal/data/entity"
	"hospital-booking/internal/dto/request"

	"github.com/shopspring/decimal"
)

// maxReferenceLength matches payments.transaction_reference.
const maxReferenceLength = 100

// feeTolerance is the largest accepted gap between paid amount and fee.
var feeTolerance = decimal.New(1, -2)

var paymentMethods = map[string]entity.PaymentMethod{
	string(entity.PaymentMethodBkash):  entity.PaymentMethodBkash,
	string(entity.PaymentMethodNagad):  entity.PaymentMethodNagad,
	string(entity.PaymentMethodRocket): entity.PaymentMethodRocket,
	string(entity.PaymentMethodUpay):   entity.PaymentMethodUpay,
	string(entity.PaymentMethodCard):   entity.PaymentMethodCard,
}

// NormalizedPayment is a structurally valid payment ready to be recorded.
type NormalizedPayment struct {
	Method    entity.PaymentMethod
	Amount    decimal.Decimal
	Currency  string
	Reference *string
}

// NormalizePayment checks the payment object and returns its canonical form.
// Every failure is KindInvalidPayment.
func NormalizePayment(p *request.PaymentRequest, defaultCurrency string) (*NormalizedPayment, error) {
	if p == nil {
		return nil, newError(KindInvalidPayment, "payment details are required")
	}

	method, ok := paymentMethods[strings.ToLower(strings.TrimSpace(p.Method))]
	if !ok {
		return nil, newError(KindInvalidPayment, "unsupported payment method %q", p.Method)
	}

	if p.Amount == nil {
		return nil, newError(KindInvalidPayment, "payment amount is required")
	}
	amount := *p.Amount
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, newError(KindInvalidPayment, "payment amount must be a finite number")
	}
	if amount < 0 {
		return nil, newError(KindInvalidPayment, "payment amount must not be negative")
	}

	currency := strings.ToUpper(strings.TrimSpace(p.Currency))
	if currency == "" {
		currency = strings.ToUpper(defaultCurrency)
	}
	if !isCurrencyCode(currency) {
		return nil, newError(KindInvalidPayment, "currency must be a 3-letter ISO code")
	}

	var reference *string
	if ref := strings.TrimSpace(p.Reference); ref != "" {
		reference = &ref
	}
	if reference != nil && utf8.RuneCountInString(*reference) > maxReferenceLength {
		return nil, newError(KindInvalidPayment, "transaction reference must be at most %d characters", maxReferenceLength)
	}
	if reference == nil && method.RequiresReference() {
		return nil, newError(KindInvalidPayment, "transaction reference is required for %s payments", method)
	}

	return &NormalizedPayment{
		Method:    method,
		Amount:    decimal.NewFromFloat(amount).Round(2),
		Currency:  currency,
		Reference: reference,
	}, nil
}

// CheckFee compares both values at 2 decimal places.
func CheckFee(amount, fee decimal.Decimal) error {
	paid := amount.Round(2)
	expected := fee.Round(2)

	if paid.Sub(expected).Abs().GreaterThan(feeTolerance) {
		return newError(KindFeeMismatch, "payment amount %s does not match consultation fee %s",
			paid.StringFixed(2), expected.StringFixed(2))
	}
	return nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
