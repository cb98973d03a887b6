package usecase

import (
	"math"
	"strings"
	"testing"

	"hospital-booking/internal/data/entity"
	"hospital-booking/internal/dto/request"

	"github.com/google/uuid"
)

func TestNormalizePayment(t *testing.T) {
	tests := []struct {
		name      string
		payment   *request.PaymentRequest
		wantErr   bool
		method    entity.PaymentMethod
		amount    string
		currency  string
		reference *string
	}{
		{
			name:      "MobileWalletWithReference",
			payment:   &request.PaymentRequest{Method: "bkash", Amount: ptrFloat(2200), Reference: "TXN1"},
			method:    entity.PaymentMethodBkash,
			amount:    "2200",
			currency:  "BDT",
			reference: ptrString("TXN1"),
		},
		{
			name:     "CardWithoutReference",
			payment:  &request.PaymentRequest{Method: " Card ", Amount: ptrFloat(99.999)},
			method:   entity.PaymentMethodCard,
			amount:   "100",
			currency: "BDT",
		},
		{
			name:      "ExplicitCurrencyUppercased",
			payment:   &request.PaymentRequest{Method: "rocket", Amount: ptrFloat(10.5), Currency: "usd", Reference: " R-1 "},
			method:    entity.PaymentMethodRocket,
			amount:    "10.5",
			currency:  "USD",
			reference: ptrString("R-1"),
		},
		{
			name:     "ZeroAmountIsStructurallyValid",
			payment:  &request.PaymentRequest{Method: "card", Amount: ptrFloat(0)},
			method:   entity.PaymentMethodCard,
			amount:   "0",
			currency: "BDT",
		},
		{
			name:      "ReferenceAtColumnLimit",
			payment:   &request.PaymentRequest{Method: "bkash", Amount: ptrFloat(1), Reference: strings.Repeat("৳", 100)},
			method:    entity.PaymentMethodBkash,
			amount:    "1",
			currency:  "BDT",
			reference: ptrString(strings.Repeat("৳", 100)),
		},
		{name: "ReferenceTooLong", payment: &request.PaymentRequest{Method: "bkash", Amount: ptrFloat(1), Reference: strings.Repeat("A", 101)}, wantErr: true},
		{name: "NilPayment", wantErr: true},
		{name: "UnknownMethod", payment: &request.PaymentRequest{Method: "cash", Amount: ptrFloat(1)}, wantErr: true},
		{name: "EmptyMethod", payment: &request.PaymentRequest{Amount: ptrFloat(1)}, wantErr: true},
		{name: "MissingAmount", payment: &request.PaymentRequest{Method: "card"}, wantErr: true},
		{name: "NegativeAmount", payment: &request.PaymentRequest{Method: "card", Amount: ptrFloat(-0.01)}, wantErr: true},
		{name: "NaNAmount", payment: &request.PaymentRequest{Method: "card", Amount: ptrFloat(math.NaN())}, wantErr: true},
		{name: "InfiniteAmount", payment: &request.PaymentRequest{Method: "card", Amount: ptrFloat(math.Inf(1))}, wantErr: true},
		{name: "ShortCurrency", payment: &request.PaymentRequest{Method: "card", Amount: ptrFloat(1), Currency: "TK"}, wantErr: true},
		{name: "NonLetterCurrency", payment: &request.PaymentRequest{Method: "card", Amount: ptrFloat(1), Currency: "B1T"}, wantErr: true},
		{name: "UpayWithoutReference", payment: &request.PaymentRequest{Method: "upay", Amount: ptrFloat(1)}, wantErr: true},
		{name: "NagadBlankReference", payment: &request.PaymentRequest{Method: "nagad", Amount: ptrFloat(1), Reference: "\t"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePayment(tt.payment, "BDT")

			if tt.wantErr {
				expectKind(t, err, KindInvalidPayment)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Method != tt.method {
				t.Errorf("method: expected %s, got %s", tt.method, got.Method)
			}
			if !got.Amount.Equal(mustDecimal(tt.amount)) {
				t.Errorf("amount: expected %s, got %s", tt.amount, got.Amount)
			}
			if got.Currency != tt.currency {
				t.Errorf("currency: expected %s, got %s", tt.currency, got.Currency)
			}
			switch {
			case tt.reference == nil && got.Reference != nil:
				t.Errorf("reference: expected none, got %q", *got.Reference)
			case tt.reference != nil && (got.Reference == nil || *got.Reference != *tt.reference):
				t.Errorf("reference: expected %q, got %v", *tt.reference, got.Reference)
			}
		})
	}
}

func TestCheckFee(t *testing.T) {
	tests := []struct {
		amount string
		fee    string
		ok     bool
	}{
		{"2200", "2200", true},
		{"2200.01", "2200", true},
		{"2199.99", "2200", true},
		{"2200.02", "2200", false},
		{"2199.98", "2200", false},
		{"0", "0", true},
		{"0.01", "0", true},
		{"500.004", "500", true},
		{"1000", "2200", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount+"_vs_"+tt.fee, func(t *testing.T) {
			err := CheckFee(mustDecimal(tt.amount), mustDecimal(tt.fee))
			if tt.ok {
				if err != nil {
					t.Fatalf("expected fee to match, got %v", err)
				}
				return
			}
			expectKind(t, err, KindFeeMismatch)
		})
	}
}

func TestRequestHash(t *testing.T) {
	slot := uuid.New()
	base := &request.PaymentRequest{Method: "bkash", Amount: ptrFloat(2200), Reference: "TXN1"}

	t.Run("CanonicalFormsMatch", func(t *testing.T) {
		variant := &request.PaymentRequest{Method: " BKash", Amount: ptrFloat(2200.001), Currency: "bdt", Reference: "TXN1 "}
		if requestHash(slot, base, "BDT") != requestHash(slot, variant, "BDT") {
			t.Fatal("equivalent payments must hash the same")
		}
	})

	t.Run("DifferentSlot", func(t *testing.T) {
		if requestHash(slot, base, "BDT") == requestHash(uuid.New(), base, "BDT") {
			t.Fatal("different slots must hash differently")
		}
	})

	t.Run("DifferentReference", func(t *testing.T) {
		other := &request.PaymentRequest{Method: "bkash", Amount: ptrFloat(2200), Reference: "TXN2"}
		if requestHash(slot, base, "BDT") == requestHash(slot, other, "BDT") {
			t.Fatal("different references must hash differently")
		}
	})

	t.Run("MissingPaymentStillHashes", func(t *testing.T) {
		if len(requestHash(slot, nil, "BDT")) != 64 {
			t.Fatal("expected a 32-byte hex digest")
		}
	})
}
