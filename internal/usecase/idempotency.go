package usecase

import (
	"encoding/hex"
	"strconv"
	"strings"

	"hospital-booking/internal/dto/request"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

const maxIdempotencyKeyLength = 64

// requestHash fingerprints a booking attempt so a reused Idempotency-Key
// can be told apart from a genuine retry. The payment is canonicalized the
// same way NormalizePayment reads it, but invalid payments still hash.
func requestHash(slotID uuid.UUID, p *request.PaymentRequest, defaultCurrency string) string {
	var b strings.Builder
	b.WriteString(slotID.String())

	if p != nil {
		currency := strings.ToUpper(strings.TrimSpace(p.Currency))
		if currency == "" {
			currency = strings.ToUpper(defaultCurrency)
		}
		amount := "-"
		if p.Amount != nil {
			amount = strconv.FormatFloat(*p.Amount, 'f', 2, 64)
		}

		for _, field := range []string{
			strings.ToLower(strings.TrimSpace(p.Method)),
			amount,
			currency,
			strings.TrimSpace(p.Reference),
		} {
			b.WriteByte(0)
			b.WriteString(field)
		}
	}

	sum := blake2b.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func validateIdempotencyKey(key string) error {
	if len(key) > maxIdempotencyKeyLength {
		return validationError(map[string]string{
			"Idempotency-Key": "Maximum is " + strconv.Itoa(maxIdempotencyKeyLength) + " characters",
		})
	}
	return nil
}
