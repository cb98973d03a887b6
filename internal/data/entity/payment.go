package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodBkash  PaymentMethod = "bkash"
	PaymentMethodNagad  PaymentMethod = "nagad"
	PaymentMethodRocket PaymentMethod = "rocket"
	PaymentMethodUpay   PaymentMethod = "upay"
	PaymentMethodCard   PaymentMethod = "card"
)

// RequiresReference is true for the mobile wallets, which settle out of band.
func (m PaymentMethod) RequiresReference() bool {
	return m != PaymentMethodCard
}

type Payment struct {
	ID                   uuid.UUID       `db:"payment_id"`
	AppointmentID        uuid.UUID       `db:"appointment_id"`
	Amount               decimal.Decimal `db:"amount"`
	Currency             string          `db:"currency"`
	Method               PaymentMethod   `db:"method"`
	Status               PaymentStatus   `db:"status"`
	TransactionReference *string         `db:"transaction_reference"`
	PaidAt               time.Time       `db:"paid_at"`
}
