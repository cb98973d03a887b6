package entity

import (
	"github.com/shopspring/decimal"
)

type Doctor struct {
	BaseNoDelete
	FullName        string          `db:"full_name"`
	Specialization  string          `db:"specialization"`
	ConsultationFee decimal.Decimal `db:"consultation_fee"`
	CurrentPatients int             `db:"current_patients"`
	MaxPatients     int             `db:"max_patients"`
}
