package repository

import (
	"context"
	"fmt"

	"hospital-booking/internal/data/entity"
	"hospital-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
}

type doctorRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewDoctorRepository(db database.Querier, log *zap.Logger) DoctorRepository {
	return &doctorRepository{
		db:  db,
		log: log.With(zap.String("repository", "doctor")),
	}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	query := `
		INSERT INTO doctors (id, full_name, specialization, consultation_fee,
		                     current_patients, max_patients, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		doctor.ID,
		doctor.FullName,
		doctor.Specialization,
		doctor.ConsultationFee,
		doctor.CurrentPatients,
		doctor.MaxPatients,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create doctor",
			zap.Error(err),
			zap.String("doctor_id", doctor.ID.String()),
		)
		return fmt.Errorf("create doctor %s: %w", doctor.ID.String(), err)
	}

	return nil
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	query := `
		SELECT id, full_name, specialization, consultation_fee,
		       current_patients, max_patients, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`

	var doctor entity.Doctor
	err := r.db.QueryRow(ctx, query, id).Scan(
		&doctor.ID,
		&doctor.FullName,
		&doctor.Specialization,
		&doctor.ConsultationFee,
		&doctor.CurrentPatients,
		&doctor.MaxPatients,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find doctor by ID",
			zap.Error(err),
			zap.String("doctor_id", id.String()),
		)
		return nil, fmt.Errorf("find doctor by ID %s: %w", id.String(), err)
	}

	return &doctor, nil
}
