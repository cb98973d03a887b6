// Command seed loads demo doctors with two weeks of planned availability
// and prints session tokens for trying the API.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"hospital-booking/internal/data/entity"
	"hospital-booking/internal/data/repository"
	"hospital-booking/internal/dto/request"
	"hospital-booking/internal/usecase"
	"hospital-booking/pkg/cache"
	"hospital-booking/pkg/database"
	"hospital-booking/pkg/utils"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var specializations = []string{
	"Cardiology",
	"Dermatology",
	"General Medicine",
	"Gynecology",
	"Neurology",
	"Orthopedics",
	"Pediatrics",
	"Psychiatry",
	"ENT",
}

func main() {
	doctors := pflag.Int("doctors", 5, "number of doctors to create")
	days := pflag.Int("days", 14, "days of availability to plan from today")
	slotMinutes := pflag.Int("slot-minutes", 30, "length of each slot")
	pflag.Parse()

	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo := repository.NewRepository(db, logger, config.Database.LockTimeout)
	service := usecase.NewService(repo, cache.NopSlotCache{}, config, logger)

	gofakeit.Seed(time.Now().UnixNano())

	today := time.Now().In(config.App.Location())
	plan := &request.PlanAvailabilityRequest{
		FromDate:    today.Format(utils.DateLayout),
		ToDate:      today.AddDate(0, 0, *days-1).Format(utils.DateLayout),
		Weekdays:    []string{"sunday", "monday", "tuesday", "wednesday", "thursday"},
		DayStart:    "09:00",
		DayEnd:      "13:00",
		SlotMinutes: *slotMinutes,
	}

	for i := 0; i < *doctors; i++ {
		doctor, err := seedDoctor(ctx, repo)
		if err != nil {
			logger.Fatal("Failed to seed doctor", zap.Error(err))
		}

		result, err := service.Availability.PlanAvailability(ctx, doctor.ID, plan)
		if err != nil {
			logger.Fatal("Failed to plan availability", zap.Error(err), zap.String("doctor_id", doctor.ID.String()))
		}

		token, err := seedSession(ctx, repo, doctor.ID, utils.RoleDoctor)
		if err != nil {
			logger.Fatal("Failed to seed doctor session", zap.Error(err))
		}

		fmt.Printf("doctor  %s  %-22s fee %s %s  slots %d  token %s\n",
			doctor.ID, doctor.FullName, doctor.ConsultationFee.StringFixed(2), config.Booking.Currency, result.Created, token)
	}

	for _, role := range []string{utils.RolePatient, utils.RoleAdmin} {
		token, err := seedSession(ctx, repo, uuid.New(), role)
		if err != nil {
			logger.Fatal("Failed to seed session", zap.Error(err), zap.String("role", role))
		}
		fmt.Printf("%-7s token %s\n", role, token)
	}
}

func seedDoctor(ctx context.Context, repo *repository.Repository) (*entity.Doctor, error) {
	now := time.Now().UTC()
	doctor := &entity.Doctor{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FullName:        "Dr. " + gofakeit.Name(),
		Specialization:  specializations[gofakeit.Number(0, len(specializations)-1)],
		ConsultationFee: decimal.NewFromInt(int64(gofakeit.Number(5, 30) * 100)),
		MaxPatients:     gofakeit.Number(10, 40),
	}

	if err := repo.Doctor.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func seedSession(ctx context.Context, repo *repository.Repository, userID uuid.UUID, role string) (uuid.UUID, error) {
	now := time.Now().UTC()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Role:      role,
		Token:     uuid.New(),
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}

	if err := repo.Session.Create(ctx, session); err != nil {
		return uuid.Nil, err
	}
	return session.Token, nil
}
