package repository

import (
	"consult-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	Consultant  ConsultantRepository
	Appointment AppointmentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		Consultant:  NewConsultantRepository(db, log),
		Appointment: NewAppointmentRepository(db, log),
	}
}
