package usecase

import (
	"consult-booking/internal/data/repository"
	"consult-booking/pkg/mailer"
	"consult-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	Consultant  ConsultantService
	Appointment AppointmentService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	mail mailer.Mailer,
	clock utils.Clock,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:        NewAuthService(repo, config, log),
		Consultant:  NewConsultantService(repo.Consultant, log),
		Appointment: NewAppointmentService(repo, config, mail, clock, log),
	}
}
