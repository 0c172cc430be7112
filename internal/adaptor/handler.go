package adaptor

import (
	"errors"
	"net/http"

	"consult-booking/internal/usecase"
	"consult-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth        *AuthHandler
	Consultant  *ConsultantHandler
	Appointment *AppointmentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(service.Auth, log),
		Consultant:  NewConsultantHandler(service.Consultant, log),
		Appointment: NewAppointmentHandler(service.Appointment, log),
	}
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, utils.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, utils.ErrValidation), errors.Is(err, utils.ErrInvalidOTP):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, utils.ErrMailer):
		log.Error(operation+" failed - mail delivery", zap.Error(err))
		utils.ResponseInternalError(w, "Failed to deliver email")

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
