package wire

import (
	"consult-booking/internal/adaptor"
	"consult-booking/internal/data/repository"
	"consult-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAppointment(
	r chi.Router,
	appointmentHandler *adaptor.AppointmentHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/appointments - book an appointment, OTP goes out by email
		r.Post("/api/appointments", appointmentHandler.Create)

		// POST /api/appointments/verify-otp - confirm booking with the code
		r.Post("/api/appointments/verify-otp", appointmentHandler.VerifyOTP)

		// POST /api/appointments/resend-otp - re-send the stored code
		r.Post("/api/appointments/resend-otp", appointmentHandler.ResendOTP)

		// GET /api/appointments/me - caller's own appointments
		r.Get("/api/appointments/me", appointmentHandler.ListMine)
	})

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		// GET /api/appointments - list with optional date/status/consultant filters
		r.Get("/api/appointments", appointmentHandler.List)

		// POST /api/appointments/{id}/status - status override
		r.Post("/api/appointments/{id}/status", appointmentHandler.UpdateStatus)
	})
}
