package wire

import (
	"net/http"

	"consult-booking/internal/adaptor"
	"consult-booking/internal/data/repository"
	"consult-booking/internal/scheduler"
	"consult-booking/internal/usecase"
	"consult-booking/pkg/mailer"
	"consult-booking/pkg/middleware"
	"consult-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App bundles the wired router and the background reminder scanner.
type App struct {
	Router   *chi.Mux
	Reminder *scheduler.ReminderScanner
}

// Wiring initializes all dependencies
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	mail := mailer.NewSendgridMailer(config.Email, logger)
	clock := utils.NewClock()

	service := usecase.NewService(repo, config, mail, clock, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, logger)
	reminder := scheduler.NewReminderScanner(repo, mail, clock, config, logger)

	return &App{
		Router:   router,
		Reminder: reminder,
	}
}

// setupRouter configures the Chi router
func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireAuth(r, handler.Auth, repo, logger)
	wireConsultant(r, handler.Consultant, repo, logger)
	wireAppointment(r, handler.Appointment, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
