package wire

import (
	"consult-booking/internal/adaptor"
	"consult-booking/internal/data/repository"
	"consult-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireConsultant(
	r chi.Router,
	consultantHandler *adaptor.ConsultantHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// GET /api/consultants - list consultants (public)
	r.Get("/api/consultants", consultantHandler.List)

	// POST /api/consultants - create consultant (admin only)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/api/consultants", consultantHandler.Create)
	})
}
