package adaptor

import (
	"encoding/json"
	"net/http"

	"consult-booking/internal/dto/request"
	"consult-booking/internal/usecase"
	"consult-booking/pkg/utils"

	"go.uber.org/zap"
)

type ConsultantHandler struct {
	service usecase.ConsultantService
	log     *zap.Logger
}

func NewConsultantHandler(service usecase.ConsultantService, log *zap.Logger) *ConsultantHandler {
	return &ConsultantHandler{
		service: service,
		log:     log.With(zap.String("handler", "consultant")),
	}
}

// Create handles POST /api/consultants (admin only)
func (h *ConsultantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateConsultantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.log, err, "create consultant")
		return
	}

	utils.ResponseCreated(w, "success", resp)
}

// List handles GET /api/consultants (public)
func (h *ConsultantHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(w, h.log, err, "list consultants")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}
