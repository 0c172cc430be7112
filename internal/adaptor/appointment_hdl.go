package adaptor

import (
	"encoding/json"
	"net/http"

	"consult-booking/internal/dto/request"
	"consult-booking/internal/usecase"
	"consult-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	service usecase.AppointmentService
	log     *zap.Logger
}

func NewAppointmentHandler(service usecase.AppointmentService, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
		log:     log.With(zap.String("handler", "appointment")),
	}
}

// Create handles POST /api/appointments (protected)
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Create(r.Context(), userID.String(), &req)
	if err != nil {
		respondServiceError(w, h.log, err, "create appointment")
		return
	}

	utils.ResponseCreated(w, resp.Message, resp)
}

// VerifyOTP handles POST /api/appointments/verify-otp (protected)
func (h *AppointmentHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.VerifyOTP(r.Context(), &req); err != nil {
		respondServiceError(w, h.log, err, "verify OTP")
		return
	}

	utils.ResponseSuccess(w, "Appointment confirmed", nil)
}

// ResendOTP handles POST /api/appointments/resend-otp (protected)
func (h *AppointmentHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req request.ResendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	message, err := h.service.ResendOTP(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.log, err, "resend OTP")
		return
	}

	utils.ResponseSuccess(w, message, nil)
}

// UpdateStatus handles POST /api/appointments/{id}/status (admin only)
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "id")
	if appointmentID == "" {
		utils.ResponseBadRequest(w, "Appointment ID is required", nil)
		return
	}

	var req request.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), appointmentID, &req); err != nil {
		respondServiceError(w, h.log, err, "update status")
		return
	}

	utils.ResponseSuccess(w, "Status updated successfully", nil)
}

// List handles GET /api/appointments (admin only)
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.ListAppointmentsRequest{
		Date:         query.Get("date"),
		Status:       query.Get("status"),
		ConsultantID: query.Get("consultant_id"),
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
	}

	resp, err := h.service.ListAll(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.log, err, "list appointments")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// ListMine handles GET /api/appointments/me (protected)
func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	resp, err := h.service.ListForUser(r.Context(), userID.String())
	if err != nil {
		respondServiceError(w, h.log, err, "list own appointments")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}
