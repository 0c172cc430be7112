package response

import (
	"time"

	"consult-booking/internal/data/entity"
)

// CreateAppointmentResponse is deliberately thin: the OTP itself only travels
// by email, never in the API response.
type CreateAppointmentResponse struct {
	AppointmentID string `json:"appointment_id"`
	Message       string `json:"message"`
}

type AppointmentResponse struct {
	ID           string                   `json:"id"`
	UserID       string                   `json:"user_id"`
	ConsultantID string                   `json:"consultant_id"`
	Date         string                   `json:"date"`
	StartTime    string                   `json:"start_time"`
	EndTime      string                   `json:"end_time"`
	Status       entity.AppointmentStatus `json:"status"`
	ReminderSent bool                     `json:"reminder_sent"`
	CreatedAt    time.Time                `json:"created_at"`
}

func AppointmentToResponse(appt *entity.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:           appt.ID.String(),
		UserID:       appt.UserID.String(),
		ConsultantID: appt.ConsultantID.String(),
		Date:         appt.Date,
		StartTime:    appt.StartTime,
		EndTime:      appt.EndTime,
		Status:       appt.Status,
		ReminderSent: appt.ReminderSent,
		CreatedAt:    appt.CreatedAt,
	}
}

func AppointmentsToResponse(appts []*entity.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for _, appt := range appts {
		out = append(out, AppointmentToResponse(appt))
	}
	return out
}
