package request

type CreateAppointmentRequest struct {
	ConsultantID string `json:"consultant_id" validate:"required,uuid4"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime      string `json:"end_time" validate:"required,datetime=15:04"`
}

type VerifyOTPRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required,uuid4"`
	OTP           string `json:"otp" validate:"required"`
}

type ResendOTPRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required,uuid4"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
}

// ListAppointmentsRequest carries the optional admin list filters parsed from
// query parameters; validation happens after parsing.
type ListAppointmentsRequest struct {
	Date         string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Status       string `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
	ConsultantID string `json:"consultant_id" validate:"omitempty,uuid4"`
	PaginatedRequest
}
