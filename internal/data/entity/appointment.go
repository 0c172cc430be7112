package entity

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
)

// ValidAppointmentStatus reports whether s is one of the four known statuses.
func ValidAppointmentStatus(s string) bool {
	switch AppointmentStatus(s) {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

// Appointment is one booking slot. Date is "2006-01-02", StartTime and
// EndTime are "15:04". OTPCode and OTPExpiresAt are set together while the
// booking awaits verification and NULLed together once it is confirmed.
type Appointment struct {
	Base
	UserID       uuid.UUID         `db:"user_id"`
	ConsultantID uuid.UUID         `db:"consultant_id"`
	Date         string            `db:"date"`
	StartTime    string            `db:"start_time"`
	EndTime      string            `db:"end_time"`
	Status       AppointmentStatus `db:"status"`
	OTPCode      *string           `db:"otp_code"`
	OTPExpiresAt *time.Time        `db:"otp_expires_at"`
	ReminderSent bool              `db:"reminder_sent"`
}

// StartsAt combines Date and StartTime into a concrete instant in loc.
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.StartTime, loc)
}
