package repository

import (
	"context"
	"fmt"

	"consult-booking/internal/data/entity"
	"consult-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// AppointmentFilter narrows admin listings. Zero values mean "no filter".
type AppointmentFilter struct {
	Date         string
	Status       entity.AppointmentStatus
	ConsultantID uuid.UUID
	Limit        int
	Offset       int
}

type AppointmentRepository interface {
	Create(ctx context.Context, appt *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Appointment, error)
	FindAll(ctx context.Context, filter AppointmentFilter) ([]*entity.Appointment, int64, error)

	// FindPendingReminders returns confirmed appointments whose reminder has
	// not been sent yet.
	FindPendingReminders(ctx context.Context) ([]*entity.Appointment, error)

	// ConfirmWithOTP transitions PENDING -> CONFIRMED and clears the OTP
	// fields, but only while the record is still PENDING and still carries
	// the given code. Returns false when the guard no longer holds.
	ConfirmWithOTP(ctx context.Context, id uuid.UUID, code string) (bool, error)

	// MarkReminderSent flips reminder_sent, guarded so a concurrent status
	// change or a competing tick cannot cause a double send to be recorded.
	// Returns false when the guard no longer holds.
	MarkReminderSent(ctx context.Context, id uuid.UUID) (bool, error)

	// UpdateStatus overwrites the status unconditionally (admin override).
	// Returns false when the appointment does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) (bool, error)
}

type appointmentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAppointmentRepository(db database.PgxIface, log *zap.Logger) AppointmentRepository {
	return &appointmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "appointment")),
	}
}

const appointmentColumns = `id, user_id, consultant_id, date, start_time, end_time,
	       status, otp_code, otp_expires_at, reminder_sent, created_at, updated_at`

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := row.Scan(
		&appt.ID,
		&appt.UserID,
		&appt.ConsultantID,
		&appt.Date,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.OTPCode,
		&appt.OTPExpiresAt,
		&appt.ReminderSent,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) Create(ctx context.Context, appt *entity.Appointment) error {
	query := `
		INSERT INTO appointments (id, user_id, consultant_id, date, start_time, end_time,
		                          status, otp_code, otp_expires_at, reminder_sent,
		                          created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		appt.ID,
		appt.UserID,
		appt.ConsultantID,
		appt.Date,
		appt.StartTime,
		appt.EndTime,
		appt.Status,
		appt.OTPCode,
		appt.OTPExpiresAt,
		appt.ReminderSent,
		appt.CreatedAt,
		appt.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create appointment",
			zap.Error(err),
			zap.String("user_id", appt.UserID.String()),
			zap.String("consultant_id", appt.ConsultantID.String()),
		)
		return fmt.Errorf("create appointment %s: %w", appt.ID.String(), err)
	}

	return nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE id = $1
	`

	appt, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find appointment by ID",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return nil, fmt.Errorf("find appointment by ID %s: %w", id.String(), err)
	}

	return appt, nil
}

func (r *appointmentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE user_id = $1
		ORDER BY date DESC, start_time DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list user appointments",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list appointments for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *appointmentRepository) FindAll(ctx context.Context, filter AppointmentFilter) ([]*entity.Appointment, int64, error) {
	where := " WHERE 1=1"
	args := []any{}
	argPos := 1

	if filter.Date != "" {
		where += fmt.Sprintf(" AND date = $%d", argPos)
		args = append(args, filter.Date)
		argPos++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}
	if filter.ConsultantID != uuid.Nil {
		where += fmt.Sprintf(" AND consultant_id = $%d", argPos)
		args = append(args, filter.ConsultantID)
		argPos++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM appointments" + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count appointments", zap.Error(err))
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	query := "SELECT " + appointmentColumns + " FROM appointments" + where +
		" ORDER BY date DESC, start_time DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list appointments", zap.Error(err))
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	appts, err := collectAppointments(rows)
	if err != nil {
		return nil, 0, err
	}

	return appts, total, nil
}

func (r *appointmentRepository) FindPendingReminders(ctx context.Context) ([]*entity.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE status = $1
		  AND reminder_sent = false
	`

	rows, err := r.db.Query(ctx, query, entity.AppointmentStatusConfirmed)
	if err != nil {
		r.log.Error("Failed to query pending reminders", zap.Error(err))
		return nil, fmt.Errorf("query pending reminders: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *appointmentRepository) ConfirmWithOTP(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $1, otp_code = NULL, otp_expires_at = NULL, updated_at = NOW()
		WHERE id = $2
		  AND status = $3
		  AND otp_code = $4
	`

	result, err := r.db.Exec(ctx, query,
		entity.AppointmentStatusConfirmed,
		id,
		entity.AppointmentStatusPending,
		code,
	)
	if err != nil {
		r.log.Error("Failed to confirm appointment",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return false, fmt.Errorf("confirm appointment %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *appointmentRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE appointments
		SET reminder_sent = true, updated_at = NOW()
		WHERE id = $1
		  AND status = $2
		  AND reminder_sent = false
	`

	result, err := r.db.Exec(ctx, query, id, entity.AppointmentStatusConfirmed)
	if err != nil {
		r.log.Error("Failed to mark reminder sent",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return false, fmt.Errorf("mark reminder sent %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		r.log.Error("Failed to update appointment status",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("update status of appointment %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func collectAppointments(rows pgx.Rows) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return appts, nil
}
