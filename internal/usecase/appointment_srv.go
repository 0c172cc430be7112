package usecase

import (
	"context"
	"fmt"
	"time"

	"consult-booking/internal/data/entity"
	"consult-booking/internal/data/repository"
	"consult-booking/internal/dto/request"
	"consult-booking/internal/dto/response"
	"consult-booking/pkg/mailer"
	"consult-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const otpMailSubject = "OTP for Appointment Confirmation"

type AppointmentService interface {
	// Create books a PENDING appointment, issues an OTP and mails it to the
	// caller. A mail failure does not undo the booking; the stored code stays
	// valid and can be resent.
	Create(ctx context.Context, userID string, req *request.CreateAppointmentRequest) (*response.CreateAppointmentResponse, error)

	// VerifyOTP confirms a PENDING appointment when the submitted code
	// matches exactly and the expiry deadline has not been reached.
	VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) error

	// ResendOTP re-sends the stored code as-is. The code and its expiry are
	// not regenerated, so a code the user already received stays valid.
	// A delivery failure does not fail the operation; the returned message
	// reports it and the caller may retry.
	ResendOTP(ctx context.Context, req *request.ResendOTPRequest) (string, error)

	// UpdateStatus is the admin override. Any of the four statuses may be
	// set regardless of the current one.
	UpdateStatus(ctx context.Context, appointmentID string, req *request.UpdateStatusRequest) error

	ListAll(ctx context.Context, req *request.ListAppointmentsRequest) (*response.PaginatedResponse[response.AppointmentResponse], error)
	ListForUser(ctx context.Context, userID string) ([]response.AppointmentResponse, error)
}

type appointmentService struct {
	repo   *repository.Repository
	config *utils.Config
	mail   mailer.Mailer
	clock  utils.Clock
	log    *zap.Logger
}

func NewAppointmentService(
	repo *repository.Repository,
	config *utils.Config,
	mail mailer.Mailer,
	clock utils.Clock,
	log *zap.Logger,
) AppointmentService {
	return &appointmentService{
		repo:   repo,
		config: config,
		mail:   mail,
		clock:  clock,
		log:    log.With(zap.String("service", "appointment")),
	}
}

func (s *appointmentService) Create(ctx context.Context, userID string, req *request.CreateAppointmentRequest) (*response.CreateAppointmentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create appointment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", utils.ErrValidation, utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID %s", utils.ErrValidation, userID)
	}

	consultantID, err := uuid.Parse(req.ConsultantID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid consultant ID %s", utils.ErrValidation, req.ConsultantID)
	}

	consultant, err := s.repo.Consultant.FindByID(ctx, consultantID)
	if err != nil {
		return nil, fmt.Errorf("%w: check consultant: %v", utils.ErrStore, err)
	}
	if consultant == nil {
		return nil, fmt.Errorf("%w: consultant %s", utils.ErrNotFound, req.ConsultantID)
	}

	user, err := s.repo.User.FindByID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: load user: %v", utils.ErrStore, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", utils.ErrNotFound, userID)
	}

	now := s.clock.Now()
	otpCode := utils.GenerateOTP(s.config.OTP.Length)
	otpExpiresAt := now.Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute)

	appt := &entity.Appointment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:       userUUID,
		ConsultantID: consultantID,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Status:       entity.AppointmentStatusPending,
		OTPCode:      &otpCode,
		OTPExpiresAt: &otpExpiresAt,
	}

	if err := s.repo.Appointment.Create(ctx, appt); err != nil {
		s.log.Error("Failed to persist appointment", zap.Error(err))
		return nil, fmt.Errorf("%w: create appointment: %v", utils.ErrStore, err)
	}

	s.log.Info("Appointment created",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("user_id", userID),
		zap.String("consultant_id", req.ConsultantID),
		zap.String("date", req.Date),
		zap.String("start_time", req.StartTime),
	)

	// Delivery failure leaves the appointment in place; the code stays valid
	// for the resend endpoint.
	message := "OTP sent to email"
	if err := s.sendOTPMail(ctx, user.Email, otpCode); err != nil {
		s.log.Error("OTP delivery failed after create",
			zap.Error(err),
			zap.String("appointment_id", appt.ID.String()),
		)
		message = "Appointment created, but OTP delivery failed. Request a resend."
	}

	return &response.CreateAppointmentResponse{
		AppointmentID: appt.ID.String(),
		Message:       message,
	}, nil
}

func (s *appointmentService) VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Verify OTP validation failed", zap.Any("errors", errs))
		return fmt.Errorf("%w: %s", utils.ErrValidation, utils.FormatValidationErrors(errs))
	}

	apptID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return fmt.Errorf("%w: invalid appointment ID %s", utils.ErrValidation, req.AppointmentID)
	}

	appt, err := s.repo.Appointment.FindByID(ctx, apptID)
	if err != nil {
		return fmt.Errorf("%w: load appointment: %v", utils.ErrStore, err)
	}
	if appt == nil {
		return fmt.Errorf("%w: appointment %s", utils.ErrNotFound, req.AppointmentID)
	}

	// One failure for both the wrong-code and the expired case; the response
	// never says which. Comparison is exact, no trimming or case folding.
	if appt.OTPCode == nil || appt.OTPExpiresAt == nil {
		return utils.ErrInvalidOTP
	}
	if *appt.OTPCode != req.OTP || !s.clock.Now().Before(*appt.OTPExpiresAt) {
		s.log.Warn("OTP verification rejected",
			zap.String("appointment_id", req.AppointmentID))
		return utils.ErrInvalidOTP
	}

	applied, err := s.repo.Appointment.ConfirmWithOTP(ctx, apptID, req.OTP)
	if err != nil {
		return fmt.Errorf("%w: confirm appointment: %v", utils.ErrStore, err)
	}
	if !applied {
		// Lost a race with another verify or an admin override.
		return utils.ErrInvalidOTP
	}

	s.log.Info("Appointment confirmed",
		zap.String("appointment_id", req.AppointmentID))

	return nil
}

func (s *appointmentService) ResendOTP(ctx context.Context, req *request.ResendOTPRequest) (string, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Resend OTP validation failed", zap.Any("errors", errs))
		return "", fmt.Errorf("%w: %s", utils.ErrValidation, utils.FormatValidationErrors(errs))
	}

	apptID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return "", fmt.Errorf("%w: invalid appointment ID %s", utils.ErrValidation, req.AppointmentID)
	}

	appt, err := s.repo.Appointment.FindByID(ctx, apptID)
	if err != nil {
		return "", fmt.Errorf("%w: load appointment: %v", utils.ErrStore, err)
	}
	if appt == nil {
		return "", fmt.Errorf("%w: appointment %s", utils.ErrNotFound, req.AppointmentID)
	}

	// Nothing to resend once the code has been cleared by confirmation.
	if appt.OTPCode == nil {
		return "", fmt.Errorf("%w: no verification pending for appointment %s",
			utils.ErrNotFound, req.AppointmentID)
	}

	user, err := s.repo.User.FindByID(ctx, appt.UserID)
	if err != nil {
		return "", fmt.Errorf("%w: load user: %v", utils.ErrStore, err)
	}
	if user == nil {
		return "", fmt.Errorf("%w: user %s", utils.ErrNotFound, appt.UserID.String())
	}

	// Delivery failure is reported in the message, not as an error; the
	// stored code stays valid and the caller can try again.
	if err := s.sendOTPMail(ctx, user.Email, *appt.OTPCode); err != nil {
		s.log.Error("OTP resend delivery failed",
			zap.Error(err),
			zap.String("appointment_id", req.AppointmentID),
		)
		return "OTP delivery failed. Try again later.", nil
	}

	s.log.Info("OTP resent",
		zap.String("appointment_id", req.AppointmentID))

	return "OTP sent to email", nil
}

func (s *appointmentService) UpdateStatus(ctx context.Context, appointmentID string, req *request.UpdateStatusRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update status validation failed", zap.Any("errors", errs))
		return fmt.Errorf("%w: %s", utils.ErrValidation, utils.FormatValidationErrors(errs))
	}

	if !entity.ValidAppointmentStatus(req.Status) {
		return fmt.Errorf("%w: unknown status %s", utils.ErrValidation, req.Status)
	}

	apptID, err := uuid.Parse(appointmentID)
	if err != nil {
		return fmt.Errorf("%w: invalid appointment ID %s", utils.ErrValidation, appointmentID)
	}

	applied, err := s.repo.Appointment.UpdateStatus(ctx, apptID, entity.AppointmentStatus(req.Status))
	if err != nil {
		return fmt.Errorf("%w: update status: %v", utils.ErrStore, err)
	}
	if !applied {
		return fmt.Errorf("%w: appointment %s", utils.ErrNotFound, appointmentID)
	}

	s.log.Info("Appointment status updated",
		zap.String("appointment_id", appointmentID),
		zap.String("status", req.Status),
	)

	return nil
}

func (s *appointmentService) ListAll(ctx context.Context, req *request.ListAppointmentsRequest) (*response.PaginatedResponse[response.AppointmentResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("List appointments validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", utils.ErrValidation, utils.FormatValidationErrors(errs))
	}

	filter := repository.AppointmentFilter{
		Date:   req.Date,
		Status: entity.AppointmentStatus(req.Status),
		Limit:  req.Limit(),
		Offset: req.Offset(),
	}

	if req.ConsultantID != "" {
		consultantID, err := uuid.Parse(req.ConsultantID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid consultant ID %s", utils.ErrValidation, req.ConsultantID)
		}
		filter.ConsultantID = consultantID
	}

	appts, total, err := s.repo.Appointment.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: list appointments: %v", utils.ErrStore, err)
	}

	return response.NewPaginatedResponse(
		response.AppointmentsToResponse(appts),
		req.Page, req.Limit(), total,
	), nil
}

func (s *appointmentService) ListForUser(ctx context.Context, userID string) ([]response.AppointmentResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID %s", utils.ErrValidation, userID)
	}

	appts, err := s.repo.Appointment.FindByUserID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: list user appointments: %v", utils.ErrStore, err)
	}

	return response.AppointmentsToResponse(appts), nil
}

func (s *appointmentService) sendOTPMail(ctx context.Context, email, code string) error {
	body := fmt.Sprintf("Your OTP is %s. Valid for %d minutes.",
		code, s.config.OTP.ExpiryMinutes)
	return s.mail.Send(ctx, email, otpMailSubject, body)
}
