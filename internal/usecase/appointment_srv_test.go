package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"consult-booking/internal/data/entity"
	"consult-booking/internal/data/repository"
	"consult-booking/internal/dto/request"
	"consult-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// -- Fakes --

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type mockMailer struct {
	sent    []sentMail
	failAll bool
}

func (m *mockMailer) Send(_ context.Context, to, subject, body string) error {
	if m.failAll {
		return fmt.Errorf("%w: connection refused", utils.ErrMailer)
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type mockUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *entity.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type mockConsultantRepo struct {
	consultants map[uuid.UUID]*entity.Consultant
}

func newMockConsultantRepo() *mockConsultantRepo {
	return &mockConsultantRepo{consultants: make(map[uuid.UUID]*entity.Consultant)}
}

func (m *mockConsultantRepo) Create(_ context.Context, c *entity.Consultant) error {
	m.consultants[c.ID] = c
	return nil
}

func (m *mockConsultantRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Consultant, error) {
	return m.consultants[id], nil
}

func (m *mockConsultantRepo) FindAll(_ context.Context) ([]*entity.Consultant, error) {
	var out []*entity.Consultant
	for _, c := range m.consultants {
		out = append(out, c)
	}
	return out, nil
}

type mockAppointmentRepo struct {
	appts map[uuid.UUID]*entity.Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appts: make(map[uuid.UUID]*entity.Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, appt *entity.Appointment) error {
	cp := *appt
	m.appts[appt.ID] = &cp
	return nil
}

func (m *mockAppointmentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appt, ok := m.appts[id]
	if !ok {
		return nil, nil
	}
	cp := *appt
	return &cp, nil
}

func (m *mockAppointmentRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Appointment, error) {
	var out []*entity.Appointment
	for _, a := range m.appts {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) FindAll(_ context.Context, filter repository.AppointmentFilter) ([]*entity.Appointment, int64, error) {
	var out []*entity.Appointment
	for _, a := range m.appts {
		if filter.Date != "" && a.Date != filter.Date {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.ConsultantID != uuid.Nil && a.ConsultantID != filter.ConsultantID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (m *mockAppointmentRepo) FindPendingReminders(_ context.Context) ([]*entity.Appointment, error) {
	var out []*entity.Appointment
	for _, a := range m.appts {
		if a.Status == entity.AppointmentStatusConfirmed && !a.ReminderSent {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) ConfirmWithOTP(_ context.Context, id uuid.UUID, code string) (bool, error) {
	appt, ok := m.appts[id]
	if !ok || appt.Status != entity.AppointmentStatusPending {
		return false, nil
	}
	if appt.OTPCode == nil || *appt.OTPCode != code {
		return false, nil
	}
	appt.Status = entity.AppointmentStatusConfirmed
	appt.OTPCode = nil
	appt.OTPExpiresAt = nil
	return true, nil
}

func (m *mockAppointmentRepo) MarkReminderSent(_ context.Context, id uuid.UUID) (bool, error) {
	appt, ok := m.appts[id]
	if !ok || appt.Status != entity.AppointmentStatusConfirmed || appt.ReminderSent {
		return false, nil
	}
	appt.ReminderSent = true
	return true, nil
}

func (m *mockAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.AppointmentStatus) (bool, error) {
	appt, ok := m.appts[id]
	if !ok {
		return false, nil
	}
	appt.Status = status
	return true, nil
}

// -- Fixture --

type fixture struct {
	service     AppointmentService
	appts       *mockAppointmentRepo
	users       *mockUserRepo
	consultants *mockConsultantRepo
	mail        *mockMailer
	clock       *fakeClock

	userID       uuid.UUID
	consultantID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	appts := newMockAppointmentRepo()
	users := newMockUserRepo()
	consultants := newMockConsultantRepo()
	mail := &mockMailer{}
	clock := &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)}

	userID := uuid.New()
	users.users[userID] = &entity.User{
		Base:  entity.Base{ID: userID},
		Name:  "Jordan",
		Email: "jordan@example.com",
		Role:  entity.RoleUser,
	}

	consultantID := uuid.New()
	consultants.consultants[consultantID] = &entity.Consultant{
		Base:           entity.Base{ID: consultantID},
		Name:           "Dr. Reyes",
		Specialization: "Nutrition",
	}

	repo := &repository.Repository{
		User:        users,
		Consultant:  consultants,
		Appointment: appts,
	}

	config := &utils.Config{
		OTP: utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
	}

	service := NewAppointmentService(repo, config, mail, clock, zap.NewNop())

	return &fixture{
		service:      service,
		appts:        appts,
		users:        users,
		consultants:  consultants,
		mail:         mail,
		clock:        clock,
		userID:       userID,
		consultantID: consultantID,
	}
}

func (f *fixture) createRequest() *request.CreateAppointmentRequest {
	slot := f.clock.now.Add(30 * time.Minute)
	return &request.CreateAppointmentRequest{
		ConsultantID: f.consultantID.String(),
		Date:         slot.Format("2006-01-02"),
		StartTime:    slot.Format("15:04"),
		EndTime:      slot.Add(30 * time.Minute).Format("15:04"),
	}
}

func (f *fixture) create(t *testing.T) *entity.Appointment {
	t.Helper()

	resp, err := f.service.Create(context.Background(), f.userID.String(), f.createRequest())
	require.NoError(t, err)

	id, err := uuid.Parse(resp.AppointmentID)
	require.NoError(t, err)

	appt, err := f.appts.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, appt)
	return appt
}

// -- Create --

func TestCreateAppointment(t *testing.T) {
	f := newFixture(t)

	appt := f.create(t)

	assert.Equal(t, entity.AppointmentStatusPending, appt.Status)
	assert.False(t, appt.ReminderSent)

	require.NotNil(t, appt.OTPCode)
	assert.Len(t, *appt.OTPCode, 6)
	require.NotNil(t, appt.OTPExpiresAt)
	assert.Equal(t, f.clock.now.Add(10*time.Minute), *appt.OTPExpiresAt)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "jordan@example.com", f.mail.sent[0].To)
	assert.Equal(t, "OTP for Appointment Confirmation", f.mail.sent[0].Subject)
	assert.Contains(t, f.mail.sent[0].Body, *appt.OTPCode)
}

func TestCreateAppointmentMissingFields(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest()
	req.Date = ""

	_, err := f.service.Create(context.Background(), f.userID.String(), req)
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestCreateAppointmentUnknownConsultant(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest()
	req.ConsultantID = uuid.NewString()

	_, err := f.service.Create(context.Background(), f.userID.String(), req)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCreateAppointmentMailFailureKeepsBooking(t *testing.T) {
	f := newFixture(t)
	f.mail.failAll = true

	resp, err := f.service.Create(context.Background(), f.userID.String(), f.createRequest())
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "delivery failed")

	// The booking exists and the code is still live for a resend.
	id, err := uuid.Parse(resp.AppointmentID)
	require.NoError(t, err)
	appt, _ := f.appts.FindByID(context.Background(), id)
	require.NotNil(t, appt)
	assert.Equal(t, entity.AppointmentStatusPending, appt.Status)
	assert.NotNil(t, appt.OTPCode)
}

// -- VerifyOTP --

func TestVerifyOTPConfirms(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t)
	code := *appt.OTPCode

	err := f.service.VerifyOTP(context.Background(), &request.VerifyOTPRequest{
		AppointmentID: appt.ID.String(),
		OTP:           code,
	})
	require.NoError(t, err)

	confirmed, _ := f.appts.FindByID(context.Background(), appt.ID)
	assert.Equal(t, entity.AppointmentStatusConfirmed, confirmed.Status)
	assert.Nil(t, confirmed.OTPCode)
	assert.Nil(t, confirmed.OTPExpiresAt)

	// A second verification with the same code fails: the code is gone.
	err = f.service.VerifyOTP(context.Background(), &request.VerifyOTPRequest{
		AppointmentID: appt.ID.String(),
		OTP:           code,
	})
	assert.ErrorIs(t, err, utils.ErrInvalidOTP)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t)

	wrong := "000000"
	if *appt.OTPCode == wrong {
		wrong = "000001"
	}

	err := f.service.VerifyOTP(context.Background(), &request.VerifyOTPRequest{
		AppointmentID: appt.ID.String(),
		OTP:           wrong,
	})
	assert.ErrorIs(t, err, utils.ErrInvalidOTP)

	// Record untouched, retry still possible.
	unchanged, _ := f.appts.FindByID(context.Background(), appt.ID)
	assert.Equal(t, entity.AppointmentStatusPending, unchanged.Status)
	assert.Equal(t, *appt.OTPCode, *unchanged.OTPCode)
}

func TestVerifyOTPExpired(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t)
	code := *appt.OTPCode

	f.clock.now = f.clock.now.Add(11 * time.Minute)

	err := f.service.VerifyOTP(context.Background(), &request.VerifyOTPRequest{
		AppointmentID: appt.ID.String(),
		OTP:           code,
	})
	assert.ErrorIs(t, err, utils.ErrInvalidOTP)
}

func TestVerifyOTPAtExactExpiryInstant(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t)
	code := *appt.OTPCode

	// now == otpExpiresAt: the window is strictly before the deadline.
	f.clock.now = *appt.OTPExpiresAt

	err := f.service.VerifyOTP(context.Background(), &request.VerifyOTPRequest{
		AppointmentID: appt.ID.String(),
		OTP:           code,
	})
	assert.ErrorIs(t, err, utils.ErrInvalidOTP)
}

func TestVerifyOTPExactComparison(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t)

	// Whitespace is not trimmed; the match must be bit-for-bit.
	err := f.service.VerifyOTP(context.Background(), &request.VerifyOTPRequest{
		AppointmentID: appt.ID.String(),
		OTP:           " " + (*appt.OTPCode)[1:],
	})
	assert.ErrorIs(t, err, utils.ErrInvalidOTP)
}

func TestVerifyOTPUnknownAppointment(t *testing.T) {
	f := newFixture(t)

	err := f.service.VerifyOTP(context.Background(), &request.VerifyOTPRequest{
		AppointmentID: uuid.NewString(),
		OTP:           "123456",
	})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestVerifyOTPHonorsConfiguredLength(t *testing.T) {
	f := newFixture(t)

	repo := &repository.Repository{
		User:        f.users,
		Consultant:  f.consultants,
		Appointment: f.appts,
	}
	config := &utils.Config{
		OTP: utils.OTPConfig{ExpiryMinutes: 10, Length: 8},
	}
	svc := NewAppointmentService(repo, config, f.mail, f.clock, zap.NewNop())

	resp, err := svc.Create(context.Background(), f.userID.String(), f.createRequest())
	require.NoError(t, err)

	id, err := uuid.Parse(resp.AppointmentID)
	require.NoError(t, err)
	appt, err := f.appts.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, appt.OTPCode)
	require.Len(t, *appt.OTPCode, 8)

	// An 8-digit code passes request validation and the exact compare.
	require.NoError(t, svc.VerifyOTP(context.Background(), &request.VerifyOTPRequest{
		AppointmentID: appt.ID.String(),
		OTP:           *appt.OTPCode,
	}))
}

// -- ResendOTP --

func TestResendOTPSendsSameCode(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t)
	code := *appt.OTPCode

	message, err := f.service.ResendOTP(context.Background(), &request.ResendOTPRequest{
		AppointmentID: appt.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "OTP sent to email", message)

	require.Len(t, f.mail.sent, 2)
	assert.Contains(t, f.mail.sent[1].Body, code)

	// Code and expiry are not refreshed on resend.
	after, _ := f.appts.FindByID(context.Background(), appt.ID)
	assert.Equal(t, code, *after.OTPCode)
	assert.Equal(t, *appt.OTPExpiresAt, *after.OTPExpiresAt)
}

func TestResendOTPAfterConfirmation(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t)

	require.NoError(t, f.service.VerifyOTP(context.Background(), &request.VerifyOTPRequest{
		AppointmentID: appt.ID.String(),
		OTP:           *appt.OTPCode,
	}))

	_, err := f.service.ResendOTP(context.Background(), &request.ResendOTPRequest{
		AppointmentID: appt.ID.String(),
	})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	// Only the original OTP mail went out; nothing empty was sent.
	assert.Len(t, f.mail.sent, 1)
}

func TestResendOTPUnknownAppointment(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ResendOTP(context.Background(), &request.ResendOTPRequest{
		AppointmentID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestResendOTPMailFailureKeepsOperationSuccessful(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t)
	code := *appt.OTPCode
	f.mail.failAll = true

	message, err := f.service.ResendOTP(context.Background(), &request.ResendOTPRequest{
		AppointmentID: appt.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "OTP delivery failed. Try again later.", message)

	// The stored code survives the failed delivery and still verifies.
	f.mail.failAll = false
	require.NoError(t, f.service.VerifyOTP(context.Background(), &request.VerifyOTPRequest{
		AppointmentID: appt.ID.String(),
		OTP:           code,
	}))
}

// -- UpdateStatus --

func TestUpdateStatusOverride(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t)

	require.NoError(t, f.service.VerifyOTP(context.Background(), &request.VerifyOTPRequest{
		AppointmentID: appt.ID.String(),
		OTP:           *appt.OTPCode,
	}))

	err := f.service.UpdateStatus(context.Background(), appt.ID.String(),
		&request.UpdateStatusRequest{Status: "CANCELLED"})
	require.NoError(t, err)

	cancelled, _ := f.appts.FindByID(context.Background(), appt.ID)
	assert.Equal(t, entity.AppointmentStatusCancelled, cancelled.Status)

	// Overrides are unrestricted: CANCELLED back to COMPLETED is allowed.
	err = f.service.UpdateStatus(context.Background(), appt.ID.String(),
		&request.UpdateStatusRequest{Status: "COMPLETED"})
	require.NoError(t, err)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t)

	err := f.service.UpdateStatus(context.Background(), appt.ID.String(),
		&request.UpdateStatusRequest{Status: "RESCHEDULED"})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestUpdateStatusUnknownAppointment(t *testing.T) {
	f := newFixture(t)

	err := f.service.UpdateStatus(context.Background(), uuid.NewString(),
		&request.UpdateStatusRequest{Status: "CANCELLED"})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUpdateStatusLeavesReminderFlagAlone(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t)

	require.NoError(t, f.service.VerifyOTP(context.Background(), &request.VerifyOTPRequest{
		AppointmentID: appt.ID.String(),
		OTP:           *appt.OTPCode,
	}))

	// Force the flag, then override the status; the flag must survive.
	applied, err := f.appts.MarkReminderSent(context.Background(), appt.ID)
	require.NoError(t, err)
	require.True(t, applied)

	require.NoError(t, f.service.UpdateStatus(context.Background(), appt.ID.String(),
		&request.UpdateStatusRequest{Status: "COMPLETED"}))

	after, _ := f.appts.FindByID(context.Background(), appt.ID)
	assert.True(t, after.ReminderSent)
}

// -- Listings --

func TestListForUser(t *testing.T) {
	f := newFixture(t)
	f.create(t)
	f.create(t)

	out, err := f.service.ListForUser(context.Background(), f.userID.String())
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestListAllStatusFilter(t *testing.T) {
	f := newFixture(t)
	first := f.create(t)
	f.create(t)

	require.NoError(t, f.service.VerifyOTP(context.Background(), &request.VerifyOTPRequest{
		AppointmentID: first.ID.String(),
		OTP:           *first.OTPCode,
	}))

	out, err := f.service.ListAll(context.Background(), &request.ListAppointmentsRequest{
		Status:           "CONFIRMED",
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
	})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, first.ID.String(), out.Data[0].ID)
}

func TestListAllRejectsBadStatusFilter(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ListAll(context.Background(), &request.ListAppointmentsRequest{
		Status:           "BOGUS",
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
	})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

// Guard against accidental reuse of the mail error sentinel for user-visible
// OTP failures: the invalid-OTP message must not leak expiry details.
func TestInvalidOTPMessageIsOpaque(t *testing.T) {
	require.False(t, errors.Is(utils.ErrInvalidOTP, utils.ErrMailer))
	assert.False(t, strings.Contains(utils.ErrInvalidOTP.Error(), "wrong"))
	assert.False(t, strings.Contains(utils.ErrInvalidOTP.Error(), "mismatch"))
}
