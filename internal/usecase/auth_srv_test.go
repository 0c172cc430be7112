package usecase

import (
	"context"
	"testing"

	"consult-booking/internal/data/entity"
	"consult-booking/internal/data/repository"
	"consult-booking/internal/dto/request"
	"consult-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSessionRepo struct {
	sessions map[string]*entity.Session
	revoked  []string
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (m *mockSessionRepo) Create(_ context.Context, session *entity.Session) error {
	m.sessions[session.Token.String()] = session
	return nil
}

func (m *mockSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	return m.sessions[token], nil
}

func (m *mockSessionRepo) Revoke(_ context.Context, token string) error {
	m.revoked = append(m.revoked, token)
	delete(m.sessions, token)
	return nil
}

func newAuthFixture(t *testing.T) (AuthService, *mockUserRepo, *mockSessionRepo) {
	t.Helper()

	users := newMockUserRepo()
	sessions := newMockSessionRepo()

	repo := &repository.Repository{
		User:    users,
		Session: sessions,
	}
	config := &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 24},
	}

	return NewAuthService(repo, config, zap.NewNop()), users, sessions
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	svc, users, sessions := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, entity.RoleUser, resp.Role)

	stored, err := users.FindByEmail(context.Background(), "jordan@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "hunter22", stored.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("hunter22", stored.PasswordHash))

	assert.Len(t, sessions.sessions, 1)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	req := &request.RegisterRequest{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "hunter22",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "abc",
	})
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestLoginIssuesNewSession(t *testing.T) {
	svc, _, sessions := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "jordan@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Len(t, sessions.sessions, 2)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &request.LoginRequest{
		Email:    "jordan@example.com",
		Password: "wrong-password",
	})
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter22",
	})
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.Token))
	assert.Contains(t, sessions.revoked, resp.Token)
	assert.Empty(t, sessions.sessions)
}

func TestLogoutRejectsMalformedToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	err := svc.Logout(context.Background(), "not-a-token")
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestAuthTokenIsOpaqueUUID(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = uuid.Parse(resp.Token)
	assert.NoError(t, err)
}
