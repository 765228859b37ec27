package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"uav-maintenance-service/internal/domain/auth"
	xerrors "uav-maintenance-service/internal/pkg/errors"
	"uav-maintenance-service/internal/pkg/jwt"
	"uav-maintenance-service/internal/pkg/session"
	"uav-maintenance-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessions struct {
	mu        sync.Mutex
	sessions  map[string]*session.SessionData
	blacklist map[string]bool
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		sessions:  make(map[string]*session.SessionData),
		blacklist: make(map[string]bool),
	}
}

func (f *fakeSessions) CreateSession(ctx context.Context, data *session.SessionData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[data.UserID+":"+data.JTI] = data
	return nil
}

func (f *fakeSessions) GetSession(ctx context.Context, userID, jti string) (*session.SessionData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.sessions[userID+":"+jti]
	if !ok {
		return nil, xerrors.ErrSessionExpired
	}
	return data, nil
}

func (f *fakeSessions) InvalidateSession(ctx context.Context, userID, jti string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, userID+":"+jti)
	return nil
}

func (f *fakeSessions) InvalidateAllUserSessions(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, data := range f.sessions {
		if data.UserID == userID {
			delete(f.sessions, key)
		}
	}
	return nil
}

func (f *fakeSessions) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blacklist[jti], nil
}

func (f *fakeSessions) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blacklist[jti] = true
	return nil
}

type fakeLimiter struct {
	attempts map[string]int64
	max      int64
}

func (f *fakeLimiter) CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error) {
	f.attempts[ip+email]++
	n := f.attempts[ip+email]
	return n <= f.max, f.max - n, nil
}

func (f *fakeLimiter) ResetLoginAttempts(ctx context.Context, ip, email string) error {
	delete(f.attempts, ip+email)
	return nil
}

type logoutEvent struct{ userID, sessionID string }

type fakeNotifier struct {
	events []logoutEvent
}

func (f *fakeNotifier) ForceLogout(userID, sessionID, reason string) {
	f.events = append(f.events, logoutEvent{userID, sessionID})
}

type fixture struct {
	svc      *AuthService
	users    *memory.UserRepository
	sessions *fakeSessions
	notifier *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	manager, err := jwt.NewEphemeral(jwt.Config{
		Issuer:   "uav-maintenance",
		Audience: "uav-maintenance-users",
		TTL:      time.Hour,
	})
	require.NoError(t, err)

	f := &fixture{
		users:    memory.NewUserRepository(),
		sessions: newFakeSessions(),
		notifier: &fakeNotifier{},
	}
	limiter := &fakeLimiter{attempts: make(map[string]int64), max: 5}
	f.svc = NewAuthService(f.users, manager, f.sessions, limiter, f.notifier, zap.NewNop())
	return f
}

func register(t *testing.T, f *fixture, email string) *auth.LoginResponse {
	t.Helper()
	resp, err := f.svc.Register(context.Background(), &auth.RegisterRequest{
		Email:     email,
		Password:  "correct-horse",
		IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	f := newFixture(t)
	resp := register(t, f, " Ops@Example.com ")

	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "ops@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := f.svc.ValidateToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	_, err = f.svc.Register(context.Background(), &auth.RegisterRequest{Email: "ops@example.com", Password: "another-pass"})
	assert.ErrorIs(t, err, xerrors.ErrDuplicateEntry)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	register(t, f, "ops@example.com")

	resp, err := f.svc.Login(ctx, &auth.LoginRequest{Email: "ops@example.com", Password: "correct-horse", IPAddress: "10.0.0.2"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = f.svc.Login(ctx, &auth.LoginRequest{Email: "ops@example.com", Password: "wrong-password", IPAddress: "10.0.0.2"})
	assert.ErrorIs(t, err, xerrors.ErrInvalidCreds)

	_, err = f.svc.Login(ctx, &auth.LoginRequest{Email: "nobody@example.com", Password: "whatever", IPAddress: "10.0.0.2"})
	assert.ErrorIs(t, err, xerrors.ErrInvalidCreds)
}

func TestLoginRateLimited(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	register(t, f, "ops@example.com")

	req := &auth.LoginRequest{Email: "ops@example.com", Password: "wrong-password", IPAddress: "10.0.0.3"}
	for i := 0; i < 5; i++ {
		_, err := f.svc.Login(ctx, req)
		require.ErrorIs(t, err, xerrors.ErrInvalidCreds)
	}

	req.Password = "correct-horse"
	_, err := f.svc.Login(ctx, req)
	assert.ErrorIs(t, err, xerrors.ErrRateLimited)
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	resp := register(t, f, "ops@example.com")

	claims, err := f.svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, claims.UserID, claims.ID))

	_, err = f.svc.ValidateToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, logoutEvent{claims.UserID, claims.ID}, f.notifier.events[0])
}

func TestValidateTokenRejectsGarbageAndMissingSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	resp := register(t, f, "ops@example.com")

	_, err := f.svc.ValidateToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)

	require.NoError(t, f.sessions.InvalidateAllUserSessions(ctx, resp.User.ID))
	_, err = f.svc.ValidateToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, xerrors.ErrSessionExpired)
}

func TestGetSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	resp := register(t, f, "ops@example.com")
	claims, err := f.svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)

	info, err := f.svc.GetSession(ctx, claims.UserID, claims.ID)
	require.NoError(t, err)
	assert.True(t, info.Active)
	assert.Equal(t, "ops@example.com", info.User.Email)

	_, err = f.svc.GetSession(ctx, claims.UserID, "other-jti")
	assert.ErrorIs(t, err, xerrors.ErrSessionExpired)
}

func TestUpdateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := register(t, f, "ops@example.com")
	register(t, f, "lead@example.com")

	info, err := f.svc.UpdateEmail(ctx, first.User.ID, &auth.UpdateEmailRequest{Email: "OPS2@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ops2@example.com", info.Email)

	_, err = f.svc.UpdateEmail(ctx, first.User.ID, &auth.UpdateEmailRequest{Email: "lead@example.com"})
	assert.ErrorIs(t, err, xerrors.ErrDuplicateEntry)

	_, err = f.svc.Login(ctx, &auth.LoginRequest{Email: "ops2@example.com", Password: "correct-horse", IPAddress: "10.0.0.9"})
	assert.NoError(t, err)
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	resp := register(t, f, "ops@example.com")
	claims, err := f.svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)

	err = f.svc.UpdatePassword(ctx, claims.UserID, claims.ID, &auth.UpdatePasswordRequest{
		NewPassword: "new-password-1", ConfirmPassword: "new-password-2",
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	require.NoError(t, f.svc.UpdatePassword(ctx, claims.UserID, claims.ID, &auth.UpdatePasswordRequest{
		NewPassword: "new-password-1", ConfirmPassword: "new-password-1",
	}))

	_, err = f.svc.ValidateToken(ctx, resp.AccessToken)
	assert.Error(t, err, "existing sessions are revoked")

	_, err = f.svc.Login(ctx, &auth.LoginRequest{Email: "ops@example.com", Password: "correct-horse", IPAddress: "10.0.0.4"})
	assert.ErrorIs(t, err, xerrors.ErrInvalidCreds)

	_, err = f.svc.Login(ctx, &auth.LoginRequest{Email: "ops@example.com", Password: "new-password-1", IPAddress: "10.0.0.4"})
	assert.NoError(t, err)
}

func TestEnsureUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.EnsureUser(ctx, "admin@example.com", "bootstrap-pass"))
	require.NoError(t, f.svc.EnsureUser(ctx, "admin@example.com", "bootstrap-pass"))

	exists, err := f.users.ExistsByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Error(t, f.svc.EnsureUser(ctx, "", "x"))
}
