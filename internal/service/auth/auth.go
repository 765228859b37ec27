// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"uav-maintenance-service/internal/domain/auth"
	xerrors "uav-maintenance-service/internal/pkg/errors"
	"uav-maintenance-service/internal/pkg/jwt"
	"uav-maintenance-service/internal/pkg/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SessionStore is the subset of session.Manager the service relies on
type SessionStore interface {
	CreateSession(ctx context.Context, data *session.SessionData) error
	GetSession(ctx context.Context, userID, jti string) (*session.SessionData, error)
	InvalidateSession(ctx context.Context, userID, jti string) error
	InvalidateAllUserSessions(ctx context.Context, userID string) error
	IsTokenBlacklisted(ctx context.Context, jti string) (bool, error)
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

type LoginLimiter interface {
	CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error)
	ResetLoginAttempts(ctx context.Context, ip, email string) error
}

// Notifier pushes session events to connected websocket clients
type Notifier interface {
	ForceLogout(userID, sessionID, reason string)
}

type AuthService struct {
	userRepo       auth.UserRepository
	jwtManager     *jwt.Manager
	sessionManager SessionStore
	rateLimiter    LoginLimiter
	notifier       Notifier
	logger         *zap.Logger
}

func NewAuthService(
	userRepo auth.UserRepository,
	jwtManager *jwt.Manager,
	sessionManager SessionStore,
	rateLimiter LoginLimiter,
	notifier Notifier,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		notifier:       notifier,
		logger:         logger,
	}
}

// ========== Registration ==========

// Register creates a new account and signs it in
func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, xerrors.ErrDuplicateEntry
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &auth.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("email", email))

	return s.startSession(ctx, user, req.Device, req.IPAddress, req.UserAgent)
}

// EnsureUser creates an account unless one already exists for the email.
// Used at startup to seed the first operator.
func (s *AuthService) EnsureUser(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return fmt.Errorf("bootstrap email and password must both be set")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		s.logger.Info("bootstrap user already exists, skipping creation", zap.String("email", email))
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.Create(ctx, &auth.User{Email: email, PasswordHash: string(hashedPassword)}); err != nil {
		return fmt.Errorf("failed to create bootstrap user: %w", err)
	}

	s.logger.Info("bootstrap user created", zap.String("email", email))
	return nil
}

// ========== Login ==========

// Login authenticates a user with email/password
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	allowed, remaining, err := s.rateLimiter.CheckLoginAttempt(ctx, req.IPAddress, email)
	if err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		return nil, xerrors.Wrap(xerrors.ErrRateLimited, "too many login attempts, please try again in 15 minutes")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrInvalidCreds
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("failed login attempt",
			zap.String("email", email),
			zap.Int64("remaining", remaining),
		)
		return nil, xerrors.ErrInvalidCreds
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, req.IPAddress, email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	return s.startSession(ctx, user, req.Device, req.IPAddress, req.UserAgent)
}

// startSession generates an access token and stores its session
func (s *AuthService) startSession(ctx context.Context, user *auth.User, device, ipAddress, userAgent string) (*auth.LoginResponse, error) {
	accessToken, jti, err := s.jwtManager.Generator.GenerateAccessToken(user.ID, user.Email, device)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtManager.Generator.TTL)

	sessionData := &session.SessionData{
		JTI:            jti,
		UserID:         user.ID,
		Email:          user.Email,
		Device:         device,
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      expiresAt,
	}

	if err := s.sessionManager.CreateSession(ctx, sessionData); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &auth.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtManager.Generator.TTL.Seconds()),
		ExpiresAt:   expiresAt,
		User:        user.Info(),
	}, nil
}

// ========== Logout ==========

// Logout invalidates the current session
func (s *AuthService) Logout(ctx context.Context, userID, jti string) error {
	if err := s.sessionManager.InvalidateSession(ctx, userID, jti); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}

	if err := s.sessionManager.BlacklistToken(ctx, jti, s.jwtManager.Generator.TTL); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	s.notifier.ForceLogout(userID, jti, "User logged out")
	return nil
}

// LogoutAllSessions invalidates all sessions for a user
func (s *AuthService) LogoutAllSessions(ctx context.Context, userID string) error {
	if err := s.sessionManager.InvalidateAllUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("failed to invalidate sessions: %w", err)
	}

	s.notifier.ForceLogout(userID, "", "All sessions logged out")
	return nil
}

// ========== Session ==========

// ValidateToken validates a JWT token and its session
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.Verifier.VerifyAccessToken(token)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, err.Error())
	}

	blacklisted, err := s.sessionManager.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "token has been revoked")
	}

	if _, err := s.sessionManager.GetSession(ctx, claims.UserID, claims.ID); err != nil {
		return nil, fmt.Errorf("session not found or expired: %w", err)
	}

	return claims, nil
}

// GetSession reports the active session behind a token
func (s *AuthService) GetSession(ctx context.Context, userID, jti string) (*auth.SessionInfo, error) {
	data, err := s.sessionManager.GetSession(ctx, userID, jti)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &auth.SessionInfo{
		Active:         true,
		User:           user.Info(),
		Device:         data.Device,
		LoginAt:        data.LoginAt,
		LastActivityAt: data.LastActivityAt,
		ExpiresAt:      data.ExpiresAt,
	}, nil
}

// ========== Account ==========

// UpdateEmail changes the sign-in email of the current user
func (s *AuthService) UpdateEmail(ctx context.Context, userID string, req *auth.UpdateEmailRequest) (*auth.UserInfo, error) {
	email := normalizeEmail(req.Email)

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.Email == email {
		info := user.Info()
		return &info, nil
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, xerrors.ErrDuplicateEntry
	}

	if err := s.userRepo.UpdateEmail(ctx, userID, email); err != nil {
		return nil, fmt.Errorf("failed to update email: %w", err)
	}

	user.Email = email
	info := user.Info()
	return &info, nil
}

// UpdatePassword replaces the password and signs out every other session
func (s *AuthService) UpdatePassword(ctx context.Context, userID, currentJTI string, req *auth.UpdatePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return xerrors.Wrap(xerrors.ErrInvalidInput, "passwords do not match")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.LogoutAllSessions(ctx, userID); err != nil {
		return err
	}

	if currentJTI != "" {
		if err := s.sessionManager.BlacklistToken(ctx, currentJTI, s.jwtManager.Generator.TTL); err != nil {
			s.logger.Warn("failed to blacklist current token", zap.Error(err))
		}
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
