// internal/handlers/auth/auth_handler.go
package auth

import (
	"context"
	"net/http"

	"uav-maintenance-service/internal/domain/auth"
	"uav-maintenance-service/internal/middleware"
	"uav-maintenance-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service is implemented by service/auth.AuthService
type Service interface {
	Register(ctx context.Context, req *auth.RegisterRequest) (*auth.LoginResponse, error)
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error)
	Logout(ctx context.Context, userID, jti string) error
	LogoutAllSessions(ctx context.Context, userID string) error
	GetSession(ctx context.Context, userID, jti string) (*auth.SessionInfo, error)
	UpdateEmail(ctx context.Context, userID string, req *auth.UpdateEmailRequest) (*auth.UserInfo, error)
	UpdatePassword(ctx context.Context, userID, currentJTI string, req *auth.UpdatePasswordRequest) error
}

type AuthHandler struct {
	authService Service
	logger      *zap.Logger
}

func NewAuthHandler(authService Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// ========== Registration ==========

// Register handles user sign-up (public endpoint)
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	loginResp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.logger.Warn("registration failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		response.FromError(c, http.StatusInternalServerError, "registration failed", err)
		return
	}

	response.Success(c, http.StatusCreated, "registration successful", loginResp)
}

// ========== Login ==========

func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	loginResp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.logger.Warn("login failed",
			zap.String("email", req.Email),
			zap.String("ip", req.IPAddress),
			zap.Error(err),
		)
		response.FromError(c, http.StatusUnauthorized, "login failed", err)
		return
	}

	h.logger.Info("user logged in",
		zap.String("user_id", loginResp.User.ID),
		zap.String("email", loginResp.User.Email),
	)

	response.Success(c, http.StatusOK, "login successful", loginResp)
}

// ========== Logout ==========

func (h *AuthHandler) Logout(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	jti := middleware.MustGetJTI(c)

	if err := h.authService.Logout(c.Request.Context(), userID, jti); err != nil {
		h.logger.Error("logout failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		response.FromError(c, http.StatusInternalServerError, "logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "logout successful", nil)
}

func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	if err := h.authService.LogoutAllSessions(c.Request.Context(), userID); err != nil {
		response.FromError(c, http.StatusInternalServerError, "logout all failed", err)
		return
	}

	response.Success(c, http.StatusOK, "all sessions logged out", nil)
}

// ========== Session ==========

// GetSession reports whether the caller's session is active
func (h *AuthHandler) GetSession(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	jti := middleware.MustGetJTI(c)

	info, err := h.authService.GetSession(c.Request.Context(), userID, jti)
	if err != nil {
		response.FromError(c, http.StatusInternalServerError, "failed to get session", err)
		return
	}

	response.Success(c, http.StatusOK, "session active", info)
}

// ========== Account ==========

func (h *AuthHandler) UpdateEmail(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req auth.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	user, err := h.authService.UpdateEmail(c.Request.Context(), userID, &req)
	if err != nil {
		response.FromError(c, http.StatusInternalServerError, "email update failed", err)
		return
	}

	response.Success(c, http.StatusOK, "email updated", user)
}

// UpdatePassword changes the password and ends every session of the user
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	jti := middleware.MustGetJTI(c)

	var req auth.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.authService.UpdatePassword(c.Request.Context(), userID, jti, &req); err != nil {
		response.FromError(c, http.StatusInternalServerError, "password update failed", err)
		return
	}

	response.Success(c, http.StatusOK, "password updated, please sign in again", nil)
}
