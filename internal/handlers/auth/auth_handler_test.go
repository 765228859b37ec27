package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"uav-maintenance-service/internal/domain/auth"
	xerrors "uav-maintenance-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeService struct {
	registered  map[string]bool
	loggedOut   []string
	passwordErr error
}

func (f *fakeService) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.LoginResponse, error) {
	if f.registered[req.Email] {
		return nil, xerrors.Wrap(xerrors.ErrDuplicateEntry, "email already registered")
	}
	f.registered[req.Email] = true
	return &auth.LoginResponse{AccessToken: "tok", TokenType: "Bearer", User: auth.UserInfo{ID: "u1", Email: req.Email}}, nil
}

func (f *fakeService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	switch req.Password {
	case "correct-horse":
		return &auth.LoginResponse{AccessToken: "tok", User: auth.UserInfo{ID: "u1", Email: req.Email}}, nil
	case "slow-down":
		return nil, xerrors.Wrap(xerrors.ErrRateLimited, "too many login attempts")
	}
	return nil, xerrors.ErrInvalidCreds
}

func (f *fakeService) Logout(ctx context.Context, userID, jti string) error {
	f.loggedOut = append(f.loggedOut, userID+"/"+jti)
	return nil
}

func (f *fakeService) LogoutAllSessions(ctx context.Context, userID string) error {
	f.loggedOut = append(f.loggedOut, userID+"/*")
	return nil
}

func (f *fakeService) GetSession(ctx context.Context, userID, jti string) (*auth.SessionInfo, error) {
	return &auth.SessionInfo{Active: true, User: auth.UserInfo{ID: userID}}, nil
}

func (f *fakeService) UpdateEmail(ctx context.Context, userID string, req *auth.UpdateEmailRequest) (*auth.UserInfo, error) {
	if f.registered[req.Email] {
		return nil, xerrors.ErrDuplicateEntry
	}
	return &auth.UserInfo{ID: userID, Email: req.Email}, nil
}

func (f *fakeService) UpdatePassword(ctx context.Context, userID, currentJTI string, req *auth.UpdatePasswordRequest) error {
	return f.passwordErr
}

func newRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(svc, zap.NewNop())

	r := gin.New()
	r.POST("/signup", h.Register)
	r.POST("/login", h.Login)

	authed := r.Group("", func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Set("jti", "jti-1")
		c.Next()
	})
	authed.POST("/logout", h.Logout)
	authed.POST("/logout-all", h.LogoutAll)
	authed.GET("/session", h.GetSession)
	authed.PUT("/email", h.UpdateEmail)
	authed.PUT("/password", h.UpdatePassword)
	return r
}

func send(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	svc := &fakeService{registered: map[string]bool{}}
	r := newRouter(svc)

	w := send(r, http.MethodPost, "/signup", map[string]string{"email": "ops@example.com", "password": "long-enough"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"tok"`)

	w = send(r, http.MethodPost, "/signup", map[string]string{"email": "ops@example.com", "password": "long-enough"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = send(r, http.MethodPost, "/signup", map[string]string{"email": "not-an-email", "password": "long-enough"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPost, "/signup", map[string]string{"email": "new@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	r := newRouter(&fakeService{registered: map[string]bool{}})

	cases := []struct {
		password string
		status   int
	}{
		{"correct-horse", http.StatusOK},
		{"wrong", http.StatusUnauthorized},
		{"slow-down", http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		w := send(r, http.MethodPost, "/login", map[string]string{"email": "ops@example.com", "password": tc.password})
		assert.Equal(t, tc.status, w.Code, tc.password)
	}
}

func TestAuthenticatedEndpoints(t *testing.T) {
	svc := &fakeService{registered: map[string]bool{"taken@example.com": true}}
	r := newRouter(svc)

	w := send(r, http.MethodGet, "/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"active":true`)

	w = send(r, http.MethodPut, "/email", map[string]string{"email": "new@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodPut, "/email", map[string]string{"email": "taken@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = send(r, http.MethodPut, "/password", map[string]string{"new_password": "brand-new-pass", "confirm_password": "different-pass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPut, "/password", map[string]string{"new_password": "brand-new-pass", "confirm_password": "brand-new-pass"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = send(r, http.MethodPost, "/logout-all", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"u1/jti-1", "u1/*"}, svc.loggedOut)
}
