// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// PurposeAccess marks tokens that authenticate API and websocket calls
const PurposeAccess = "access"

// Claims carried by every operator token. RegisteredClaims.ID is the
// session id (jti).
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Device  string `json:"device,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// SessionID returns the token id used to key the session store
func (c *Claims) SessionID() string {
	return c.ID
}
