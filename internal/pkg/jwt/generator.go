// internal/pkg/jwt/generator.go
package jwt

import (
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Generator struct {
	priv     *rsa.PrivateKey
	issuer   string
	audience string
	kid      string
	now      func() time.Time
	TTL      time.Duration
}

func NewGenerator(priv *rsa.PrivateKey, issuer, audience, kid string, ttl time.Duration) *Generator {
	return &Generator{
		priv:     priv,
		issuer:   issuer,
		audience: audience,
		kid:      kid,
		now:      time.Now,
		TTL:      ttl,
	}
}

// Generate signs a token for the given purpose and returns it with its jti
func (g *Generator) Generate(userID, email, device, purpose string) (token string, jti string, err error) {
	if g.priv == nil {
		return "", "", errors.New("jwt generator has nil private key")
	}

	issued := g.now()
	jti = ulid.MustNew(ulid.Timestamp(issued), ulid.DefaultEntropy()).String()

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, &Claims{
		UserID:  userID,
		Email:   email,
		Device:  device,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    g.issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{g.audience},
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(g.TTL)),
		},
	})
	if g.kid != "" {
		tok.Header["kid"] = g.kid
	}

	token, err = tok.SignedString(g.priv)
	if err != nil {
		return "", "", err
	}
	return token, jti, nil
}

func (g *Generator) GenerateAccessToken(userID, email, device string) (string, string, error) {
	return g.Generate(userID, email, device, PurposeAccess)
}
