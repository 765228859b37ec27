package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Issuer:   "uav-maintenance",
		Audience: "fleet-operators",
		TTL:      time.Hour,
		KID:      "test-key",
	}
}

func TestEphemeralRoundTrip(t *testing.T) {
	m, err := NewEphemeral(testConfig())
	require.NoError(t, err)

	token, jti, err := m.Generator.GenerateAccessToken("user-1", "ops@example.com", "web")
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := m.Verifier.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, PurposeAccess, claims.Purpose)
}

func TestVerifyRejectsOtherPurpose(t *testing.T) {
	m, err := NewEphemeral(testConfig())
	require.NoError(t, err)

	token, _, err := m.Generator.Generate("user-1", "ops@example.com", "", "refresh")
	require.NoError(t, err)

	_, err = m.Verifier.Verify(token)
	require.NoError(t, err)
	_, err = m.Verifier.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrWrongPurpose)
}

func TestVerifyRejectsForeignKeyAndAudience(t *testing.T) {
	a, err := NewEphemeral(testConfig())
	require.NoError(t, err)
	b, err := NewEphemeral(testConfig())
	require.NoError(t, err)

	token, _, err := a.Generator.GenerateAccessToken("user-1", "ops@example.com", "")
	require.NoError(t, err)
	_, err = b.Verifier.VerifyAccessToken(token)
	assert.Error(t, err, "signed by another key")

	other := testConfig()
	other.Audience = "someone-else"
	c, err := NewEphemeral(other)
	require.NoError(t, err)
	token, _, err = c.Generator.GenerateAccessToken("user-1", "ops@example.com", "")
	require.NoError(t, err)
	_, err = NewVerifier(&c.Generator.priv.PublicKey, other.Issuer, "fleet-operators").Verify(token)
	assert.Error(t, err)
}

func TestLoadAndBuildFromPEM(t *testing.T) {
	dir := t.TempDir()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPath := filepath.Join(dir, "jwt_private.pem")
	pubPath := filepath.Join(dir, "jwt_public.pem")
	require.NoError(t, os.WriteFile(privPath, pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	}), 0o600))
	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(pubPath, pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	}), 0o600))

	cfg := testConfig()
	cfg.PrivPath = privPath
	cfg.PubPath = pubPath
	assert.False(t, KeysMissing(cfg))

	m, err := LoadAndBuild(cfg)
	require.NoError(t, err)
	token, _, err := m.Generator.GenerateAccessToken("user-2", "lead@example.com", "")
	require.NoError(t, err)
	_, err = m.Verifier.VerifyAccessToken(token)
	assert.NoError(t, err)
}

func TestKeysMissing(t *testing.T) {
	cfg := testConfig()
	assert.True(t, KeysMissing(cfg))

	cfg.PrivPath = filepath.Join(t.TempDir(), "absent.pem")
	cfg.PubPath = cfg.PrivPath
	assert.True(t, KeysMissing(cfg))

	bad := filepath.Join(t.TempDir(), "bad.pem")
	require.NoError(t, os.WriteFile(bad, []byte("not pem"), 0o600))
	_, err := LoadRSAPrivateKeyFromPEM(bad)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m, err := NewEphemeral(testConfig())
	require.NoError(t, err)

	m.Generator.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := m.Generator.GenerateAccessToken("user-1", "ops@example.com", "")
	require.NoError(t, err)

	_, err = m.Verifier.VerifyAccessToken(token)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}
