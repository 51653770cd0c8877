package jwt

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingSecret = errors.New("jwt secret is required")
	ErrMissingEmail  = errors.New("email claim is required")
	ErrInvalidToken  = errors.New("invalid token")
)

// Claims represents JWT claims
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Config represents JWT configuration
type Config struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// DefaultConfig returns default JWT configuration
func DefaultConfig(secret string) Config {
	return Config{
		Secret: secret,
		TTL:    time.Hour,
		Issuer: "bloodlink",
	}
}

// Manager mints and verifies HS256 session tokens.
type Manager struct {
	cfg Config
	now func() time.Time
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.TTL == 0 {
		cfg.TTL = time.Hour
	}
	return &Manager{cfg: cfg, now: time.Now}, nil
}

// Issue signs a token for email that expires after the configured TTL.
func (m *Manager) Issue(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrMissingEmail
	}

	now := m.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.cfg.Secret))
}

// Verify checks signature, algorithm, issuer and expiry and returns the
// token's claims.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, ErrMissingEmail
	}

	return claims, nil
}
