package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenVerifier validates a bearer token issued by the identity gateway and
// yields the caller's UID. Implementations must have no side effects.
type TokenVerifier interface {
	Verify(token string) (uid string, err error)
}

// VerifierConfig holds token verification configuration
type VerifierConfig struct {
	Secret string
	Issuer string
	Expiry time.Duration
}

// Claims represents the identity token claims we rely on
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 ID tokens against a shared secret
type JWTVerifier struct {
	config VerifierConfig
}

// NewJWTVerifier creates a new JWT token verifier
func NewJWTVerifier(config VerifierConfig) *JWTVerifier {
	if config.Expiry == 0 {
		config.Expiry = time.Hour
	}
	return &JWTVerifier{config: config}
}

// Verify validates signature and expiry and returns the subject UID
func (v *JWTVerifier) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(v.config.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// Issue signs an ID token for the given UID. The production issuer is the
// identity gateway; this is used by local tooling and tests.
func (v *JWTVerifier) Issue(uid string, email string) (string, error) {
	now := time.Now()

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(now.Add(v.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    v.config.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(v.config.Secret))
}
