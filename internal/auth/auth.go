package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie name carrying the session token.
const SessionCookie = "taskhub_session"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims is the JWT payload; the user identifier travels as the subject.
type Claims struct {
	jwt.RegisteredClaims
}

// Service issues and verifies session tokens against a configured credential
// set. It stands in for a real identity provider; the rest of the system only
// ever sees the stable user identifier it yields.
type Service struct {
	secret []byte
	ttl    time.Duration
	creds  map[string]string
}

// NewService builds a session service with an HS256 signing secret.
func NewService(secret string, ttl time.Duration, creds map[string]string) *Service {
	return &Service{secret: []byte(secret), ttl: ttl, creds: creds}
}

// Login checks the credentials and returns a signed session token.
func (s *Service) Login(username, password string) (string, error) {
	want, ok := s.creds[username]
	if !ok {
		// Burn time comparably to the found path.
		compareSecret(password, password+"x")
		return "", ErrInvalidCredentials
	}
	if !compareSecret(password, want) {
		return "", ErrInvalidCredentials
	}
	return s.IssueToken(username)
}

// IssueToken signs a token for an already-authenticated user identifier.
func (s *Service) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses the token and returns the user identifier it carries.
func (s *Service) Verify(tokenString string) (string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// TTL reports the configured session lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// compareSecret compares two secrets in constant time regardless of length.
func compareSecret(got, want string) bool {
	a := sha256.Sum256([]byte(got))
	b := sha256.Sum256([]byte(want))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
