package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var ErrInvalidSession = errors.New("invalid session")

// SessionManager issues and verifies the HS256 session cookie that carries
// the signed-in staff email.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionManager uses secret when set; otherwise a random key is generated
// and sessions do not survive a restart.
func NewSessionManager(secret string, ttl time.Duration) (*SessionManager, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
	}
	return &SessionManager{secret: key, ttl: ttl, now: time.Now}, nil
}

func (m *SessionManager) Issue(email string) (string, error) {
	now := m.now()
	claims := jwt.StandardClaims{
		Id:        uuid.NewString(),
		Subject:   strings.ToLower(strings.TrimSpace(email)),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify returns the email carried by a valid, unexpired token.
func (m *SessionManager) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidSession
	}

	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}

func (m *SessionManager) TTL() time.Duration { return m.ttl }
