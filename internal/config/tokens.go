package config

import (
	"crypto/rand"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type SessionClaims struct {
	SessionId string `json:"session_id"`
	jwt.RegisteredClaims
}

func NewSessionClaims(sessionId string, lifetime time.Duration) *SessionClaims {
	now := time.Now()
	return &SessionClaims{
		SessionId: sessionId,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}
}

// SessionTokens signs the tokens that tie a client to the game session it
// created.
type SessionTokens struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func loadSecret() ([]byte, error) {
	secret, ok := os.LookupEnv("SESSION_SECRET")
	if ok && secret != "" {
		return []byte(secret), nil
	}
	secretPath, ok := os.LookupEnv("SESSION_SECRET_FILE")
	if ok {
		b, err := os.ReadFile(secretPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read session secret: %w", err)
		}
		return b, nil
	}
	if !Development() {
		return nil, fmt.Errorf("no SESSION_SECRET or SESSION_SECRET_FILE env variable set")
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func NewSessionTokens() (*SessionTokens, error) {
	secret, err := loadSecret()
	if err != nil {
		return nil, err
	}
	lifetime, err := durationOr("SESSION_TTL", time.Hour*24)
	if err != nil {
		return nil, err
	}
	return NewSessionTokensWithSecret(secret, lifetime), nil
}

func NewSessionTokensWithSecret(secret []byte, lifetime time.Duration) *SessionTokens {
	return &SessionTokens{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: lifetime,
	}
}

func (t *SessionTokens) Sign(sessionId string) (string, error) {
	claims := NewSessionClaims(sessionId, t.tokenLifetime)
	return jwt.NewWithClaims(t.signingMethod, claims).SignedString(t.secret)
}

func (t *SessionTokens) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(*jwt.Token) (interface{}, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{t.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
