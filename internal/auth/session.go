package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionCookie é o cookie usado pelo frontend web
	SessionCookie = "af_session"

	sessionTTL       = 24 * time.Hour
	sessionKeyPrefix = "session:"
)

var ErrInvalidSession = errors.New("invalid or revoked session")

// Sessions emite e valida tokens de sessão HS256.
// Cada token tem um jti registrado no KVStore; revogar é apagar a chave.
type Sessions struct {
	secret []byte
	store  KVStore
}

func NewSessions(secret string, store KVStore) *Sessions {
	return &Sessions{secret: []byte(secret), store: store}
}

// Mint emite um token de sessão de 24h pra identidade autenticada
func (s *Sessions) Mint(ctx context.Context, id Identity) (string, error) {
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"jti":   jti,
		"email": id.Email,
		"name":  id.Name,
		"exp":   time.Now().Add(sessionTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, sessionKeyPrefix+jti, id.Email, sessionTTL); err != nil {
		return "", err
	}
	return token, nil
}

// Validate confere assinatura, expiração e se a sessão não foi revogada
func (s *Sessions) Validate(ctx context.Context, token string) (Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return Identity{}, ErrInvalidSession
	}

	jti, _ := claims["jti"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if jti == "" || email == "" {
		return Identity{}, ErrInvalidSession
	}

	_, ok, err := s.store.Get(ctx, sessionKeyPrefix+jti)
	if err != nil {
		return Identity{}, err
	}
	if !ok {
		return Identity{}, ErrInvalidSession
	}

	return Identity{Email: email, Name: name}, nil
}

// Revoke invalida a sessão do token (logout)
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return ErrInvalidSession
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return ErrInvalidSession
	}
	return s.store.Del(ctx, sessionKeyPrefix+jti)
}

func (s *Sessions) parse(token string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
