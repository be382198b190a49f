package auth

import (
	"errors"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"

	"projectdash/internal/domain/models"
)

// SecretVerifier implements JWTVerifier for HS256 tokens signed with a
// shared secret. Used for local development and tests.
type SecretVerifier struct {
	secret []byte
	parser *jwt.Parser
	logger *slog.Logger
}

// NewSecretVerifier creates a shared-secret verifier.
func NewSecretVerifier(secret string, opts Options, logger *slog.Logger) (JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &SecretVerifier{
		secret: []byte(secret),
		parser: newParser(opts, "HS256"),
		logger: logger,
	}, nil
}

func (v *SecretVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	return verify(v.parser, tokenString, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, v.logger)
}

func (v *SecretVerifier) Close() error { return nil }

// NewVerifier picks the JWKS verifier when jwksURL is set, otherwise the
// shared-secret verifier.
func NewVerifier(jwksURL, secret string, opts Options, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL != "" {
		return NewJWKSVerifier(jwksURL, opts, logger)
	}
	return NewSecretVerifier(secret, opts, logger)
}
