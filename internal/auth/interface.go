package auth

import "projectdash/internal/domain/models"

// JWTVerifier validates bearer tokens issued by the external auth provider.
// The middleware only depends on this interface, so the key source (JWKS
// endpoint or shared secret) is a startup decision.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier.
	Close() error
}

// Options are the claim checks shared by every verifier.
type Options struct {
	Issuer   string
	Audience string
}
