// Package auth resolves the owner of a request from its session token.
package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken        = errors.New("missing session token")
	ErrInvalidToken        = errors.New("invalid session token")
	ErrUnauthorizedParty   = errors.New("token issued for an unknown party")
	ErrMissingSubjectClaim = errors.New("token has no subject")
)

// Verifier checks a session token and returns the owner id it was issued
// for.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Claims are the session claims the identity provider signs. Azp is the
// origin the session was created from; it must name a configured party
// whenever authorized parties are set.
type Claims struct {
	jwt.RegisteredClaims
	Azp string `json:"azp,omitempty"`
}

// JWTVerifier validates RS256 session tokens offline with the identity
// provider's public key.
type JWTVerifier struct {
	key     *rsa.PublicKey
	issuer  string
	parties []string
	leeway  time.Duration
}

// NewJWTVerifier parses a PEM encoded public key. Escaped newlines, as they
// appear in single-line environment values, are accepted.
func NewJWTVerifier(publicKeyPEM, issuer string, authorizedParties []string) (*JWTVerifier, error) {
	publicKeyPEM = strings.ReplaceAll(strings.TrimSpace(publicKeyPEM), `\n`, "\n")
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse session public key: %w", err)
	}
	return NewJWTVerifierWithKey(key, issuer, authorizedParties), nil
}

func NewJWTVerifierWithKey(key *rsa.PublicKey, issuer string, authorizedParties []string) *JWTVerifier {
	return &JWTVerifier{
		key:     key,
		issuer:  issuer,
		parties: authorizedParties,
		leeway:  5 * time.Second,
	}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	if len(v.parties) > 0 && !slices.Contains(v.parties, claims.Azp) {
		return "", ErrUnauthorizedParty
	}
	if claims.Subject == "" {
		return "", ErrMissingSubjectClaim
	}
	return claims.Subject, nil
}
