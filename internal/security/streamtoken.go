package security

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StreamTokenIssuer mints and verifies short-lived tokens used to
// authenticate event stream connections, where cookies or custom headers
// may not be available to the client.
type StreamTokenIssuer struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

// NewStreamTokenIssuer creates an issuer signing tokens with HMAC-SHA256.
func NewStreamTokenIssuer(secret string, ttl time.Duration) *StreamTokenIssuer {
	return &StreamTokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

// Issue creates a signed token for the given user.
func (i *StreamTokenIssuer) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify parses and validates a token, returning the user ID it was
// issued for.
func (i *StreamTokenIssuer) Verify(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := i.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("parsing stream token: %w", err)
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid stream token")
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid stream token subject: %w", err)
	}
	return userID, nil
}
