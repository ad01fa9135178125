package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nikhil/teamtask/internal/apperr"
)

// Principal is the authenticated identity resolved from a verified token.
type Principal struct {
	UserID    int64
	Email     string
	ExpiresAt time.Time
}

// Tokens mints and verifies HS256 bearer tokens.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{Secret: []byte(secret), TTL: ttl}
}

// Generate creates a signed token for the user.
func (t *Tokens) Generate(userID int64, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(t.TTL).Unix(),
	})
	return token.SignedString(t.Secret)
}

// Verify checks the token's signature and expiry and resolves the
// principal. All failures are authentication errors.
func (t *Tokens) Verify(tokenStr string) (*Principal, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAuthentication, err, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperr.Authentication("invalid token claims")
	}

	// JWT numbers decode as float64.
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, apperr.Authentication("invalid token claims")
	}

	p := &Principal{UserID: int64(userIDFloat)}
	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		p.ExpiresAt = exp.Time
	}
	return p, nil
}
