package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager signs and validates the bearer tokens protecting the
// run-trigger endpoint. The secret is injected from configuration; there is
// no package-level key.
type TokenManager struct {
	secret   []byte
	issuer   string
	duration time.Duration
}

func NewTokenManager(secret, issuer string, duration time.Duration) TokenManager {
	return TokenManager{secret: []byte(secret), issuer: issuer, duration: duration}
}

// OperatorClaims defines the structure of the data stored inside the JWT.
type OperatorClaims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}

// Generate creates a signed JWT for an operator.
func (m TokenManager) Generate(operator string) (string, error) {
	now := time.Now()
	claims := &OperatorClaims{
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
		},
	}

	// HS256: HMAC with SHA256, symmetric secret shared with nobody.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and validates the signature and expiration of a JWT string.
func (m TokenManager) Validate(tokenString string) (*OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*OperatorClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
