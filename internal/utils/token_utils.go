package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims are the claims carried by a wallet access token. Subject is the account email.
type AccessTokenClaims struct {
	AccountID string `json:"aid"`
	jwt.RegisteredClaims
}

// GenerateJWT signs an HS256 access token for the given subject and returns it with its expiry.
func GenerateJWT(subject string, accountID string, secret string, expiryDuration time.Duration, issuer string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(expiryDuration)
	claims := AccessTokenClaims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseAndValidateJWT parses a token string and validates its signature, issuer and time claims.
func ParseAndValidateJWT(tokenString string, secretKey string, issuer string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}
