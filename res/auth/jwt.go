package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// AccessTokenClaims authenticate one request on behalf of a user
type AccessTokenClaims struct {
	jwt.StandardClaims

	Access bool   `json:"access"`
	UserID string `json:"uid"`
}

// RefreshTokenClaims reference a stored refresh session; the session must
// still exist for the token to be honored
type RefreshTokenClaims struct {
	jwt.StandardClaims

	SessionID string `json:"sid"`
	UserID    string `json:"uid"`
}

func (a *authImpl) ValidateToken(token string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.jwtSecret, nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("invalid token")
	}

	return nil
}

func (a *authImpl) GenerateAccessToken(userID string) (string, error) {
	return a.sign(AccessTokenClaims{
		StandardClaims: a.standardClaims(AccessTokenLifespan),
		Access:         true,
		UserID:         userID,
	})
}

func (a *authImpl) GenerateRefreshToken(userID, sessionID string) (string, error) {
	return a.sign(RefreshTokenClaims{
		StandardClaims: a.standardClaims(RefreshTokenLifespan),
		SessionID:      sessionID,
		UserID:         userID,
	})
}

func (a *authImpl) standardClaims(lifespan time.Duration) jwt.StandardClaims {
	now := time.Now()
	return jwt.StandardClaims{
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(lifespan).Unix(),
	}
}

func (a *authImpl) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
}
