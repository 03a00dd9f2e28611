package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// AccessTokenLifespan is how long an access token stays valid. Kept short
	// so a revoked session converges quickly.
	AccessTokenLifespan = 24 * time.Hour

	// RefreshTokenLifespan is how long a refresh session survives between
	// portal visits.
	RefreshTokenLifespan = 30 * 24 * time.Hour
)

// GoogleProfile carries the identity fields a Google sign-in resolves to
type GoogleProfile struct {
	Identifier  string
	Email       string
	DisplayName *string
}

type Auth interface {
	ValidateToken(token string, claims jwt.Claims) error

	GenerateAccessToken(userID string) (string, error)
	GenerateRefreshToken(userID, sessionID string) (string, error)

	AuthorizationWithGoogle(ctx context.Context, code string) (*GoogleProfile, error)
}

type authImpl struct {
	jwtSecret []byte

	google oauth2.Config
}

func New(jwtSecret, googleClientID, googleClientSecret, googleRedirectURL string) *authImpl {
	return &authImpl{
		jwtSecret: []byte(jwtSecret),
		google: oauth2.Config{
			ClientID:     googleClientID,
			ClientSecret: googleClientSecret,
			RedirectURL:  googleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.profile",
				"https://www.googleapis.com/auth/userinfo.email",
			},
			Endpoint: google.Endpoint,
		},
	}
}
