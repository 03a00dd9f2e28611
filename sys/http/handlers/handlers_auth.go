package handlers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"shiningstar-api/res/auth"
	"shiningstar-api/res/store"

	"github.com/rs/xid"
)

const userDisplayNamePlaceholderDefault = "Customer"

type authResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type authGoogleRequest struct {
	Code string `json:"code"`
}

// handleAuthGoogle exchanges a Google OAuth code for tokens, registering the
// user on first sign-in
func (h *Handler) handleAuthGoogle(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		respondWithError(w, http.StatusForbidden, "FORBIDDEN", "Session already associated with a user")
		return
	}

	var req authGoogleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()

	// 1. Social identity validation

	profile, err := h.Auth.AuthorizationWithGoogle(ctx, req.Code)
	if err != nil || profile == nil {
		h.Logger.Printf("Error authorizing Google access code: %s", err)
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "Error authorizing google access code")
		return
	}

	// 2. Detect existing user

	var finalUserID string
	associatedUser, err := h.Store.Users().GetByGoogleIdentity(ctx, profile.Identifier)
	if err != nil {
		h.Logger.Printf("Error retrieving user through google identifier: %s", err)
	}

	if associatedUser != nil { // user already registered, this is a login
		finalUserID = associatedUser.ID
	} else { // register the user
		userID := fmt.Sprintf("%s_%s", "user", xid.New().String())
		userName := userDisplayNamePlaceholderDefault
		if profile.DisplayName != nil && len(*profile.DisplayName) > 0 {
			userName = *profile.DisplayName
		}

		role := store.UserRoleCustomer
		if adminEmail := os.Getenv("ADMIN_EMAIL"); adminEmail != "" && adminEmail == profile.Email {
			role = store.UserRoleAdmin
		}

		newUser, err := h.Store.Users().Create(ctx, userID, userName, profile.Email, role, &profile.Identifier)
		if err != nil {
			h.Logger.Printf("Error creating user: %s", err)
			respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Error creating user")
			return
		}

		finalUserID = newUser.ID
	}

	// 3. Create the refresh session and token pair

	result, err := h.issueTokens(r, finalUserID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Error creating auth session")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

type authRefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// handleAuthRefresh rotates a refresh token for a fresh token pair
func (h *Handler) handleAuthRefresh(w http.ResponseWriter, r *http.Request) {
	var req authRefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()

	// 1. Validate refresh token and associated session/user

	var claims auth.RefreshTokenClaims
	if err := h.Auth.ValidateToken(req.RefreshToken, &claims); err != nil {
		h.Logger.Printf("Error validating refresh token: %s", err)
		respondWithError(w, http.StatusForbidden, "FORBIDDEN", "Refresh token expired or malformed")
		return
	}

	user, err := h.Store.Users().Get(ctx, claims.UserID)
	if err != nil || user == nil {
		h.Logger.Printf("Error retrieving user associated with the refresh token: %s", err)
		respondWithError(w, http.StatusForbidden, "FORBIDDEN", "Refresh token expired or malformed")
		return
	}

	currentRefreshSession, err := h.Store.AuthSessions().Get(ctx, claims.SessionID)
	if err != nil || currentRefreshSession == nil {
		h.Logger.Printf("Error retrieving refresh session: %s", err)
		respondWithError(w, http.StatusForbidden, "FORBIDDEN", "Refresh token expired or malformed")
		return
	}

	// 2. Rotate: the used session is deleted with the other expired ones

	if err := h.Store.AuthSessions().Delete(ctx, []string{currentRefreshSession.ID}); err != nil {
		h.Logger.Printf("Error removing used refresh session: %s", err)
	}

	result, err := h.issueTokens(r, user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Error creating auth session")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// handleAuthLogout revokes every refresh session of the signed-in user.
// Outstanding access tokens expire on their own shortly after.
func (h *Handler) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in first")
		return
	}

	if err := h.Store.AuthSessions().DeleteAllByUser(r.Context(), user.ID); err != nil {
		h.Logger.Printf("Error revoking sessions for user %s: %s", user.ID, err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not sign out")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// issueTokens stores a new refresh session and wraps the pair in JWTs
func (h *Handler) issueTokens(r *http.Request, userID string) (*authResult, error) {
	ctx := r.Context()

	if err := h.Store.AuthSessions().DeleteExpired(ctx, time.Now().Add(-auth.RefreshTokenLifespan)); err != nil {
		h.Logger.Printf("Error removing expired refresh sessions: %s", err)
		return nil, err
	}

	refreshTokenValue := fmt.Sprintf("%s:%s", "auth_refresh_tok", xid.New().String())

	refreshSession, err := h.Store.AuthSessions().Create(ctx, refreshTokenValue, userID)
	if err != nil {
		h.Logger.Printf("Error creating refresh session: %s", err)
		return nil, err
	}

	refreshToken, err := h.Auth.GenerateRefreshToken(userID, refreshSession.ID)
	if err != nil {
		h.Logger.Printf("Error generating refresh token: %s", err)
		return nil, err
	}

	accessToken, err := h.Auth.GenerateAccessToken(userID)
	if err != nil {
		h.Logger.Printf("Error generating access token: %s", err)
		return nil, err
	}

	return &authResult{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
