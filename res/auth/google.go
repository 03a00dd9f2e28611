package auth

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// The frontend uses the popup sign-in flow, which mints codes against the
// "postmessage" pseudo-redirect rather than a registered URL.
var postMessageRedirect = oauth2.SetAuthURLParam("redirect_uri", "postmessage")

// AuthorizationWithGoogle exchanges an OAuth authorization code for the
// signed-in Google profile, validating the ID token against our client id.
func (a *authImpl) AuthorizationWithGoogle(ctx context.Context, code string) (*GoogleProfile, error) {
	tok, err := a.google.Exchange(ctx, code, postMessageRedirect)
	if err != nil {
		return nil, err
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("authorization with google: no id token in exchange response")
	}

	payload, err := idtoken.Validate(ctx, rawIDToken, a.google.ClientID)
	if err != nil {
		return nil, err
	}

	profile := &GoogleProfile{
		Identifier: stringClaim(payload.Claims, "sub"),
		Email:      stringClaim(payload.Claims, "email"),
	}
	if profile.Identifier == "" {
		return nil, errors.New("authorization with google: missing subject")
	}
	if profile.Email == "" {
		return nil, errors.New("authorization with google: missing email")
	}
	if name := stringClaim(payload.Claims, "given_name"); name != "" {
		profile.DisplayName = &name
	}

	return profile, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	val, _ := claims[key].(string)
	return val
}
