package auth

import (
	"context"
	"errors"
	"os"

	"google.golang.org/api/idtoken"
)

type GoogleUser struct {
	Sub   string
	Email string
	Name  string
}

// VerifyGoogleToken validates a Google ID token against GOOGLE_CLIENT_ID
// and extracts the stable subject plus display fields.
func VerifyGoogleToken(ctx context.Context, token string) (GoogleUser, error) {
	payload, err := idtoken.Validate(ctx, token, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		return GoogleUser{}, err
	}

	sub, ok := payload.Claims["sub"].(string)
	if !ok {
		return GoogleUser{}, errors.New("invalid sub")
	}

	u := GoogleUser{Sub: sub}
	if email, ok := payload.Claims["email"].(string); ok {
		u.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		u.Name = name
	}
	return u, nil
}
