package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/collabboard/collabboard/config"
)

// ReadBearer extracts the token from an Authorization: Bearer header.
func ReadBearer(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", errors.New("missing authorization header")
	}
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || token == "" {
		return "", errors.New("malformed authorization header")
	}
	return token, nil
}

// RequireUserID reads the authenticated user id placed in the request
// context by the auth middleware.
func RequireUserID(r *http.Request) (string, error) {
	id, ok := r.Context().Value(config.ContextUserIDKey).(string)
	if !ok || id == "" {
		return "", errors.New("unauthenticated")
	}
	return id, nil
}
