package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/collabboard/collabboard/config"
	"github.com/collabboard/collabboard/db"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

// HandleRegister creates a password account.
func HandleRegister(store *db.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			fail(w, http.StatusMethodNotAllowed, "POST required")
			return
		}

		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Username == "" || req.Password == "" {
			fail(w, http.StatusBadRequest, "username and password required")
			return
		}

		if _, exists, err := store.GetUserByUsername(req.Username); err != nil {
			fail(w, http.StatusInternalServerError, "lookup failed")
			return
		} else if exists {
			fail(w, http.StatusBadRequest, "Username already exists")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			fail(w, http.StatusInternalServerError, "hash failed")
			return
		}

		err = store.CreateUser(config.User{
			ID:           uuid.NewString(),
			Username:     req.Username,
			PasswordHash: string(hash),
			Email:        req.Email,
			CreatedAt:    time.Now().UnixMilli(),
		})
		if err != nil {
			fail(w, http.StatusBadRequest, "Username already exists")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// HandleLogin checks a password and issues a bearer token.
func HandleLogin(store *db.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			fail(w, http.StatusMethodNotAllowed, "POST required")
			return
		}

		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "invalid json")
			return
		}

		user, exists, err := store.GetUserByUsername(req.Username)
		if err != nil {
			fail(w, http.StatusInternalServerError, "lookup failed")
			return
		}
		if !exists || bcrypt.CompareHashAndPassword(
			[]byte(user.PasswordHash), []byte(req.Password)) != nil {
			fail(w, http.StatusBadRequest, "Invalid credentials")
			return
		}

		token, err := CreateJWT(user.ID, user.Username)
		if err != nil {
			fail(w, http.StatusInternalServerError, "token failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
	}
}

// HandleLogout exists for API symmetry; bearer tokens are stateless, so the
// client just discards its copy.
func HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			fail(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

type googleRequest struct {
	IDToken string `json:"id_token"`
}

// HandleGoogle verifies a Google ID token, creating the account on first
// sign-in, and issues a bearer token.
func HandleGoogle(store *db.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			fail(w, http.StatusMethodNotAllowed, "POST required")
			return
		}

		var req googleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
			fail(w, http.StatusBadRequest, "id_token required")
			return
		}

		gu, err := VerifyGoogleToken(r.Context(), req.IDToken)
		if err != nil {
			fail(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, exists, err := store.GetUserByGoogleSub(gu.Sub)
		if err != nil {
			fail(w, http.StatusInternalServerError, "lookup failed")
			return
		}
		if !exists {
			user = config.User{
				ID:        uuid.NewString(),
				Username:  gu.Email,
				Email:     gu.Email,
				GoogleSub: gu.Sub,
				CreatedAt: time.Now().UnixMilli(),
			}
			if err := store.CreateUser(user); err != nil {
				fail(w, http.StatusInternalServerError, "create failed")
				return
			}
		}

		token, err := CreateJWT(user.ID, user.Username)
		if err != nil {
			fail(w, http.StatusInternalServerError, "token failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
	}
}
