package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabboard/collabboard/auth"
	"github.com/collabboard/collabboard/db"
	"github.com/collabboard/collabboard/middleware"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	store := db.NewWriter(filepath.Join(t.TempDir(), "api.db"))
	t.Cleanup(func() { store.Close() })

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register/", auth.HandleRegister(store))
	mux.HandleFunc("/api/auth/login/", auth.HandleLogin(store))
	mux.HandleFunc("/api/auth/logout/", auth.HandleLogout())
	mux.HandleFunc("/api/board/create/", CreateBoard(store))
	mux.HandleFunc("/api/board/join/", JoinBoard(store))
	mux.Handle("/api/profile/", middleware.Auth(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				GetProfile(store)(w, r)
			case http.MethodPost:
				UpdateProfile(store)(w, r)
			default:
				fail(w, http.StatusMethodNotAllowed, "GET or POST")
			}
		})))

	srv := httptest.NewServer(middleware.CORS(mux))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, method, url, token string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && err != io.EOF {
		out = nil
	}
	return resp.StatusCode, out
}

func TestBoardCreateAndJoin(t *testing.T) {
	srv := newAPIServer(t)

	status, body := call(t, "POST", srv.URL+"/api/board/create/", "",
		map[string]string{"name": "Standup"})
	require.Equal(t, http.StatusOK, status)
	code, _ := body["room_code"].(string)
	require.Len(t, code, 8)
	assert.Equal(t, "Standup", body["room_name"])

	// Codes are forgiving about case and whitespace on entry.
	status, body = call(t, "POST", srv.URL+"/api/board/join/", "",
		map[string]string{"room_code": "  " + code + "  "})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Standup", body["room_name"])

	status, body = call(t, "POST", srv.URL+"/api/board/join/", "",
		map[string]string{"room_code": "NOPECODE"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])

	status, _ = call(t, "POST", srv.URL+"/api/board/join/", "",
		map[string]string{"room_code": ""})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, "GET", srv.URL+"/api/board/create/", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestDefaultBoardName(t *testing.T) {
	srv := newAPIServer(t)

	status, body := call(t, "POST", srv.URL+"/api/board/create/", "",
		map[string]string{})
	require.Equal(t, http.StatusOK, status)
	name, _ := body["room_name"].(string)
	assert.Contains(t, name, "My Whiteboard")
}

func TestRegisterLoginProfileFlow(t *testing.T) {
	srv := newAPIServer(t)

	creds := map[string]string{"username": "alice", "password": "hunter22"}
	status, _ := call(t, "POST", srv.URL+"/api/auth/register/", "", creds)
	require.Equal(t, http.StatusOK, status)

	status, body := call(t, "POST", srv.URL+"/api/auth/register/", "", creds)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Username already exists", body["error"])

	status, _ = call(t, "POST", srv.URL+"/api/auth/login/", "",
		map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, "POST", srv.URL+"/api/auth/login/", "", creds)
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	// Profile requires the bearer token.
	status, _ = call(t, "GET", srv.URL+"/api/profile/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = call(t, "GET", srv.URL+"/api/profile/", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["username"])

	status, _ = call(t, "POST", srv.URL+"/api/profile/", token,
		map[string]string{"email": "alice@example.com", "dob": "1990-01-02", "phone": "555-0101"})
	require.Equal(t, http.StatusOK, status)

	status, body = call(t, "GET", srv.URL+"/api/profile/", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Equal(t, "555-0101", body["phone"])

	status, body = call(t, "POST", srv.URL+"/api/auth/logout/", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
}
