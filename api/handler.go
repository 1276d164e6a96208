package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/collabboard/collabboard/auth"
	"github.com/collabboard/collabboard/db"
)

type createBoardRequest struct {
	Name string `json:"name"`
}

// CreateBoard allocates a new board with a shareable room code.
func CreateBoard(store *db.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			fail(w, http.StatusMethodNotAllowed, "POST required")
			return
		}

		var req createBoardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Name == "" {
			req.Name = fmt.Sprintf("My Whiteboard %d", time.Now().UnixMilli())
		}

		board, err := store.CreateBoardWithCode(req.Name)
		if err != nil {
			fail(w, http.StatusInternalServerError, "Failed to create room")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"room_code": board.RoomCode,
			"room_name": board.Name,
		})
	}
}

type joinBoardRequest struct {
	RoomCode string `json:"room_code"`
}

// JoinBoard validates a room code before the client opens its websocket.
func JoinBoard(store *db.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			fail(w, http.StatusMethodNotAllowed, "POST required")
			return
		}

		var req joinBoardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "invalid json")
			return
		}
		code := strings.ToUpper(strings.TrimSpace(req.RoomCode))
		if code == "" {
			fail(w, http.StatusBadRequest, "room_code required")
			return
		}

		board, found, err := store.GetBoardByCode(code)
		if err != nil {
			fail(w, http.StatusInternalServerError, "lookup failed")
			return
		}
		if !found || !board.IsActive {
			fail(w, http.StatusNotFound, "Invalid room code")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"room_code": board.RoomCode,
			"room_name": board.Name,
		})
	}
}

// GetProfile returns the authenticated user's profile.
func GetProfile(store *db.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.RequireUserID(r)
		if err != nil {
			fail(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, found, err := store.GetUserByID(userID)
		if err != nil || !found {
			fail(w, http.StatusNotFound, "no such user")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"username":    user.Username,
			"email":       user.Email,
			"dob":         user.Dob,
			"phone":       user.Phone,
			"picture_key": user.PictureKey,
		})
	}
}

type updateProfileRequest struct {
	Email string `json:"email"`
	Dob   string `json:"dob"`
	Phone string `json:"phone"`
}

// UpdateProfile edits the mutable profile fields.
func UpdateProfile(store *db.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.RequireUserID(r)
		if err != nil {
			fail(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if r.Method != http.MethodPost {
			fail(w, http.StatusMethodNotAllowed, "POST required")
			return
		}

		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "invalid json")
			return
		}

		if err := store.UpdateProfile(userID, req.Email, req.Dob, req.Phone); err != nil {
			fail(w, http.StatusInternalServerError, "update failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

type signRequest struct {
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

// UploadProfilePicture hands out a presigned PUT for the user's profile
// picture and records the object key.
func UploadProfilePicture(client *s3.PresignClient, store *db.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.RequireUserID(r)
		if err != nil {
			fail(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if r.Method != http.MethodPost {
			fail(w, http.StatusMethodNotAllowed, "POST required")
			return
		}

		var req signRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "invalid json")
			return
		}
		if !strings.HasPrefix(req.MimeType, "image/") {
			fail(w, http.StatusForbidden, "images only")
			return
		}
		if req.Size > 10*1024*1024 {
			fail(w, http.StatusForbidden, "image too large")
			return
		}

		objectKey := fmt.Sprintf("profile_pics/%s-%d", userID, time.Now().UnixNano())

		presignedReq, err := client.PresignPutObject(r.Context(), &s3.PutObjectInput{
			Bucket:      aws.String(os.Getenv("S3_BUCKET")),
			Key:         aws.String(objectKey),
			ContentType: aws.String(req.MimeType),
		}, func(po *s3.PresignOptions) {
			po.Expires = 15 * time.Minute
		})
		if err != nil {
			fail(w, http.StatusInternalServerError, "sign failed")
			return
		}

		if err := store.SetPictureKey(userID, objectKey); err != nil {
			fail(w, http.StatusInternalServerError, "record failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"upload_url": presignedReq.URL,
			"key":        objectKey,
		})
	}
}

// GetProfilePicture hands out a presigned GET for the stored picture key.
func GetProfilePicture(client *s3.PresignClient, store *db.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.RequireUserID(r)
		if err != nil {
			fail(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, found, err := store.GetUserByID(userID)
		if err != nil || !found || user.PictureKey == "" {
			fail(w, http.StatusNotFound, "no picture")
			return
		}

		presignedReq, err := client.PresignGetObject(r.Context(), &s3.GetObjectInput{
			Bucket: aws.String(os.Getenv("S3_BUCKET")),
			Key:    aws.String(user.PictureKey),
		}, func(opts *s3.PresignOptions) {
			opts.Expires = 1 * time.Hour
		})
		if err != nil {
			fail(w, http.StatusInternalServerError, "sign failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"download_url": presignedReq.URL,
		})
	}
}
