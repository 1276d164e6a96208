package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/collabboard/collabboard/api"
	"github.com/collabboard/collabboard/auth"
	"github.com/collabboard/collabboard/db"
	"github.com/collabboard/collabboard/internal/logx"
	"github.com/collabboard/collabboard/middleware"
	"github.com/collabboard/collabboard/ws"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()
	logx.Init()
	defer logx.L.Sync()

	store := db.NewWriter(env("DB_PATH", "collabboard.db"))
	defer store.Close()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logx.L.Fatal("aws config", zap.Error(err))
	}
	presign := s3.NewPresignClient(s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if ep := os.Getenv("S3_ENDPOINT"); ep != "" {
			o.BaseEndpoint = aws.String(ep)
		}
	}))

	hub := ws.NewHub()
	mux := http.NewServeMux()
	ws.Routes(mux, hub)

	mux.Handle("/api/board/create/", api.CreateBoard(store))
	mux.Handle("/api/board/join/", api.JoinBoard(store))

	mux.Handle("/api/auth/register/", auth.HandleRegister(store))
	mux.Handle("/api/auth/login/", auth.HandleLogin(store))
	mux.Handle("/api/auth/logout/", auth.HandleLogout())
	mux.Handle("/api/auth/google/", auth.HandleGoogle(store))

	getProfile := api.GetProfile(store)
	updateProfile := api.UpdateProfile(store)
	mux.Handle("/api/profile/", middleware.Auth(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				getProfile(w, r)
				return
			}
			updateProfile(w, r)
		})))

	uploadPicture := api.UploadProfilePicture(presign, store)
	getPicture := api.GetProfilePicture(presign, store)
	mux.Handle("/api/profile/picture/", middleware.Auth(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				getPicture(w, r)
				return
			}
			uploadPicture(w, r)
		})))

	addr := ":" + env("PORT", "8000")
	handler := middleware.Logging(middleware.CORS(mux))

	logx.L.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logx.L.Fatal("server", zap.Error(err))
	}
}
