package main

import (
	"net/http"

	"github.com/rs/zerolog"

	"lineupboard/internal/app/imports"
	"lineupboard/internal/app/merges"
	"lineupboard/internal/app/users"
	"lineupboard/internal/auth"
	"lineupboard/internal/http/middleware"
	"lineupboard/internal/httpapi"
	"lineupboard/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store, log zerolog.Logger) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	userSvc := users.New(dataStore, tokens)
	importSvc := imports.New(dataStore, log)
	mergeSvc := merges.New(dataStore, log)

	api := httpapi.New(userSvc, importSvc, mergeSvc, dataStore, tokens, log)

	return middleware.CORS(cfg.AllowedOrigins)(api.Routes())
}
