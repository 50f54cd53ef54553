// Package httpapi exposes the operator-facing JSON API for lineup imports
// and duplicate-artist merges.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lineupboard/internal/app/imports"
	"lineupboard/internal/app/merges"
	"lineupboard/internal/auth"
	"lineupboard/internal/lineup"
	"lineupboard/internal/store"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Signup(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
}

// ImportService runs lineup import batches.
type ImportService interface {
	ImportStages(ctx context.Context, rows []lineup.StageRow, editionID int64, onProgress imports.ProgressFunc) (imports.Result, error)
	ImportSets(ctx context.Context, rows []lineup.SetRow, editionID int64, timezone string, onProgress imports.ProgressFunc) (imports.Result, error)
	ImportSetsWithResolutions(ctx context.Context, rows []lineup.SetRow, editionID int64, resolutions map[int]lineup.Resolution, conflicts []lineup.Conflict, clean []lineup.Candidate, timezone string, onProgress imports.ProgressFunc) (imports.Result, error)
}

// MergeService executes duplicate-group merges.
type MergeService interface {
	DuplicateGroups(ctx context.Context) ([]store.DuplicateGroup, error)
	MergeDuplicateGroups(ctx context.Context, groups []store.DuplicateGroup, strategy lineup.MergeStrategy, onProgress merges.ProgressFunc) []string
}

// ArtistCatalog provides the catalog read used by conflict detection.
type ArtistCatalog interface {
	ListArtists(ctx context.Context) ([]store.Artist, error)
}

// Server wires the services into HTTP routes.
type Server struct {
	users    UserService
	imports  ImportService
	merges   MergeService
	catalog  ArtistCatalog
	tokens   *auth.TokenManager
	sessions *sessionRegistry
	log      zerolog.Logger
}

// New constructs the API server.
func New(users UserService, importSvc ImportService, mergeSvc MergeService, catalog ArtistCatalog, tokens *auth.TokenManager, log zerolog.Logger) *Server {
	return &Server{
		users:    users,
		imports:  importSvc,
		merges:   mergeSvc,
		catalog:  catalog,
		tokens:   tokens,
		sessions: newSessionRegistry(),
		log:      log,
	}
}

// Routes builds the request mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/signup", s.handleSignup)
	mux.HandleFunc("POST /api/v1/login", s.handleLogin)

	mux.HandleFunc("POST /api/v1/imports/stages", s.requireAuth(s.handleImportStages))
	mux.HandleFunc("POST /api/v1/imports/sets", s.requireAuth(s.handleCreateSetImport))
	mux.HandleFunc("GET /api/v1/imports/sets/{id}", s.requireAuth(s.handleGetSetImport))
	mux.HandleFunc("PUT /api/v1/imports/sets/{id}/resolutions", s.requireAuth(s.handleResolutions))
	mux.HandleFunc("POST /api/v1/imports/sets/{id}/commit", s.requireAuth(s.handleCommitSetImport))
	mux.HandleFunc("DELETE /api/v1/imports/sets/{id}", s.requireAuth(s.handleCancelSetImport))

	mux.HandleFunc("GET /api/v1/duplicates", s.requireAuth(s.handleListDuplicates))
	mux.HandleFunc("POST /api/v1/duplicates/merge", s.requireAuth(s.handleMergeDuplicates))

	return mux
}

// requireAuth validates the bearer token and stores the operator id on the
// request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next(w, r.WithContext(auth.WithUserID(r.Context(), claims.UserID)))
	}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.users.Signup(r.Context(), req.Username, req.Password); err != nil {
		s.log.Warn().Err(err).Str("username", req.Username).Msg("signup failed")
		writeError(w, http.StatusConflict, "could not create account")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// sessionTimestamp formats times in API payloads.
func sessionTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
