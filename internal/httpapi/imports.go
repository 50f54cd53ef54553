package httpapi

import (
	"net/http"

	"lineupboard/internal/app/imports"
	"lineupboard/internal/lineup"
)

type stageImportRequest struct {
	EditionID int64  `json:"edition_id"`
	CSV       string `json:"csv"`
}

func (s *Server) handleImportStages(w http.ResponseWriter, r *http.Request) {
	var req stageImportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.EditionID == 0 {
		writeError(w, http.StatusBadRequest, "edition_id is required")
		return
	}

	rows := lineup.ParseStagesCSV(req.CSV)
	result, err := s.imports.ImportStages(r.Context(), rows, req.EditionID, s.logImportProgress)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type setImportRequest struct {
	EditionID int64  `json:"edition_id"`
	Timezone  string `json:"timezone"`
	CSV       string `json:"csv"`
}

// handleCreateSetImport parses the sets CSV, runs conflict detection and
// either commits immediately (no conflicts) or parks the batch in an import
// session awaiting resolution.
func (s *Server) handleCreateSetImport(w http.ResponseWriter, r *http.Request) {
	var req setImportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.EditionID == 0 {
		writeError(w, http.StatusBadRequest, "edition_id is required")
		return
	}
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}

	workflow := lineup.NewSession()
	if err := workflow.Transition(lineup.StateParsingFiles); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	workflow.Rows = lineup.ParseSetsCSV(req.CSV)
	if len(workflow.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "csv contains no data rows")
		return
	}

	if err := workflow.Transition(lineup.StateDetectingConflicts); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	catalog, err := s.catalog.ListArtists(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	candidates := lineup.ExtractArtistCandidates(workflow.Rows)
	workflow.Conflicts, workflow.Clean = lineup.DetectConflicts(candidates, catalog)
	workflow.Resolutions = lineup.NewResolutionSet(workflow.Conflicts)

	if len(workflow.Conflicts) == 0 {
		result, err := s.commitWorkflow(r, workflow, req.EditionID, req.Timezone)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"state":  workflow.State(),
			"result": result,
		})
		return
	}

	if err := workflow.Transition(lineup.StateAwaitingResolution); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	session := s.sessions.add(req.EditionID, req.Timezone, workflow)
	writeJSON(w, http.StatusAccepted, sessionPayload(session))
}

func (s *Server) handleGetSetImport(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	writeJSON(w, http.StatusOK, sessionPayload(session))
}

type resolutionRequest struct {
	Set []struct {
		Index      int               `json:"index"`
		Resolution lineup.Resolution `json:"resolution"`
	} `json:"set,omitempty"`
	Bulk              *lineup.Resolution `json:"bulk,omitempty"`
	BulkMergeStrategy string             `json:"bulk_merge_strategy,omitempty"`
}

// handleResolutions applies per-conflict and bulk resolution updates. Bulk
// application never overwrites decisions already made.
func (s *Server) handleResolutions(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req resolutionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.workflow.State() != lineup.StateAwaitingResolution {
		writeError(w, http.StatusConflict, "session is not awaiting resolution")
		return
	}

	resolutions := session.workflow.Resolutions
	for _, entry := range req.Set {
		if err := resolutions.Set(entry.Index, entry.Resolution); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Bulk != nil {
		if err := resolutions.ApplyBulk(*req.Bulk); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.BulkMergeStrategy != "" {
		strategy, err := lineup.ParseMergeStrategy(req.BulkMergeStrategy)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := resolutions.ApplyBulkMerge(strategy); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, sessionPayload(session))
}

// handleCommitSetImport runs the gated commit. Once importing starts,
// committed rows are never rolled back.
func (s *Server) handleCommitSetImport(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if !session.workflow.Resolutions.Resolved() {
		writeError(w, http.StatusConflict, "unresolved conflicts remain")
		return
	}

	result, err := s.commitWorkflow(r, session.workflow, session.EditionID, session.Timezone)
	session.result = result
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessionPayload(session))
}

func (s *Server) handleCancelSetImport(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.workflow.Cancel(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.sessions.remove(session.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// commitWorkflow drives a workflow through the importing phase and records
// the terminal state.
func (s *Server) commitWorkflow(r *http.Request, workflow *lineup.Session, editionID int64, timezone string) (*imports.Result, error) {
	if err := workflow.BeginImport(); err != nil {
		return nil, err
	}

	result, err := s.imports.ImportSetsWithResolutions(
		r.Context(),
		workflow.Rows,
		editionID,
		workflow.Resolutions.Decisions(),
		workflow.Conflicts,
		workflow.Clean,
		timezone,
		s.logImportProgress,
	)
	if err != nil {
		return &result, err
	}

	terminal := lineup.StateCompleted
	if len(result.Errors) > 0 {
		terminal = lineup.StateCompletedWithErrors
	}
	if err := workflow.Transition(terminal); err != nil {
		return &result, err
	}
	return &result, nil
}

func (s *Server) logImportProgress(p imports.Progress) {
	s.log.Debug().
		Int("completed", p.Completed).
		Int("total", p.Total).
		Str("current", p.Current).
		Int("errors", len(p.Errors)).
		Msg("import progress")
}

type conflictPayload struct {
	Index      int                `json:"index"`
	Conflict   lineup.Conflict    `json:"conflict"`
	Resolution *lineup.Resolution `json:"resolution,omitempty"`
}

func sessionPayload(session *importSession) map[string]any {
	workflow := session.workflow

	conflicts := make([]conflictPayload, len(workflow.Conflicts))
	for i, c := range workflow.Conflicts {
		payload := conflictPayload{Index: i, Conflict: c}
		if r, ok := workflow.Resolutions.Get(i); ok {
			resolution := r
			payload.Resolution = &resolution
		}
		conflicts[i] = payload
	}

	body := map[string]any{
		"id":         session.ID,
		"state":      workflow.State(),
		"edition_id": session.EditionID,
		"timezone":   session.Timezone,
		"created_at": sessionTimestamp(session.CreatedAt),
		"conflicts":  conflicts,
		"clean":      workflow.Clean,
		"unresolved": workflow.Resolutions.UnresolvedCount(),
	}
	if session.result != nil {
		body["result"] = session.result
	}
	return body
}
