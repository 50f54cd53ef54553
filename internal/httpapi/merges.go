package httpapi

import (
	"net/http"
	"strings"

	"lineupboard/internal/app/merges"
	"lineupboard/internal/lineup"
	"lineupboard/internal/store"
)

func (s *Server) handleListDuplicates(w http.ResponseWriter, r *http.Request) {
	groups, err := s.merges.DuplicateGroups(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

type mergeRequest struct {
	Strategy string `json:"strategy"`
	// Names optionally restricts the merge to the listed groups; empty
	// means every detected group.
	Names []string `json:"names,omitempty"`
}

func (s *Server) handleMergeDuplicates(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	strategy, err := lineup.ParseMergeStrategy(req.Strategy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	groups, err := s.merges.DuplicateGroups(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	groups = filterGroups(groups, req.Names)
	if len(groups) == 0 {
		writeError(w, http.StatusNotFound, "no matching duplicate groups")
		return
	}

	errs := s.merges.MergeDuplicateGroups(r.Context(), groups, strategy, s.logMergeProgress)
	writeJSON(w, http.StatusOK, map[string]any{
		"merged": len(groups) - len(errs),
		"total":  len(groups),
		"errors": errs,
	})
}

func filterGroups(groups []store.DuplicateGroup, names []string) []store.DuplicateGroup {
	if len(names) == 0 {
		return groups
	}

	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	var selected []store.DuplicateGroup
	for _, g := range groups {
		if _, ok := wanted[g.Name]; ok {
			selected = append(selected, g)
		}
	}
	return selected
}

func (s *Server) logMergeProgress(p merges.Progress) {
	s.log.Debug().
		Int("completed", p.Completed).
		Int("total", p.Total).
		Str("current", p.Current).
		Int("errors", len(p.Errors)).
		Msg("merge progress")
}
