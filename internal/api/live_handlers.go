package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// ListSports handles GET /api/live/sports
func (h *Handler) ListSports(w http.ResponseWriter, r *http.Request) {
	sports, err := h.sports.Sports(r.Context())
	if err != nil {
		respondInternal(w, r, err, "Failed to fetch sports")
		return
	}
	respondJSON(w, http.StatusOK, sports)
}

// ListMatches handles GET /api/live/matches/{sport}
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.sports.Matches(r.Context(), mux.Vars(r)["sport"])
	if err != nil {
		respondInternal(w, r, err, "Failed to fetch matches")
		return
	}
	respondJSON(w, http.StatusOK, matches)
}

// MatchStreams handles GET /api/live/streams/{source}/{id}
func (h *Handler) MatchStreams(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	result, err := h.sports.MatchStreams(r.Context(), vars["source"], vars["id"])
	if err != nil {
		respondInternal(w, r, err, "Failed to fetch match streams")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
