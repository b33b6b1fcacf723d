package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// SearchMovies handles GET /api/movies/search
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	page, err := h.movies.SearchMovies(r.Context(), query, pageParam(r))
	if err != nil {
		respondInternal(w, r, err, "Failed to search movies")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// PopularMovies handles GET /api/movies/popular
func (h *Handler) PopularMovies(w http.ResponseWriter, r *http.Request) {
	page, err := h.movies.PopularMovies(r.Context(), pageParam(r))
	if err != nil {
		respondInternal(w, r, err, "Failed to fetch popular movies")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// MovieDetails handles GET /api/movies/{id}
func (h *Handler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid movie id")
		return
	}

	details, err := h.movies.MovieDetails(r.Context(), id)
	if err != nil {
		respondInternal(w, r, err, "Failed to fetch movie details")
		return
	}
	respondJSON(w, http.StatusOK, details)
}

// Genres handles GET /api/movies/genres/list
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.movies.Genres(r.Context())
	if err != nil {
		respondInternal(w, r, err, "Failed to fetch genres")
		return
	}
	respondJSON(w, http.StatusOK, genres)
}
