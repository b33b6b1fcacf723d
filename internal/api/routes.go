package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Zerr0-C00L/StreamHub/internal/auth"
	"github.com/Zerr0-C00L/StreamHub/internal/metrics"
)

type RouterOptions struct {
	CORSOrigins       []string
	RateLimitRequests int // 0 disables
	RateLimitWindow   time.Duration
}

// SetupRoutes configures all API routes and wraps them in the middleware chain
func SetupRoutes(handler *Handler, opts RouterOptions) http.Handler {
	r := mux.NewRouter()
	r.Use(metrics.Middleware)

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	authed := func(f http.HandlerFunc) http.Handler {
		return handler.tokens.Middleware(f)
	}
	adminOnly := func(f http.HandlerFunc) http.Handler {
		return handler.tokens.Middleware(auth.RequireAdmin(f))
	}

	// Auth
	api.HandleFunc("/auth/register", handler.Register).Methods("POST")
	api.HandleFunc("/auth/login", handler.Login).Methods("POST")
	api.HandleFunc("/auth/status", handler.AuthStatus).Methods("GET")
	api.Handle("/auth/me", authed(handler.Me)).Methods("GET")

	// Movies; fixed paths before {id}
	api.HandleFunc("/movies/search", handler.SearchMovies).Methods("GET")
	api.HandleFunc("/movies/popular", handler.PopularMovies).Methods("GET")
	api.HandleFunc("/movies/genres/list", handler.Genres).Methods("GET")
	api.HandleFunc("/movies/{id:[0-9]+}", handler.MovieDetails).Methods("GET")

	// Streams
	api.HandleFunc("/streams", handler.ListStreams).Methods("GET")
	api.Handle("/streams", adminOnly(handler.CreateStream)).Methods("POST")
	api.HandleFunc("/streams/{id}", handler.GetStream).Methods("GET")
	api.Handle("/streams/{id}", adminOnly(handler.DeleteStream)).Methods("DELETE")
	api.Handle("/streams/{id}/status", adminOnly(handler.UpdateStreamStatus)).Methods("PATCH")
	api.HandleFunc("/streams/{id}/viewers", handler.UpdateViewers).Methods("POST")
	api.HandleFunc("/streams/{id}/playback", handler.StreamPlayback).Methods("GET")

	// Live sports
	api.HandleFunc("/live/sports", handler.ListSports).Methods("GET")
	api.HandleFunc("/live/matches/{sport}", handler.ListMatches).Methods("GET")
	api.HandleFunc("/live/streams/{source}/{id}", handler.MatchStreams).Methods("GET")

	NewAdminHandler(handler).RegisterAdminRoutes(api)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// CORS and rate limiting wrap the router so preflight requests never need a route match.
	var h http.Handler = r
	if opts.RateLimitRequests > 0 {
		h = httprate.LimitByIP(opts.RateLimitRequests, opts.RateLimitWindow)(h)
	}
	h = corsMiddleware(opts.CORSOrigins)(h)
	h = loggingMiddleware(h)
	h = recoverMiddleware(h)
	h = requestIDMiddleware(h)
	return h
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
