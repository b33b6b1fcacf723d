package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Zerr0-C00L/StreamHub/internal/auth"
	"github.com/Zerr0-C00L/StreamHub/internal/logging"
	"github.com/Zerr0-C00L/StreamHub/internal/services"
	"github.com/Zerr0-C00L/StreamHub/internal/validation"
)

// AdminHandler serves the admin dashboard endpoints
type AdminHandler struct {
	*Handler
}

func NewAdminHandler(handler *Handler) *AdminHandler {
	return &AdminHandler{Handler: handler}
}

// RegisterAdminRoutes mounts /admin under r behind token and admin checks
func (a *AdminHandler) RegisterAdminRoutes(r *mux.Router) {
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(a.tokens.Middleware, auth.RequireAdmin)

	admin.HandleFunc("/streams", a.ListAllStreams).Methods("GET")
	admin.HandleFunc("/stats", a.GetStatistics).Methods("GET")
	admin.HandleFunc("/users", a.GetUsers).Methods("GET")
	admin.HandleFunc("/services", a.GetServices).Methods("GET")
	admin.HandleFunc("/services/{name}", a.UpdateService).Methods("PATCH")
}

// ListAllStreams returns streams of every status, newest first
func (a *AdminHandler) ListAllStreams(w http.ResponseWriter, r *http.Request) {
	streams, err := a.streams.List(r.Context(), nil)
	if err != nil {
		respondInternal(w, r, err, "Failed to fetch streams")
		return
	}
	respondJSON(w, http.StatusOK, streams)
}

func (a *AdminHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := a.streams.Stats(r.Context())
	if err != nil {
		respondInternal(w, r, err, "Failed to fetch statistics")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (a *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List(r.Context())
	if err != nil {
		respondInternal(w, r, err, "Failed to fetch users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// GetServices reports background service status
func (a *AdminHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	if a.scheduler == nil {
		respondJSON(w, http.StatusOK, []*services.ServiceStatus{})
		return
	}
	respondJSON(w, http.StatusOK, a.scheduler.GetAllStatus())
}

type updateServiceRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// UpdateService enables or disables a background service
func (a *AdminHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var req updateServiceRequest
	if err := decodeJSON(w, r, &req); err != nil || validation.ValidateStruct(&req) != nil {
		respondError(w, http.StatusBadRequest, "Enabled flag is required")
		return
	}

	name := mux.Vars(r)["name"]
	if a.scheduler == nil || !a.scheduler.SetEnabled(name, *req.Enabled) {
		respondError(w, http.StatusNotFound, "Service not found")
		return
	}

	logging.Ctx(r.Context()).Info().Str("service", name).Bool("enabled", *req.Enabled).Msg("Service toggled")
	respondJSON(w, http.StatusOK, a.scheduler.GetStatus(name))
}
