package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Zerr0-C00L/StreamHub/internal/auth"
	"github.com/Zerr0-C00L/StreamHub/internal/database"
	"github.com/Zerr0-C00L/StreamHub/internal/logging"
	"github.com/Zerr0-C00L/StreamHub/internal/metrics"
	"github.com/Zerr0-C00L/StreamHub/internal/models"
	"github.com/Zerr0-C00L/StreamHub/internal/validation"
)

type createStreamRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type updateStatusRequest struct {
	Status models.StreamStatus `json:"status" validate:"required"`
}

type viewersRequest struct {
	Action string `json:"action" validate:"required,oneof=increment decrement"`
}

// ListStreams handles GET /api/streams
func (h *Handler) ListStreams(w http.ResponseWriter, r *http.Request) {
	active := models.StreamActive
	streams, err := h.streams.List(r.Context(), &active)
	if err != nil {
		respondInternal(w, r, err, "Failed to fetch streams")
		return
	}
	respondJSON(w, http.StatusOK, streams)
}

// GetStream handles GET /api/streams/{id}
func (h *Handler) GetStream(w http.ResponseWriter, r *http.Request) {
	stream, err := h.streams.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Stream not found")
		return
	}
	if err != nil {
		respondInternal(w, r, err, "Failed to fetch stream")
		return
	}
	respondJSON(w, http.StatusOK, stream)
}

// CreateStream handles POST /api/streams. The platform stream is created first;
// if the local insert fails it is removed again.
func (h *Handler) CreateStream(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createStreamRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := validation.ValidateStruct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Title and description are required")
		return
	}

	ctx := r.Context()
	ps, err := h.platform.CreateStream(ctx, req.Title, req.Description)
	if err != nil {
		respondInternal(w, r, err, "Failed to create stream")
		return
	}

	stream := &models.Stream{
		Title:       req.Title,
		Description: req.Description,
		StreamiID:   ps.ID,
		HLSURL:      ps.HLSURL,
		Status:      models.StreamActive,
		CreatedBy:   models.UserRef{ID: claims.UserID, Name: claims.Name, Email: claims.Email},
		Thumbnail:   ps.Thumbnail,
	}
	if err := h.streams.Create(ctx, stream); err != nil {
		// A duplicate streami id belongs to an existing row; keep its platform stream.
		if !errors.Is(err, database.ErrDuplicate) {
			h.discardPlatformStream(ctx, ps.ID)
		}
		respondInternal(w, r, err, "Failed to create stream")
		return
	}

	logging.Ctx(ctx).Info().
		Str("stream_id", stream.ID).
		Str("streami_id", stream.StreamiID).
		Int("user_id", claims.UserID).
		Msg("Stream created")
	respondJSON(w, http.StatusCreated, stream)
}

func (h *Handler) discardPlatformStream(ctx context.Context, streamiID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := h.platform.DeleteStream(ctx, streamiID); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("streami_id", streamiID).Msg("Failed to remove orphaned platform stream")
	}
}

// UpdateStreamStatus handles PATCH /api/streams/{id}/status
func (h *Handler) UpdateStreamStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil || validation.ValidateStruct(&req) != nil || !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	stream, err := h.streams.UpdateStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Stream not found")
		return
	}
	if err != nil {
		respondInternal(w, r, err, "Failed to update stream status")
		return
	}
	respondJSON(w, http.StatusOK, stream)
}

// DeleteStream handles DELETE /api/streams/{id}. The platform copy goes first
// so a failure leaves the local record for a retry.
func (h *Handler) DeleteStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	stream, err := h.streams.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Stream not found")
		return
	}
	if err != nil {
		respondInternal(w, r, err, "Failed to delete stream")
		return
	}

	if err := h.platform.DeleteStream(ctx, stream.StreamiID); err != nil {
		respondInternal(w, r, err, "Failed to delete stream")
		return
	}

	err = h.streams.Delete(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Stream not found")
		return
	}
	if err != nil {
		respondInternal(w, r, err, "Failed to delete stream")
		return
	}

	logging.Ctx(ctx).Info().Str("stream_id", id).Msg("Stream deleted")
	respondJSON(w, http.StatusOK, map[string]string{"message": "Stream deleted successfully"})
}

// UpdateViewers handles POST /api/streams/{id}/viewers
func (h *Handler) UpdateViewers(w http.ResponseWriter, r *http.Request) {
	var req viewersRequest
	if err := decodeJSON(w, r, &req); err != nil || validation.ValidateStruct(&req) != nil {
		respondError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	delta := 1
	if req.Action == "decrement" {
		delta = -1
	}

	viewers, err := h.streams.AdjustViewers(r.Context(), mux.Vars(r)["id"], delta)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Stream not found")
		return
	}
	if err != nil {
		respondInternal(w, r, err, "Failed to update viewer count")
		return
	}

	metrics.ViewerUpdates.WithLabelValues(req.Action).Inc()
	respondJSON(w, http.StatusOK, map[string]int{"viewers": viewers})
}

// StreamPlayback handles GET /api/streams/{id}/playback
func (h *Handler) StreamPlayback(w http.ResponseWriter, r *http.Request) {
	stream, err := h.streams.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Stream not found")
		return
	}
	if err != nil {
		respondInternal(w, r, err, "Failed to fetch stream")
		return
	}

	info, err := h.prober.Probe(r.Context(), stream.HLSURL)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("stream_id", stream.ID).Msg("Playlist probe failed")
		respondError(w, http.StatusBadGateway, "Failed to read stream playlist")
		return
	}
	respondJSON(w, http.StatusOK, info)
}
