package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/Zerr0-C00L/StreamHub/internal/auth"
	"github.com/Zerr0-C00L/StreamHub/internal/logging"
	"github.com/Zerr0-C00L/StreamHub/internal/models"
	"github.com/Zerr0-C00L/StreamHub/internal/services"
)

// StreamRepository persists stream records.
type StreamRepository interface {
	List(ctx context.Context, status *models.StreamStatus) ([]*models.Stream, error)
	Get(ctx context.Context, id string) (*models.Stream, error)
	Create(ctx context.Context, stream *models.Stream) error
	UpdateStatus(ctx context.Context, id string, status models.StreamStatus) (*models.Stream, error)
	Delete(ctx context.Context, id string) error
	AdjustViewers(ctx context.Context, id string, delta int) (int, error)
	Stats(ctx context.Context) (*models.StreamStats, error)
}

type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]*models.User, error)
}

type MovieCatalog interface {
	SearchMovies(ctx context.Context, query string, page int) (*models.MoviePage, error)
	PopularMovies(ctx context.Context, page int) (*models.MoviePage, error)
	MovieDetails(ctx context.Context, id int) (*models.MovieDetails, error)
	Genres(ctx context.Context) ([]models.Genre, error)
}

// StreamPlatform provisions live streams on the external streaming service.
type StreamPlatform interface {
	CreateStream(ctx context.Context, title, description string) (*services.PlatformStream, error)
	DeleteStream(ctx context.Context, id string) error
}

type SportsSchedule interface {
	Sports(ctx context.Context) ([]models.Sport, error)
	Matches(ctx context.Context, sport string) ([]models.Match, error)
	MatchStreams(ctx context.Context, source, id string) (*models.MatchStreams, error)
}

type PlaylistProber interface {
	Probe(ctx context.Context, playlistURL string) (*models.PlaybackInfo, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators a Handler needs. DB and Scheduler may be nil.
type Deps struct {
	Streams   StreamRepository
	Users     UserRepository
	Movies    MovieCatalog
	Platform  StreamPlatform
	Sports    SportsSchedule
	Prober    PlaylistProber
	Tokens    *auth.TokenManager
	Scheduler *services.ServiceScheduler
	DB        Pinger
}

type Handler struct {
	streams   StreamRepository
	users     UserRepository
	movies    MovieCatalog
	platform  StreamPlatform
	sports    SportsSchedule
	prober    PlaylistProber
	tokens    *auth.TokenManager
	scheduler *services.ServiceScheduler
	db        Pinger
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		streams:   d.Streams,
		users:     d.Users,
		movies:    d.Movies,
		platform:  d.Platform,
		sports:    d.Sports,
		prober:    d.Prober,
		tokens:    d.Tokens,
		scheduler: d.Scheduler,
		db:        d.DB,
	}
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondInternal logs the cause and answers with a static message.
func respondInternal(w http.ResponseWriter, r *http.Request, err error, message string) {
	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(message)
	respondError(w, http.StatusInternalServerError, message)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}

// HealthCheck handles GET /api/health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Health check database ping failed")
			resp["status"] = "unhealthy"
			respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
