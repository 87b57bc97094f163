package rest

import (
	"net/http"

	"github.com/ewilliams-labs/songle/internal/core/services"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc     *services.Archiver
	metrics http.Handler
	router  *http.ServeMux
}

// NewHandler initializes the HTTP adapter and sets up routes.
// metrics may be nil, in which case /metrics is not served.
func NewHandler(svc *services.Archiver, metrics http.Handler) *Handler {
	h := &Handler{
		svc:     svc,
		metrics: metrics,
		router:  http.NewServeMux(),
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)

	// Songle pass-through
	h.router.HandleFunc("GET /songs", h.GetSong)
	h.router.HandleFunc("GET /songs/search", h.SearchSongs)
	h.router.HandleFunc("GET /songs/maps/{kind}", h.GetMap)
	h.router.HandleFunc("GET /songs/maps/{kind}/revisions", h.GetRevisions)

	// Archive
	h.router.HandleFunc("POST /snapshots", h.CreateSnapshot)
	h.router.HandleFunc("GET /snapshots", h.ListSnapshots)
	h.router.HandleFunc("GET /snapshots/{id}", h.GetSnapshot)

	if h.metrics != nil {
		h.router.Handle("GET /metrics", h.metrics)
	}
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "songle archive is live"})
}
