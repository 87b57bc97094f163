package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ewilliams-labs/songle/internal/core/domain"
)

type createSnapshotRequest struct {
	URL string `json:"url"`
}

type snapshotListItem struct {
	ID        string         `json:"id"`
	SongURL   string         `json:"song_url"`
	Title     string         `json:"title"`
	Artist    string         `json:"artist"`
	FetchedAt time.Time      `json:"fetched_at"`
	Summary   domain.Summary `json:"summary"`
}

// CreateSnapshot handles POST /snapshots
func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req createSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, "Invalid request body", errCodeInvalidArgument)
		return
	}

	snap, err := h.svc.Archive(r.Context(), req.URL)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/snapshots/"+snap.ID)
	writeJSON(w, http.StatusCreated, snap)
}

// ListSnapshots handles GET /snapshots?url=
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.svc.ListArchived(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]snapshotListItem, 0, len(snaps))
	for _, s := range snaps {
		items = append(items, snapshotListItem{
			ID:        s.ID,
			SongURL:   s.SongURL,
			Title:     s.Song.Title,
			Artist:    s.Song.Artist.Name,
			FetchedAt: s.FetchedAt,
			Summary:   s.Summarize(),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

// GetSnapshot handles GET /snapshots/{id}
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.GetArchived(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
