package rest

import (
	"net/http"
	"strconv"

	"github.com/ewilliams-labs/songle/internal/core/domain"
)

// GetSong handles GET /songs?url=
func (h *Handler) GetSong(w http.ResponseWriter, r *http.Request) {
	song, err := h.svc.SongInfo(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

// SearchSongs handles GET /songs/search?q=
func (h *Handler) SearchSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// GetMap handles GET /songs/maps/{kind}?url=&revision_id=
func (h *Handler) GetMap(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseMapKind(r.PathValue("kind"))
	if err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidArgument)
		return
	}

	revisionID := domain.LatestRevision
	if raw := r.URL.Query().Get("revision_id"); raw != "" {
		revisionID, err = strconv.Atoi(raw)
		if err != nil || revisionID < 0 {
			writeErrorWithCode(w, http.StatusBadRequest, "revision_id must be a non-negative integer", errCodeInvalidArgument)
			return
		}
	}

	m, err := h.svc.Map(r.Context(), kind, r.URL.Query().Get("url"), revisionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetRevisions handles GET /songs/maps/{kind}/revisions?url=
func (h *Handler) GetRevisions(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseMapKind(r.PathValue("kind"))
	if err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidArgument)
		return
	}

	revs, err := h.svc.Revisions(r.Context(), kind, r.URL.Query().Get("url"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, revs)
}
