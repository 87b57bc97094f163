package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ewilliams-labs/songle/internal/adapters/songle"
	"github.com/ewilliams-labs/songle/internal/adapters/sqlite"
	"github.com/ewilliams-labs/songle/internal/core/ports"
	"github.com/ewilliams-labs/songle/internal/core/services"
)

const knownSong = "www.youtube.com/watch?v=PqJNc9KVIZE"

// fakeSongle serves canned Songle responses for knownSong and 404 for anything else.
func fakeSongle(t *testing.T) *httptest.Server {
	t.Helper()
	bodies := map[string]string{
		"/api/v1/song.json":                 `{"id": 1, "title": "Tell Your World", "artist": {"id": 2, "name": "livetune"}, "duration": 254632.8}`,
		"/api/v1/song/beat.json":            `{"beats": [{"index": 0, "start": 120, "bpm": 175}, {"index": 1, "start": 463, "bpm": 175}]}`,
		"/api/v1/song/chord.json":           `{"chords": [{"index": 0, "start": 0, "duration": 1200, "name": "N"}, {"index": 1, "start": 1200, "duration": 900, "name": "E"}]}`,
		"/api/v1/song/melody.json":          `{"notes": [{"index": 0, "start": 500, "duration": 250, "pitch": 440}]}`,
		"/api/v1/song/chord_revisions.json": `[{"id": 5, "createdAt": "2013-01-02T03:04:05Z"}]`,
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/songs/search.json" {
			if r.URL.Query().Get("q") == "nothing matches" {
				_, _ = w.Write([]byte(`[]`))
				return
			}
			_, _ = w.Write([]byte(`[` + bodies["/api/v1/song.json"] + `]`))
			return
		}
		body, ok := bodies[r.URL.Path]
		if !ok || r.URL.Query().Get("url") != knownSong {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": "not found"}`))
			return
		}
		if r.URL.Query().Get("revision_id") == "500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestHandler(t *testing.T, withArchive bool) *Handler {
	t.Helper()
	ts := fakeSongle(t)
	client := songle.NewClient(ts.Client(), ts.URL)

	var repo ports.SnapshotRepository
	if withArchive {
		a, err := sqlite.NewAdapter(":memory:")
		if err != nil {
			t.Fatalf("new adapter: %v", err)
		}
		t.Cleanup(func() { a.Close() })
		repo = a
	}

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("songle_api_requests_total 1\n"))
	})
	return NewHandler(services.NewArchiver(client, repo), metrics)
}

func do(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHandler_Routes(t *testing.T) {
	q := "?url=" + knownSong

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedBody   string
	}{
		{name: "health", target: "/health", expectedStatus: http.StatusOK, expectedBody: `"status":"ok"`},
		{name: "metrics", target: "/metrics", expectedStatus: http.StatusOK, expectedBody: "songle_api_requests_total"},
		{name: "song info", target: "/songs" + q, expectedStatus: http.StatusOK, expectedBody: `"duration_ms":254633`},
		{name: "song info missing url", target: "/songs", expectedStatus: http.StatusBadRequest, expectedBody: errCodeInvalidArgument},
		{name: "unknown song", target: "/songs?url=www.example.com/nope", expectedStatus: http.StatusNotFound, expectedBody: errCodeNotFound},
		{name: "search", target: "/songs/search?q=tell", expectedStatus: http.StatusOK, expectedBody: `"title":"Tell Your World"`},
		{name: "empty search", target: "/songs/search?q=nothing+matches", expectedStatus: http.StatusOK, expectedBody: `[]`},
		{name: "beat map", target: "/songs/maps/beat" + q, expectedStatus: http.StatusOK, expectedBody: `"start":463`},
		{name: "melody map", target: "/songs/maps/melody" + q, expectedStatus: http.StatusOK, expectedBody: `"pitch":69`},
		{name: "unknown map kind", target: "/songs/maps/lyrics" + q, expectedStatus: http.StatusBadRequest, expectedBody: errCodeInvalidArgument},
		{name: "bad revision id", target: "/songs/maps/beat" + q + "&revision_id=abc", expectedStatus: http.StatusBadRequest, expectedBody: "revision_id"},
		{name: "upstream failure", target: "/songs/maps/beat" + q + "&revision_id=500", expectedStatus: http.StatusBadGateway, expectedBody: errCodeUpstream},
		{name: "missing chorus map", target: "/songs/maps/chorus" + q, expectedStatus: http.StatusNotFound, expectedBody: errCodeNotFound},
		{name: "revisions", target: "/songs/maps/chord/revisions" + q, expectedStatus: http.StatusOK, expectedBody: `"id":5`},
	}

	h := newTestHandler(t, false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, nil)
			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d, body: %s", tt.expectedStatus, rec.Code, strings.TrimSpace(rec.Body.String()))
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %s", tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_Snapshots(t *testing.T) {
	h := newTestHandler(t, true)

	body, _ := json.Marshal(map[string]string{"url": knownSong})
	rec := do(t, h, http.MethodPost, "/snapshots", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d, body: %s", rec.Code, rec.Body.String())
	}
	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/snapshots/") {
		t.Fatalf("Location: got %q", location)
	}

	var created struct {
		ID     string `json:"id"`
		Chorus struct {
			ChorusSegments []any `json:"chorus_segments"`
		} `json:"chorus"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" || location != "/snapshots/"+created.ID {
		t.Fatalf("created id %q does not match Location %q", created.ID, location)
	}
	if len(created.Chorus.ChorusSegments) != 0 {
		t.Errorf("missing chorus map should stay empty, got %v", created.Chorus.ChorusSegments)
	}

	rec = do(t, h, http.MethodGet, location, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"E"`) {
		t.Fatalf("get: got %d, body: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/snapshots?url="+knownSong, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d, body: %s", rec.Code, rec.Body.String())
	}
	var items []snapshotListItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Tell Your World" || items[0].Summary.DistinctChords != 1 {
		t.Fatalf("list items: got %+v", items)
	}

	rec = do(t, h, http.MethodGet, "/snapshots/does-not-exist", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing snapshot: expected 404, got %d", rec.Code)
	}
}

func TestHandler_CreateSnapshot_Errors(t *testing.T) {
	tests := []struct {
		name           string
		withArchive    bool
		contentType    string
		body           string
		expectedStatus int
	}{
		{name: "wrong content type", withArchive: true, contentType: "text/plain", body: `{}`, expectedStatus: http.StatusUnsupportedMediaType},
		{name: "invalid json", withArchive: true, contentType: "application/json", body: `{`, expectedStatus: http.StatusBadRequest},
		{name: "missing url", withArchive: true, contentType: "application/json", body: `{}`, expectedStatus: http.StatusBadRequest},
		{name: "unknown song", withArchive: true, contentType: "application/json", body: `{"url":"www.example.com/nope"}`, expectedStatus: http.StatusNotFound},
		{name: "archive disabled", withArchive: false, contentType: "application/json", body: `{"url":"` + knownSong + `"}`, expectedStatus: http.StatusNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.withArchive)
			req := httptest.NewRequest(http.MethodPost, "/snapshots", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d, body: %s", tt.expectedStatus, rec.Code, strings.TrimSpace(rec.Body.String()))
			}
		})
	}
}

func TestHandler_SnakeCaseKeys(t *testing.T) {
	h := newTestHandler(t, true)

	body, _ := json.Marshal(map[string]string{"url": knownSong})
	if rec := do(t, h, http.MethodPost, "/snapshots", body); rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d, body: %s", rec.Code, rec.Body.String())
	}

	tests := []struct {
		name    string
		target  string
		want    []string
		notWant []string
	}{
		{
			name:    "song",
			target:  "/songs?url=" + knownSong,
			want:    []string{`"duration_ms"`, `"artist":{"id":2,"name":"livetune"}`},
			notWant: []string{`"DurationMs"`, `"Title"`},
		},
		{
			name:    "melody map",
			target:  "/songs/maps/melody?url=" + knownSong,
			want:    []string{`"notes"`, `"pitch_hz":440`},
			notWant: []string{`"Notes"`, `"PitchHz"`},
		},
		{
			name:    "revisions",
			target:  "/songs/maps/chord/revisions?url=" + knownSong,
			want:    []string{`"label":"2013-01-02T03:04:05Z"`, `"created_at"`},
			notWant: []string{`"Label"`, `"CreatedAt"`},
		},
		{
			name:    "snapshot list",
			target:  "/snapshots?url=" + knownSong,
			want:    []string{`"song_url"`, `"distinct_chords":1`, `"average_bpm":175`},
			notWant: []string{`"DistinctChords"`, `"AverageBPM"`},
		},
		{
			name:    "error",
			target:  "/songs",
			want:    []string{`"error"`, `"code":"INVALID_ARGUMENT"`},
			notWant: []string{`"Error"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := do(t, h, http.MethodGet, tt.target, nil).Body.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("expected body to contain %s, got %s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("expected body not to contain %s, got %s", w, got)
				}
			}
		})
	}
}
