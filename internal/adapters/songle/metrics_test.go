package songle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterMetrics(reg)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer ts.Close()

	before := testutil.ToFloat64(requests.WithLabelValues(songPath, "418"))

	client := NewClient(ts.Client(), ts.URL)
	if _, err := client.GetSongInfo(context.Background(), "www.example.com/a"); err == nil {
		t.Fatalf("expected error for 418 response")
	}

	after := testutil.ToFloat64(requests.WithLabelValues(songPath, "418"))
	if after-before != 1 {
		t.Fatalf("request counter: got delta %v, want 1", after-before)
	}
	if n := testutil.CollectAndCount(requestDuration); n == 0 {
		t.Fatalf("expected duration samples to be collected")
	}
}

func TestNewHTTPClient(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		wantAuth string
	}{
		{name: "no key sends no authorization", apiKey: "", wantAuth: ""},
		{name: "key is sent as bearer token", apiKey: "secret", wantAuth: "Bearer secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				_, _ = w.Write([]byte(`[]`))
			}))
			defer ts.Close()

			hc := NewHTTPClient(context.Background(), tt.apiKey, 5*time.Second)
			if hc.Timeout != 5*time.Second {
				t.Errorf("Timeout: got %v, want 5s", hc.Timeout)
			}

			client := NewClient(hc, ts.URL)
			if _, err := client.SearchSongs(context.Background(), "miku"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotAuth != tt.wantAuth {
				t.Errorf("Authorization: got %q, want %q", gotAuth, tt.wantAuth)
			}
		})
	}
}
