// Command songle walks through the Songle API for one song: metadata, beat,
// chord and chorus maps, then a search. With -archive it also stores a snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ewilliams-labs/songle/internal/adapters/songle"
	"github.com/ewilliams-labs/songle/internal/adapters/sqlite"
	"github.com/ewilliams-labs/songle/internal/config"
	"github.com/ewilliams-labs/songle/internal/core/domain"
	"github.com/ewilliams-labs/songle/internal/core/ports"
	"github.com/ewilliams-labs/songle/internal/core/services"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

// realMain returns the process exit code so deferred cleanup runs before exit.
func realMain(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("songle", flag.ContinueOnError)
	fs.SetOutput(stderr)
	songURL := fs.String("url", "www.youtube.com/watch?v=PqJNc9KVIZE", "song URL on the source site")
	query := fs.String("q", "Tell Your World", "search query")
	archive := fs.Bool("archive", false, "store a snapshot of every map in the configured archive")
	verbose := fs.Bool("v", false, "log outgoing requests")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx := context.Background()
	client := songle.NewClient(songle.NewHTTPClient(ctx, cfg.API.Key, cfg.Timeout()), cfg.API.BaseURL)

	var repo ports.SnapshotRepository
	if *archive && cfg.Storage.Driver == "sqlite" {
		db, err := sqlite.NewAdapter(cfg.Storage.Path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		defer db.Close()
		repo = db
	}
	svc := services.NewArchiver(client, repo)

	if err := run(ctx, stdout, svc, *songURL, *query, *archive); err != nil {
		if ports.IsAPIError(err) {
			fmt.Fprintf(stderr, "An API error occurred: %v\n", err)
		} else {
			fmt.Fprintf(stderr, "An unexpected error occurred: %v\n", err)
		}
		return 1
	}
	return 0
}

func run(ctx context.Context, w io.Writer, svc *services.Archiver, songURL, query string, archive bool) error {
	rule := "--------------------"

	fmt.Fprintf(w, "--- Fetching song info for URL: %s ---\n", songURL)
	song, err := svc.SongInfo(ctx, songURL)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Title: %s\n", song.Title)
	fmt.Fprintf(w, "Artist: %s\n", song.Artist.Name)
	fmt.Fprintln(w, rule)

	fmt.Fprintln(w, "--- Fetching beat map ---")
	m, err := svc.Map(ctx, domain.MapBeat, songURL, domain.LatestRevision)
	if err != nil {
		return err
	}
	if beats := m.(domain.BeatInfo).Beats; len(beats) > 0 {
		fmt.Fprintf(w, "Found %d beats.\n", len(beats))
		fmt.Fprintf(w, "First beat starts at %dms with BPM %g\n", beats[0].Start, beats[0].BPM)
	}
	fmt.Fprintln(w, rule)

	fmt.Fprintln(w, "--- Fetching chord map ---")
	m, err = svc.Map(ctx, domain.MapChord, songURL, domain.LatestRevision)
	if err != nil {
		return err
	}
	chords := m.(domain.ChordInfo).Chords
	if len(chords) > 0 {
		fmt.Fprintf(w, "Found %d chords.\n", len(chords))
	}
	for _, c := range chords {
		if c.Name != "N" {
			fmt.Fprintf(w, "First actual chord is '%s' at %dms\n", c.Name, c.Start)
			break
		}
	}
	fmt.Fprintln(w, rule)

	fmt.Fprintln(w, "--- Fetching chorus info ---")
	m, err = svc.Map(ctx, domain.MapChorus, songURL, domain.LatestRevision)
	if err != nil {
		return err
	}
	if segs := m.(domain.ChorusInfo).ChorusSegments; len(segs) > 0 && len(segs[0].Repeats) > 0 {
		first := segs[0].Repeats[0]
		fmt.Fprintf(w, "Found %d chorus sections.\n", len(segs[0].Repeats))
		fmt.Fprintf(w, "First chorus starts at %dms, duration %dms\n", first.Start, first.Duration)
	}
	fmt.Fprintln(w, rule)

	fmt.Fprintf(w, "--- Searching for songs with query: '%s' ---\n", query)
	results, err := svc.Search(ctx, query)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Found %d results.\n", len(results))
	for _, s := range results {
		fmt.Fprintf(w, "  - %s by %s\n", s.Title, s.Artist.Name)
	}

	if archive {
		fmt.Fprintln(w, rule)
		snap, err := svc.Archive(ctx, songURL)
		if err != nil {
			return err
		}
		sum := snap.Summarize()
		fmt.Fprintf(w, "Archived snapshot %s (%d beats, %d chords, %d notes, avg BPM %.1f)\n",
			snap.ID, sum.Beats, sum.Chords, sum.Notes, sum.AverageBPM)
	}
	return nil
}
