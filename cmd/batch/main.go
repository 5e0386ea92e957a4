// Command batch submits trip drafts stored as JSON files and writes each
// generated itinerary next to its draft as <name>.itinerary.json.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"trip_planner/internal/adapters/itinerary"
	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/app"
	"trip_planner/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	workers := flag.Int("workers", cfg.BatchWorkers, "concurrent submissions")
	flag.Parse()
	files := flag.Args()
	if len(files) == 0 {
		log.Fatal().Msg("usage: batch [-workers N] draft.json...")
	}
	if *workers <= 0 {
		*workers = 1
	}

	log.Info().
		Str("base", cfg.ItineraryURL).
		Int("workers", *workers).
		Int("drafts", len(files)).
		Msg("batch starting")

	client := itinerary.New(cfg.ItineraryURL, cfg.ItineraryRPS)
	svc := app.NewBatchService(client, log.Logger)
	sem := semaphore.NewWeighted(int64(*workers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, path := range files {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := submitFile(ctx, svc, path); err != nil {
				failed.Add(1)
				log.Warn().Str("draft", path).Err(err).Msg("submit failed")
				return
			}
			log.Info().Str("draft", path).Msg("submit ok")
		}(path)
	}

	wg.Wait()
	log.Info().Int32("failed", failed.Load()).Msg("batch completed")
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

func submitFile(ctx context.Context, svc *app.BatchService, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	d, err := app.DecodeDraft(f)
	f.Close()
	if err != nil {
		return err
	}

	it, err := svc.SubmitDraft(ctx, path, d)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(it, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(strings.TrimSuffix(path, ".json")+".itinerary.json", out, 0o644)
}
