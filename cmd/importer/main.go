package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ryokan-ops/stayboard/internal/config"
	"github.com/ryokan-ops/stayboard/internal/engine"
	"github.com/ryokan-ops/stayboard/internal/logger"
	"github.com/ryokan-ops/stayboard/internal/store"
	"github.com/ryokan-ops/stayboard/internal/store/reservations"
)

// Imports reservation exports from the booking channels: one JSON
// reservation per line, upserted by id so re-running a feed is safe.
func main() {
	path := flag.String("file", "", "NDJSON reservation export to import")
	flag.Parse()
	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: importer -file <reservations.ndjson>")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Env)
	ctx := context.Background()

	db, err := store.NewDB(ctx, cfg.PostgresURL, int32(cfg.MaxDBConnections))
	if err != nil {
		log.Fatal("db", zap.Error(err))
	}
	defer db.Close()
	repo := reservations.NewReservationsRepository(db, log)

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal("open export", zap.Error(err))
	}
	defer f.Close()

	var imported, skipped int
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}

		var res engine.Reservation
		if err := json.Unmarshal(raw, &res); err != nil {
			log.Error("malformed line", zap.Int("line", line), zap.Error(err))
			skipped++
			continue
		}
		if res.Building == "" || res.Room == "" {
			log.Error("line missing building or room", zap.Int("line", line))
			skipped++
			continue
		}
		if res.ID == "" {
			res.ID = uuid.NewString()
		}
		if res.Status == "" {
			res.Status = engine.StatusConfirmed
		}
		if res.BookDate.IsZero() {
			res.BookDate = time.Now().UTC()
		}

		if err := repo.Insert(ctx, &res); err != nil {
			log.Error("insert failed", zap.Int("line", line), zap.String("id", res.ID), zap.Error(err))
			skipped++
			continue
		}
		imported++
	}
	if err := sc.Err(); err != nil {
		log.Fatal("read export", zap.Error(err))
	}

	log.Info("import complete", zap.Int("imported", imported), zap.Int("skipped", skipped))
	fmt.Printf("import complete at %s: %d imported, %d skipped\n", time.Now().Format(time.RFC3339), imported, skipped)
}
