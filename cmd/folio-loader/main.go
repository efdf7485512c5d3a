// Archive import pipeline for folio.
// Streams NDJSON records into Postgres: organizations, accounts, documents,
// page texts (COPY) and metadata. Supports resume, parallel workers and
// Prometheus metrics.
//
// Usage:
//
//	folio-loader -input /data/archive.ndjson -workers 4
//
// Env vars:
//
//	FOLIO_POSTGRES_DSN — archive database DSN (required)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg := parseFlags()

	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		cancel()
		log.Fatal(err)
	}
}

type config struct {
	input          string
	dataDir        string
	maxRecords     int
	workers        int
	batchSize      int
	metricsPort    string
	cursorInterval int
	reset          bool
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.input, "input", "", "NDJSON archive file (required)")
	flag.StringVar(&cfg.dataDir, "data-dir", "", "directory for the cursor file (default: input directory)")
	flag.IntVar(&cfg.maxRecords, "max-records", 0, "max records to import (0=unlimited)")
	flag.IntVar(&cfg.workers, "workers", 4, "number of parallel import workers")
	flag.IntVar(&cfg.batchSize, "batch-size", 100, "records per batch")
	flag.StringVar(&cfg.metricsPort, "metrics-port", "9091", "Prometheus metrics port")
	flag.IntVar(&cfg.cursorInterval, "cursor-interval", 1000, "save cursor every N records")
	flag.BoolVar(&cfg.reset, "reset", false, "reset cursor and start from scratch")
	flag.Parse()

	if cfg.input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if cfg.dataDir == "" {
		cfg.dataDir = filepath.Dir(cfg.input)
	}
	return cfg
}

func run(ctx context.Context, cfg config) error {
	start := time.Now()

	reg := prometheus.NewRegistry()
	metrics := newLoaderMetrics(reg)
	metricsSrv := serveMetrics(cfg.metricsPort, reg)
	defer func() {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		_ = metricsSrv.Shutdown(shutCtx)
	}()

	cursor, err := newCursorTracker(cfg.dataDir, cfg.cursorInterval)
	if err != nil {
		return fmt.Errorf("cursor: %w", err)
	}
	if cfg.reset {
		cursor.Reset()
		log.Println("cursor reset, starting from scratch")
	}
	if cursor.Get().Done {
		log.Println("cursor marked done; use -reset to import again")
		return nil
	}

	reader, err := newNDJSONReader(cfg.input)
	if err != nil {
		return fmt.Errorf("reader: %w", err)
	}

	pool, err := connectArchive(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	poller := &archivePoller{
		pool:     pool,
		metrics:  metrics,
		tables:   []string{"documents", "page_texts", "metadata", "annotations"},
		interval: 30 * time.Second,
	}
	poller.Start(ctx)

	log.Println("=== Import ===")
	imp := &importer{
		pool:      pool,
		workers:   cfg.workers,
		batchSize: cfg.batchSize,
		metrics:   metrics,
		cursor:    cursor,
	}
	result, err := imp.Run(ctx, reader, cfg.maxRecords)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	report(result, start)
	if ctx.Err() == nil && cfg.maxRecords == 0 {
		cursor.Done()
	}
	return nil
}

func connectArchive(ctx context.Context) (*pgxpool.Pool, error) {
	dsn := os.Getenv("FOLIO_POSTGRES_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("FOLIO_POSTGRES_DSN is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("archive connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("archive ping: %w", err)
	}
	return pool, nil
}

func report(result importResult, start time.Time) {
	log.Println("=== Report ===")
	elapsed := time.Since(start)
	rate := float64(result.Imported) / elapsed.Seconds()

	log.Printf("DONE in %s", elapsed.Round(time.Second))
	log.Printf("  documents: %d imported, %d skipped, %d failed",
		result.Imported, result.Skipped, result.Failed)
	log.Printf("  rate: %.0f records/sec", rate)
}
