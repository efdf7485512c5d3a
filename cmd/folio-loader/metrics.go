// Prometheus metrics for the archive loader.
// Import progress, batch latency, archive table sizes.
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// loaderMetrics holds every Prometheus metric of the loader.
type loaderMetrics struct {
	recordsImported prometheus.Counter
	recordsSkipped  prometheus.Counter
	recordsFailed   *prometheus.CounterVec
	pagesCopied     prometheus.Counter
	batchDuration   prometheus.Histogram
	cursorPosition  prometheus.Gauge

	tableRows  *prometheus.GaugeVec
	tableBytes *prometheus.GaugeVec
}

func newLoaderMetrics(reg prometheus.Registerer) *loaderMetrics {
	m := &loaderMetrics{
		recordsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "folio_loader",
			Name:      "records_imported_total",
			Help:      "Records successfully imported",
		}),

		recordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "folio_loader",
			Name:      "records_skipped_total",
			Help:      "Records whose document was already present",
		}),

		recordsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio_loader",
			Name:      "records_failed_total",
			Help:      "Records that could not be imported",
		}, []string{"reason"}),

		pagesCopied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "folio_loader",
			Name:      "pages_copied_total",
			Help:      "Page texts written via COPY",
		}),

		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "folio_loader",
			Name:      "batch_duration_seconds",
			Help:      "Batch import duration",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		cursorPosition: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "folio_loader",
			Name:      "cursor_position",
			Help:      "Current cursor record offset",
		}),

		tableRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "folio_loader",
			Name:      "table_rows",
			Help:      "Estimated rows per archive table",
		}, []string{"table"}),

		tableBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "folio_loader",
			Name:      "table_bytes",
			Help:      "Total relation size per archive table",
		}, []string{"table"}),
	}

	reg.MustRegister(
		m.recordsImported, m.recordsSkipped, m.recordsFailed,
		m.pagesCopied, m.batchDuration, m.cursorPosition,
		m.tableRows, m.tableBytes,
	)

	return m
}

// serveMetrics starts the HTTP server for Prometheus scrapes.
func serveMetrics(port string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("metrics server on :%s/metrics", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()

	return srv
}

// archivePoller periodically samples table sizes from Postgres.
type archivePoller struct {
	pool     *pgxpool.Pool
	metrics  *loaderMetrics
	tables   []string
	interval time.Duration
}

// Start launches the background goroutine. Stops on ctx.Done().
func (p *archivePoller) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		// First poll immediately.
		p.poll(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()
}

func (p *archivePoller) poll(ctx context.Context) {
	for _, table := range p.tables {
		// reltuples is the planner's estimate; counting exactly would scan
		// the tables being loaded.
		var rows float64
		err := p.pool.QueryRow(ctx,
			"SELECT reltuples FROM pg_class WHERE relname = $1", table,
		).Scan(&rows)
		if err == nil && rows >= 0 {
			p.metrics.tableRows.WithLabelValues(table).Set(rows)
		}

		var bytes int64
		err = p.pool.QueryRow(ctx,
			"SELECT pg_total_relation_size($1)", table,
		).Scan(&bytes)
		if err == nil {
			p.metrics.tableBytes.WithLabelValues(table).Set(float64(bytes))
		}
	}
}
