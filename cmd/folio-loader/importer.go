// Worker pool for parallel record import.
// Reader → channel(recordBatch) → N workers → Postgres.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// errDuplicate marks a record whose document slug is already imported.
var errDuplicate = errors.New("document already imported")

// importer drives the batch import.
type importer struct {
	pool      *pgxpool.Pool
	workers   int
	batchSize int
	metrics   *loaderMetrics
	cursor    *cursorTracker
}

// recordBatch is one unit of work. offset is the record number after the
// batch's last record.
type recordBatch struct {
	records []archiveRecord
	offset  int
}

// importResult sums up a run.
type importResult struct {
	Imported int64
	Skipped  int64
	Failed   int64
	Duration time.Duration
}

// Run starts the pipeline: reader → workers → Postgres.
func (imp *importer) Run(ctx context.Context, reader *ndjsonReader, maxRecords int) (importResult, error) {
	cur := imp.cursor.Get()

	batches := make(chan recordBatch, imp.workers*2)
	var wg sync.WaitGroup
	var imported, skipped, failed atomic.Int64

	start := time.Now()

	for i := 0; i < imp.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			imp.worker(ctx, workerID, batches, &imported, &skipped, &failed)
		}(i)
	}

	var readerErr error
	go func() {
		defer close(batches)
		readerErr = imp.produce(ctx, reader, cur.RecordOffset, maxRecords, batches)
	}()

	wg.Wait()

	result := importResult{
		Imported: imported.Load(),
		Skipped:  skipped.Load(),
		Failed:   failed.Load(),
		Duration: time.Since(start),
	}
	if readerErr != nil {
		return result, readerErr
	}
	return result, nil
}

// produce reads the input and forms batches.
func (imp *importer) produce(
	ctx context.Context,
	reader *ndjsonReader,
	offset, maxRecords int,
	out chan<- recordBatch,
) error {
	var batch []archiveRecord
	currentOffset := offset

	err := reader.Read(offset, maxRecords, func(rec *archiveRecord, seq int) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		batch = append(batch, *rec)
		currentOffset = seq + 1

		if len(batch) >= imp.batchSize {
			out <- recordBatch{records: batch, offset: currentOffset}
			batch = make([]archiveRecord, 0, imp.batchSize)
		}
		return true
	})

	if len(batch) > 0 {
		out <- recordBatch{records: batch, offset: currentOffset}
	}

	return err
}

// worker drains batches from the channel.
func (imp *importer) worker(
	ctx context.Context,
	id int,
	batches <-chan recordBatch,
	imported, skipped, failed *atomic.Int64,
) {
	for batch := range batches {
		imp.processBatch(ctx, id, batch, imported, skipped, failed)
	}
}

// processBatch imports each record in its own transaction: a bad record
// fails alone, not the whole batch.
func (imp *importer) processBatch(
	ctx context.Context,
	id int,
	batch recordBatch,
	imported, skipped, failed *atomic.Int64,
) {
	start := time.Now()
	var batchImported, batchSkipped, batchFailed int
	aborted := false

	for i := range batch.records {
		if ctx.Err() != nil {
			aborted = true
			break
		}
		rec := &batch.records[i]

		if err := rec.validate(); err != nil {
			log.Printf("worker %d: record rejected: %v", id, err)
			batchFailed++
			imp.metrics.recordsFailed.WithLabelValues("invalid").Inc()
			continue
		}

		err := imp.importRecord(ctx, rec)
		switch {
		case err == nil:
			batchImported++
			imp.metrics.recordsImported.Inc()
			imp.metrics.pagesCopied.Add(float64(len(rec.Pages)))
		case errors.Is(err, errDuplicate):
			batchSkipped++
			imp.metrics.recordsSkipped.Inc()
		default:
			log.Printf("worker %d: import %q: %v", id, rec.Document.Title, err)
			batchFailed++
			imp.metrics.recordsFailed.WithLabelValues("db_error").Inc()
		}
	}

	imp.metrics.batchDuration.Observe(time.Since(start).Seconds())

	imported.Add(int64(batchImported))
	skipped.Add(int64(batchSkipped))
	failed.Add(int64(batchFailed))

	// An aborted batch does not advance the cursor: the next run replays it
	// and the slug conflict skips whatever already landed.
	if aborted {
		log.Printf("worker %d: batch aborted at offset %d", id, batch.offset)
		return
	}

	imp.metrics.cursorPosition.Set(float64(batch.offset))
	imp.cursor.Advance(batch.offset, batchImported, batchSkipped, batchFailed)

	total := imported.Load()
	if total%10000 < int64(imp.batchSize) {
		log.Printf("documents: %d imported, %d skipped, %d failed",
			total, skipped.Load(), failed.Load())
	}
}

// importRecord writes one record atomically: owner rows, the document, its
// page texts (CopyFrom) and metadata (batched inserts).
func (imp *importer) importRecord(ctx context.Context, rec *archiveRecord) error {
	tx, err := imp.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var orgID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO organizations (slug, name) VALUES ($1, $2)
		 ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		rec.Organization.Slug, rec.Organization.Name,
	).Scan(&orgID)
	if err != nil {
		return fmt.Errorf("upsert organization: %w", err)
	}

	var accountID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO accounts (organization_id, email, display_name) VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE SET display_name = EXCLUDED.display_name
		 RETURNING id`,
		orgID, rec.Account.Email, rec.Account.Name,
	).Scan(&accountID)
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}

	access, err := accessLevel(rec.Document.Access)
	if err != nil {
		return err
	}
	slug := rec.Document.Slug
	if slug == "" {
		slug = uuid.NewString()
	}
	language := rec.Document.Language
	if language == "" {
		language = "en"
	}
	createdAt := time.Now()
	if rec.Document.CreatedAt != nil {
		createdAt = *rec.Document.CreatedAt
	}

	var docID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO documents
		   (account_id, organization_id, access, title, slug, source,
		    description, language, page_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		 ON CONFLICT (slug) DO NOTHING
		 RETURNING id`,
		accountID, orgID, access, rec.Document.Title, slug,
		rec.Document.Source, rec.Document.Description, language,
		len(rec.Pages), createdAt,
	).Scan(&docID)
	if errors.Is(err, pgx.ErrNoRows) {
		return errDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	if len(rec.Pages) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"page_texts"},
			[]string{"document_id", "page_number", "body"},
			pgx.CopyFromSlice(len(rec.Pages), func(i int) ([]any, error) {
				p := rec.Pages[i]
				number := p.Number
				if number == 0 {
					number = i + 1
				}
				return []any{docID, number, p.Body}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy page texts: %w", err)
		}
	}

	if len(rec.Metadata) > 0 {
		b := &pgx.Batch{}
		for _, m := range rec.Metadata {
			b.Queue(
				`INSERT INTO metadata (document_id, kind, value, relevance)
				 VALUES ($1, $2, $3, $4)`,
				docID, m.Kind, m.Value, m.Relevance,
			)
		}
		if err := tx.SendBatch(ctx, b).Close(); err != nil {
			return fmt.Errorf("insert metadata: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
