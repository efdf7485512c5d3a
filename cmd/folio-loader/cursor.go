// Cursor — import progress tracking for resume.
// Stored as a JSON file next to the input, saved every N records.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Cursor holds the position in the import stream.
type Cursor struct {
	RecordOffset  int       `json:"record_offset"`
	TotalImported int       `json:"total_imported"`
	TotalSkipped  int       `json:"total_skipped"`
	TotalFailed   int       `json:"total_failed"`
	Done          bool      `json:"done"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// cursorTracker is a thread-safe progress tracker with periodic saves.
type cursorTracker struct {
	mu        sync.Mutex
	cursor    Cursor
	path      string
	saveEvery int
	dirty     bool
}

// newCursorTracker creates a tracker. An existing cursor file resumes the
// previous run.
func newCursorTracker(dataDir string, saveEvery int) (*cursorTracker, error) {
	path := filepath.Join(filepath.Clean(dataDir), "cursor.json")
	ct := &cursorTracker{
		path:      path,
		saveEvery: saveEvery,
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &ct.cursor); err != nil {
			return nil, fmt.Errorf("parse cursor %s: %w", path, err)
		}
		log.Printf("resume from cursor: offset=%d imported=%d failed=%d",
			ct.cursor.RecordOffset, ct.cursor.TotalImported, ct.cursor.TotalFailed)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read cursor %s: %w", path, err)
	}

	return ct, nil
}

// Get returns a copy of the current cursor.
func (ct *cursorTracker) Get() Cursor {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return ct.cursor
}

// Advance moves the cursor past a completed batch. Saves every saveEvery
// records. Batches may finish out of order; the offset only moves forward,
// so a resume can replay a batch — imports are idempotent per document slug.
func (ct *cursorTracker) Advance(recordOffset, imported, skipped, failed int) {
	ct.mu.Lock()
	if recordOffset > ct.cursor.RecordOffset {
		ct.cursor.RecordOffset = recordOffset
	}
	ct.cursor.TotalImported += imported
	ct.cursor.TotalSkipped += skipped
	ct.cursor.TotalFailed += failed
	ct.cursor.UpdatedAt = time.Now()
	ct.dirty = true
	processed := ct.cursor.TotalImported + ct.cursor.TotalSkipped + ct.cursor.TotalFailed
	shouldSave := processed%ct.saveEvery < imported+skipped+failed
	ct.mu.Unlock()

	if shouldSave {
		ct.forceSave()
	}
}

// forceSave writes the cursor to disk.
func (ct *cursorTracker) forceSave() {
	ct.mu.Lock()
	if !ct.dirty {
		ct.mu.Unlock()
		return
	}
	data, err := json.MarshalIndent(ct.cursor, "", "  ")
	if err != nil {
		ct.mu.Unlock()
		log.Printf("cursor marshal error: %v", err)
		return
	}
	ct.dirty = false
	ct.mu.Unlock()

	tmp := ct.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		log.Printf("cursor write error: %v", err)
		ct.mu.Lock()
		ct.dirty = true
		ct.mu.Unlock()
		return
	}
	if err := os.Rename(tmp, ct.path); err != nil {
		log.Printf("cursor rename error: %v", err)
		ct.mu.Lock()
		ct.dirty = true
		ct.mu.Unlock()
	}
}

// Done marks the import finished.
func (ct *cursorTracker) Done() {
	ct.mu.Lock()
	ct.cursor.Done = true
	ct.cursor.UpdatedAt = time.Now()
	ct.dirty = true
	ct.mu.Unlock()
	ct.forceSave()
}

// Reset clears the cursor to start from scratch.
func (ct *cursorTracker) Reset() {
	ct.mu.Lock()
	ct.cursor = Cursor{}
	ct.dirty = true
	ct.mu.Unlock()
	ct.forceSave()
}
