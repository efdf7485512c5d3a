// Streaming NDJSON reader with skip support for resume.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// maxLineBytes bounds one NDJSON line; page texts make records large.
const maxLineBytes = 16 << 20

// recordCallback is invoked per record. seq is the global record number.
// Returning false stops the read.
type recordCallback func(rec *archiveRecord, seq int) bool

// ndjsonReader reads archive records from a newline-delimited JSON file.
type ndjsonReader struct {
	path string
}

func newNDJSONReader(path string) (*ndjsonReader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("input %s is a directory", path)
	}
	return &ndjsonReader{path: path}, nil
}

// Read streams records starting at offset. maxRecords=0 means no limit.
// Skipped records are not parsed. A malformed line stops the read: the
// input file is broken, not the pipeline.
func (r *ndjsonReader) Read(offset, maxRecords int, cb recordCallback) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64<<10), maxLineBytes)

	seq := 0
	read := 0
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if seq < offset {
			seq++
			continue
		}

		var rec archiveRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("line %d: %w", seq+1, err)
		}
		if !cb(&rec, seq) {
			return nil
		}
		seq++
		read++

		if maxRecords > 0 && read >= maxRecords {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input at record %d: %w", seq+1, err)
	}
	return nil
}
