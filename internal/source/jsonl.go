package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"pairscope/internal/model"
)

// JSONLSource reads decoded event records from a JSONL file, one record per
// line. The file must already be in (block number, log index) order; the
// source only checks the ordering, it never re-sorts.
type JSONLSource struct {
	file    *os.File
	scanner *bufio.Scanner
	err     error

	lastBlock uint64
	lastIndex uint64
	started   bool
}

func OpenJSONL(path string) (*JSONLSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open events: %w", err)
	}

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	return &JSONLSource{file: file, scanner: scanner}, nil
}

// Next returns the next event record, false at end of stream or on error.
func (s *JSONLSource) Next() (model.EventRecord, bool) {
	if s.err != nil {
		return model.EventRecord{}, false
	}

	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec model.EventRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			s.err = fmt.Errorf("decode event: %w", err)
			return model.EventRecord{}, false
		}

		if s.started {
			if rec.BlockNumber < s.lastBlock ||
				(rec.BlockNumber == s.lastBlock && rec.LogIndex < s.lastIndex) {
				s.err = fmt.Errorf("events out of order at block %d log %d", rec.BlockNumber, rec.LogIndex)
				return model.EventRecord{}, false
			}
		}
		s.started = true
		s.lastBlock = rec.BlockNumber
		s.lastIndex = rec.LogIndex

		return rec, true
	}

	if err := s.scanner.Err(); err != nil {
		s.err = fmt.Errorf("scan events: %w", err)
	}
	return model.EventRecord{}, false
}

// Err reports the first failure encountered while reading.
func (s *JSONLSource) Err() error {
	return s.err
}

// Close closes the underlying file.
func (s *JSONLSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

var _ io.Closer = (*JSONLSource)(nil)
