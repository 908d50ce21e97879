package store

import (
	"io"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Journal is an append-only log of order and trade history. Entries are
// encoded at append time so a snapshot is a straight copy of bytes. The
// export is a convenience output, not a durability contract.
type Journal struct {
	mu      sync.Mutex
	entries [][]byte
}

// journalEntry is the envelope written for each record.
type journalEntry struct {
	Kind string      `json:"kind"`
	At   time.Time   `json:"at"`
	Data interface{} `json:"data"`
}

// NewJournal creates an empty Journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Append encodes a record under the given kind and adds it to the log.
// Encoding errors are returned to the caller; nothing is written on error.
func (j *Journal) Append(kind string, at time.Time, data interface{}) error {
	line, err := json.Marshal(journalEntry{Kind: kind, At: at, Data: data})
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, line)
	return nil
}

// Len returns the number of entries in the log.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// WriteTo writes the log as newline-delimited JSON.
func (j *Journal) WriteTo(w io.Writer) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var n int64
	for _, line := range j.entries {
		written, err := w.Write(line)
		n += int64(written)
		if err != nil {
			return n, err
		}
		written, err = w.Write([]byte("\n"))
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
