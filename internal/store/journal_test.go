package store

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestJournal_AppendAndWriteTo(t *testing.T) {
	j := NewJournal()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := j.Append("order_submitted", at, map[string]int{"ref": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := j.Append("notification", at.Add(time.Hour), map[string]int{"ref": 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", j.Len())
	}

	var buf bytes.Buffer
	n, err := j.WriteTo(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var first journalEntry
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 1 is not valid JSON: %v", err)
	}
	if first.Kind != "order_submitted" {
		t.Errorf("expected kind order_submitted, got %s", first.Kind)
	}
	if !first.At.Equal(at) {
		t.Errorf("expected at %v, got %v", at, first.At)
	}
}

func TestJournal_AppendRejectsUnencodable(t *testing.T) {
	j := NewJournal()
	if err := j.Append("bad", time.Now(), make(chan int)); err == nil {
		t.Fatal("expected an encoding error")
	}
	if j.Len() != 0 {
		t.Errorf("failed append must not add an entry, got %d", j.Len())
	}
}
