package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bench-prog/barsim/internal/domain"
	"github.com/bench-prog/barsim/internal/engine"
)

// BarResult pairs one processed bar with the notifications it produced.
// Notifications are drained once per bar, after matching completes.
type BarResult struct {
	Symbol        string                `json:"symbol"`
	Timestamp     time.Time             `json:"timestamp"`
	Notifications []engine.Notification `json:"notifications"`
}

// ProcessBars feeds bars to the session's broker in order, draining and
// journaling notifications after each. A malformed bar stops the run:
// bars before it are applied, the error is returned, and no further
// bars are processed.
func (s *SessionService) ProcessBars(sessionID string, bars []domain.Bar) ([]BarResult, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, &domain.ValidationError{Message: "at least one bar is required"}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	results := make([]BarResult, 0, len(bars))
	for _, bar := range bars {
		if err := sess.broker.ProcessBar(bar); err != nil {
			return results, err
		}
		notes := sess.broker.Notifications()
		for _, n := range notes {
			_ = sess.journal.Append("notification", bar.Timestamp, n)
		}
		results = append(results, BarResult{
			Symbol:        bar.Symbol,
			Timestamp:     bar.Timestamp,
			Notifications: notes,
		})
		sess.broadcast(notes)
	}
	return results, nil
}

// csvHeader is the required column order for CSV bar uploads.
var csvHeader = []string{"symbol", "timestamp", "open", "high", "low", "close", "volume"}

// ParseBarsCSV reads bars from CSV with the header
// symbol,timestamp,open,high,low,close,volume. Timestamps are RFC 3339.
// Parsing is strict: any short, extra, or malformed field fails the
// whole upload before any bar is applied.
func ParseBarsCSV(r io.Reader) ([]domain.Bar, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &domain.ValidationError{Message: "csv body is empty"}
	}
	if len(header) != len(csvHeader) {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("csv header must be %s", strings.Join(csvHeader, ","))}
	}
	for i, col := range csvHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != col {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("csv header must be %s", strings.Join(csvHeader, ","))}
		}
	}

	var bars []domain.Bar
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("csv line %d: %v", line, err)}
		}

		ts, err := time.Parse(time.RFC3339, record[1])
		if err != nil {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("csv line %d: timestamp must be RFC 3339", line)}
		}

		fields := make([]float64, 5)
		for i, name := range []string{"open", "high", "low", "close", "volume"} {
			v, err := strconv.ParseFloat(record[i+2], 64)
			if err != nil {
				return nil, &domain.ValidationError{Message: fmt.Sprintf("csv line %d: %s must be numeric", line, name)}
			}
			fields[i] = v
		}

		bars = append(bars, domain.Bar{
			Symbol:    record[0],
			Timestamp: ts,
			Open:      fields[0],
			High:      fields[1],
			Low:       fields[2],
			Close:     fields[3],
			Volume:    fields[4],
		})
	}
	if len(bars) == 0 {
		return nil, &domain.ValidationError{Message: "csv body contains no bars"}
	}
	return bars, nil
}
