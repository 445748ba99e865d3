package display

import (
	"errors"
	"strings"
	"sync"
)

const (
	RowHeader = 0
	RowSummary = 1
	RowFirstReading = 2
)

// Sink renders one line of text at a given row, replacing whatever was there.
type Sink interface {
	DrawRow(row int, text string) error
}

// Frame keeps the last text drawn on every row in memory.
type Frame struct {
	mu   sync.RWMutex
	rows []string
}

func (f *Frame) DrawRow(row int, text string) error {
	if row < 0 {
		return errors.New("negative row")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.rows) <= row {
		f.rows = append(f.rows, "")
	}

	f.rows[row] = text

	// blank trailing rows are dropped so the frame shrinks with the display.
	for len(f.rows) > 0 && f.rows[len(f.rows)-1] == "" {
		f.rows = f.rows[:len(f.rows)-1]
	}

	return nil
}

func (f *Frame) Rows() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]string, len(f.rows))
	copy(out, f.rows)

	return out
}

func (f *Frame) String() string {
	rows := f.Rows()

	if len(rows) == 0 {
		return ""
	}

	return strings.Join(rows, "\n") + "\n"
}

type tee []Sink

// Tee draws every row on all sinks. Errors from all of them are joined.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

func (t tee) DrawRow(row int, text string) error {
	var errs []error

	for _, s := range t {
		if err := s.DrawRow(row, text); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
