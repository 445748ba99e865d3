package display

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Terminal draws rows on a terminal using ANSI cursor addressing. When the output is not a
// terminal, non-empty rows are written as plain lines instead.
type Terminal struct {
	mu   sync.Mutex
	out  io.Writer
	ansi bool
}

func NewTerminal(f *os.File) *Terminal {
	ansi := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())

	return NewTerminalWriter(colorable.NewColorable(f), ansi)
}

func NewTerminalWriter(w io.Writer, ansi bool) *Terminal {
	return &Terminal{
		out:  w,
		ansi: ansi,
	}
}

func (t *Terminal) ANSI() bool {
	return t.ansi
}

// Clear wipes the screen. No-op on plain output.
func (t *Terminal) Clear() error {
	if !t.ansi {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := io.WriteString(t.out, "\x1b[2J\x1b[H")

	return err
}

func (t *Terminal) DrawRow(row int, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ansi {
		if text == "" {
			return nil
		}

		_, err := fmt.Fprintln(t.out, text)
		return err
	}

	// save cursor, jump to the row, clear it, draw, restore cursor.
	_, err := fmt.Fprintf(t.out, "\x1b7\x1b[%d;1H\x1b[2K%s\x1b8", row+1, text)

	return err
}
