package display_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/robertof/go-parasite-monitor/display"
)

func TestFrame_DrawRow(t *testing.T) {
	var f display.Frame

	for row, text := range map[int]string{0: "header", 1: "summary", 3: "reading"} {
		if err := f.DrawRow(row, text); err != nil {
			t.Fatalf("DrawRow(%d, %q) got error: %v", row, text, err)
		}
	}

	want := []string{"header", "summary", "", "reading"}

	if got := f.Rows(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Rows(): got %q, wanted %q", got, want)
	}

	if err := f.DrawRow(3, ""); err != nil {
		t.Fatalf("DrawRow() got error: %v", err)
	}

	if got, want := f.String(), "header\nsummary\n"; got != want {
		t.Fatalf("String(): got %q, wanted %q", got, want)
	}

	if err := f.DrawRow(-1, "x"); err == nil {
		t.Fatalf("DrawRow(-1) should fail")
	}
}

func TestTerminal_Plain(t *testing.T) {
	var buf bytes.Buffer
	term := display.NewTerminalWriter(&buf, false)

	_ = term.Clear()
	_ = term.DrawRow(0, "first")
	_ = term.DrawRow(5, "")
	_ = term.DrawRow(2, "second")

	if got, want := buf.String(), "first\nsecond\n"; got != want {
		t.Fatalf("plain output: got %q, wanted %q", got, want)
	}
}

func TestTerminal_ANSI(t *testing.T) {
	var buf bytes.Buffer
	term := display.NewTerminalWriter(&buf, true)

	_ = term.DrawRow(2, "hello")

	if got, want := buf.String(), "\x1b7\x1b[3;1H\x1b[2Khello\x1b8"; got != want {
		t.Fatalf("ansi output: got %q, wanted %q", got, want)
	}
}

type failingSink struct{}

func (failingSink) DrawRow(int, string) error {
	return errors.New("boom")
}

func TestTee(t *testing.T) {
	var a, b display.Frame

	if err := display.Tee(&a, &b).DrawRow(0, "x"); err != nil {
		t.Fatalf("DrawRow() got error: %v", err)
	}

	if a.String() != "x\n" || b.String() != "x\n" {
		t.Fatalf("Tee did not draw on every sink: %q %q", a.String(), b.String())
	}

	var c display.Frame

	if err := display.Tee(failingSink{}, &c).DrawRow(0, "y"); err == nil {
		t.Fatalf("DrawRow() should report the failing sink")
	}

	if c.String() != "y\n" {
		t.Fatalf("Tee should keep drawing after a failing sink, got %q", c.String())
	}
}
