// Package cwriter is a small buffered ANSI cursor-control writer: the
// low-level sink the terminal capability implementations write through.
package cwriter

import (
	"bufio"
	"fmt"
	"io"

	"github.com/mattn/go-isatty"
)

// Writer buffers writes to out and exposes the handful of ANSI cursor
// operations the rest of the core needs (move, clear, flush).
type Writer struct {
	out        io.Writer
	buf        *bufio.Writer
	isTerminal bool
	fd         uintptr
}

type fder interface {
	Fd() uintptr
}

// New wraps out in a buffered ANSI writer, detecting whether it is a
// terminal via its file descriptor when available.
func New(out io.Writer) *Writer {
	w := &Writer{out: out, buf: bufio.NewWriter(out)}
	if f, ok := out.(fder); ok {
		w.fd = f.Fd()
		w.isTerminal = isatty.IsTerminal(w.fd) || isatty.IsCygwinTerminal(w.fd)
	}
	return w
}

// IsTerminal reports whether the wrapped writer is attached to a TTY.
func (w *Writer) IsTerminal() bool { return w.isTerminal }

// WriteString writes s verbatim, with no trailing newline.
func (w *Writer) WriteString(s string) error {
	_, err := w.buf.WriteString(s)
	return err
}

// WriteLine writes s followed by a newline.
func (w *Writer) WriteLine(s string) error {
	if err := w.WriteString(s); err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

// CursorUp moves the cursor up n lines and to column 0.
func (w *Writer) CursorUp(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := fmt.Fprintf(w.buf, "\x1b[%dA\r", n)
	return err
}

// CursorDown moves the cursor down n lines.
func (w *Writer) CursorDown(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := fmt.Fprintf(w.buf, "\x1b[%dB", n)
	return err
}

// ClearLine erases the current line and returns the cursor to column 0.
func (w *Writer) ClearLine() error {
	_, err := w.buf.WriteString("\x1b[2K\r")
	return err
}

// ClearLinesUp clears the current line and the n-1 lines above it,
// moving up one line between clears, leaving the cursor at column 0 of
// the topmost cleared line.
func (w *Writer) ClearLinesUp(n int) error {
	for i := 0; i < n; i++ {
		if err := w.ClearLine(); err != nil {
			return err
		}
		if i < n-1 {
			if _, err := w.buf.WriteString("\x1b[1A"); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}
