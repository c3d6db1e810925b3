package term

import (
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/jatill/barline/cwriter"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Real writes to an actual terminal (or a file/pipe pretending to be one),
// buffering output through cwriter.Writer.
type Real struct {
	cw *cwriter.Writer
	fd int
}

// fder exposes the file descriptor a size query needs; *os.File satisfies
// it, matching cwriter's own detection.
type fder interface {
	Fd() uintptr
}

// NewReal wraps out (typically os.Stdout or os.Stderr) as a Terminal.
func NewReal(out io.Writer) *Real {
	r := &Real{cw: cwriter.New(out), fd: -1}
	if f, ok := out.(fder); ok {
		r.fd = int(f.Fd())
	}
	return r
}

func (r *Real) Width() int {
	w, _ := r.size()
	return w
}

func (r *Real) Height() int {
	_, h := r.size()
	return h
}

func (r *Real) size() (int, int) {
	if r.fd >= 0 {
		if w, h, err := term.GetSize(r.fd); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	return defaultWidth, defaultHeight
}

func (r *Real) CursorUp(n int) error   { return r.cw.CursorUp(n) }
func (r *Real) CursorDown(n int) error { return r.cw.CursorDown(n) }

func (r *Real) CursorLeft(n int) error {
	if n <= 0 {
		return nil
	}
	return r.cw.WriteString(fmt.Sprintf("\x1b[%dD", n))
}

func (r *Real) CursorRight(n int) error {
	if n <= 0 {
		return nil
	}
	return r.cw.WriteString(fmt.Sprintf("\x1b[%dC", n))
}

func (r *Real) ClearLine() error           { return r.cw.ClearLine() }
func (r *Real) WriteLine(s string) error   { return r.cw.WriteLine(s) }
func (r *Real) WriteString(s string) error { return r.cw.WriteString(s) }
func (r *Real) Flush() error               { return r.cw.Flush() }
func (r *Real) IsTerminal() bool           { return r.cw.IsTerminal() }
