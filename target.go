package barline

import (
	"sync"
	"time"

	"github.com/jatill/barline/term"
)

// Alignment is where a Multi's bar block sits when it shrinks: pinned to
// the top (new blank space appears below) or hugging the bottom (blank
// lines are inserted above to keep the block anchored).
type Alignment int

const (
	AlignTop Alignment = iota
	AlignBottom
)

// Frame is a complete replacement for the currently displayed block.
type Frame struct {
	Lines       []string
	OrphanLines int
	Force       bool
}

// drawTarget is where a Bar or Multi sends its rendered frames: straight
// to a terminal, or forwarded into a shared Multi's slot.
type drawTarget interface {
	apply(f Frame) error
	isHidden() bool
	width() int
}

// directTarget owns the one code path that actually writes to a
// terminal. Every other mutator in the core only ever publishes state;
// this is the single writer.
type directTarget struct {
	mu            sync.Mutex
	term          term.Terminal
	bucket        *leakyBucket
	lastLineCount int
	alignment     Alignment
	moveCursor    bool
}

func newDirectTarget(t term.Terminal, bucket *leakyBucket) *directTarget {
	return &directTarget{term: t, bucket: bucket}
}

func (d *directTarget) isHidden() bool { return !d.term.IsTerminal() }
func (d *directTarget) width() int     { return d.term.Width() }

func (d *directTarget) setAlignment(a Alignment) {
	d.mu.Lock()
	d.alignment = a
	d.mu.Unlock()
}

func (d *directTarget) setMoveCursor(v bool) {
	d.mu.Lock()
	d.moveCursor = v
	d.mu.Unlock()
}

func (d *directTarget) apply(f Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.term.IsTerminal() {
		return nil
	}

	admitted := f.Force
	if !admitted {
		if d.bucket != nil {
			admitted = d.bucket.tryAdmit(time.Now())
		} else {
			admitted = true
		}
	}
	if !admitted {
		return nil
	}

	if d.moveCursor && len(f.Lines) > 0 && d.lastLineCount > 0 {
		if err := d.term.CursorUp(d.lastLineCount); err != nil {
			return err
		}
	} else if d.lastLineCount > 0 {
		if err := d.clearPrevious(); err != nil {
			return err
		}
	}

	contentLines := len(f.Lines) - f.OrphanLines
	bottomShift := 0
	if d.alignment == AlignBottom && len(f.Lines) < d.lastLineCount {
		bottomShift = d.lastLineCount - len(f.Lines)
	}
	for i := 0; i < bottomShift; i++ {
		if err := d.term.WriteLine(""); err != nil {
			return err
		}
	}

	for i, line := range f.Lines {
		var err error
		if i == len(f.Lines)-1 {
			err = d.term.WriteString(line + " ")
		} else {
			err = d.term.WriteLine(line)
		}
		if err != nil {
			return err
		}
	}
	if err := d.term.Flush(); err != nil {
		return err
	}
	d.lastLineCount = contentLines + bottomShift
	return nil
}

// clearPrevious erases the lines the last frame occupied, from the
// bottom up, ending with the cursor back at column 0 of the top line.
func (d *directTarget) clearPrevious() error {
	for i := 0; i < d.lastLineCount; i++ {
		if err := d.term.ClearLine(); err != nil {
			return err
		}
		if i < d.lastLineCount-1 {
			if err := d.term.CursorUp(1); err != nil {
				return err
			}
		}
	}
	return nil
}

// remoteTarget forwards a frame into a shared Multi's slot rather than
// writing directly; the Multi recomposes and draws the combined block.
type remoteTarget struct {
	multi *Multi
	slot  int
}

func (r *remoteTarget) isHidden() bool { return r.multi.isHidden() }
func (r *remoteTarget) width() int     { return r.multi.width() }

func (r *remoteTarget) apply(f Frame) error {
	r.multi.storeSlot(r.slot, f.Lines)
	return r.multi.composeAndDraw(f.Force)
}

// hiddenTarget discards every frame.
type hiddenTarget struct{}

func (hiddenTarget) apply(Frame) error { return nil }
func (hiddenTarget) isHidden() bool    { return true }
func (hiddenTarget) width() int        { return 0 }
