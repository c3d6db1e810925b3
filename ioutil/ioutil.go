// Package ioutil adapts byte streams to a bar: thin Reader/Writer
// wrappers that forward counts into Inc/SetPosition and trigger the
// bar's configured finish policy on exhaustion.
package ioutil

import "io"

// barLike is the sliver of *barline.Bar this package needs; defined here
// instead of importing barline directly so these wrappers have no
// dependency on the core package's internals beyond its public surface.
type barLike interface {
	Inc(delta uint64) error
	SetPosition(pos uint64) error
	FinishUsingStyle() error
}

// Reader wraps r, incrementing bar by every byte successfully read and
// invoking bar's finish policy once r is exhausted.
type Reader struct {
	r    io.Reader
	bar  barLike
	done bool
}

// NewReader wraps r so every Read advances bar.
func NewReader(r io.Reader, bar barLike) *Reader {
	return &Reader{r: r, bar: bar}
}

func (w *Reader) Read(p []byte) (int, error) {
	n, err := w.r.Read(p)
	if n > 0 {
		w.bar.Inc(uint64(n))
	}
	if err == io.EOF && !w.done {
		w.done = true
		w.bar.FinishUsingStyle()
	}
	return n, err
}

// Writer wraps w, incrementing bar by every byte successfully written.
type Writer struct {
	w   io.Writer
	bar barLike
}

// NewWriter wraps w so every Write advances bar.
func NewWriter(w io.Writer, bar barLike) *Writer {
	return &Writer{w: w, bar: bar}
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	if n > 0 {
		w.bar.Inc(uint64(n))
	}
	return n, err
}

// Close finishes bar using its configured policy, then closes the
// underlying writer if it is an io.Closer.
func (w *Writer) Close() error {
	w.bar.FinishUsingStyle()
	if c, ok := w.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
