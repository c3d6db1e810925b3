// Package logadapter routes log output through a Multi's orphan-line
// queue, so log lines interleave cleanly above the bar block instead of
// tearing through it.
package logadapter

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// multiLike is the sliver of *barline.Multi this package needs.
type multiLike interface {
	Println(line string) error
}

// Hook is a logrus.Hook that prints every formatted entry through a
// Multi's Println, rather than letting logrus write it directly to
// stderr where it would corrupt the bar block.
type Hook struct {
	multi multiLike
}

// NewHook wraps multi as a logrus hook.
func NewHook(multi multiLike) *Hook {
	return &Hook{multi: multi}
}

func (h *Hook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *Hook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	return h.multi.Println(strings.TrimRight(line, "\n"))
}

// Writer adapts a Multi to io.Writer, splitting writes on newlines so
// each becomes its own orphan line; a trailing partial line without a
// newline is buffered until completed.
type Writer struct {
	multi multiLike
	buf   strings.Builder
}

// NewWriter wraps multi as an io.Writer.
func NewWriter(multi multiLike) *Writer {
	return &Writer{multi: multi}
}

func (w *Writer) Write(p []byte) (int, error) {
	w.buf.Write(p)
	full := w.buf.String()
	lines := strings.Split(full, "\n")
	w.buf.Reset()
	w.buf.WriteString(lines[len(lines)-1])
	for _, line := range lines[:len(lines)-1] {
		if err := w.multi.Println(line); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
