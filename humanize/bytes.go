// Package humanize renders byte counts, rates and durations the way a
// terminal progress display wants them: compact, fixed-ish width, and
// legible at a glance rather than exact.
package humanize

import "fmt"

const (
	_   = iota
	kib = 1 << (iota * 10)
	mib
	gib
	tib
)

const (
	kb = 1000
	mb = kb * 1000
	gb = mb * 1000
	tb = gb * 1000
)

// round avoids "%.1f" rounding 9.9999 up to "10.0" by pre-snapping to the
// nearest unit.
func round(x, unit float64) float64 {
	return float64(int64(x/unit+0.5)) * unit
}

func scaled(f float64, ext string) string {
	if round(f, 0.1) >= 10 {
		return fmt.Sprintf("%.0f%s", f, ext)
	}
	return fmt.Sprintf("%.1f%s", f, ext)
}

// BinaryBytes formats n using KiB/MiB/GiB/TiB (1024-based) units.
func BinaryBytes(n uint64) string {
	f := float64(n)
	switch {
	case f >= tib:
		return scaled(f/tib, "TiB")
	case f >= gib:
		return scaled(f/gib, "GiB")
	case f >= mib:
		return scaled(f/mib, "MiB")
	case f >= kib:
		return scaled(f/kib, "KiB")
	default:
		return fmt.Sprintf("%dB", n)
	}
}

// DecimalBytes formats n using kB/MB/GB/TB (1000-based) units.
func DecimalBytes(n uint64) string {
	f := float64(n)
	switch {
	case f >= tb:
		return scaled(f/tb, "TB")
	case f >= gb:
		return scaled(f/gb, "GB")
	case f >= mb:
		return scaled(f/mb, "MB")
	case f >= kb:
		return scaled(f/kb, "kB")
	default:
		return fmt.Sprintf("%dB", n)
	}
}

// Bytes is the default byte formatter used by the `bytes`/`total_bytes`
// template keys: binary units.
func Bytes(n uint64) string { return BinaryBytes(n) }

// Count renders a plain integer with decimal-scale suffixes (k/M/G/T),
// used by the `human_pos`/`human_len` template keys.
func Count(n uint64) string {
	f := float64(n)
	switch {
	case f >= tb:
		return scaled(f/tb, "T")
	case f >= gb:
		return scaled(f/gb, "G")
	case f >= mb:
		return scaled(f/mb, "M")
	case f >= kb:
		return scaled(f/kb, "k")
	default:
		return fmt.Sprintf("%d", n)
	}
}
