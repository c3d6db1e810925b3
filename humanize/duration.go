package humanize

import (
	"fmt"
	"time"
)

// Duration renders a human-scale approximation of d: coarse units the
// further out d reaches, so an ETA doesn't flicker between 3601 distinct
// second values as it counts down.
func Duration(d time.Duration) string {
	switch {
	case d == 0:
		return "0s"
	case d > 13*7*24*time.Hour:
		return ">13w"
	case d > 7*24*time.Hour:
		hours := int(d.Round(time.Hour).Hours())
		days := hours / 24
		weeks := days / 7
		days %= 7
		if days > 0 {
			return fmt.Sprintf("%dw %dd", weeks, days)
		}
		return fmt.Sprintf("%dw", weeks)
	case d > 24*time.Hour:
		hours := int(d.Round(time.Hour).Hours())
		days := hours / 24
		hours %= 24
		if hours > 0 {
			return fmt.Sprintf("%dd %dh", days, hours)
		}
		return fmt.Sprintf("%dd", days)
	case d > time.Hour:
		return d.Round(time.Minute).String()
	case d > time.Minute:
		return d.Round(time.Second).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}

// PreciseDuration rounds d to whole seconds and renders it as H:MM:SS,
// or as MM:SS when under an hour.
func PreciseDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
