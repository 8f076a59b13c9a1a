package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatDuration renders milliseconds as "1h 30m", "2h", "45m" or "0m".
// Seconds are truncated.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	return FormatMinutes(int(ms / 60_000))
}

// FormatMinutes renders a minute count the same way as FormatDuration.
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// FormatClock renders a stopwatch reading as HH:MM:SS. Hours do not wrap.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// DayKey returns the calendar day of t in loc as YYYY-MM-DD.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// DayLabel names the calendar day of t relative to now: "Today",
// "Yesterday", or e.g. "Mon, Jan 2, 2006". Days are compared in now's
// location.
func DayLabel(t, now time.Time) string {
	loc := now.Location()
	day := startOfDay(t.In(loc))
	today := startOfDay(now)

	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return day.Format("Mon, Jan 2, 2006")
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ContrastColor picks black or white text for a "#rrggbb" background.
// Unparseable colors get white.
func ContrastColor(hex string) string {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "#ffffff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "#ffffff"
	}
	r, g, b := float64(v>>16&0xff), float64(v>>8&0xff), float64(v&0xff)
	if (0.299*r+0.587*g+0.114*b)/255 > 0.5 {
		return "#000000"
	}
	return "#ffffff"
}
