package game

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// statusText builds the bottom status line.
func statusText(status string, busyFor time.Duration, reply string, err error) string {
	var b strings.Builder
	b.WriteString(status)
	if busyFor > 0 {
		b.WriteString(" ")
		b.WriteString(formatDuration(busyFor))
	}
	if reply != "" {
		b.WriteString(" | reply: ")
		b.WriteString(filepath.Base(reply))
	} else {
		b.WriteString(" | no reply file (O)")
	}
	if err != nil {
		b.WriteString(" | Error: ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// wrapText breaks text into lines of at most width characters, splitting on spaces and
// cutting words that are longer than a line.
func wrapText(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	var line []rune
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > width {
			if len(line) > 0 {
				lines = append(lines, string(line))
				line = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(w) == 0:
		case len(line) == 0:
			line = w
		case len(line)+1+len(w) <= width:
			line = append(append(line, ' '), w...)
		default:
			lines = append(lines, string(line))
			line = w
		}
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}
