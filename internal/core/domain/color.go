package domain

import (
	"fmt"
	"strings"
)

type Color string

const (
	Red    Color = "Red"
	Green  Color = "Green"
	Yellow Color = "Yellow"
	Blue   Color = "Blue"
)

var colors = []Color{Red, Green, Yellow, Blue}

// Colors lists every known color in display order.
func Colors() []Color {
	out := make([]Color, len(colors))
	copy(out, colors)
	return out
}

func (c Color) Valid() bool {
	for _, known := range colors {
		if c == known {
			return true
		}
	}
	return false
}

// ParseColor matches s against the known color names ignoring case.
// An empty string yields an empty color.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, known := range colors {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown color %q", s)
}
