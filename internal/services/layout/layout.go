// Package layout maps semantic layout props to utility CSS classes.
package layout

import (
	"fmt"
	"strings"
)

var spacing = map[string]string{
	"tight":   "space-y-2",
	"normal":  "space-y-4",
	"relaxed": "space-y-6",
	"loose":   "space-y-8",
}

var gaps = map[string]string{
	"tight":   "gap-2",
	"normal":  "gap-4",
	"relaxed": "gap-6",
	"loose":   "gap-8",
}

var cards = map[string]string{
	"default":   "card rounded-lg border bg-white p-6 shadow-sm",
	"muted":     "card rounded-lg bg-slate-50 p-6",
	"highlight": "card rounded-lg border-2 border-blue-500 bg-blue-50 p-6",
	"metric":    "card metric rounded-lg border bg-white p-4 text-center",
}

// Spacing returns the vertical rhythm class; unknown values fall back to normal.
func Spacing(s string) string {
	if c, ok := spacing[s]; ok {
		return c
	}
	return spacing["normal"]
}

// Grid returns responsive grid classes. Columns are clamped to [1, 6].
func Grid(columns int, gap string) string {
	if columns < 1 {
		columns = 1
	}
	if columns > 6 {
		columns = 6
	}
	g, ok := gaps[gap]
	if !ok {
		g = gaps["normal"]
	}
	if columns == 1 {
		return Join("grid grid-cols-1", g)
	}
	return Join("grid grid-cols-1", fmt.Sprintf("md:grid-cols-%d", columns), g)
}

func Card(variant string) string {
	if c, ok := cards[variant]; ok {
		return c
	}
	return cards["default"]
}

// Join concatenates non-empty class lists.
func Join(classes ...string) string {
	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}
