package roadmap

import (
	"fmt"
	"math"
	"strconv"
)

// BrandColors is the fixed palette used before falling back to generated hues.
var BrandColors = []string{
	"#3B82F6", // blue
	"#10B981", // emerald
	"#F59E0B", // amber
	"#EF4444", // red
	"#8B5CF6", // violet
	"#EC4899", // pink
	"#06B6D4", // cyan
	"#84CC16", // lime
}

const goldenAngle = 137.5

// GenerateColors returns n colours: the brand palette first, then hues
// spaced by the golden angle.
func GenerateColors(n int) []string {
	if n <= 0 {
		return []string{}
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if i < len(BrandColors) {
			out = append(out, BrandColors[i])
			continue
		}
		hue := math.Mod(float64(i)*goldenAngle, 360)
		out = append(out, fmt.Sprintf("hsl(%s, 70%%, 50%%)", strconv.FormatFloat(hue, 'f', -1, 64)))
	}
	return out
}

// ResolveColors uses the caller's colours first and fills the rest from GenerateColors.
func ResolveColors(n int, custom []string) []string {
	palette := GenerateColors(n)
	for i := 0; i < n && i < len(custom); i++ {
		if custom[i] != "" {
			palette[i] = custom[i]
		}
	}
	return palette
}
