package export

import (
	"fmt"
	"math/rand"
)

// palette holds the fixed fills assigned to clusters in order. Sheets with
// more clusters than fills get random light colors for the overflow.
var palette = []string{
	"FFE6E6", "E6F3FF", "E6FFE6", "FFF0E6", "F0E6FF",
	"FFFFE6", "FFE6F0", "E6FFFF", "F0FFE6", "FFE6CC",
	"E6E6FF", "CCFFE6", "FFE6B3", "E6CCFF", "B3FFE6",
	"FFB3E6", "B3E6FF", "E6FFB3", "FFB3CC", "CCFFB3",
	"FFD700", "FFB6C1", "98FB98", "DDA0DD", "F0E68C",
	"FFA07A", "20B2AA", "FFE4B5", "D3D3D3", "F5DEB3",
}

// GenerateColors returns n hex fill colors, the fixed palette first and
// random pastels past it.
func GenerateColors(n int) []string {
	if n <= len(palette) {
		return palette[:n]
	}
	out := make([]string, 0, n)
	out = append(out, palette...)
	for i := len(palette); i < n; i++ {
		out = append(out, fmt.Sprintf("%02X%02X%02X",
			200+rand.Intn(56), 200+rand.Intn(56), 200+rand.Intn(56)))
	}
	return out
}
