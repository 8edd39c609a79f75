package analysis

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/cymatics/internal/chladni"
)

// Grids are indexed [row][col] with row 0 at y = +1 and col 0 at x = -1.

// Density bins particle x, y into a bins×bins histogram normalised so the
// cells sum to 1.
func Density(positions []float64, bins int) [][]float64 {
	if bins <= 0 {
		return nil
	}
	grid := newGrid(bins, bins)
	n := len(positions) / chladni.Stride
	if n == 0 {
		return grid
	}

	w := 1 / float64(n)
	for i := 0; i < len(positions); i += chladni.Stride {
		col := cell(positions[i], bins)
		row := bins - 1 - cell(positions[i+1], bins)
		grid[row][col] += w
	}
	return grid
}

// FieldGrid samples |mean field| at cell centres.
func FieldGrid(modes []chladni.Mode, c chladni.Coefficients, w, h int) [][]float64 {
	if w <= 0 || h <= 0 {
		return nil
	}
	grid := newGrid(w, h)
	for row := 0; row < h; row++ {
		y := 1 - (float64(row)+0.5)/float64(h)*2
		for col := 0; col < w; col++ {
			x := (float64(col)+0.5)/float64(w)*2 - 1
			grid[row][col] = math.Abs(chladni.MeanValue(x, y, c, modes))
		}
	}
	return grid
}

// NodalCorrelation is the Pearson correlation between |field| at each
// particle and its lift. It returns 0 when either side has no variance.
func NodalCorrelation(positions []float64, modes []chladni.Mode, c chladni.Coefficients) float64 {
	n := len(positions) / chladni.Stride
	if n < 2 || len(modes) == 0 {
		return 0
	}

	field := make([]float64, n)
	lift := make([]float64, n)
	for i := 0; i < n; i++ {
		j := i * chladni.Stride
		field[i] = math.Abs(chladni.MeanValue(positions[j], positions[j+1], c, modes))
		lift[i] = positions[j+2]
	}

	r := stat.Correlation(field, lift, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

const shades = " .:-=+*#%@"

// GridToASCII shades each cell relative to the grid maximum.
func GridToASCII(grid [][]float64) string {
	if len(grid) == 0 {
		return ""
	}

	peak := 0.0
	for _, row := range grid {
		if len(row) > 0 {
			peak = math.Max(peak, floats.Max(row))
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		for _, v := range row {
			idx := 0
			if peak > 0 {
				idx = int(v / peak * float64(len(shades)-1))
			}
			sb.WriteByte(shades[idx])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func newGrid(w, h int) [][]float64 {
	grid := make([][]float64, h)
	for i := range grid {
		grid[i] = make([]float64, w)
	}
	return grid
}

func cell(v float64, bins int) int {
	i := int((v + 1) / 2 * float64(bins))
	if i >= bins {
		i = bins - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
