package charts

import (
	"github.com/shopspring/decimal"

	"season-dashboard/internal/models"
)

const edgePrecision = 6

// bins is an equal-width partition of [lo, lo+n*width]. The last bin is closed.
type bins struct {
	lo    float64
	width float64
	n     int
}

func newBins(lo, hi float64, n int) bins {
	if n < 1 {
		n = 1
	}
	if lo == hi {
		return bins{lo: lo - 0.5, width: 1, n: 1}
	}
	return bins{lo: lo, width: (hi - lo) / float64(n), n: n}
}

func (b bins) index(v float64) int {
	i := int((v - b.lo) / b.width)
	if i < 0 {
		return 0
	}
	if i >= b.n {
		return b.n - 1
	}
	return i
}

func (b bins) edges() []float64 {
	edges := make([]float64, b.n+1)
	for i := range edges {
		edges[i] = roundEdge(b.lo + float64(i)*b.width)
	}
	return edges
}

func roundEdge(v float64) float64 {
	return decimal.NewFromFloat(v).Round(edgePrecision).InexactFloat64()
}

func bounds(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func emptyGrid() models.Grid {
	return models.Grid{
		XEdges: []float64{},
		YEdges: []float64{},
		Cells:  [][]float64{},
	}
}

// binGrid sums weights into an n x n grid spanning the points' bounding box.
func binGrid(xs, ys, weights []float64, n int) models.Grid {
	if len(xs) == 0 {
		return emptyGrid()
	}

	xMin, xMax := bounds(xs)
	yMin, yMax := bounds(ys)
	xb := newBins(xMin, xMax, n)
	yb := newBins(yMin, yMax, n)

	cells := make([][]float64, yb.n)
	for i := range cells {
		cells[i] = make([]float64, xb.n)
	}
	for i := range xs {
		cells[yb.index(ys[i])][xb.index(xs[i])] += weights[i]
	}

	return models.Grid{
		XEdges: xb.edges(),
		YEdges: yb.edges(),
		Cells:  cells,
	}
}
