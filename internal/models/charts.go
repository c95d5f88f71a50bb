package models

type BarPoint struct {
	SalesQtyCode float64 `json:"sales_qty_code"`
	DiscountSum  float64 `json:"discount_sum"`
	Count        int     `json:"count"`
}

type BarSeries struct {
	Season string     `json:"season"`
	Points []BarPoint `json:"points"`
}

// BarAggregate feeds the grouped bar chart: normalized discount by sales code, one series per season.
type BarAggregate struct {
	Series []BarSeries `json:"series"`
}

type HistogramSeries struct {
	Season  string    `json:"season"`
	Weights []float64 `json:"weights"`
}

// HistogramAggregate holds rating bins shared by every season series.
// len(Edges) == bins+1 and every series has one weight per bin.
type HistogramAggregate struct {
	Edges  []float64         `json:"edges"`
	Series []HistogramSeries `json:"series"`
}

type ScatterPoint struct {
	Discount     float64 `json:"discount"`
	SalesQtyCode float64 `json:"sales_qty_code"`
	Season       string  `json:"season"`
}

type ScatterAggregate struct {
	Points []ScatterPoint `json:"points"`
}

type WeightedPoint struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Weight float64 `json:"weight"`
}

// Grid is a 2D binning. Cells is indexed [y][x].
type Grid struct {
	XEdges []float64   `json:"x_edges"`
	YEdges []float64   `json:"y_edges"`
	Cells  [][]float64 `json:"cells"`
}

// DensityAggregate pairs price with rating, weighted by discount.
type DensityAggregate struct {
	Points []WeightedPoint `json:"points"`
	Grid   Grid            `json:"grid"`
}

type ProportionSlice struct {
	Season   string  `json:"season"`
	SalesQty float64 `json:"sales_qty"`
}

type ProportionAggregate struct {
	Slices []ProportionSlice `json:"slices"`
	Total  float64           `json:"total"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ContourAggregate pairs price with sales code; Grid counts rows per cell.
type ContourAggregate struct {
	Points []Point `json:"points"`
	Grid   Grid    `json:"grid"`
}

// ChartSet is everything the dashboard redraws after a filter change.
type ChartSet struct {
	Selection  []string            `json:"selection"`
	Rows       int                 `json:"rows"`
	Bar        BarAggregate        `json:"bar"`
	Histogram  HistogramAggregate  `json:"histogram"`
	Scatter    ScatterAggregate    `json:"scatter"`
	Density    DensityAggregate    `json:"density"`
	Proportion ProportionAggregate `json:"proportion"`
	Contour    ContourAggregate    `json:"contour"`
}

// Chart returns the aggregate for kind, or nil when kind is unknown.
func (c *ChartSet) Chart(kind ChartKind) any {
	switch kind {
	case ChartBar:
		return c.Bar
	case ChartHistogram:
		return c.Histogram
	case ChartScatter:
		return c.Scatter
	case ChartDensity:
		return c.Density
	case ChartProportion:
		return c.Proportion
	case ChartContour:
		return c.Contour
	default:
		return nil
	}
}

type CategoryList struct {
	Seasons []string `json:"seasons"`
	Default []string `json:"default"`
}
