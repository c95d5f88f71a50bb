package charts

import (
	"cmp"
	"slices"

	"season-dashboard/internal/models"
)

const (
	DefaultHistogramBins = 10
	DefaultGridBins      = 20
)

type Options struct {
	HistogramBins int
	GridBins      int
}

func DefaultOptions() Options {
	return Options{
		HistogramBins: DefaultHistogramBins,
		GridBins:      DefaultGridBins,
	}
}

// Derive computes all six aggregates for view. Selection is left for the caller to fill.
func Derive(view []models.Record, opts Options) models.ChartSet {
	return models.ChartSet{
		Selection:  []string{},
		Rows:       len(view),
		Bar:        Bar(view),
		Histogram:  Histogram(view, opts.HistogramBins),
		Scatter:    Scatter(view),
		Density:    Density(view, opts.GridBins),
		Proportion: Proportion(view),
		Contour:    Contour(view, opts.GridBins),
	}
}

// Bar groups rows by season and sums the normalized discount per sales code.
// Points are ordered by sales code; series follow first-seen season order.
func Bar(view []models.Record) models.BarAggregate {
	seasons := DistinctCategories(view)
	groups := make(map[string]map[float64]*models.BarPoint, len(seasons))
	for _, s := range seasons {
		groups[s] = make(map[float64]*models.BarPoint)
	}

	for _, r := range view {
		p := groups[r.Season][r.SalesQtyCode]
		if p == nil {
			p = &models.BarPoint{SalesQtyCode: r.SalesQtyCode}
			groups[r.Season][r.SalesQtyCode] = p
		}
		p.DiscountSum += r.DiscountNorm
		p.Count++
	}

	series := make([]models.BarSeries, 0, len(seasons))
	for _, s := range seasons {
		points := make([]models.BarPoint, 0, len(groups[s]))
		for _, p := range groups[s] {
			points = append(points, *p)
		}
		slices.SortFunc(points, func(a, b models.BarPoint) int {
			return cmp.Compare(a.SalesQtyCode, b.SalesQtyCode)
		})
		series = append(series, models.BarSeries{Season: s, Points: points})
	}

	return models.BarAggregate{Series: series}
}

// Histogram bins ratings into n equal-width bins shared by all seasons and
// sums the rating counts per bin.
func Histogram(view []models.Record, n int) models.HistogramAggregate {
	if len(view) == 0 {
		return models.HistogramAggregate{
			Edges:  []float64{},
			Series: []models.HistogramSeries{},
		}
	}

	ratings := make([]float64, len(view))
	for i, r := range view {
		ratings[i] = r.Rating
	}
	lo, hi := bounds(ratings)
	b := newBins(lo, hi, n)

	seasons := DistinctCategories(view)
	weights := make(map[string][]float64, len(seasons))
	for _, s := range seasons {
		weights[s] = make([]float64, b.n)
	}
	for _, r := range view {
		weights[r.Season][b.index(r.Rating)] += r.RatingCount
	}

	series := make([]models.HistogramSeries, 0, len(seasons))
	for _, s := range seasons {
		series = append(series, models.HistogramSeries{Season: s, Weights: weights[s]})
	}

	return models.HistogramAggregate{
		Edges:  b.edges(),
		Series: series,
	}
}

func Scatter(view []models.Record) models.ScatterAggregate {
	points := make([]models.ScatterPoint, 0, len(view))
	for _, r := range view {
		points = append(points, models.ScatterPoint{
			Discount:     r.Discount,
			SalesQtyCode: r.SalesQtyCode,
			Season:       r.Season,
		})
	}
	return models.ScatterAggregate{Points: points}
}

// Density pairs price with rating weighted by discount and sums the weights
// on an n x n grid.
func Density(view []models.Record, n int) models.DensityAggregate {
	points := make([]models.WeightedPoint, 0, len(view))
	xs := make([]float64, 0, len(view))
	ys := make([]float64, 0, len(view))
	ws := make([]float64, 0, len(view))
	for _, r := range view {
		points = append(points, models.WeightedPoint{X: r.Price, Y: r.Rating, Weight: r.Discount})
		xs = append(xs, r.Price)
		ys = append(ys, r.Rating)
		ws = append(ws, r.Discount)
	}

	return models.DensityAggregate{
		Points: points,
		Grid:   binGrid(xs, ys, ws, n),
	}
}

// Proportion sums the sales code per season.
func Proportion(view []models.Record) models.ProportionAggregate {
	seasons := DistinctCategories(view)
	sums := make(map[string]float64, len(seasons))
	var total float64
	for _, r := range view {
		sums[r.Season] += r.SalesQtyCode
		total += r.SalesQtyCode
	}

	parts := make([]models.ProportionSlice, 0, len(seasons))
	for _, s := range seasons {
		parts = append(parts, models.ProportionSlice{Season: s, SalesQty: sums[s]})
	}

	return models.ProportionAggregate{Slices: parts, Total: total}
}

// Contour pairs price with sales code and counts rows on an n x n grid.
func Contour(view []models.Record, n int) models.ContourAggregate {
	points := make([]models.Point, 0, len(view))
	xs := make([]float64, 0, len(view))
	ys := make([]float64, 0, len(view))
	ws := make([]float64, 0, len(view))
	for _, r := range view {
		points = append(points, models.Point{X: r.Price, Y: r.SalesQtyCode})
		xs = append(xs, r.Price)
		ys = append(ys, r.SalesQtyCode)
		ws = append(ws, 1)
	}

	return models.ContourAggregate{
		Points: points,
		Grid:   binGrid(xs, ys, ws, n),
	}
}
