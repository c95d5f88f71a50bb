// Package render draws the dashboard charts as static SVG images.
package render

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"season-dashboard/internal/models"
)

const (
	Width  = 900
	Height = 520
)

// Vivid qualitative palette.
var seasonColors = []string{
	"e58606", "5d69b1", "52bca3", "99c945", "cc61b0",
	"24796c", "daa51b", "2f8ac4", "764e9f", "ed645a",
}

// Sequential scale for grid intensities, light to dark.
var intensityColors = []string{"c6dbef", "9ecae1", "6baed6", "3182bd", "08519c"}

// palette assigns each selected season a stable colour across charts.
type palette map[string]drawing.Color

func newPalette(seasons []string) palette {
	p := make(palette, len(seasons))
	for i, s := range seasons {
		p[s] = drawing.ColorFromHex(seasonColors[i%len(seasonColors)])
	}
	return p
}

func (p palette) color(season string) drawing.Color {
	if c, ok := p[season]; ok {
		return c
	}
	return drawing.ColorFromHex(seasonColors[len(p)%len(seasonColors)])
}

// SVG renders one chart of set to w. Empty data produces a placeholder image.
func SVG(w io.Writer, set *models.ChartSet, kind models.ChartKind) error {
	if _, ok := models.ParseChartKind(string(kind)); !ok {
		return fmt.Errorf("unknown chart kind %q", kind)
	}
	info := kind.Info()

	colors := newPalette(set.Selection)

	switch kind {
	case models.ChartBar:
		return barChart(w, info, colors, set.Bar)
	case models.ChartHistogram:
		return histogramChart(w, info, colors, set.Histogram)
	case models.ChartScatter:
		return scatterChart(w, info, colors, set.Scatter)
	case models.ChartDensity:
		return gridChart(w, info, set.Density.Grid)
	case models.ChartProportion:
		return pieChart(w, info.Title, colors, set.Proportion)
	default:
		return gridChart(w, info, set.Contour.Grid)
	}
}

// bar is one x slot of a stacked bar chart; values are per season, bottom first.
type bar struct {
	x0, x1 float64
	values []float64
}

// barChart stacks the per-season discount sums for each sales quantity code.
func barChart(w io.Writer, info models.ChartInfo, colors palette, agg models.BarAggregate) error {
	codes := make([]float64, 0)
	sums := make(map[float64][]float64)

	for i, series := range agg.Series {
		for _, p := range series.Points {
			if _, seen := sums[p.SalesQtyCode]; !seen {
				codes = append(codes, p.SalesQtyCode)
				sums[p.SalesQtyCode] = make([]float64, len(agg.Series))
			}
			sums[p.SalesQtyCode][i] += p.DiscountSum
		}
	}
	if len(codes) == 0 {
		return noData(w, info.Title)
	}
	slices.Sort(codes)

	gap := 1.0
	for i := 1; i < len(codes); i++ {
		gap = min(gap, codes[i]-codes[i-1])
	}
	half := gap * 0.4

	bars := make([]bar, 0, len(codes))
	for _, code := range codes {
		bars = append(bars, bar{x0: code - half, x1: code + half, values: sums[code]})
	}

	return stackedBars(w, info, colors, seasonsOf(agg.Series), bars)
}

func seasonsOf(series []models.BarSeries) []string {
	seasons := make([]string, 0, len(series))
	for _, s := range series {
		seasons = append(seasons, s.Season)
	}
	return seasons
}

func histogramChart(w io.Writer, info models.ChartInfo, colors palette, agg models.HistogramAggregate) error {
	if len(agg.Series) == 0 || len(agg.Edges) < 2 {
		return noData(w, info.Title)
	}

	seasons := make([]string, 0, len(agg.Series))
	for _, series := range agg.Series {
		seasons = append(seasons, series.Season)
	}

	bars := make([]bar, 0, len(agg.Edges)-1)
	for b := 0; b < len(agg.Edges)-1; b++ {
		values := make([]float64, 0, len(agg.Series))
		for _, series := range agg.Series {
			values = append(values, series.Weights[b])
		}
		bars = append(bars, bar{x0: agg.Edges[b], x1: agg.Edges[b+1], values: values})
	}

	return stackedBars(w, info, colors, seasons, bars)
}

// stackedBars draws each season layer as a filled step outline over a y axis
// starting at zero. Layers are drawn top first so lower layers overlay them.
func stackedBars(w io.Writer, info models.ChartInfo, colors palette, seasons []string, bars []bar) error {
	layers := stackLayers(seasons, bars)
	peak := 0.0
	for _, layer := range layers {
		for _, y := range layer.YValues {
			peak = max(peak, y)
		}
	}
	if peak <= 0 {
		return noData(w, info.Title)
	}

	series := make([]chart.Series, 0, len(layers))
	for _, layer := range layers {
		col := colors.color(layer.Name)
		layer.Style = chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1}
		series = append(series, layer)
	}

	xRange := &chart.ContinuousRange{Min: bars[0].x0, Max: bars[len(bars)-1].x1}
	yRange := &chart.ContinuousRange{Min: 0, Max: peak * 1.05}
	return plot(w, info, xRange, yRange, series)
}

// stackLayers returns one outline per season, ordered from the top of the
// stack down. Each outline rises to the cumulative height of its season over
// every bar and returns to zero between bars.
func stackLayers(seasons []string, bars []bar) []chart.ContinuousSeries {
	layers := make([]chart.ContinuousSeries, 0, len(seasons))
	for k := len(seasons) - 1; k >= 0; k-- {
		xs := make([]float64, 0, len(bars)*4)
		ys := make([]float64, 0, len(bars)*4)
		for _, b := range bars {
			height := 0.0
			for _, v := range b.values[:k+1] {
				height += v
			}
			xs = append(xs, b.x0, b.x0, b.x1, b.x1)
			ys = append(ys, 0, height, height, 0)
		}
		layers = append(layers, chart.ContinuousSeries{Name: seasons[k], XValues: xs, YValues: ys})
	}
	return layers
}

func scatterChart(w io.Writer, info models.ChartInfo, colors palette, agg models.ScatterAggregate) error {
	if len(agg.Points) == 0 {
		return noData(w, info.Title)
	}

	order := make([]string, 0)
	xs := make(map[string][]float64)
	ys := make(map[string][]float64)
	all := make([]float64, 0, len(agg.Points))
	allY := make([]float64, 0, len(agg.Points))

	for _, p := range agg.Points {
		if _, seen := xs[p.Season]; !seen {
			order = append(order, p.Season)
		}
		xs[p.Season] = append(xs[p.Season], p.Discount)
		ys[p.Season] = append(ys[p.Season], p.SalesQtyCode)
		all = append(all, p.Discount)
		allY = append(allY, p.SalesQtyCode)
	}

	series := make([]chart.Series, 0, len(order))
	for _, season := range order {
		series = append(series, chart.ContinuousSeries{
			Name:    season,
			XValues: xs[season],
			YValues: ys[season],
			Style:   pointStyle(colors.color(season), 5),
		})
	}

	return plot(w, info, paddedRange(all), paddedRange(allY), series)
}

// gridChart draws each non-empty cell centre as a dot coloured by its
// share of the heaviest cell.
func gridChart(w io.Writer, info models.ChartInfo, grid models.Grid) error {
	peak := 0.0
	for _, row := range grid.Cells {
		for _, v := range row {
			peak = max(peak, v)
		}
	}
	if peak <= 0 || len(grid.XEdges) < 2 || len(grid.YEdges) < 2 {
		return noData(w, info.Title)
	}

	levels := len(intensityColors)
	xs := make([][]float64, levels)
	ys := make([][]float64, levels)

	for y, row := range grid.Cells {
		cy := (grid.YEdges[y] + grid.YEdges[y+1]) / 2
		for x, v := range row {
			if v <= 0 {
				continue
			}
			level := min(int(v/peak*float64(levels)), levels-1)
			xs[level] = append(xs[level], (grid.XEdges[x]+grid.XEdges[x+1])/2)
			ys[level] = append(ys[level], cy)
		}
	}

	series := make([]chart.Series, 0, levels)
	for level := range levels {
		if len(xs[level]) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("≥ %d%%", level*100/levels),
			XValues: xs[level],
			YValues: ys[level],
			Style:   pointStyle(drawing.ColorFromHex(intensityColors[level]), 4+float64(level)*2),
		})
	}

	xRange := &chart.ContinuousRange{Min: grid.XEdges[0], Max: grid.XEdges[len(grid.XEdges)-1]}
	yRange := &chart.ContinuousRange{Min: grid.YEdges[0], Max: grid.YEdges[len(grid.YEdges)-1]}
	return plot(w, info, xRange, yRange, series)
}

func plot(w io.Writer, info models.ChartInfo, xRange, yRange *chart.ContinuousRange, series []chart.Series) error {
	c := chart.Chart{
		Title:      info.Title,
		Width:      Width,
		Height:     Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: info.XTitle, Range: xRange},
		YAxis:      chart.YAxis{Name: info.YTitle, Range: yRange},
		Series:     series,
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return c.Render(chart.SVG, w)
}

func pieChart(w io.Writer, title string, colors palette, agg models.ProportionAggregate) error {
	values := make([]chart.Value, 0, len(agg.Slices))
	for _, s := range agg.Slices {
		if s.SalesQty <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: s.Season,
			Value: s.SalesQty,
			Style: chart.Style{FillColor: colors.color(s.Season)},
		})
	}
	if len(values) == 0 {
		return noData(w, title)
	}

	c := chart.PieChart{
		Title:  title,
		Width:  Width,
		Height: Height,
		Values: values,
	}
	return c.Render(chart.SVG, w)
}

// noData draws a blank frame with the chart title and a "No data" notice.
func noData(w io.Writer, title string) error {
	r, err := chart.SVG(Width, Height)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}

	r.SetFillColor(drawing.ColorWhite)
	r.SetStrokeColor(drawing.ColorFromHex("cccccc"))
	r.SetStrokeWidth(1)
	r.MoveTo(0, 0)
	r.LineTo(Width, 0)
	r.LineTo(Width, Height)
	r.LineTo(0, Height)
	r.Close()
	r.FillStroke()

	r.SetFont(font)
	r.SetFontColor(drawing.ColorBlack)
	r.SetFontSize(14)
	r.Text(title, 16, 28)

	r.SetFontColor(drawing.ColorFromHex("888888"))
	r.SetFontSize(18)
	r.Text("No data", Width/2-32, Height/2)

	return r.Save(w)
}

func pointStyle(col drawing.Color, size float64) chart.Style {
	return chart.Style{
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    size,
		DotColor:    col,
	}
}

func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
