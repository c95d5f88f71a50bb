package models

// Record is one product row of the e-commerce dataset.
type Record struct {
	Title    string
	Brand    string
	Material string
	Gender   string
	Season   string
	SalesQty string

	SalesQtyCode float64
	DiscountNorm float64
	Discount     float64
	Price        float64
	Rating       float64
	RatingCount  float64
}

// ChartKind names one of the six dashboard charts.
type ChartKind string

const (
	ChartBar        ChartKind = "bar"
	ChartHistogram  ChartKind = "histogram"
	ChartScatter    ChartKind = "scatter"
	ChartDensity    ChartKind = "density"
	ChartProportion ChartKind = "proportion"
	ChartContour    ChartKind = "contour"
)

var ChartKinds = []ChartKind{
	ChartBar,
	ChartHistogram,
	ChartScatter,
	ChartDensity,
	ChartProportion,
	ChartContour,
}

func ParseChartKind(s string) (ChartKind, bool) {
	for _, k := range ChartKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ChartInfo holds the labels a chart is drawn with.
type ChartInfo struct {
	Title  string `json:"title"`
	XTitle string `json:"x_title,omitempty"`
	YTitle string `json:"y_title,omitempty"`
}

var chartInfos = map[ChartKind]ChartInfo{
	ChartBar: {
		Title:  "Gráfico de Barras - Valores por Categoria",
		XTitle: "Quantidade de Vendas",
		YTitle: "Desconto (Normalizado)",
	},
	ChartHistogram: {
		Title:  "Gráfico de Histograma - Frequência de Notas",
		XTitle: "Nota",
		YTitle: "Frequência em que aparece",
	},
	ChartScatter: {
		Title:  "Gráfico de Dispersão - Desconto e Quantidade de Vendas",
		XTitle: "Desconto",
		YTitle: "Qtd_Vendidos_Cod",
	},
	ChartDensity: {
		Title:  "Mapa de Calor comparando Preço, Desconto e Notas dadas",
		XTitle: "Preço",
		YTitle: "Notas",
	},
	ChartProportion: {
		Title: "Gráfico mostrando a relação entre a quantidade de vendas e a temporada",
	},
	ChartContour: {
		Title:  "Gráfico de Densidade da relação entre Preço e Vendas",
		XTitle: "Preço",
		YTitle: "Quantidade de Vendas",
	},
}

func (k ChartKind) Info() ChartInfo {
	return chartInfos[k]
}
