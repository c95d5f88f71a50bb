package services

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	apperrors "season-dashboard/internal/errors"
	"season-dashboard/internal/models"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

// CSV columns of the product dataset.
const (
	ColSeason       = "Temporada"
	ColSalesQtyCode = "Qtd_Vendidos_Cod"
	ColDiscountNorm = "Desconto_MinMax"
	ColDiscount     = "Desconto"
	ColPrice        = "Preço"
	ColRating       = "Nota"
	ColRatingCount  = "N_Avaliações"

	ColTitle    = "Título"
	ColBrand    = "Marca"
	ColMaterial = "Material"
	ColGender   = "Gênero"
	ColSalesQty = "Qtd_Vendidos"
)

var requiredColumns = []string{
	ColSeason,
	ColSalesQtyCode,
	ColDiscountNorm,
	ColDiscount,
	ColPrice,
	ColRating,
	ColRatingCount,
}

// columns maps a column name to its position in the header.
type columns map[string]int

func resolveColumns(header []string) (columns, error) {
	cols := make(columns, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return cols, nil
}

func (c columns) text(row []string, name string) string {
	i, ok := c[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (c columns) number(row []string, name string) (float64, error) {
	raw := c.text(row, name)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: invalid number %q", name, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("column %s: non-finite number %q", name, raw)
	}
	return v, nil
}

func parseRecord(row []string, cols columns) (models.Record, error) {
	rec := models.Record{
		Title:    cols.text(row, ColTitle),
		Brand:    cols.text(row, ColBrand),
		Material: cols.text(row, ColMaterial),
		Gender:   cols.text(row, ColGender),
		Season:   cols.text(row, ColSeason),
		SalesQty: cols.text(row, ColSalesQty),
	}

	numbers := []struct {
		name string
		dst  *float64
	}{
		{ColSalesQtyCode, &rec.SalesQtyCode},
		{ColDiscountNorm, &rec.DiscountNorm},
		{ColDiscount, &rec.Discount},
		{ColPrice, &rec.Price},
		{ColRating, &rec.Rating},
		{ColRatingCount, &rec.RatingCount},
	}
	for _, n := range numbers {
		v, err := cols.number(row, n.name)
		if err != nil {
			return models.Record{}, err
		}
		*n.dst = v
	}

	return rec, nil
}

// LoadDataset reads the CSV at path into records in file order. Any failure is
// reported as a DATA_LOAD_ERROR.
func LoadDataset(ctx context.Context, path string) ([]models.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.DataLoad(err, "open dataset")
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReaderSize(file, 1024*1024))

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.DataLoad(err, "dataset is empty")
	}
	if err != nil {
		return nil, apperrors.DataLoad(err, "read header")
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, apperrors.DataLoad(err, "invalid header")
	}

	// FieldsPerRecord is fixed by the header, so ragged rows fail here.
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.DataLoad(err, "read rows")
	}
	if len(rows) == 0 {
		return nil, apperrors.DataLoad(errors.New("no records"), "dataset has no rows")
	}

	records := make([]models.Record, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				rec, err := parseRecord(rows[i], cols)
				if err != nil {
					// +2: one for the header, one for 1-based lines.
					return fmt.Errorf("line %d: %w", i+2, err)
				}
				records[i] = rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperrors.DataLoad(err, "parse rows")
	}

	return records, nil
}
