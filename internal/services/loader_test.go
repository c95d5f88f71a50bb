package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "season-dashboard/internal/errors"
)

const testHeader = "Título,Nota,N_Avaliações,Desconto,Marca,Material,Gênero,Temporada,Qtd_Vendidos,Preço,Desconto_MinMax,Qtd_Vendidos_Cod"

const validCSV = testHeader + `
Jaqueta Jeans,4.5,120,20,Marca A,Jeans,Feminino,primavera/verão,+1000,149.9,0.35,4
Casaco Lã,3.9,15,10,Marca B,Lã,Masculino,outono/inverno,+50,299.0,0.12,2
Bermuda,4.8,300,5,Marca A,Algodão,Masculino,primavera/verão,+100,59.9,0.05,3
`

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDataset_Valid(t *testing.T) {
	records, err := LoadDataset(context.Background(), createTempCSV(t, validCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "Jaqueta Jeans", first.Title)
	assert.Equal(t, "primavera/verão", first.Season)
	assert.Equal(t, "+1000", first.SalesQty)
	assert.Equal(t, 4.0, first.SalesQtyCode)
	assert.Equal(t, 0.35, first.DiscountNorm)
	assert.Equal(t, 20.0, first.Discount)
	assert.Equal(t, 149.9, first.Price)
	assert.Equal(t, 4.5, first.Rating)
	assert.Equal(t, 120.0, first.RatingCount)

	assert.Equal(t, "outono/inverno", records[1].Season)
	assert.Equal(t, "Bermuda", records[2].Title)
}

func TestLoadDataset_HeaderWithBOMAndExtraColumns(t *testing.T) {
	content := "\ufeffTemporada,Extra,Qtd_Vendidos_Cod,Desconto_MinMax,Desconto,Preço,Nota,N_Avaliações\n" +
		"verão, x ,1,0.5,10,99.9,4,10\n"

	records, err := LoadDataset(context.Background(), createTempCSV(t, content))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "verão", records[0].Season)
	assert.Empty(t, records[0].Title)
}

func TestLoadDataset_PreservesOrderAcrossBatches(t *testing.T) {
	var b strings.Builder
	b.WriteString("Temporada,Qtd_Vendidos_Cod,Desconto_MinMax,Desconto,Preço,Nota,N_Avaliações\n")
	n := batchSize*2 + 17
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "s%d,%d,0.1,1,10,4,1\n", i%3, i)
	}

	records, err := LoadDataset(context.Background(), createTempCSV(t, b.String()))
	require.NoError(t, err)
	require.Len(t, records, n)
	for i, r := range records {
		if r.SalesQtyCode != float64(i) {
			t.Fatalf("record %d has sales code %v", i, r.SalesQtyCode)
		}
	}
}

func TestLoadDataset_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"empty file", "", "empty"},
		{"header only", testHeader + "\n", "no rows"},
		{"missing column", "Temporada,Nota\nverão,4\n", "Qtd_Vendidos_Cod"},
		{"wrong column count", testHeader + "\nJaqueta,4.5,120\n", "wrong number of fields"},
		{"invalid number", testHeader + "\nJaqueta,bom,120,20,A,J,F,verão,+10,149.9,0.35,4\n", "Nota"},
		{"non-finite number", testHeader + "\nJaqueta,4.5,120,20,A,J,F,verão,+10,NaN,0.35,4\n", "non-finite"},
		{"empty numeric cell", testHeader + "\nJaqueta,4.5,,20,A,J,F,verão,+10,149.9,0.35,4\n", "N_Avaliações"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDataset(context.Background(), createTempCSV(t, tt.content))
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeDataLoad), "want DATA_LOAD_ERROR, got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadDataset_MissingFile(t *testing.T) {
	_, err := LoadDataset(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDataLoad))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDataset_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadDataset(ctx, createTempCSV(t, validCSV))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshot_RoundTripAndStaleness(t *testing.T) {
	dir := t.TempDir()
	csvPath := createTempCSV(t, validCSV)

	records, err := LoadDataset(context.Background(), csvPath)
	require.NoError(t, err)
	require.NoError(t, saveSnapshot(dir, csvPath, records))

	cached, err := loadSnapshot(dir, csvPath)
	require.NoError(t, err)
	assert.Equal(t, records, cached)

	// Touch the CSV after the snapshot was written.
	info, err := os.Stat(csvPath)
	require.NoError(t, err)
	future := info.ModTime().Add(24 * time.Hour)
	require.NoError(t, os.Chtimes(csvPath, future, future))

	_, err = loadSnapshot(dir, csvPath)
	assert.Error(t, err)
}

func TestSnapshot_Corrupt(t *testing.T) {
	dir := t.TempDir()
	csvPath := createTempCSV(t, validCSV)
	require.NoError(t, os.WriteFile(snapshotPath(dir, csvPath), []byte("not gob"), 0o644))

	_, err := loadSnapshot(dir, csvPath)
	assert.Error(t, err)
}
