package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

func TestRender_GeneraPDF(t *testing.T) {
	g := NewStockReportRenderer("")
	g.now = func() time.Time { return time.Date(2024, 3, 16, 8, 0, 0, 0, time.UTC) }

	b, err := g.Render(&dto.StockHistoryReport{
		CutoffDate: time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC),
		FactoryID:  "f-1",
		Rows: []dto.StockHistoryRow{
			{ItemCode: "BOLT-01", ItemName: "Perno", Unit: "PCS", FactoryName: "Planta Norte", Quantity: decimal.NewFromInt(25000)},
			{ItemCode: "NUT-02", ItemName: "Tuerca", Unit: "PCS", Rack: "A", Bin: "3", Quantity: decimal.NewFromInt(4)},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
	assert.Equal(t, "application/pdf", g.ContentType())
}

func TestFormatQuantity(t *testing.T) {
	for in, want := range map[string]string{
		"25000.50":    "25.000,50",
		"4.00":        "4,00",
		"-1234567.10": "-1.234.567,10",
		"999":         "999",
	} {
		assert.Equal(t, want, formatQuantity(in), in)
	}
}

func TestFactoryName(t *testing.T) {
	rep := &dto.StockHistoryReport{FactoryID: "f-1", Rows: []dto.StockHistoryRow{{}, {FactoryName: "Planta Norte"}}}
	assert.Equal(t, "Planta Norte", factoryName(rep))
	assert.Equal(t, "f-9", factoryName(&dto.StockHistoryReport{FactoryID: "f-9"}))
}
