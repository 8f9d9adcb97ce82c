// Package pdf genera la versión imprimible del reporte de stock a una fecha de corte.
//
// Layout de la página A4 horizontal:
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│  HEADER: título + planta     │  Fecha de corte + generado         │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Artículo | Unidad | Planta | Bodega | Ubic. | Cant │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  FOOTER: cantidad de filas                                       │
//	└──────────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ ports.ReportRenderer = (*StockReportRenderer)(nil)

// StockReportRenderer implementa ports.ReportRenderer usando Maroto v2.
type StockReportRenderer struct {
	title string
	now   func() time.Time
}

// NewStockReportRenderer construye el renderer. title aparece en el encabezado y metadatos.
func NewStockReportRenderer(title string) *StockReportRenderer {
	if title == "" {
		title = "Reporte de stock"
	}
	return &StockReportRenderer{title: title, now: time.Now}
}

func (g *StockReportRenderer) Format() string      { return "pdf" }
func (g *StockReportRenderer) ContentType() string { return "application/pdf" }

// Render genera el PDF y devuelve sus bytes.
func (g *StockReportRenderer) Render(report *dto.StockHistoryReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, report, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(report.Rows)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(len(report.Rows)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, report *dto.StockHistoryReport, generated time.Time) core.Row {
	scope := "Todas las plantas"
	if report.FactoryID != "" {
		scope = "Planta: " + factoryName(report)
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(strings.ToUpper(title), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(scope, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("FECHA DE CORTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.CutoffDate.Format("02/01/2006 15:04"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+generated.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

var columns = []struct {
	label string
	size  int
	align align.Type
}{
	{"Código", 2, align.Left},
	{"Artículo", 3, align.Left},
	{"Unidad", 1, align.Center},
	{"Bodega", 2, align.Left},
	{"Ubicación", 1, align.Left},
	{"Estante/Celda", 1, align.Center},
	{"Cantidad", 2, align.Right},
}

func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRows(rows []dto.StockHistoryRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for i, r := range rows {
		values := []string{
			r.ItemCode,
			r.ItemName,
			r.Unit,
			r.WarehouseName,
			r.LocationCode,
			nonEmpty(strings.Trim(r.Rack+"/"+r.Bin, "/"), "-"),
			formatQuantity(r.Quantity.StringFixed(2)),
		}
		cols := make([]core.Col, 0, len(columns))
		for j, c := range columns {
			cols = append(cols, col.New(c.size).Add(text.New(values[j], props.Text{
				Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
			})))
		}
		rr := row.New(7).Add(cols...)
		if i%2 == 1 {
			rr = rr.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, rr)
	}
	return result
}

func footerRow(n int) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("%d filas. Cantidades en unidad base del artículo.", n), props.Text{
			Size: 7, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func factoryName(report *dto.StockHistoryReport) string {
	for _, r := range report.Rows {
		if r.FactoryName != "" {
			return r.FactoryName
		}
	}
	return report.FactoryID
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQuantity inserta puntos de miles en la parte entera y coma decimal.
// Ej: "25000.50" → "25.000,50"
func formatQuantity(s string) string {
	intPart, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+len(frac)+2)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac != "" {
		buf = append(buf, ',')
		buf = append(buf, frac...)
	}
	return string(buf)
}
