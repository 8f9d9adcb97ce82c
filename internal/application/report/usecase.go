// Package report expone el reconstructor de stock a una fecha de corte y su exportación.
package report

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/application/authz"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/ports"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	invdomain "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Periodos admitidos por StockHistory.
const (
	PeriodDay   = "day"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// Config parámetros de presentación de reportes.
type Config struct {
	Locale   string         // BCP 47, ordena los códigos de artículo (ej. "es")
	Location *time.Location // zona horaria en la que se interpreta la fecha de corte
}

// UseCase reconstructor de stock histórico.
type UseCase struct {
	stock     repository.StockRepository
	movements repository.MovementRepository
	authz     *authz.Authorizer
	tag       language.Tag
	loc       *time.Location
	renderers map[string]ports.ReportRenderer
}

// NewUseCase construye el caso de uso. Locale inválido cae en language.Und.
func NewUseCase(
	stock repository.StockRepository,
	movements repository.MovementRepository,
	az *authz.Authorizer,
	cfg Config,
	renderers ...ports.ReportRenderer,
) *UseCase {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		tag = language.Und
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	uc := &UseCase{
		stock:     stock,
		movements: movements,
		authz:     az,
		tag:       tag,
		loc:       loc,
		renderers: make(map[string]ports.ReportRenderer, len(renderers)),
	}
	for _, r := range renderers {
		uc.renderers[r.Format()] = r
	}
	return uc
}

// Cutoff calcula el último instante del periodo. day: AAAA-MM-DD, month: AAAA-MM, year: AAAA.
func (uc *UseCase) Cutoff(period, date string) (time.Time, error) {
	if date == "" {
		return time.Time{}, domain.Validation("la fecha de corte es requerida")
	}
	var end time.Time
	switch period {
	case PeriodDay, "":
		d, err := time.ParseInLocation("2006-01-02", date, uc.loc)
		if err != nil {
			return time.Time{}, domain.Validation("fecha de corte inválida %q (AAAA-MM-DD)", date)
		}
		end = d.AddDate(0, 0, 1)
	case PeriodMonth:
		d, err := time.ParseInLocation("2006-01", date, uc.loc)
		if err != nil {
			return time.Time{}, domain.Validation("mes de corte inválido %q (AAAA-MM)", date)
		}
		end = d.AddDate(0, 1, 0)
	case PeriodYear:
		d, err := time.ParseInLocation("2006", date, uc.loc)
		if err != nil {
			return time.Time{}, domain.Validation("año de corte inválido %q (AAAA)", date)
		}
		end = d.AddDate(1, 0, 0)
	default:
		return time.Time{}, domain.Validation("tipo de periodo inválido %q (day|month|year)", period)
	}
	return end.Add(-time.Microsecond), nil
}

// StockHistory reconstruye el stock al cierre del periodo indicado.
func (uc *UseCase) StockHistory(ctx context.Context, actor entity.Actor, period, date, factoryID string) (*dto.StockHistoryReport, error) {
	if err := uc.authz.Require(ctx, actor, entity.PermReportView); err != nil {
		return nil, err
	}
	cutoff, err := uc.Cutoff(period, date)
	if err != nil {
		return nil, err
	}
	return uc.AtCutoff(ctx, cutoff, factoryID)
}

// MonthlyStock reconstruye el stock al cierre del mes (1-12) del año dado.
func (uc *UseCase) MonthlyStock(ctx context.Context, actor entity.Actor, month, year int, factoryID string) (*dto.StockHistoryReport, error) {
	if err := uc.authz.Require(ctx, actor, entity.PermReportView); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 || year < 1 {
		return nil, domain.Validation("mes/año inválidos: %d/%d", month, year)
	}
	m := strconv.Itoa(month)
	if month < 10 {
		m = "0" + m
	}
	cutoff, err := uc.Cutoff(PeriodMonth, strconv.Itoa(year)+"-"+m)
	if err != nil {
		return nil, err
	}
	return uc.AtCutoff(ctx, cutoff, factoryID)
}

// AtCutoff reconstruye el stock en cutoff a partir del snapshot vivo y los movimientos
// posteriores. Las filas salen ordenadas por código de artículo según el locale.
func (uc *UseCase) AtCutoff(ctx context.Context, cutoff time.Time, factoryID string) (*dto.StockHistoryReport, error) {
	if cutoff.IsZero() {
		return nil, domain.Validation("la fecha de corte es requerida")
	}
	snapshot, err := uc.stock.ListSnapshot(ctx, entity.StockFilter{FactoryID: factoryID})
	if err != nil {
		return nil, err
	}
	after, err := uc.movements.ListAfter(ctx, cutoff, factoryID)
	if err != nil {
		return nil, err
	}
	rows := invdomain.Reconstruct(snapshot, after)

	col := collate.New(uc.tag, collate.Numeric)
	sort.SliceStable(rows, func(i, j int) bool {
		if c := col.CompareString(rows[i].ItemCode, rows[j].ItemCode); c != 0 {
			return c < 0
		}
		if rows[i].WarehouseName != rows[j].WarehouseName {
			return rows[i].WarehouseName < rows[j].WarehouseName
		}
		return rows[i].LocationCode < rows[j].LocationCode
	})

	out := &dto.StockHistoryReport{CutoffDate: cutoff, FactoryID: factoryID, Rows: make([]dto.StockHistoryRow, 0, len(rows))}
	for _, r := range rows {
		out.Rows = append(out.Rows, dto.StockHistoryRow{
			ItemCode:      r.ItemCode,
			ItemName:      r.ItemName,
			Unit:          r.Unit,
			FactoryName:   r.FactoryName,
			WarehouseName: r.WarehouseName,
			LocationCode:  r.LocationCode,
			Rack:          r.Rack,
			Bin:           r.Bin,
			Quantity:      r.Quantity,
		})
	}
	return out, nil
}

// Render exporta el reporte al formato pedido. Devuelve el archivo y su content type.
func (uc *UseCase) Render(report *dto.StockHistoryReport, format string) ([]byte, string, error) {
	r, ok := uc.renderers[format]
	if !ok {
		return nil, "", domain.Validation("formato de reporte no soportado: %q", format)
	}
	b, err := r.Render(report)
	if err != nil {
		return nil, "", err
	}
	return b, r.ContentType(), nil
}
