package inventory

import (
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type stockKey struct {
	itemID     string
	locationID string
}

// Reconstruct reconstruye el stock a una fecha de corte partiendo del snapshot vivo y
// revirtiendo los movimientos posteriores al corte.
//
// Un crédito posterior (Quantity > 0) aún no existía al corte y se resta; un débito
// posterior (Quantity < 0) seguía presente y se suma.
//
// after se selecciona por Movement.CreatedAt, el instante en que el ledger cambió, no por
// la fecha de creación del ticket. Un EXPORT creado antes del corte y aprobado después se
// revierte, porque al corte la mercancía seguía en la ubicación; un EXPORT creado después
// del corte y aprobado también se revierte. El débito de un TRANSFER cuenta desde su
// creación y su TRANSFER_REVERSAL desde el rechazo o la cancelación.
//
// Solo se ajustan las claves que
// existen en el snapshot: un par (item, ubicación) vaciado por completo después del corte
// no aparece en el resultado. Devuelve únicamente filas con cantidad > 0, en el orden
// del snapshot.
func Reconstruct(snapshot []entity.StockView, after []entity.Movement) []entity.StockView {
	index := make(map[stockKey]int, len(snapshot))
	working := make([]entity.StockView, len(snapshot))
	for i, row := range snapshot {
		working[i] = row
		index[stockKey{row.ItemID, row.LocationID}] = i
	}

	for _, m := range after {
		i, ok := index[stockKey{m.ItemID, m.LocationID}]
		if !ok {
			continue
		}
		working[i].Quantity = working[i].Quantity.Sub(m.Quantity)
	}

	out := make([]entity.StockView, 0, len(working))
	for _, row := range working {
		if row.Quantity.GreaterThan(decimal.Zero) {
			out = append(out, row)
		}
	}
	return out
}
