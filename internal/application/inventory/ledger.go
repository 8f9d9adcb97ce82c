package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Delta cambio de cantidad (unidad base) sobre (ItemID, LocationID), con el movimiento
// que lo documenta. Quantity positivo = crédito, negativo = débito.
type Delta struct {
	ItemID     string
	LocationID string
	Quantity   decimal.Decimal
	Type       string // entity.Movement*
	DetailID   string
}

// Ledger aplica deltas al stock y los registra en el log de movimientos.
// Debe usarse con repositorios atados a una transacción (TxRunner).
type Ledger struct{}

// NewLedger construye el ledger.
func NewLedger() *Ledger { return &Ledger{} }

type rowKey struct {
	itemID     string
	locationID string
}

// Apply aplica todos los deltas como una sola unidad: bloquea cada fila (SELECT FOR UPDATE)
// en orden (item, ubicación) para evitar deadlocks, suma los deltas de la misma fila y
// falla con ErrInsufficientStock si alguna quedaría negativa. Los movimientos se agregan
// uno por delta. La atomicidad la da la transacción del llamador.
func (l *Ledger) Apply(
	ctx context.Context,
	tx repository.TxRepos,
	ticketID, actorID string,
	deltas []Delta,
	now time.Time,
) error {
	if len(deltas) == 0 {
		return nil
	}

	sums := make(map[rowKey]decimal.Decimal, len(deltas))
	keys := make([]rowKey, 0, len(deltas))
	for _, d := range deltas {
		k := rowKey{d.ItemID, d.LocationID}
		if _, ok := sums[k]; !ok {
			keys = append(keys, k)
			sums[k] = decimal.Zero
		}
		sums[k] = sums[k].Add(d.Quantity)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].itemID != keys[j].itemID {
			return keys[i].itemID < keys[j].itemID
		}
		return keys[i].locationID < keys[j].locationID
	})

	for _, k := range keys {
		stock, err := tx.Stock.GetForUpdate(ctx, k.itemID, k.locationID)
		if err != nil {
			return err
		}
		newQty := stock.Quantity.Add(sums[k])
		if newQty.IsNegative() {
			return domain.InsufficientStock("artículo %s en ubicación %s: disponible %s, requerido %s",
				k.itemID, k.locationID, stock.Quantity.String(), sums[k].Neg().String())
		}
		stock.Quantity = newQty
		stock.UpdatedAt = now
		if err := tx.Stock.Upsert(ctx, stock); err != nil {
			return err
		}
	}

	for _, d := range deltas {
		mov := &entity.Movement{
			ID:         uuid.New().String(),
			TicketID:   ticketID,
			DetailID:   d.DetailID,
			ItemID:     d.ItemID,
			LocationID: d.LocationID,
			Type:       d.Type,
			Quantity:   d.Quantity,
			CreatedAt:  now,
			CreatedBy:  actorID,
		}
		if err := tx.Movements.Create(ctx, mov); err != nil {
			return err
		}
	}
	return nil
}

// CheckAvailable verifica, sin modificar el ledger, que cada débito sea cubierto por el stock
// actual. Las líneas hermanas que debitan la misma (item, ubicación) se acumulan: cada una ve
// como disponible el stock menos lo ya reservado por las anteriores.
func (l *Ledger) CheckAvailable(ctx context.Context, stock repository.StockRepository, debits []Delta) error {
	reserved := map[rowKey]decimal.Decimal{}
	for _, d := range debits {
		k := rowKey{d.ItemID, d.LocationID}
		s, err := stock.Get(ctx, d.ItemID, d.LocationID)
		if err != nil {
			return err
		}
		available := s.Quantity.Sub(reserved[k])
		need := d.Quantity.Abs()
		if available.LessThan(need) {
			return domain.InsufficientStock("artículo %s en ubicación %s: disponible %s, solicitado %s",
				d.ItemID, d.LocationID, available.String(), need.String())
		}
		reserved[k] = reserved[k].Add(need)
	}
	return nil
}
