package ticket

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	invdomain "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
)

// buildDetails valida las líneas según el tipo, verifica artículos y ubicaciones y
// resuelve cada cantidad a la unidad base del artículo.
func (uc *UseCase) buildDetails(ctx context.Context, txType string, lines []dto.TicketLineRequest) ([]entity.TransactionDetail, error) {
	if len(lines) == 0 {
		return nil, domain.Validation("la transacción debe tener al menos una línea")
	}
	out := make([]entity.TransactionDetail, 0, len(lines))
	for i, l := range lines {
		n := i + 1
		if l.ItemID == "" {
			return nil, domain.Validation("línea %d: item_id es requerido", n)
		}
		if !l.Quantity.IsPositive() {
			return nil, domain.Validation("línea %d: la cantidad debe ser mayor a cero", n)
		}
		switch txType {
		case entity.TransactionImport:
			if l.ToLocationID == "" || l.FromLocationID != "" {
				return nil, domain.Validation("línea %d: IMPORT requiere solo to_location_id", n)
			}
		case entity.TransactionExport:
			if l.FromLocationID == "" || l.ToLocationID != "" {
				return nil, domain.Validation("línea %d: EXPORT requiere solo from_location_id", n)
			}
		case entity.TransactionTransfer:
			if l.FromLocationID == "" || l.ToLocationID == "" {
				return nil, domain.Validation("línea %d: TRANSFER requiere from_location_id y to_location_id", n)
			}
			if l.FromLocationID == l.ToLocationID {
				return nil, domain.Validation("línea %d: origen y destino deben ser distintos", n)
			}
		}

		item, err := uc.items.GetByID(ctx, l.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.NotFound("artículo %s", l.ItemID)
		}
		for _, locID := range []string{l.FromLocationID, l.ToLocationID} {
			if locID == "" {
				continue
			}
			path, err := uc.locations.GetPath(ctx, locID)
			if err != nil {
				return nil, err
			}
			if path == nil {
				return nil, domain.NotFound("ubicación %s", locID)
			}
		}

		base, err := invdomain.ResolveToBaseUnit(item, l.Quantity, l.InputUnit)
		if err != nil {
			return nil, err
		}
		unit := l.InputUnit
		if unit == "" {
			unit = item.BaseUnit
		}
		out = append(out, entity.TransactionDetail{
			ID:              uuid.New().String(),
			ItemID:          l.ItemID,
			Quantity:        base,
			InputUnit:       unit,
			InputQuantity:   l.Quantity,
			FromLocationID:  l.FromLocationID,
			ToLocationID:    l.ToLocationID,
			UsageCategoryID: l.UsageCategoryID,
		})
	}
	return out, nil
}

func importDeltas(t *entity.Ticket) []inventory.Delta {
	out := make([]inventory.Delta, 0, len(t.Details))
	for _, d := range t.Details {
		out = append(out, inventory.Delta{
			ItemID: d.ItemID, LocationID: d.ToLocationID, Quantity: d.Quantity,
			Type: entity.MovementImportIn, DetailID: d.ID,
		})
	}
	return out
}

// sourceDebits débitos sobre el origen de cada línea (EXPORT_OUT o TRANSFER_OUT).
func sourceDebits(t *entity.Ticket, movType string) []inventory.Delta {
	out := make([]inventory.Delta, 0, len(t.Details))
	for _, d := range t.Details {
		out = append(out, inventory.Delta{
			ItemID: d.ItemID, LocationID: d.FromLocationID, Quantity: d.Quantity.Neg(),
			Type: movType, DetailID: d.ID,
		})
	}
	return out
}

func transferCredits(t *entity.Ticket) []inventory.Delta {
	out := make([]inventory.Delta, 0, len(t.Details))
	for _, d := range t.Details {
		out = append(out, inventory.Delta{
			ItemID: d.ItemID, LocationID: d.ToLocationID, Quantity: d.Quantity,
			Type: entity.MovementTransferIn, DetailID: d.ID,
		})
	}
	return out
}

// reversalCredits devuelve al origen lo debitado al crear un TRANSFER.
func reversalCredits(t *entity.Ticket) []inventory.Delta {
	out := make([]inventory.Delta, 0, len(t.Details))
	for _, d := range t.Details {
		out = append(out, inventory.Delta{
			ItemID: d.ItemID, LocationID: d.FromLocationID, Quantity: d.Quantity,
			Type: entity.MovementTransferReversal, DetailID: d.ID,
		})
	}
	return out
}

// terminalDeltas efecto sobre el ledger de la aprobación final.
func terminalDeltas(t *entity.Ticket) []inventory.Delta {
	switch t.Type {
	case entity.TransactionExport:
		return sourceDebits(t, entity.MovementExportOut)
	case entity.TransactionTransfer:
		return transferCredits(t)
	}
	return nil
}
