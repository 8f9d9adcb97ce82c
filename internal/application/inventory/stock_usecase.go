package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/application/authz"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockUseCase consultas de solo lectura sobre el ledger.
type StockUseCase struct {
	stock   repository.StockRepository
	tickets repository.TicketRepository
	authz   *authz.Authorizer
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(stock repository.StockRepository, tickets repository.TicketRepository, az *authz.Authorizer) *StockUseCase {
	return &StockUseCase{stock: stock, tickets: tickets, authz: az}
}

// GetQuantity cantidad física de un artículo en una ubicación (0 si no hay fila).
func (uc *StockUseCase) GetQuantity(ctx context.Context, itemID, locationID string) (decimal.Decimal, error) {
	if itemID == "" || locationID == "" {
		return decimal.Zero, domain.Validation("itemId y locationId son requeridos")
	}
	s, err := uc.stock.Get(ctx, itemID, locationID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.Quantity, nil
}

// CheckAvailability cantidad física menos lo comprometido por salidas EXPORT pendientes
// (tope inferior 0).
func (uc *StockUseCase) CheckAvailability(ctx context.Context, actor entity.Actor, itemID, locationID string) (*dto.AvailabilityResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.PermStockView); err != nil {
		return nil, err
	}
	physical, err := uc.GetQuantity(ctx, itemID, locationID)
	if err != nil {
		return nil, err
	}
	pending, err := uc.tickets.PendingExportQuantity(ctx, itemID, locationID)
	if err != nil {
		return nil, err
	}
	available := physical.Sub(pending)
	if available.IsNegative() {
		available = decimal.Zero
	}
	return &dto.AvailabilityResponse{
		ItemID:     itemID,
		LocationID: locationID,
		Physical:   physical,
		Pending:    pending,
		Available:  available,
	}, nil
}

// ListStock snapshot vivo (quantity > 0). Fuera de super-admin se limita a la planta del actor.
func (uc *StockUseCase) ListStock(ctx context.Context, actor entity.Actor, filter entity.StockFilter) ([]dto.StockRowResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.PermStockView); err != nil {
		return nil, err
	}
	super, err := uc.authz.IsSuperAdmin(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !super {
		if actor.FactoryID == "" {
			return []dto.StockRowResponse{}, nil
		}
		filter.FactoryID = actor.FactoryID
	}
	rows, err := uc.stock.ListSnapshot(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockRowResponse{
			ItemID:        r.ItemID,
			ItemCode:      r.ItemCode,
			ItemName:      r.ItemName,
			Unit:          r.Unit,
			LocationID:    r.LocationID,
			LocationCode:  r.LocationCode,
			WarehouseName: r.WarehouseName,
			FactoryID:     r.FactoryID,
			FactoryName:   r.FactoryName,
			Quantity:      r.Quantity,
			MinStock:      r.MinStock,
			IsLow:         r.Quantity.LessThanOrEqual(r.MinStock),
		})
	}
	return out, nil
}
