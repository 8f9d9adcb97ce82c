package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por artículo+ubicación.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve la cantidad actual; si no hay fila devuelve Quantity 0.
	Get(ctx context.Context, itemID, locationID string) (*entity.Stock, error)
	// GetForUpdate igual que Get pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	// ListSnapshot devuelve el snapshot vivo (quantity > 0) enriquecido y filtrado.
	ListSnapshot(ctx context.Context, filter entity.StockFilter) ([]entity.StockView, error)
}
