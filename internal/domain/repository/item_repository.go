package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia del catálogo de artículos y sus conversiones.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	// AddConversion registra (o reemplaza) el factor de una unidad alternativa.
	AddConversion(ctx context.Context, itemID string, conv entity.UnitConversion) error
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
}
