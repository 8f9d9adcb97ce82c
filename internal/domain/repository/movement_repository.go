package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// MovementRepository define el puerto del log append-only de movimientos.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	ListByTicket(ctx context.Context, ticketID string) ([]*entity.Movement, error)
	// ListAfter devuelve los movimientos con created_at estrictamente posterior a cutoff.
	// factoryID vacío = todas las plantas (filtra por la planta de la ubicación).
	ListAfter(ctx context.Context, cutoff time.Time, factoryID string) ([]entity.Movement, error)
}
