package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo log de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `m.id, m.ticket_id, m.detail_id, m.item_id, m.location_id, m.type, m.quantity, m.created_at, m.created_by`

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (id, ticket_id, detail_id, item_id, location_id, type, quantity, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TicketID, m.DetailID, m.ItemID, m.LocationID, m.Type, m.Quantity, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ListByTicket movimientos de un ticket en orden de registro.
func (r *MovementRepo) ListByTicket(ctx context.Context, ticketID string) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM stock_movements m
		WHERE m.ticket_id = $1 ORDER BY m.created_at, m.id`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	list, err := scanMovements(rows)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Movement, len(list))
	for i := range list {
		out[i] = &list[i]
	}
	return out, nil
}

// ListAfter movimientos con created_at > cutoff, opcionalmente de una planta.
func (r *MovementRepo) ListAfter(ctx context.Context, cutoff time.Time, factoryID string) ([]entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements m
		JOIN locations l ON l.id = m.location_id
		JOIN warehouses w ON w.id = l.warehouse_id
		WHERE m.created_at > $1 AND ($2 = '' OR w.factory_id = $2)
		ORDER BY m.created_at`
	rows, err := r.q.Query(ctx, query, cutoff, factoryID)
	if err != nil {
		return nil, fmt.Errorf("list movements after: %w", err)
	}
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]entity.Movement, error) {
	defer rows.Close()
	var out []entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.TicketID, &m.DetailID, &m.ItemID, &m.LocationID,
			&m.Type, &m.Quantity, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
