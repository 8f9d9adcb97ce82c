package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// MovementRepository log de movimientos en memoria (append-only).
type MovementRepository struct {
	db access
}

func (r *MovementRepository) Create(_ context.Context, m *entity.Movement) error {
	return r.db.write(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *MovementRepository) ListByTicket(_ context.Context, ticketID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.db.read(func(st *state) error {
		for _, m := range st.movements {
			if m.TicketID == ticketID {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepository) ListAfter(_ context.Context, cutoff time.Time, factoryID string) ([]entity.Movement, error) {
	var out []entity.Movement
	err := r.db.read(func(st *state) error {
		for _, m := range st.movements {
			if !m.CreatedAt.After(cutoff) {
				continue
			}
			if factoryID != "" {
				path := pathOf(st, m.LocationID)
				if path == nil || path.Factory.ID != factoryID {
					continue
				}
			}
			out = append(out, m)
		}
		return nil
	})
	return out, err
}
