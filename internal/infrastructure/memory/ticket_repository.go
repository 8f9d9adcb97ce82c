package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TicketRepository tickets en memoria.
type TicketRepository struct {
	db access
}

func (r *TicketRepository) Create(_ context.Context, t *entity.Ticket) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.tickets[t.ID]; ok {
			return domain.Conflict("el ticket %s ya existe", t.ID)
		}
		for _, x := range st.tickets {
			if x.Code == t.Code {
				return domain.Conflict("el código de ticket %s ya existe", t.Code)
			}
		}
		st.tickets[t.ID] = cloneTicket(*t)
		return nil
	})
}

func (r *TicketRepository) Update(_ context.Context, t *entity.Ticket) error {
	return r.db.write(func(st *state) error {
		cur, ok := st.tickets[t.ID]
		if !ok {
			return domain.NotFound("ticket %s", t.ID)
		}
		next := cloneTicket(*t)
		next.Details = cur.Details
		next.Logs = cur.Logs
		st.tickets[t.ID] = next
		return nil
	})
}

func (r *TicketRepository) AddLog(_ context.Context, ticketID string, log entity.TicketLog) error {
	return r.db.write(func(st *state) error {
		cur, ok := st.tickets[ticketID]
		if !ok {
			return domain.NotFound("ticket %s", ticketID)
		}
		cur = cloneTicket(cur)
		cur.Logs = append(cur.Logs, log)
		st.tickets[cur.ID] = cur
		return nil
	})
}

func (r *TicketRepository) GetByID(_ context.Context, id string) (*entity.Ticket, error) {
	var out *entity.Ticket
	err := r.db.read(func(st *state) error {
		if t, ok := st.tickets[id]; ok {
			c := cloneTicket(t)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *TicketRepository) GetForUpdate(ctx context.Context, id string) (*entity.Ticket, error) {
	return r.GetByID(ctx, id)
}

func (r *TicketRepository) ListPending(_ context.Context) ([]*entity.Ticket, error) {
	out, err := r.filter(func(t *entity.Ticket) bool { return t.Status == entity.TicketPending })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r *TicketRepository) List(_ context.Context, f entity.TicketFilter) ([]*entity.Ticket, error) {
	all, err := r.filter(func(t *entity.Ticket) bool {
		if f.FactoryID != "" && t.FactoryID != f.FactoryID {
			return false
		}
		if f.Type != "" && t.Type != f.Type {
			return false
		}
		if len(f.Statuses) > 0 {
			for _, s := range f.Statuses {
				if s == t.Status {
					return true
				}
			}
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Code > all[j].Code
	})
	out := make([]*entity.Ticket, 0, len(all))
	for _, i := range page(len(all), f.Limit, f.Offset) {
		out = append(out, all[i])
	}
	return out, nil
}

func (r *TicketRepository) CountByWorkflow(_ context.Context, workflowID string) (int, error) {
	list, err := r.filter(func(t *entity.Ticket) bool { return t.WorkflowID == workflowID })
	return len(list), err
}

func (r *TicketRepository) PendingExportQuantity(_ context.Context, itemID, locationID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.db.read(func(st *state) error {
		for _, t := range st.tickets {
			if t.Type != entity.TransactionExport || t.Status != entity.TicketPending {
				continue
			}
			for _, d := range t.Details {
				if d.ItemID == itemID && d.FromLocationID == locationID {
					total = total.Add(d.Quantity)
				}
			}
		}
		return nil
	})
	return total, err
}

func (r *TicketRepository) NextSequence(_ context.Context, key string) (int, error) {
	var n int
	err := r.db.write(func(st *state) error {
		st.sequences[key]++
		n = st.sequences[key]
		return nil
	})
	return n, err
}

func (r *TicketRepository) filter(keep func(t *entity.Ticket) bool) ([]*entity.Ticket, error) {
	var out []*entity.Ticket
	err := r.db.read(func(st *state) error {
		for _, t := range st.tickets {
			c := cloneTicket(t)
			if keep(&c) {
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}
