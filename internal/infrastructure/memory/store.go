// Package memory implementa los repositorios sobre un estado en memoria con transacciones
// por copia: Run trabaja sobre un clon del estado y solo lo publica si fn termina sin error.
// Se usa en pruebas y con STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

type stockKey struct {
	itemID     string
	locationID string
}

type state struct {
	items      map[string]entity.Item
	factories  map[string]entity.Factory
	warehouses map[string]entity.Warehouse
	locations  map[string]entity.Location
	stock      map[stockKey]entity.Stock
	movements  []entity.Movement
	workflows  map[string]entity.Workflow
	tickets    map[string]entity.Ticket
	sequences  map[string]int
}

func newState() *state {
	return &state{
		items:      map[string]entity.Item{},
		factories:  map[string]entity.Factory{},
		warehouses: map[string]entity.Warehouse{},
		locations:  map[string]entity.Location{},
		stock:      map[stockKey]entity.Stock{},
		workflows:  map[string]entity.Workflow{},
		tickets:    map[string]entity.Ticket{},
		sequences:  map[string]int{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.items {
		c.items[k] = cloneItem(v)
	}
	for k, v := range s.factories {
		c.factories[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	c.movements = append(make([]entity.Movement, 0, len(s.movements)), s.movements...)
	for k, v := range s.workflows {
		c.workflows[k] = cloneWorkflow(v)
	}
	for k, v := range s.tickets {
		c.tickets[k] = cloneTicket(v)
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// access ejecuta fn sobre el estado: con lock propio (fuera de transacción) o sobre el
// clon de la transacción en curso.
type access interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// Store estado en memoria compartido por todos los repositorios.
type Store struct {
	mu    sync.RWMutex
	st    *state
	Roles *RoleStore
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState(), Roles: NewRoleStore()}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos devuelve los repositorios fuera de transacción; cada llamada es atómica por sí sola.
func (s *Store) Repos() repository.TxRepos {
	return reposFor(s)
}

// Run ejecuta fn con repositorios atados a una transacción. Las transacciones se serializan;
// si fn devuelve error ninguna escritura queda visible.
func (s *Store) Run(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &txState{st: s.st.clone()}
	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

type txState struct {
	st *state
}

func (t *txState) read(fn func(st *state) error) error  { return fn(t.st) }
func (t *txState) write(fn func(st *state) error) error { return fn(t.st) }

func reposFor(a access) repository.TxRepos {
	return repository.TxRepos{
		Stock:     &StockRepository{db: a},
		Movements: &MovementRepository{db: a},
		Tickets:   &TicketRepository{db: a},
		Items:     &ItemRepository{db: a},
		Locations: &LocationRepository{db: a},
		Workflows: &WorkflowRepository{db: a},
	}
}

func cloneItem(i entity.Item) entity.Item {
	i.Conversions = append([]entity.UnitConversion(nil), i.Conversions...)
	return i
}

func cloneWorkflow(w entity.Workflow) entity.Workflow {
	w.AllowedInitiatorRoles = append([]string(nil), w.AllowedInitiatorRoles...)
	w.Steps = append([]entity.WorkflowStep(nil), w.Steps...)
	return w
}

func cloneTicket(t entity.Ticket) entity.Ticket {
	t.Details = append([]entity.TransactionDetail(nil), t.Details...)
	t.Steps = append([]entity.TicketStep(nil), t.Steps...)
	t.Logs = append([]entity.TicketLog(nil), t.Logs...)
	return t
}
