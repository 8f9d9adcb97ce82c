package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/approval"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.TicketRepository = (*TicketRepo)(nil)

// TicketRepo tickets con líneas, pasos e historial sobre PostgreSQL (usable con pool o tx).
type TicketRepo struct {
	q Querier
}

// NewTicketRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTicketRepository(q Querier) *TicketRepo {
	return &TicketRepo{q: q}
}

const ticketColumns = `id, code, type, COALESCE(workflow_id, ''), status, current_step, factory_id, supplier_id,
	description, creator_id, source_debited, created_at, updated_at, completed_at`

// Create persiste el ticket con sus líneas, pasos e historial.
func (r *TicketRepo) Create(ctx context.Context, t *entity.Ticket) error {
	query := `
		INSERT INTO tickets (id, code, type, workflow_id, status, current_step, factory_id, supplier_id,
		                     description, creator_id, source_debited, created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Code, t.Type, nullIfEmpty(t.WorkflowID), t.Status, t.CurrentStep, t.FactoryID, t.SupplierID,
		t.Description, t.CreatorID, t.SourceDebited, t.CreatedAt, t.UpdatedAt, t.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("el ticket %s ya existe", t.Code)
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	for i, d := range t.Details {
		_, err := r.q.Exec(ctx, `
			INSERT INTO ticket_details (id, ticket_id, line_no, item_id, quantity, input_unit, input_quantity,
			                            from_location_id, to_location_id, usage_category_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			d.ID, t.ID, i+1, d.ItemID, d.Quantity, d.InputUnit, d.InputQuantity,
			d.FromLocationID, d.ToLocationID, d.UsageCategoryID)
		if err != nil {
			return fmt.Errorf("insert ticket detail: %w", err)
		}
	}
	if err := r.insertSteps(ctx, t); err != nil {
		return err
	}
	for _, l := range t.Logs {
		if err := r.AddLog(ctx, t.ID, l); err != nil {
			return err
		}
	}
	return nil
}

// Update persiste estado, paso actual y flujo, y reemplaza el snapshot de pasos.
func (r *TicketRepo) Update(ctx context.Context, t *entity.Ticket) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE tickets SET workflow_id = $2, status = $3, current_step = $4, source_debited = $5,
		       updated_at = $6, completed_at = $7
		WHERE id = $1`,
		t.ID, nullIfEmpty(t.WorkflowID), t.Status, t.CurrentStep, t.SourceDebited, t.UpdatedAt, t.CompletedAt)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("ticket %s", t.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM ticket_steps WHERE ticket_id = $1`, t.ID); err != nil {
		return fmt.Errorf("delete ticket steps: %w", err)
	}
	return r.insertSteps(ctx, t)
}

func (r *TicketRepo) insertSteps(ctx context.Context, t *entity.Ticket) error {
	for _, s := range t.Steps {
		typ, roleID, userID := entity.ApproverFields(s.Approver)
		_, err := r.q.Exec(ctx, `
			INSERT INTO ticket_steps (ticket_id, step_order, name, approver_type, role_id, specific_user_id,
			                          status, actor_id, acted_at, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			t.ID, s.Order, s.Name, typ, roleID, userID, s.Status, s.ActorID, s.ActedAt, s.Note)
		if err != nil {
			return fmt.Errorf("insert ticket step: %w", err)
		}
	}
	return nil
}

// AddLog agrega una entrada al historial.
func (r *TicketRepo) AddLog(ctx context.Context, ticketID string, log entity.TicketLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ticket_logs (ticket_id, user_id, action, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)`, ticketID, log.UserID, log.Action, log.Comment, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ticket log: %w", err)
	}
	return nil
}

// GetByID obtiene el ticket completo.
func (r *TicketRepo) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	return r.getOne(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
}

// GetForUpdate obtiene el ticket bloqueando su fila hasta el fin de la transacción.
func (r *TicketRepo) GetForUpdate(ctx context.Context, id string) (*entity.Ticket, error) {
	return r.getOne(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1 FOR UPDATE`, id)
}

func (r *TicketRepo) getOne(ctx context.Context, query, id string) (*entity.Ticket, error) {
	t, err := scanTicket(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if err := r.loadChildren(ctx, t, true); err != nil {
		return nil, err
	}
	return t, nil
}

// ListPending tickets en PENDING, del más antiguo al más reciente.
func (r *TicketRepo) ListPending(ctx context.Context) ([]*entity.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE status = $1 ORDER BY created_at`, entity.TicketPending)
}

// List historial filtrado y paginado, del más reciente al más antiguo.
func (r *TicketRepo) List(ctx context.Context, f entity.TicketFilter) ([]*entity.Ticket, error) {
	var (
		where = []string{"TRUE"}
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.FactoryID != "" {
		add("factory_id = $%d", f.FactoryID)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if len(f.Statuses) > 0 {
		add("status = ANY($%d)", f.Statuses)
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC, code DESC LIMIT $%d OFFSET $%d`,
		ticketColumns, strings.Join(where, " AND "), len(args)-1, len(args))
	return r.list(ctx, query, args...)
}

func (r *TicketRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Ticket, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	var out []*entity.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		out = append(out, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range out {
		if err := r.loadChildren(ctx, t, false); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CountByWorkflow cantidad de tickets que referencian el flujo.
func (r *TicketRepo) CountByWorkflow(ctx context.Context, workflowID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE workflow_id = $1`, workflowID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tickets by workflow: %w", err)
	}
	return n, nil
}

// PendingExportQuantity suma las líneas EXPORT pendientes para (artículo, ubicación).
func (r *TicketRepo) PendingExportQuantity(ctx context.Context, itemID, locationID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(d.quantity), 0)
		FROM ticket_details d
		JOIN tickets t ON t.id = d.ticket_id
		WHERE t.type = $1 AND t.status = $2 AND d.item_id = $3 AND d.from_location_id = $4`,
		entity.TransactionExport, entity.TicketPending, itemID, locationID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("pending export quantity: %w", err)
	}
	return total, nil
}

// NextSequence incrementa atómicamente el contador de la clave.
func (r *TicketRepo) NextSequence(ctx context.Context, key string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		INSERT INTO ticket_sequences (key, value) VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET value = ticket_sequences.value + 1
		RETURNING value`, key).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next ticket sequence: %w", err)
	}
	return n, nil
}

func (r *TicketRepo) loadChildren(ctx context.Context, t *entity.Ticket, withLogs bool) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, item_id, quantity, input_unit, input_quantity, from_location_id, to_location_id, usage_category_id
		FROM ticket_details WHERE ticket_id = $1 ORDER BY line_no`, t.ID)
	if err != nil {
		return fmt.Errorf("list ticket details: %w", err)
	}
	for rows.Next() {
		var d entity.TransactionDetail
		if err := rows.Scan(&d.ID, &d.ItemID, &d.Quantity, &d.InputUnit, &d.InputQuantity,
			&d.FromLocationID, &d.ToLocationID, &d.UsageCategoryID); err != nil {
			rows.Close()
			return fmt.Errorf("scan ticket detail: %w", err)
		}
		t.Details = append(t.Details, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.q.Query(ctx, `
		SELECT step_order, name, approver_type, role_id, specific_user_id, status, actor_id, acted_at, note
		FROM ticket_steps WHERE ticket_id = $1 ORDER BY step_order`, t.ID)
	if err != nil {
		return fmt.Errorf("list ticket steps: %w", err)
	}
	for rows.Next() {
		var s entity.TicketStep
		var typ, roleID, userID string
		if err := rows.Scan(&s.Order, &s.Name, &typ, &roleID, &userID, &s.Status, &s.ActorID, &s.ActedAt, &s.Note); err != nil {
			rows.Close()
			return fmt.Errorf("scan ticket step: %w", err)
		}
		if s.Approver, err = approval.NewApprover(typ, roleID, userID); err != nil {
			rows.Close()
			return fmt.Errorf("ticket %s paso %d: %w", t.Code, s.Order, err)
		}
		t.Steps = append(t.Steps, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if !withLogs {
		return nil
	}

	rows, err = r.q.Query(ctx, `
		SELECT user_id, action, comment, created_at
		FROM ticket_logs WHERE ticket_id = $1 ORDER BY id`, t.ID)
	if err != nil {
		return fmt.Errorf("list ticket logs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.TicketLog
		if err := rows.Scan(&l.UserID, &l.Action, &l.Comment, &l.CreatedAt); err != nil {
			return fmt.Errorf("scan ticket log: %w", err)
		}
		t.Logs = append(t.Logs, l)
	}
	return rows.Err()
}

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var t entity.Ticket
	err := row.Scan(&t.ID, &t.Code, &t.Type, &t.WorkflowID, &t.Status, &t.CurrentStep, &t.FactoryID,
		&t.SupplierID, &t.Description, &t.CreatorID, &t.SourceDebited, &t.CreatedAt, &t.UpdatedAt, &t.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
