package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/approval"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.WorkflowRepository = (*WorkflowRepo)(nil)

// WorkflowRepo registro de flujos sobre PostgreSQL.
type WorkflowRepo struct {
	q Querier
}

// NewWorkflowRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkflowRepository(q Querier) *WorkflowRepo {
	return &WorkflowRepo{q: q}
}

const workflowColumns = `id, code, name, description, applies_to, is_active, allowed_initiator_roles, created_at, updated_at`

// Create persiste el flujo con sus pasos. Código duplicado → ErrConflict.
func (r *WorkflowRepo) Create(ctx context.Context, w *entity.Workflow) error {
	query := `INSERT INTO workflows (` + workflowColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, w.ID, w.Code, w.Name, w.Description, w.AppliesTo, w.IsActive,
		rolesOrEmpty(w.AllowedInitiatorRoles), w.CreatedAt, w.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("el código de flujo %q ya existe", w.Code)
		}
		return fmt.Errorf("insert workflow: %w", err)
	}
	return r.insertSteps(ctx, w)
}

// Update reemplaza datos y pasos del flujo.
func (r *WorkflowRepo) Update(ctx context.Context, w *entity.Workflow) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE workflows SET name = $2, description = $3, applies_to = $4, is_active = $5,
		       allowed_initiator_roles = $6, updated_at = $7
		WHERE id = $1`,
		w.ID, w.Name, w.Description, w.AppliesTo, w.IsActive, rolesOrEmpty(w.AllowedInitiatorRoles), w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("flujo %s", w.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM workflow_steps WHERE workflow_id = $1`, w.ID); err != nil {
		return fmt.Errorf("delete workflow steps: %w", err)
	}
	return r.insertSteps(ctx, w)
}

func (r *WorkflowRepo) insertSteps(ctx context.Context, w *entity.Workflow) error {
	for _, s := range w.Steps {
		id := s.ID
		if id == "" {
			id = uuid.New().String()
		}
		typ, roleID, userID := entity.ApproverFields(s.Approver)
		_, err := r.q.Exec(ctx, `
			INSERT INTO workflow_steps (id, workflow_id, step_order, name, approver_type, role_id, specific_user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, w.ID, s.Order, s.Name, typ, roleID, userID)
		if err != nil {
			return fmt.Errorf("insert workflow step: %w", err)
		}
	}
	return nil
}

// Delete elimina el flujo (los pasos caen en cascada).
func (r *WorkflowRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM workflows WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	return nil
}

// GetByID obtiene un flujo con sus pasos.
func (r *WorkflowRepo) GetByID(ctx context.Context, id string) (*entity.Workflow, error) {
	return r.getOne(ctx, `SELECT `+workflowColumns+` FROM workflows WHERE id = $1`, id)
}

// GetByCode obtiene un flujo por código.
func (r *WorkflowRepo) GetByCode(ctx context.Context, code string) (*entity.Workflow, error) {
	return r.getOne(ctx, `SELECT `+workflowColumns+` FROM workflows WHERE code = $1`, code)
}

func (r *WorkflowRepo) getOne(ctx context.Context, query, arg string) (*entity.Workflow, error) {
	w, err := scanWorkflow(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workflow: %w", err)
	}
	if w.Steps, err = r.steps(ctx, w.ID); err != nil {
		return nil, err
	}
	return w, nil
}

// List lista todos los flujos por código.
func (r *WorkflowRepo) List(ctx context.Context) ([]*entity.Workflow, error) {
	rows, err := r.q.Query(ctx, `SELECT `+workflowColumns+` FROM workflows ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	var out []*entity.Workflow
	for rows.Next() {
		w, err := scanWorkflow(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		out = append(out, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, w := range out {
		if w.Steps, err = r.steps(ctx, w.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *WorkflowRepo) steps(ctx context.Context, workflowID string) ([]entity.WorkflowStep, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, step_order, name, approver_type, role_id, specific_user_id
		FROM workflow_steps WHERE workflow_id = $1 ORDER BY step_order`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("list workflow steps: %w", err)
	}
	defer rows.Close()
	var out []entity.WorkflowStep
	for rows.Next() {
		var s entity.WorkflowStep
		var typ, roleID, userID string
		if err := rows.Scan(&s.ID, &s.Order, &s.Name, &typ, &roleID, &userID); err != nil {
			return nil, fmt.Errorf("scan workflow step: %w", err)
		}
		if s.Approver, err = approval.NewApprover(typ, roleID, userID); err != nil {
			return nil, fmt.Errorf("workflow %s paso %d: %w", workflowID, s.Order, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanWorkflow(row pgx.Row) (*entity.Workflow, error) {
	var w entity.Workflow
	err := row.Scan(&w.ID, &w.Code, &w.Name, &w.Description, &w.AppliesTo, &w.IsActive,
		&w.AllowedInitiatorRoles, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func rolesOrEmpty(roles []string) []string {
	if roles == nil {
		return []string{}
	}
	return roles
}
