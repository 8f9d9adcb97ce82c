package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo roles y permisos directos de usuario sobre PostgreSQL.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// GetByID obtiene un rol con sus permisos. nil si no existe.
func (r *RoleRepo) GetByID(ctx context.Context, id string) (*entity.Role, error) {
	var role entity.Role
	err := r.q.QueryRow(ctx, `SELECT id, name, is_super_admin, permissions FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.IsSuperAdmin, &role.Permissions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &role, nil
}

// UserPermissions permisos asignados directamente al usuario.
func (r *RoleRepo) UserPermissions(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT permission_id FROM user_permissions WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user permissions: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
