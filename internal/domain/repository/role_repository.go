package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// RoleRepository fuente de roles y permisos por usuario (colaborador de identidad).
type RoleRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Role, error)
	// UserPermissions devuelve los permisos asignados directamente al usuario.
	UserPermissions(ctx context.Context, userID string) ([]string, error)
}
