// Package authz resuelve permisos efectivos: la unión de los permisos del rol y los
// asignados directamente al usuario. Un rol con IsSuperAdmin omite todas las verificaciones.
package authz

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// Authorizer única capa de autorización del motor.
type Authorizer struct {
	roles repository.RoleRepository
}

// NewAuthorizer construye el autorizador.
func NewAuthorizer(roles repository.RoleRepository) *Authorizer {
	return &Authorizer{roles: roles}
}

// IsSuperAdmin indica si el rol del actor tiene la capacidad de super-administrador.
func (a *Authorizer) IsSuperAdmin(ctx context.Context, actor entity.Actor) (bool, error) {
	if actor.RoleID == "" {
		return false, nil
	}
	role, err := a.roles.GetByID(ctx, actor.RoleID)
	if err != nil {
		return false, fmt.Errorf("get role: %w", err)
	}
	return role != nil && role.IsSuperAdmin, nil
}

// MergedPermissions devuelve el conjunto efectivo de permisos del actor, ordenado.
func (a *Authorizer) MergedPermissions(ctx context.Context, actor entity.Actor) ([]string, error) {
	set := map[string]struct{}{}
	if actor.RoleID != "" {
		role, err := a.roles.GetByID(ctx, actor.RoleID)
		if err != nil {
			return nil, fmt.Errorf("get role: %w", err)
		}
		if role != nil {
			for _, p := range role.Permissions {
				set[p] = struct{}{}
			}
		}
	}
	own, err := a.roles.UserPermissions(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("user permissions: %w", err)
	}
	for _, p := range own {
		set[p] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// HasPermission indica si el actor tiene permissionID (super-admin siempre).
func (a *Authorizer) HasPermission(ctx context.Context, actor entity.Actor, permissionID string) (bool, error) {
	super, err := a.IsSuperAdmin(ctx, actor)
	if err != nil || super {
		return super, err
	}
	perms, err := a.MergedPermissions(ctx, actor)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if p == permissionID {
			return true, nil
		}
	}
	return false, nil
}

// Require devuelve ErrForbidden si el actor no tiene permissionID.
func (a *Authorizer) Require(ctx context.Context, actor entity.Actor, permissionID string) error {
	if actor.ID == "" {
		return domain.ErrUnauthorized
	}
	ok, err := a.HasPermission(ctx, actor, permissionID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Forbidden("el usuario no tiene el permiso %s", permissionID)
	}
	return nil
}
