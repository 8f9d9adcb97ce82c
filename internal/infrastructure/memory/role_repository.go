package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// RoleStore implementa repository.RoleRepository. Vive fuera del estado transaccional:
// los roles los administra el colaborador de identidad.
type RoleStore struct {
	mu        sync.RWMutex
	roles     map[string]entity.Role
	userPerms map[string][]string
}

// NewRoleStore crea un store de roles vacío.
func NewRoleStore() *RoleStore {
	return &RoleStore{roles: map[string]entity.Role{}, userPerms: map[string][]string{}}
}

// PutRole registra o reemplaza un rol.
func (s *RoleStore) PutRole(role entity.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role.Permissions = append([]string(nil), role.Permissions...)
	s.roles[role.ID] = role
}

// Grant asigna permisos directos a un usuario.
func (s *RoleStore) Grant(userID string, perms ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userPerms[userID] = append(s.userPerms[userID], perms...)
}

func (s *RoleStore) GetByID(_ context.Context, id string) (*entity.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[id]
	if !ok {
		return nil, nil
	}
	r.Permissions = append([]string(nil), r.Permissions...)
	return &r, nil
}

func (s *RoleStore) UserPermissions(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.userPerms[userID]...), nil
}
