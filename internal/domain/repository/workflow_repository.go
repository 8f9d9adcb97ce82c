package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// WorkflowRepository define el puerto de persistencia del registro de flujos.
type WorkflowRepository interface {
	Create(ctx context.Context, w *entity.Workflow) error
	// Update reemplaza los datos y la lista completa de pasos.
	Update(ctx context.Context, w *entity.Workflow) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Workflow, error)
	GetByCode(ctx context.Context, code string) (*entity.Workflow, error)
	List(ctx context.Context) ([]*entity.Workflow, error)
}
