package workflow

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/approval"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// Select resuelve el flujo para una transacción. Con requestedCode el flujo debe existir,
// estar activo, aplicar al tipo y admitir al rol iniciador (super-admin siempre). Sin código
// se toma el primer flujo (por código) que cumpla lo mismo. Sin coincidencia → ErrWorkflowConfig.
func Select(
	ctx context.Context,
	repo repository.WorkflowRepository,
	txType, roleID string,
	superAdmin bool,
	requestedCode string,
) (*entity.Workflow, error) {
	if requestedCode != "" {
		w, err := repo.GetByCode(ctx, requestedCode)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, domain.WorkflowConfig("no existe el flujo %q", requestedCode)
		}
		if reason := mismatch(w, txType, roleID, superAdmin); reason != "" {
			return nil, domain.WorkflowConfig("flujo %s: %s", w.Code, reason)
		}
		return w, nil
	}

	list, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range list {
		if mismatch(w, txType, roleID, superAdmin) == "" {
			return w, nil
		}
	}
	return nil, domain.WorkflowConfig("ningún flujo activo aplica a %s para el rol %s", txType, roleID)
}

func mismatch(w *entity.Workflow, txType, roleID string, superAdmin bool) string {
	switch {
	case !w.IsActive:
		return "está inactivo"
	case !w.AppliesToType(txType):
		return "no aplica a " + txType
	case !approval.CanInitiate(w, roleID, superAdmin):
		return "el rol " + roleID + " no puede iniciarlo"
	case len(w.Steps) == 0:
		return "no tiene pasos de aprobación"
	}
	return ""
}

// Select expone la selección de flujo del registro.
func (uc *UseCase) Select(ctx context.Context, actor entity.Actor, txType, requestedCode string) (*entity.Workflow, error) {
	super, err := uc.authz.IsSuperAdmin(ctx, actor)
	if err != nil {
		return nil, err
	}
	return Select(ctx, uc.repo, txType, actor.RoleID, super, requestedCode)
}
