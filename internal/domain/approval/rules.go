// Package approval reúne las reglas puras de los flujos de aprobación: validación de pasos
// al guardar, resolución del aprobador de un paso y elegibilidad del iniciador.
package approval

import (
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// NewApprover construye la regla tipada a partir de los campos planos. Rechaza
// combinaciones inválidas (ROLE sin roleId, SPECIFIC_USER sin specificUserId, CREATOR con ids).
func NewApprover(approverType, roleID, userID string) (entity.Approver, error) {
	switch approverType {
	case entity.ApproverRole:
		if roleID == "" {
			return nil, domain.Validation("un paso ROLE requiere roleId")
		}
		if userID != "" {
			return nil, domain.Validation("un paso ROLE no admite specificUserId")
		}
		return entity.RoleApprover{RoleID: roleID}, nil
	case entity.ApproverSpecificUser:
		if userID == "" {
			return nil, domain.Validation("un paso SPECIFIC_USER requiere specificUserId")
		}
		if roleID != "" {
			return nil, domain.Validation("un paso SPECIFIC_USER no admite roleId")
		}
		return entity.UserApprover{UserID: userID}, nil
	case entity.ApproverCreator:
		if roleID != "" || userID != "" {
			return nil, domain.Validation("un paso CREATOR no admite roleId ni specificUserId")
		}
		return entity.CreatorApprover{}, nil
	}
	return nil, domain.Validation("approverType desconocido: %q", approverType)
}

// NormalizeSteps asigna Order = índice+1 a los pasos sin orden, los ordena y valida que el
// orden sea único y contiguo desde 1.
func NormalizeSteps(steps []entity.WorkflowStep) ([]entity.WorkflowStep, error) {
	if len(steps) == 0 {
		return nil, domain.Validation("el flujo debe tener al menos un paso de aprobación")
	}
	out := make([]entity.WorkflowStep, len(steps))
	copy(out, steps)
	for i := range out {
		if out[i].Order == 0 {
			out[i].Order = i + 1
		}
		if out[i].Approver == nil {
			return nil, domain.Validation("el paso %d no tiene regla de aprobador", out[i].Order)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Order < out[b].Order })
	for i, s := range out {
		if s.Order != i+1 {
			return nil, domain.Validation("el orden de los pasos debe ser único y contiguo desde 1 (paso %d)", s.Order)
		}
	}
	return out, nil
}

// ValidateWorkflow valida una definición completa antes de persistirla.
func ValidateWorkflow(w *entity.Workflow) error {
	if w.Code == "" {
		return domain.Validation("code es requerido")
	}
	if w.Name == "" {
		return domain.Validation("name es requerido")
	}
	switch w.AppliesTo {
	case entity.WorkflowTargetStock, entity.TransactionImport, entity.TransactionExport, entity.TransactionTransfer:
	default:
		return domain.Validation("appliesTo inválido: %q", w.AppliesTo)
	}
	steps, err := NormalizeSteps(w.Steps)
	if err != nil {
		return err
	}
	w.Steps = steps
	return nil
}

// CanApprove indica si actor satisface la regla del paso. superAdmin siempre puede.
func CanApprove(step *entity.TicketStep, actor entity.Actor, creatorID string, superAdmin bool) bool {
	if superAdmin {
		return true
	}
	return matches(step.Approver, actor, creatorID)
}

// IsEligibleApprover igual que CanApprove pero sin bypass: se usa para la bandeja de
// pendientes, que muestra solo el trabajo asignado.
func IsEligibleApprover(step *entity.TicketStep, actor entity.Actor, creatorID string) bool {
	return matches(step.Approver, actor, creatorID)
}

func matches(a entity.Approver, actor entity.Actor, creatorID string) bool {
	switch v := a.(type) {
	case entity.RoleApprover:
		return v.RoleID != "" && v.RoleID == actor.RoleID
	case entity.UserApprover:
		return v.UserID != "" && v.UserID == actor.ID
	case entity.CreatorApprover:
		return creatorID != "" && creatorID == actor.ID
	}
	return false
}

// CanInitiate indica si el rol del actor puede iniciar tickets con el flujo.
func CanInitiate(w *entity.Workflow, roleID string, superAdmin bool) bool {
	if superAdmin || len(w.AllowedInitiatorRoles) == 0 {
		return true
	}
	for _, r := range w.AllowedInitiatorRoles {
		if r == roleID {
			return true
		}
	}
	return false
}

// SnapshotSteps copia los pasos del flujo al ticket, todos en PENDING.
func SnapshotSteps(w *entity.Workflow) []entity.TicketStep {
	out := make([]entity.TicketStep, 0, len(w.Steps))
	for _, s := range w.Steps {
		out = append(out, entity.TicketStep{
			Order:    s.Order,
			Name:     s.Name,
			Approver: s.Approver,
			Status:   entity.StepPending,
		})
	}
	return out
}
