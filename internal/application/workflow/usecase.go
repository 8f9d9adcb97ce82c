package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-ledger/internal/application/authz"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/approval"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// UseCase CRUD de administrador para el registro de flujos de aprobación.
// Las ediciones solo afectan tickets futuros: cada ticket guarda su propio snapshot de pasos.
type UseCase struct {
	repo    repository.WorkflowRepository
	tickets repository.TicketRepository
	authz   *authz.Authorizer
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.WorkflowRepository, tickets repository.TicketRepository, az *authz.Authorizer) *UseCase {
	return &UseCase{repo: repo, tickets: tickets, authz: az}
}

// Create valida y registra un flujo nuevo. Code duplicado → ErrConflict.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.WorkflowRequest) (*dto.WorkflowResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.PermWorkflowManage); err != nil {
		return nil, err
	}
	w, err := fromRequest(in)
	if err != nil {
		return nil, err
	}
	if in.IsActive == nil {
		w.IsActive = true
	}
	if err := approval.ValidateWorkflow(w); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, w.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("el código de flujo %q ya existe", w.Code)
	}
	now := time.Now()
	w.ID = uuid.New().String()
	w.CreatedAt, w.UpdatedAt = now, now
	assignStepIDs(w)
	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return ToResponse(w), nil
}

// Update reemplaza datos y pasos de un flujo existente. El código no cambia.
func (uc *UseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.WorkflowRequest) (*dto.WorkflowResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.PermWorkflowManage); err != nil {
		return nil, err
	}
	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.NotFound("flujo %s", id)
	}
	w, err := fromRequest(in)
	if err != nil {
		return nil, err
	}
	w.ID = current.ID
	w.Code = current.Code
	w.CreatedAt = current.CreatedAt
	w.UpdatedAt = time.Now()
	w.IsActive = current.IsActive
	if in.IsActive != nil {
		w.IsActive = *in.IsActive
	}
	if err := approval.ValidateWorkflow(w); err != nil {
		return nil, err
	}
	assignStepIDs(w)
	if err := uc.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return ToResponse(w), nil
}

// Delete elimina un flujo sin tickets asociados; si tiene tickets → ErrConflict (desactivarlo).
func (uc *UseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if err := uc.authz.Require(ctx, actor, entity.PermWorkflowManage); err != nil {
		return err
	}
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if w == nil {
		return domain.NotFound("flujo %s", id)
	}
	used, err := uc.tickets.CountByWorkflow(ctx, id)
	if err != nil {
		return err
	}
	if used > 0 {
		return domain.Conflict("el flujo %s tiene %d tickets; desactívelo en lugar de eliminarlo", w.Code, used)
	}
	return uc.repo.Delete(ctx, id)
}

// Get obtiene un flujo por ID.
func (uc *UseCase) Get(ctx context.Context, actor entity.Actor, id string) (*dto.WorkflowResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.PermWorkflowManage); err != nil {
		return nil, err
	}
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.NotFound("flujo %s", id)
	}
	return ToResponse(w), nil
}

// List lista todos los flujos ordenados por código.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor) ([]*dto.WorkflowResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.PermWorkflowManage); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.WorkflowResponse, 0, len(list))
	for _, w := range list {
		out = append(out, ToResponse(w))
	}
	return out, nil
}

func fromRequest(in dto.WorkflowRequest) (*entity.Workflow, error) {
	w := &entity.Workflow{
		Code:                  in.Code,
		Name:                  in.Name,
		Description:           in.Description,
		AppliesTo:             in.AppliesTo,
		AllowedInitiatorRoles: append([]string{}, in.AllowedInitiatorRoles...),
	}
	if in.IsActive != nil {
		w.IsActive = *in.IsActive
	}
	if w.AppliesTo == "" {
		w.AppliesTo = entity.WorkflowTargetStock
	}
	for i, s := range in.Steps {
		a, err := approval.NewApprover(s.ApproverType, s.RoleID, s.SpecificUserID)
		if err != nil {
			return nil, domain.Validation("paso %d: %s", i+1, domain.Reason(err))
		}
		name := s.Name
		if name == "" {
			name = s.ApproverType
		}
		w.Steps = append(w.Steps, entity.WorkflowStep{Order: s.Order, Name: name, Approver: a})
	}
	return w, nil
}

func assignStepIDs(w *entity.Workflow) {
	for i := range w.Steps {
		if w.Steps[i].ID == "" {
			w.Steps[i].ID = uuid.New().String()
		}
	}
}

// ToResponse mapea el flujo a su DTO.
func ToResponse(w *entity.Workflow) *dto.WorkflowResponse {
	out := &dto.WorkflowResponse{
		ID:                    w.ID,
		Code:                  w.Code,
		Name:                  w.Name,
		Description:           w.Description,
		AppliesTo:             w.AppliesTo,
		IsActive:              w.IsActive,
		AllowedInitiatorRoles: append([]string{}, w.AllowedInitiatorRoles...),
		Steps:                 make([]dto.WorkflowStepResponse, 0, len(w.Steps)),
	}
	for _, s := range w.Steps {
		t, roleID, userID := entity.ApproverFields(s.Approver)
		out.Steps = append(out.Steps, dto.WorkflowStepResponse{
			Order: s.Order, Name: s.Name, ApproverType: t, RoleID: roleID, SpecificUserID: userID,
		})
	}
	return out
}
