package ticket

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/approval"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ListPending bandeja del actor: tickets pendientes cuyo paso actual le corresponde.
// No aplica el bypass de super-admin: muestra el trabajo asignado, no todo lo visible.
func (uc *UseCase) ListPending(ctx context.Context, actor entity.Actor) ([]dto.TicketResponse, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	list, err := uc.tickets.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TicketResponse, 0)
	for _, t := range list {
		step := t.CurrentStepRecord()
		if step == nil || step.Status != entity.StepPending {
			continue
		}
		if approval.IsEligibleApprover(step, actor, t.CreatorID) {
			out = append(out, *ToResponse(t))
		}
	}
	return out, nil
}

// GetDetail devuelve el ticket completo con su historial. Visible para el creador, un
// aprobador elegible del paso actual o un super-admin.
func (uc *UseCase) GetDetail(ctx context.Context, actor entity.Actor, ticketID string) (*dto.TicketResponse, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	t, err := uc.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("ticket %s", ticketID)
	}
	if t.CreatorID != actor.ID {
		super, err := uc.authz.IsSuperAdmin(ctx, actor)
		if err != nil {
			return nil, err
		}
		step := t.CurrentStepRecord()
		if !super && (step == nil || !approval.IsEligibleApprover(step, actor, t.CreatorID)) {
			return nil, domain.Forbidden("el usuario no puede ver el ticket %s", t.Code)
		}
	}
	return ToResponse(t), nil
}

// List historial de tickets. Requiere STOCK_VIEW; fuera de super-admin se limita a la
// planta del actor.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor, filter entity.TicketFilter) (*dto.TicketListResponse, error) {
	if err := uc.authz.Require(ctx, actor, entity.PermStockView); err != nil {
		return nil, err
	}
	super, err := uc.authz.IsSuperAdmin(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !super {
		if actor.FactoryID == "" {
			return &dto.TicketListResponse{Items: []dto.TicketResponse{}, Page: dto.PageResponse{Limit: filter.Limit}}, nil
		}
		filter.FactoryID = actor.FactoryID
	}
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}.Normalize()
	filter.Limit, filter.Offset = page.Limit, page.Offset
	list, err := uc.tickets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.TicketListResponse{
		Items: make([]dto.TicketResponse, 0, len(list)),
		Page:  page.Response(),
	}
	for _, t := range list {
		out.Items = append(out.Items, *ToResponse(t))
	}
	return out, nil
}
