package ticket

import (
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ToResponse mapea el ticket a su DTO.
func ToResponse(t *entity.Ticket) *dto.TicketResponse {
	out := &dto.TicketResponse{
		ID:          t.ID,
		Code:        t.Code,
		Type:        t.Type,
		WorkflowID:  t.WorkflowID,
		Status:      t.StatusLabel(),
		CurrentStep: t.CurrentStep,
		FactoryID:   t.FactoryID,
		SupplierID:  t.SupplierID,
		Description: t.Description,
		CreatorID:   t.CreatorID,
		Details:     make([]dto.TicketDetailResponse, 0, len(t.Details)),
		Steps:       make([]dto.TicketStepResponse, 0, len(t.Steps)),
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
	for _, d := range t.Details {
		out.Details = append(out.Details, dto.TicketDetailResponse{
			ID:              d.ID,
			ItemID:          d.ItemID,
			Quantity:        d.Quantity,
			InputUnit:       d.InputUnit,
			InputQuantity:   d.InputQuantity,
			FromLocationID:  d.FromLocationID,
			ToLocationID:    d.ToLocationID,
			UsageCategoryID: d.UsageCategoryID,
		})
	}
	for _, s := range t.Steps {
		typ, roleID, userID := entity.ApproverFields(s.Approver)
		out.Steps = append(out.Steps, dto.TicketStepResponse{
			Order:          s.Order,
			Name:           s.Name,
			ApproverType:   typ,
			RoleID:         roleID,
			SpecificUserID: userID,
			Status:         s.Status,
			ActorID:        s.ActorID,
			ActedAt:        s.ActedAt,
			Note:           s.Note,
		})
	}
	for _, l := range t.Logs {
		out.Logs = append(out.Logs, dto.TicketLogResponse{
			UserID: l.UserID, Action: l.Action, Comment: l.Comment, CreatedAt: l.CreatedAt,
		})
	}
	return out
}
