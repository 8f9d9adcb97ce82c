package ticket

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/ports"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/approval"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// Approve aprueba el paso actual. Si no es el último el ticket avanza; si es el último se
// aplica el efecto sobre el ledger y el ticket queda APPLIED. Si la aplicación final falla
// por stock insuficiente no se aplica nada, el ticket pasa a REJECTED (AUTO_REJECT) en una
// transacción aparte y se devuelve ErrInsufficientStock.
func (uc *UseCase) Approve(ctx context.Context, actor entity.Actor, ticketID string, in dto.TicketActionRequest) (*dto.TicketResponse, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	super, err := uc.authz.IsSuperAdmin(ctx, actor)
	if err != nil {
		return nil, err
	}

	var t *entity.Ticket
	var stepOrder int
	err = uc.tx.Run(ctx, func(tx repository.TxRepos) error {
		var err error
		t, err = uc.lockPending(ctx, tx, ticketID, in.StepIndex)
		if err != nil {
			return err
		}
		step := t.CurrentStepRecord()
		if !approval.CanApprove(step, actor, t.CreatorID, super) {
			return domain.Forbidden("el usuario no es aprobador del paso %d", t.CurrentStep)
		}
		stepOrder = t.CurrentStep

		now := uc.now()
		step.Status = entity.StepApproved
		step.ActorID = actor.ID
		step.ActedAt = &now
		step.Note = in.Comment
		t.UpdatedAt = now
		logs := []entity.TicketLog{{UserID: actor.ID, Action: entity.LogApprove, Comment: in.Comment, CreatedAt: now}}

		if !t.IsLastStep() {
			t.CurrentStep++
			return uc.save(ctx, tx, t, false, logs...)
		}
		if err := uc.ledger.Apply(ctx, tx, t.ID, actor.ID, terminalDeltas(t), now); err != nil {
			return err
		}
		t.Status = entity.TicketApplied
		t.CurrentStep = 0
		t.CompletedAt = &now
		logs = append(logs, entity.TicketLog{UserID: actor.ID, Action: entity.LogApply, CreatedAt: now})
		return uc.save(ctx, tx, t, false, logs...)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) && stepOrder > 0 {
			return nil, uc.autoReject(ctx, actor, ticketID, stepOrder, err)
		}
		return nil, err
	}

	if t.Status == entity.TicketApplied {
		uc.log.Info().Str("ticket_id", t.ID).Str("code", t.Code).Str("user_id", actor.ID).Msg("ticket aplicado")
		uc.notify(ports.EventTicketApplied, t, actor.ID)
	} else {
		uc.log.Info().Str("ticket_id", t.ID).Str("status", t.StatusLabel()).Str("user_id", actor.ID).Msg("paso aprobado")
		uc.notify(ports.EventTicketAdvanced, t, actor.ID)
	}
	return ToResponse(t), nil
}

// autoReject marca REJECTED un ticket cuya aplicación final falló. Solo actúa si el ticket
// sigue pendiente en el mismo paso; devuelve el error original de stock.
func (uc *UseCase) autoReject(ctx context.Context, actor entity.Actor, ticketID string, stepOrder int, cause error) error {
	var t *entity.Ticket
	err := uc.tx.Run(ctx, func(tx repository.TxRepos) error {
		var err error
		t, err = tx.Tickets.GetForUpdate(ctx, ticketID)
		if err != nil || t == nil {
			return err
		}
		if t.Status != entity.TicketPending || t.CurrentStep != stepOrder {
			t = nil
			return nil
		}
		now := uc.now()
		reason := domain.Reason(cause)
		if err := uc.releaseSource(ctx, tx, t, actor.ID, now); err != nil {
			return err
		}
		step := t.CurrentStepRecord()
		step.Status = entity.StepRejected
		step.ActorID = actor.ID
		step.ActedAt = &now
		step.Note = reason
		t.Status = entity.TicketRejected
		t.CurrentStep = 0
		t.CompletedAt = &now
		t.UpdatedAt = now
		return uc.save(ctx, tx, t, false, entity.TicketLog{
			UserID: actor.ID, Action: entity.LogAutoReject, Comment: reason, CreatedAt: now,
		})
	})
	if err != nil {
		uc.log.Error().Err(err).Str("ticket_id", ticketID).Msg("no se pudo rechazar automáticamente el ticket")
		return cause
	}
	if t != nil {
		uc.log.Warn().Str("ticket_id", t.ID).Str("code", t.Code).Str("reason", domain.Reason(cause)).Msg("ticket rechazado automáticamente")
		uc.notify(ports.EventTicketAutoRejected, t, actor.ID)
		return domain.InsufficientStock("%s; el ticket %s fue rechazado", domain.Reason(cause), t.Code)
	}
	return cause
}

// Reject rechaza el ticket en el paso actual. Un TRANSFER devuelve al origen lo debitado.
func (uc *UseCase) Reject(ctx context.Context, actor entity.Actor, ticketID string, in dto.TicketActionRequest) (*dto.TicketResponse, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	super, err := uc.authz.IsSuperAdmin(ctx, actor)
	if err != nil {
		return nil, err
	}
	var t *entity.Ticket
	err = uc.tx.Run(ctx, func(tx repository.TxRepos) error {
		var err error
		t, err = uc.lockPending(ctx, tx, ticketID, in.StepIndex)
		if err != nil {
			return err
		}
		step := t.CurrentStepRecord()
		if !approval.CanApprove(step, actor, t.CreatorID, super) {
			return domain.Forbidden("el usuario no es aprobador del paso %d", t.CurrentStep)
		}
		now := uc.now()
		if err := uc.releaseSource(ctx, tx, t, actor.ID, now); err != nil {
			return err
		}
		step.Status = entity.StepRejected
		step.ActorID = actor.ID
		step.ActedAt = &now
		step.Note = in.Comment
		t.Status = entity.TicketRejected
		t.CurrentStep = 0
		t.CompletedAt = &now
		t.UpdatedAt = now
		return uc.save(ctx, tx, t, false, entity.TicketLog{
			UserID: actor.ID, Action: entity.LogReject, Comment: in.Comment, CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("ticket_id", t.ID).Str("code", t.Code).Str("user_id", actor.ID).Msg("ticket rechazado")
	uc.notify(ports.EventTicketRejected, t, actor.ID)
	return ToResponse(t), nil
}

// Cancel cancela un ticket en DRAFT o en el primer paso sin aprobaciones. Solo el creador.
func (uc *UseCase) Cancel(ctx context.Context, actor entity.Actor, ticketID string, in dto.TicketActionRequest) (*dto.TicketResponse, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	var t *entity.Ticket
	err := uc.tx.Run(ctx, func(tx repository.TxRepos) error {
		var err error
		t, err = tx.Tickets.GetForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.NotFound("ticket %s", ticketID)
		}
		if t.CreatorID != actor.ID {
			return domain.Forbidden("solo el creador puede cancelar el ticket")
		}
		cancellable := t.Status == entity.TicketDraft ||
			(t.Status == entity.TicketPending && t.CurrentStep == 1 && t.ApprovalCount() == 0)
		if !cancellable {
			return domain.Conflict("el ticket %s ya no se puede cancelar (%s)", t.Code, t.StatusLabel())
		}
		now := uc.now()
		if err := uc.releaseSource(ctx, tx, t, actor.ID, now); err != nil {
			return err
		}
		t.Status = entity.TicketCancelled
		t.CurrentStep = 0
		t.CompletedAt = &now
		t.UpdatedAt = now
		return uc.save(ctx, tx, t, false, entity.TicketLog{
			UserID: actor.ID, Action: entity.LogCancel, Comment: in.Comment, CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("ticket_id", t.ID).Str("code", t.Code).Str("user_id", actor.ID).Msg("ticket cancelado")
	uc.notify(ports.EventTicketCancelled, t, actor.ID)
	return ToResponse(t), nil
}

// lockPending bloquea el ticket y verifica que siga pendiente en el paso esperado
// (stepIndex 0 = el actual).
func (uc *UseCase) lockPending(ctx context.Context, tx repository.TxRepos, ticketID string, stepIndex int) (*entity.Ticket, error) {
	t, err := tx.Tickets.GetForUpdate(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("ticket %s", ticketID)
	}
	if t.Status != entity.TicketPending {
		return nil, domain.Conflict("el ticket %s ya fue procesado (%s)", t.Code, t.StatusLabel())
	}
	if stepIndex != 0 && stepIndex != t.CurrentStep {
		return nil, domain.Conflict("el paso %d ya no está en curso (actual %d)", stepIndex, t.CurrentStep)
	}
	if t.CurrentStepRecord() == nil {
		return nil, domain.Conflict("el ticket %s no tiene el paso %d", t.Code, t.CurrentStep)
	}
	return t, nil
}

// releaseSource revierte el débito de origen de un TRANSFER no completado.
func (uc *UseCase) releaseSource(ctx context.Context, tx repository.TxRepos, t *entity.Ticket, actorID string, now time.Time) error {
	if t.Type != entity.TransactionTransfer || !t.SourceDebited {
		return nil
	}
	if err := uc.ledger.Apply(ctx, tx, t.ID, actorID, reversalCredits(t), now); err != nil {
		return err
	}
	t.SourceDebited = false
	return nil
}
