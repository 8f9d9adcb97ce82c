// Package ticket implementa la máquina de estados de los tickets de stock:
// creación, envío, aprobación por pasos, rechazo, cancelación y consultas.
package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-ledger/internal/application/authz"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/ports"
	"github.com/jhoicas/Inventario-ledger/internal/application/workflow"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/approval"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// UseCase orquesta los tickets. Toda mutación corre dentro de una transacción del TxRunner;
// las notificaciones se emiten después del commit.
type UseCase struct {
	tx        inventory.TxRunner
	tickets   repository.TicketRepository
	items     repository.ItemRepository
	locations repository.LocationRepository
	authz     *authz.Authorizer
	ledger    *inventory.Ledger
	notifier  ports.Notifier
	log       *logger.Logger
	now       func() time.Time
}

// Option configura el caso de uso.
type Option func(*UseCase)

// WithClock reemplaza el reloj (pruebas).
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

// WithNotifier configura el colaborador de notificaciones.
func WithNotifier(n ports.Notifier) Option {
	return func(uc *UseCase) {
		if n != nil {
			uc.notifier = n
		}
	}
}

// NewUseCase construye el caso de uso de tickets.
func NewUseCase(
	tx inventory.TxRunner,
	tickets repository.TicketRepository,
	items repository.ItemRepository,
	locations repository.LocationRepository,
	az *authz.Authorizer,
	ledger *inventory.Ledger,
	log *logger.Logger,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		tx:        tx,
		tickets:   tickets,
		items:     items,
		locations: locations,
		authz:     az,
		ledger:    ledger,
		notifier:  ports.NopNotifier{},
		log:       log,
		now:       time.Now,
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// Create valida la solicitud, convierte cantidades a unidad base y crea el ticket.
// IMPORT se aplica de inmediato; EXPORT y TRANSFER quedan en PENDING_STEP(1) tras la
// verificación de disponibilidad (TRANSFER además debita el origen). Con SaveAsDraft el
// ticket queda en DRAFT sin tocar el ledger.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateTicketRequest) (*dto.TicketCreatedResponse, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	data := in.TransactionData
	perm := entity.TicketPermission(data.Type)
	if perm == "" {
		return nil, domain.Validation("tipo de transacción inválido: %q", data.Type)
	}
	if err := uc.authz.Require(ctx, actor, perm); err != nil {
		return nil, err
	}
	super, err := uc.authz.IsSuperAdmin(ctx, actor)
	if err != nil {
		return nil, err
	}
	if data.FactoryID == "" {
		return nil, domain.Validation("factory_id es requerido")
	}
	details, err := uc.buildDetails(ctx, data.Type, data.Details)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	t := &entity.Ticket{
		ID:          uuid.New().String(),
		Type:        data.Type,
		Status:      entity.TicketDraft,
		FactoryID:   data.FactoryID,
		SupplierID:  data.SupplierID,
		Description: data.Description,
		CreatorID:   actor.ID,
		Details:     details,
		Logs:        []entity.TicketLog{{UserID: actor.ID, Action: entity.LogCreate, CreatedAt: now}},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.tx.Run(ctx, func(tx repository.TxRepos) error {
		code, err := uc.nextCode(ctx, tx.Tickets, t.Type, now)
		if err != nil {
			return err
		}
		t.Code = code
		if in.SaveAsDraft {
			if in.WorkflowCode != "" {
				w, err := workflow.Select(ctx, tx.Workflows, t.Type, actor.RoleID, super, in.WorkflowCode)
				if err != nil {
					return err
				}
				t.WorkflowID = w.ID
			}
			return tx.Tickets.Create(ctx, t)
		}
		return uc.submitInTx(ctx, tx, t, actor, super, in.WorkflowCode, true, now)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("ticket_id", t.ID).Str("code", t.Code).Str("type", t.Type).
		Str("status", t.StatusLabel()).Str("user_id", actor.ID).Msg("ticket creado")
	uc.notify(ports.EventTicketCreated, t, actor.ID)
	if t.Status == entity.TicketApplied {
		uc.notify(ports.EventTicketApplied, t, actor.ID)
	}
	return &dto.TicketCreatedResponse{ID: t.ID, Code: t.Code, Status: t.StatusLabel()}, nil
}

// Submit envía un ticket en DRAFT: mismo efecto que crearlo sin borrador. Solo el creador.
func (uc *UseCase) Submit(ctx context.Context, actor entity.Actor, ticketID, workflowCode string) (*dto.TicketCreatedResponse, error) {
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
		t, err = tx.Tickets.GetForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.NotFound("ticket %s", ticketID)
		}
		if err := uc.authz.Require(ctx, actor, entity.TicketPermission(t.Type)); err != nil {
			return err
		}
		if t.CreatorID != actor.ID {
			return domain.Forbidden("solo el creador puede enviar el borrador")
		}
		if t.Status != entity.TicketDraft {
			return domain.Conflict("el ticket %s no está en borrador (%s)", t.Code, t.StatusLabel())
		}
		code := workflowCode
		if code == "" && t.WorkflowID != "" {
			w, err := tx.Workflows.GetByID(ctx, t.WorkflowID)
			if err != nil {
				return err
			}
			if w != nil {
				code = w.Code
			}
		}
		return uc.submitInTx(ctx, tx, t, actor, super, code, false, uc.now())
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("ticket_id", t.ID).Str("status", t.StatusLabel()).Str("user_id", actor.ID).Msg("ticket enviado")
	uc.notify(ports.EventTicketSubmitted, t, actor.ID)
	if t.Status == entity.TicketApplied {
		uc.notify(ports.EventTicketApplied, t, actor.ID)
	}
	return &dto.TicketCreatedResponse{ID: t.ID, Code: t.Code, Status: t.StatusLabel()}, nil
}

// submitInTx saca el ticket de DRAFT dentro de la transacción tx.
func (uc *UseCase) submitInTx(
	ctx context.Context,
	tx repository.TxRepos,
	t *entity.Ticket,
	actor entity.Actor,
	super bool,
	workflowCode string,
	isNew bool,
	now time.Time,
) error {
	var logs []entity.TicketLog
	if !isNew {
		logs = append(logs, entity.TicketLog{UserID: actor.ID, Action: entity.LogSubmit, CreatedAt: now})
	}
	t.UpdatedAt = now

	switch t.Type {
	case entity.TransactionImport:
		if workflowCode != "" {
			w, err := workflow.Select(ctx, tx.Workflows, t.Type, actor.RoleID, super, workflowCode)
			if err != nil {
				return err
			}
			t.WorkflowID = w.ID
		}
		if err := uc.ledger.Apply(ctx, tx, t.ID, actor.ID, importDeltas(t), now); err != nil {
			return err
		}
		t.Status = entity.TicketApplied
		t.CurrentStep = 0
		t.CompletedAt = &now
		logs = append(logs, entity.TicketLog{UserID: actor.ID, Action: entity.LogApply, CreatedAt: now})

	case entity.TransactionExport, entity.TransactionTransfer:
		w, err := workflow.Select(ctx, tx.Workflows, t.Type, actor.RoleID, super, workflowCode)
		if err != nil {
			return err
		}
		debits := sourceDebits(t, entity.MovementExportOut)
		if t.Type == entity.TransactionTransfer {
			debits = sourceDebits(t, entity.MovementTransferOut)
		}
		if err := uc.ledger.CheckAvailable(ctx, tx.Stock, debits); err != nil {
			return err
		}
		if t.Type == entity.TransactionTransfer {
			if err := uc.ledger.Apply(ctx, tx, t.ID, actor.ID, debits, now); err != nil {
				return err
			}
			t.SourceDebited = true
		}
		t.WorkflowID = w.ID
		t.Steps = approval.SnapshotSteps(w)
		t.Status = entity.TicketPending
		t.CurrentStep = 1

	default:
		return domain.Validation("tipo de transacción inválido: %q", t.Type)
	}
	return uc.save(ctx, tx, t, isNew, logs...)
}

// save persiste el ticket y las entradas nuevas del historial.
func (uc *UseCase) save(ctx context.Context, tx repository.TxRepos, t *entity.Ticket, isNew bool, logs ...entity.TicketLog) error {
	t.Logs = append(t.Logs, logs...)
	if isNew {
		return tx.Tickets.Create(ctx, t)
	}
	if err := tx.Tickets.Update(ctx, t); err != nil {
		return err
	}
	for _, l := range logs {
		if err := tx.Tickets.AddLog(ctx, t.ID, l); err != nil {
			return err
		}
	}
	return nil
}

// nextCode genera IM|EX|TR + AAMM + "-" + secuencia de 4 dígitos.
func (uc *UseCase) nextCode(ctx context.Context, tickets repository.TicketRepository, txType string, now time.Time) (string, error) {
	prefix := map[string]string{
		entity.TransactionImport:   "IM",
		entity.TransactionExport:   "EX",
		entity.TransactionTransfer: "TR",
	}[txType]
	key := prefix + now.Format("0601")
	seq, err := tickets.NextSequence(ctx, key)
	if err != nil {
		return "", fmt.Errorf("next sequence: %w", err)
	}
	return fmt.Sprintf("%s-%04d", key, seq), nil
}

func (uc *UseCase) notify(event string, t *entity.Ticket, actorID string) {
	uc.notifier.Notify(event, map[string]any{
		"ticket_id":    t.ID,
		"code":         t.Code,
		"type":         t.Type,
		"status":       t.StatusLabel(),
		"current_step": t.CurrentStep,
		"creator_id":   t.CreatorID,
		"actor_id":     actorID,
	})
}
