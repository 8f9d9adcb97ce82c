package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TicketRepository define el puerto de persistencia de tickets, sus líneas, pasos e historial.
type TicketRepository interface {
	// Create persiste el ticket con Details, Steps y Logs.
	Create(ctx context.Context, t *entity.Ticket) error
	// Update persiste estado, paso actual, flujo y reemplaza los Steps. No toca Details ni Logs.
	Update(ctx context.Context, t *entity.Ticket) error
	// AddLog agrega una entrada al historial append-only del ticket.
	AddLog(ctx context.Context, ticketID string, log entity.TicketLog) error
	GetByID(ctx context.Context, id string) (*entity.Ticket, error)
	// GetForUpdate obtiene el ticket bloqueándolo hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Ticket, error)
	ListPending(ctx context.Context) ([]*entity.Ticket, error)
	List(ctx context.Context, filter entity.TicketFilter) ([]*entity.Ticket, error)
	CountByWorkflow(ctx context.Context, workflowID string) (int, error)
	// PendingExportQuantity suma las líneas EXPORT de tickets PENDING para (item, ubicación).
	PendingExportQuantity(ctx context.Context, itemID, locationID string) (decimal.Decimal, error)
	// NextSequence incrementa y devuelve el contador de la clave (ej. EX-2610).
	NextSequence(ctx context.Context, key string) (int, error)
}
