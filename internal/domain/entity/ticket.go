package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de stock.
const (
	TransactionImport   = "IMPORT"
	TransactionExport   = "EXPORT"
	TransactionTransfer = "TRANSFER"
)

// Estados del ticket. PENDING se acompaña de CurrentStep (PENDING_STEP(n)).
const (
	TicketDraft     = "DRAFT"
	TicketPending   = "PENDING"
	TicketApproved  = "APPROVED"
	TicketRejected  = "REJECTED"
	TicketApplied   = "APPLIED"
	TicketCancelled = "CANCELLED"
)

// Estados de un paso del ticket.
const (
	StepPending  = "PENDING"
	StepApproved = "APPROVED"
	StepRejected = "REJECTED"
)

// Acciones del historial de aprobación.
const (
	LogCreate     = "CREATE"
	LogSubmit     = "SUBMIT"
	LogApprove    = "APPROVE"
	LogReject     = "REJECT"
	LogCancel     = "CANCEL"
	LogAutoReject = "AUTO_REJECT"
	LogApply      = "APPLY"
)

// Ticket transacción de stock conducida por la máquina de estados.
type Ticket struct {
	ID            string
	Code          string
	Type          string // IMPORT | EXPORT | TRANSFER
	WorkflowID    string // vacío para IMPORT sin flujo
	Status        string
	CurrentStep   int // 1-based mientras PENDING; 0 en el resto
	FactoryID     string
	SupplierID    string
	Description   string
	CreatorID     string
	SourceDebited bool // TRANSFER: el origen ya fue debitado
	Details       []TransactionDetail
	Steps         []TicketStep // snapshot de los pasos del flujo al enviar
	Logs          []TicketLog
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

// TransactionDetail línea del ticket. Quantity está en unidad base:
// InputQuantity * factor(InputUnit) = Quantity.
type TransactionDetail struct {
	ID              string
	ItemID          string
	Quantity        decimal.Decimal
	InputUnit       string
	InputQuantity   decimal.Decimal
	FromLocationID  string
	ToLocationID    string
	UsageCategoryID string
}

// TicketStep copia de un WorkflowStep con el resultado de su aprobación.
type TicketStep struct {
	Order    int
	Name     string
	Approver Approver
	Status   string
	ActorID  string
	ActedAt  *time.Time
	Note     string
}

// TicketLog entrada del historial de aprobación.
type TicketLog struct {
	UserID    string
	Action    string
	Comment   string
	CreatedAt time.Time
}

// TicketFilter filtros para el historial de tickets.
type TicketFilter struct {
	FactoryID string
	Type      string
	Statuses  []string
	Limit     int
	Offset    int
}

// StatusLabel representa el estado como PENDING_STEP(n) cuando aplica.
func (t *Ticket) StatusLabel() string {
	if t.Status == TicketPending {
		return fmt.Sprintf("PENDING_STEP(%d)", t.CurrentStep)
	}
	return t.Status
}

// IsTerminal indica si el ticket ya no admite cambios.
func (t *Ticket) IsTerminal() bool {
	switch t.Status {
	case TicketApplied, TicketRejected, TicketCancelled:
		return true
	}
	return false
}

// CurrentStepRecord devuelve el paso en curso, o nil si el ticket no está pendiente.
func (t *Ticket) CurrentStepRecord() *TicketStep {
	if t.Status != TicketPending {
		return nil
	}
	for i := range t.Steps {
		if t.Steps[i].Order == t.CurrentStep {
			return &t.Steps[i]
		}
	}
	return nil
}

// IsLastStep indica si CurrentStep es el último paso del snapshot.
func (t *Ticket) IsLastStep() bool {
	for _, s := range t.Steps {
		if s.Order > t.CurrentStep {
			return false
		}
	}
	return true
}

// ApprovalCount cantidad de pasos ya aprobados.
func (t *Ticket) ApprovalCount() int {
	n := 0
	for _, s := range t.Steps {
		if s.Status == StepApproved {
			n++
		}
	}
	return n
}
