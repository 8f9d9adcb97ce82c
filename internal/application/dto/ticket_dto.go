package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTicketRequest body para POST /api/tickets.
type CreateTicketRequest struct {
	WorkflowCode    string          `json:"workflow_code"`
	SaveAsDraft     bool            `json:"save_as_draft,omitempty"`
	TransactionData TransactionData `json:"transaction_data"`
}

// TransactionData datos de la transacción de stock.
type TransactionData struct {
	Type        string              `json:"type"`
	FactoryID   string              `json:"factory_id"`
	SupplierID  string              `json:"supplier_id,omitempty"`
	Description string              `json:"description,omitempty"`
	Details     []TicketLineRequest `json:"details"`
}

// TicketLineRequest línea tal como la captura el usuario (cantidad en InputUnit).
type TicketLineRequest struct {
	ItemID          string          `json:"item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	InputUnit       string          `json:"input_unit,omitempty"`
	FromLocationID  string          `json:"from_location_id,omitempty"`
	ToLocationID    string          `json:"to_location_id,omitempty"`
	UsageCategoryID string          `json:"usage_category_id,omitempty"`
}

// TicketActionRequest body para approve/reject/cancel.
type TicketActionRequest struct {
	StepIndex int    `json:"step_index,omitempty"` // 0 = paso actual
	Comment   string `json:"comment,omitempty"`
}

// TicketCreatedResponse respuesta de creación.
type TicketCreatedResponse struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Status string `json:"status"`
}

// TicketResponse detalle completo del ticket.
type TicketResponse struct {
	ID          string                 `json:"id"`
	Code        string                 `json:"code"`
	Type        string                 `json:"type"`
	WorkflowID  string                 `json:"workflow_id,omitempty"`
	Status      string                 `json:"status"`
	CurrentStep int                    `json:"current_step"`
	FactoryID   string                 `json:"factory_id"`
	SupplierID  string                 `json:"supplier_id,omitempty"`
	Description string                 `json:"description,omitempty"`
	CreatorID   string                 `json:"creator_id"`
	Details     []TicketDetailResponse `json:"details"`
	Steps       []TicketStepResponse   `json:"steps"`
	Logs        []TicketLogResponse    `json:"logs,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
}

// TicketDetailResponse línea del ticket.
type TicketDetailResponse struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	InputUnit       string          `json:"input_unit"`
	InputQuantity   decimal.Decimal `json:"input_quantity"`
	FromLocationID  string          `json:"from_location_id,omitempty"`
	ToLocationID    string          `json:"to_location_id,omitempty"`
	UsageCategoryID string          `json:"usage_category_id,omitempty"`
}

// TicketStepResponse paso del snapshot con su resultado.
type TicketStepResponse struct {
	Order          int        `json:"order"`
	Name           string     `json:"name"`
	ApproverType   string     `json:"approver_type"`
	RoleID         string     `json:"role_id,omitempty"`
	SpecificUserID string     `json:"specific_user_id,omitempty"`
	Status         string     `json:"status"`
	ActorID        string     `json:"actor_id,omitempty"`
	ActedAt        *time.Time `json:"acted_at,omitempty"`
	Note           string     `json:"note,omitempty"`
}

// TicketLogResponse entrada del historial.
type TicketLogResponse struct {
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketListResponse listado paginado.
type TicketListResponse struct {
	Items []TicketResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
