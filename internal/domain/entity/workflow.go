package entity

import "time"

// Familias de transacción a las que puede aplicar un flujo.
// WorkflowTargetStock aplica a cualquier tipo de transacción de stock.
const (
	WorkflowTargetStock = "STOCK"
)

// Tipos de aprobador de un paso.
const (
	ApproverRole         = "ROLE"
	ApproverSpecificUser = "SPECIFIC_USER"
	ApproverCreator      = "CREATOR"
)

// Workflow cadena de aprobación definida por un administrador.
type Workflow struct {
	ID                    string
	Code                  string // único
	Name                  string
	Description           string
	AppliesTo             string // IMPORT | EXPORT | TRANSFER | STOCK
	IsActive              bool
	AllowedInitiatorRoles []string // vacío = sin restricción
	Steps                 []WorkflowStep
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// WorkflowStep paso ordenado (Order empieza en 1 y es contiguo) con su regla de aprobador.
type WorkflowStep struct {
	ID       string
	Order    int
	Name     string
	Approver Approver
}

// Approver regla para resolver quién puede aprobar un paso.
// Unión cerrada: RoleApprover, UserApprover o CreatorApprover.
type Approver interface {
	Type() string
	isApprover()
}

// RoleApprover aprueba cualquier usuario cuyo rol sea RoleID.
type RoleApprover struct{ RoleID string }

// UserApprover aprueba únicamente UserID.
type UserApprover struct{ UserID string }

// CreatorApprover aprueba el creador del ticket.
type CreatorApprover struct{}

func (RoleApprover) Type() string    { return ApproverRole }
func (UserApprover) Type() string    { return ApproverSpecificUser }
func (CreatorApprover) Type() string { return ApproverCreator }

func (RoleApprover) isApprover()    {}
func (UserApprover) isApprover()    {}
func (CreatorApprover) isApprover() {}

// ApproverFields aplana la regla a columnas (approver_type, role_id, specific_user_id).
func ApproverFields(a Approver) (approverType, roleID, userID string) {
	switch v := a.(type) {
	case RoleApprover:
		return ApproverRole, v.RoleID, ""
	case UserApprover:
		return ApproverSpecificUser, "", v.UserID
	case CreatorApprover:
		return ApproverCreator, "", ""
	}
	return "", "", ""
}

// AppliesToType indica si el flujo cubre el tipo de transacción dado.
func (w *Workflow) AppliesToType(txType string) bool {
	return w.AppliesTo == WorkflowTargetStock || w.AppliesTo == txType
}
