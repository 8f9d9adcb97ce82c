package dto

// WorkflowRequest body para POST/PUT /api/workflows.
type WorkflowRequest struct {
	Code                  string                `json:"code"`
	Name                  string                `json:"name"`
	Description           string                `json:"description,omitempty"`
	AppliesTo             string                `json:"applies_to"`
	IsActive              *bool                 `json:"is_active,omitempty"`
	AllowedInitiatorRoles []string              `json:"allowed_initiator_roles,omitempty"`
	Steps                 []WorkflowStepRequest `json:"steps"`
}

// WorkflowStepRequest paso en forma plana; se valida como unión etiquetada por ApproverType.
type WorkflowStepRequest struct {
	Order          int    `json:"order,omitempty"`
	Name           string `json:"name"`
	ApproverType   string `json:"approver_type"`
	RoleID         string `json:"role_id,omitempty"`
	SpecificUserID string `json:"specific_user_id,omitempty"`
}

// WorkflowResponse flujo con sus pasos.
type WorkflowResponse struct {
	ID                    string                 `json:"id"`
	Code                  string                 `json:"code"`
	Name                  string                 `json:"name"`
	Description           string                 `json:"description,omitempty"`
	AppliesTo             string                 `json:"applies_to"`
	IsActive              bool                   `json:"is_active"`
	AllowedInitiatorRoles []string               `json:"allowed_initiator_roles"`
	Steps                 []WorkflowStepResponse `json:"steps"`
}

// WorkflowStepResponse paso del flujo.
type WorkflowStepResponse struct {
	Order          int    `json:"order"`
	Name           string `json:"name"`
	ApproverType   string `json:"approver_type"`
	RoleID         string `json:"role_id,omitempty"`
	SpecificUserID string `json:"specific_user_id,omitempty"`
}
