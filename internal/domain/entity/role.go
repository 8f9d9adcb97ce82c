package entity

// Actor identidad que ejecuta una operación (provista por el colaborador de identidad).
type Actor struct {
	ID        string
	RoleID    string
	FactoryID string
}

// Role rol con sus permisos. IsSuperAdmin omite todas las verificaciones de permisos
// y de iniciador de flujo.
type Role struct {
	ID           string
	Name         string
	IsSuperAdmin bool
	Permissions  []string
}

// Permisos usados por el motor de inventario.
const (
	PermStockImport    = "STOCK_IMPORT"
	PermStockExport    = "STOCK_EXPORT"
	PermStockTransfer  = "STOCK_TRANSFER"
	PermStockView      = "STOCK_VIEW"
	PermWorkflowManage = "WORKFLOW_MANAGE"
	PermCatalogManage  = "CATALOG_MANAGE"
	PermReportView     = "REPORT_VIEW"
)

// TicketPermission permiso requerido para iniciar un ticket del tipo dado.
func TicketPermission(txType string) string {
	switch txType {
	case TransactionImport:
		return PermStockImport
	case TransactionExport:
		return PermStockExport
	case TransactionTransfer:
		return PermStockTransfer
	}
	return ""
}
