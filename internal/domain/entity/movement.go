package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger.
const (
	MovementImportIn         = "IMPORT_IN"         // crédito por entrada a bodega
	MovementExportOut        = "EXPORT_OUT"        // débito por salida (aprobación final)
	MovementTransferOut      = "TRANSFER_OUT"      // débito del origen al crear el traslado
	MovementTransferIn       = "TRANSFER_IN"       // crédito del destino en la aprobación final
	MovementTransferReversal = "TRANSFER_REVERSAL" // crédito compensatorio al origen
)

// Movement registro append-only de un delta aplicado al ledger.
// Quantity es positivo para créditos y negativo para débitos.
type Movement struct {
	ID         string
	TicketID   string
	DetailID   string
	ItemID     string
	LocationID string
	Type       string
	Quantity   decimal.Decimal
	CreatedAt  time.Time
	CreatedBy  string
}
