package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del catálogo. Las cantidades del ledger siempre
// se expresan en BaseUnit.
type Item struct {
	ID          string
	Code        string // código único (itemCode)
	Name        string
	BaseUnit    string // unidad canónica, ej. PCS
	CategoryID  string
	MinStock    decimal.Decimal
	Conversions []UnitConversion
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UnitConversion factor para convertir UnitName a la unidad base del artículo.
// 1 UnitName = Factor * BaseUnit.
type UnitConversion struct {
	UnitName string
	Factor   decimal.Decimal
}

// Conversion busca el factor registrado para unitName.
func (i *Item) Conversion(unitName string) (UnitConversion, bool) {
	for _, c := range i.Conversions {
		if c.UnitName == unitName {
			return c, true
		}
	}
	return UnitConversion{}, false
}
