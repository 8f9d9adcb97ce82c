package inventory

import (
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ResolveToBaseUnit convierte quantity expresada en unitName a la unidad base del artículo
// (servicio de dominio). BaseQuantity = quantity * factor(unitName); factor = 1 si unitName
// es la unidad base o está vacío.
func ResolveToBaseUnit(item *entity.Item, quantity decimal.Decimal, unitName string) (decimal.Decimal, error) {
	factor, err := ConversionFactor(item, unitName)
	if err != nil {
		return decimal.Zero, err
	}
	return quantity.Mul(factor), nil
}

// ConversionFactor devuelve el factor de unitName respecto a la unidad base.
func ConversionFactor(item *entity.Item, unitName string) (decimal.Decimal, error) {
	if unitName == "" || unitName == item.BaseUnit {
		return decimal.NewFromInt(1), nil
	}
	conv, ok := item.Conversion(unitName)
	if !ok {
		return decimal.Zero, domain.UnknownUnit("el artículo %s no tiene conversión para %q", item.Code, unitName)
	}
	if !conv.Factor.IsPositive() {
		return decimal.Zero, domain.UnknownUnit("factor no positivo para %q en %s", unitName, item.Code)
	}
	return conv.Factor, nil
}

// FromBaseUnit operación inversa: baseQuantity / factor(unitName).
func FromBaseUnit(item *entity.Item, baseQuantity decimal.Decimal, unitName string) (decimal.Decimal, error) {
	factor, err := ConversionFactor(item, unitName)
	if err != nil {
		return decimal.Zero, err
	}
	return baseQuantity.Div(factor), nil
}

// ValidateConversion verifica una conversión antes de registrarla.
func ValidateConversion(item *entity.Item, conv entity.UnitConversion) error {
	if conv.UnitName == "" {
		return domain.Validation("unitName es requerido")
	}
	if conv.UnitName == item.BaseUnit {
		return domain.Validation("%q ya es la unidad base de %s", conv.UnitName, item.Code)
	}
	if !conv.Factor.IsPositive() {
		return domain.Validation("el factor de %q debe ser mayor que 0", conv.UnitName)
	}
	return nil
}
