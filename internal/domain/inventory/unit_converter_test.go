package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
)

func bolt() *entity.Item {
	return &entity.Item{
		ID:       "i-1",
		Code:     "BOLT-01",
		BaseUnit: "PCS",
		Conversions: []entity.UnitConversion{
			{UnitName: "BOX", Factor: decimal.NewFromInt(50)},
			{UnitName: "KG", Factor: decimal.RequireFromString("12.5")},
		},
	}
}

func TestResolveToBaseUnit(t *testing.T) {
	item := bolt()
	tests := []struct {
		unit string
		qty  string
		want string
	}{
		{"BOX", "2", "100"},
		{"PCS", "7", "7"},
		{"", "3", "3"},
		{"KG", "0.4", "5"},
	}
	for _, tt := range tests {
		got, err := inventory.ResolveToBaseUnit(item, decimal.RequireFromString(tt.qty), tt.unit)
		require.NoError(t, err, tt.unit)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%s: got %s", tt.unit, got)
	}
}

func TestResolveToBaseUnit_UnidadDesconocida(t *testing.T) {
	_, err := inventory.ResolveToBaseUnit(bolt(), decimal.NewFromInt(1), "PALLET")
	assert.ErrorIs(t, err, domain.ErrUnknownUnit)
	assert.Contains(t, domain.Reason(err), "PALLET")

	item := bolt()
	item.Conversions = append(item.Conversions, entity.UnitConversion{UnitName: "BAD", Factor: decimal.Zero})
	_, err = inventory.ConversionFactor(item, "BAD")
	assert.ErrorIs(t, err, domain.ErrUnknownUnit)
}

func TestFromBaseUnit(t *testing.T) {
	got, err := inventory.FromBaseUnit(bolt(), decimal.NewFromInt(125), "BOX")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("2.5")))

	_, err = inventory.FromBaseUnit(bolt(), decimal.NewFromInt(1), "LB")
	assert.ErrorIs(t, err, domain.ErrUnknownUnit)
}

func TestValidateConversion(t *testing.T) {
	item := bolt()
	assert.NoError(t, inventory.ValidateConversion(item, entity.UnitConversion{UnitName: "PACK", Factor: decimal.NewFromInt(6)}))
	for _, c := range []entity.UnitConversion{
		{UnitName: "", Factor: decimal.NewFromInt(2)},
		{UnitName: "PCS", Factor: decimal.NewFromInt(2)},
		{UnitName: "PACK", Factor: decimal.NewFromInt(-1)},
	} {
		assert.ErrorIs(t, inventory.ValidateConversion(item, c), domain.ErrValidation, c.UnitName)
	}
}
