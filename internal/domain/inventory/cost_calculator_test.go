package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-backoffice/internal/domain/inventory"
)

func TestCostCalculator(t *testing.T) {
	// 10 u a 2.00 + 10 u a 4.00 → 3.00
	got := inventory.CostCalculator(10, decimal.NewFromInt(2), 10, decimal.NewFromInt(4))
	assert.True(t, got.Equal(decimal.NewFromInt(3)), got.String())

	// Sin stock previo toma el costo de la entrada.
	got = inventory.CostCalculator(0, decimal.Zero, 5, decimal.RequireFromString("1.25"))
	assert.True(t, got.Equal(decimal.RequireFromString("1.25")), got.String())

	// Nada que promediar.
	assert.True(t, inventory.CostCalculator(0, decimal.NewFromInt(9), 0, decimal.NewFromInt(9)).IsZero())
}
