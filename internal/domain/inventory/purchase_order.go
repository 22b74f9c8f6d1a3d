package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// LineSubtotal cantidad × costo unitario.
func LineSubtotal(quantity int, unitCost decimal.Decimal) decimal.Decimal {
	return unitCost.Mul(decimal.NewFromInt(int64(quantity)))
}

// OrderTotals recalcula desde cero la cantidad y el costo de una orden sobre sus líneas activas.
func OrderTotals(lines []*entity.PurchaseOrderLine) (int, decimal.Decimal) {
	qty := 0
	cost := decimal.Zero
	for _, l := range lines {
		if l.DeletedAt != nil {
			continue
		}
		qty += l.Quantity
		cost = cost.Add(l.Subtotal)
	}
	return qty, cost
}
