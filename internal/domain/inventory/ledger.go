package inventory

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

const (
	// MaxQuantity cantidad máxima de un movimiento, salida de equipo o línea de orden.
	MaxQuantity = 1_000_000
	// MaxStock saldo máximo de un producto (columna INTEGER).
	MaxStock = math.MaxInt32
)

// ValidQuantity indica si q es una cantidad de operación aceptable (1..MaxQuantity).
func ValidQuantity(q int) bool {
	return q > 0 && q <= MaxQuantity
}

// Delta cantidades a sumar como entrada y como salida en una sola aplicación al ledger.
// Ambas son no negativas; el stock resultante es StockActual + Entries - Exits.
type Delta struct {
	Entries int
	Exits   int
}

// Net devuelve el cambio neto sobre el stock.
func (d Delta) Net() int { return d.Entries - d.Exits }

// IsZero indica que la aplicación no cambia nada.
func (d Delta) IsZero() bool { return d.Entries == 0 && d.Exits == 0 }

// CreationDelta efecto de registrar un movimiento del tipo dado.
func CreationDelta(movementType string, quantity int) Delta {
	if movementType == entity.MovementTypeEntry {
		return Delta{Entries: quantity}
	}
	return Delta{Exits: quantity}
}

// ReversalDelta efecto inverso de un movimiento: quitar una entrada descuenta, quitar una salida devuelve.
func ReversalDelta(movementType string, quantity int) Delta {
	if movementType == entity.MovementTypeEntry {
		return Delta{Exits: quantity}
	}
	return Delta{Entries: quantity}
}

// EditDelta compensación al cambiar la cantidad de un movimiento de oldQty a newQty.
// Sin cambio de cantidad devuelve un Delta vacío.
func EditDelta(movementType string, oldQty, newQty int) Delta {
	diff := newQty - oldQty
	switch {
	case diff == 0:
		return Delta{}
	case diff > 0:
		return CreationDelta(movementType, diff)
	default:
		return ReversalDelta(movementType, -diff)
	}
}

// Check valida que aplicar d no deje el stock negativo ni por encima de MaxStock.
// Las comparaciones no suman al saldo para no desbordar int.
func Check(p *entity.Product, d Delta) error {
	if d.Entries < 0 || d.Exits < 0 || d.Entries > MaxStock || d.Exits > MaxStock {
		return domain.ErrInvalidInput
	}
	if d.Exits-d.Entries > p.StockActual {
		return domain.NewInsufficientStock(p.Code, p.StockActual, d.Exits-d.Entries)
	}
	if d.Entries-d.Exits > MaxStock-p.StockActual {
		return domain.ErrInvalidInput
	}
	return nil
}

// Apply aplica d sobre el producto: stock, contadores acumulados y costo total.
// Rechaza el delta sin modificar p si el stock quedaría negativo.
func Apply(p *entity.Product, d Delta) error {
	if err := Check(p, d); err != nil {
		return err
	}
	p.StockActual += d.Net()
	p.Entries += d.Entries
	p.Exits += d.Exits
	p.TotalCost = TotalCost(p.StockActual, p.UnitCost)
	return nil
}

// Recount fija el stock por conteo físico. No toca los contadores acumulados.
func Recount(p *entity.Product, stock int) error {
	if stock < 0 || stock > MaxStock {
		return domain.ErrInvalidInput
	}
	p.StockActual = stock
	p.TotalCost = TotalCost(stock, p.UnitCost)
	return nil
}

// Reprice cambia el costo unitario y recalcula el costo total.
func Reprice(p *entity.Product, unitCost decimal.Decimal) error {
	if unitCost.IsNegative() {
		return domain.ErrInvalidInput
	}
	p.UnitCost = unitCost
	p.TotalCost = TotalCost(p.StockActual, unitCost)
	return nil
}

// TotalCost valor del inventario de un producto.
func TotalCost(stock int, unitCost decimal.Decimal) decimal.Decimal {
	return unitCost.Mul(decimal.NewFromInt(int64(stock)))
}
