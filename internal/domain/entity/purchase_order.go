package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderCodePrefix prefijo de la numeración de órdenes (OC-0001, OC-0002, ...).
const PurchaseOrderCodePrefix = "OC"

// PurchaseOrder cabecera de una orden de compra.
// Quantity y Cost son derivados: suma de las líneas activas.
type PurchaseOrder struct {
	ID        string
	Code      string
	Date      time.Time
	Quantity  int
	Cost      decimal.Decimal
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	Lines     []*PurchaseOrderLine `db:"-"`
}

// PurchaseOrderLine línea de una orden de compra.
// StockLinked registra si al insertarla se descontó stock de un producto del catálogo.
type PurchaseOrderLine struct {
	ID          string
	OrderID     string
	Date        time.Time
	ProductCode string
	Name        string
	Area        string
	Project     string
	Responsible string
	Quantity    int
	UnitCost    decimal.Decimal
	Subtotal    decimal.Decimal
	StockLinked bool
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PurchaseOrderFilter paginación del listado de órdenes.
type PurchaseOrderFilter struct {
	Limit  int
	Offset int
}
