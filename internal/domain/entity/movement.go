package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del almacén.
const (
	MovementTypeEntry = "ENTRY" // entrada
	MovementTypeExit  = "EXIT"  // salida
)

// Movement representa una entrada o salida registrada contra un producto (por código).
// Una vez creado solo cambia por ediciones controladas; el borrado es lógico.
type Movement struct {
	ID          string
	Type        string
	Date        time.Time // la API lo expone como DD/MM/YYYY
	ProductCode string
	Description string // nombre del producto al momento del movimiento
	UnitPrice   decimal.Decimal
	Quantity    int
	Responsible string
	Area        string
	Project     string // solo salidas
	Category    string
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MovementFilter filtros de listado de movimientos. Los registros borrados nunca se incluyen.
type MovementFilter struct {
	Type        string
	Search      string
	Category    string
	Area        string
	Responsible string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}
