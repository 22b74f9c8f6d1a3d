package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de almacén con su saldo de stock.
// StockActual, Entries, Exits y TotalCost solo los escribe el ledger de stock.
type Product struct {
	ID          string
	Code        string // único entre productos activos
	Name        string
	UnitCost    decimal.Decimal
	Location    string
	Entries     int // acumulado de entradas (no se revierte al borrar movimientos)
	Exits       int // acumulado de salidas
	StockActual int
	StockMinimo int
	TotalCost   decimal.Decimal // StockActual × UnitCost
	UnitMeasure string
	Brand       string
	Category    string
	ArchivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsArchived indica si el producto fue dado de baja (soft delete).
func (p *Product) IsArchived() bool {
	return p.ArchivedAt != nil
}

// ProductFilter filtros de listado del catálogo (solo productos activos).
type ProductFilter struct {
	Search   string // código, nombre o marca
	Category string
	Location string
	Limit    int
	Offset   int
}
