package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code        string          `json:"code" validate:"required,min=1,max=50"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Location    string          `json:"location" validate:"max=120"`
	Stock       int             `json:"stock" validate:"min=0,max=2147483647"`
	StockMinimo int             `json:"stock_minimo" validate:"min=0"`
	UnitMeasure string          `json:"unit_measure" validate:"max=30"`
	Brand       string          `json:"brand" validate:"max=120"`
	Category    string          `json:"category" validate:"max=120"`
}

// UpdateProductRequest entrada para actualizar un producto. El código no se modifica.
// Stock es un conteo físico: fija el saldo sin tocar los acumulados de entradas/salidas.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
	Location    *string          `json:"location" validate:"omitempty,max=120"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0,max=2147483647"`
	StockMinimo *int             `json:"stock_minimo" validate:"omitempty,min=0"`
	UnitMeasure *string          `json:"unit_measure" validate:"omitempty,max=30"`
	Brand       *string          `json:"brand" validate:"omitempty,max=120"`
	Category    *string          `json:"category" validate:"omitempty,max=120"`
}

// ListProductsRequest filtros del catálogo (query string).
type ListProductsRequest struct {
	Search   string `query:"search"`
	Category string `query:"category"`
	Location string `query:"location"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=1000"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Location    string          `json:"location"`
	Entries     int             `json:"entries"`
	Exits       int             `json:"exits"`
	StockActual int             `json:"stock_actual"`
	StockMinimo int             `json:"stock_minimo"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	UnitMeasure string          `json:"unit_measure"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Pagination PageResponse      `json:"pagination"`
}
