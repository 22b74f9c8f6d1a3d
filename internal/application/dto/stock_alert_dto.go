package dto

import "github.com/shopspring/decimal"

// StockAlertRequest filtros de alertas de stock (query string).
type StockAlertRequest struct {
	Category     string `query:"category"`
	Location     string `query:"location"`
	Status       string `query:"status" validate:"omitempty,oneof=critico bajo normal"`
	OnlyCritical bool   `query:"only_critical"`
}

// StockAlertDTO estado de stock de un producto frente a su mínimo.
type StockAlertDTO struct {
	ProductID   string          `json:"product_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	StockActual int             `json:"stock_actual"`
	StockMinimo int             `json:"stock_minimo"`
	Location    string          `json:"location"`
	Category    string          `json:"category"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	LastUpdate  string          `json:"last_update"` // YYYY-MM-DD
	Status      string          `json:"status"`      // critico | bajo | normal
}

// StockAlertStatistics resumen de alertas sobre todos los productos activos.
type StockAlertStatistics struct {
	Total       int `json:"total"`
	Critical    int `json:"critical"`
	Low         int `json:"low"`
	TotalStock  int `json:"total_stock"`
	StockMinimo int `json:"stock_minimo"`
}
