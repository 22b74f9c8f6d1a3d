package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest crea la cabecera de una orden (sin líneas).
type CreatePurchaseOrderRequest struct {
	Date string `json:"date" validate:"required"` // DD/MM/YYYY
}

// UpdatePurchaseOrderRequest solo la fecha es editable; cantidad y costo son derivados.
type UpdatePurchaseOrderRequest struct {
	Date string `json:"date" validate:"required"`
}

// PurchaseOrderLineRequest agrega una línea a la orden.
// ProductCode es opcional; si existe en el catálogo, la línea descuenta stock como una salida.
type PurchaseOrderLineRequest struct {
	Date        string          `json:"date" validate:"required"`
	ProductCode string          `json:"product_code" validate:"max=50"`
	Name        string          `json:"name" validate:"required,max=200"`
	Area        string          `json:"area" validate:"max=120"`
	Project     string          `json:"project" validate:"max=120"`
	Responsible string          `json:"responsible" validate:"max=120"`
	Quantity    int             `json:"quantity" validate:"required,min=1,max=1000000"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// UpdatePurchaseOrderLineRequest edición parcial de una línea. El código no se modifica.
type UpdatePurchaseOrderLineRequest struct {
	Date        *string          `json:"date"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Area        *string          `json:"area" validate:"omitempty,max=120"`
	Project     *string          `json:"project" validate:"omitempty,max=120"`
	Responsible *string          `json:"responsible" validate:"omitempty,max=120"`
	Quantity    *int             `json:"quantity" validate:"omitempty,min=1,max=1000000"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrderLineResponse salida de una línea.
type PurchaseOrderLineResponse struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	ProductCode string          `json:"product_code"`
	Name        string          `json:"name"`
	Area        string          `json:"area,omitempty"`
	Project     string          `json:"project,omitempty"`
	Responsible string          `json:"responsible,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	StockLinked bool            `json:"stock_linked"`
}

// PurchaseOrderResponse salida de una orden con sus líneas activas.
type PurchaseOrderResponse struct {
	ID        string                      `json:"id"`
	Code      string                      `json:"code"`
	Date      string                      `json:"date"`
	Quantity  int                         `json:"quantity"`
	Cost      decimal.Decimal             `json:"cost"`
	Lines     []PurchaseOrderLineResponse `json:"lines"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

// PurchaseOrderListResponse página de órdenes (sin líneas).
type PurchaseOrderListResponse struct {
	Data       []PurchaseOrderResponse `json:"data"`
	Pagination PageResponse            `json:"pagination"`
}
