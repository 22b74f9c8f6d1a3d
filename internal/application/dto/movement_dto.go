package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest body para registrar una entrada o salida.
// Project solo aplica a salidas.
type CreateMovementRequest struct {
	Date        string          `json:"date" validate:"required"` // DD/MM/YYYY
	ProductCode string          `json:"product_code" validate:"required,max=50"`
	Description string          `json:"description" validate:"required,max=200"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity" validate:"required,min=1,max=1000000"`
	Responsible string          `json:"responsible" validate:"max=120"`
	Area        string          `json:"area" validate:"max=120"`
	Project     string          `json:"project" validate:"max=120"`
}

// UpdateMovementRequest edición parcial de un movimiento. El producto no se puede cambiar.
type UpdateMovementRequest struct {
	Date        *string          `json:"date"`
	Description *string          `json:"description" validate:"omitempty,min=1,max=200"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Quantity    *int             `json:"quantity" validate:"omitempty,min=1,max=1000000"`
	Responsible *string          `json:"responsible" validate:"omitempty,max=120"`
	Area        *string          `json:"area" validate:"omitempty,max=120"`
	Project     *string          `json:"project" validate:"omitempty,max=120"`
}

// UpdateQuantityRequest body para cambiar solo la cantidad.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=1000000"`
}

// ListMovementsRequest filtros del listado de entradas/salidas (query string).
type ListMovementsRequest struct {
	Search      string `query:"search"`
	Category    string `query:"category"`
	Area        string `query:"area"`
	Responsible string `query:"responsible"`
	StartDate   string `query:"start_date"` // DD/MM/YYYY o YYYY-MM-DD
	EndDate     string `query:"end_date"`
	Page        int    `query:"page" validate:"omitempty,min=1"`
	Limit       int    `query:"limit" validate:"omitempty,min=1,max=1000"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Date        string          `json:"date"`
	ProductCode string          `json:"product_code"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	Responsible string          `json:"responsible,omitempty"`
	Area        string          `json:"area,omitempty"`
	Project     string          `json:"project,omitempty"`
	Category    string          `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MovementListResponse página de movimientos.
type MovementListResponse struct {
	Data       []MovementResponse `json:"data"`
	Pagination PageResponse       `json:"pagination"`
}

// MovementSearchResponse resultado de la búsqueda combinada de entradas y salidas.
type MovementSearchResponse struct {
	Entries []MovementResponse `json:"entries"`
	Exits   []MovementResponse `json:"exits"`
}
