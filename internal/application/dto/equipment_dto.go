package dto

import "time"

// CreateEquipmentRequest registra la salida de un equipo (descuenta stock).
type CreateEquipmentRequest struct {
	EquipmentName string `json:"equipment_name" validate:"required,max=200"`
	ProductCode   string `json:"product_code" validate:"required,max=50"`
	Quantity      int    `json:"quantity" validate:"required,min=1,max=1000000"`
	Condition     string `json:"condition" validate:"required"`
	Responsible   string `json:"responsible" validate:"required,max=120"`
	CheckoutDate  string `json:"checkout_date" validate:"required"` // DD/MM/YYYY
	CheckoutTime  string `json:"checkout_time" validate:"required,max=5"`
	AreaProject   string `json:"area_project" validate:"required,max=120"`
	Signature     string `json:"signature"`
}

// UpdateEquipmentRequest edición de campos del reporte; nunca mueve stock.
type UpdateEquipmentRequest struct {
	EquipmentName *string `json:"equipment_name" validate:"omitempty,min=1,max=200"`
	Quantity      *int    `json:"quantity" validate:"omitempty,min=1,max=1000000"`
	Condition     *string `json:"condition"`
	Responsible   *string `json:"responsible" validate:"omitempty,min=1,max=120"`
	CheckoutDate  *string `json:"checkout_date"`
	CheckoutTime  *string `json:"checkout_time" validate:"omitempty,max=5"`
	AreaProject   *string `json:"area_project" validate:"omitempty,max=120"`
	Signature     *string `json:"signature"`
}

// ReturnEquipmentRequest registra el retorno de un equipo (no reabastece stock).
// Un segundo retorno sobrescribe los datos del anterior.
type ReturnEquipmentRequest struct {
	ReturnDate        string `json:"return_date" validate:"required"`
	ReturnTime        string `json:"return_time" validate:"required,max=5"`
	ReturnCondition   string `json:"return_condition" validate:"required"`
	ReturnResponsible string `json:"return_responsible" validate:"max=120"`
	ReturnSignature   string `json:"return_signature"`
}

// ListEquipmentRequest filtros del listado de reportes de equipo.
type ListEquipmentRequest struct {
	Search string `query:"search"`
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=1000"`
}

// EquipmentResponse salida de un reporte de equipo.
type EquipmentResponse struct {
	ID                string    `json:"id"`
	EquipmentName     string    `json:"equipment_name"`
	ProductCode       string    `json:"product_code"`
	Quantity          int       `json:"quantity"`
	Condition         string    `json:"condition"`
	Responsible       string    `json:"responsible"`
	CheckoutDate      string    `json:"checkout_date"`
	CheckoutTime      string    `json:"checkout_time"`
	AreaProject       string    `json:"area_project"`
	Signature         string    `json:"signature,omitempty"`
	Returned          bool      `json:"returned"`
	ReturnDate        string    `json:"return_date,omitempty"`
	ReturnTime        string    `json:"return_time,omitempty"`
	ReturnCondition   string    `json:"return_condition,omitempty"`
	ReturnResponsible string    `json:"return_responsible,omitempty"`
	ReturnSignature   string    `json:"return_signature,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// EquipmentListResponse página de reportes de equipo.
type EquipmentListResponse struct {
	Data       []EquipmentResponse `json:"data"`
	Pagination PageResponse        `json:"pagination"`
}
