package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// InsufficientStockError detalla una validación de stock fallida.
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type InsufficientStockError struct {
	ProductCode string
	Available   int
	Requested   int
	Reason      string // opcional: contexto de la operación rechazada
}

// NewInsufficientStock construye el error con las cantidades disponibles y solicitadas.
func NewInsufficientStock(code string, available, requested int) *InsufficientStockError {
	return &InsufficientStockError{ProductCode: code, Available: available, Requested: requested}
}

func (e *InsufficientStockError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s. Disponible: %d, Solicitado: %d", ErrInsufficientStock, e.Reason, e.Available, e.Requested)
	}
	return fmt.Sprintf("%s. Disponible: %d, Solicitado: %d", ErrInsufficientStock, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// WithReason devuelve una copia del error con el motivo indicado.
func (e *InsufficientStockError) WithReason(reason string) *InsufficientStockError {
	cp := *e
	cp.Reason = reason
	return &cp
}
