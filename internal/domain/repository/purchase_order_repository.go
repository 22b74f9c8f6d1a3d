package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra y sus líneas.
type PurchaseOrderRepository interface {
	CreateOrder(ctx context.Context, order *entity.PurchaseOrder) error
	GetOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetOrderForUpdate bloquea la cabecera; serializa las mutaciones de líneas de una misma orden.
	GetOrderForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	UpdateOrder(ctx context.Context, order *entity.PurchaseOrder) error
	UpdateTotals(ctx context.Context, id string, quantity int, cost decimal.Decimal) error
	SoftDeleteOrder(ctx context.Context, id string, at time.Time) error
	ListOrders(ctx context.Context, filter entity.PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error)

	CreateLine(ctx context.Context, line *entity.PurchaseOrderLine) error
	GetLineForUpdate(ctx context.Context, orderID, lineID string) (*entity.PurchaseOrderLine, error)
	UpdateLine(ctx context.Context, line *entity.PurchaseOrderLine) error
	SoftDeleteLine(ctx context.Context, id string, at time.Time) error
	// ListLines líneas activas de la orden, en orden de creación.
	ListLines(ctx context.Context, orderID string) ([]*entity.PurchaseOrderLine, error)
}

// SequenceRepository entrega números consecutivos por clave (sin huecos dentro de la transacción).
type SequenceRepository interface {
	Next(ctx context.Context, key string) (int64, error)
}
