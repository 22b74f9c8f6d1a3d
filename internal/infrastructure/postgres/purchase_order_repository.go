package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

var (
	orderColumns = []string{"id", "code", "date", "quantity", "cost", "deleted_at", "created_at", "updated_at"}
	lineColumns  = []string{
		"id", "order_id", "date", "product_code", "name", "area", "project", "responsible",
		"quantity", "unit_cost", "subtotal", "stock_linked", "deleted_at", "created_at", "updated_at",
	}
)

// PurchaseOrderRepo órdenes de compra y líneas sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// CreateOrder persiste la cabecera.
func (r *PurchaseOrderRepo) CreateOrder(ctx context.Context, o *entity.PurchaseOrder) error {
	sql, args, err := psql.Insert("purchase_orders").Columns(orderColumns...).Values(
		o.ID, o.Code, o.Date, o.Quantity, o.Cost, o.DeletedAt, o.CreatedAt, o.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert order: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetOrder obtiene una orden activa (sin líneas).
func (r *PurchaseOrderRepo) GetOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOrder(ctx, id, false)
}

// GetOrderForUpdate obtiene y bloquea la cabecera.
func (r *PurchaseOrderRepo) GetOrderForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOrder(ctx, id, true)
}

func (r *PurchaseOrderRepo) getOrder(ctx context.Context, id string, forUpdate bool) (*entity.PurchaseOrder, error) {
	b := psql.Select(orderColumns...).From("purchase_orders").
		Where(squirrel.Eq{"id": id, "deleted_at": nil})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get order: %w", err)
	}
	var o entity.PurchaseOrder
	if err := pgxscan.Get(ctx, r.q, &o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// UpdateOrder persiste la fecha de la orden.
func (r *PurchaseOrderRepo) UpdateOrder(ctx context.Context, o *entity.PurchaseOrder) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE purchase_orders SET date = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`,
		o.ID, o.Date, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateTotals fija los totales derivados de la orden.
func (r *PurchaseOrderRepo) UpdateTotals(ctx context.Context, id string, quantity int, cost decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE purchase_orders SET quantity = $2, cost = $3, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id, quantity, cost,
	)
	if err != nil {
		return fmt.Errorf("update order totals: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDeleteOrder marca la orden como borrada; sus líneas no se tocan.
func (r *PurchaseOrderRepo) SoftDeleteOrder(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE purchase_orders SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("soft delete order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListOrders lista cabeceras activas, más recientes primero.
func (r *PurchaseOrderRepo) ListOrders(ctx context.Context, f entity.PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error) {
	where := squirrel.Eq{"deleted_at": nil}
	total, err := count(ctx, r.q, "purchase_orders", where)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	b := psql.Select(orderColumns...).From("purchase_orders").Where(where).OrderBy("created_at DESC")
	sql, args, err := paginate(b, f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list orders: %w", err)
	}
	var list []*entity.PurchaseOrder
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return list, total, nil
}

// CreateLine persiste una línea.
func (r *PurchaseOrderRepo) CreateLine(ctx context.Context, l *entity.PurchaseOrderLine) error {
	sql, args, err := psql.Insert("purchase_order_lines").Columns(lineColumns...).Values(
		l.ID, l.OrderID, l.Date, l.ProductCode, l.Name, l.Area, l.Project, l.Responsible,
		l.Quantity, l.UnitCost, l.Subtotal, l.StockLinked, l.DeletedAt, l.CreatedAt, l.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert line: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert line: %w", err)
	}
	return nil
}

// GetLineForUpdate obtiene y bloquea una línea activa de la orden.
func (r *PurchaseOrderRepo) GetLineForUpdate(ctx context.Context, orderID, lineID string) (*entity.PurchaseOrderLine, error) {
	sql, args, err := psql.Select(lineColumns...).From("purchase_order_lines").
		Where(squirrel.Eq{"id": lineID, "order_id": orderID, "deleted_at": nil}).
		Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get line: %w", err)
	}
	var l entity.PurchaseOrderLine
	if err := pgxscan.Get(ctx, r.q, &l, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get line: %w", err)
	}
	return &l, nil
}

// UpdateLine persiste los campos editables de la línea. Código y vínculo de stock no cambian.
func (r *PurchaseOrderRepo) UpdateLine(ctx context.Context, l *entity.PurchaseOrderLine) error {
	sql, args, err := psql.Update("purchase_order_lines").SetMap(map[string]any{
		"date":        l.Date,
		"name":        l.Name,
		"area":        l.Area,
		"project":     l.Project,
		"responsible": l.Responsible,
		"quantity":    l.Quantity,
		"unit_cost":   l.UnitCost,
		"subtotal":    l.Subtotal,
		"updated_at":  l.UpdatedAt,
	}).Where(squirrel.Eq{"id": l.ID, "deleted_at": nil}).ToSql()
	if err != nil {
		return fmt.Errorf("build update line: %w", err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDeleteLine marca la línea como borrada.
func (r *PurchaseOrderRepo) SoftDeleteLine(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE purchase_order_lines SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("soft delete line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListLines líneas activas de la orden en orden de creación.
func (r *PurchaseOrderRepo) ListLines(ctx context.Context, orderID string) ([]*entity.PurchaseOrderLine, error) {
	sql, args, err := psql.Select(lineColumns...).From("purchase_order_lines").
		Where(squirrel.Eq{"order_id": orderID, "deleted_at": nil}).
		OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list lines: %w", err)
	}
	var lines []*entity.PurchaseOrderLine
	if err := pgxscan.Select(ctx, r.q, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	return lines, nil
}
