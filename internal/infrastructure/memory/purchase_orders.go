package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var (
	_ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)
	_ repository.SequenceRepository      = (*SequenceRepo)(nil)
)

// PurchaseOrderRepo órdenes y líneas en memoria.
type PurchaseOrderRepo struct {
	s    *Store
	inTx bool
}

func (r *PurchaseOrderRepo) CreateOrder(_ context.Context, o *entity.PurchaseOrder) error {
	defer r.s.guard(r.inTx)()
	for _, cur := range r.s.st.orders.rows {
		if cur.Code == o.Code {
			return domain.ErrDuplicate
		}
	}
	row := *o
	row.Lines = nil
	r.s.st.orders.put(o.ID, row)
	return nil
}

func (r *PurchaseOrderRepo) GetOrder(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	defer r.s.guard(r.inTx)()
	o, ok := r.s.st.orders.rows[id]
	if !ok || o.DeletedAt != nil {
		return nil, nil
	}
	return &o, nil
}

func (r *PurchaseOrderRepo) GetOrderForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetOrder(ctx, id)
}

func (r *PurchaseOrderRepo) UpdateOrder(_ context.Context, o *entity.PurchaseOrder) error {
	defer r.s.guard(r.inTx)()
	cur, ok := r.s.st.orders.rows[o.ID]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	cur.Date = o.Date
	cur.UpdatedAt = o.UpdatedAt
	r.s.st.orders.put(cur.ID, cur)
	return nil
}

func (r *PurchaseOrderRepo) UpdateTotals(_ context.Context, id string, quantity int, cost decimal.Decimal) error {
	defer r.s.guard(r.inTx)()
	cur, ok := r.s.st.orders.rows[id]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	cur.Quantity = quantity
	cur.Cost = cost
	cur.UpdatedAt = time.Now()
	r.s.st.orders.put(id, cur)
	return nil
}

func (r *PurchaseOrderRepo) SoftDeleteOrder(_ context.Context, id string, at time.Time) error {
	defer r.s.guard(r.inTx)()
	cur, ok := r.s.st.orders.rows[id]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	cur.DeletedAt = &at
	cur.UpdatedAt = at
	r.s.st.orders.put(id, cur)
	return nil
}

func (r *PurchaseOrderRepo) ListOrders(_ context.Context, f entity.PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error) {
	defer r.s.guard(r.inTx)()
	var list []*entity.PurchaseOrder
	order := r.s.st.orders.order
	for i := len(order) - 1; i >= 0; i-- {
		o := r.s.st.orders.rows[order[i]]
		if o.DeletedAt == nil {
			list = append(list, &o)
		}
	}
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r *PurchaseOrderRepo) CreateLine(_ context.Context, l *entity.PurchaseOrderLine) error {
	defer r.s.guard(r.inTx)()
	r.s.st.lines.put(l.ID, *l)
	return nil
}

func (r *PurchaseOrderRepo) GetLineForUpdate(_ context.Context, orderID, lineID string) (*entity.PurchaseOrderLine, error) {
	defer r.s.guard(r.inTx)()
	l, ok := r.s.st.lines.rows[lineID]
	if !ok || l.OrderID != orderID || l.DeletedAt != nil {
		return nil, nil
	}
	return &l, nil
}

func (r *PurchaseOrderRepo) UpdateLine(_ context.Context, l *entity.PurchaseOrderLine) error {
	defer r.s.guard(r.inTx)()
	cur, ok := r.s.st.lines.rows[l.ID]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	next := *l
	next.OrderID = cur.OrderID
	next.ProductCode = cur.ProductCode
	next.StockLinked = cur.StockLinked
	next.CreatedAt = cur.CreatedAt
	r.s.st.lines.put(l.ID, next)
	return nil
}

func (r *PurchaseOrderRepo) SoftDeleteLine(_ context.Context, id string, at time.Time) error {
	defer r.s.guard(r.inTx)()
	cur, ok := r.s.st.lines.rows[id]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	cur.DeletedAt = &at
	cur.UpdatedAt = at
	r.s.st.lines.put(id, cur)
	return nil
}

func (r *PurchaseOrderRepo) ListLines(_ context.Context, orderID string) ([]*entity.PurchaseOrderLine, error) {
	defer r.s.guard(r.inTx)()
	lines := []*entity.PurchaseOrderLine{}
	r.s.st.lines.each(func(l entity.PurchaseOrderLine) {
		if l.OrderID == orderID && l.DeletedAt == nil {
			lines = append(lines, &l)
		}
	})
	return lines, nil
}

// SequenceRepo consecutivos en memoria.
type SequenceRepo struct {
	s    *Store
	inTx bool
}

func (r *SequenceRepo) Next(_ context.Context, key string) (int64, error) {
	defer r.s.guard(r.inTx)()
	r.s.st.sequences[key]++
	return r.s.st.sequences[key], nil
}
