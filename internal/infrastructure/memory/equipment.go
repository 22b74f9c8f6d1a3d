package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.EquipmentRepository = (*EquipmentRepo)(nil)

// EquipmentRepo reportes de equipo en memoria.
type EquipmentRepo struct {
	s    *Store
	inTx bool
}

func (r *EquipmentRepo) Create(_ context.Context, e *entity.EquipmentReport) error {
	defer r.s.guard(r.inTx)()
	r.s.st.equipment.put(e.ID, *e)
	return nil
}

func (r *EquipmentRepo) GetByID(_ context.Context, id string) (*entity.EquipmentReport, error) {
	defer r.s.guard(r.inTx)()
	e, ok := r.s.st.equipment.rows[id]
	if !ok || e.DeletedAt != nil {
		return nil, nil
	}
	return &e, nil
}

func (r *EquipmentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.EquipmentReport, error) {
	return r.GetByID(ctx, id)
}

func (r *EquipmentRepo) GetLatestByCode(_ context.Context, code string) (*entity.EquipmentReport, error) {
	defer r.s.guard(r.inTx)()
	order := r.s.st.equipment.order
	for i := len(order) - 1; i >= 0; i-- {
		e := r.s.st.equipment.rows[order[i]]
		if e.ProductCode == code && e.DeletedAt == nil {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *EquipmentRepo) Update(_ context.Context, e *entity.EquipmentReport) error {
	defer r.s.guard(r.inTx)()
	cur, ok := r.s.st.equipment.rows[e.ID]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	next := *e
	next.ProductCode = cur.ProductCode
	next.CreatedAt = cur.CreatedAt
	r.s.st.equipment.put(e.ID, next)
	return nil
}

func (r *EquipmentRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	defer r.s.guard(r.inTx)()
	cur, ok := r.s.st.equipment.rows[id]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	cur.DeletedAt = &at
	cur.UpdatedAt = at
	r.s.st.equipment.put(id, cur)
	return nil
}

func (r *EquipmentRepo) List(_ context.Context, f entity.EquipmentFilter) ([]*entity.EquipmentReport, int, error) {
	defer r.s.guard(r.inTx)()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var list []*entity.EquipmentReport
	r.s.st.equipment.each(func(e entity.EquipmentReport) {
		if e.DeletedAt != nil {
			return
		}
		if search != "" && !containsAny(search, e.EquipmentName, e.ProductCode, e.Responsible, e.AreaProject) {
			return
		}
		list = append([]*entity.EquipmentReport{&e}, list...)
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].CheckoutDate.After(list[j].CheckoutDate) })
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r *EquipmentRepo) RenameProduct(_ context.Context, code, name string, since time.Time) (int64, error) {
	defer r.s.guard(r.inTx)()
	var n int64
	for _, id := range r.s.st.equipment.order {
		e := r.s.st.equipment.rows[id]
		if e.ProductCode == code && e.EquipmentName != name && !e.CreatedAt.Before(since) {
			e.EquipmentName = name
			r.s.st.equipment.put(id, e)
			n++
		}
	}
	return n, nil
}
