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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo entradas y salidas en memoria.
type MovementRepo struct {
	s    *Store
	inTx bool
}

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	defer r.s.guard(r.inTx)()
	r.s.st.movements.put(m.ID, *m)
	return nil
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	defer r.s.guard(r.inTx)()
	m, ok := r.s.st.movements.rows[id]
	if !ok || m.DeletedAt != nil {
		return nil, nil
	}
	return &m, nil
}

func (r *MovementRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r *MovementRepo) Update(_ context.Context, m *entity.Movement) error {
	defer r.s.guard(r.inTx)()
	cur, ok := r.s.st.movements.rows[m.ID]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	// tipo y código son inmutables
	m2 := *m
	m2.Type = cur.Type
	m2.ProductCode = cur.ProductCode
	m2.CreatedAt = cur.CreatedAt
	r.s.st.movements.put(m.ID, m2)
	return nil
}

func (r *MovementRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	defer r.s.guard(r.inTx)()
	cur, ok := r.s.st.movements.rows[id]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	cur.DeletedAt = &at
	cur.UpdatedAt = at
	r.s.st.movements.put(id, cur)
	return nil
}

func (r *MovementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.Movement, int, error) {
	defer r.s.guard(r.inTx)()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	responsible := strings.ToLower(strings.TrimSpace(f.Responsible))
	var list []*entity.Movement
	r.s.st.movements.each(func(m entity.Movement) {
		switch {
		case m.DeletedAt != nil:
			return
		case f.Type != "" && m.Type != f.Type:
			return
		case search != "" && !containsAny(search, m.ProductCode, m.Description, m.Responsible, m.Project):
			return
		case f.Category != "" && m.Category != f.Category:
			return
		case f.Area != "" && m.Area != f.Area:
			return
		case responsible != "" && !containsAny(responsible, m.Responsible):
			return
		case f.From != nil && m.Date.Before(*f.From):
			return
		case f.To != nil && m.Date.After(*f.To):
			return
		}
		list = append(list, &m)
	})
	// más recientes primero; a igual fecha, el último insertado primero
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r *MovementRepo) RenameProduct(_ context.Context, code, name string, since time.Time) (int64, error) {
	defer r.s.guard(r.inTx)()
	var n int64
	for _, id := range r.s.st.movements.order {
		m := r.s.st.movements.rows[id]
		if m.ProductCode == code && m.Description != name && !m.CreatedAt.Before(since) {
			m.Description = name
			r.s.st.movements.put(id, m)
			n++
		}
	}
	return n, nil
}
