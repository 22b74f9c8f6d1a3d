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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo en memoria.
type ProductRepo struct {
	s    *Store
	inTx bool
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.guard(r.inTx)()
	if _, ok := r.activeByCode(p.Code); ok {
		return domain.ErrDuplicate
	}
	r.s.st.products.put(p.ID, *p)
	return nil
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	defer r.s.guard(r.inTx)()
	p, ok := r.activeByCode(code)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetByCodeForUpdate el lock del store ya serializa la transacción completa.
func (r *ProductRepo) GetByCodeForUpdate(ctx context.Context, code string) (*entity.Product, error) {
	return r.GetByCode(ctx, code)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.s.guard(r.inTx)()
	cur, ok := r.s.st.products.rows[p.ID]
	if !ok || cur.IsArchived() {
		return domain.ErrNotFound
	}
	cur.Name = p.Name
	cur.Location = p.Location
	cur.StockMinimo = p.StockMinimo
	cur.UnitMeasure = p.UnitMeasure
	cur.Brand = p.Brand
	cur.Category = p.Category
	cur.UpdatedAt = p.UpdatedAt
	r.s.st.products.put(cur.ID, cur)
	return nil
}

func (r *ProductRepo) UpdateStock(_ context.Context, p *entity.Product) error {
	defer r.s.guard(r.inTx)()
	cur, ok := r.s.st.products.rows[p.ID]
	if !ok || cur.IsArchived() {
		return domain.ErrNotFound
	}
	cur.Entries = p.Entries
	cur.Exits = p.Exits
	cur.StockActual = p.StockActual
	cur.UnitCost = p.UnitCost
	cur.TotalCost = p.TotalCost
	cur.UpdatedAt = p.UpdatedAt
	r.s.st.products.put(cur.ID, cur)
	return nil
}

func (r *ProductRepo) Archive(_ context.Context, id string, at time.Time) error {
	defer r.s.guard(r.inTx)()
	cur, ok := r.s.st.products.rows[id]
	if !ok || cur.IsArchived() {
		return domain.ErrNotFound
	}
	cur.ArchivedAt = &at
	cur.UpdatedAt = at
	r.s.st.products.put(cur.ID, cur)
	return nil
}

func (r *ProductRepo) List(_ context.Context, f entity.ProductFilter) ([]*entity.Product, int, error) {
	defer r.s.guard(r.inTx)()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var list []*entity.Product
	r.s.st.products.each(func(p entity.Product) {
		if p.IsArchived() {
			return
		}
		if search != "" && !containsAny(search, p.Code, p.Name, p.Brand) {
			return
		}
		if f.Category != "" && p.Category != f.Category {
			return
		}
		if f.Location != "" && p.Location != f.Location {
			return
		}
		list = append(list, &p)
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r *ProductRepo) ListCategories(_ context.Context) ([]string, error) {
	defer r.s.guard(r.inTx)()
	return r.distinct(func(p entity.Product) string { return p.Category }), nil
}

func (r *ProductRepo) ListLocations(_ context.Context) ([]string, error) {
	defer r.s.guard(r.inTx)()
	return r.distinct(func(p entity.Product) string { return p.Location }), nil
}

func (r *ProductRepo) distinct(field func(entity.Product) string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	r.s.st.products.each(func(p entity.Product) {
		v := field(p)
		if p.IsArchived() || v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	})
	sort.Strings(out)
	return out
}

func (r *ProductRepo) activeByCode(code string) (entity.Product, bool) {
	for _, id := range r.s.st.products.order {
		p := r.s.st.products.rows[id]
		if p.Code == code && !p.IsArchived() {
			return p, true
		}
	}
	return entity.Product{}, false
}

// containsAny búsqueda por subcadena sin distinguir mayúsculas. needle ya en minúsculas.
func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
