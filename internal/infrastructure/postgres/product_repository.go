package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productColumns = []string{
	"id", "code", "name", "unit_cost", "location", "entries", "exits", "stock_actual", "stock_minimo",
	"total_cost", "unit_measure", "brand", "category", "archived_at", "created_at", "updated_at",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto activo.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	sql, args, err := psql.Insert("products").Columns(productColumns...).Values(
		p.ID, p.Code, p.Name, p.UnitCost, p.Location, p.Entries, p.Exits, p.StockActual, p.StockMinimo,
		p.TotalCost, p.UnitMeasure, p.Brand, p.Category, p.ArchivedAt, p.CreatedAt, p.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert product: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByCode obtiene el producto activo con ese código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getByCode(ctx, code, false)
}

// GetByCodeForUpdate igual que GetByCode pero bloquea la fila (SELECT ... FOR UPDATE).
func (r *ProductRepo) GetByCodeForUpdate(ctx context.Context, code string) (*entity.Product, error) {
	return r.getByCode(ctx, code, true)
}

func (r *ProductRepo) getByCode(ctx context.Context, code string, forUpdate bool) (*entity.Product, error) {
	b := psql.Select(productColumns...).From("products").
		Where(squirrel.Eq{"code": code, "archived_at": nil})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get product: %w", err)
	}
	var p entity.Product
	if err := pgxscan.Get(ctx, r.q, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza atributos de catálogo. Código y campos de stock no se modifican aquí.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	sql, args, err := psql.Update("products").SetMap(map[string]any{
		"name":         p.Name,
		"location":     p.Location,
		"stock_minimo": p.StockMinimo,
		"unit_measure": p.UnitMeasure,
		"brand":        p.Brand,
		"category":     p.Category,
		"updated_at":   p.UpdatedAt,
	}).Where(squirrel.Eq{"id": p.ID, "archived_at": nil}).ToSql()
	if err != nil {
		return fmt.Errorf("build update product: %w", err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock persiste los campos que escribe el ledger.
func (r *ProductRepo) UpdateStock(ctx context.Context, p *entity.Product) error {
	sql, args, err := psql.Update("products").SetMap(map[string]any{
		"entries":      p.Entries,
		"exits":        p.Exits,
		"stock_actual": p.StockActual,
		"unit_cost":    p.UnitCost,
		"total_cost":   p.TotalCost,
		"updated_at":   p.UpdatedAt,
	}).Where(squirrel.Eq{"id": p.ID, "archived_at": nil}).ToSql()
	if err != nil {
		return fmt.Errorf("build update stock: %w", err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Archive marca el producto como dado de baja; el índice único parcial libera el código.
func (r *ProductRepo) Archive(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET archived_at = $2, updated_at = $2 WHERE id = $1 AND archived_at IS NULL`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("archive product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos activos filtrados, ordenados por código, con el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f entity.ProductFilter) ([]*entity.Product, int, error) {
	where := squirrel.And{squirrel.Eq{"archived_at": nil}}
	if f.Search != "" {
		where = append(where, searchAny(f.Search, "code", "name", "brand"))
	}
	if f.Category != "" {
		where = append(where, squirrel.Eq{"category": f.Category})
	}
	if f.Location != "" {
		where = append(where, squirrel.Eq{"location": f.Location})
	}

	total, err := count(ctx, r.q, "products", where)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	b := psql.Select(productColumns...).From("products").Where(where).OrderBy("code")
	b = paginate(b, f.Limit, f.Offset)
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list products: %w", err)
	}
	var list []*entity.Product
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return list, total, nil
}

// ListCategories categorías distintas de productos activos.
func (r *ProductRepo) ListCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

// ListLocations ubicaciones distintas de productos activos.
func (r *ProductRepo) ListLocations(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "location")
}

func (r *ProductRepo) distinct(ctx context.Context, column string) ([]string, error) {
	sql, args, err := psql.Select(column).Distinct().From("products").
		Where(squirrel.Eq{"archived_at": nil}).
		Where(squirrel.NotEq{column: ""}).
		OrderBy(column).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build distinct %s: %w", column, err)
	}
	var out []string
	if err := pgxscan.Select(ctx, r.q, &out, sql, args...); err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	return out, nil
}
