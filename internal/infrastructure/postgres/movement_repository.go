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

var _ repository.MovementRepository = (*MovementRepo)(nil)

var movementColumns = []string{
	"id", "type", "date", "product_code", "description", "unit_price", "quantity",
	"responsible", "area", "project", "category", "deleted_at", "created_at", "updated_at",
}

// MovementRepo entradas y salidas sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	sql, args, err := psql.Insert("movements").Columns(movementColumns...).Values(
		m.ID, m.Type, m.Date, m.ProductCode, m.Description, m.UnitPrice, m.Quantity,
		m.Responsible, m.Area, m.Project, m.Category, m.DeletedAt, m.CreatedAt, m.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert movement: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento activo.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate obtiene y bloquea un movimiento activo.
func (r *MovementRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.get(ctx, id, true)
}

func (r *MovementRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Movement, error) {
	b := psql.Select(movementColumns...).From("movements").
		Where(squirrel.Eq{"id": id, "deleted_at": nil})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get movement: %w", err)
	}
	var m entity.Movement
	if err := pgxscan.Get(ctx, r.q, &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// Update persiste los campos editables. Tipo y código de producto no cambian.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	sql, args, err := psql.Update("movements").SetMap(map[string]any{
		"date":        m.Date,
		"description": m.Description,
		"unit_price":  m.UnitPrice,
		"quantity":    m.Quantity,
		"responsible": m.Responsible,
		"area":        m.Area,
		"project":     m.Project,
		"category":    m.Category,
		"updated_at":  m.UpdatedAt,
	}).Where(squirrel.Eq{"id": m.ID, "deleted_at": nil}).ToSql()
	if err != nil {
		return fmt.Errorf("build update movement: %w", err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca el movimiento como borrado.
func (r *MovementRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE movements SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("soft delete movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista movimientos activos, más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.Movement, int, error) {
	where := squirrel.And{squirrel.Eq{"deleted_at": nil}}
	if f.Type != "" {
		where = append(where, squirrel.Eq{"type": f.Type})
	}
	if f.Search != "" {
		where = append(where, searchAny(f.Search, "product_code", "description", "responsible", "project"))
	}
	if f.Category != "" {
		where = append(where, squirrel.Eq{"category": f.Category})
	}
	if f.Area != "" {
		where = append(where, squirrel.Eq{"area": f.Area})
	}
	if f.Responsible != "" {
		where = append(where, squirrel.ILike{"responsible": likePattern(f.Responsible)})
	}
	if f.From != nil {
		where = append(where, squirrel.GtOrEq{"date": *f.From})
	}
	if f.To != nil {
		where = append(where, squirrel.LtOrEq{"date": *f.To})
	}

	total, err := count(ctx, r.q, "movements", where)
	if err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	b := psql.Select(movementColumns...).From("movements").Where(where).
		OrderBy("date DESC", "created_at DESC")
	sql, args, err := paginate(b, f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list movements: %w", err)
	}
	var list []*entity.Movement
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	return list, total, nil
}

// RenameProduct copia el nombre del producto a la descripción de sus movimientos (incluye borrados)
// creados desde since.
func (r *MovementRepo) RenameProduct(ctx context.Context, code, name string, since time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE movements SET description = $2 WHERE product_code = $1 AND description <> $2 AND created_at >= $3`,
		code, name, since,
	)
	if err != nil {
		return 0, fmt.Errorf("rename product in movements: %w", err)
	}
	return cmd.RowsAffected(), nil
}
