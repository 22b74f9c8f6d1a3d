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

var _ repository.EquipmentRepository = (*EquipmentRepo)(nil)

var equipmentColumns = []string{
	"id", "equipment_name", "product_code", "quantity", "condition", "responsible",
	"checkout_date", "checkout_time", "area_project", "signature",
	"return_date", "return_time", "return_condition", "return_responsible", "return_signature",
	"deleted_at", "created_at", "updated_at",
}

// EquipmentRepo reportes de salida de equipo sobre PostgreSQL.
type EquipmentRepo struct {
	q Querier
}

// NewEquipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEquipmentRepository(q Querier) *EquipmentRepo {
	return &EquipmentRepo{q: q}
}

// Create persiste un reporte.
func (r *EquipmentRepo) Create(ctx context.Context, e *entity.EquipmentReport) error {
	sql, args, err := psql.Insert("equipment_reports").Columns(equipmentColumns...).Values(
		e.ID, e.EquipmentName, e.ProductCode, e.Quantity, e.Condition, e.Responsible,
		e.CheckoutDate, e.CheckoutTime, e.AreaProject, e.Signature,
		e.ReturnDate, e.ReturnTime, e.ReturnCondition, e.ReturnResponsible, e.ReturnSignature,
		e.DeletedAt, e.CreatedAt, e.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert equipment: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert equipment: %w", err)
	}
	return nil
}

// GetByID obtiene un reporte activo.
func (r *EquipmentRepo) GetByID(ctx context.Context, id string) (*entity.EquipmentReport, error) {
	return r.getOne(ctx, psql.Select(equipmentColumns...).From("equipment_reports").
		Where(squirrel.Eq{"id": id, "deleted_at": nil}))
}

// GetByIDForUpdate obtiene y bloquea un reporte activo.
func (r *EquipmentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.EquipmentReport, error) {
	return r.getOne(ctx, psql.Select(equipmentColumns...).From("equipment_reports").
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).Suffix("FOR UPDATE"))
}

// GetLatestByCode último reporte activo del código.
func (r *EquipmentRepo) GetLatestByCode(ctx context.Context, code string) (*entity.EquipmentReport, error) {
	return r.getOne(ctx, psql.Select(equipmentColumns...).From("equipment_reports").
		Where(squirrel.Eq{"product_code": code, "deleted_at": nil}).
		OrderBy("created_at DESC").Limit(1))
}

func (r *EquipmentRepo) getOne(ctx context.Context, b squirrel.SelectBuilder) (*entity.EquipmentReport, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get equipment: %w", err)
	}
	var e entity.EquipmentReport
	if err := pgxscan.Get(ctx, r.q, &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get equipment: %w", err)
	}
	return &e, nil
}

// Update persiste campos de salida y de retorno.
func (r *EquipmentRepo) Update(ctx context.Context, e *entity.EquipmentReport) error {
	sql, args, err := psql.Update("equipment_reports").SetMap(map[string]any{
		"equipment_name":     e.EquipmentName,
		"quantity":           e.Quantity,
		"condition":          e.Condition,
		"responsible":        e.Responsible,
		"checkout_date":      e.CheckoutDate,
		"checkout_time":      e.CheckoutTime,
		"area_project":       e.AreaProject,
		"signature":          e.Signature,
		"return_date":        e.ReturnDate,
		"return_time":        e.ReturnTime,
		"return_condition":   e.ReturnCondition,
		"return_responsible": e.ReturnResponsible,
		"return_signature":   e.ReturnSignature,
		"updated_at":         e.UpdatedAt,
	}).Where(squirrel.Eq{"id": e.ID, "deleted_at": nil}).ToSql()
	if err != nil {
		return fmt.Errorf("build update equipment: %w", err)
	}
	cmd, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update equipment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca el reporte como borrado.
func (r *EquipmentRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE equipment_reports SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("soft delete equipment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista reportes activos, más recientes primero.
func (r *EquipmentRepo) List(ctx context.Context, f entity.EquipmentFilter) ([]*entity.EquipmentReport, int, error) {
	where := squirrel.And{squirrel.Eq{"deleted_at": nil}}
	if f.Search != "" {
		where = append(where, searchAny(f.Search, "equipment_name", "product_code", "responsible", "area_project"))
	}
	total, err := count(ctx, r.q, "equipment_reports", where)
	if err != nil {
		return nil, 0, fmt.Errorf("count equipment: %w", err)
	}
	b := psql.Select(equipmentColumns...).From("equipment_reports").Where(where).
		OrderBy("checkout_date DESC", "created_at DESC")
	sql, args, err := paginate(b, f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list equipment: %w", err)
	}
	var list []*entity.EquipmentReport
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list equipment: %w", err)
	}
	return list, total, nil
}

// RenameProduct copia el nombre del producto a los reportes del código creados desde since.
func (r *EquipmentRepo) RenameProduct(ctx context.Context, code, name string, since time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE equipment_reports SET equipment_name = $2 WHERE product_code = $1 AND equipment_name <> $2 AND created_at >= $3`,
		code, name, since,
	)
	if err != nil {
		return 0, fmt.Errorf("rename product in equipment: %w", err)
	}
	return cmd.RowsAffected(), nil
}
