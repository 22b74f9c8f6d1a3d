package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// EquipmentRepository define el puerto de persistencia para reportes de salida de equipo.
type EquipmentRepository interface {
	Create(ctx context.Context, report *entity.EquipmentReport) error
	GetByID(ctx context.Context, id string) (*entity.EquipmentReport, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.EquipmentReport, error)
	// GetLatestByCode último reporte activo de un código de equipo.
	GetLatestByCode(ctx context.Context, code string) (*entity.EquipmentReport, error)
	Update(ctx context.Context, report *entity.EquipmentReport) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter entity.EquipmentFilter) ([]*entity.EquipmentReport, int, error)
	// RenameProduct actualiza el nombre del equipo en los reportes del código creados desde since.
	RenameProduct(ctx context.Context, code, name string, since time.Time) (int64, error)
}
