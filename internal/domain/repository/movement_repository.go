package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para entradas y salidas.
// Los movimientos borrados no se devuelven en ninguna lectura.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	Update(ctx context.Context, movement *entity.Movement) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// List devuelve la página pedida y el total de registros que cumplen el filtro.
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, int, error)
	// RenameProduct actualiza la descripción de los movimientos del código creados desde since
	// (alta del producto activo); el histórico de un producto archivado con el mismo código no cambia.
	RenameProduct(ctx context.Context, code, name string, since time.Time) (int64, error)
}
