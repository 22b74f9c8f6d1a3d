package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas solo consideran productos activos; si no existe devuelven (nil, nil).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetByCodeForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetByCodeForUpdate(ctx context.Context, code string) (*entity.Product, error)
	// Update persiste los atributos de catálogo; no toca los campos de stock.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock persiste los campos que escribe el ledger (stock, acumulados, costo unitario y total).
	UpdateStock(ctx context.Context, product *entity.Product) error
	Archive(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, int, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListLocations(ctx context.Context) ([]string, error)
}
