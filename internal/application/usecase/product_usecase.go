package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// ProductUseCase casos de uso del catálogo. Stock y costos se escriben solo a través del ledger.
type ProductUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	repo     repository.ProductRepository
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, repo repository.ProductRepository, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, ledger: ledger, repo: repo, log: log}
}

// Create crea un producto activo. El código no puede estar en uso por otro producto activo.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		UnitCost:    in.UnitCost,
		Location:    in.Location,
		StockMinimo: in.StockMinimo,
		TotalCost:   decimal.Zero,
		UnitMeasure: in.UnitMeasure,
		Brand:       in.Brand,
		Category:    in.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		existing, err := repos.Products.GetByCode(ctx, in.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		// stock inicial como conteo físico: no cuenta como entrada
		return uc.ledger.Recount(ctx, repos.Products, product, in.Stock)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByCode obtiene un producto activo por código.
func (uc *ProductUseCase) GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza atributos de catálogo. Un cambio de nombre se propaga a movimientos y equipos;
// costo unitario y conteo físico pasan por el ledger.
func (uc *ProductUseCase) Update(ctx context.Context, code string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		p, err := uc.ledger.Lock(ctx, repos.Products, code)
		if err != nil {
			return err
		}
		renamed := in.Name != nil && *in.Name != p.Name
		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.Location != nil {
			p.Location = *in.Location
		}
		if in.StockMinimo != nil {
			p.StockMinimo = *in.StockMinimo
		}
		if in.UnitMeasure != nil {
			p.UnitMeasure = *in.UnitMeasure
		}
		if in.Brand != nil {
			p.Brand = *in.Brand
		}
		if in.Category != nil {
			p.Category = *in.Category
		}
		p.UpdatedAt = time.Now()
		if err := repos.Products.Update(ctx, p); err != nil {
			return err
		}
		if renamed {
			if err := uc.PropagateRename(ctx, repos, p); err != nil {
				return err
			}
		}
		if in.UnitCost != nil {
			if err := uc.ledger.Reprice(ctx, repos.Products, p, *in.UnitCost); err != nil {
				return err
			}
		}
		if in.Stock != nil {
			if err := uc.ledger.Recount(ctx, repos.Products, p, *in.Stock); err != nil {
				return err
			}
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// PropagateRename copia el nuevo nombre a los movimientos y reportes de equipo del producto.
// Solo alcanza registros creados desde el alta del producto: si el código perteneció a un
// producto archivado, ese histórico conserva su nombre. Debe ejecutarse en la misma
// transacción que el cambio de nombre.
func (uc *ProductUseCase) PropagateRename(ctx context.Context, repos inventory.Repos, p *entity.Product) error {
	movs, err := repos.Movements.RenameProduct(ctx, p.Code, p.Name, p.CreatedAt)
	if err != nil {
		return err
	}
	equipment, err := repos.Equipment.RenameProduct(ctx, p.Code, p.Name, p.CreatedAt)
	if err != nil {
		return err
	}
	uc.log.Debug().
		Str("product_code", p.Code).
		Int64("movements", movs).
		Int64("equipment", equipment).
		Msg("nombre de producto propagado")
	return nil
}

// Archive da de baja el producto; el código queda libre para un producto nuevo.
func (uc *ProductUseCase) Archive(ctx context.Context, code string) error {
	return uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		p, err := uc.ledger.Lock(ctx, repos.Products, code)
		if err != nil {
			return err
		}
		return repos.Products.Archive(ctx, p.ID, time.Now())
	})
}

// List lista productos activos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	page := dto.PageRequest{Page: in.Page, Limit: in.Limit}
	page.DefaultPage(dto.DefaultPageLimit)
	list, total, err := uc.repo.List(ctx, entity.ProductFilter{
		Search:   in.Search,
		Category: in.Category,
		Location: in.Location,
		Limit:    page.Limit,
		Offset:   page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Data: items, Pagination: dto.NewPageResponse(page, total)}, nil
}

// Categories categorías distintas del catálogo activo.
func (uc *ProductUseCase) Categories(ctx context.Context) ([]string, error) {
	return uc.repo.ListCategories(ctx)
}

// Locations ubicaciones distintas del catálogo activo.
func (uc *ProductUseCase) Locations(ctx context.Context) ([]string, error) {
	return uc.repo.ListLocations(ctx)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		UnitCost:    p.UnitCost,
		Location:    p.Location,
		Entries:     p.Entries,
		Exits:       p.Exits,
		StockActual: p.StockActual,
		StockMinimo: p.StockMinimo,
		TotalCost:   p.TotalCost,
		UnitMeasure: p.UnitMeasure,
		Brand:       p.Brand,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
