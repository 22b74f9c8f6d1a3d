// Package movements registra entradas y salidas de almacén manteniendo el ledger de stock consistente.
package movements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/datefmt"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// searchLimit máximo de resultados por tipo en la búsqueda combinada.
const searchLimit = 1000

// UseCase crea, edita y anula movimientos. Cada operación lee el producto con bloqueo de fila,
// valida el stock, escribe el movimiento y ajusta el ledger dentro de la misma transacción.
type UseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	repo     repository.MovementRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. repo se usa para lecturas fuera de transacción.
func NewUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, repo repository.MovementRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, ledger: ledger, repo: repo, log: log, now: time.Now}
}

// CreateEntry registra una entrada y suma la cantidad al stock.
func (uc *UseCase) CreateEntry(ctx context.Context, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	in.Project = ""
	return uc.create(ctx, entity.MovementTypeEntry, in)
}

// CreateExit registra una salida; falla con InsufficientStock si el stock no alcanza.
func (uc *UseCase) CreateExit(ctx context.Context, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	return uc.create(ctx, entity.MovementTypeExit, in)
}

func (uc *UseCase) create(ctx context.Context, typ string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if !domaininv.ValidQuantity(in.Quantity) || in.UnitPrice.IsNegative() || in.ProductCode == "" {
		return nil, domain.ErrInvalidInput
	}
	date, err := datefmt.Parse(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := uc.now()
	m := &entity.Movement{
		ID:          uuid.New().String(),
		Type:        typ,
		Date:        date,
		ProductCode: in.ProductCode,
		Description: in.Description,
		UnitPrice:   in.UnitPrice,
		Quantity:    in.Quantity,
		Responsible: in.Responsible,
		Area:        in.Area,
		Project:     in.Project,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		p, err := uc.ledger.Lock(ctx, repos.Products, in.ProductCode)
		if err != nil {
			return err
		}
		delta := domaininv.CreationDelta(typ, in.Quantity)
		if err := domaininv.Check(p, delta); err != nil {
			return err
		}
		m.Category = p.Category
		if err := repos.Movements.Create(ctx, m); err != nil {
			return err
		}
		return uc.ledger.Apply(ctx, repos.Products, p, delta)
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(m), nil
}

// Get obtiene un movimiento activo del tipo indicado.
func (uc *UseCase) Get(ctx context.Context, typ, id string) (*dto.MovementResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil || m.Type != typ {
		return nil, domain.ErrNotFound
	}
	return toMovementResponse(m), nil
}

// UpdateEntry edita una entrada. Si cambia la cantidad, el ledger recibe solo la diferencia.
func (uc *UseCase) UpdateEntry(ctx context.Context, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	in.Project = nil
	return uc.update(ctx, entity.MovementTypeEntry, id, in)
}

// UpdateExit edita una salida. Un aumento de cantidad exige stock disponible; una reducción lo devuelve.
func (uc *UseCase) UpdateExit(ctx context.Context, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	return uc.update(ctx, entity.MovementTypeExit, id, in)
}

// UpdateEntryQuantity cambia solo la cantidad de una entrada.
func (uc *UseCase) UpdateEntryQuantity(ctx context.Context, id string, quantity int) (*dto.MovementResponse, error) {
	return uc.update(ctx, entity.MovementTypeEntry, id, dto.UpdateMovementRequest{Quantity: &quantity})
}

// UpdateExitQuantity cambia solo la cantidad de una salida.
func (uc *UseCase) UpdateExitQuantity(ctx context.Context, id string, quantity int) (*dto.MovementResponse, error) {
	return uc.update(ctx, entity.MovementTypeExit, id, dto.UpdateMovementRequest{Quantity: &quantity})
}

func (uc *UseCase) update(ctx context.Context, typ, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	if in.Quantity != nil && !domaininv.ValidQuantity(*in.Quantity) {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var date *time.Time
	if in.Date != nil {
		d, err := datefmt.Parse(*in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		date = &d
	}

	var out *entity.Movement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		m, err := lockMovement(ctx, repos, typ, id)
		if err != nil {
			return err
		}
		var (
			p     *entity.Product
			delta domaininv.Delta
		)
		if in.Quantity != nil {
			delta = domaininv.EditDelta(m.Type, m.Quantity, *in.Quantity)
		}
		if !delta.IsZero() {
			if p, err = uc.ledger.Lock(ctx, repos.Products, m.ProductCode); err != nil {
				return err
			}
			if err := domaininv.Check(p, delta); err != nil {
				return withReason(err, "la nueva cantidad dejaría el stock negativo")
			}
		}

		applyMovementChanges(m, in, date)
		m.UpdatedAt = uc.now()
		if err := repos.Movements.Update(ctx, m); err != nil {
			return err
		}
		if p != nil {
			if err := uc.ledger.Apply(ctx, repos.Products, p, delta); err != nil {
				return err
			}
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(out), nil
}

// RemoveEntry anula una entrada: descuenta su cantidad del stock, que debe alcanzar.
func (uc *UseCase) RemoveEntry(ctx context.Context, id string) error {
	return uc.remove(ctx, entity.MovementTypeEntry, id)
}

// RemoveExit anula una salida devolviendo su cantidad al stock.
func (uc *UseCase) RemoveExit(ctx context.Context, id string) error {
	return uc.remove(ctx, entity.MovementTypeExit, id)
}

func (uc *UseCase) remove(ctx context.Context, typ, id string) error {
	return uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		m, err := lockMovement(ctx, repos, typ, id)
		if err != nil {
			return err
		}
		p, err := uc.ledger.Lock(ctx, repos.Products, m.ProductCode)
		if err != nil {
			return err
		}
		delta := domaininv.ReversalDelta(m.Type, m.Quantity)
		if err := domaininv.Check(p, delta); err != nil {
			return withReason(err, "no se puede eliminar, el stock quedaría negativo")
		}
		if err := repos.Movements.SoftDelete(ctx, m.ID, uc.now()); err != nil {
			return err
		}
		return uc.ledger.Apply(ctx, repos.Products, p, delta)
	})
}

// ListEntries lista entradas activas con filtros y paginación.
func (uc *UseCase) ListEntries(ctx context.Context, in dto.ListMovementsRequest) (*dto.MovementListResponse, error) {
	return uc.list(ctx, entity.MovementTypeEntry, in)
}

// ListExits lista salidas activas con filtros y paginación.
func (uc *UseCase) ListExits(ctx context.Context, in dto.ListMovementsRequest) (*dto.MovementListResponse, error) {
	return uc.list(ctx, entity.MovementTypeExit, in)
}

func (uc *UseCase) list(ctx context.Context, typ string, in dto.ListMovementsRequest) (*dto.MovementListResponse, error) {
	from, err := datefmt.ParseBound(in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	to, err := datefmt.ParseBound(in.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	page := dto.PageRequest{Page: in.Page, Limit: in.Limit}
	page.DefaultPage(dto.DefaultPageLimit)

	list, total, err := uc.repo.List(ctx, entity.MovementFilter{
		Type:        typ,
		Search:      in.Search,
		Category:    in.Category,
		Area:        in.Area,
		Responsible: in.Responsible,
		From:        from,
		To:          to,
		Limit:       page.Limit,
		Offset:      page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return &dto.MovementListResponse{Data: toMovementResponses(list), Pagination: dto.NewPageResponse(page, total)}, nil
}

// Search busca el texto en entradas y salidas activas.
func (uc *UseCase) Search(ctx context.Context, query string) (*dto.MovementSearchResponse, error) {
	entries, _, err := uc.repo.List(ctx, entity.MovementFilter{Type: entity.MovementTypeEntry, Search: query, Limit: searchLimit})
	if err != nil {
		return nil, err
	}
	exits, _, err := uc.repo.List(ctx, entity.MovementFilter{Type: entity.MovementTypeExit, Search: query, Limit: searchLimit})
	if err != nil {
		return nil, err
	}
	return &dto.MovementSearchResponse{Entries: toMovementResponses(entries), Exits: toMovementResponses(exits)}, nil
}

func lockMovement(ctx context.Context, repos inventory.Repos, typ, id string) (*entity.Movement, error) {
	m, err := repos.Movements.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil || m.Type != typ {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func applyMovementChanges(m *entity.Movement, in dto.UpdateMovementRequest, date *time.Time) {
	if date != nil {
		m.Date = *date
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.UnitPrice != nil {
		m.UnitPrice = *in.UnitPrice
	}
	if in.Quantity != nil {
		m.Quantity = *in.Quantity
	}
	if in.Responsible != nil {
		m.Responsible = *in.Responsible
	}
	if in.Area != nil {
		m.Area = *in.Area
	}
	if in.Project != nil && m.Type == entity.MovementTypeExit {
		m.Project = *in.Project
	}
}

func withReason(err error, reason string) error {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr.WithReason(reason)
	}
	return err
}

func toMovementResponses(list []*entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMovementResponse(m))
	}
	return out
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:          m.ID,
		Type:        m.Type,
		Date:        datefmt.Format(m.Date),
		ProductCode: m.ProductCode,
		Description: m.Description,
		UnitPrice:   m.UnitPrice,
		Quantity:    m.Quantity,
		Total:       domaininv.LineSubtotal(m.Quantity, m.UnitPrice),
		Responsible: m.Responsible,
		Area:        m.Area,
		Project:     m.Project,
		Category:    m.Category,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
