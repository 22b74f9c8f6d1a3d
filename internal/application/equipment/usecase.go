// Package equipment gestiona la salida y el retorno de equipos.
// Solo la salida descuenta stock; retorno, edición y borrado no lo tocan.
package equipment

import (
	"context"
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

// UseCase casos de uso de reportes de equipo.
type UseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	repo     repository.EquipmentRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, repo repository.EquipmentRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, ledger: ledger, repo: repo, log: log, now: time.Now}
}

// Checkout registra la salida de un equipo y descuenta la cantidad del stock, igual que una salida.
func (uc *UseCase) Checkout(ctx context.Context, in dto.CreateEquipmentRequest) (*dto.EquipmentResponse, error) {
	if !domaininv.ValidQuantity(in.Quantity) || !entity.ValidEquipmentCondition(in.Condition) {
		return nil, domain.ErrInvalidInput
	}
	date, err := datefmt.Parse(in.CheckoutDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := uc.now()
	report := &entity.EquipmentReport{
		ID:            uuid.New().String(),
		EquipmentName: in.EquipmentName,
		ProductCode:   in.ProductCode,
		Quantity:      in.Quantity,
		Condition:     in.Condition,
		Responsible:   in.Responsible,
		CheckoutDate:  date,
		CheckoutTime:  in.CheckoutTime,
		AreaProject:   in.AreaProject,
		Signature:     in.Signature,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		p, err := uc.ledger.Lock(ctx, repos.Products, in.ProductCode)
		if err != nil {
			return err
		}
		delta := domaininv.Delta{Exits: in.Quantity}
		if err := domaininv.Check(p, delta); err != nil {
			return err
		}
		if err := repos.Equipment.Create(ctx, report); err != nil {
			return err
		}
		return uc.ledger.Apply(ctx, repos.Products, p, delta)
	})
	if err != nil {
		return nil, err
	}
	return toEquipmentResponse(report), nil
}

// RegisterReturn registra el retorno del equipo. No reabastece stock; si el retorno ya
// existía, sus campos se reemplazan.
func (uc *UseCase) RegisterReturn(ctx context.Context, id string, in dto.ReturnEquipmentRequest) (*dto.EquipmentResponse, error) {
	if !entity.ValidEquipmentCondition(in.ReturnCondition) {
		return nil, domain.ErrInvalidInput
	}
	date, err := datefmt.Parse(in.ReturnDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	var out *entity.EquipmentReport
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		r, err := lockReport(ctx, repos, id)
		if err != nil {
			return err
		}
		r.ReturnDate = &date
		r.ReturnTime = &in.ReturnTime
		r.ReturnCondition = &in.ReturnCondition
		r.ReturnResponsible = &in.ReturnResponsible
		r.ReturnSignature = &in.ReturnSignature
		r.UpdatedAt = uc.now()
		if err := repos.Equipment.Update(ctx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("equipment_id", out.ID).
		Str("product_code", out.ProductCode).
		Str("condition", in.ReturnCondition).
		Msg("retorno de equipo registrado (sin reabastecer stock)")
	return toEquipmentResponse(out), nil
}

// Update edita los campos del reporte sin ajustar stock.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateEquipmentRequest) (*dto.EquipmentResponse, error) {
	if in.Condition != nil && !entity.ValidEquipmentCondition(*in.Condition) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity != nil && !domaininv.ValidQuantity(*in.Quantity) {
		return nil, domain.ErrInvalidInput
	}
	var date *time.Time
	if in.CheckoutDate != nil {
		d, err := datefmt.Parse(*in.CheckoutDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		date = &d
	}
	var out *entity.EquipmentReport
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		r, err := lockReport(ctx, repos, id)
		if err != nil {
			return err
		}
		if in.EquipmentName != nil {
			r.EquipmentName = *in.EquipmentName
		}
		if in.Quantity != nil {
			r.Quantity = *in.Quantity
		}
		if in.Condition != nil {
			r.Condition = *in.Condition
		}
		if in.Responsible != nil {
			r.Responsible = *in.Responsible
		}
		if date != nil {
			r.CheckoutDate = *date
		}
		if in.CheckoutTime != nil {
			r.CheckoutTime = *in.CheckoutTime
		}
		if in.AreaProject != nil {
			r.AreaProject = *in.AreaProject
		}
		if in.Signature != nil {
			r.Signature = *in.Signature
		}
		r.UpdatedAt = uc.now()
		if err := repos.Equipment.Update(ctx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toEquipmentResponse(out), nil
}

// Delete anula el reporte (borrado lógico) sin ajustar stock.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		r, err := lockReport(ctx, repos, id)
		if err != nil {
			return err
		}
		return repos.Equipment.SoftDelete(ctx, r.ID, uc.now())
	})
}

// Get obtiene un reporte activo.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.EquipmentResponse, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return toEquipmentResponse(r), nil
}

// FindLatestByCode último reporte activo para un código de equipo.
func (uc *UseCase) FindLatestByCode(ctx context.Context, code string) (*dto.EquipmentResponse, error) {
	r, err := uc.repo.GetLatestByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return toEquipmentResponse(r), nil
}

// List lista reportes activos con búsqueda y paginación.
func (uc *UseCase) List(ctx context.Context, in dto.ListEquipmentRequest) (*dto.EquipmentListResponse, error) {
	page := dto.PageRequest{Page: in.Page, Limit: in.Limit}
	page.DefaultPage(dto.DefaultPageLimit)
	list, total, err := uc.repo.List(ctx, entity.EquipmentFilter{Search: in.Search, Limit: page.Limit, Offset: page.Offset()})
	if err != nil {
		return nil, err
	}
	items := make([]dto.EquipmentResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toEquipmentResponse(r))
	}
	return &dto.EquipmentListResponse{Data: items, Pagination: dto.NewPageResponse(page, total)}, nil
}

func lockReport(ctx context.Context, repos inventory.Repos, id string) (*entity.EquipmentReport, error) {
	r, err := repos.Equipment.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func toEquipmentResponse(r *entity.EquipmentReport) *dto.EquipmentResponse {
	out := &dto.EquipmentResponse{
		ID:            r.ID,
		EquipmentName: r.EquipmentName,
		ProductCode:   r.ProductCode,
		Quantity:      r.Quantity,
		Condition:     r.Condition,
		Responsible:   r.Responsible,
		CheckoutDate:  datefmt.Format(r.CheckoutDate),
		CheckoutTime:  r.CheckoutTime,
		AreaProject:   r.AreaProject,
		Signature:     r.Signature,
		Returned:      r.IsReturned(),
		ReturnDate:    datefmt.FormatPtr(r.ReturnDate),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.ReturnTime != nil {
		out.ReturnTime = *r.ReturnTime
	}
	if r.ReturnCondition != nil {
		out.ReturnCondition = *r.ReturnCondition
	}
	if r.ReturnResponsible != nil {
		out.ReturnResponsible = *r.ReturnResponsible
	}
	if r.ReturnSignature != nil {
		out.ReturnSignature = *r.ReturnSignature
	}
	return out
}
