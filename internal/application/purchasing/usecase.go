// Package purchasing mantiene las órdenes de compra y sus líneas.
// Las líneas con código del catálogo consumen stock como una salida; los totales de la
// orden se recalculan desde cero en la misma transacción de cada cambio de línea.
package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/datefmt"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// codeWidth dígitos del consecutivo (OC-0001).
const codeWidth = 4

// UseCase casos de uso de órdenes de compra.
type UseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	repo     repository.PurchaseOrderRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, repo repository.PurchaseOrderRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, ledger: ledger, repo: repo, log: log, now: time.Now}
}

// FormatCode arma el código de la orden a partir del consecutivo.
func FormatCode(n int64) string {
	return fmt.Sprintf("%s-%0*d", entity.PurchaseOrderCodePrefix, codeWidth, n)
}

// CreateOrder asigna el siguiente código y guarda la cabecera sin líneas.
func (uc *UseCase) CreateOrder(ctx context.Context, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	order := &entity.PurchaseOrder{
		ID:        uuid.New().String(),
		Date:      date,
		Cost:      decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		n, err := repos.Sequences.Next(ctx, entity.PurchaseOrderCodePrefix)
		if err != nil {
			return err
		}
		order.Code = FormatCode(n)
		return repos.PurchaseOrders.CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_code", order.Code).Msg("orden de compra creada")
	return toOrderResponse(order), nil
}

// GetOrder devuelve la orden con sus líneas activas. Es una lectura sin bloqueo.
func (uc *UseCase) GetOrder(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Lines, err = uc.repo.ListLines(ctx, order.ID); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// ListOrders lista cabeceras activas, más recientes primero.
func (uc *UseCase) ListOrders(ctx context.Context, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	page.DefaultPage(dto.DefaultPageLimit)
	list, total, err := uc.repo.ListOrders(ctx, entity.PurchaseOrderFilter{Limit: page.Limit, Offset: page.Offset()})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.PurchaseOrderListResponse{Data: items, Pagination: dto.NewPageResponse(page, total)}, nil
}

// UpdateOrder cambia la fecha de la orden.
func (uc *UseCase) UpdateOrder(ctx context.Context, id string, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	var out *entity.PurchaseOrder
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		order, err := lockOrder(ctx, repos, id)
		if err != nil {
			return err
		}
		order.Date = date
		order.UpdatedAt = uc.now()
		if err := repos.PurchaseOrders.UpdateOrder(ctx, order); err != nil {
			return err
		}
		if order.Lines, err = repos.PurchaseOrders.ListLines(ctx, order.ID); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(out), nil
}

// DeleteOrder anula la orden. Las líneas quedan como histórico y no devuelven stock.
func (uc *UseCase) DeleteOrder(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		order, err := lockOrder(ctx, repos, id)
		if err != nil {
			return err
		}
		return repos.PurchaseOrders.SoftDeleteOrder(ctx, order.ID, uc.now())
	})
}

// AddLine agrega una línea. Si el código existe en el catálogo exige stock y lo descuenta;
// sin código o con un código fuera del catálogo la línea se registra sin tocar stock.
func (uc *UseCase) AddLine(ctx context.Context, orderID string, in dto.PurchaseOrderLineRequest) (*dto.PurchaseOrderResponse, error) {
	if !domaininv.ValidQuantity(in.Quantity) || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	var out *entity.PurchaseOrder
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		order, err := lockOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		now := uc.now()
		line := &entity.PurchaseOrderLine{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			Date:        date,
			ProductCode: in.ProductCode,
			Name:        in.Name,
			Area:        in.Area,
			Project:     in.Project,
			Responsible: in.Responsible,
			Quantity:    in.Quantity,
			UnitCost:    in.UnitCost,
			Subtotal:    domaininv.LineSubtotal(in.Quantity, in.UnitCost),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		var p *entity.Product
		if in.ProductCode != "" {
			if p, err = repos.Products.GetByCodeForUpdate(ctx, in.ProductCode); err != nil {
				return err
			}
		}
		delta := domaininv.Delta{Exits: in.Quantity}
		if p != nil {
			if err := domaininv.Check(p, delta); err != nil {
				return err
			}
			line.StockLinked = true
		} else {
			uc.log.Debug().
				Str("order_code", order.Code).
				Str("product_code", in.ProductCode).
				Msg("línea sin producto en catálogo, no se descuenta stock")
		}
		if err := repos.PurchaseOrders.CreateLine(ctx, line); err != nil {
			return err
		}
		if p != nil {
			if err := uc.ledger.Apply(ctx, repos.Products, p, delta); err != nil {
				return err
			}
		}
		if err := uc.recalculate(ctx, repos, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(out), nil
}

// UpdateLine edita una línea. En líneas vinculadas al catálogo un aumento de cantidad
// exige stock y una reducción lo devuelve.
func (uc *UseCase) UpdateLine(ctx context.Context, orderID, lineID string, in dto.UpdatePurchaseOrderLineRequest) (*dto.PurchaseOrderResponse, error) {
	if in.Quantity != nil && !domaininv.ValidQuantity(*in.Quantity) {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var date *time.Time
	if in.Date != nil {
		d, err := parseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		date = &d
	}
	var out *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		order, err := lockOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		line, err := lockLine(ctx, repos, order.ID, lineID)
		if err != nil {
			return err
		}
		var (
			p     *entity.Product
			delta domaininv.Delta
		)
		if in.Quantity != nil && line.StockLinked {
			delta = domaininv.EditDelta(entity.MovementTypeExit, line.Quantity, *in.Quantity)
		}
		if !delta.IsZero() {
			if p, err = uc.ledger.Lock(ctx, repos.Products, line.ProductCode); err != nil {
				return err
			}
			if err := domaininv.Check(p, delta); err != nil {
				return err
			}
		}

		applyLineChanges(line, in, date)
		line.UpdatedAt = uc.now()
		if err := repos.PurchaseOrders.UpdateLine(ctx, line); err != nil {
			return err
		}
		if p != nil {
			if err := uc.ledger.Apply(ctx, repos.Products, p, delta); err != nil {
				return err
			}
		}
		if err := uc.recalculate(ctx, repos, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(out), nil
}

// RemoveLine anula una línea; si estaba vinculada al catálogo devuelve toda su cantidad al stock.
func (uc *UseCase) RemoveLine(ctx context.Context, orderID, lineID string) (*dto.PurchaseOrderResponse, error) {
	var out *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		order, err := lockOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		line, err := lockLine(ctx, repos, order.ID, lineID)
		if err != nil {
			return err
		}
		if line.StockLinked {
			if _, err := uc.ledger.AdjustStock(ctx, repos.Products, line.ProductCode, line.Quantity, 0); err != nil {
				return err
			}
		}
		if err := repos.PurchaseOrders.SoftDeleteLine(ctx, line.ID, uc.now()); err != nil {
			return err
		}
		if err := uc.recalculate(ctx, repos, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(out), nil
}

// recalculate fija cantidad y costo de la orden como la suma de sus líneas activas.
func (uc *UseCase) recalculate(ctx context.Context, repos inventory.Repos, order *entity.PurchaseOrder) error {
	lines, err := repos.PurchaseOrders.ListLines(ctx, order.ID)
	if err != nil {
		return err
	}
	qty, cost := domaininv.OrderTotals(lines)
	if err := repos.PurchaseOrders.UpdateTotals(ctx, order.ID, qty, cost); err != nil {
		return err
	}
	order.Quantity = qty
	order.Cost = cost
	order.Lines = lines
	return nil
}

func lockOrder(ctx context.Context, repos inventory.Repos, id string) (*entity.PurchaseOrder, error) {
	order, err := repos.PurchaseOrders.GetOrderForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func lockLine(ctx context.Context, repos inventory.Repos, orderID, lineID string) (*entity.PurchaseOrderLine, error) {
	line, err := repos.PurchaseOrders.GetLineForUpdate(ctx, orderID, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	return line, nil
}

func applyLineChanges(line *entity.PurchaseOrderLine, in dto.UpdatePurchaseOrderLineRequest, date *time.Time) {
	if date != nil {
		line.Date = *date
	}
	if in.Name != nil {
		line.Name = *in.Name
	}
	if in.Area != nil {
		line.Area = *in.Area
	}
	if in.Project != nil {
		line.Project = *in.Project
	}
	if in.Responsible != nil {
		line.Responsible = *in.Responsible
	}
	if in.Quantity != nil {
		line.Quantity = *in.Quantity
	}
	if in.UnitCost != nil {
		line.UnitCost = *in.UnitCost
	}
	line.Subtotal = domaininv.LineSubtotal(line.Quantity, line.UnitCost)
}

func parseDate(s string) (time.Time, error) {
	t, err := datefmt.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return t, nil
}

func toOrderResponse(o *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	lines := make([]dto.PurchaseOrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.PurchaseOrderLineResponse{
			ID:          l.ID,
			Date:        datefmt.Format(l.Date),
			ProductCode: l.ProductCode,
			Name:        l.Name,
			Area:        l.Area,
			Project:     l.Project,
			Responsible: l.Responsible,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			Subtotal:    l.Subtotal,
			StockLinked: l.StockLinked,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:        o.ID,
		Code:      o.Code,
		Date:      datefmt.Format(o.Date),
		Quantity:  o.Quantity,
		Cost:      o.Cost,
		Lines:     lines,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
