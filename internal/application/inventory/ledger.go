package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// Ledger es el único componente que escribe los campos de stock de un producto.
// Todas sus operaciones deben llamarse dentro de TxRunner.Run con los repos de la tx.
type Ledger struct {
	log *logger.Logger
	now func() time.Time
}

// NewLedger construye el ledger de stock.
func NewLedger(log *logger.Logger) *Ledger {
	return &Ledger{log: log, now: time.Now}
}

// Lock lee el producto activo y bloquea su fila hasta el fin de la transacción.
func (l *Ledger) Lock(ctx context.Context, products repository.ProductRepository, code string) (*entity.Product, error) {
	p, err := products.GetByCodeForUpdate(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Apply aplica el delta sobre un producto ya bloqueado con Lock y lo persiste.
// Nunca deja stock negativo: en ese caso devuelve InsufficientStockError sin escribir.
func (l *Ledger) Apply(ctx context.Context, products repository.ProductRepository, p *entity.Product, d inventory.Delta) error {
	if d.IsZero() {
		return nil
	}
	if err := inventory.Apply(p, d); err != nil {
		return err
	}
	p.UpdatedAt = l.now()
	if err := products.UpdateStock(ctx, p); err != nil {
		return err
	}
	l.log.Info().
		Str("product_code", p.Code).
		Int("entries_delta", d.Entries).
		Int("exits_delta", d.Exits).
		Int("stock", p.StockActual).
		Msg("stock actualizado")
	return nil
}

// AdjustStock bloquea el producto por código y aplica entradas/salidas.
// stock = stock + entriesDelta - exitsDelta; acumulados y costo total se recalculan.
func (l *Ledger) AdjustStock(ctx context.Context, products repository.ProductRepository, code string, entriesDelta, exitsDelta int) (*entity.Product, error) {
	p, err := l.Lock(ctx, products, code)
	if err != nil {
		return nil, err
	}
	if err := l.Apply(ctx, products, p, inventory.Delta{Entries: entriesDelta, Exits: exitsDelta}); err != nil {
		return nil, err
	}
	return p, nil
}

// Recount fija el stock de un producto bloqueado por conteo físico.
func (l *Ledger) Recount(ctx context.Context, products repository.ProductRepository, p *entity.Product, stock int) error {
	if p.StockActual == stock {
		return nil
	}
	before := p.StockActual
	if err := inventory.Recount(p, stock); err != nil {
		return err
	}
	p.UpdatedAt = l.now()
	if err := products.UpdateStock(ctx, p); err != nil {
		return err
	}
	l.log.Info().
		Str("product_code", p.Code).
		Int("before", before).
		Int("stock", stock).
		Msg("conteo físico aplicado")
	return nil
}

// Reprice cambia el costo unitario de un producto bloqueado y recalcula su costo total.
func (l *Ledger) Reprice(ctx context.Context, products repository.ProductRepository, p *entity.Product, unitCost decimal.Decimal) error {
	if p.UnitCost.Equal(unitCost) {
		return nil
	}
	if err := inventory.Reprice(p, unitCost); err != nil {
		return err
	}
	p.UpdatedAt = l.now()
	return products.UpdateStock(ctx, p)
}
