package movements_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/movements"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

type fixture struct {
	ctx      context.Context
	movs     *movements.UseCase
	products *usecase.ProductUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	log := logger.Nop()
	ledger := inventory.NewLedger(log)
	return &fixture{
		ctx:      context.Background(),
		movs:     movements.NewUseCase(store, ledger, repos.Movements, log),
		products: usecase.NewProductUseCase(store, ledger, repos.Products, log),
	}
}

func (f *fixture) product(t *testing.T, code string, stock int) {
	t.Helper()
	_, err := f.products.Create(f.ctx, dto.CreateProductRequest{
		Code: code, Name: "Cemento gris", UnitCost: decimal.NewFromInt(4), Stock: stock, Category: "Obra gris",
	})
	require.NoError(t, err)
}

func (f *fixture) stock(t *testing.T, code string) int {
	t.Helper()
	p, err := f.products.GetByCode(f.ctx, code)
	require.NoError(t, err)
	return p.StockActual
}

func req(code string, qty int) dto.CreateMovementRequest {
	return dto.CreateMovementRequest{
		Date: "15/01/2025", ProductCode: code, Description: "Cemento gris",
		UnitPrice: decimal.NewFromInt(4), Quantity: qty, Responsible: "Carlos", Area: "Bodega",
	}
}

func TestSalida_StockInsuficienteNoModifica(t *testing.T) {
	f := newFixture(t)
	f.product(t, "CEM-1", 10)

	_, err := f.movs.CreateExit(f.ctx, req("CEM-1", 3))
	require.NoError(t, err)
	assert.Equal(t, 7, f.stock(t, "CEM-1"))

	_, err = f.movs.CreateExit(f.ctx, req("CEM-1", 8))
	require.Error(t, err)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 7, stockErr.Available)
	assert.Equal(t, 8, stockErr.Requested)
	assert.Equal(t, 7, f.stock(t, "CEM-1"))

	list, err := f.movs.ListExits(f.ctx, dto.ListMovementsRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Data, 1, "la salida rechazada no queda registrada")
}

func TestEntrada_EdicionAplicaSoloLaDiferencia(t *testing.T) {
	f := newFixture(t)
	f.product(t, "CEM-1", 7)

	entry, err := f.movs.CreateEntry(f.ctx, req("CEM-1", 5))
	require.NoError(t, err)
	assert.Equal(t, 12, f.stock(t, "CEM-1"))

	_, err = f.movs.UpdateEntryQuantity(f.ctx, entry.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 9, f.stock(t, "CEM-1"))
}

func TestSalida_AnularDevuelveStock(t *testing.T) {
	f := newFixture(t)
	f.product(t, "CEM-1", 5)

	exit, err := f.movs.CreateExit(f.ctx, req("CEM-1", 5))
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(t, "CEM-1"))

	require.NoError(t, f.movs.RemoveExit(f.ctx, exit.ID))
	assert.Equal(t, 5, f.stock(t, "CEM-1"))

	_, err = f.movs.Get(f.ctx, "EXIT", exit.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntrada_AnularRevierteSiHayStock(t *testing.T) {
	f := newFixture(t)
	f.product(t, "CEM-1", 20)

	entry, err := f.movs.CreateEntry(f.ctx, req("CEM-1", 10))
	require.NoError(t, err)
	assert.Equal(t, 30, f.stock(t, "CEM-1"))

	require.NoError(t, f.movs.RemoveEntry(f.ctx, entry.ID))
	assert.Equal(t, 20, f.stock(t, "CEM-1"))
}

func TestEntrada_AnularConsumidaFallaYNoBorra(t *testing.T) {
	f := newFixture(t)
	f.product(t, "CEM-1", 0)

	entry, err := f.movs.CreateEntry(f.ctx, req("CEM-1", 10))
	require.NoError(t, err)
	_, err = f.movs.CreateExit(f.ctx, req("CEM-1", 8))
	require.NoError(t, err)

	err = f.movs.RemoveEntry(f.ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, f.stock(t, "CEM-1"))

	got, err := f.movs.Get(f.ctx, "ENTRY", entry.ID)
	require.NoError(t, err, "la entrada sigue activa tras el rechazo")
	assert.Equal(t, 10, got.Quantity)
}

func TestSalida_EditarPorEncimaDelStockNoModifica(t *testing.T) {
	f := newFixture(t)
	f.product(t, "CEM-1", 10)

	exit, err := f.movs.CreateExit(f.ctx, req("CEM-1", 4))
	require.NoError(t, err)

	qty := 15
	desc := "Cemento blanco"
	_, err = f.movs.UpdateExit(f.ctx, exit.ID, dto.UpdateMovementRequest{Quantity: &qty, Description: &desc})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 6, f.stock(t, "CEM-1"))

	got, err := f.movs.Get(f.ctx, "EXIT", exit.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
	assert.Equal(t, "Cemento gris", got.Description, "ningún campo se escribe si la validación falla")
}

func TestLeyDeReversion(t *testing.T) {
	for _, isEntry := range []bool{true, false} {
		f := newFixture(t)
		f.product(t, "CEM-1", 12)

		if isEntry {
			m, err := f.movs.CreateEntry(f.ctx, req("CEM-1", 9))
			require.NoError(t, err)
			require.NoError(t, f.movs.RemoveEntry(f.ctx, m.ID))
		} else {
			m, err := f.movs.CreateExit(f.ctx, req("CEM-1", 9))
			require.NoError(t, err)
			require.NoError(t, f.movs.RemoveExit(f.ctx, m.ID))
		}
		assert.Equal(t, 12, f.stock(t, "CEM-1"))
	}
}

func TestEdicionIdempotente(t *testing.T) {
	f := newFixture(t)
	f.product(t, "CEM-1", 10)

	exit, err := f.movs.CreateExit(f.ctx, req("CEM-1", 4))
	require.NoError(t, err)
	before, err := f.products.GetByCode(f.ctx, "CEM-1")
	require.NoError(t, err)

	_, err = f.movs.UpdateExitQuantity(f.ctx, exit.ID, 4)
	require.NoError(t, err)

	after, err := f.products.GetByCode(f.ctx, "CEM-1")
	require.NoError(t, err)
	assert.Equal(t, before.StockActual, after.StockActual)
	assert.Equal(t, before.Exits, after.Exits)
}

func TestSalida_Limite(t *testing.T) {
	f := newFixture(t)
	f.product(t, "CEM-1", 6)

	_, err := f.movs.CreateExit(f.ctx, req("CEM-1", 7))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 6, f.stock(t, "CEM-1"))

	_, err = f.movs.CreateExit(f.ctx, req("CEM-1", 6))
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(t, "CEM-1"))
}

func TestMovimiento_ProductoArchivadoNoEncontrado(t *testing.T) {
	f := newFixture(t)
	f.product(t, "CEM-1", 10)
	entry, err := f.movs.CreateEntry(f.ctx, req("CEM-1", 1))
	require.NoError(t, err)
	require.NoError(t, f.products.Archive(f.ctx, "CEM-1"))

	_, err = f.movs.CreateExit(f.ctx, req("CEM-1", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.movs.RemoveEntry(f.ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovimiento_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	f.product(t, "CEM-1", 10)

	_, err := f.movs.CreateEntry(f.ctx, req("CEM-1", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad := req("CEM-1", 1)
	bad.Date = "2025-13-40"
	_, err = f.movs.CreateEntry(f.ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	neg := req("CEM-1", 1)
	neg.UnitPrice = decimal.NewFromInt(-1)
	_, err = f.movs.CreateEntry(f.ctx, neg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEntrada_IgnoraProyecto(t *testing.T) {
	f := newFixture(t)
	f.product(t, "CEM-1", 0)

	in := req("CEM-1", 1)
	in.Project = "Torre A"
	entry, err := f.movs.CreateEntry(f.ctx, in)
	require.NoError(t, err)
	assert.Empty(t, entry.Project)
	assert.Equal(t, "Obra gris", entry.Category, "la categoría se copia del producto")
}

func TestListado_FiltroPorFecha(t *testing.T) {
	f := newFixture(t)
	f.product(t, "CEM-1", 100)

	for _, date := range []string{"01/01/2025", "15/01/2025", "01/02/2025"} {
		in := req("CEM-1", 1)
		in.Date = date
		_, err := f.movs.CreateExit(f.ctx, in)
		require.NoError(t, err)
	}

	list, err := f.movs.ListExits(f.ctx, dto.ListMovementsRequest{StartDate: "10/01/2025", EndDate: "2025-01-31"})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "15/01/2025", list.Data[0].Date)
	assert.Equal(t, 1, list.Pagination.Total)
}

func TestMovimiento_CantidadFueraDeRango(t *testing.T) {
	f := newFixture(t)
	f.product(t, "CEM-1", 10)

	_, err := f.movs.CreateEntry(f.ctx, req("CEM-1", math.MaxInt-5))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.movs.CreateExit(f.ctx, req("CEM-1", domaininv.MaxQuantity+1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 10, f.stock(t, "CEM-1"))

	m, err := f.movs.CreateEntry(f.ctx, req("CEM-1", domaininv.MaxQuantity))
	require.NoError(t, err)
	assert.Equal(t, 10+domaininv.MaxQuantity, f.stock(t, "CEM-1"))

	_, err = f.movs.UpdateEntryQuantity(f.ctx, m.ID, math.MaxInt)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 10+domaininv.MaxQuantity, f.stock(t, "CEM-1"))
}

func TestSalidasConcurrentes_NuncaDejanStockNegativo(t *testing.T) {
	f := newFixture(t)
	f.product(t, "CEM-1", 10)

	var (
		wg         sync.WaitGroup
		ok         atomic.Int32
		rejected   atomic.Int32
		unexpected atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.movs.CreateExit(f.ctx, req("CEM-1", 1))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				unexpected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 10, ok.Load())
	assert.EqualValues(t, 40, rejected.Load())
	assert.Zero(t, unexpected.Load())
	assert.Equal(t, 0, f.stock(t, "CEM-1"))

	list, err := f.movs.ListExits(f.ctx, dto.ListMovementsRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Data, 10)
}
