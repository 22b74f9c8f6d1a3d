package equipment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/equipment"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

type fixture struct {
	ctx       context.Context
	equipment *equipment.UseCase
	products  *usecase.ProductUseCase
}

func newFixture(t *testing.T, stock int) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	log := logger.Nop()
	ledger := inventory.NewLedger(log)
	f := &fixture{
		ctx:       context.Background(),
		equipment: equipment.NewUseCase(store, ledger, repos.Equipment, log),
		products:  usecase.NewProductUseCase(store, ledger, repos.Products, log),
	}
	_, err := f.products.Create(f.ctx, dto.CreateProductRequest{Code: "PUL-01", Name: "Pulidora", Stock: stock})
	require.NoError(t, err)
	return f
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	p, err := f.products.GetByCode(f.ctx, "PUL-01")
	require.NoError(t, err)
	return p.StockActual
}

func checkout(qty int) dto.CreateEquipmentRequest {
	return dto.CreateEquipmentRequest{
		EquipmentName: "Pulidora", ProductCode: "PUL-01", Quantity: qty,
		Condition: entity.EquipmentConditionGood, Responsible: "Luis", CheckoutDate: "10/03/2025",
		CheckoutTime: "07:45", AreaProject: "Acabados",
	}
}

func returnReq() dto.ReturnEquipmentRequest {
	return dto.ReturnEquipmentRequest{ReturnDate: "12/03/2025", ReturnTime: "16:10", ReturnCondition: entity.EquipmentConditionRepair}
}

func TestSalidaDeEquipo_DescuentaStock(t *testing.T) {
	f := newFixture(t, 3)

	r, err := f.equipment.Checkout(f.ctx, checkout(2))
	require.NoError(t, err)
	assert.Equal(t, 1, f.stock(t))
	assert.False(t, r.Returned)
	assert.Equal(t, "10/03/2025", r.CheckoutDate)
}

func TestSalidaDeEquipo_SinStockNoRegistra(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.equipment.Checkout(f.ctx, checkout(2))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, f.stock(t))

	list, err := f.equipment.List(f.ctx, dto.ListEquipmentRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Data)
}

func TestSalidaDeEquipo_EstadoInvalido(t *testing.T) {
	f := newFixture(t, 1)
	in := checkout(1)
	in.Condition = "Nuevo"
	_, err := f.equipment.Checkout(f.ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetorno_NoReabasteceYSePuedeCorregir(t *testing.T) {
	f := newFixture(t, 5)
	r, err := f.equipment.Checkout(f.ctx, checkout(2))
	require.NoError(t, err)

	in := returnReq()
	in.ReturnResponsible = "Luis"
	out, err := f.equipment.RegisterReturn(f.ctx, r.ID, in)
	require.NoError(t, err)
	assert.True(t, out.Returned)
	assert.Equal(t, "12/03/2025", out.ReturnDate)
	assert.Equal(t, entity.EquipmentConditionRepair, out.ReturnCondition)
	assert.Equal(t, "Luis", out.ReturnResponsible)
	assert.Equal(t, 3, f.stock(t))

	in.ReturnDate = "13/03/2025"
	in.ReturnCondition = entity.EquipmentConditionGood
	in.ReturnResponsible = "Marta"
	out, err = f.equipment.RegisterReturn(f.ctx, r.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "13/03/2025", out.ReturnDate)
	assert.Equal(t, entity.EquipmentConditionGood, out.ReturnCondition)
	assert.Equal(t, "Marta", out.ReturnResponsible)
	assert.Equal(t, 3, f.stock(t), "corregir el retorno tampoco reabastece")

	got, err := f.equipment.Get(f.ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Marta", got.ReturnResponsible)
}

func TestEditarYEliminar_NoMuevenStock(t *testing.T) {
	f := newFixture(t, 5)
	r, err := f.equipment.Checkout(f.ctx, checkout(2))
	require.NoError(t, err)

	qty := 4
	name := "Pulidora 4 1/2"
	out, err := f.equipment.Update(f.ctx, r.ID, dto.UpdateEquipmentRequest{Quantity: &qty, EquipmentName: &name})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Quantity)
	assert.Equal(t, name, out.EquipmentName)
	assert.Equal(t, 3, f.stock(t))

	require.NoError(t, f.equipment.Delete(f.ctx, r.ID))
	assert.Equal(t, 3, f.stock(t))
	_, err = f.equipment.Get(f.ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUltimoReportePorCodigo(t *testing.T) {
	f := newFixture(t, 5)
	_, err := f.equipment.Checkout(f.ctx, checkout(1))
	require.NoError(t, err)
	second, err := f.equipment.Checkout(f.ctx, checkout(1))
	require.NoError(t, err)

	latest, err := f.equipment.FindLatestByCode(f.ctx, "PUL-01")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, err = f.equipment.FindLatestByCode(f.ctx, "OTRO")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRenombrarProducto_SePropagaAReportes(t *testing.T) {
	f := newFixture(t, 5)
	r, err := f.equipment.Checkout(f.ctx, checkout(1))
	require.NoError(t, err)

	name := "Pulidora industrial"
	_, err = f.products.Update(f.ctx, "PUL-01", dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)

	got, err := f.equipment.Get(f.ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, name, got.EquipmentName)
}
