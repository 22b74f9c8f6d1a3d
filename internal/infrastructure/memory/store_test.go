package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

func product(id, code string, stock int) *entity.Product {
	return &entity.Product{ID: id, Code: code, Name: "Guantes", StockActual: stock, UnitCost: decimal.NewFromInt(2)}
}

func TestRun_ErrorRevierteTodo(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Repos().Products.Create(ctx, product("p1", "AF1", 10)))

	boom := errors.New("boom")
	err := s.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		p, err := repos.Products.GetByCodeForUpdate(ctx, "AF1")
		require.NoError(t, err)
		p.StockActual = 0
		require.NoError(t, repos.Products.UpdateStock(ctx, p))
		require.NoError(t, repos.Movements.Create(ctx, &entity.Movement{ID: "m1", ProductCode: "AF1", Quantity: 10}))
		_, err = repos.Sequences.Next(ctx, "OC")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := s.Repos().Products.GetByCode(ctx, "AF1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.StockActual)
	m, err := s.Repos().Movements.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, m)
	n, err := s.Repos().Sequences.Next(ctx, "OC")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "el consecutivo también se revierte")
}

func TestProducts_CodigoUnicoEntreActivos(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Repos().Products
	require.NoError(t, repo.Create(ctx, product("p1", "AF1", 1)))
	assert.ErrorIs(t, repo.Create(ctx, product("p2", "AF1", 1)), domain.ErrDuplicate)

	require.NoError(t, repo.Archive(ctx, "p1", time.Now()))
	require.NoError(t, repo.Create(ctx, product("p2", "AF1", 5)), "el código archivado queda libre")

	p, err := repo.GetByCode(ctx, "AF1")
	require.NoError(t, err)
	assert.Equal(t, "p2", p.ID)
}

func TestProducts_UpdateNoTocaStock(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Repos().Products
	require.NoError(t, repo.Create(ctx, product("p1", "AF1", 7)))

	p, _ := repo.GetByCode(ctx, "AF1")
	p.Name = "Guantes nitrilo"
	p.StockActual = 999
	require.NoError(t, repo.Update(ctx, p))

	got, _ := repo.GetByCode(ctx, "AF1")
	assert.Equal(t, "Guantes nitrilo", got.Name)
	assert.Equal(t, 7, got.StockActual)
}

func TestMovements_ListFiltraYPagina(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Repos().Movements
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	for i, d := range []int{1, 5, 10, 15} {
		require.NoError(t, repo.Create(ctx, &entity.Movement{
			ID: string(rune('a' + i)), Type: entity.MovementTypeExit, Date: day(d),
			ProductCode: "AF1", Description: "Casco", Quantity: 1, Responsible: "Ana Pérez",
		}))
	}
	require.NoError(t, repo.SoftDelete(ctx, "d", time.Now()))

	from, to := day(2), day(31)
	list, total, err := repo.List(ctx, entity.MovementFilter{
		Type: entity.MovementTypeExit, Search: "casco", From: &from, To: &to, Limit: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, "c", list[0].ID, "más reciente primero")
}
