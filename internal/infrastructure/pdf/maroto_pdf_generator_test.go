package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
)

func TestGenerateStockAlertsPDF(t *testing.T) {
	g := NewMarotoPDFGenerator()
	alerts := []dto.StockAlertDTO{
		{Code: "AF2025", Name: "Casco de seguridad", StockActual: 0, StockMinimo: 5, TotalCost: decimal.Zero, Status: domaininv.AlertCritical},
		{Code: "GT100", Name: "Guantes", StockActual: 1500, StockMinimo: 2000, TotalCost: decimal.RequireFromString("3750.5"), Status: domaininv.AlertLow},
	}

	out, err := g.GenerateStockAlertsPDF(context.Background(), alerts, dto.StockAlertStatistics{Total: 2, Critical: 1, Low: 1}, time.Now())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMoney_FormatoEspanol(t *testing.T) {
	g := NewMarotoPDFGenerator()
	assert.Equal(t, "37.500,50", g.money(decimal.RequireFromString("37500.5")))
	assert.Equal(t, "15.000", g.printer.Sprintf("%d", 15000))
	assert.Equal(t, "CRÍTICO", statusLabel(domaininv.AlertCritical))
}
