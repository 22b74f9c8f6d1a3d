// Package pdf genera el reporte de alertas de stock en PDF.
//
// Layout de la página A4 (horizontal):
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación                             │
//	│  RESUMEN: total | críticos | bajos | stock total | stock mínimo   │
//	│  ──────────────────────────────────────────────────────────────   │
//	│  TABLA: Código | Producto | Ubicación | Categoría | Stock | Mín |  │
//	│         Costo total | Estado                                      │
//	└──────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/pkg/datefmt"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 190, Green: 30, Blue: 45}
	colorLow      = &props.Color{Red: 200, Green: 120, Blue: 0}
)

var _ inventory.StockAlertPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.StockAlertPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador; los números se formatean en español (1.234,50).
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.Spanish)}
}

// GenerateStockAlertsPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStockAlertsPDF(
	_ context.Context,
	alerts []dto.StockAlertDTO,
	stats dto.StockAlertStatistics,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Alertas de stock", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(generatedAt))
	m.AddRows(g.summaryRow(stats))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.tableRows(alerts) {
		m.AddRows(r)
	}
	if len(alerts) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin productos para los filtros seleccionados.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE ALERTAS DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+datefmt.Format(generatedAt)+" "+generatedAt.Format("15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoPDFGenerator) summaryRow(s dto.StockAlertStatistics) core.Row {
	cell := func(label string, value int) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(g.printer.Sprintf("%d", value), props.Text{Style: fontstyle.Bold, Size: 11, Top: 5}),
		)
	}
	return row.New(14).Add(
		cell("En alerta", s.Total),
		cell("Críticos", s.Critical),
		cell("Bajos", s.Low),
		cell("Stock total", s.TotalStock),
		cell("Stock mínimo", s.StockMinimo),
		col.New(2),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 1, align.Left),
		h("Producto", 3, align.Left),
		h("Ubicación", 2, align.Left),
		h("Categoría", 2, align.Left),
		h("Stock", 1, align.Right),
		h("Mín.", 1, align.Right),
		h("Costo total", 1, align.Right),
		h("Estado", 1, align.Center),
	)
}

func (g *MarotoPDFGenerator) tableRows(alerts []dto.StockAlertDTO) []core.Row {
	result := make([]core.Row, 0, len(alerts))
	for _, a := range alerts {
		cell := func(s string, size int, al align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: al, Top: 1, Left: 1, Right: 1}))
		}
		status := col.New(1).Add(text.New(statusLabel(a.Status), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1, Color: statusColor(a.Status),
		}))
		result = append(result, row.New(7).Add(
			cell(a.Code, 1, align.Left),
			cell(a.Name, 3, align.Left),
			cell(a.Location, 2, align.Left),
			cell(a.Category, 2, align.Left),
			cell(g.printer.Sprintf("%d", a.StockActual), 1, align.Right),
			cell(g.printer.Sprintf("%d", a.StockMinimo), 1, align.Right),
			cell("$"+g.money(a.TotalCost), 1, align.Right),
			status,
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func statusLabel(s string) string {
	switch s {
	case domaininv.AlertCritical:
		return "CRÍTICO"
	case domaininv.AlertLow:
		return "BAJO"
	default:
		return "NORMAL"
	}
}

func statusColor(s string) *props.Color {
	switch s {
	case domaininv.AlertCritical:
		return colorCritical
	case domaininv.AlertLow:
		return colorLow
	default:
		return colorGray
	}
}
