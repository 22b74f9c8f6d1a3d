package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// StockAlertPDFGenerator puerto para exportar las alertas a PDF.
type StockAlertPDFGenerator interface {
	GenerateStockAlertsPDF(ctx context.Context, alerts []dto.StockAlertDTO, stats dto.StockAlertStatistics, generatedAt time.Time) ([]byte, error)
}

// StockAlertUseCase clasifica los productos activos según su stock frente al mínimo.
type StockAlertUseCase struct {
	products repository.ProductRepository
	policy   inventory.AlertPolicy
	pdf      StockAlertPDFGenerator
}

// NewStockAlertUseCase construye el caso de uso de alertas. pdf puede ser nil si no se exporta.
func NewStockAlertUseCase(products repository.ProductRepository, policy inventory.AlertPolicy, pdf StockAlertPDFGenerator) *StockAlertUseCase {
	return &StockAlertUseCase{products: products, policy: policy, pdf: pdf}
}

// ListAlerts devuelve el estado de stock de cada producto, ordenado por código.
func (uc *StockAlertUseCase) ListAlerts(ctx context.Context, in dto.StockAlertRequest) ([]dto.StockAlertDTO, error) {
	list, _, err := uc.products.List(ctx, entity.ProductFilter{Category: in.Category, Location: in.Location})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockAlertDTO, 0, len(list))
	for _, p := range list {
		a := uc.toAlert(p)
		if in.Status != "" && a.Status != in.Status {
			continue
		}
		if in.OnlyCritical && a.Status != inventory.AlertCritical {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// Statistics resume las alertas sobre todo el catálogo activo.
func (uc *StockAlertUseCase) Statistics(ctx context.Context) (*dto.StockAlertStatistics, error) {
	list, _, err := uc.products.List(ctx, entity.ProductFilter{})
	if err != nil {
		return nil, err
	}
	return uc.statistics(list), nil
}

// ExportPDF genera el PDF de alertas con los filtros indicados.
func (uc *StockAlertUseCase) ExportPDF(ctx context.Context, in dto.StockAlertRequest) ([]byte, error) {
	alerts, err := uc.ListAlerts(ctx, in)
	if err != nil {
		return nil, err
	}
	stats, err := uc.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateStockAlertsPDF(ctx, alerts, *stats, time.Now())
}

func (uc *StockAlertUseCase) statistics(list []*entity.Product) *dto.StockAlertStatistics {
	var s dto.StockAlertStatistics
	for _, p := range list {
		s.TotalStock += p.StockActual
		s.StockMinimo += uc.policy.Minimum(p.StockMinimo)
		switch uc.policy.Classify(p.StockActual, p.StockMinimo) {
		case inventory.AlertCritical:
			s.Critical++
			s.Total++
		case inventory.AlertLow:
			s.Low++
			s.Total++
		}
	}
	return &s
}

func (uc *StockAlertUseCase) toAlert(p *entity.Product) dto.StockAlertDTO {
	category := p.Category
	if category == "" {
		category = "Sin categoría"
	}
	return dto.StockAlertDTO{
		ProductID:   p.ID,
		Code:        p.Code,
		Name:        p.Name,
		StockActual: p.StockActual,
		StockMinimo: uc.policy.Minimum(p.StockMinimo),
		Location:    p.Location,
		Category:    category,
		TotalCost:   p.TotalCost,
		LastUpdate:  p.UpdatedAt.Format("2006-01-02"),
		Status:      uc.policy.Classify(p.StockActual, p.StockMinimo),
	}
}
