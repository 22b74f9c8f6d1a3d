package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
)

// StockAlertHandler reportes de stock frente al mínimo.
type StockAlertHandler struct {
	uc *inventory.StockAlertUseCase
}

// NewStockAlertHandler construye el handler.
func NewStockAlertHandler(uc *inventory.StockAlertUseCase) *StockAlertHandler {
	return &StockAlertHandler{uc: uc}
}

// List godoc
// @Summary      Alertas de stock
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        category       query  string  false  "Categoría"
// @Param        location       query  string  false  "Ubicación"
// @Param        status         query  string  false  "critico | bajo | normal"
// @Param        only_critical  query  bool    false  "Solo críticos"
// @Success      200  {array}   dto.StockAlertDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-alerts [get]
func (h *StockAlertHandler) List(c *fiber.Ctx) error {
	var in dto.StockAlertRequest
	if err := parseQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListAlerts(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		out = []dto.StockAlertDTO{}
	}
	return c.JSON(out)
}

// Statistics godoc
// @Summary      Resumen de alertas de stock
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockAlertStatistics
// @Router       /api/reports/stock-alerts/statistics [get]
func (h *StockAlertHandler) Statistics(c *fiber.Ctx) error {
	out, err := h.uc.Statistics(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Exportar alertas de stock en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        category       query  string  false  "Categoría"
// @Param        location       query  string  false  "Ubicación"
// @Param        status         query  string  false  "critico | bajo | normal"
// @Param        only_critical  query  bool    false  "Solo críticos"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-alerts/pdf [get]
func (h *StockAlertHandler) PDF(c *fiber.Ctx) error {
	var in dto.StockAlertRequest
	if err := parseQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	pdf, err := h.uc.ExportPDF(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	filename := fmt.Sprintf("alertas-stock-%s.pdf", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
