package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/equipment"
)

// EquipmentHandler maneja los reportes de salida y retorno de equipos.
type EquipmentHandler struct {
	uc *equipment.UseCase
}

// NewEquipmentHandler construye el handler.
func NewEquipmentHandler(uc *equipment.UseCase) *EquipmentHandler {
	return &EquipmentHandler{uc: uc}
}

// Checkout godoc
// @Summary      Registrar salida de equipo
// @Description  Descuenta la cantidad del stock del producto indicado por product_code.
// @Tags         equipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEquipmentRequest  true  "Reporte de salida"
// @Success      201   {object}  dto.EquipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/equipment [post]
func (h *EquipmentHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CreateEquipmentRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Checkout(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar reportes de equipo
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Equipo, código, responsable o área"
// @Param        page    query  int     false  "Página (desde 1)"
// @Param        limit   query  int     false  "Tamaño de página (default 100)"
// @Success      200  {object}  dto.EquipmentListResponse
// @Router       /api/equipment [get]
func (h *EquipmentHandler) List(c *fiber.Ctx) error {
	var in dto.ListEquipmentRequest
	if err := parseQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener reporte de equipo
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.EquipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/equipment/{id} [get]
func (h *EquipmentHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LatestByCode godoc
// @Summary      Último reporte de un código
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código / serie del producto"
// @Success      200   {object}  dto.EquipmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/equipment/code/{code} [get]
func (h *EquipmentHandler) LatestByCode(c *fiber.Ctx) error {
	out, err := h.uc.FindLatestByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar reporte de equipo
// @Description  No modifica stock, incluso si cambia la cantidad.
// @Tags         equipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del reporte"
// @Param        body  body  dto.UpdateEquipmentRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.EquipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/equipment/{id} [put]
func (h *EquipmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateEquipmentRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Return godoc
// @Summary      Registrar retorno de equipo
// @Description  Registra fecha, hora, estado, responsable y firma de retorno. No reabastece stock; un nuevo retorno reemplaza al anterior.
// @Tags         equipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del reporte"
// @Param        body  body  dto.ReturnEquipmentRequest  true  "Datos del retorno"
// @Success      200   {object}  dto.EquipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/equipment/{id}/return [post]
func (h *EquipmentHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnEquipmentRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RegisterReturn(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar reporte de equipo
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/equipment/{id} [delete]
func (h *EquipmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "reporte eliminado"})
}
