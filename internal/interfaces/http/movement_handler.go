package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/movements"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MovementHandler maneja entradas o salidas según typ (mismas rutas bajo /entries y /exits).
type MovementHandler struct {
	uc  *movements.UseCase
	typ string
}

// NewEntryHandler handler de entradas.
func NewEntryHandler(uc *movements.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc, typ: entity.MovementTypeEntry}
}

// NewExitHandler handler de salidas.
func NewExitHandler(uc *movements.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc, typ: entity.MovementTypeExit}
}

func (h *MovementHandler) isEntry() bool { return h.typ == entity.MovementTypeEntry }

// Create godoc
// @Summary      Registrar entrada / salida
// @Description  Una entrada suma stock; una salida lo descuenta y falla con 409 INSUFFICIENT_STOCK si no alcanza.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/entries [post]
// @Router       /api/exits [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	var (
		out *dto.MovementResponse
		err error
	)
	if h.isEntry() {
		out, err = h.uc.CreateEntry(c.UserContext(), in)
	} else {
		out, err = h.uc.CreateExit(c.UserContext(), in)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener entrada / salida
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/entries/{id} [get]
// @Router       /api/exits/{id} [get]
func (h *MovementHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), h.typ, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar entradas / salidas
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        search       query  string  false  "Código, descripción, responsable o proyecto"
// @Param        category     query  string  false  "Categoría"
// @Param        area         query  string  false  "Área"
// @Param        responsible  query  string  false  "Responsable"
// @Param        start_date   query  string  false  "Desde (DD/MM/YYYY)"
// @Param        end_date     query  string  false  "Hasta (DD/MM/YYYY)"
// @Param        page         query  int     false  "Página (desde 1)"
// @Param        limit        query  int     false  "Tamaño de página (default 100)"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/entries [get]
// @Router       /api/exits [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.ListMovementsRequest
	if err := parseQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	var (
		out *dto.MovementListResponse
		err error
	)
	if h.isEntry() {
		out, err = h.uc.ListEntries(c.UserContext(), in)
	} else {
		out, err = h.uc.ListExits(c.UserContext(), in)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar entrada / salida
// @Description  Si cambia la cantidad, el stock se ajusta solo por la diferencia.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del movimiento"
// @Param        body  body  dto.UpdateMovementRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/entries/{id} [put]
// @Router       /api/exits/{id} [put]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	var (
		out *dto.MovementResponse
		err error
	)
	if h.isEntry() {
		out, err = h.uc.UpdateEntry(c.UserContext(), c.Params("id"), in)
	} else {
		out, err = h.uc.UpdateExit(c.UserContext(), c.Params("id"), in)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateQuantity godoc
// @Summary      Cambiar cantidad de entrada / salida
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del movimiento"
// @Param        body  body  dto.UpdateQuantityRequest  true  "Nueva cantidad"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/entries/{id}/quantity [patch]
// @Router       /api/exits/{id}/quantity [patch]
func (h *MovementHandler) UpdateQuantity(c *fiber.Ctx) error {
	var in dto.UpdateQuantityRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	var (
		out *dto.MovementResponse
		err error
	)
	if h.isEntry() {
		out, err = h.uc.UpdateEntryQuantity(c.UserContext(), c.Params("id"), in.Quantity)
	} else {
		out, err = h.uc.UpdateExitQuantity(c.UserContext(), c.Params("id"), in.Quantity)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Anular entrada / salida
// @Description  Revierte el efecto en stock. Anular una entrada falla con 409 si el stock ya se consumió.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/entries/{id} [delete]
// @Router       /api/exits/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	var err error
	if h.isEntry() {
		err = h.uc.RemoveEntry(c.UserContext(), c.Params("id"))
	} else {
		err = h.uc.RemoveExit(c.UserContext(), c.Params("id"))
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "movimiento anulado"})
}

// Search godoc
// @Summary      Buscar en entradas y salidas
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        q    query  string  true  "Texto a buscar"
// @Success      200  {object}  dto.MovementSearchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/search [get]
func (h *MovementHandler) Search(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "q es requerido"})
	}
	out, err := h.uc.Search(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
