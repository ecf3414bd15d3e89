package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/mes-almacen/internal/application/almacen"
	"github.com/tu-usuario/mes-almacen/internal/application/dto"
	"github.com/tu-usuario/mes-almacen/internal/domain"
)

// InventarioHandler maneja las consultas de inventario general y el recálculo (protegido).
type InventarioHandler struct {
	queryUC     *almacen.QueryUseCase
	recomputeUC *almacen.RecomputeUseCase
}

// NewInventarioHandler construye el handler de inventario.
func NewInventarioHandler(queryUC *almacen.QueryUseCase, recomputeUC *almacen.RecomputeUseCase) *InventarioHandler {
	return &InventarioHandler{queryUC: queryUC, recomputeUC: recomputeUC}
}

// List godoc
// @Summary      Inventario general completo
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/inventario [get]
func (h *InventarioHandler) List(c *fiber.Ctx) error {
	list, err := h.queryUC.ListBalances()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(list), "inventario": list})
}

// GetByPart godoc
// @Summary      Inventario de un número de parte
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        numero_parte  path  string  true  "Número de parte"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/{numero_parte} [get]
func (h *InventarioHandler) GetByPart(c *fiber.Ctx) error {
	out, err := h.queryUC.GetBalance(c.Params("numero_parte"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// GetFreshness godoc
// @Summary      Frescura del agregado de un número de parte
// @Description  Indica si el inventario general del número de parte fue actualizado
//
//	dentro de la ventana de frescura (la actualización de salidas corre en background).
//
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        numero_parte  path  string  true  "Número de parte"
// @Success      200  {object}  dto.FreshnessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/{numero_parte}/estado [get]
func (h *InventarioHandler) GetFreshness(c *fiber.Ctx) error {
	out, err := h.queryUC.VerifyFreshness(c.Params("numero_parte"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// Recompute godoc
// @Summary      Reconstruir inventario general desde el ledger
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventario/recalcular [post]
func (h *InventarioHandler) Recompute(c *fiber.Ctx) error {
	if err := h.recomputeUC.Recompute(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "inventario general recalculado"})
}

func (h *InventarioHandler) mapError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "numero_parte es requerido"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "número de parte sin inventario"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
