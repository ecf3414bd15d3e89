package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/mes-almacen/internal/application/almacen"
	"github.com/tu-usuario/mes-almacen/internal/application/dto"
	"github.com/tu-usuario/mes-almacen/internal/domain"
	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
)

// AlmacenHandler maneja entradas, salidas y consultas de lotes (protegido).
type AlmacenHandler struct {
	receiptUC  *almacen.RegisterReceiptUseCase
	issuanceUC *almacen.RegisterIssuanceUseCase
	queryUC    *almacen.QueryUseCase
}

// NewAlmacenHandler construye el handler de almacén.
func NewAlmacenHandler(
	receiptUC *almacen.RegisterReceiptUseCase,
	issuanceUC *almacen.RegisterIssuanceUseCase,
	queryUC *almacen.QueryUseCase,
) *AlmacenHandler {
	return &AlmacenHandler{receiptUC: receiptUC, issuanceUC: issuanceUC, queryUC: queryUC}
}

// RegisterReceipt godoc
// @Summary      Registrar entrada de material
// @Tags         almacen
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiptRequest  true  "numero_parte, codigo_material, cantidad_recibida..."
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/almacen/recibos [post]
func (h *AlmacenHandler) RegisterReceipt(c *fiber.Ctx) error {
	var in dto.ReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.receiptUC.RegisterReceipt(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "numero_parte, codigo_material y cantidad positiva son requeridos"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "código recibido duplicado, reintentar"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListReceipts godoc
// @Summary      Listar entradas de material
// @Tags         almacen
// @Security     Bearer
// @Produce      json
// @Param        desde  query  string  false  "Fecha inicial (RFC3339)"
// @Param        hasta  query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}  entity.MaterialReceipt
// @Router       /api/almacen/recibos [get]
func (h *AlmacenHandler) ListReceipts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	desde, err := parseTimeQuery(c, "desde")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "desde: fecha inválida, usar RFC3339"})
	}
	hasta, err := parseTimeQuery(c, "hasta")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "hasta: fecha inválida, usar RFC3339"})
	}
	list, err := h.queryUC.ListReceipts(desde, hasta, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(list), "recibos": list})
}

// FindReceipt godoc
// @Summary      Buscar lote por código recibido con disponible en vivo
// @Tags         almacen
// @Security     Bearer
// @Produce      json
// @Param        codigo  query  string  true  "Código recibido completo (CODIGO,YYYYMMDD####)"
// @Success      200  {object}  dto.ReceiptDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/almacen/recibos/buscar [get]
func (h *AlmacenHandler) FindReceipt(c *fiber.Ctx) error {
	codigo := c.Query("codigo")
	out, err := h.queryUC.FindReceiptByCode(codigo)
	if err != nil {
		return h.mapAlmacenError(c, err, "lote no encontrado")
	}
	return c.JSON(out)
}

// PeekSequence godoc
// @Summary      Previsualizar el próximo secuencial diario de un código de material
// @Tags         almacen
// @Security     Bearer
// @Produce      json
// @Param        codigo_material  query  string  true  "Código de material"
// @Success      200  {object}  dto.SequenceResponse
// @Router       /api/almacen/secuencia [get]
func (h *AlmacenHandler) PeekSequence(c *fiber.Ctx) error {
	codigoMaterial := c.Query("codigo_material")
	out, err := h.receiptUC.PeekNextSequence(c.Context(), codigoMaterial)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "codigo_material es requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SetScrapState godoc
// @Summary      Marcar o desmarcar un recibo como desecho
// @Tags         almacen
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del recibo"
// @Param        body  body  object  true  "{\"estado_desecho\": true}"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/almacen/recibos/{id}/desecho [put]
func (h *AlmacenHandler) SetScrapState(c *fiber.Ctx) error {
	var in struct {
		EstadoDesecho bool `json:"estado_desecho"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.queryUC.SetScrapState(c.Params("id"), in.EstadoDesecho); err != nil {
		return h.mapAlmacenError(c, err, "recibo no encontrado")
	}
	return c.JSON(fiber.Map{"message": "estado de desecho actualizado"})
}

// RegisterIssuance godoc
// @Summary      Registrar salida de material a producción
// @Tags         almacen
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssuanceRequest  true  "codigo_material_recibido, cantidad_salida..."
// @Success      201   {object}  dto.IssuanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/almacen/salidas [post]
func (h *AlmacenHandler) RegisterIssuance(c *fiber.Ctx) error {
	var in dto.IssuanceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.issuanceUC.RegisterIssuance(c.Context(), in)
	if err != nil {
		return h.mapAlmacenError(c, err, "lote no encontrado")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListIssuances godoc
// @Summary      Historial de salidas con datos del lote de origen
// @Tags         almacen
// @Security     Bearer
// @Produce      json
// @Param        desde            query  string  false  "Fecha inicial (RFC3339)"
// @Param        hasta            query  string  false  "Fecha final (RFC3339)"
// @Param        numero_lote      query  string  false  "Filtrar por número de lote"
// @Param        codigo_material  query  string  false  "Filtrar por código de material"
// @Success      200  {array}  repository.IssuanceHistoryItem
// @Router       /api/almacen/salidas [get]
func (h *AlmacenHandler) ListIssuances(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	desde, err := parseTimeQuery(c, "desde")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "desde: fecha inválida, usar RFC3339"})
	}
	hasta, err := parseTimeQuery(c, "hasta")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "hasta: fecha inválida, usar RFC3339"})
	}
	list, err := h.queryUC.ListIssuances(repository.IssuanceFilter{
		Desde:          desde,
		Hasta:          hasta,
		NumeroLote:     c.Query("numero_lote"),
		CodigoMaterial: c.Query("codigo_material"),
		Limit:          page.Limit,
		Offset:         page.Offset,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(list), "salidas": list})
}

// mapAlmacenError traduce errores de dominio a respuestas HTTP. El caso de stock
// insuficiente incluye las cantidades para que el operador vea cuánto hay.
func (h *AlmacenHandler) mapAlmacenError(c *fiber.Ctx, err error, notFoundMsg string) error {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":                "INSUFFICIENT_STOCK",
			"message":             "cantidad solicitada excede el disponible del lote",
			"cantidad_disponible": stockErr.Disponible,
			"cantidad_solicitada": stockErr.Solicitada,
		})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFoundMsg})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// parseTimeQuery lee un query param de fecha RFC3339 opcional.
func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
