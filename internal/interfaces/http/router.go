package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/mes-almacen/internal/application/almacen"
	"github.com/tu-usuario/mes-almacen/internal/application/auth"
	"github.com/tu-usuario/mes-almacen/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReceiptUC   *almacen.RegisterReceiptUseCase
	IssuanceUC  *almacen.RegisterIssuanceUseCase
	QueryUC     *almacen.QueryUseCase
	RecomputeUC *almacen.RecomputeUseCase
	AuthUC      *auth.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Almacén: entradas, salidas, búsqueda de lote (protegido)
	almacenGroup := protected.Group("/almacen")
	almacenHandler := NewAlmacenHandler(deps.ReceiptUC, deps.IssuanceUC, deps.QueryUC)
	almacenGroup.Post("/recibos", almacenHandler.RegisterReceipt)
	almacenGroup.Get("/recibos", almacenHandler.ListReceipts)
	almacenGroup.Get("/recibos/buscar", almacenHandler.FindReceipt)
	almacenGroup.Get("/secuencia", almacenHandler.PeekSequence)
	almacenGroup.Put("/recibos/:id/desecho",
		RequireRole(entity.RolAdmin, entity.RolAlmacen), almacenHandler.SetScrapState)
	almacenGroup.Post("/salidas", almacenHandler.RegisterIssuance)
	almacenGroup.Get("/salidas", almacenHandler.ListIssuances)

	// Inventario general (protegido; el recálculo solo admin/almacén)
	invGroup := protected.Group("/inventario")
	inventarioHandler := NewInventarioHandler(deps.QueryUC, deps.RecomputeUC)
	invGroup.Get("/", inventarioHandler.List)
	invGroup.Get("/:numero_parte", inventarioHandler.GetByPart)
	invGroup.Get("/:numero_parte/estado", inventarioHandler.GetFreshness)
	invGroup.Post("/recalcular",
		RequireRole(entity.RolAdmin, entity.RolAlmacen), inventarioHandler.Recompute)
}
