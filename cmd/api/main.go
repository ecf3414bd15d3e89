package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/mes-almacen/internal/application/almacen"
	"github.com/tu-usuario/mes-almacen/internal/application/auth"
	"github.com/tu-usuario/mes-almacen/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/mes-almacen/internal/interfaces/http"
	"github.com/tu-usuario/mes-almacen/pkg/config"
	"github.com/tu-usuario/mes-almacen/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos atados al pool (lecturas fuera de transacción) y runner transaccional
	receiptRepo := postgres.NewReceiptRepository(pool)
	issuanceRepo := postgres.NewIssuanceRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Actualizador de inventario general en background (deltas de salidas)
	updater := almacen.NewBalanceUpdater(balanceRepo, log, cfg.Inventory.QueueSize, cfg.Inventory.UpdateTimeout)
	updater.Start()

	receiptUC := almacen.NewRegisterReceiptUseCase(txRunner)
	issuanceUC := almacen.NewRegisterIssuanceUseCase(txRunner, updater)
	queryUC := almacen.NewQueryUseCase(receiptRepo, issuanceRepo, balanceRepo)
	recomputeUC := almacen.NewRecomputeUseCase(txRunner, log)
	authUC := auth.NewUseCase(userRepo, cfg.JWT)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "MES Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ReceiptUC:   receiptUC,
		IssuanceUC:  issuanceUC,
		QueryUC:     queryUC,
		RecomputeUC: recomputeUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// Drenar la cola de deltas pendientes antes de salir
	updater.Close()

	log.Info().Msg("aplicación detenida")
}
