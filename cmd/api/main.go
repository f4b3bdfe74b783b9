// @title						inventory-projections API
// @version					1.0
// @description				Ítems, planes de inventario y traslados, reglas y proyecciones diarias calculadas por el motor.
// @BasePath					/
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
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
	_ "github.com/jhoicas/inventory-projections/docs"
	"github.com/jhoicas/inventory-projections/internal/application/auth"
	"github.com/jhoicas/inventory-projections/internal/application/usecase"
	infrapdf "github.com/jhoicas/inventory-projections/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-projections/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventory-projections/internal/interfaces/http"
	"github.com/jhoicas/inventory-projections/pkg/config"
	"github.com/jhoicas/inventory-projections/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
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

	queue := cfg.Engine.QueueName
	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	inventoryPlanRepo := postgres.NewInventoryPlanRepository(pool)
	transferPlanRepo := postgres.NewTransferPlanRepository(pool)
	ruleRepo := postgres.NewRuleRepository(pool)
	violationRepo := postgres.NewViolationRepository(pool)
	projectionRepo := postgres.NewProjectionRepository(pool)
	txRunner := postgres.NewTxRunner(pool, queue)

	itemUC := usecase.NewItemUseCase(txRunner, itemRepo)
	planUC := usecase.NewPlanUseCase(txRunner, inventoryPlanRepo, transferPlanRepo)
	ruleUC := usecase.NewRuleUseCase(ruleRepo, itemRepo, postgres.NewChangePublisher(pool, queue))
	userUC := usecase.NewUserUseCase(userRepo)

	// PDF: reporte de proyección por ítem
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	projectionUC := usecase.NewProjectionUseCase(itemRepo, projectionRepo, violationRepo, ruleRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "inventory-projections API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		UserUC:       userUC,
		ItemUC:       itemUC,
		PlanUC:       planUC,
		ProjectionUC: projectionUC,
		RuleUC:       ruleUC,
		JWTSecret:    cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
