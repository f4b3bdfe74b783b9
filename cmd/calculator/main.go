// calculator consume la cola de cambios y mantiene proyecciones, violaciones y el horizonte de
// fechas futuras hasta recibir SIGINT o SIGTERM.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/inventory-projections/internal/application/engine"
	"github.com/jhoicas/inventory-projections/internal/application/projection"
	"github.com/jhoicas/inventory-projections/internal/domain/retry"
	"github.com/jhoicas/inventory-projections/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-projections/migrations"
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
		Service: "calculator",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool, migrations.FS)
	if err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	if len(applied) > 0 {
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}

	ec := cfg.Engine
	policy := retry.Policy{MaxFailures: ec.MaxFailures, MaxBackoff: ec.MaxBackoff}
	queue := postgres.NewQueueRepository(pool, postgres.QueueConfig{
		Name:         ec.QueueName,
		DeadLetter:   ec.DeadLetterQueue,
		BatchSize:    ec.BatchSize,
		Wait:         ec.Wait,
		Visibility:   ec.Visibility,
		PollInterval: ec.PollInterval,
	}, policy, log.Component("queue"))

	futureDates := postgres.NewFutureDateRepository(pool, ec.QueueName)
	ruleRepo := postgres.NewRuleRepository(pool)
	violations := projection.NewViolationEvaluator(ruleRepo, postgres.NewViolationRepository(pool), time.Now)

	calculator := projection.NewCalculator(projection.Repositories{
		Items:          postgres.NewItemRepository(pool),
		InventoryPlans: postgres.NewInventoryPlanRepository(pool),
		TransferPlans:  postgres.NewTransferPlanRepository(pool),
		FutureDates:    futureDates,
		Projections:    postgres.NewProjectionRepository(pool),
		Lookup:         postgres.NewChangeLookupRepository(pool),
	}, violations, projection.CalculatorConfig{Workers: ec.Workers}, log.Component("calculator"))

	window := projection.NewRollingDateWindow(futureDates, ec.HorizonDays, time.Now, log.Component("window"))

	loop := engine.NewQueueExecutionLoop(queue, calculator, window, engine.Config{
		IdleSleep:      ec.IdleSleep,
		WindowInterval: ec.WindowInterval,
	}, log.Component("engine"))

	log.Info().
		Str("queue", ec.QueueName).
		Str("dead_letter", ec.DeadLetterQueue).
		Int("horizon_days", ec.HorizonDays).
		Msg("iniciando calculator")

	if err := loop.Run(ctx); err != nil {
		log.Error().Err(err).Msg("motor de proyecciones finalizado con error")
	}
	log.Info().Msg("calculator detenido")
}
