// seed aplica las migraciones y carga datos a través de los casos de uso de la API,
// de modo que el motor de proyecciones recibe un cambio por cada registro creado.
//
// Uso:
//
//	go run ./cmd/seed migrate
//	go run ./cmd/seed demo
//	go run ./cmd/seed import datos.yaml --encoding latin1
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/inventory-projections/internal/application/auth"
	"github.com/jhoicas/inventory-projections/internal/application/usecase"
	"github.com/jhoicas/inventory-projections/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-projections/internal/seed"
	"github.com/jhoicas/inventory-projections/migrations"
	"github.com/jhoicas/inventory-projections/pkg/config"
	"github.com/jhoicas/inventory-projections/pkg/logger"
)

type app struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Migraciones y datos iniciales de inventory-projections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.pool != nil {
				a.pool.Close()
			}
		},
	}
	cmd.AddCommand(newMigrateCommand(a), newDemoCommand(a), newImportCommand(a))
	return cmd
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.migrate(cmd.Context())
		},
	}
}

func newDemoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Migra y carga el conjunto de demostración",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := seed.Demo()
			if err != nil {
				return err
			}
			return a.load(cmd.Context(), ds)
		},
	}
}

func newImportCommand(a *app) *cobra.Command {
	var encoding string
	cmd := &cobra.Command{
		Use:   "import <archivo.yaml>",
		Short: "Migra y carga un conjunto de datos YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir %s: %w", args[0], err)
			}
			defer f.Close()
			ds, err := seed.Decode(f, encoding)
			if err != nil {
				return err
			}
			return a.load(cmd.Context(), ds)
		},
	}
	cmd.Flags().StringVar(&encoding, "encoding", "", "codificación del archivo (utf-8|latin1)")
	return cmd
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	a.cfg = cfg
	a.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})
	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	a.pool = pool
	return nil
}

func (a *app) migrate(ctx context.Context) error {
	applied, err := postgres.Migrate(ctx, a.pool, migrations.FS)
	if err != nil {
		return err
	}
	a.log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	return nil
}

func (a *app) load(ctx context.Context, ds *seed.Dataset) error {
	if err := a.migrate(ctx); err != nil {
		return err
	}
	queue := a.cfg.Engine.QueueName
	txRunner := postgres.NewTxRunner(a.pool, queue)
	itemRepo := postgres.NewItemRepository(a.pool)
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(a.pool), auth.JWTConfig{
		Secret:     a.cfg.JWT.Secret,
		ExpMinutes: a.cfg.JWT.Expiration,
		Issuer:     a.cfg.JWT.Issuer,
	})
	itemUC := usecase.NewItemUseCase(txRunner, itemRepo)
	planUC := usecase.NewPlanUseCase(txRunner, postgres.NewInventoryPlanRepository(a.pool), postgres.NewTransferPlanRepository(a.pool))
	ruleUC := usecase.NewRuleUseCase(postgres.NewRuleRepository(a.pool), itemRepo, postgres.NewChangePublisher(a.pool, queue))

	loader := seed.NewLoader(authUC, itemUC, planUC, ruleUC, time.Now, a.log.Component("seed"))
	_, err := loader.Load(ctx, ds)
	return err
}
