package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/Inventario-ledger/internal/application/authz"
	"github.com/jhoicas/Inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/report"
	"github.com/jhoicas/Inventario-ledger/internal/application/ticket"
	"github.com/jhoicas/Inventario-ledger/internal/application/workflow"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/Inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/Inventario-ledger/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// superAdminRoleID rol sembrado en modo memoria para poder operar sin base de datos.
const superAdminRoleID = "super-admin"

type storage struct {
	tx    inventory.TxRunner
	repos repository.TxRepos
	roles repository.RoleRepository
	close func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	reportLoc, err := cfg.Report.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria de reportes")
	}

	notifier := notify.NewAsyncNotifier(log, cfg.Notify.Buffer, nil)

	az := authz.NewAuthorizer(store.roles)
	ledger := inventory.NewLedger()
	workflowUC := workflow.NewUseCase(store.repos.Workflows, store.repos.Tickets, az)
	catalogUC := catalog.NewUseCase(store.repos.Items, store.repos.Locations, store.repos.Stock, az)
	stockUC := inventory.NewStockUseCase(store.repos.Stock, store.repos.Tickets, az)
	ticketUC := ticket.NewUseCase(
		store.tx, store.repos.Tickets, store.repos.Items, store.repos.Locations,
		az, ledger, log,
		ticket.WithNotifier(notifier),
	)
	reportUC := report.NewUseCase(
		store.repos.Stock, store.repos.Movements, az,
		report.Config{Locale: cfg.Report.Locale, Location: reportLoc},
		infrapdf.NewStockReportRenderer(cfg.App.Name),
		infraxlsx.NewStockReportRenderer(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		TicketUC:   ticketUC,
		WorkflowUC: workflowUC,
		CatalogUC:  catalogUC,
		StockUC:    stockUC,
		ReportUC:   reportUC,
		JWTSecret:  cfg.JWT.Secret,
		Logger:     log,
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
	notifier.Close()

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		mem := memory.NewStore()
		mem.Roles.PutRole(entity.Role{ID: superAdminRoleID, Name: "Super administrador", IsSuperAdmin: true})
		log.Warn().Str("role_id", superAdminRoleID).Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{tx: mem, repos: mem.Repos(), roles: mem.Roles, close: func() {}}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema aplicado")
	}
	return &storage{
		tx:    postgres.NewTxRunner(pool),
		repos: postgres.NewRepos(pool),
		roles: postgres.NewRoleRepository(pool),
		close: pool.Close,
	}, nil
}
