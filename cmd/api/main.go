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

	_ "github.com/jhoicas/pos-backoffice/docs"
	"github.com/jhoicas/pos-backoffice/internal/application/accounting"
	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/cashsession"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/order"
	"github.com/jhoicas/pos-backoffice/internal/application/transfer"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/cache"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/pos-backoffice/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/pos-backoffice/internal/interfaces/http"
	"github.com/jhoicas/pos-backoffice/pkg/config"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// @title                       POS Back-office API
// @version                     1.0
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.Close()
	tx := store.Tx

	// Bodegas base (y admin si SEED_ADMIN_PASSWORD) antes de aceptar ventas.
	if _, err := usecase.NewSeedUseCase(tx, log).Run(ctx, usecase.SeedConfig{
		SaleWarehouse:  cfg.POS.SaleWarehouse,
		AdminPassword:  cfg.POS.SeedAdminPassword,
		SampleProducts: cfg.POS.SeedSampleProducts,
	}); err != nil {
		log.Fatal().Err(err).Msg("seed inicial")
	}

	// Idempotencia de órdenes: Redis si está configurado, si no en memoria (una sola instancia).
	idemTTL := time.Duration(cfg.Redis.IdempotencyTTL) * time.Second
	var idem order.IdempotencyStore
	if cfg.Redis.Addr != "" {
		redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      idemTTL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisStore.Close()
		idem = redisStore
	} else {
		idem = cache.NewInMemoryIdempotencyStore(idemTTL)
	}

	saleWarehouse := cfg.POS.SaleWarehouse
	orderSvc := order.NewService(tx, idem, saleWarehouse, log.Named("orders"))
	cashSvc := cashsession.NewService(tx, infrapdf.NewMarotoPDFGenerator(), log.Named("cash"))
	accountingSvc := accounting.NewService(tx, export.NewXMLJournalExporter(), log.Named("accounting"))
	ledger := inventory.NewLedger(tx, saleWarehouse, log.Named("inventory"))
	shiftGate := transfer.NewShiftGate(tx, log.Named("shifts"))
	coordinator := transfer.NewCoordinator(tx, log.Named("transfers"))

	authUC := auth.NewAuthUseCase(tx, auth.JWTConfig{
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
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Back-office API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		Orders:      orderSvc,
		Cash:        cashSvc,
		Accounting:  accountingSvc,
		Ledger:      ledger,
		Shifts:      shiftGate,
		Transfers:   coordinator,
		ProductUC:   usecase.NewProductUseCase(tx, saleWarehouse),
		WarehouseUC: usecase.NewWarehouseUseCase(tx),
		InventoryUC: usecase.NewInventoryUseCase(tx),
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

	log.Info().Msg("aplicación detenida")
}
