// seed crea las bodegas base, el administrador y (opcional) productos de ejemplo.
//
// Uso: SEED_ADMIN_PASSWORD=... go run ./cmd/seed [-sample] [-admin usuario]
// Es idempotente: lo que ya existe no se modifica.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/storage"
	"github.com/jhoicas/pos-backoffice/pkg/config"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

func main() {
	sample := flag.Bool("sample", false, "crear productos de ejemplo (combo incluido)")
	admin := flag.String("admin", "admin", "usuario administrador")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.Close()

	if cfg.POS.SeedAdminPassword == "" {
		log.Warn().Msg("SEED_ADMIN_PASSWORD vacío: no se creará el administrador")
	}
	res, err := usecase.NewSeedUseCase(store.Tx, log).Run(ctx, usecase.SeedConfig{
		SaleWarehouse:  cfg.POS.SaleWarehouse,
		AdminUsername:  *admin,
		AdminPassword:  cfg.POS.SeedAdminPassword,
		SampleProducts: *sample || cfg.POS.SeedSampleProducts,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().
		Strs("warehouses", res.Warehouses).
		Str("admin", res.AdminUser).
		Int("products", res.Products).
		Str("storage", store.Driver).
		Msg("seed completado")
}
