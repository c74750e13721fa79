// Package storage elige el almacenamiento transaccional según STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-backoffice/pkg/config"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// Storage unidad de trabajo lista para los servicios y su cierre.
type Storage struct {
	Tx     repository.TxRunner
	Driver string
	close  func()
}

// Close libera conexiones; no-op en memoria.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open abre PostgreSQL (aplicando migraciones si DB_MIGRATE) o un almacén en memoria.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Storage, error) {
	if cfg.Storage == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &Storage{Tx: memory.NewStore(), Driver: "memory"}, nil
	}

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
			return nil, fmt.Errorf("migraciones: %w", err)
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &Storage{Tx: postgres.NewTxRunner(pool), Driver: "postgres", close: pool.Close}, nil
}
