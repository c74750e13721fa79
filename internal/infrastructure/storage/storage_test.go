package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/storage"
	"github.com/jhoicas/pos-backoffice/pkg/config"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

func TestOpen_Memoria(t *testing.T) {
	s, err := storage.Open(context.Background(), &config.Config{Storage: "memory"}, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "memory", s.Driver)
	ctx := context.Background()
	require.NoError(t, s.Tx.View(ctx, func(r repository.Repos) error {
		n, err := r.Users.Count(ctx)
		assert.Zero(t, n)
		return err
	}))
}
