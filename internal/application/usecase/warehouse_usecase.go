package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	tx repository.TxRunner
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(tx repository.TxRunner) *WarehouseUseCase {
	return &WarehouseUseCase{tx: tx}
}

// Create crea una nueva bodega con nombre único.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		IsDefault:   in.IsDefault,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		existing, err := r.Warehouses.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("bodega %q: %w", name, domain.ErrDuplicate)
		}
		if warehouse.IsDefault {
			if err := clearDefault(ctx, r, ""); err != nil {
				return err
			}
		}
		return r.Warehouses.Create(ctx, warehouse)
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	var out *entity.Warehouse
	err := uc.tx.View(ctx, func(r repository.Repos) error {
		w, err := r.Warehouses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if w == nil {
			return domain.NotFoundError("bodega", id)
		}
		out = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(out), nil
}

// Update actualiza una bodega. Marcarla por defecto desmarca las demás.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	var out *entity.Warehouse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		warehouse, err := r.Warehouses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if warehouse == nil {
			return domain.NotFoundError("bodega", id)
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.NewValidationError("name", "es requerido")
			}
			other, err := r.Warehouses.GetByName(ctx, name)
			if err != nil {
				return err
			}
			if other != nil && other.ID != id {
				return fmt.Errorf("bodega %q: %w", name, domain.ErrDuplicate)
			}
			warehouse.Name = name
		}
		if in.Description != nil {
			warehouse.Description = *in.Description
		}
		if in.Active != nil {
			warehouse.Active = *in.Active
		}
		if in.IsDefault != nil {
			if *in.IsDefault && !warehouse.IsDefault {
				if err := clearDefault(ctx, r, id); err != nil {
					return err
				}
			}
			warehouse.IsDefault = *in.IsDefault
		}
		warehouse.UpdatedAt = time.Now()
		if err := r.Warehouses.Update(ctx, warehouse); err != nil {
			return err
		}
		out = warehouse
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(out), nil
}

// List lista todas las bodegas.
func (uc *WarehouseUseCase) List(ctx context.Context) ([]dto.WarehouseResponse, error) {
	var list []*entity.Warehouse
	err := uc.tx.View(ctx, func(r repository.Repos) error {
		var err error
		list, err = r.Warehouses.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return items, nil
}

// Delete elimina una bodega sin registros de stock.
func (uc *WarehouseUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		w, err := r.Warehouses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if w == nil {
			return domain.NotFoundError("bodega", id)
		}
		n, err := r.Stock.CountByWarehouse(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("la bodega %s tiene %d registros de stock: %w", w.Name, n, domain.ErrConflict)
		}
		return r.Warehouses.Delete(ctx, id)
	})
}

func clearDefault(ctx context.Context, r repository.Repos, keepID string) error {
	list, err := r.Warehouses.List(ctx)
	if err != nil {
		return err
	}
	for _, w := range list {
		if w.IsDefault && w.ID != keepID {
			w.IsDefault = false
			w.UpdatedAt = time.Now()
			if err := r.Warehouses.Update(ctx, w); err != nil {
				return err
			}
		}
	}
	return nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		IsDefault:   w.IsDefault,
		Active:      w.Active,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}
