package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// Nombre de la bodega de almacenamiento creada por el seed.
const MainWarehouseName = "Bodega Principal"

// SeedConfig datos iniciales.
type SeedConfig struct {
	SaleWarehouse  string
	AdminUsername  string
	AdminPassword  string // vacío = no se crea administrador
	SampleProducts bool
}

// SeedResult qué se creó en esta ejecución.
type SeedResult struct {
	Warehouses []string
	AdminUser  string
	Products   int
}

// SeedUseCase siembra bodegas, administrador y (opcional) productos de ejemplo.
// Es idempotente: lo que ya existe no se toca.
type SeedUseCase struct {
	tx  repository.TxRunner
	log *logger.Logger
}

// NewSeedUseCase construye el caso de uso.
func NewSeedUseCase(tx repository.TxRunner, log *logger.Logger) *SeedUseCase {
	return &SeedUseCase{tx: tx, log: log.Named("seed")}
}

// Run ejecuta el seed en una sola transacción.
func (uc *SeedUseCase) Run(ctx context.Context, cfg SeedConfig) (*SeedResult, error) {
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}
	res := &SeedResult{}
	var hash string
	if cfg.AdminPassword != "" {
		h, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			return nil, err
		}
		hash = h
	}
	now := time.Now()

	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		warehouses := []entity.Warehouse{
			{Name: MainWarehouseName, Description: "Bodega de almacenamiento primario.", IsDefault: true},
			{Name: cfg.SaleWarehouse, Description: "Inventario disponible para la preparación y venta."},
		}
		for _, w := range warehouses {
			if w.Name == "" {
				continue
			}
			existing, err := r.Warehouses.GetByName(ctx, w.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			w.ID = uuid.New().String()
			w.Active = true
			w.CreatedAt, w.UpdatedAt = now, now
			if err := r.Warehouses.Create(ctx, &w); err != nil {
				return err
			}
			res.Warehouses = append(res.Warehouses, w.Name)
		}

		if hash != "" {
			existing, err := r.Users.GetByUsername(ctx, cfg.AdminUsername)
			if err != nil {
				return err
			}
			if existing == nil {
				admin := &entity.User{
					ID:           uuid.New().String(),
					Username:     cfg.AdminUsername,
					Name:         "Administrador",
					PasswordHash: hash,
					Role:         entity.RoleAdmin,
					Active:       true,
					CreatedAt:    now,
					UpdatedAt:    now,
				}
				if err := r.Users.Create(ctx, admin); err != nil {
					return err
				}
				res.AdminUser = admin.Username
			}
		}

		if cfg.SampleProducts {
			n, err := seedProducts(ctx, r, now)
			if err != nil {
				return err
			}
			res.Products = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Strs("warehouses", res.Warehouses).
		Str("admin", res.AdminUser).
		Int("products", res.Products).
		Msg("seed aplicado")
	return res, nil
}

type sampleProduct struct {
	code, name, category string
	price, cost          int64
	minStock             int
	recipe               map[string]int // código → cantidad
}

var sampleProducts = []sampleProduct{
	{code: "HAM-001", name: "Hamburguesa Clásica", category: entity.CategoryFood, price: 18000, cost: 7000, minStock: 10},
	{code: "PAP-001", name: "Papas Fritas", category: entity.CategoryFood, price: 6000, cost: 2000, minStock: 10},
	{code: "GAS-001", name: "Gaseosa 400ml", category: entity.CategoryBeverage, price: 4000, cost: 1500, minStock: 24},
	{code: "COM-001", name: "Combo Clásico", category: entity.CategoryCombo, price: 25000,
		recipe: map[string]int{"HAM-001": 1, "PAP-001": 1, "GAS-001": 1}},
}

func seedProducts(ctx context.Context, r repository.Repos, now time.Time) (int, error) {
	created := 0
	for _, sp := range sampleProducts {
		existing, err := r.Products.GetByCode(ctx, sp.code)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		p := &entity.Product{
			ID:          uuid.New().String(),
			Code:        sp.code,
			Name:        sp.name,
			Category:    sp.category,
			Price:       decimal.NewFromInt(sp.price),
			Cost:        decimal.NewFromInt(sp.cost),
			MinStock:    sp.minStock,
			Active:      true,
			AccountCode: entity.DefaultAccountCode(sp.category),
			IsCombo:     sp.category == entity.CategoryCombo,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, code := range []string{"HAM-001", "PAP-001", "GAS-001"} {
			qty, ok := sp.recipe[code]
			if !ok {
				continue
			}
			comp, err := r.Products.GetByCode(ctx, code)
			if err != nil {
				return created, err
			}
			if comp == nil {
				continue
			}
			p.ComboItems = append(p.ComboItems, entity.ComboItem{ProductID: comp.ID, ProductName: comp.Name, Quantity: qty})
		}
		if err := r.Products.Create(ctx, p); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
