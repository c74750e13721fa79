package entity

import "time"

// Stock cantidad de un producto en una bodega. Ausencia de registro equivale a cero.
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    int
	UpdatedAt   time.Time
}

// StockKey llave compuesta (producto, bodega).
type StockKey struct {
	ProductID   string
	WarehouseID string
}

// Less orden total usado para tomar bloqueos siempre en el mismo orden.
func (k StockKey) Less(o StockKey) bool {
	if k.ProductID != o.ProductID {
		return k.ProductID < o.ProductID
	}
	return k.WarehouseID < o.WarehouseID
}
