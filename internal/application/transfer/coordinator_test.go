package transfer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/apptest"
	"github.com/jhoicas/pos-backoffice/internal/application/transfer"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

var bodeguero = entity.Actor{ID: "b1", Name: "Bodeguero", Role: entity.RoleBodega}

func setup(t *testing.T) (*apptest.Fixture, *transfer.ShiftGate, *transfer.Coordinator) {
	t.Helper()
	f := apptest.New(t)
	gate := transfer.NewShiftGate(f.Store, logger.Nop()).WithClock(f.Clock())
	coord := transfer.NewCoordinator(f.Store, logger.Nop()).WithClock(f.Clock())
	return f, gate, coord
}

func request(coord *transfer.Coordinator, qty int) (*entity.InventoryTransfer, error) {
	return coord.Request(context.Background(), transfer.RequestInput{
		FromWarehouseID: apptest.Bodega,
		ToWarehouseID:   apptest.Cocina,
		Lines:           []transfer.Line{{ProductID: "pan", Quantity: qty}},
	}, bodeguero)
}

func TestShiftGate_UnTurnoAbierto(t *testing.T) {
	_, gate, _ := setup(t)
	ctx := context.Background()

	_, err := gate.Current(ctx)
	assert.ErrorIs(t, err, domain.ErrNoOpenShift)

	sh, err := gate.Open(ctx, bodeguero, "")
	require.NoError(t, err)
	assert.Equal(t, "SHIFT-20260314-01", sh.ShiftNumber)

	_, err = gate.Open(ctx, bodeguero, "")
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyOpen)

	_, err = gate.Close(ctx, sh.ID, bodeguero)
	require.NoError(t, err)
	_, err = gate.Close(ctx, sh.ID, bodeguero)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	sh2, err := gate.Open(ctx, bodeguero, "")
	require.NoError(t, err)
	assert.Equal(t, "SHIFT-20260314-02", sh2.ShiftNumber)

	list, err := gate.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRequest_RequiereTurno(t *testing.T) {
	f, _, coord := setup(t)
	f.Product("pan", "Pan", entity.CategoryFood, 1000, 300)
	f.Stock("pan", apptest.Bodega, 10)

	_, err := request(coord, 4)
	assert.ErrorIs(t, err, domain.ErrNoOpenShift)
}

// Bodega A con 10 unidades: traslado de 4 confirmado deja A=6, B=4; un segundo traslado
// de 7 se rechaza por stock insuficiente en A.
func TestTraslado_EscenarioCompleto(t *testing.T) {
	f, gate, coord := setup(t)
	ctx := context.Background()
	f.Product("pan", "Pan", entity.CategoryFood, 1000, 300)
	f.Stock("pan", apptest.Bodega, 10)
	sh, err := gate.Open(ctx, bodeguero, "")
	require.NoError(t, err)

	tr, err := request(coord, 4)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferPending, tr.Status)
	assert.Equal(t, "TRNSF-20260314-0001", tr.TransferNumber)
	assert.Equal(t, sh.ID, tr.ShiftID)
	assert.Equal(t, "Pan", tr.Items[0].ProductName)
	assert.Equal(t, 10, f.Qty("pan", apptest.Bodega), "solicitar no mueve stock")

	confirmed, err := coord.Confirm(ctx, tr.ID, bodeguero)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferConfirmed, confirmed.Status)
	assert.Equal(t, 6, f.Qty("pan", apptest.Bodega))
	assert.Equal(t, 4, f.Qty("pan", apptest.Cocina))

	_, err = request(coord, 7)
	var se *domain.InsufficientStockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 6, se.Available)
	assert.Equal(t, 6, f.Qty("pan", apptest.Bodega))

	_, err = coord.Confirm(ctx, tr.ID, bodeguero)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestConfirm_RevalidaStock(t *testing.T) {
	f, gate, coord := setup(t)
	ctx := context.Background()
	f.Product("pan", "Pan", entity.CategoryFood, 1000, 300)
	f.Stock("pan", apptest.Bodega, 5)
	_, err := gate.Open(ctx, bodeguero, "")
	require.NoError(t, err)

	a, err := request(coord, 4)
	require.NoError(t, err)
	b, err := request(coord, 4)
	require.NoError(t, err)

	_, err = coord.Confirm(ctx, a.ID, bodeguero)
	require.NoError(t, err)
	_, err = coord.Confirm(ctx, b.ID, bodeguero)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, f.Qty("pan", apptest.Bodega))
	assert.Equal(t, 4, f.Qty("pan", apptest.Cocina))

	got, err := coord.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferPending, got.Status)
}

func TestReject_NoMueveStock(t *testing.T) {
	f, gate, coord := setup(t)
	ctx := context.Background()
	f.Product("pan", "Pan", entity.CategoryFood, 1000, 300)
	f.Stock("pan", apptest.Bodega, 5)
	_, err := gate.Open(ctx, bodeguero, "")
	require.NoError(t, err)

	tr, err := request(coord, 2)
	require.NoError(t, err)
	rejected, err := coord.Reject(ctx, tr.ID, bodeguero, "no se necesita")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferRejected, rejected.Status)
	assert.Equal(t, "no se necesita", rejected.RejectReason)
	assert.Equal(t, 5, f.Qty("pan", apptest.Bodega))

	_, err = coord.Reject(ctx, tr.ID, bodeguero, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	list, err := coord.List(ctx, repository.TransferFilter{Status: entity.TransferRejected})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRequest_Validaciones(t *testing.T) {
	f, gate, coord := setup(t)
	ctx := context.Background()
	f.Product("pan", "Pan", entity.CategoryFood, 1000, 300)
	f.Combo("combo", "Combo", 5000, entity.ComboItem{ProductID: "pan", Quantity: 1})
	_, err := gate.Open(ctx, bodeguero, "")
	require.NoError(t, err)

	_, err = coord.Request(ctx, transfer.RequestInput{FromWarehouseID: apptest.Bodega, ToWarehouseID: apptest.Bodega,
		Lines: []transfer.Line{{ProductID: "pan", Quantity: 1}}}, bodeguero)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = coord.Request(ctx, transfer.RequestInput{FromWarehouseID: apptest.Bodega, ToWarehouseID: "nada",
		Lines: []transfer.Line{{ProductID: "pan", Quantity: 1}}}, bodeguero)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = coord.Request(ctx, transfer.RequestInput{FromWarehouseID: apptest.Bodega, ToWarehouseID: apptest.Cocina,
		Lines: []transfer.Line{{ProductID: "combo", Quantity: 1}}}, bodeguero)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = coord.Request(ctx, transfer.RequestInput{FromWarehouseID: apptest.Bodega, ToWarehouseID: apptest.Cocina}, bodeguero)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
