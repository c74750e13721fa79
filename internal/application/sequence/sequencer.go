// Package sequence asigna consecutivos dentro de una unidad de trabajo. Cada prefijo se
// serializa con un bloqueo de transacción, de modo que dos operaciones concurrentes no
// obtienen el mismo número.
package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/internal/domain/sequence"
)

func next(ctx context.Context, r repository.Repos, prefix string, width int, last func(context.Context, string) (string, error)) (string, error) {
	if err := r.Locks.Lock(ctx, "seq:"+prefix); err != nil {
		return "", fmt.Errorf("bloquear consecutivo %s: %w", prefix, err)
	}
	l, err := last(ctx, prefix)
	if err != nil {
		return "", err
	}
	return sequence.Next(prefix, l, width)
}

// NextOrderNumber YYYYMMDD + 4 dígitos.
func NextOrderNumber(ctx context.Context, r repository.Repos, now time.Time) (string, error) {
	return next(ctx, r, sequence.OrderPrefix(now), sequence.OrderWidth, r.Orders.LastNumber)
}

// NextEntryNumber YYYYMM + 5 dígitos.
func NextEntryNumber(ctx context.Context, r repository.Repos, now time.Time) (string, error) {
	return next(ctx, r, sequence.EntryPrefix(now), sequence.EntryWidth, r.Ledger.LastNumber)
}

// NextShiftNumber SHIFT-YYYYMMDD-NN.
func NextShiftNumber(ctx context.Context, r repository.Repos, now time.Time) (string, error) {
	return next(ctx, r, sequence.ShiftPrefix(now), sequence.ShiftWidth, r.Shifts.LastNumber)
}

// NextTransferNumber TRNSF-YYYYMMDD-NNNN.
func NextTransferNumber(ctx context.Context, r repository.Repos, now time.Time) (string, error) {
	return next(ctx, r, sequence.TransferPrefix(now), sequence.TransferWidth, r.Transfers.LastNumber)
}
