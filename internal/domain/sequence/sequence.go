// Package sequence arma los consecutivos legibles: prefijo temporal + contador con ceros.
// El contador siguiente se deriva del mayor número existente con el mismo prefijo.
package sequence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Anchos del contador por tipo de documento.
const (
	OrderWidth    = 4
	EntryWidth    = 5
	ShiftWidth    = 2
	TransferWidth = 4
)

// ErrExhausted el contador superó su ancho para el prefijo.
var ErrExhausted = errors.New("consecutivo agotado")

// OrderPrefix YYYYMMDD.
func OrderPrefix(t time.Time) string { return t.Format("20060102") }

// EntryPrefix YYYYMM.
func EntryPrefix(t time.Time) string { return t.Format("200601") }

// ShiftPrefix SHIFT-YYYYMMDD-.
func ShiftPrefix(t time.Time) string { return "SHIFT-" + t.Format("20060102") + "-" }

// TransferPrefix TRNSF-YYYYMMDD-.
func TransferPrefix(t time.Time) string { return "TRNSF-" + t.Format("20060102") + "-" }

// Next devuelve el número que sigue a last dentro de prefix. last vacío inicia en 1.
func Next(prefix, last string, width int) (string, error) {
	n := 0
	if last != "" {
		if !strings.HasPrefix(last, prefix) {
			return "", fmt.Errorf("consecutivo %q no corresponde al prefijo %q", last, prefix)
		}
		v, err := strconv.Atoi(last[len(prefix):])
		if err != nil {
			return "", fmt.Errorf("consecutivo %q mal formado: %w", last, err)
		}
		n = v
	}
	next := fmt.Sprintf("%0*d", width, n+1)
	if len(next) > width {
		return "", fmt.Errorf("%w: %s", ErrExhausted, prefix)
	}
	return prefix + next, nil
}
