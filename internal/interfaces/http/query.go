package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	domacc "github.com/jhoicas/pos-backoffice/internal/domain/accounting"
)

const dateOnly = "2006-01-02"

// queryTime lee una fecha del query string (YYYY-MM-DD o RFC3339).
// Con endOfDay, una fecha sin hora se extiende hasta el final del día.
func queryTime(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dateOnly, raw, time.Local); err == nil {
		if endOfDay {
			t = domacc.EndOfDay(t)
		}
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// dateRange lee from/to; responde 400 si alguno es inválido.
func dateRange(c *fiber.Ctx) (from, to *time.Time, ok bool, err error) {
	if from, err = queryTime(c, "from", false); err != nil {
		return nil, nil, false, badRequest(c, "INVALID_DATE", "from: formato YYYY-MM-DD o RFC3339")
	}
	if to, err = queryTime(c, "to", true); err != nil {
		return nil, nil, false, badRequest(c, "INVALID_DATE", "to: formato YYYY-MM-DD o RFC3339")
	}
	return from, to, true, nil
}
