// Package pdf genera el reporte de cierre de caja en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Cierre de caja + cajero  │  Apertura / Cierre      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: ventas por método de pago + órdenes               │
//	│  ARQUEO: esperado / contado / diferencia                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: N° orden | Hora | Método | Estado | Total           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el id de la caja + firma                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

const dateLayout = "02/01/2006 15:04"

var (
	paymentLabels = map[string]string{
		entity.PaymentCash:     "Efectivo",
		entity.PaymentCard:     "Tarjeta",
		entity.PaymentTransfer: "Transferencia",
	}
	statusLabels = map[string]string{
		entity.OrderPaid:      "Pagada",
		entity.OrderDelivered: "Entregada",
		entity.OrderCancelled: "Anulada",
	}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa cashsession.ReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. Los montos se formatean en es-CO.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.MustParse("es-CO"))}
}

// CashSessionReport genera el PDF de cierre y devuelve sus bytes.
func (g *MarotoPDFGenerator) CashSessionReport(s *entity.CashSession, orders []*entity.Order) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("pdf: caja nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cierre de caja", true).
		WithAuthor(s.CashierName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sectionRow("VENTAS DE LA SESIÓN"))
	m.AddRows(g.summaryRow(s))
	m.AddRows(g.countRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.orderRows(orders)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(s))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(s *entity.CashSession) core.Row {
	closed := "—"
	if s.ClosedAt != nil {
		closed = s.ClosedAt.Format(dateLayout)
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("CIERRE DE CAJA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Cajero: "+nonEmpty(s.CashierName, s.CashierID), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Apertura: "+s.OpenedAt.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Cierre: "+closed, props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New("Cerrada por: "+nonEmpty(s.ClosedByName, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func sectionRow(title string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

// summaryRow: ventas por método de pago.
func (g *MarotoPDFGenerator) summaryRow(s *entity.CashSession) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Right: 2})
	}
	return row.New(24).Add(
		col.New(3).Add(
			label("Efectivo:"),
			text.New("Tarjeta:", props.Text{Style: fontstyle.Bold, Size: 9, Top: 5}),
			text.New("Transferencia:", props.Text{Style: fontstyle.Bold, Size: 9, Top: 10}),
			text.New("Total órdenes:", props.Text{Style: fontstyle.Bold, Size: 9, Top: 15}),
		),
		col.New(3).Add(
			text.New(g.money(s.CashSales), props.Text{Size: 9, Align: align.Right}),
			text.New(g.money(s.CardSales), props.Text{Size: 9, Align: align.Right, Top: 5}),
			text.New(g.money(s.TransferSales), props.Text{Size: 9, Align: align.Right, Top: 10}),
			text.New(g.printer.Sprintf("%d", s.TotalOrders), props.Text{Size: 9, Align: align.Right, Top: 15}),
		),
		col.New(6).Add(
			text.New("TOTAL VENDIDO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 2,
			}),
			text.New(g.money(s.TotalSales), props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Right, Color: colorPrimary, Top: 8,
			}),
		),
	)
}

// countRow: arqueo de efectivo.
func (g *MarotoPDFGenerator) countRow(s *entity.CashSession) core.Row {
	actual, diff := "—", "—"
	diffColor := colorGray
	if s.ActualAmount != nil {
		actual = g.money(*s.ActualAmount)
	}
	if s.Difference != nil {
		diff = g.money(*s.Difference)
		if s.Difference.IsNegative() {
			diffColor = colorDanger
		}
	}
	cell := func(title, value string, c *props.Color) core.Col {
		return col.New(3).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Center, Color: c, Top: 6}),
		)
	}
	return row.New(16).Add(
		cell("Base inicial", g.money(s.InitialAmount), colorPrimary),
		cell("Efectivo esperado", g.money(s.ExpectedAmount), colorPrimary),
		cell("Efectivo contado", actual, colorPrimary),
		cell("Diferencia", diff, diffColor),
	)
}

// tableHeaderRow: cabecera de la tabla de órdenes.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("N° orden", 3, align.Left),
		h("Hora", 2, align.Center),
		h("Método", 2, align.Center),
		h("Estado", 2, align.Center),
		h("Total", 3, align.Right),
	)
}

// orderRows: una fila por orden; las anuladas no suman pero se listan.
func (g *MarotoPDFGenerator) orderRows(orders []*entity.Order) []core.Row {
	if len(orders) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sin órdenes en esta caja.", props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 2}),
		))}
	}
	result := make([]core.Row, 0, len(orders))
	for _, o := range orders {
		c := &props.Color{}
		if o.Status == entity.OrderCancelled {
			c = colorGray
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(o.OrderNumber, props.Text{Size: 8, Top: 1, Left: 1, Color: c})),
			col.New(2).Add(text.New(o.CreatedAt.Format("15:04"), props.Text{Size: 8, Align: align.Center, Top: 1, Color: c})),
			col.New(2).Add(text.New(nonEmpty(paymentLabels[o.PaymentMethod], o.PaymentMethod), props.Text{Size: 8, Align: align.Center, Top: 1, Color: c})),
			col.New(2).Add(text.New(nonEmpty(statusLabels[o.Status], o.Status), props.Text{Size: 8, Align: align.Center, Top: 1, Color: c})),
			col.New(3).Add(text.New(g.money(o.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: c})),
		))
	}
	return result
}

// footerRow: QR con el id de la caja + espacio para firma.
func footerRow(s *entity.CashSession) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(s.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Caja "+s.ID, props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray}),
			text.New(nonEmpty(s.Notes, ""), props.Text{Size: 8, Top: 10, Left: 3}),
			text.New("Firma cajero: ____________________     Firma supervisor: ____________________", props.Text{
				Size: 8, Top: 28, Left: 3,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea pesos sin decimales con separador de miles local. Ej: 25000 → "$25.000".
func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	n := d.Round(0).IntPart()
	if n < 0 {
		return g.printer.Sprintf("-$%d", -n)
	}
	return g.printer.Sprintf("$%d", n)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
