package accounting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// Epsilon tolerancia de cuadre de un asiento.
var Epsilon = decimal.RequireFromString("0.01")

// Totals suma débitos y créditos de las líneas.
func Totals(lines []entity.EntryLine) (debit, credit decimal.Decimal) {
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// ValidateLines aplica las reglas de partida doble: al menos dos líneas, montos no negativos,
// un solo lado por línea, cuenta informada y |Σdébito − Σcrédito| ≤ 0.01.
func ValidateLines(lines []entity.EntryLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: se requieren al menos 2 líneas", domain.ErrInvalidEntry)
	}
	for i, l := range lines {
		if strings.TrimSpace(l.AccountCode) == "" {
			return fmt.Errorf("%w: línea %d sin cuenta", domain.ErrInvalidEntry, i+1)
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("%w: línea %d con monto negativo", domain.ErrInvalidEntry, i+1)
		}
		if l.Debit.IsPositive() == l.Credit.IsPositive() {
			return fmt.Errorf("%w: línea %d debe tener débito o crédito, no ambos", domain.ErrInvalidEntry, i+1)
		}
	}
	debit, credit := Totals(lines)
	if debit.Sub(credit).Abs().GreaterThan(Epsilon) {
		return fmt.Errorf("%w: débitos %s, créditos %s", domain.ErrUnbalancedEntry, debit.StringFixed(2), credit.StringFixed(2))
	}
	return nil
}

// Debit línea de débito con el nombre tomado del plan de cuentas.
func Debit(code string, amount decimal.Decimal) entity.EntryLine {
	return entity.EntryLine{AccountCode: code, AccountName: AccountName(code), Debit: amount, Credit: decimal.Zero}
}

// Credit línea de crédito con el nombre tomado del plan de cuentas.
func Credit(code string, amount decimal.Decimal) entity.EntryLine {
	return entity.EntryLine{AccountCode: code, AccountName: AccountName(code), Debit: decimal.Zero, Credit: amount}
}

// Reverse intercambia débitos y créditos (nota crédito / reversión).
func Reverse(lines []entity.EntryLine) []entity.EntryLine {
	out := make([]entity.EntryLine, len(lines))
	for i, l := range lines {
		out[i] = entity.EntryLine{AccountCode: l.AccountCode, AccountName: l.AccountName, Debit: l.Credit, Credit: l.Debit}
	}
	return out
}

// SaleLines líneas del asiento de una venta:
// débito caja/bancos por el total, débito descuentos, crédito ingresos por cuenta
// y el par costo de ventas / inventarios por el costo.
func SaleLines(o *entity.Order) []entity.EntryLine {
	payment := AccountCash
	if o.PaymentMethod != entity.PaymentCash {
		payment = AccountBank
	}
	var lines []entity.EntryLine
	if o.Total.IsPositive() {
		lines = append(lines, Debit(payment, o.Total))
	}
	if o.Discount.IsPositive() {
		lines = append(lines, Debit(AccountSalesDiscount, o.Discount))
	}

	income := map[string]decimal.Decimal{}
	cost := map[string]decimal.Decimal{}
	var incomeOrder, costOrder []string
	for _, it := range o.Items {
		acc := it.AccountCode
		if acc == "" {
			acc = AccountFoodSales
		}
		if _, ok := income[acc]; !ok {
			incomeOrder = append(incomeOrder, acc)
		}
		income[acc] = income[acc].Add(it.Subtotal)

		lineCost := it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity)))
		if lineCost.IsPositive() {
			ca := CostAccountFor(acc)
			if _, ok := cost[ca]; !ok {
				costOrder = append(costOrder, ca)
			}
			cost[ca] = cost[ca].Add(lineCost)
		}
	}
	for _, acc := range incomeOrder {
		if income[acc].IsPositive() {
			lines = append(lines, Credit(acc, income[acc]))
		}
	}
	totalCost := decimal.Zero
	for _, ca := range costOrder {
		lines = append(lines, Debit(ca, cost[ca]))
		totalCost = totalCost.Add(cost[ca])
	}
	if totalCost.IsPositive() {
		lines = append(lines, Credit(AccountInventory, totalCost))
	}
	return lines
}

// OpeningLines fondo inicial de caja: débito caja, crédito capital.
func OpeningLines(amount decimal.Decimal) []entity.EntryLine {
	return []entity.EntryLine{Debit(AccountCash, amount), Credit(AccountCapital, amount)}
}

// CashDifferenceLines asiento de cierre por diferencia (actual − esperado).
// Faltante: débito gasto, crédito caja. Sobrante: débito caja, crédito otros ingresos.
func CashDifferenceLines(difference decimal.Decimal) []entity.EntryLine {
	amount := difference.Abs()
	if difference.IsNegative() {
		return []entity.EntryLine{Debit(AccountOtherExpenses, amount), Credit(AccountCash, amount)}
	}
	return []entity.EntryLine{Debit(AccountCash, amount), Credit(AccountOtherIncome, amount)}
}

// PurchaseLines compra a crédito: débito inventarios, crédito cuentas por pagar.
func PurchaseLines(amount decimal.Decimal) []entity.EntryLine {
	return []entity.EntryLine{Debit(AccountInventory, amount), Credit(AccountPayables, amount)}
}
