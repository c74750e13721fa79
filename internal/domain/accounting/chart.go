package accounting

import "strings"

// Tipos de cuenta.
const (
	TypeAsset     = "asset"
	TypeLiability = "liability"
	TypeEquity    = "equity"
	TypeIncome    = "income"
	TypeExpense   = "expense"
)

// Cuentas usadas por los asientos automáticos.
const (
	AccountCash          = "1.1.01"
	AccountBank          = "1.1.02"
	AccountInventory     = "1.1.03"
	AccountPayables      = "2.1.01"
	AccountCapital       = "3.1"
	AccountFoodSales     = "4.1.01"
	AccountBeverageSales = "4.1.02"
	AccountSalesDiscount = "4.1.90"
	AccountOtherIncome   = "4.2.01"
	AccountFoodCost      = "5.1.01"
	AccountBeverageCost  = "5.1.02"
	AccountOtherExpenses = "5.2.04"
)

// Account cuenta del plan de cuentas.
type Account struct {
	Code   string
	Name   string
	Type   string
	Parent string
}

var chart = []Account{
	{"1", "ACTIVOS", TypeAsset, ""},
	{"1.1", "ACTIVO CORRIENTE", TypeAsset, "1"},
	{AccountCash, "CAJA", TypeAsset, "1.1"},
	{AccountBank, "BANCOS", TypeAsset, "1.1"},
	{AccountInventory, "INVENTARIOS", TypeAsset, "1.1"},

	{"2", "PASIVOS", TypeLiability, ""},
	{"2.1", "PASIVO CORRIENTE", TypeLiability, "2"},
	{AccountPayables, "CUENTAS POR PAGAR", TypeLiability, "2.1"},

	{"3", "PATRIMONIO", TypeEquity, ""},
	{AccountCapital, "CAPITAL", TypeEquity, "3"},
	{"3.2", "UTILIDADES RETENIDAS", TypeEquity, "3"},
	{"3.3", "UTILIDAD DEL EJERCICIO", TypeEquity, "3"},

	{"4", "INGRESOS", TypeIncome, ""},
	{"4.1", "VENTAS", TypeIncome, "4"},
	{AccountFoodSales, "VENTAS DE ALIMENTOS", TypeIncome, "4.1"},
	{AccountBeverageSales, "VENTAS DE BEBIDAS", TypeIncome, "4.1"},
	{AccountSalesDiscount, "DESCUENTOS EN VENTAS", TypeIncome, "4.1"},
	{"4.2", "OTROS INGRESOS", TypeIncome, "4"},
	{AccountOtherIncome, "SOBRANTES DE CAJA", TypeIncome, "4.2"},

	{"5", "GASTOS", TypeExpense, ""},
	{"5.1", "COSTO DE VENTAS", TypeExpense, "5"},
	{AccountFoodCost, "COSTO DE ALIMENTOS", TypeExpense, "5.1"},
	{AccountBeverageCost, "COSTO DE BEBIDAS", TypeExpense, "5.1"},
	{"5.2", "GASTOS OPERACIONALES", TypeExpense, "5"},
	{"5.2.01", "SUELDOS Y SALARIOS", TypeExpense, "5.2"},
	{"5.2.02", "SERVICIOS BÁSICOS", TypeExpense, "5.2"},
	{"5.2.03", "MANTENIMIENTO", TypeExpense, "5.2"},
	{AccountOtherExpenses, "FALTANTES DE CAJA", TypeExpense, "5.2"},
}

var byCode = func() map[string]Account {
	m := make(map[string]Account, len(chart))
	for _, a := range chart {
		m[a.Code] = a
	}
	return m
}()

// ChartOfAccounts devuelve una copia del plan de cuentas.
func ChartOfAccounts() []Account {
	return append([]Account(nil), chart...)
}

// Lookup busca una cuenta por código.
func Lookup(code string) (Account, bool) {
	a, ok := byCode[code]
	return a, ok
}

// AccountName nombre de la cuenta o "" si no está en el plan.
func AccountName(code string) string {
	return byCode[code].Name
}

// HasPrefix indica si code pertenece a la rama prefix (p. ej. "5.1" cubre "5.1.01" pero no "5.10").
func HasPrefix(code, prefix string) bool {
	return code == prefix || strings.HasPrefix(code, prefix+".")
}

// CostAccountFor cuenta de costo que acompaña a la cuenta de ingreso de una línea.
func CostAccountFor(incomeAccount string) string {
	if incomeAccount == AccountBeverageSales {
		return AccountBeverageCost
	}
	return AccountFoodCost
}
