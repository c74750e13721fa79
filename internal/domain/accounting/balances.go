package accounting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// Balance acumulado de una cuenta.
type Balance struct {
	AccountCode string
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// DebitBalance saldo con naturaleza débito (activos, gastos).
func (b Balance) DebitBalance() decimal.Decimal { return b.Debit.Sub(b.Credit) }

// CreditBalance saldo con naturaleza crédito (pasivos, patrimonio, ingresos).
func (b Balance) CreditBalance() decimal.Decimal { return b.Credit.Sub(b.Debit) }

// Balances acumula por cuenta las líneas de los asientos activos dentro de [from, to].
// from/to nulos no limitan.
func Balances(entries []*entity.LedgerEntry, from, to *time.Time) []Balance {
	acc := map[string]*Balance{}
	for _, e := range entries {
		if e.Status != entity.EntryActive || !InRange(e.Date, from, to) {
			continue
		}
		for _, l := range e.Lines {
			b, ok := acc[l.AccountCode]
			if !ok {
				name := l.AccountName
				if name == "" {
					name = AccountName(l.AccountCode)
				}
				b = &Balance{AccountCode: l.AccountCode, AccountName: name}
				acc[l.AccountCode] = b
			}
			b.Debit = b.Debit.Add(l.Debit)
			b.Credit = b.Credit.Add(l.Credit)
		}
	}
	out := make([]Balance, 0, len(acc))
	for _, b := range acc {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out
}

// SumByPrefix suma débitos y créditos de las cuentas de la rama prefix.
func SumByPrefix(balances []Balance, prefix string) (debit, credit decimal.Decimal) {
	for _, b := range balances {
		if HasPrefix(b.AccountCode, prefix) {
			debit = debit.Add(b.Debit)
			credit = credit.Add(b.Credit)
		}
	}
	return debit, credit
}

// InRange indica si t cae en [from, to]; los extremos nulos no limitan.
func InRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// EndOfDay último instante del día de t, para rangos de fecha inclusivos.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
