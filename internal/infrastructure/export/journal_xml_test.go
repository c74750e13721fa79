package export

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

func TestExportJournal(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	x := &XMLJournalExporter{now: func() time.Time { return fixed }}
	amount := decimal.NewFromInt(50000)
	voidedAt := fixed.Add(time.Hour)

	entries := []*entity.LedgerEntry{
		{
			EntryNumber: "AST-000001", Date: fixed, Type: entity.EntrySale, Status: entity.EntryActive,
			Description: "Venta ORD-20260301-0001", ReferenceType: entity.RefOrder, ReferenceID: "o1",
			Lines: []entity.EntryLine{
				{AccountCode: "1.1.01", AccountName: "Caja", Debit: amount, Credit: decimal.Zero},
				{AccountCode: "4.1.01", AccountName: "Ventas comida", Debit: decimal.Zero, Credit: amount},
			},
			TotalDebit: amount, TotalCredit: amount,
		},
		{
			EntryNumber: "AST-000002", Date: fixed, Type: entity.EntryManual, Status: entity.EntryVoid,
			Description: "Ajuste", VoidedBy: "acc", VoidedAt: &voidedAt, VoidReason: "error de digitación",
			TotalDebit: amount, TotalCredit: amount,
		},
	}

	out, err := x.ExportJournal(entries)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.SelectElement("journal")
	require.NotNil(t, root)
	assert.Equal(t, "2", root.SelectAttrValue("entries", ""))
	assert.Equal(t, "2026-03-01T12:00:00Z", root.SelectAttrValue("generatedAt", ""))

	got := root.SelectElements("entry")
	require.Len(t, got, 2)
	assert.Equal(t, "AST-000001", got[0].SelectAttrValue("number", ""))
	lines := got[0].SelectElements("line")
	require.Len(t, lines, 2)
	assert.Equal(t, "50000.00", lines[0].SelectAttrValue("debit", ""))
	assert.Equal(t, "order", got[0].SelectElement("reference").SelectAttrValue("type", ""))

	void := got[1].SelectElement("void")
	require.NotNil(t, void)
	assert.Equal(t, "error de digitación", void.Text())
}

func TestExportJournal_Vacio(t *testing.T) {
	out, err := NewXMLJournalExporter().ExportJournal(nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), `entries="0"`)
}
