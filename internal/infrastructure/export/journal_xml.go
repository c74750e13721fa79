// Package export serializa el libro diario a XML para contabilidad externa.
package export

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/pos-backoffice/internal/application/accounting"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

const journalNamespace = "urn:pos-backoffice:journal:1"

// XMLJournalExporter implementa accounting.JournalExporter con etree.
//
//	<journal xmlns="..." generatedAt="..." entries="N">
//	  <entry number="AST-000001" date="2026-03-01" type="sale" status="active">
//	    <description>...</description>
//	    <reference type="order" id="..."/>
//	    <line account="1.1.01" name="Caja" debit="50000.00" credit="0.00"/>
//	    <totals debit="..." credit="..."/>
//	  </entry>
//	</journal>
type XMLJournalExporter struct {
	now func() time.Time
}

// NewXMLJournalExporter construye el exportador.
func NewXMLJournalExporter() *XMLJournalExporter {
	return &XMLJournalExporter{now: time.Now}
}

// ExportJournal serializa los asientos en el orden recibido.
func (x *XMLJournalExporter) ExportJournal(entries []*entity.LedgerEntry) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("journal")
	root.CreateAttr("xmlns", journalNamespace)
	root.CreateAttr("generatedAt", x.now().UTC().Format(time.RFC3339))
	root.CreateAttr("entries", fmt.Sprintf("%d", len(entries)))

	for _, e := range entries {
		if e == nil {
			continue
		}
		el := root.CreateElement("entry")
		el.CreateAttr("number", e.EntryNumber)
		el.CreateAttr("date", e.Date.Format("2006-01-02"))
		el.CreateAttr("type", e.Type)
		el.CreateAttr("status", e.Status)
		el.CreateElement("description").SetText(e.Description)

		if e.ReferenceType != "" {
			ref := el.CreateElement("reference")
			ref.CreateAttr("type", e.ReferenceType)
			ref.CreateAttr("id", e.ReferenceID)
		}
		for _, l := range e.Lines {
			line := el.CreateElement("line")
			line.CreateAttr("account", l.AccountCode)
			line.CreateAttr("name", l.AccountName)
			line.CreateAttr("debit", l.Debit.StringFixed(2))
			line.CreateAttr("credit", l.Credit.StringFixed(2))
		}
		totals := el.CreateElement("totals")
		totals.CreateAttr("debit", e.TotalDebit.StringFixed(2))
		totals.CreateAttr("credit", e.TotalCredit.StringFixed(2))

		if e.Status == entity.EntryVoid {
			void := el.CreateElement("void")
			void.CreateAttr("by", e.VoidedBy)
			if e.VoidedAt != nil {
				void.CreateAttr("at", e.VoidedAt.UTC().Format(time.RFC3339))
			}
			void.SetText(e.VoidReason)
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("export: serializar diario: %w", err)
	}
	return out, nil
}

var _ accounting.JournalExporter = (*XMLJournalExporter)(nil)
