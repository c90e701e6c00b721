package render

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/adpopescu/panex-api/internal/domain/fiscal"
)

// XMLRenderer writes invoice and receipt batches as XML documents with the
// field set the accounting import expects.
type XMLRenderer struct{}

// NewXMLRenderer builds the renderer.
func NewXMLRenderer() *XMLRenderer { return &XMLRenderer{} }

// RenderInvoices writes one <Facturi> document with a <Factura> per order.
func (r *XMLRenderer) RenderInvoices(date string, seq int, docs []fiscal.InvoiceDocument) (string, []byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("Facturi")
	root.CreateAttr("data", date)
	root.CreateAttr("secventa", fmt.Sprintf("%d", seq))

	for i := range docs {
		appendInvoice(root, &docs[i])
	}

	doc.Indent(2)
	content, err := doc.WriteToBytes()
	if err != nil {
		return "", nil, fmt.Errorf("write invoice xml: %w", err)
	}
	return exportFileName("facturi", date, seq, "xml"), content, nil
}

func appendInvoice(root *etree.Element, d *fiscal.InvoiceDocument) {
	f := root.CreateElement("Factura")
	f.CreateElement("Numar").SetText(d.Number)
	f.CreateElement("Data").SetText(d.Date)
	f.CreateElement("Moneda").SetText(d.Currency)

	sup := f.CreateElement("Furnizor")
	sup.CreateElement("Nume").SetText(d.SupplierName)
	sup.CreateElement("CIF").SetText(d.SupplierCIF)
	sup.CreateElement("Adresa").SetText(d.SupplierAddress)

	cl := f.CreateElement("Client")
	cl.CreateElement("Nume").SetText(d.ClientName)
	cl.CreateElement("CIF").SetText(d.ClientCIF)
	cl.CreateElement("Adresa").SetText(d.ClientAddress)
	cl.CreateElement("ContAnalitic").SetText(d.ClientAccount)

	lines := f.CreateElement("Linii")
	for _, l := range d.Lines {
		el := lines.CreateElement("Linie")
		if l.IsWeight {
			el.CreateAttr("tip", "greutate")
		}
		el.CreateElement("Descriere").SetText(l.Description)
		el.CreateElement("UM").SetText(l.Unit)
		el.CreateElement("Cantitate").SetText(l.Quantity.StringFixed(3))
		if !l.IsWeight {
			el.CreateElement("PretUnitar").SetText(l.UnitPrice.StringFixed(4))
			el.CreateElement("Valoare").SetText(l.Value.StringFixed(2))
			el.CreateElement("CotaTVA").SetText(l.VATRate.String())
			el.CreateElement("TVA").SetText(l.VATAmount.StringFixed(2))
		}
	}

	tot := f.CreateElement("Totaluri")
	tot.CreateElement("Valoare").SetText(d.Total.StringFixed(2))
	tot.CreateElement("TVA").SetText(d.TotalVAT.StringFixed(2))
	tot.CreateElement("Total").SetText(d.TotalWithVAT.StringFixed(2))
}

// RenderReceipts writes one <Chitante> document with a <Chitanta> per order.
func (r *XMLRenderer) RenderReceipts(date string, seq int, docs []fiscal.ReceiptDocument) (string, []byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("Chitante")
	root.CreateAttr("data", date)
	root.CreateAttr("secventa", fmt.Sprintf("%d", seq))

	for _, d := range docs {
		c := root.CreateElement("Chitanta")
		c.CreateElement("Data").SetText(d.Date)
		c.CreateElement("Cod").SetText(d.SequenceCode)
		c.CreateElement("Total").SetText(d.TotalWithVAT.StringFixed(2))
		c.CreateElement("ContCasa").SetText(d.CashAccountCode)
		c.CreateElement("ContClient").SetText(d.ClientAccount)
		c.CreateElement("NumarFactura").SetText(d.InvoiceNumber)
	}

	doc.Indent(2)
	content, err := doc.WriteToBytes()
	if err != nil {
		return "", nil, fmt.Errorf("write receipt xml: %w", err)
	}
	return exportFileName("chitante", date, seq, "xml"), content, nil
}
