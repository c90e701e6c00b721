package render_test

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adpopescu/panex-api/internal/domain/fiscal"
	"github.com/adpopescu/panex-api/internal/infrastructure/render"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRenderInvoices_StructureAndFilename(t *testing.T) {
	r := render.NewRenderer()
	doc := fiscal.InvoiceDocument{
		SupplierName: "Panificatie Test SRL",
		SupplierCIF:  "RO1234567",
		ClientName:   "Magazin Central",
		Number:       "20260209-3",
		Date:         "2026-02-09",
		Currency:     "RON",
		Lines: []fiscal.InvoiceLine{
			{Description: "Paine alba", Unit: "buc", Quantity: dec("8"),
				UnitPrice: dec("2.50"), Value: dec("20"), VATRate: dec("11"), VATAmount: dec("2.20")},
			{Description: "Paine alba (greutate)", Unit: "kg", Quantity: dec("4"), IsWeight: true},
		},
		Total: dec("20"), TotalVAT: dec("2.20"), TotalWithVAT: dec("22.20"),
	}

	filename, content, err := r.RenderInvoices("2026-02-09", 3, []fiscal.InvoiceDocument{doc})
	require.NoError(t, err)
	assert.Equal(t, "facturi_20260209_3_export.xml", filename)

	parsed := etree.NewDocument()
	require.NoError(t, parsed.ReadFromBytes(content))

	root := parsed.SelectElement("Facturi")
	require.NotNil(t, root)
	assert.Equal(t, "3", root.SelectAttrValue("secventa", ""))

	f := root.SelectElement("Factura")
	require.NotNil(t, f)
	assert.Equal(t, "20260209-3", f.SelectElement("Numar").Text())

	lines := f.SelectElement("Linii").SelectElements("Linie")
	require.Len(t, lines, 2)
	assert.Equal(t, "2.5000", lines[0].SelectElement("PretUnitar").Text())
	assert.Equal(t, "greutate", lines[1].SelectAttrValue("tip", ""))
	assert.Nil(t, lines[1].SelectElement("PretUnitar"), "weight lines carry no amounts")

	assert.Equal(t, "22.20", f.SelectElement("Totaluri").SelectElement("Total").Text())
}

func TestRenderReceipts(t *testing.T) {
	r := render.NewRenderer()
	filename, content, err := r.RenderReceipts("2026-02-09", 1, []fiscal.ReceiptDocument{{
		Date:            "2026-02-09",
		SequenceCode:    "20260209-1",
		TotalWithVAT:    dec("11.10"),
		CashAccountCode: "5311",
		ClientAccount:   "4111.01",
		InvoiceNumber:   "FAC-000028",
	}})
	require.NoError(t, err)
	assert.Equal(t, "chitante_20260209_1_export.xml", filename)

	parsed := etree.NewDocument()
	require.NoError(t, parsed.ReadFromBytes(content))
	c := parsed.SelectElement("Chitante").SelectElement("Chitanta")
	require.NotNil(t, c)
	assert.Equal(t, "11.10", c.SelectElement("Total").Text())
	assert.Equal(t, "FAC-000028", c.SelectElement("NumarFactura").Text())
}

func TestRenderProduction_CSV(t *testing.T) {
	r := render.NewRenderer()
	filename, content, err := r.RenderProduction("2026-02-09", 2, []fiscal.ProductionRow{
		{Seq: 1, Date: "2026-02-09", Warehouse: "Sectia Panificatie", ProductCode: "PF01",
			Description: "Paine alba", Lot: 6, Unit: "buc",
			Quantity: dec("4"), UnitPrice: dec("2.50"), Value: dec("10")},
	})
	require.NoError(t, err)
	assert.Equal(t, "productie_20260209_2_export.csv", filename)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "nr;data;gestiune;cod_produs;denumire;lot;um;cantitate;pret;valoare", lines[0])
	assert.Equal(t, "1;2026-02-09;Sectia Panificatie;PF01;Paine alba;6;buc;4.000;2.5000;10.00", lines[1])
}
