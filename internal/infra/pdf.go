package infra

// pdf.go: purchase-order document rendered with go-pdf/fpdf.
// A4 portrait with:
//   - Company header and order number
//   - Supplier block and dates
//   - Item table (product / variation, quantity, unit cost, subtotal)
//   - Bold total and notes
//
// Saved copies go to storagePath/pedido_{id}.pdf.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"redecell/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// PurchaseOrderPDF renders purchase orders for suppliers.
type PurchaseOrderPDF struct {
	storagePath string
	companyName string
}

func NewPurchaseOrderPDF(storagePath, companyName string) *PurchaseOrderPDF {
	return &PurchaseOrderPDF{storagePath: storagePath, companyName: companyName}
}

// Render returns the PDF bytes for po. Items must have Variation.Product preloaded
// for names to show.
func (p *PurchaseOrderPDF) Render(po *model.PurchaseOrder) ([]byte, error) {
	doc := p.build(po)
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the PDF to the storage directory and returns its path.
func (p *PurchaseOrderPDF) Save(po *model.PurchaseOrder) (string, error) {
	if err := os.MkdirAll(p.storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(p.storagePath, fmt.Sprintf("pedido_%s.pdf", po.ID))
	if err := p.build(po).OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func (p *PurchaseOrderPDF) build(po *model.PurchaseOrder) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	// core fonts are cp1252; accents need translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(p.companyName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, tr("Pedido de Compra"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "No "+po.ID.String(), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Supplier / dates ─────────────────────────────────────────────────────
	supplierName := ""
	if po.Supplier != nil {
		supplierName = po.Supplier.Name
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Fornecedor: "+supplierName), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, "Data do pedido: "+po.OrderDate.Format("02/01/2006"), "", 1, "L", false, 0, "")
	if po.ExpectedDeliveryDate != nil {
		pdf.CellFormat(contentW, 6, tr("Previsão de entrega: "+po.ExpectedDeliveryDate.Format("02/01/2006")), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 6, "Status: "+tr(po.Status), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.12
	col3 := contentW * 0.18
	col4 := contentW * 0.18

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 7, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 7, tr("Custo unit."), "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range po.Items {
		name := itemLabel(item)
		if len(name) > 60 {
			name = name[:59] + "..."
		}
		subtotal := item.CostPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		pdf.CellFormat(col1, 6, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "R$ "+item.CostPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "R$ "+subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3, 7, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 7, "R$ "+po.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	if po.Notes != nil && *po.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentW, 5, tr("Observações: "+*po.Notes), "", "L", false)
	}

	return pdf
}

func itemLabel(item model.PurchaseOrderItem) string {
	if item.Variation == nil {
		return item.VariationID.String()
	}
	if item.Variation.Product == nil {
		return item.Variation.Name
	}
	return item.Variation.Product.Name + " - " + item.Variation.Name
}
