// Package receipt renders an immutable snapshot of a committed order into a
// PDF document. Rendering is a best-effort post-commit step: failures are
// reported to the caller but never undo the order.
package receipt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/SamuelCev/KicksBackend-sub000/internal/domain"
)

// DocumentHandle identifies a rendered receipt on disk.
type DocumentHandle struct {
	ID   string
	Path string
}

type PDFRenderer struct {
	outputDir string
}

func NewPDFRenderer(outputDir string) *PDFRenderer {
	return &PDFRenderer{outputDir: outputDir}
}

// Render writes the receipt for the given order and returns its handle. The
// order snapshot is already frozen; nothing here re-reads live product data.
func (r *PDFRenderer) Render(ctx context.Context, order *domain.Order) (*DocumentHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipt directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	translator := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, translator("Kicks — Recibo de compra"))
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, translator(fmt.Sprintf("Orden #%d", order.ID)))
	pdf.Ln(6)
	pdf.Cell(0, 6, translator(fmt.Sprintf("Fecha: %s", order.CreatedAt.Format("2006-01-02 15:04"))))
	pdf.Ln(6)
	pdf.Cell(0, 6, translator(fmt.Sprintf("Cliente: %s", order.ShippingName)))
	pdf.Ln(6)
	pdf.Cell(0, 6, translator(fmt.Sprintf("Envío: %s, %s, %s (%s)",
		order.ShippingAddress, order.City, order.Country, order.PostalCode)))
	pdf.Ln(6)
	pdf.Cell(0, 6, translator(fmt.Sprintf("Método de pago: %s", order.PaymentMethod)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(30, 7, "Producto", "1", 0, "", false, 0, "")
	pdf.CellFormat(50, 7, translator("Categoría"), "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Cantidad", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 7, "Precio unitario", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range order.Items {
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", item.ProductID), "1", 0, "", false, 0, "")
		pdf.CellFormat(50, 7, translator(item.Category), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 7, "$"+item.UnitPriceAtPurchase.StringFixed(2), "1", 1, "", false, 0, "")
	}

	pdf.Ln(6)
	pdf.Cell(0, 6, "Subtotal: $"+order.Subtotal.StringFixed(2))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Impuestos: $"+order.TaxAmount.StringFixed(2))
	pdf.Ln(6)
	pdf.Cell(0, 6, translator("Envío: $"+order.ShippingAmount.StringFixed(2)))
	pdf.Ln(6)
	if order.CouponCode != "" {
		pdf.Cell(0, 6, translator(fmt.Sprintf("Cupón aplicado: %s", order.CouponCode)))
		pdf.Ln(6)
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: $"+order.Total.StringFixed(2))

	handle := &DocumentHandle{
		ID:   uuid.New().String(),
		Path: filepath.Join(r.outputDir, fmt.Sprintf("recibo-%d.pdf", order.ID)),
	}

	if err := pdf.OutputFileAndClose(handle.Path); err != nil {
		return nil, fmt.Errorf("write receipt pdf: %w", err)
	}

	return handle, nil
}
