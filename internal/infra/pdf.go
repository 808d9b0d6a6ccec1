package infra

// pdf.go: sale receipt generation using go-pdf/fpdf.
// Receipt-size page with business header, sale number and date, client,
// line table (description, quantity, subtotal), bold total and payment method.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"barberia/internal/model"

	"github.com/go-pdf/fpdf"
)

// EscribirComprobanteVenta renders the receipt of v into w.
func EscribirComprobanteVenta(w io.Writer, v *model.Venta, negocio string) error {
	alto := 80.0 + 5*float64(len(v.Items))
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: alto},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr(negocio), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante de venta", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Venta N° %06d", v.ID)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, v.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if v.Cliente != nil {
		pdf.CellFormat(contentW, 4, tr("Cliente: "+v.Cliente.NombreCompleto()), "", 1, "L", false, 0, "")
	}
	if v.Empleado != nil {
		pdf.CellFormat(contentW, 4, tr("Atendió: "+v.Empleado.NombreCompleto()), "", 1, "L", false, 0, "")
	}
	if v.Estado == model.VentaAnulada {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(contentW, 5, "ANULADA", "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Detalle", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range v.Items {
		nombre := []rune(item.Descripcion)
		if len(nombre) > 24 {
			nombre = append(nombre[:23], '.')
		}
		pdf.CellFormat(col1, 5, tr(string(nombre)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+v.Total.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tr("Pago: "+v.MetodoPago), "", 1, "L", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su visita!"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

// GuardarComprobanteVenta writes the receipt to dir/venta_{id}.pdf and returns
// the file path.
func GuardarComprobanteVenta(v *model.Venta, dir, negocio string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("venta_%d.pdf", v.ID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("pdf: create file: %w", err)
	}
	if err := EscribirComprobanteVenta(f, v, negocio); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, f.Close()
}
