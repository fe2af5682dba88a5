package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/hemingto/boombox-11.0-sub001/internal/packing"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Unit", 14}, {"Item", 52}, {"X", 18}, {"Y", 18}, {"Z", 18},
	{"W x D x H (in)", 40}, {"cu ft", 20},
}

// WritePDF writes est as a printable A4 manifest.
func WritePDF(w io.Writer, est packing.Estimate) error {
	if err := buildManifestPDF(est).Output(w); err != nil {
		return fmt.Errorf("render manifest PDF: %w", err)
	}
	return nil
}

func buildManifestPDF(est packing.Estimate) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; item names are user text in UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Storage packing manifest", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Storage packing manifest")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	summary := []string{
		fmt.Sprintf("Total volume: %.2f cu ft", est.TotalCubicFeet),
		fmt.Sprintf("Units recommended: %d (fill factor %.2f)", est.UnitsRecommended, est.FillFactor),
		fmt.Sprintf("Containers used in layout: %d, last one %.1f%% full", est.ContainerCount, est.LastContainerFillPercent),
		fmt.Sprintf("Container: %g x %g x %g in (%.0f cu ft)", est.Container.Width, est.Container.Depth, est.Container.Height, est.Container.CubicFeet()),
	}
	for _, line := range summary {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, p := range est.PackedItems {
		name := p.Name
		if name == "" {
			name = p.Key
		}
		cells := []string{
			fmt.Sprintf("%d", p.ContainerIndex+1),
			tr(name),
			fmt.Sprintf("%g", p.X),
			fmt.Sprintf("%g", p.Y),
			fmt.Sprintf("%g", p.Z),
			fmt.Sprintf("%g x %g x %g", p.Width, p.Depth, p.Height),
			fmt.Sprintf("%.2f", p.CubicFeet()),
		}
		for i, col := range pdfColumns {
			align := "R"
			if i == 1 {
				align = "L"
			}
			pdf.CellFormat(col.width, 6, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
