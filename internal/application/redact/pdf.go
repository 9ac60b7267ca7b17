package redact

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin  = 20.0
	lineHeight  = 7.0
	titleHeight = 12.0
	labelWidth  = 50.0
)

// RenderPDF writes doc as a single-column A4 PDF. Layout is plain on purpose:
// title, then label/value rows, then any long text block.
func RenderPDF(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetSubject(doc.Subject, true)
	pdf.SetCreator("hirepath", true)
	if !doc.CreatedAt.IsZero() {
		pdf.SetCreationDate(doc.CreatedAt)
		pdf.SetModificationDate(doc.CreatedAt)
	}

	// Core fonts are cp1252; translate UTF-8 input.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, titleHeight, tr(doc.Title), "", 1, "L", false, 0, "")
	pdf.Ln(lineHeight / 2)

	for _, f := range doc.Fields {
		if f.Long {
			pdf.Ln(lineHeight / 2)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.CellFormat(0, lineHeight, tr(f.Label), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, lineHeight-1, tr(f.Value), "", "L", false)
			continue
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(labelWidth, lineHeight, tr(f.Label+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, lineHeight, tr(f.Value), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
