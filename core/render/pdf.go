// Package render: PDF renderer.
// Prints a pen as a PDF using gofpdf: title block, description as plain
// text, then each editor in a shaded monospace block.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/penpipe/core"
)

// PDFRenderer renders a pen as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render lays out pen on A4 pages and returns the PDF bytes.
func (r *PDFRenderer) Render(pen *core.Pen) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	// Core fonts are cp1252; translate UTF-8 text before writing it.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, tr(pen.Title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	if pen.Author != nil {
		pdf.MultiCell(0, 5, tr("By "+pen.Author.Name+" ("+pen.Author.URL+")"), "", "L", false)
	}
	pdf.MultiCell(0, 5, tr("Source: "+pen.PenURL), "", "L", false)
	if len(pen.Tags) > 0 {
		pdf.MultiCell(0, 5, tr("Tags: "+strings.Join(pen.Tags, ", ")), "", "L", false)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	if strings.TrimSpace(pen.Description) != "" {
		desc, err := DescriptionMarkdown(pen.Description)
		if err != nil {
			return nil, err
		}
		for _, line := range strings.Split(desc, "\n") {
			if strings.TrimSpace(line) == "" {
				pdf.Ln(3)
				continue
			}
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(line)), "", "L", false)
		}
		pdf.Ln(4)
	}

	for _, e := range Editors(pen) {
		title := e.Name
		if e.Language() != strings.ToLower(e.Name) {
			title += " (" + e.Language() + ")"
		}
		renderHeading(pdf, tr(title))

		pdf.SetFont("Courier", "", 9)
		pdf.SetFillColor(245, 245, 245)
		for _, line := range strings.Split(strings.TrimRight(e.Code, "\n"), "\n") {
			pdf.MultiCell(0, 4.5, tr(strings.ReplaceAll(line, "\t", "    ")), "", "L", true)
		}
		pdf.Ln(4)
	}

	if len(pen.Resources) > 0 {
		renderHeading(pdf, "Resources")
		pdf.SetFont("Helvetica", "", 10)
		for _, res := range pen.Resources {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("• %s: %s", res.Type, res.URL)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func renderHeading(pdf *gofpdf.Fpdf, text string) {
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(0, 7, text, "", "L", false)
	pdf.Ln(2)
}

var (
	italicRegex     = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCodeRegex = regexp.MustCompile("`([^`]+)`")
	linkRegex       = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
)

// cleanInlineMarkdown strips inline Markdown formatting for PDF text. Links
// keep their target in parentheses.
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italicRegex.ReplaceAllString(text, " $1 ")
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = linkRegex.ReplaceAllString(text, "$1 ($2)")
	return strings.TrimSpace(text)
}
