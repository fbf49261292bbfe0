package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/analysis"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
	"github.com/go-pdf/fpdf"
)

const (
	ReportTitle   = "LLM Pedigree Builder Report"
	ReportWarning = "Warning: Not medical advice. For clinician review only."
)

const (
	pdfMargin     = 15.0
	pdfLineHeight = 5.0
	pdfQRSize     = 50.0
)

// ReportParams holds the content of a PDF report. Result may be nil when no
// analysis was run.
type ReportParams struct {
	Pedigree pedigree.Pedigree
	Result   *analysis.Result
	Notes    string
	// IncludeQR embeds a QR code of the pedigree so the report can be scanned
	// back into the service.
	IncludeQR bool
}

// WritePDFReport writes a clinician report to w: title and warning, a
// summary line per person, the relationships, the risk analysis and free
// text notes.
func WritePDFReport(w io.Writer, params ReportParams) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(ReportTitle, true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, tr(ReportTitle))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(160, 0, 0)
	pdf.Cell(0, 6, tr(ReportWarning))
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(10)

	if params.IncludeQR {
		png, err := ToQRCode(params.Pedigree, DefaultQRSize)
		if err != nil {
			return err
		}
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("pedigree-qr", opts, bytes.NewReader(png))
		y := pdf.GetY()
		pdf.ImageOptions("pedigree-qr", pdfMargin, y, pdfQRSize, pdfQRSize, false, opts, 0, "")
		pdf.SetY(y + pdfQRSize + 4)
	}

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, tr(title))
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 9)
	}
	line := func(text string) {
		pdf.MultiCell(0, pdfLineHeight, tr(text), "", "L", false)
	}

	section("People Summary")
	if len(params.Pedigree.People) == 0 {
		line("No family members yet")
	}
	for _, person := range params.Pedigree.People {
		line(PersonSummary(person))
	}

	if len(params.Pedigree.Relationships) > 0 {
		pdf.Ln(3)
		section("Relationships")
		for _, rel := range params.Pedigree.Relationships {
			line(relationshipSummary(params.Pedigree, rel))
		}
	}

	if params.Result != nil {
		pdf.Ln(3)
		section("Risk Analysis")
		line(fmt.Sprintf("Inbreeding coefficient (approx): %v", params.Result.InbreedingCoefficient))
		line(fmt.Sprintf("Risk level: %s", params.Result.RiskLevel))
		for _, flag := range params.Result.InheritanceFlags {
			line("- " + flag)
		}
		for _, rec := range params.Result.Recommendations {
			line("* " + rec)
		}
	}

	if strings.TrimSpace(params.Notes) != "" {
		pdf.Ln(3)
		section("Notes")
		for _, note := range strings.Split(params.Notes, "\n") {
			line(note)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render PDF report: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return nil
}

// PersonSummary is the one-line description of a person used in reports.
func PersonSummary(person pedigree.Person) string {
	conditions := "None"
	if len(person.Conditions) > 0 {
		conditions = strings.Join(person.Conditions, ", ")
	}
	return fmt.Sprintf("#%d %s (%s) DOB: %s Conditions: %s",
		person.ID, person.Name, person.Gender, person.DOB, conditions)
}

func relationshipSummary(p pedigree.Pedigree, rel pedigree.Relationship) string {
	name := func(id int64) string {
		if person, ok := p.Person(id); ok && person.Name != "" {
			return person.Name
		}
		return fmt.Sprintf("#%d", id)
	}
	return fmt.Sprintf("%s -[%s]-> %s", name(rel.From), rel.Type, name(rel.To))
}
