package evaluation

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/language"

	"hreval/internal/platform/i18n"
)

const sheetFontFamily = "sheet"

// SheetOptions controls PDF rendering. Without a UTF-8 font file the core
// Helvetica font is used, which cannot draw Japanese, so labels fall back to
// English.
type SheetOptions struct {
	Locale   language.Tag
	FontFile string
}

// RenderSheet writes a one page evaluation sheet as PDF.
func RenderSheet(w io.Writer, row SheetRow, opts SheetOptions) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	family := "Helvetica"
	tr := func(s string) string { return s }
	locale := opts.Locale
	if opts.FontFile != "" {
		pdf.AddUTF8Font(sheetFontFamily, "", opts.FontFile)
		family = sheetFontFamily
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
		locale = language.English
	}
	label := func(key string) string { return tr(i18n.Message(locale, key)) }
	bold := "B"
	if family == sheetFontFamily {
		bold = ""
	}

	ev := row.Evaluation
	sc := ev.Scores

	pdf.AddPage()
	pdf.SetFont(family, bold, 16)
	pdf.Cell(0, 10, label("sheet.title"))
	pdf.Ln(14)

	pdf.SetFont(family, "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("%s: %s", label("sheet.period"), tr(row.PeriodName)))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("%s: %s %s (%s)", label("sheet.employee"), tr(row.EmployeeNumber), tr(row.EmployeeName), tr(row.DepartmentName)))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("%s: %s", label("sheet.grade"), tr(row.JobGrade)))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("%s: %s", label("sheet.status"), tr(ev.Status)))
	pdf.Ln(11)

	pdf.SetFont(family, bold, 11)
	pdf.CellFormat(60, 8, "", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, label("sheet.weight"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, label("sheet.score"), "1", 1, "C", false, 0, "")
	pdf.SetFont(family, "", 11)
	axes := []struct {
		key    string
		weight float64
		score  float64
	}{
		{"sheet.results", row.Weights.Results, sc.Results},
		{"sheet.process", row.Weights.Process, sc.Process},
		{"sheet.growth", row.Weights.Growth, sc.Growth},
	}
	for _, axis := range axes {
		pdf.CellFormat(60, 8, label(axis.key), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.0f%%", axis.weight), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, formatFloat(axis.score), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)
	pdf.Cell(0, 7, fmt.Sprintf("%s: %s", label("sheet.achievement_rate"), FormatRate(sc.AchievementRate)))
	pdf.Ln(7)

	completeKey := "sheet.incomplete"
	rating := "-"
	if sc.Complete {
		completeKey = "sheet.complete"
		rating = string(sc.Rating)
	}
	pdf.SetFont(family, bold, 12)
	pdf.Cell(0, 8, fmt.Sprintf("%s: %s   %s: %s   (%s)", label("sheet.final"), FormatScore(sc.Final, sc.Complete),
		label("sheet.rating"), rating, label(completeKey)))
	pdf.Ln(12)

	if ev.Input.Comment != "" {
		pdf.SetFont(family, "", 11)
		pdf.Cell(0, 7, label("sheet.comment"))
		pdf.Ln(7)
		pdf.MultiCell(0, 6, tr(ev.Input.Comment), "1", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
