package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"Solids/internal/calc/batch"
	"Solids/internal/calc/solid"

	"github.com/phpdave11/gofpdf"
)

type Input struct {
	Project string        `json:"project"`
	Author  string        `json:"author"`
	Title   string        `json:"title"`
	Notes   string        `json:"notes"`
	Items   []solid.Input `json:"items"`
}

type Handler struct {
	// Now stamps the report date; nil means time.Now.
	Now func() time.Time
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if len(input.Items) > batch.MaxItems {
		http.Error(w, "Too many items", http.StatusBadRequest)
		return
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	var buf bytes.Buffer
	if err := Write(&buf, input, now()); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"solids-report.pdf\"")
	buf.WriteTo(w)
}

// Write renders the report: a header block, the notes, then one table row per item.
func Write(out io.Writer, input Input, date time.Time) error {
	if input.Title == "" {
		input.Title = "Solids Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; the translator keeps ², ³ and the dash intact.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(input.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Project: %s", input.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", input.Author)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", date.Format("2006-01-02")))
	pdf.Ln(10)
	if input.Notes != "" {
		pdf.MultiCell(0, 6, tr(input.Notes), "", "L", false)
		pdf.Ln(4)
	}

	if len(input.Items) > 0 {
		widths := []float64{10, 35, 60, 37, 48}
		pdf.SetFont("Helvetica", "B", 10)
		for i, head := range []string{"#", "Shape", "Measurements", "Volume", "Surface area"} {
			pdf.CellFormat(widths[i], 7, head, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
		for i, item := range input.Items {
			cells := Row(item)
			pdf.CellFormat(widths[0], 6, fmt.Sprintf("%d", i+1), "1", 0, "R", false, 0, "")
			for j, c := range cells {
				align := "L"
				if j >= 2 {
					align = "R"
				}
				pdf.CellFormat(widths[j+1], 6, tr(c), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	return pdf.Output(out)
}

// Row returns the shape, measurements, volume and area cells of one item.
// A rejected item shows its message in place of the numbers.
func Row(item solid.Input) []string {
	shape := string(item.Shape)
	if f, ok := solid.Lookup(item.Shape); ok {
		shape = f.Label
	}
	measures := describe(item)

	// The mode is ignored: the report always shows both numbers.
	res, _, err := solid.Evaluate(solid.Input{Shape: item.Shape, Values: item.Values, Strict: item.Strict})
	if err != nil {
		return []string{shape, measures, solid.Message(err), ""}
	}
	return []string{
		shape,
		measures,
		solid.Format(res.Volume) + " units³",
		solid.Format(res.SurfaceArea) + " units²",
	}
}

func describe(item solid.Input) string {
	f, ok := solid.Lookup(item.Shape)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(f.Fields))
	for _, fld := range f.Fields {
		v := strings.TrimSpace(item.Values[fld.Name])
		if v == "" {
			v = "—"
		}
		parts = append(parts, fld.Name+"="+v)
	}
	return strings.Join(parts, ", ")
}
