package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"Solids/internal/calc/batch"
	"Solids/internal/calc/solid"

	"github.com/xuri/excelize/v2"
)

const MaxUploadSize = 5 << 20 // 5MB

type Handler struct{}

// Solids reads the first sheet of an uploaded workbook. The header row names
// the columns: "shape", optional "mode", then one column per measurement
// field (s, r, h, ...). Every following non-empty row is one calculation;
// result indexes are sheet row numbers.
func (h *Handler) Solids(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	items, err := ReadItems(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := batch.SolidBatchResult{Results: make([]batch.ItemResult, 0, len(items))}
	for _, it := range items {
		ir := batch.CalculateItem(it.Row, it.Input)
		if ir.Error != "" {
			res.Failed++
		}
		res.Results = append(res.Results, ir)
	}
	res.Count = len(res.Results)

	if r.URL.Query().Get("format") == "xlsx" {
		out, err := WriteResults(items, res.Results)
		if err != nil {
			http.Error(w, "Export error", http.StatusInternalServerError)
			return
		}
		defer out.Close()
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=\"solids.xlsx\"")
		out.Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// Item is one parsed spreadsheet row. Row is 1-based as shown in the sheet.
type Item struct {
	Row   int
	Input solid.Input
}

func ReadItems(rd io.Reader) ([]Item, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return nil, fmt.Errorf("invalid file")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		return nil, fmt.Errorf("empty sheet")
	}

	header := make([]string, len(rows[0]))
	shapeCol, modeCol := -1, -1
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		header[i] = name
		switch strings.ToLower(name) {
		case "shape":
			shapeCol = i
		case "mode":
			modeCol = i
		}
	}
	if shapeCol < 0 {
		return nil, fmt.Errorf("missing shape column")
	}

	var items []Item
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		items = append(items, Item{Row: i + 1, Input: parseRow(header, shapeCol, modeCol, row)})
	}
	if len(items) > batch.MaxItems {
		return nil, fmt.Errorf("too many rows: %d > %d", len(items), batch.MaxItems)
	}
	return items, nil
}

func parseRow(header []string, shapeCol, modeCol int, row []string) solid.Input {
	in := solid.Input{Values: solid.RawValues{}}
	for i, name := range header {
		if name == "" {
			continue
		}
		cell := ""
		if i < len(row) {
			cell = strings.TrimSpace(row[i])
		}
		switch i {
		case shapeCol:
			in.Shape = solid.Shape(strings.ToLower(cell))
		case modeCol:
			in.Mode = strings.ToLower(cell)
		default:
			in.Values[name] = cell
		}
	}
	return in
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteResults builds a workbook with one line per imported row.
func WriteResults(items []Item, results []batch.ItemResult) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"Row", "Shape", "Mode", "Volume", "Surface area", "Message"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, res := range results {
		line := []interface{}{items[i].Row, string(items[i].Input.Shape), "", "", "", res.Error}
		if o := res.Outcome; o != nil {
			line[2] = string(o.Mode)
			if o.Volume != nil {
				line[3] = *o.Volume
			}
			if o.SurfaceArea != nil {
				line[4] = *o.SurfaceArea
			}
			if !o.Computed() {
				line[5] = o.Message
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return nil, err
		}
	}
	return f, nil
}
