package solid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// RawValues is the form text of each measurement field. JSON numbers and
// null are accepted too; null is the same as a blank field.
type RawValues map[string]string

func (rv *RawValues) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(RawValues, len(raw))
	for name, msg := range raw {
		msg = bytes.TrimSpace(msg)
		switch {
		case bytes.Equal(msg, []byte("null")):
			out[name] = ""
		case len(msg) > 0 && msg[0] == '"':
			var s string
			if err := json.Unmarshal(msg, &s); err != nil {
				return err
			}
			out[name] = s
		default:
			var f float64
			if err := json.Unmarshal(msg, &f); err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			out[name] = strconv.FormatFloat(f, 'g', -1, 64)
		}
	}
	*rv = out
	return nil
}

type Input struct {
	Shape  Shape     `json:"shape"`
	Mode   string    `json:"mode"`
	Values RawValues `json:"values"`
	Strict bool      `json:"strict"`
}

// Evaluate parses and validates one form submission and computes both numbers.
func Evaluate(in Input) (Result, Mode, error) {
	mode, err := ParseMode(in.Mode)
	if err != nil {
		return Result{}, "", err
	}
	values, err := ParseValues(in.Values)
	if err != nil {
		return Result{}, "", err
	}
	if in.Strict {
		if err := Require(in.Shape, values); err != nil {
			return Result{}, "", err
		}
	}
	res, err := Compute(in.Shape, values)
	if err != nil {
		return Result{}, "", err
	}
	return res, mode, nil
}

// Calculate runs one form submission and renders it for its mode.
func Calculate(in Input) (Outcome, error) {
	res, mode, err := Evaluate(in)
	if err != nil {
		return Outcome{}, err
	}
	out := Render(mode, res)
	out.Shape = in.Shape
	return out, nil
}

type Handler struct{}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(input)
	if err != nil {
		http.Error(w, Message(err), http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(res.HTML()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *Handler) Shapes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Catalog())
}
