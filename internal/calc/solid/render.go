package solid

import (
	"errors"
	"fmt"
	"html"
	"math"
	"math/big"
	"strings"
)

type Mode string

const (
	ModeVolume  Mode = "volume"
	ModeSurface Mode = "surface"
	ModeBoth    Mode = "both"
)

const (
	MsgInvalid    = "Enter valid non-negative numbers."
	MsgIncomplete = "Fill in every measurement for this shape."
	MsgNoVolume   = "Unable to compute volume with given inputs."
	MsgNoSurface  = "Unable to compute surface area with given inputs."
	MsgNoResult   = "Unable to compute with given inputs."
)

const (
	placeholder  = "—"
	volumeUnit   = "units³"
	areaUnit     = "units²"
	volumeLabel  = "Volume"
	surfaceLabel = "Surface area"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.TrimSpace(s)); m {
	case "":
		return ModeVolume, nil
	case ModeVolume, ModeSurface, ModeBoth:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Format renders finite numbers with three decimals and anything else as a dash.
// Exact halfway values round away from zero and negative zero prints as zero.
func Format(x float64) string {
	if !finite(x) {
		return placeholder
	}
	if x == 0 {
		x = 0
	}
	if n, ok := halfway(math.Abs(x)); ok {
		digits := n.String()
		if len(digits) < 4 {
			digits = strings.Repeat("0", 4-len(digits)) + digits
		}
		sign := ""
		if x < 0 {
			sign = "-"
		}
		return sign + digits[:len(digits)-3] + "." + digits[len(digits)-3:]
	}
	return fmt.Sprintf("%.3f", x)
}

// halfway reports whether x·1000 lies exactly between two integers and
// returns the upper one.
func halfway(x float64) (*big.Int, bool) {
	scaled := new(big.Float).SetPrec(128).SetFloat64(x)
	scaled.Mul(scaled, big.NewFloat(1000))
	whole, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(128).Sub(scaled, new(big.Float).SetInt(whole))
	if frac.Cmp(big.NewFloat(0.5)) != 0 {
		return nil, false
	}
	return whole.Add(whole, big.NewInt(1)), true
}

// Line is one labeled number of an Outcome.
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

func (l Line) String() string {
	return fmt.Sprintf("%s: %s %s", l.Label, l.Value, l.Unit)
}

// Outcome is what the caller shows for one calculation: either Lines or Message.
type Outcome struct {
	Shape       Shape    `json:"shape,omitempty"`
	Mode        Mode     `json:"mode"`
	Volume      *float64 `json:"volume,omitempty"`
	SurfaceArea *float64 `json:"surface_area,omitempty"`
	Lines       []Line   `json:"lines,omitempty"`
	Message     string   `json:"message,omitempty"`
}

func (o Outcome) Computed() bool {
	return o.Message == ""
}

// Text returns the display lines joined by newlines, or the message.
func (o Outcome) Text() string {
	if !o.Computed() {
		return o.Message
	}
	parts := make([]string, len(o.Lines))
	for i, l := range o.Lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}

// HTML returns the result fragment shown under the form.
func (o Outcome) HTML() string {
	if !o.Computed() {
		return "<em>" + html.EscapeString(o.Message) + "</em>"
	}
	var b strings.Builder
	for _, l := range o.Lines {
		fmt.Fprintf(&b, "<div><strong>%s:</strong> %s %s</div>",
			html.EscapeString(l.Label), html.EscapeString(l.Value), l.Unit)
	}
	return b.String()
}

// Render selects what mode shows of res. An empty mode renders as volume,
// any other unknown mode renders both numbers.
func Render(mode Mode, res Result) Outcome {
	if mode == "" {
		mode = ModeVolume
	}
	out := Outcome{Mode: mode}
	switch mode {
	case ModeVolume:
		if !finite(res.Volume) {
			out.Message = MsgNoVolume
			return out
		}
		out.Volume = ptr(res.Volume)
		out.Lines = []Line{volumeLine(res.Volume)}
	case ModeSurface:
		if !finite(res.SurfaceArea) {
			out.Message = MsgNoSurface
			return out
		}
		out.SurfaceArea = ptr(res.SurfaceArea)
		out.Lines = []Line{areaLine(res.SurfaceArea)}
	default:
		if !finite(res.Volume) || !finite(res.SurfaceArea) {
			out.Message = MsgNoResult
			return out
		}
		out.Volume = ptr(res.Volume)
		out.SurfaceArea = ptr(res.SurfaceArea)
		out.Lines = []Line{volumeLine(res.Volume), areaLine(res.SurfaceArea)}
	}
	return out
}

// Message maps a calculation error to the text shown to the user.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return MsgInvalid
	case errors.Is(err, ErrIncompleteInput):
		return MsgIncomplete
	case errors.Is(err, ErrUnknownMode):
		return "Unknown computation mode."
	default:
		return "Calculation error"
	}
}

func volumeLine(v float64) Line {
	return Line{Label: volumeLabel, Value: Format(v), Unit: volumeUnit}
}

func areaLine(a float64) Line {
	return Line{Label: surfaceLabel, Value: Format(a), Unit: areaUnit}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func ptr(x float64) *float64 {
	return &x
}
