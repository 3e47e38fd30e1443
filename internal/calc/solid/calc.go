package solid

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrInvalidInput    = errors.New("solid: invalid input")
	ErrIncompleteInput = errors.New("solid: incomplete input")
	ErrUnknownMode     = errors.New("solid: unknown mode")
)

// Values maps a measurement field name to its number. A missing key is absent.
type Values map[string]float64

// Get reads a field for use in a formula: absent and NaN read as 0.
func (v Values) Get(name string) float64 {
	x, ok := v[name]
	if !ok || math.IsNaN(x) {
		return 0
	}
	return x
}

func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

type Result struct {
	Volume      float64
	SurfaceArea float64
}

// Compute evaluates the volume and surface area of shape. Any negative value
// rejects the whole request. An unknown shape yields NaN for both numbers.
func Compute(shape Shape, values Values) (Result, error) {
	if err := validate(values); err != nil {
		return Result{}, err
	}
	f, ok := formulas[shape]
	if !ok {
		return Result{Volume: math.NaN(), SurfaceArea: math.NaN()}, nil
	}
	return Result{Volume: f.Volume(values), SurfaceArea: f.Area(values)}, nil
}

// Require reports the fields shape reads that are absent from values.
// Unknown shapes have no required fields.
func Require(shape Shape, values Values) error {
	f, ok := formulas[shape]
	if !ok {
		return nil
	}
	var missing []string
	for _, fld := range f.Fields {
		if !values.Has(fld.Name) {
			missing = append(missing, fld.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteInput, strings.Join(missing, ", "))
	}
	return nil
}

func validate(values Values) error {
	names := make([]string, 0, len(values))
	for name, x := range values {
		if x < 0 {
			names = append(names, name)
		}
	}
	if len(names) > 0 {
		sort.Strings(names)
		return fmt.Errorf("%w: negative %s", ErrInvalidInput, strings.Join(names, ", "))
	}
	return nil
}

// ParseValues turns raw form text into Values. Blank text leaves the field
// absent; text that is not a number rejects the request. Numbers too large
// for a float64 become infinities.
func ParseValues(raw map[string]string) (Values, error) {
	out := make(Values, len(raw))
	for name, text := range raw {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		x, err := strconv.ParseFloat(text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("%w: %s is not a number", ErrInvalidInput, name)
		}
		out[name] = x
	}
	return out, nil
}
