package solid

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestCompute_KnownValues(t *testing.T) {
	cases := []struct {
		name   string
		shape  Shape
		values Values
		volume float64
		area   float64
	}{
		{"cube s=2", Cube, Values{"s": 2}, 8, 24},
		{"sphere r=3", Sphere, Values{"r": 3}, 36 * math.Pi, 36 * math.Pi},
		{"cylinder r=1 h=1", Cylinder, Values{"r": 1, "h": 1}, math.Pi, 4 * math.Pi},
		{"cone r=3 h=4", Cone, Values{"r": 3, "h": 4}, 12 * math.Pi, 24 * math.Pi},
		{"rectprism 2x3x4", RectPrism, Values{"l": 2, "w": 3, "h": 4}, 24, 52},
		{"pyramid a=6 h=4", Pyramid, Values{"a": 6, "h": 4}, 48, 36 + 12*5},
		{"triangularprism a=2 L=5", TriangularPrism, Values{"a": 2, "L": 5}, 5 * math.Sqrt(3), 2*math.Sqrt(3) + 30},
		{"torus R=2 r=1", Torus, Values{"R": 2, "r": 1}, 4 * math.Pi * math.Pi, 8 * math.Pi * math.Pi},
		{"hexprism a=1 L=2", HexPrism, Values{"a": 1, "L": 2}, 3 * math.Sqrt(3), 3*math.Sqrt(3) + 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Compute(tc.shape, tc.values)
			require.NoError(t, err)
			assert.InDelta(t, tc.volume, res.Volume, eps)
			assert.InDelta(t, tc.area, res.SurfaceArea, eps)
		})
	}
}

func TestCompute_Ellipsoid(t *testing.T) {
	// Equal axes reduce the area term to 4π·r·p.
	res, err := Compute(Ellipsoid, Values{"a": 2, "b": 2, "c": 2})
	require.NoError(t, err)
	assert.InDelta(t, 4.0/3.0*math.Pi*8, res.Volume, eps)
	assert.InDelta(t, 4*math.Pi*2*thomsenP, res.SurfaceArea, 1e-9)

	res, err = Compute(Ellipsoid, Values{"a": 3, "b": 2, "c": 1})
	require.NoError(t, err)
	assert.InDelta(t, 8*math.Pi, res.Volume, eps)
	assert.InDelta(t, 42.440, res.SurfaceArea, 0.001)
}

func TestCompute_AllZero(t *testing.T) {
	for _, s := range Shapes {
		f, ok := Lookup(s)
		require.True(t, ok, s)
		zeros := Values{}
		for _, fld := range f.Fields {
			zeros[fld.Name] = 0
		}
		for _, values := range []Values{zeros, {}} {
			res, err := Compute(s, values)
			require.NoError(t, err, s)
			assert.Equal(t, 0.0, res.Volume, "volume of %s", s)
			assert.Equal(t, 0.0, res.SurfaceArea, "area of %s", s)
		}
	}
}

func TestCompute_NegativeRejected(t *testing.T) {
	for _, s := range append(Shapes, Shape("dodecahedron")) {
		for _, values := range []Values{
			{"s": -1},
			{"r": 2, "h": -0.001},
			{"a": 1, "b": 1, "c": math.Inf(-1)},
			{"unused": -5, "s": 2},
		} {
			_, err := Compute(s, values)
			assert.True(t, errors.Is(err, ErrInvalidInput), "%s %v: got %v", s, values, err)
		}
	}
}

func TestCompute_UnknownShape(t *testing.T) {
	res, err := Compute(Shape("dodecahedron"), Values{"s": 1})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(res.Volume))
	assert.True(t, math.IsNaN(res.SurfaceArea))
}

func TestCompute_AbsentAndNaNReadAsZero(t *testing.T) {
	res, err := Compute(Cylinder, Values{"r": 2})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Volume)
	assert.InDelta(t, 8*math.Pi, res.SurfaceArea, eps)

	res, err = Compute(Cube, Values{"s": math.NaN()})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Volume)
}

func TestCompute_InfiniteInputIsNotFinite(t *testing.T) {
	res, err := Compute(Cylinder, Values{"r": math.Inf(1), "h": 0})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(res.Volume))
	assert.True(t, math.IsInf(res.SurfaceArea, 1))
}

func TestRequire(t *testing.T) {
	require.NoError(t, Require(Cylinder, Values{"r": 1, "h": 0}))
	require.NoError(t, Require(Shape("blob"), Values{}))

	err := Require(Ellipsoid, Values{"b": 1})
	require.ErrorIs(t, err, ErrIncompleteInput)
	assert.Contains(t, err.Error(), "missing a, c")

	// Field names are case-sensitive.
	err = Require(Torus, Values{"r": 1, "L": 1})
	require.ErrorIs(t, err, ErrIncompleteInput)
	assert.Contains(t, err.Error(), "missing R")
}

func TestParseValues(t *testing.T) {
	v, err := ParseValues(map[string]string{"r": " 1.5 ", "h": "", "L": "   ", "s": "2e1"})
	require.NoError(t, err)
	assert.Equal(t, Values{"r": 1.5, "s": 20}, v)

	_, err = ParseValues(map[string]string{"r": "abc"})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "r")

	v, err = ParseValues(map[string]string{"r": "-3"})
	require.NoError(t, err)
	_, err = Compute(Sphere, v)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseValues(map[string]string{"r": "12abc"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseValues_Overflow(t *testing.T) {
	v, err := ParseValues(map[string]string{"s": "1e400"})
	require.NoError(t, err)
	assert.True(t, math.IsInf(v["s"], 1))

	out, err := Calculate(Input{Shape: Cube, Mode: "both", Values: RawValues{"s": "1e400"}})
	require.NoError(t, err)
	assert.Equal(t, MsgNoResult, out.Message)

	v, err = ParseValues(map[string]string{"s": "-1e400"})
	require.NoError(t, err)
	_, err = Compute(Cube, v)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCatalog(t *testing.T) {
	cat := Catalog()
	require.Len(t, cat, len(Shapes))
	for i, f := range cat {
		assert.Equal(t, Shapes[i], f.Shape)
		assert.NotEmpty(t, f.Label)
		assert.NotEmpty(t, f.Fields)
		assert.NotNil(t, f.Volume)
		assert.NotNil(t, f.Area)
	}
	_, ok := Lookup(Shape("cube "))
	assert.False(t, ok)
}
