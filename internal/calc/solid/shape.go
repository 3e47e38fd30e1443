package solid

import "math"

type Shape string

const (
	Cube            Shape = "cube"
	Sphere          Shape = "sphere"
	Cylinder        Shape = "cylinder"
	Cone            Shape = "cone"
	RectPrism       Shape = "rectprism"
	Pyramid         Shape = "pyramid"
	TriangularPrism Shape = "triangularprism"
	Torus           Shape = "torus"
	Ellipsoid       Shape = "ellipsoid"
	HexPrism        Shape = "hexprism"
)

// Shapes lists every supported solid in form order.
var Shapes = []Shape{
	Cube, Sphere, Cylinder, Cone, RectPrism,
	Pyramid, TriangularPrism, Torus, Ellipsoid, HexPrism,
}

type Field struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Formula is the volume/area pair of one solid together with the
// measurement fields it reads.
type Formula struct {
	Shape  Shape                  `json:"shape"`
	Label  string                 `json:"label"`
	Fields []Field                `json:"fields"`
	Volume func(v Values) float64 `json:"-"`
	Area   func(v Values) float64 `json:"-"`
}

// Knud Thomsen exponent for the ellipsoid surface approximation.
const thomsenP = 1.6075

var (
	sqrt3       = math.Sqrt(3)
	triBase     = sqrt3 / 4
	hexBase     = 3 * sqrt3 / 2
	piSquared   = math.Pi * math.Pi
	fourThirdPi = 4.0 / 3.0 * math.Pi
)

var formulas = map[Shape]Formula{
	Cube: {
		Label:  "Cube",
		Fields: []Field{{"s", "Side"}},
		Volume: func(v Values) float64 { return math.Pow(v.Get("s"), 3) },
		Area:   func(v Values) float64 { return 6 * math.Pow(v.Get("s"), 2) },
	},
	Sphere: {
		Label:  "Sphere",
		Fields: []Field{{"r", "Radius"}},
		Volume: func(v Values) float64 { return fourThirdPi * math.Pow(v.Get("r"), 3) },
		Area:   func(v Values) float64 { return 4 * math.Pi * math.Pow(v.Get("r"), 2) },
	},
	Cylinder: {
		Label:  "Cylinder",
		Fields: []Field{{"r", "Radius"}, {"h", "Height"}},
		Volume: func(v Values) float64 {
			r, h := v.Get("r"), v.Get("h")
			return math.Pi * r * r * h
		},
		Area: func(v Values) float64 {
			r, h := v.Get("r"), v.Get("h")
			return 2 * math.Pi * r * (r + h)
		},
	},
	Cone: {
		Label:  "Cone",
		Fields: []Field{{"r", "Radius"}, {"h", "Height"}},
		Volume: func(v Values) float64 {
			r, h := v.Get("r"), v.Get("h")
			return math.Pi * r * r * h / 3
		},
		Area: func(v Values) float64 {
			r, h := v.Get("r"), v.Get("h")
			slant := math.Sqrt(r*r + h*h)
			return math.Pi * r * (r + slant)
		},
	},
	RectPrism: {
		Label:  "Rectangular prism",
		Fields: []Field{{"l", "Length"}, {"w", "Width"}, {"h", "Height"}},
		Volume: func(v Values) float64 { return v.Get("l") * v.Get("w") * v.Get("h") },
		Area: func(v Values) float64 {
			l, w, h := v.Get("l"), v.Get("w"), v.Get("h")
			return 2 * (l*w + l*h + w*h)
		},
	},
	// Square base of side a.
	Pyramid: {
		Label:  "Square pyramid",
		Fields: []Field{{"a", "Base side"}, {"h", "Height"}},
		Volume: func(v Values) float64 {
			a, h := v.Get("a"), v.Get("h")
			return a * a * h / 3
		},
		Area: func(v Values) float64 {
			a, h := v.Get("a"), v.Get("h")
			slant := math.Sqrt(math.Pow(a/2, 2) + h*h)
			return a*a + 2*a*slant
		},
	},
	// Equilateral triangle base of side a, length L.
	TriangularPrism: {
		Label:  "Triangular prism",
		Fields: []Field{{"a", "Base side"}, {"L", "Length"}},
		Volume: func(v Values) float64 {
			a := v.Get("a")
			return triBase * a * a * v.Get("L")
		},
		Area: func(v Values) float64 {
			a := v.Get("a")
			return 2*triBase*a*a + 3*a*v.Get("L")
		},
	},
	Torus: {
		Label:  "Torus",
		Fields: []Field{{"R", "Major radius"}, {"r", "Minor radius"}},
		Volume: func(v Values) float64 {
			r := v.Get("r")
			return 2 * piSquared * v.Get("R") * r * r
		},
		Area: func(v Values) float64 { return 4 * piSquared * v.Get("R") * v.Get("r") },
	},
	Ellipsoid: {
		Label:  "Ellipsoid",
		Fields: []Field{{"a", "Semi-axis a"}, {"b", "Semi-axis b"}, {"c", "Semi-axis c"}},
		Volume: func(v Values) float64 { return fourThirdPi * v.Get("a") * v.Get("b") * v.Get("c") },
		Area: func(v Values) float64 {
			sum := math.Pow(v.Get("a")*thomsenP, thomsenP) +
				math.Pow(v.Get("b")*thomsenP, thomsenP) +
				math.Pow(v.Get("c")*thomsenP, thomsenP)
			return 4 * math.Pi * math.Pow(sum/3, 1/thomsenP)
		},
	},
	// Regular hexagon base of side a, length L.
	HexPrism: {
		Label:  "Hexagonal prism",
		Fields: []Field{{"a", "Base side"}, {"L", "Length"}},
		Volume: func(v Values) float64 {
			a := v.Get("a")
			return hexBase * a * a * v.Get("L")
		},
		Area: func(v Values) float64 {
			a := v.Get("a")
			return 2*hexBase*a*a + 6*a*v.Get("L")
		},
	},
}

func init() {
	for s, f := range formulas {
		f.Shape = s
		formulas[s] = f
	}
}

// Lookup returns the formula record for s.
func Lookup(s Shape) (Formula, bool) {
	f, ok := formulas[s]
	return f, ok
}

// Catalog returns the formula records of all shapes in form order.
func Catalog() []Formula {
	out := make([]Formula, 0, len(Shapes))
	for _, s := range Shapes {
		out = append(out, formulas[s])
	}
	return out
}
