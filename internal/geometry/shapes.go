package geometry

import (
	"math"

	"github.com/abhisek/kubika/internal/questionbank"
)

var shapes = map[questionbank.Topic]Shape{
	questionbank.TopicCube: {
		Topic:  questionbank.TopicCube,
		Params: []Param{{Key: Side, Label: "Panjang rusuk", Symbol: "s", Default: 5}},
		Formulas: []Formula{
			{"Volume", "V = s³"},
			{"Luas Permukaan", "LP = 6 × s²"},
			{"Diagonal Sisi", "d = s × √2"},
			{"Diagonal Ruang", "d = s × √3"},
		},
		compute: func(d Dimensions) []Quantity {
			s := d[Side]
			return []Quantity{
				{"Volume", "V = s³", s * s * s, CubicCentimetre},
				{"Luas Permukaan", "LP = 6 × s²", 6 * s * s, SquareCentimetre},
				{"Diagonal Sisi", "d = s × √2", s * math.Sqrt2, Centimetre},
				{"Diagonal Ruang", "d = s × √3", s * math.Sqrt(3), Centimetre},
			}
		},
	},

	questionbank.TopicCuboid: {
		Topic: questionbank.TopicCuboid,
		Params: []Param{
			{Key: Length, Label: "Panjang", Symbol: "p", Default: 8},
			{Key: Width, Label: "Lebar", Symbol: "l", Default: 6},
			{Key: Height, Label: "Tinggi", Symbol: "t", Default: 4},
		},
		Formulas: []Formula{
			{"Volume", "V = p × l × t"},
			{"Luas Permukaan", "LP = 2 × (pl + pt + lt)"},
			{"Diagonal Ruang", "d = √(p² + l² + t²)"},
		},
		compute: func(d Dimensions) []Quantity {
			p, l, t := d[Length], d[Width], d[Height]
			return []Quantity{
				{"Volume", "V = p × l × t", p * l * t, CubicCentimetre},
				{"Luas Permukaan", "LP = 2 × (pl + pt + lt)", 2 * (p*l + p*t + l*t), SquareCentimetre},
				{"Diagonal Sisi pl", "d₁ = √(p² + l²)", math.Hypot(p, l), Centimetre},
				{"Diagonal Sisi pt", "d₂ = √(p² + t²)", math.Hypot(p, t), Centimetre},
				{"Diagonal Sisi lt", "d₃ = √(l² + t²)", math.Hypot(l, t), Centimetre},
				{"Diagonal Ruang", "d = √(p² + l² + t²)", math.Sqrt(p*p + l*l + t*t), Centimetre},
			}
		},
	},

	questionbank.TopicCylinder: {
		Topic: questionbank.TopicCylinder,
		Params: []Param{
			{Key: Radius, Label: "Jari-jari", Symbol: "r", Default: 7},
			{Key: Height, Label: "Tinggi", Symbol: "t", Default: 10},
		},
		Formulas: []Formula{
			{"Volume", "V = π × r² × t"},
			{"Luas Permukaan", "LP = 2 × π × r × (r + t)"},
			{"Luas Selimut", "L = 2 × π × r × t"},
			{"Luas Alas/Tutup", "L = π × r²"},
		},
		compute: func(d Dimensions) []Quantity {
			r, t := d[Radius], d[Height]
			return []Quantity{
				{"Volume", "V = π × r² × t", math.Pi * r * r * t, CubicCentimetre},
				{"Luas Permukaan", "LP = 2 × π × r × (r + t)", 2 * math.Pi * r * (r + t), SquareCentimetre},
				{"Luas Selimut", "L = 2 × π × r × t", 2 * math.Pi * r * t, SquareCentimetre},
				{"Luas Alas/Tutup", "L = π × r²", math.Pi * r * r, SquareCentimetre},
			}
		},
	},

	questionbank.TopicCone: {
		Topic: questionbank.TopicCone,
		Params: []Param{
			{Key: Radius, Label: "Jari-jari", Symbol: "r", Default: 6},
			{Key: Height, Label: "Tinggi", Symbol: "t", Default: 8},
		},
		Formulas: []Formula{
			{"Volume", "V = ⅓ × π × r² × t"},
			{"Garis Pelukis", "s = √(r² + t²)"},
			{"Luas Permukaan", "LP = π × r × (r + s)"},
			{"Luas Selimut", "L = π × r × s"},
			{"Luas Alas", "L = π × r²"},
		},
		compute: func(d Dimensions) []Quantity {
			r, t := d[Radius], d[Height]
			s := math.Hypot(r, t)
			return []Quantity{
				{"Volume", "V = ⅓ × π × r² × t", math.Pi * r * r * t / 3, CubicCentimetre},
				{"Garis Pelukis", "s = √(r² + t²)", s, Centimetre},
				{"Luas Permukaan", "LP = π × r × (r + s)", math.Pi * r * (r + s), SquareCentimetre},
				{"Luas Selimut", "L = π × r × s", math.Pi * r * s, SquareCentimetre},
				{"Luas Alas", "L = π × r²", math.Pi * r * r, SquareCentimetre},
			}
		},
	},

	questionbank.TopicSphere: {
		Topic:  questionbank.TopicSphere,
		Params: []Param{{Key: Radius, Label: "Jari-jari", Symbol: "r", Default: 7}},
		Formulas: []Formula{
			{"Volume", "V = ⁴⁄₃ × π × r³"},
			{"Luas Permukaan", "LP = 4 × π × r²"},
			{"Keliling Lingkaran Besar", "K = 2 × π × r"},
			{"Luas Lingkaran Besar", "L = π × r²"},
		},
		compute: func(d Dimensions) []Quantity {
			r := d[Radius]
			return []Quantity{
				{"Volume", "V = ⁴⁄₃ × π × r³", 4 * math.Pi * r * r * r / 3, CubicCentimetre},
				{"Luas Permukaan", "LP = 4 × π × r²", 4 * math.Pi * r * r, SquareCentimetre},
				{"Diameter", "d = 2 × r", 2 * r, Centimetre},
				{"Keliling Lingkaran Besar", "K = 2 × π × r", 2 * math.Pi * r, Centimetre},
				{"Luas Lingkaran Besar", "L = π × r²", math.Pi * r * r, SquareCentimetre},
			}
		},
	},

	// Triangular prism whose base is an equilateral triangle with side a,
	// so the lateral faces are three a × t rectangles.
	questionbank.TopicPrism: {
		Topic: questionbank.TopicPrism,
		Params: []Param{
			{Key: Base, Label: "Alas segitiga", Symbol: "a", Default: 6},
			{Key: BaseHeight, Label: "Tinggi segitiga", Symbol: "b", Default: 4},
			{Key: Height, Label: "Tinggi prisma", Symbol: "t", Default: 10},
		},
		Formulas: []Formula{
			{"Volume", "V = Luas alas × t"},
			{"Luas Permukaan", "LP = 2 × Luas alas + Luas selimut"},
			{"Luas Selimut", "L = keliling alas × t"},
			{"Luas Alas Segitiga", "L = ½ × a × b"},
		},
		compute: func(d Dimensions) []Quantity {
			a, b, t := d[Base], d[BaseHeight], d[Height]
			base := a * b / 2
			lateral := 3 * a * t
			return []Quantity{
				{"Volume", "V = ½ × a × b × t", base * t, CubicCentimetre},
				{"Luas Alas", "L = ½ × a × b", base, SquareCentimetre},
				{"Luas Permukaan", "LP = 2 × Luas alas + Luas selimut", 2*base + lateral, SquareCentimetre},
				{"Luas Selimut", "L = 3 × a × t", lateral, SquareCentimetre},
			}
		},
	},

	// Regular square pyramid.
	questionbank.TopicPyramid: {
		Topic: questionbank.TopicPyramid,
		Params: []Param{
			{Key: Side, Label: "Sisi alas", Symbol: "a", Default: 6},
			{Key: Height, Label: "Tinggi limas", Symbol: "t", Default: 8},
		},
		Formulas: []Formula{
			{"Volume", "V = ⅓ × Luas alas × t"},
			{"Luas Permukaan", "LP = Luas alas + Luas selimut"},
			{"Luas Alas Segiempat", "L = a × a"},
			{"Luas Sisi Tegak", "L = ½ × a × tinggi sisi tegak"},
		},
		compute: func(d Dimensions) []Quantity {
			a, t := d[Side], d[Height]
			base := a * a
			slant := math.Hypot(a/2, t)
			lateral := 4 * a * slant / 2
			return []Quantity{
				{"Volume", "V = ⅓ × a² × t", base * t / 3, CubicCentimetre},
				{"Tinggi Sisi Tegak", "s = √((a/2)² + t²)", slant, Centimetre},
				{"Luas Alas", "L = a × a", base, SquareCentimetre},
				{"Luas Permukaan", "LP = Luas alas + Luas selimut", base + lateral, SquareCentimetre},
				{"Luas Selimut", "L = 4 × ½ × a × s", lateral, SquareCentimetre},
			}
		},
	},
}
