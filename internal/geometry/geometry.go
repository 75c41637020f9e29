// Package geometry computes the measurements of the seven solids the quiz
// covers from their dimensions, with the formulas taught for each.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abhisek/kubika/internal/questionbank"
)

// Sentinel errors returned by Calculate.
var (
	ErrUnknownShape     = errors.New("unknown shape")
	ErrMissingDimension = errors.New("missing dimension")
	ErrInvalidDimension = errors.New("dimension must be a positive finite number")
)

// Dimension keys. A shape uses a subset of them.
const (
	Side       = "side"
	Length     = "length"
	Width      = "width"
	Height     = "height"
	Radius     = "radius"
	Base       = "base"
	BaseHeight = "base-height"
)

// Unit of a quantity.
type Unit string

const (
	Centimetre       Unit = "cm"
	SquareCentimetre Unit = "cm²"
	CubicCentimetre  Unit = "cm³"
)

// Param is one input of a shape.
type Param struct {
	Key     string
	Label   string
	Symbol  string
	Default float64
}

// Formula is a named formula shown alongside the results.
type Formula struct {
	Name       string
	Expression string
}

// Quantity is one computed measurement.
type Quantity struct {
	Name    string
	Formula string
	Value   float64
	Unit    Unit
}

// Format renders the value with two decimals and its unit.
func (q Quantity) Format() string {
	return strconv.FormatFloat(q.Value, 'f', 2, 64) + " " + string(q.Unit)
}

// Dimensions maps a Param key to its value.
type Dimensions map[string]float64

// Shape describes a solid: its inputs, its formulas and how to compute it.
type Shape struct {
	Topic    questionbank.Topic
	Params   []Param
	Formulas []Formula
	compute  func(d Dimensions) []Quantity
}

// Name returns the Indonesian name of the shape.
func (s Shape) Name() string {
	return s.Topic.DisplayName()
}

// Defaults returns the example dimensions for the shape.
func (s Shape) Defaults() Dimensions {
	d := make(Dimensions, len(s.Params))
	for _, p := range s.Params {
		d[p.Key] = p.Default
	}
	return d
}

// Calculate checks that every parameter is present and positive, then
// returns the measurements in display order.
func (s Shape) Calculate(d Dimensions) ([]Quantity, error) {
	for _, p := range s.Params {
		v, ok := d[p.Key]
		if !ok {
			return nil, fmt.Errorf("%s %s: %w", s.Topic, p.Key, ErrMissingDimension)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return nil, fmt.Errorf("%s %s=%v: %w", s.Topic, p.Key, v, ErrInvalidDimension)
		}
	}
	return s.compute(d), nil
}

// Shapes returns every shape in topic display order.
func Shapes() []Shape {
	out := make([]Shape, 0, len(shapes))
	for _, t := range questionbank.AllTopics() {
		if s, ok := shapes[t]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Lookup returns the shape for topic.
func Lookup(topic questionbank.Topic) (Shape, error) {
	s, ok := shapes[topic]
	if !ok {
		return Shape{}, fmt.Errorf("%w: %q", ErrUnknownShape, topic)
	}
	return s, nil
}

// Calculate looks up topic and computes it from d.
func Calculate(topic questionbank.Topic, d Dimensions) ([]Quantity, error) {
	s, err := Lookup(topic)
	if err != nil {
		return nil, err
	}
	return s.Calculate(d)
}

// Find resolves a shape by topic key ("cube") or Indonesian name ("kubus"),
// ignoring case.
func Find(name string) (Shape, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range Shapes() {
		if name == string(s.Topic) || name == strings.ToLower(s.Name()) {
			return s, nil
		}
	}
	return Shape{}, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}
