package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kubika/internal/questionbank"
)

func valueOf(t *testing.T, qs []Quantity, name string) float64 {
	t.Helper()
	for _, q := range qs {
		if q.Name == name {
			return q.Value
		}
	}
	t.Fatalf("quantity %q not found", name)
	return 0
}

func TestCalculate(t *testing.T) {
	cases := []struct {
		name  string
		topic questionbank.Topic
		dims  Dimensions
		want  map[string]float64
	}{
		{
			name:  "cube side 6",
			topic: questionbank.TopicCube,
			dims:  Dimensions{Side: 6},
			want: map[string]float64{
				"Volume":         216,
				"Luas Permukaan": 216,
				"Diagonal Sisi":  6 * math.Sqrt2,
				"Diagonal Ruang": 10.392,
			},
		},
		{
			name:  "cuboid 8x6x4",
			topic: questionbank.TopicCuboid,
			dims:  Dimensions{Length: 8, Width: 6, Height: 4},
			want: map[string]float64{
				"Volume":           192,
				"Luas Permukaan":   208,
				"Diagonal Sisi pl": 10,
				"Diagonal Ruang":   math.Sqrt(116),
			},
		},
		{
			name:  "cylinder r7 t10",
			topic: questionbank.TopicCylinder,
			dims:  Dimensions{Radius: 7, Height: 10},
			want: map[string]float64{
				"Volume":          1539.380,
				"Luas Permukaan":  747.699,
				"Luas Selimut":    439.823,
				"Luas Alas/Tutup": 153.938,
			},
		},
		{
			name:  "cone r6 t8",
			topic: questionbank.TopicCone,
			dims:  Dimensions{Radius: 6, Height: 8},
			want: map[string]float64{
				"Garis Pelukis":  10,
				"Volume":         96 * math.Pi,
				"Luas Permukaan": 96 * math.Pi,
				"Luas Selimut":   60 * math.Pi,
				"Luas Alas":      36 * math.Pi,
			},
		},
		{
			name:  "sphere r7",
			topic: questionbank.TopicSphere,
			dims:  Dimensions{Radius: 7},
			want: map[string]float64{
				"Volume":                   1436.755,
				"Luas Permukaan":           615.752,
				"Diameter":                 14,
				"Keliling Lingkaran Besar": 43.982,
			},
		},
		{
			name:  "prism a6 b4 t10",
			topic: questionbank.TopicPrism,
			dims:  Dimensions{Base: 6, BaseHeight: 4, Height: 10},
			want: map[string]float64{
				"Luas Alas":      12,
				"Volume":         120,
				"Luas Selimut":   180,
				"Luas Permukaan": 204,
			},
		},
		{
			name:  "pyramid a6 t8",
			topic: questionbank.TopicPyramid,
			dims:  Dimensions{Side: 6, Height: 8},
			want: map[string]float64{
				"Volume":            96,
				"Luas Alas":         36,
				"Tinggi Sisi Tegak": math.Sqrt(73),
				"Luas Selimut":      12 * math.Sqrt(73),
				"Luas Permukaan":    36 + 12*math.Sqrt(73),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			qs, err := Calculate(tc.topic, tc.dims)
			require.NoError(t, err)
			for name, want := range tc.want {
				assert.InDelta(t, want, valueOf(t, qs, name), 0.001, name)
			}
		})
	}
}

func TestCalculate_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		topic questionbank.Topic
		dims  Dimensions
		want  error
	}{
		{"unknown shape", questionbank.Topic("torus"), Dimensions{Radius: 1}, ErrUnknownShape},
		{"missing dimension", questionbank.TopicCuboid, Dimensions{Length: 1, Width: 1}, ErrMissingDimension},
		{"zero", questionbank.TopicCube, Dimensions{Side: 0}, ErrInvalidDimension},
		{"negative", questionbank.TopicCone, Dimensions{Radius: -2, Height: 3}, ErrInvalidDimension},
		{"nan", questionbank.TopicSphere, Dimensions{Radius: math.NaN()}, ErrInvalidDimension},
		{"inf", questionbank.TopicCylinder, Dimensions{Radius: 1, Height: math.Inf(1)}, ErrInvalidDimension},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			qs, err := Calculate(tc.topic, tc.dims)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, qs)
		})
	}
}

func TestShapesCoverEveryTopic(t *testing.T) {
	shapes := Shapes()
	require.Len(t, shapes, len(questionbank.AllTopics()))
	for i, topic := range questionbank.AllTopics() {
		s := shapes[i]
		assert.Equal(t, topic, s.Topic)
		assert.Equal(t, topic.DisplayName(), s.Name())
		assert.NotEmpty(t, s.Formulas)

		qs, err := s.Calculate(s.Defaults())
		require.NoError(t, err, topic)
		assert.NotEmpty(t, qs)
	}
}

func TestQuantityFormat(t *testing.T) {
	q := Quantity{Value: 153.93804, Unit: SquareCentimetre}
	assert.Equal(t, "153.94 cm²", q.Format())
	assert.Equal(t, "216.00 cm³", Quantity{Value: 216, Unit: CubicCentimetre}.Format())
}

func TestFind(t *testing.T) {
	s, err := Find("cube")
	require.NoError(t, err)
	assert.Equal(t, questionbank.TopicCube, s.Topic)

	s, err = Find(" Kerucut ")
	require.NoError(t, err)
	assert.Equal(t, questionbank.TopicCone, s.Topic)

	_, err = Find("torus")
	assert.ErrorIs(t, err, ErrUnknownShape)
}
