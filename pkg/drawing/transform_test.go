package drawing

import (
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransform(t *testing.T) {
	tests := []struct {
		in   string
		p    v2.Vec
		want v2.Vec
	}{
		{"", v2.Vec{X: 3, Y: 4}, v2.Vec{X: 3, Y: 4}},
		{"translate(5)", v2.Vec{X: 1, Y: 1}, v2.Vec{X: 6, Y: 1}},
		{"scale(2,3)", v2.Vec{X: 1, Y: 1}, v2.Vec{X: 2, Y: 3}},
		{"rotate(90)", v2.Vec{X: 1, Y: 0}, v2.Vec{X: 0, Y: 1}},
		{"rotate(90 10 10)", v2.Vec{X: 11, Y: 10}, v2.Vec{X: 10, Y: 11}},
		{"matrix(1 0 0 1 7 8)", v2.Vec{}, v2.Vec{X: 7, Y: 8}},
		{"translate(10,0) scale(2)", v2.Vec{X: 1, Y: 1}, v2.Vec{X: 12, Y: 2}},
		{" translate(10,0), scale(2) ", v2.Vec{X: 1, Y: 1}, v2.Vec{X: 12, Y: 2}},
		{"skewX(45)", v2.Vec{X: 0, Y: 1}, v2.Vec{X: 1, Y: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tr, err := ParseTransform(tt.in)
			require.NoError(t, err)
			got := tr.Apply(tt.p)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestParseTransform_Errors(t *testing.T) {
	for _, in := range []string{
		"bogus", "scale()", "matrix(1 2 3)", "spin(3)",
		"translate(10) bogus", "translate(10),,garbage", "junk translate(10)",
		"translate(10),,scale(2)",
	} {
		_, err := ParseTransform(in)
		assert.ErrorIs(t, err, ErrParse, in)
	}
}

func TestAffine_UniformScale(t *testing.T) {
	tr, err := ParseTransform("rotate(30) scale(3)")
	require.NoError(t, err)
	assert.InDelta(t, 3, tr.UniformScale(), 1e-9)
}
