package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#FFFFFF", color.NRGBA{255, 255, 255, 255}},
		{"#000000", color.NRGBA{0, 0, 0, 255}},
		{"#4db6ac", color.NRGBA{77, 182, 172, 255}},
		{"#F0A", color.NRGBA{255, 0, 170, 255}},
		{"#11223344", color.NRGBA{17, 34, 51, 68}},
		{"  #ff0000  ", color.NRGBA{255, 0, 0, 255}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseNamed(t *testing.T) {
	got, err := Parse("White")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, got)

	got, err = Parse("red")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, got)
}

func TestParseTriplet(t *testing.T) {
	got, err := Parse("255, 128, 0")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 128, 0, 255}, got)

	got, err = Parse("10,20,30,40")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{10, 20, 30, 40}, got)
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "#12345", "notacolor", "300,0,0", "1,2"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#FFFFFF", Hex(color.NRGBA{255, 255, 255, 255}))
	assert.Equal(t, "#4DB6AC", Hex(color.NRGBA{77, 182, 172, 20}))
}

func TestWithAlphaPercent(t *testing.T) {
	c := color.NRGBA{10, 20, 30, 255}
	assert.Equal(t, uint8(255), WithAlphaPercent(c, 100).A)
	assert.Equal(t, uint8(0), WithAlphaPercent(c, 0).A)
	assert.Equal(t, uint8(128), WithAlphaPercent(c, 50).A)
	assert.Equal(t, uint8(255), WithAlphaPercent(c, 150).A)
	assert.Equal(t, uint8(0), WithAlphaPercent(c, -5).A)
}

func TestRoundTrip(t *testing.T) {
	orig := color.NRGBA{77, 182, 172, 255}
	parsed, err := Parse(Hex(orig))
	require.NoError(t, err)
	assert.Equal(t, orig, parsed)
}
