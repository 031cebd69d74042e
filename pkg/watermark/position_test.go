package watermark

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePosition(t *testing.T) {
	assert.Equal(t, PositionTopLeft, ParsePosition("top_left"))
	assert.Equal(t, PositionTopLeft, ParsePosition("Top-Left"))
	assert.Equal(t, PositionBottomRight, ParsePosition("  bottom_right "))
	assert.Equal(t, PositionCustom, ParsePosition("CUSTOM"))
	assert.Equal(t, Position("middle"), ParsePosition("middle"))
}

func TestPositionKnown(t *testing.T) {
	for _, p := range []Position{
		PositionTopLeft, PositionTopCenter, PositionTopRight,
		PositionCenterLeft, PositionCenter, PositionCenterRight,
		PositionBottomLeft, PositionBottomCenter, PositionBottomRight,
		PositionCustom,
	} {
		assert.True(t, p.Known(), string(p))
	}
	assert.False(t, Position("middle").Known())
	assert.False(t, Position("").Known())
}

func TestResolveAnchor(t *testing.T) {
	// 100x80 image, 20x10 box, margin 5.
	tests := []struct {
		pos  Position
		want image.Point
	}{
		{PositionTopLeft, image.Pt(5, 5)},
		{PositionTopCenter, image.Pt(40, 5)},
		{PositionTopRight, image.Pt(75, 5)},
		{PositionCenterLeft, image.Pt(5, 35)},
		{PositionCenter, image.Pt(40, 35)},
		{PositionCenterRight, image.Pt(75, 35)},
		{PositionBottomLeft, image.Pt(5, 65)},
		{PositionBottomCenter, image.Pt(40, 65)},
		{PositionBottomRight, image.Pt(75, 65)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveAnchor(tt.pos, 100, 80, 20, 10, 5), string(tt.pos))
	}
}

func TestResolveAnchorCenterIgnoresMargin(t *testing.T) {
	a := resolveAnchor(PositionCenter, 100, 80, 20, 10, 0)
	b := resolveAnchor(PositionCenter, 100, 80, 20, 10, 30)
	assert.Equal(t, a, b)

	// Centered axes ignore margin even on edge anchors.
	assert.Equal(t, 40, resolveAnchor(PositionTopCenter, 100, 80, 20, 10, 30).X)
	assert.Equal(t, 35, resolveAnchor(PositionCenterLeft, 100, 80, 20, 10, 30).Y)
}

func TestResolveAnchorUnknownFallsBackToCenter(t *testing.T) {
	want := resolveAnchor(PositionCenter, 100, 80, 20, 10, 5)
	assert.Equal(t, want, resolveAnchor(Position("middle"), 100, 80, 20, 10, 5))
}

func TestClampToBounds(t *testing.T) {
	// Inside: unchanged.
	assert.Equal(t, image.Pt(10, 10), clampToBounds(image.Pt(10, 10), 100, 80, 20, 10))
	// Negative: clamp to 0.
	assert.Equal(t, image.Pt(0, 0), clampToBounds(image.Pt(-5, -7), 100, 80, 20, 10))
	// Past the far edge: clamp so the box touches it.
	assert.Equal(t, image.Pt(80, 70), clampToBounds(image.Pt(99, 99), 100, 80, 20, 10))
	// Box larger than the image: pin to 0 and overflow the far edge.
	assert.Equal(t, image.Pt(0, 0), clampToBounds(image.Pt(5, 5), 100, 80, 150, 90))
}
