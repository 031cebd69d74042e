package watermark

import (
	"image"
	"strings"
)

// Position is one of nine named anchor placements plus Custom.
type Position string

const (
	PositionTopLeft      Position = "top-left"
	PositionTopCenter    Position = "top-center"
	PositionTopRight     Position = "top-right"
	PositionCenterLeft   Position = "center-left"
	PositionCenter       Position = "center"
	PositionCenterRight  Position = "center-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomCenter Position = "bottom-center"
	PositionBottomRight  Position = "bottom-right"
	PositionCustom       Position = "custom"
)

// ParsePosition normalizes a position string. Both underscore and hyphen
// forms are accepted ("top_left" == "top-left"). Unrecognized values are
// returned as-is; anchor resolution falls back to center for them.
func ParsePosition(s string) Position {
	return Position(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
}

// Known reports whether the position is one of the supported placements.
func (p Position) Known() bool {
	switch p {
	case PositionTopLeft, PositionTopCenter, PositionTopRight,
		PositionCenterLeft, PositionCenter, PositionCenterRight,
		PositionBottomLeft, PositionBottomCenter, PositionBottomRight,
		PositionCustom:
		return true
	}
	return false
}

// resolveAnchor computes the top-left corner of a (w, h) box placed at a
// named anchor inside an imgW x imgH image. Margin applies to edge anchors
// only; centered axes ignore it.
func resolveAnchor(p Position, imgW, imgH, w, h, margin int) image.Point {
	left := margin
	centerX := (imgW - w) / 2
	right := imgW - w - margin
	top := margin
	centerY := (imgH - h) / 2
	bottom := imgH - h - margin

	switch p {
	case PositionTopLeft:
		return image.Pt(left, top)
	case PositionTopCenter:
		return image.Pt(centerX, top)
	case PositionTopRight:
		return image.Pt(right, top)
	case PositionCenterLeft:
		return image.Pt(left, centerY)
	case PositionCenterRight:
		return image.Pt(right, centerY)
	case PositionBottomLeft:
		return image.Pt(left, bottom)
	case PositionBottomCenter:
		return image.Pt(centerX, bottom)
	case PositionBottomRight:
		return image.Pt(right, bottom)
	default:
		return image.Pt(centerX, centerY)
	}
}

// clampToBounds keeps a (w, h) box at pt inside the image where possible.
// If the box is wider or taller than the image, that axis clamps to 0 and
// the box overflows the far edge.
func clampToBounds(pt image.Point, imgW, imgH, w, h int) image.Point {
	return image.Pt(clamp(pt.X, 0, imgW-w), clamp(pt.Y, 0, imgH-h))
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
