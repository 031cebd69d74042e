package settings

import (
	"encoding/json"
	"fmt"

	"github.com/xinyangwy/PhotoWatermark2-wzl/pkg/colorutil"
	"github.com/xinyangwy/PhotoWatermark2-wzl/pkg/watermark"
)

// Wire structs mirror the on-disk JSON, including every legacy alias still
// found in old settings files. Pointer fields distinguish "absent" from
// zero so the migration step can apply defaults and alias precedence.

type documentWire struct {
	WatermarkType string             `json:"watermark_type"`
	Text          *textWatermarkWire `json:"text_watermark,omitempty"`
	Image         *imageWireMark     `json:"image_watermark,omitempty"`
	OutputDir     string             `json:"output_directory,omitempty"`
}

type textWatermarkWire struct {
	Text     string `json:"text"`
	Font     string `json:"font,omitempty"`
	Size     *int   `json:"size,omitempty"`
	FontSize *int   `json:"font_size,omitempty"` // legacy alias for size
	Bold     bool   `json:"bold,omitempty"`
	Italic   bool   `json:"italic,omitempty"`
	Color    string `json:"color,omitempty"`
	Opacity  *int   `json:"opacity,omitempty"`
	Position string `json:"position,omitempty"`
	Margin   *int   `json:"margin,omitempty"`
	Padding  *int   `json:"padding,omitempty"` // legacy alias for margin
	Rotation int    `json:"rotation,omitempty"`

	// background is a bool in the current schema; legacy files carried a
	// color string whose presence implied the flag.
	Background        json.RawMessage `json:"background,omitempty"`
	BgColor           string          `json:"bg_color,omitempty"`
	BgOpacity         *int            `json:"bg_opacity,omitempty"`
	BackgroundOpacity *int            `json:"background_opacity,omitempty"` // legacy alias

	Tiling        *bool `json:"tiling,omitempty"`
	TileMode      *bool `json:"tile_mode,omitempty"` // canonical in current schema
	TileSpacing   *int  `json:"tile_spacing,omitempty"`
	TilingSpacing *int  `json:"tiling_spacing,omitempty"` // legacy alias

	CustomX *int `json:"custom_x,omitempty"`
	CustomY *int `json:"custom_y,omitempty"`
	X       *int `json:"x,omitempty"` // legacy drag-position alias
	Y       *int `json:"y,omitempty"`
}

type imageWireMark struct {
	Path     string `json:"watermark_path,omitempty"`
	Scale    *int   `json:"scale,omitempty"`
	Opacity  *int   `json:"opacity,omitempty"`
	Position string `json:"position,omitempty"`
	Margin   *int   `json:"margin,omitempty"`
	Padding  *int   `json:"padding,omitempty"` // legacy alias for margin
	Rotation int    `json:"rotation,omitempty"`

	Tiling        *bool `json:"tiling,omitempty"`
	TileMode      *bool `json:"tile_mode,omitempty"`
	TileSpacing   *int  `json:"tile_spacing,omitempty"`
	TilingSpacing *int  `json:"tiling_spacing,omitempty"`

	CustomX *int `json:"custom_x,omitempty"`
	CustomY *int `json:"custom_y,omitempty"`
	X       *int `json:"x,omitempty"`
	Y       *int `json:"y,omitempty"`
}

// normalize migrates the wire form into the typed document, resolving
// aliases (canonical name wins when both are present) and defaults.
func (w documentWire) normalize() (Document, error) {
	doc := Default()

	if w.WatermarkType != "" {
		doc.WatermarkType = w.WatermarkType
	}
	if w.OutputDir != "" {
		doc.OutputDirectory = w.OutputDir
	}

	if w.Text != nil {
		if err := w.Text.apply(&doc.Text); err != nil {
			return Document{}, err
		}
	}
	if w.Image != nil {
		w.Image.apply(&doc.Image)
	}
	return doc, nil
}

func (w *textWatermarkWire) apply(t *TextWatermark) error {
	if w.Text != "" {
		t.Text = w.Text
	}
	if w.Font != "" {
		t.Font = w.Font
	}
	if size := firstInt(w.Size, w.FontSize); size != nil {
		t.Size = *size
	}
	t.Bold = w.Bold
	t.Italic = w.Italic
	if w.Color != "" {
		c, err := colorutil.Parse(w.Color)
		if err != nil {
			return fmt.Errorf("text_watermark.color: %w", err)
		}
		t.Color = c
	}
	if w.Opacity != nil {
		t.Opacity = *w.Opacity
	}
	if w.Position != "" {
		t.Position = watermark.ParsePosition(w.Position)
	}
	if m := firstInt(w.Margin, w.Padding); m != nil {
		t.Margin = *m
	}
	t.Rotation = w.Rotation

	if err := w.applyBackground(t); err != nil {
		return err
	}

	if tiling := firstBool(w.TileMode, w.Tiling); tiling != nil {
		t.Tiling = *tiling
	}
	if sp := firstInt(w.TileSpacing, w.TilingSpacing); sp != nil {
		t.TileSpacing = *sp
	}

	t.CustomX = firstInt(w.CustomX, w.X)
	t.CustomY = firstInt(w.CustomY, w.Y)
	return nil
}

// applyBackground handles the schema drift around text backgrounds: the
// current form is a "background" bool plus "bg_color"/"bg_opacity"; legacy
// files stored a color string under "background" and the opacity under
// "background_opacity".
func (w *textWatermarkWire) applyBackground(t *TextWatermark) error {
	if len(w.Background) > 0 {
		var enabled bool
		if err := json.Unmarshal(w.Background, &enabled); err == nil {
			t.Background = enabled
		} else {
			var legacy string
			if err := json.Unmarshal(w.Background, &legacy); err != nil {
				return fmt.Errorf("text_watermark.background: expected bool or color string")
			}
			if legacy != "" {
				c, err := colorutil.Parse(legacy)
				if err != nil {
					return fmt.Errorf("text_watermark.background: %w", err)
				}
				t.Background = true
				t.BgColor = c
			}
		}
	}
	if w.BgColor != "" {
		c, err := colorutil.Parse(w.BgColor)
		if err != nil {
			return fmt.Errorf("text_watermark.bg_color: %w", err)
		}
		t.BgColor = c
	}
	if op := firstInt(w.BgOpacity, w.BackgroundOpacity); op != nil {
		t.BgOpacity = *op
	}
	return nil
}

func (w *imageWireMark) apply(i *ImageWatermark) {
	if w.Path != "" {
		i.Path = w.Path
	}
	if w.Scale != nil {
		i.Scale = *w.Scale
	}
	if w.Opacity != nil {
		i.Opacity = *w.Opacity
	}
	if w.Position != "" {
		i.Position = watermark.ParsePosition(w.Position)
	}
	if m := firstInt(w.Margin, w.Padding); m != nil {
		i.Margin = *m
	}
	i.Rotation = w.Rotation
	if tiling := firstBool(w.TileMode, w.Tiling); tiling != nil {
		i.Tiling = *tiling
	}
	if sp := firstInt(w.TileSpacing, w.TilingSpacing); sp != nil {
		i.TileSpacing = *sp
	}
	i.CustomX = firstInt(w.CustomX, w.X)
	i.CustomY = firstInt(w.CustomY, w.Y)
}

// wire converts the typed document back to the canonical on-disk form.
// Only canonical field names are ever written.
func (d Document) wire() documentWire {
	t := d.Text
	i := d.Image

	tw := &textWatermarkWire{
		Text:        t.Text,
		Font:        t.Font,
		Size:        intPtr(t.Size),
		Bold:        t.Bold,
		Italic:      t.Italic,
		Color:       colorutil.Hex(t.Color),
		Opacity:     intPtr(t.Opacity),
		Position:    string(t.Position),
		Margin:      intPtr(t.Margin),
		Rotation:    t.Rotation,
		Background:  mustJSON(t.Background),
		BgColor:     colorutil.Hex(t.BgColor),
		BgOpacity:   intPtr(t.BgOpacity),
		TileMode:    boolPtr(t.Tiling),
		TileSpacing: intPtr(t.TileSpacing),
		CustomX:     t.CustomX,
		CustomY:     t.CustomY,
	}
	iw := &imageWireMark{
		Path:        i.Path,
		Scale:       intPtr(i.Scale),
		Opacity:     intPtr(i.Opacity),
		Position:    string(i.Position),
		Margin:      intPtr(i.Margin),
		Rotation:    i.Rotation,
		TileMode:    boolPtr(i.Tiling),
		TileSpacing: intPtr(i.TileSpacing),
		CustomX:     i.CustomX,
		CustomY:     i.CustomY,
	}
	return documentWire{
		WatermarkType: d.WatermarkType,
		Text:          tw,
		Image:         iw,
		OutputDir:     d.OutputDirectory,
	}
}

func firstInt(ptrs ...*int) *int {
	for _, p := range ptrs {
		if p != nil {
			return p
		}
	}
	return nil
}

func firstBool(ptrs ...*bool) *bool {
	for _, p := range ptrs {
		if p != nil {
			return p
		}
	}
	return nil
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func mustJSON(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
