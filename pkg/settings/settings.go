// Package settings defines the persisted watermark configuration: the JSON
// document schema, defaults, legacy field migration, and construction of
// render specs from loaded settings.
package settings

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/xinyangwy/PhotoWatermark2-wzl/pkg/watermark"
)

// Document is the normalized, typed settings model. All legacy field aliases
// are resolved once at load time; the rest of the application only ever sees
// canonical fields.
type Document struct {
	WatermarkType   string
	Text            TextWatermark
	Image           ImageWatermark
	OutputDirectory string
}

// TextWatermark holds the text-variant settings.
type TextWatermark struct {
	Text        string
	Font        string
	Size        int // 0 = derive from image width at render time
	Bold        bool
	Italic      bool
	Color       color.NRGBA
	Opacity     int
	Position    watermark.Position
	Margin      int
	Rotation    int
	Background  bool
	BgColor     color.NRGBA
	BgOpacity   int
	Tiling      bool
	TileSpacing int
	CustomX     *int
	CustomY     *int
}

// ImageWatermark holds the image-variant settings.
type ImageWatermark struct {
	Path        string // relative to the working directory preferred
	Scale       int
	Opacity     int
	Position    watermark.Position
	Margin      int
	Rotation    int
	Tiling      bool
	TileSpacing int
	CustomX     *int
	CustomY     *int
}

// Default returns the settings used before any file has been loaded.
func Default() Document {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	return Document{
		WatermarkType: "text",
		Text: TextWatermark{
			Text:        "PhotoMark2",
			Font:        "Arial",
			Color:       white,
			Opacity:     80,
			Position:    watermark.PositionBottomRight,
			Margin:      10,
			BgColor:     black,
			BgOpacity:   50,
			TileSpacing: 50,
		},
		Image: ImageWatermark{
			Scale:       100,
			Opacity:     80,
			Position:    watermark.PositionBottomRight,
			Margin:      20,
			TileSpacing: 50,
		},
		OutputDirectory: "./output",
	}
}

// Load reads and normalizes a settings document from a JSON file.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading settings file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON settings document, resolving every legacy alias to
// its canonical field and filling defaults for absent fields.
func Parse(data []byte) (Document, error) {
	var wire documentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return Document{}, fmt.Errorf("parsing settings: %w", err)
	}
	return wire.normalize()
}

// Save writes the document to path as indented JSON, creating the directory
// if needed. Colors are serialized back to "#RRGGBB".
func (d Document) Save(path string) error {
	if filepath.Ext(path) != ".json" {
		path += ".json"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

// Marshal serializes the document in the canonical wire form.
func (d Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d.wire(), "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	return data, nil
}

// Spec builds the render spec for the document's active watermark type.
// For image watermarks the decoded mark image must be supplied by the
// image store; the settings model never does file I/O for it.
func (d Document) Spec(mark image.Image) (*watermark.Spec, error) {
	switch d.WatermarkType {
	case "text":
		return d.TextSpec(), nil
	case "image":
		return d.ImageSpec(mark), nil
	default:
		return nil, &watermark.ValidationError{Field: "watermark_type", Reason: "must be text or image"}
	}
}

// TextSpec builds the text-variant render spec.
func (d Document) TextSpec() *watermark.Spec {
	t := d.Text
	spec := &watermark.Spec{
		Kind:        watermark.KindText,
		Opacity:     t.Opacity,
		Position:    t.Position,
		Margin:      t.Margin,
		Rotation:    t.Rotation,
		Tiling:      t.Tiling,
		TileSpacing: t.TileSpacing,
		CustomPos:   customPos(t.CustomX, t.CustomY),
		Text:        t.Text,
		FontFamily:  t.Font,
		FontSize:    t.Size,
		Bold:        t.Bold,
		Italic:      t.Italic,
		Color:       t.Color,
	}
	if t.Background {
		spec.Background = &watermark.Background{Color: t.BgColor, Opacity: t.BgOpacity}
	}
	return spec
}

// ImageSpec builds the image-variant render spec around a decoded mark.
func (d Document) ImageSpec(mark image.Image) *watermark.Spec {
	i := d.Image
	return &watermark.Spec{
		Kind:        watermark.KindImage,
		Opacity:     i.Opacity,
		Position:    i.Position,
		Margin:      i.Margin,
		Rotation:    i.Rotation,
		Tiling:      i.Tiling,
		TileSpacing: i.TileSpacing,
		CustomPos:   customPos(i.CustomX, i.CustomY),
		Mark:        mark,
		Scale:       i.Scale,
	}
}

func customPos(x, y *int) *image.Point {
	if x == nil || y == nil {
		return nil
	}
	p := image.Pt(*x, *y)
	return &p
}
