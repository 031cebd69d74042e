package cmd

import (
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/xinyangwy/PhotoWatermark2-wzl/pkg/imageio"
	"github.com/xinyangwy/PhotoWatermark2-wzl/pkg/settings"
	"github.com/xinyangwy/PhotoWatermark2-wzl/pkg/watermark"
)

var previewCmd = &cobra.Command{
	Use:   "preview [input] [output]",
	Short: "Render one watermarked image",
	Long: `Render the configured watermark onto a single image and write the
result. The watermark comes from a settings file, optionally overridden
by flags.

Example:
  photomark preview photo.jpg out.jpg --settings marks.json --text "© ACME" --position bottom-right`,
	Args: cobra.ExactArgs(2),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringP("settings", "s", "", "path to watermark settings JSON")
	previewCmd.Flags().String("type", "", "watermark type (text or image)")
	previewCmd.Flags().StringP("text", "t", "", "watermark text")
	previewCmd.Flags().String("watermark", "", "path to watermark image")
	previewCmd.Flags().StringP("position", "p", "", "anchor position (e.g. center, bottom-right)")
	previewCmd.Flags().IntP("opacity", "o", 0, "watermark opacity (0-100)")
	previewCmd.Flags().IntP("margin", "m", -1, "margin in pixels for anchor positions")
	previewCmd.Flags().IntP("rotation", "r", 0, "rotation in degrees, clockwise")
	previewCmd.Flags().Int("scale", 0, "image watermark scale percent (100 = original)")
	previewCmd.Flags().Bool("tile", false, "tile the watermark across the image")
	previewCmd.Flags().Int("tile-spacing", -1, "spacing between tiles in pixels")
	previewCmd.Flags().IntP("quality", "q", 0, "JPEG output quality (1-100)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath := args[1]

	logger.WithField("input", inputPath).WithField("output", outputPath).Info("Rendering watermark preview")

	doc, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	applyOverrides(cmd, &doc)

	store := imageio.NewStore()
	spec, err := buildSpec(doc, store)
	if err != nil {
		return err
	}

	src, err := store.Decode(inputPath)
	if err != nil {
		return fmt.Errorf("loading input image: %w", err)
	}

	compositor := watermark.NewCompositor(newFontManager(), logger)
	rendered, err := compositor.Render(src, spec)
	if err != nil {
		return fmt.Errorf("rendering watermark: %w", err)
	}

	quality, _ := cmd.Flags().GetInt("quality")
	if quality == 0 {
		quality = configMgr.GetAppConfig().ExportQuality
	}
	if err := store.Encode(rendered, outputPath, "", quality); err != nil {
		return fmt.Errorf("saving image: %w", err)
	}

	logger.Info("Preview rendered successfully")
	return nil
}

// loadSettings reads the settings document named by flag or config,
// falling back to defaults when no file exists.
func loadSettings(cmd *cobra.Command) (settings.Document, error) {
	path, _ := cmd.Flags().GetString("settings")
	explicit := cmd.Flags().Changed("settings")
	if path == "" {
		path = configMgr.GetAppConfig().SettingsPath
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return settings.Document{}, fmt.Errorf("settings file %s: %w", path, err)
		}
		return settings.Default(), nil
	}
	doc, err := settings.Load(path)
	if err != nil {
		return settings.Document{}, fmt.Errorf("loading settings: %w", err)
	}
	return doc, nil
}

// applyOverrides folds changed flags into the loaded document.
func applyOverrides(cmd *cobra.Command, doc *settings.Document) {
	if cmd.Flags().Changed("type") {
		doc.WatermarkType, _ = cmd.Flags().GetString("type")
	}
	if cmd.Flags().Changed("text") {
		doc.Text.Text, _ = cmd.Flags().GetString("text")
		doc.WatermarkType = "text"
	}
	if cmd.Flags().Changed("watermark") {
		doc.Image.Path, _ = cmd.Flags().GetString("watermark")
		doc.WatermarkType = "image"
	}
	if cmd.Flags().Changed("position") {
		pos, _ := cmd.Flags().GetString("position")
		doc.Text.Position = watermark.ParsePosition(pos)
		doc.Image.Position = doc.Text.Position
	}
	if cmd.Flags().Changed("opacity") {
		op, _ := cmd.Flags().GetInt("opacity")
		doc.Text.Opacity = op
		doc.Image.Opacity = op
	}
	if cmd.Flags().Changed("margin") {
		m, _ := cmd.Flags().GetInt("margin")
		doc.Text.Margin = m
		doc.Image.Margin = m
	}
	if cmd.Flags().Changed("rotation") {
		r, _ := cmd.Flags().GetInt("rotation")
		doc.Text.Rotation = r
		doc.Image.Rotation = r
	}
	if cmd.Flags().Changed("scale") {
		doc.Image.Scale, _ = cmd.Flags().GetInt("scale")
	}
	if cmd.Flags().Changed("tile") {
		t, _ := cmd.Flags().GetBool("tile")
		doc.Text.Tiling = t
		doc.Image.Tiling = t
	}
	if cmd.Flags().Changed("tile-spacing") {
		sp, _ := cmd.Flags().GetInt("tile-spacing")
		doc.Text.TileSpacing = sp
		doc.Image.TileSpacing = sp
	}
}

// buildSpec turns the document into a render spec, decoding the watermark
// image through the store when the image variant is active.
func buildSpec(doc settings.Document, store *imageio.Store) (*watermark.Spec, error) {
	var mark image.Image
	if doc.WatermarkType == "image" {
		if doc.Image.Path == "" {
			return nil, fmt.Errorf("image watermark requires a watermark path")
		}
		var err error
		mark, err = store.Decode(doc.Image.Path)
		if err != nil {
			return nil, fmt.Errorf("loading watermark image: %w", err)
		}
	}
	spec, err := doc.Spec(mark)
	if err != nil {
		return nil, fmt.Errorf("building watermark spec: %w", err)
	}
	return spec, nil
}

func newFontManager() *watermark.FontManager {
	fm := watermark.NewFontManager()
	if paths := configMgr.GetAppConfig().SystemFontPaths; len(paths) > 0 {
		fm.SetSystemFontPaths(paths)
	}
	return fm
}
