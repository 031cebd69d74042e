package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/xinyangwy/PhotoWatermark2-wzl/pkg/imageio"
	"github.com/xinyangwy/PhotoWatermark2-wzl/pkg/watermark"
)

var batchCmd = &cobra.Command{
	Use:   "batch [input-dir] [output-dir]",
	Short: "Watermark and export all images in a directory",
	Long: `Apply one watermark configuration across every image in a directory,
writing the results with configurable naming, format and quality.
Processing is sequential and continues past per-image failures.

Example:
  photomark batch ./photos ./exported --settings marks.json --format png --suffix _marked`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("settings", "s", "", "path to watermark settings JSON")
	batchCmd.Flags().StringP("format", "f", "", "output format (jpeg, png, bmp; default keeps source format)")
	batchCmd.Flags().IntP("quality", "q", 0, "JPEG output quality (1-100)")
	batchCmd.Flags().String("prefix", "", "output filename prefix")
	batchCmd.Flags().String("suffix", "", "output filename suffix")
	batchCmd.Flags().BoolP("recursive", "r", false, "process subdirectories recursively")
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	outputDir := args[1]

	logger.WithField("input_dir", inputDir).WithField("output_dir", outputDir).Info("Starting batch export")

	doc, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	store := imageio.NewStore()
	spec, err := buildSpec(doc, store)
	if err != nil {
		return err
	}

	recursive, _ := cmd.Flags().GetBool("recursive")
	images, err := findImageFiles(inputDir, recursive)
	if err != nil {
		return fmt.Errorf("finding image files: %w", err)
	}
	if len(images) == 0 {
		return fmt.Errorf("no image files found in %s", inputDir)
	}

	appCfg := configMgr.GetAppConfig()
	output := watermark.OutputOptions{
		Dir:     outputDir,
		Prefix:  flagOrDefault(cmd, "prefix", appCfg.FilenamePrefix),
		Suffix:  flagOrDefault(cmd, "suffix", appCfg.FilenameSuffix),
		Format:  flagOrDefault(cmd, "format", appCfg.ExportFormat),
		Quality: appCfg.ExportQuality,
	}
	if cmd.Flags().Changed("quality") {
		output.Quality, _ = cmd.Flags().GetInt("quality")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	events := make(chan watermark.Event, len(images)+1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			if ev.Kind == watermark.EventProgress && ev.Err == nil {
				logger.Infof("Processed %d/%d: %s", ev.Index, ev.Total, ev.File)
			}
		}
	}()

	runner := watermark.NewRunner(watermark.NewCompositor(newFontManager(), logger), store, logger)
	result := runner.Run(ctx, watermark.Job{
		Images: images,
		Spec:   spec,
		Output: output,
		Events: events,
	})
	<-done

	// Post-run summary
	switch {
	case result.Cancelled:
		logger.Warnf("Batch cancelled after %d of %d images", result.Succeeded+result.Failed, len(images))
	case result.Failed > 0:
		logger.Warnf("Completed with %d errors out of %d files", result.Failed, len(images))
		for _, itemErr := range result.Errors {
			logger.WithError(itemErr.Err).WithField("file", itemErr.Path).Error("Processing failed")
		}
	default:
		logger.Infof("Successfully processed all %d files", result.Succeeded)
	}
	return nil
}

func flagOrDefault(cmd *cobra.Command, name, def string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return def
}

// findImageFiles finds all supported image files in the given directory.
func findImageFiles(inputDir string, recursive bool) ([]string, error) {
	var imageFiles []string

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if !recursive && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}
		if imageio.SupportedInput(path) {
			imageFiles = append(imageFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(imageFiles)
	return imageFiles, nil
}
