package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xinyangwy/PhotoWatermark2-wzl/internal/config"
	"github.com/xinyangwy/PhotoWatermark2-wzl/pkg/settings"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Manage configuration files for the photo watermark tool.`,
}

var generateConfigCmd = &cobra.Command{
	Use:   "generate [filename]",
	Short: "Generate example configuration file",
	Long: `Generate an example configuration file with default values.

Example:
  photomark config generate config.yaml
  photomark config generate  # generates to default location`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerateConfig,
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values.`,
	RunE:  runShowConfig,
}

var generateSettingsCmd = &cobra.Command{
	Use:   "settings [filename]",
	Short: "Generate a default watermark settings file",
	Long: `Write the default watermark settings document as JSON.

Example:
  photomark config settings marks.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerateSettings,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(generateConfigCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(generateSettingsCmd)
}

func runGenerateConfig(cmd *cobra.Command, args []string) error {
	var filename string
	if len(args) > 0 {
		filename = args[0]
	} else {
		filename = config.GetDefaultConfigPath()
	}

	logger.WithField("file", filename).Info("Generating configuration file")

	if err := config.GenerateExampleConfig(filename); err != nil {
		return fmt.Errorf("generating config file: %w", err)
	}

	logger.Infof("Configuration file generated: %s", filename)
	return nil
}

func runGenerateSettings(cmd *cobra.Command, args []string) error {
	filename := configMgr.GetAppConfig().SettingsPath
	if len(args) > 0 {
		filename = args[0]
	}

	logger.WithField("file", filename).Info("Generating watermark settings file")

	if err := settings.Default().Save(filename); err != nil {
		return fmt.Errorf("generating settings file: %w", err)
	}

	logger.Infof("Settings file generated: %s", filename)
	return nil
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	appConfig := configMgr.GetAppConfig()

	fmt.Printf("Current Configuration:\n")
	fmt.Printf("  Output Directory:  %s\n", appConfig.OutputDirectory)
	fmt.Printf("  Export Format:     %s\n", appConfig.ExportFormat)
	fmt.Printf("  Export Quality:    %d\n", appConfig.ExportQuality)
	fmt.Printf("  Filename Prefix:   %q\n", appConfig.FilenamePrefix)
	fmt.Printf("  Filename Suffix:   %q\n", appConfig.FilenameSuffix)
	fmt.Printf("  Settings Path:     %s\n", appConfig.SettingsPath)
	fmt.Printf("  Log Level:         %s\n", appConfig.LogLevel)

	fmt.Printf("\nSystem Font Paths:\n")
	for _, path := range appConfig.SystemFontPaths {
		fmt.Printf("  - %s\n", path)
	}

	if len(appConfig.RecentFiles) > 0 {
		fmt.Printf("\nRecent Files:\n")
		for _, path := range appConfig.RecentFiles {
			fmt.Printf("  - %s\n", path)
		}
	}
	return nil
}
