// Package config provides application configuration management for the
// photo watermark tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AppConfig represents the application configuration.
type AppConfig struct {
	// Export defaults
	OutputDirectory string `mapstructure:"output_directory"`
	ExportFormat    string `mapstructure:"export_format"`
	ExportQuality   int    `mapstructure:"export_quality"`
	FilenamePrefix  string `mapstructure:"filename_prefix"`
	FilenameSuffix  string `mapstructure:"filename_suffix"`

	// Settings document location
	SettingsPath string `mapstructure:"settings_path"`

	LogLevel string `mapstructure:"log_level"`

	// Font lookup directories for named font families
	SystemFontPaths []string `mapstructure:"system_font_paths"`

	// Recently opened images, most recent first
	RecentFiles []string `mapstructure:"recent_files"`
}

const maxRecentFiles = 10

// Manager handles configuration loading and management.
type Manager struct {
	config *AppConfig
	viper  *viper.Viper
}

// NewManager creates a new configuration manager.
func NewManager() *Manager {
	v := viper.New()
	setDefaults(v)
	return &Manager{
		config: &AppConfig{},
		viper:  v,
	}
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("output_directory", "./output")
	v.SetDefault("export_format", "jpeg")
	v.SetDefault("export_quality", 90)
	v.SetDefault("filename_prefix", "")
	v.SetDefault("filename_suffix", "_watermark")
	v.SetDefault("settings_path", "./watermark-settings.json")
	v.SetDefault("log_level", "info")

	v.SetDefault("system_font_paths", []string{
		"/usr/share/fonts/truetype/dejavu",
		"/usr/share/fonts/truetype/msttcorefonts",
		"/usr/share/fonts/TTF",
		"/System/Library/Fonts",
		"/System/Library/Fonts/Supplemental",
		"/Library/Fonts",
		"C:\\Windows\\Fonts",
	})
}

// LoadConfig loads configuration from file and environment.
func (m *Manager) LoadConfig(configFile string) error {
	if configFile != "" {
		m.viper.SetConfigFile(configFile)
	} else {
		// Look for config in standard locations
		m.viper.SetConfigName("photomark")
		m.viper.SetConfigType("yaml")
		m.viper.AddConfigPath(".")
		m.viper.AddConfigPath("$HOME/.config/photomark")
		m.viper.AddConfigPath("/etc/photomark")
	}

	// Environment variable support
	m.viper.SetEnvPrefix("PHOTOMARK")
	m.viper.AutomaticEnv()

	if err := m.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}
	return nil
}

// GetAppConfig returns the loaded application configuration.
func (m *Manager) GetAppConfig() *AppConfig {
	return m.config
}

// Set overrides a configuration value for the current process.
func (m *Manager) Set(key string, value interface{}) {
	m.viper.Set(key, value)
	_ = m.viper.Unmarshal(m.config)
}

// AddRecentFile records a recently opened image, keeping the list unique
// and capped at ten entries.
func (m *Manager) AddRecentFile(path string) {
	recent := []string{path}
	for _, p := range m.config.RecentFiles {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentFiles {
		recent = recent[:maxRecentFiles]
	}
	m.config.RecentFiles = recent
	m.viper.Set("recent_files", recent)
}

// SaveConfig saves the current configuration to a file.
func (m *Manager) SaveConfig(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return m.viper.WriteConfigAs(filename)
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./photomark.yaml"
	}
	return filepath.Join(homeDir, ".config", "photomark", "config.yaml")
}

// GenerateExampleConfig creates an example configuration file.
func GenerateExampleConfig(filename string) error {
	manager := NewManager()

	manager.viper.Set("export_format", "png")
	manager.viper.Set("export_quality", 95)
	manager.viper.Set("filename_suffix", "_watermarked")
	manager.viper.Set("output_directory", "./exported")

	return manager.SaveConfig(filename)
}
