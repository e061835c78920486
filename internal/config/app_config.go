package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/treemk/treemk/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the file-supplied defaults for every
// command option. Flag values override these at the CLI layer.
type ApplicationConfiguration struct {
	Scan    ScanConfiguration   `mapstructure:"scan"`
	Reports ReportConfiguration `mapstructure:"reports"`
	Save    SaveConfiguration   `mapstructure:"save"`
}

// ScanConfiguration defines traversal and filtering defaults.
type ScanConfiguration struct {
	MaxDepth        *int     `mapstructure:"max_depth"`
	OnlyDirs        *bool    `mapstructure:"only_dirs"`
	ShowHidden      *bool    `mapstructure:"show_hidden"`
	DirsFirst       *bool    `mapstructure:"dirs_first"`
	CaseSensitive   *bool    `mapstructure:"case_sensitive"`
	UseGitignore    *bool    `mapstructure:"use_gitignore"`
	CatchAll        *bool    `mapstructure:"catch_all"`
	Exclude         []string `mapstructure:"exclude"`
	NoRecurse       []string `mapstructure:"no_recurse"`
	HiddenInclude   []string `mapstructure:"hidden_include"`
	HiddenNoRecurse []string `mapstructure:"hidden_no_recurse"`
	HiddenRecurse   []string `mapstructure:"hidden_recurse"`
}

// ReportConfiguration defines defaults for the post-tree report sections.
type ReportConfiguration struct {
	Enabled      *bool `mapstructure:"enabled"`
	MeasureLimit *int  `mapstructure:"measure_limit"`
}

// SaveConfiguration defines defaults for report persistence.
type SaveConfiguration struct {
	Enabled          *bool    `mapstructure:"enabled"`
	ExtraDirectories []string `mapstructure:"extra_directories"`
}

// LoadApplicationConfiguration loads configuration from the global file in
// the user's configuration directory and the local file in the working
// directory, local values overriding global ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	if localPath != "" {
		localConfig, loadError := loadConfigurationFromPath(localPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(localConfig)
	}

	merged.Scan.Exclude = utils.DeduplicatePatterns(merged.Scan.Exclude)
	merged.Scan.NoRecurse = utils.DeduplicatePatterns(merged.Scan.NoRecurse)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	pathInfo, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if pathInfo.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined
// configuration. Only fields the override actually sets are copied.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Scan = result.Scan.merge(override.Scan)
	result.Reports = result.Reports.merge(override.Reports)
	result.Save = result.Save.merge(override.Save)
	return result
}

func (configuration ScanConfiguration) merge(override ScanConfiguration) ScanConfiguration {
	result := configuration
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.OnlyDirs != nil {
		result.OnlyDirs = cloneBool(override.OnlyDirs)
	}
	if override.ShowHidden != nil {
		result.ShowHidden = cloneBool(override.ShowHidden)
	}
	if override.DirsFirst != nil {
		result.DirsFirst = cloneBool(override.DirsFirst)
	}
	if override.CaseSensitive != nil {
		result.CaseSensitive = cloneBool(override.CaseSensitive)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.CatchAll != nil {
		result.CatchAll = cloneBool(override.CatchAll)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if len(override.NoRecurse) > 0 {
		result.NoRecurse = append([]string{}, utils.DeduplicatePatterns(override.NoRecurse)...)
	}
	if len(override.HiddenInclude) > 0 {
		result.HiddenInclude = append([]string{}, override.HiddenInclude...)
	}
	if len(override.HiddenNoRecurse) > 0 {
		result.HiddenNoRecurse = append([]string{}, override.HiddenNoRecurse...)
	}
	if len(override.HiddenRecurse) > 0 {
		result.HiddenRecurse = append([]string{}, override.HiddenRecurse...)
	}
	return result
}

func (configuration ReportConfiguration) merge(override ReportConfiguration) ReportConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.MeasureLimit != nil {
		result.MeasureLimit = cloneInt(override.MeasureLimit)
	}
	return result
}

func (configuration SaveConfiguration) merge(override SaveConfiguration) SaveConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if len(override.ExtraDirectories) > 0 {
		result.ExtraDirectories = append([]string{}, override.ExtraDirectories...)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
