// Package utils contains general helpers shared across the tree tool.
package utils

import (
	"os"
	"path/filepath"
)

const (
	// GitIgnoreFileName is the name of the Git ignore file read from the scan root.
	GitIgnoreFileName = ".gitignore"
	// GlobalConfigDirectoryName is the per-user configuration directory under $HOME.
	GlobalConfigDirectoryName = ".treemk"
	// GlobalConfigFileName is the configuration file inside the global directory.
	GlobalConfigFileName = "config.yaml"
	// LocalConfigFileName is the per-project configuration file.
	LocalConfigFileName = ".treemk.yaml"
	// SaveDirectoryName is the directory reports are saved into.
	SaveDirectoryName = ".trees"
)

// ErrorLogFormat defines the formatting string for fatal error messages.
const ErrorLogFormat = "Error: %v"

// DeduplicatePatterns removes duplicate patterns from a slice while
// preserving order. The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// IsDirectory returns true if the given path exists and is a directory.
func IsDirectory(path string) bool {
	fileInfo, statError := os.Stat(path)
	if statError != nil {
		return false
	}
	return fileInfo.IsDir()
}

// UserConfigDirectory returns the per-user configuration directory, or an
// empty string when the home directory cannot be determined.
func UserConfigDirectory() string {
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil || homeDirectory == "" {
		return ""
	}
	return filepath.Join(homeDirectory, GlobalConfigDirectoryName)
}
