// Package config loads the application configuration files and the scan
// root's gitignore patterns.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/treemk/treemk/internal/utils"
)

const (
	// commentPrefix marks ignore-file lines that carry no pattern.
	commentPrefix = "#"
	// directoryPatternSuffix marks gitignore patterns targeting directories.
	directoryPatternSuffix = "/"

	warningCloseFileFormat = "Warning: failed to close %s: %v\n"
	errorReadIgnoreFormat  = "reading %s from %s: %w"
)

// LoadGitignorePatterns reads the .gitignore file inside the given
// directory and returns its patterns with comments and blank lines
// removed and trailing directory slashes trimmed, so the entries feed the
// same glob engine as configured patterns. A missing file yields no
// patterns and no error.
//
// #nosec G304
func LoadGitignorePatterns(absoluteDirectoryPath string) ([]string, error) {
	gitignorePath := filepath.Join(absoluteDirectoryPath, utils.GitIgnoreFileName)
	fileHandle, openFileError := os.Open(gitignorePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorReadIgnoreFormat, utils.GitIgnoreFileName, absoluteDirectoryPath, openFileError)
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, warningCloseFileFormat, gitignorePath, closeError)
		}
	}()

	var patterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		trimmedLine = strings.TrimSuffix(trimmedLine, directoryPatternSuffix)
		patterns = append(patterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(errorReadIgnoreFormat, utils.GitIgnoreFileName, absoluteDirectoryPath, scanError)
	}

	return utils.DeduplicatePatterns(patterns), nil
}
