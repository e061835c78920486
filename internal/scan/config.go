// Package scan implements the traversal-and-filtering engine: a glob
// matcher classifying filesystem entries and an explicit-stack walker
// producing ordered visit records.
package scan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// errorRootMissingFormat reports a root path that does not exist.
	errorRootMissingFormat = "root path '%s' does not exist"
	// errorRootStatFormat reports a failure to stat the root path.
	errorRootStatFormat = "stat failed for root '%s': %w"
	// errorRootNotDirectoryFormat reports a root path that is not a directory.
	errorRootNotDirectoryFormat = "root path '%s' is not a directory"
	// errorNegativeDepthFormat reports a negative depth limit.
	errorNegativeDepthFormat = "maximum depth must be non-negative, got %d"
	// errorInvalidPatternFormat reports a glob pattern that fails compilation.
	errorInvalidPatternFormat = "invalid %s pattern '%s': %w"
	// errorAbsoluteRootFormat reports a failure to resolve the root path.
	errorAbsoluteRootFormat = "resolving root path '%s': %w"
)

// Config is the immutable configuration shared by matcher and walker for
// the duration of one scan.
type Config struct {
	// Root is the directory the scan starts from.
	Root string
	// OnlyDirs removes files from the emitted sequence entirely.
	OnlyDirs bool
	// ShowHidden includes dot-prefixed entries, subject to the hidden
	// pattern lists below.
	ShowHidden bool
	// MaxDepth bounds the traversal; nil means unbounded. The root is
	// depth 0, and directories at exactly MaxDepth are listed but never
	// expanded.
	MaxDepth *int
	// DirectoriesFirst lists directories before other entries within each
	// directory, Windows Explorer style.
	DirectoriesFirst bool
	// CaseSensitiveSort makes both sibling ordering and pattern matching
	// case-sensitive.
	CaseSensitiveSort bool
	// ExcludePatterns remove matching entries and their descendants.
	ExcludePatterns []string
	// GitignorePatterns behave like ExcludePatterns but are reported
	// separately as gitignore removals.
	GitignorePatterns []string
	// NonRecursivePatterns keep matching directories visible without
	// enumerating their children.
	NonRecursivePatterns []string
	// HiddenIncludePatterns, when non-empty and ShowHidden is set, gate
	// which hidden entries appear at all.
	HiddenIncludePatterns []string
	// HiddenNonRecursivePatterns keep matching hidden directories visible
	// without expansion when ShowHidden is set.
	HiddenNonRecursivePatterns []string
	// HiddenRecursiveExceptions restore normal recursion for hidden
	// directories that would otherwise match HiddenNonRecursivePatterns.
	HiddenRecursiveExceptions []string
	// NonRecursiveCatchAll classifies every directory at the depth limit
	// as non-recursive during rule evaluation.
	NonRecursiveCatchAll bool
}

// Validate checks the configuration before any traversal begins. The root
// must exist and be a directory, the depth limit must be non-negative, and
// every glob pattern must compile, so a malformed pattern can never
// silently mask part of a tree mid-scan.
func (config Config) Validate() error {
	rootInfo, rootStatError := os.Stat(config.Root)
	if rootStatError != nil {
		if os.IsNotExist(rootStatError) {
			return fmt.Errorf(errorRootMissingFormat, config.Root)
		}
		return fmt.Errorf(errorRootStatFormat, config.Root, rootStatError)
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf(errorRootNotDirectoryFormat, config.Root)
	}

	if config.MaxDepth != nil && *config.MaxDepth < 0 {
		return fmt.Errorf(errorNegativeDepthFormat, *config.MaxDepth)
	}

	patternLists := []struct {
		label    string
		patterns []string
	}{
		{"exclude", config.ExcludePatterns},
		{"gitignore", config.GitignorePatterns},
		{"non-recursive", config.NonRecursivePatterns},
		{"hidden-include", config.HiddenIncludePatterns},
		{"hidden-non-recursive", config.HiddenNonRecursivePatterns},
		{"hidden-recursive-exception", config.HiddenRecursiveExceptions},
	}
	for _, list := range patternLists {
		for _, pattern := range list.patterns {
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf(errorInvalidPatternFormat, list.label, pattern, doublestar.ErrBadPattern)
			}
		}
	}

	return nil
}

// ResolveRoot returns the configuration with Root converted to a cleaned
// absolute path.
func (config Config) ResolveRoot() (Config, error) {
	absoluteRoot, absolutePathError := filepath.Abs(config.Root)
	if absolutePathError != nil {
		return config, fmt.Errorf(errorAbsoluteRootFormat, config.Root, absolutePathError)
	}
	resolved := config
	resolved.Root = filepath.Clean(absoluteRoot)
	return resolved, nil
}
