package scan

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/treemk/treemk/internal/types"
)

const hiddenPrefix = "."

// Decision is the matcher's verdict for a single entry.
type Decision struct {
	Classification types.Classification
	// Reason names the removing rule when the classification omits the
	// entry; it feeds the rule-excluded report section.
	Reason types.SkipReason
	// DepthLimited marks a non-recursive classification caused by the
	// depth-limit catch-all rather than a pattern, so the walker still
	// records the directory as depth-pruned.
	DepthLimited bool
}

// Matcher evaluates the configured glob rules against a filesystem entry's
// basename and its root-relative path.
type Matcher struct {
	config Config
}

// NewMatcher validates the configuration's patterns and returns a matcher
// bound to it.
func NewMatcher(config Config) (*Matcher, error) {
	if validationError := config.Validate(); validationError != nil {
		return nil, validationError
	}
	return &Matcher{config: config}, nil
}

// Classify decides how the walker treats the entry. Rules short-circuit in
// a fixed order: hidden policy, hidden include/non-recursive lists,
// exclusion (exclusion wins over non-recursion when both match), then
// non-recursion and the depth-limit catch-all.
func (matcher *Matcher) Classify(entry types.Entry) Decision {
	isHidden := strings.HasPrefix(entry.Name, hiddenPrefix)

	if isHidden {
		if !matcher.config.ShowHidden {
			return Decision{Classification: types.ClassificationHiddenSkipped, Reason: types.SkipReasonHidden}
		}
		if len(matcher.config.HiddenIncludePatterns) > 0 &&
			!matcher.matchesAny(entry, matcher.config.HiddenIncludePatterns) {
			return Decision{Classification: types.ClassificationHiddenSkipped, Reason: types.SkipReasonHidden}
		}
		if matcher.matchesAny(entry, matcher.config.HiddenNonRecursivePatterns) &&
			!matcher.matchesAny(entry, matcher.config.HiddenRecursiveExceptions) {
			return Decision{Classification: types.ClassificationNonRecursive}
		}
	}

	if matcher.matchesAny(entry, matcher.config.ExcludePatterns) {
		return Decision{Classification: types.ClassificationExcluded, Reason: types.SkipReasonExclusionList}
	}
	if matcher.matchesAny(entry, matcher.config.GitignorePatterns) {
		return Decision{Classification: types.ClassificationExcluded, Reason: types.SkipReasonGitignore}
	}

	if matcher.matchesAny(entry, matcher.config.NonRecursivePatterns) {
		return Decision{Classification: types.ClassificationNonRecursive}
	}
	if matcher.config.NonRecursiveCatchAll && matcher.config.MaxDepth != nil &&
		entry.Kind == types.EntryKindDirectory && entry.Depth >= *matcher.config.MaxDepth {
		return Decision{Classification: types.ClassificationNonRecursive, DepthLimited: true}
	}

	return Decision{Classification: types.ClassificationIncluded}
}

// matchesAny reports whether any pattern matches the entry's basename, its
// root-relative path, or (for directories) the relative path with a
// trailing slash. Two evaluation passes share one glob engine.
func (matcher *Matcher) matchesAny(entry types.Entry, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	candidateName := matcher.fold(entry.Name)
	candidatePath := matcher.fold(entry.RelativePath)
	for _, pattern := range patterns {
		foldedPattern := matcher.fold(pattern)
		if doublestar.MatchUnvalidated(foldedPattern, candidateName) {
			return true
		}
		if candidatePath != "" && doublestar.MatchUnvalidated(foldedPattern, candidatePath) {
			return true
		}
		if entry.Kind == types.EntryKindDirectory &&
			doublestar.MatchUnvalidated(foldedPattern, candidatePath+"/") {
			return true
		}
	}
	return false
}

// fold lowercases the value unless matching is case-sensitive.
func (matcher *Matcher) fold(value string) string {
	if matcher.config.CaseSensitiveSort {
		return value
	}
	return strings.ToLower(value)
}
