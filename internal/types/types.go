// Package types defines shared data structures used across the tree tool.
package types

// EntryKind identifies what a visited filesystem entry is.
type EntryKind string

const (
	// EntryKindDirectory marks a directory entry.
	EntryKindDirectory EntryKind = "directory"
	// EntryKindFile marks a regular file entry.
	EntryKindFile EntryKind = "file"
	// EntryKindInaccessible marks a directory whose listing failed.
	EntryKindInaccessible EntryKind = "inaccessible"
)

// Classification describes how the walker treats an entry.
type Classification string

const (
	// ClassificationIncluded marks an entry that is shown and, for directories, expanded.
	ClassificationIncluded Classification = "included"
	// ClassificationExcluded marks an entry that is omitted together with its descendants.
	ClassificationExcluded Classification = "excluded"
	// ClassificationNonRecursive marks a directory that is shown but never expanded.
	ClassificationNonRecursive Classification = "non_recursive"
	// ClassificationHiddenSkipped marks a hidden entry omitted by the hidden-entry policy.
	ClassificationHiddenSkipped Classification = "hidden_skipped"
)

// SkipReason names the rule that removed a directory from the tree.
type SkipReason string

const (
	// SkipReasonHidden reports removal by the hidden-entry policy.
	SkipReasonHidden SkipReason = "Hide hidden"
	// SkipReasonGitignore reports removal by a .gitignore pattern.
	SkipReasonGitignore SkipReason = "gitignore list"
	// SkipReasonExclusionList reports removal by a configured exclusion pattern.
	SkipReasonExclusionList SkipReason = "Exclusion list"
)

// Entry is one filesystem node visited during a walk.
type Entry struct {
	// AbsolutePath is the resolved path of the entry.
	AbsolutePath string
	// Name is the entry's basename.
	Name string
	// RelativePath is the path relative to the scanned root using forward
	// slashes on every platform. Empty for the root itself.
	RelativePath string
	// Depth is the distance from the root; the root is depth 0.
	Depth int
	// Kind reports whether the entry is a directory, file, or an
	// inaccessible directory.
	Kind EntryKind
}

// VisitRecord is the walker's per-entry output consumed by the renderer.
type VisitRecord struct {
	Entry          Entry
	Classification Classification
	// SiblingIndex is the entry's position among its emitted siblings.
	SiblingIndex int
	// IsLastSibling selects the closing connector during rendering.
	IsLastSibling bool
	// AccessError carries a human-readable annotation when Kind is
	// inaccessible, for example "permission denied".
	AccessError string
}

// PrunedDirectory records a directory cut off by the depth limit.
type PrunedDirectory struct {
	// RelativePath is the slash-normalized path with a trailing slash.
	RelativePath string
	// CutoffDepth is the absolute depth at which expansion stopped.
	CutoffDepth int
}

// SkippedDirectory records a directory removed by a filtering rule.
type SkippedDirectory struct {
	// RelativePath is the slash-normalized path with a trailing slash.
	RelativePath string
	// Reason names the rule that removed the directory.
	Reason SkipReason
}
