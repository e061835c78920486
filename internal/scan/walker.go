package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/treemk/treemk/internal/types"
)

const (
	// annotationPermissionDenied annotates directories whose listing was
	// refused by the operating system.
	annotationPermissionDenied = "permission denied"
	// relativePathSeparator joins root-relative path segments on every platform.
	relativePathSeparator = "/"
)

// VisitFunc receives visit records in display order. Returning an error
// aborts the walk.
type VisitFunc func(record types.VisitRecord) error

// Summary aggregates what one walk produced beyond the record sequence.
type Summary struct {
	// Entries is the number of visit records emitted.
	Entries int
	// Errors is the number of inaccessible directories encountered.
	Errors int
	// PrunedDirectories lists directories cut off by the depth limit.
	PrunedDirectories []types.PrunedDirectory
	// SkippedDirectories lists directories removed by filtering rules.
	SkippedDirectories []types.SkippedDirectory
}

// Walker performs a deterministic pre-order traversal of the configured
// root, classifying every entry through the matcher. The traversal is
// synchronous and single-threaded; an explicit stack keeps arbitrarily
// deep trees off the call stack.
type Walker struct {
	config  Config
	matcher *Matcher
	// expandedDirectories tracks canonicalized directory paths already
	// expanded. Populated only for unbounded scans, where it is the sole
	// guard against symlink-induced revisits.
	expandedDirectories map[string]struct{}
}

// NewWalker validates the configuration, resolves the root, and returns a
// walker ready for a single Walk call.
func NewWalker(config Config) (*Walker, error) {
	resolvedConfig, resolveError := config.ResolveRoot()
	if resolveError != nil {
		return nil, resolveError
	}
	matcher, matcherError := NewMatcher(resolvedConfig)
	if matcherError != nil {
		return nil, matcherError
	}
	return &Walker{
		config:              resolvedConfig,
		matcher:             matcher,
		expandedDirectories: make(map[string]struct{}),
	}, nil
}

// Config returns the resolved configuration the walker operates on.
func (walker *Walker) Config() Config {
	return walker.config
}

// stackFrame pairs a ready-to-emit record with the expansion decision made
// when its parent was listed.
type stackFrame struct {
	record types.VisitRecord
	expand bool
}

// Walk traverses the root depth-first in display order, invoking visit for
// every emitted record exactly once. Listing failures never abort the
// walk: the offending directory is emitted as inaccessible and traversal
// continues with its siblings.
func (walker *Walker) Walk(visit VisitFunc) (*Summary, error) {
	summary := &Summary{}

	rootRecord := types.VisitRecord{
		Entry: types.Entry{
			AbsolutePath: walker.config.Root,
			Name:         filepath.Base(walker.config.Root),
			RelativePath: "",
			Depth:        0,
			Kind:         types.EntryKindDirectory,
		},
		Classification: types.ClassificationIncluded,
		SiblingIndex:   0,
		IsLastSibling:  true,
	}
	rootExpandable := walker.config.MaxDepth == nil || *walker.config.MaxDepth > 0
	if !rootExpandable {
		rootRecord.Classification = types.ClassificationNonRecursive
		summary.PrunedDirectories = append(summary.PrunedDirectories, types.PrunedDirectory{
			RelativePath: relativePathSeparator,
			CutoffDepth:  0,
		})
	}

	if rootExpandable && walker.config.MaxDepth == nil {
		// Seed the cycle guard so a link back to the root is never re-expanded.
		walker.alreadyExpanded(walker.config.Root)
	}

	stack := []stackFrame{{record: rootRecord, expand: rootExpandable}}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if frame.record.Entry.Kind != types.EntryKindDirectory || !frame.expand {
			summary.Entries++
			if visitError := visit(frame.record); visitError != nil {
				return summary, visitError
			}
			continue
		}

		directoryEntries, readDirectoryError := os.ReadDir(frame.record.Entry.AbsolutePath)
		if readDirectoryError != nil {
			frame.record.Entry.Kind = types.EntryKindInaccessible
			frame.record.AccessError = accessAnnotation(readDirectoryError)
			summary.Entries++
			summary.Errors++
			if visitError := visit(frame.record); visitError != nil {
				return summary, visitError
			}
			continue
		}

		summary.Entries++
		if visitError := visit(frame.record); visitError != nil {
			return summary, visitError
		}

		children := walker.collectChildren(frame.record.Entry, directoryEntries, summary)
		for childIndex := len(children) - 1; childIndex >= 0; childIndex-- {
			stack = append(stack, children[childIndex])
		}
	}

	return summary, nil
}

// collectChildren classifies, filters, and orders the listed entries of
// one directory and decides which of them the walker expands.
func (walker *Walker) collectChildren(parent types.Entry, directoryEntries []os.DirEntry, summary *Summary) []stackFrame {
	childDepth := parent.Depth + 1
	var visibleChildren []stackFrame

	for _, directoryEntry := range directoryEntries {
		childEntry := types.Entry{
			AbsolutePath: filepath.Join(parent.AbsolutePath, directoryEntry.Name()),
			Name:         directoryEntry.Name(),
			RelativePath: joinRelative(parent.RelativePath, directoryEntry.Name()),
			Depth:        childDepth,
			Kind:         entryKindOf(directoryEntry, filepath.Join(parent.AbsolutePath, directoryEntry.Name())),
		}

		decision := walker.matcher.Classify(childEntry)
		switch decision.Classification {
		case types.ClassificationHiddenSkipped, types.ClassificationExcluded:
			if childEntry.Kind == types.EntryKindDirectory {
				summary.SkippedDirectories = append(summary.SkippedDirectories, types.SkippedDirectory{
					RelativePath: childEntry.RelativePath + relativePathSeparator,
					Reason:       decision.Reason,
				})
			}
			continue
		}
		if walker.config.OnlyDirs && childEntry.Kind == types.EntryKindFile {
			continue
		}

		childRecord := types.VisitRecord{Entry: childEntry, Classification: decision.Classification}
		expand := false
		if childEntry.Kind == types.EntryKindDirectory {
			switch {
			case decision.Classification == types.ClassificationIncluded &&
				walker.config.MaxDepth != nil && childDepth >= *walker.config.MaxDepth:
				childRecord.Classification = types.ClassificationNonRecursive
				summary.PrunedDirectories = append(summary.PrunedDirectories, types.PrunedDirectory{
					RelativePath: childEntry.RelativePath + relativePathSeparator,
					CutoffDepth:  childDepth,
				})
			case decision.DepthLimited:
				summary.PrunedDirectories = append(summary.PrunedDirectories, types.PrunedDirectory{
					RelativePath: childEntry.RelativePath + relativePathSeparator,
					CutoffDepth:  childDepth,
				})
			case decision.Classification == types.ClassificationIncluded &&
				walker.config.MaxDepth == nil && walker.alreadyExpanded(childEntry.AbsolutePath):
				childRecord.Classification = types.ClassificationNonRecursive
			case decision.Classification == types.ClassificationIncluded:
				expand = true
			}
		}

		visibleChildren = append(visibleChildren, stackFrame{record: childRecord, expand: expand})
	}

	walker.sortChildren(visibleChildren)
	for childIndex := range visibleChildren {
		visibleChildren[childIndex].record.SiblingIndex = childIndex
		visibleChildren[childIndex].record.IsLastSibling = childIndex == len(visibleChildren)-1
	}
	return visibleChildren
}

// sortChildren orders siblings deterministically: directories first when
// configured, then alphabetically with the configured case sensitivity,
// and byte order as the final tiebreak.
func (walker *Walker) sortChildren(children []stackFrame) {
	sort.SliceStable(children, func(leftIndex, rightIndex int) bool {
		left := children[leftIndex].record.Entry
		right := children[rightIndex].record.Entry
		if walker.config.DirectoriesFirst {
			leftIsDirectory := left.Kind == types.EntryKindDirectory
			rightIsDirectory := right.Kind == types.EntryKindDirectory
			if leftIsDirectory != rightIsDirectory {
				return leftIsDirectory
			}
		}
		leftKey := walker.sortKey(left.Name)
		rightKey := walker.sortKey(right.Name)
		if leftKey != rightKey {
			return leftKey < rightKey
		}
		return left.Name < right.Name
	})
}

// sortKey folds case unless sorting is case-sensitive.
func (walker *Walker) sortKey(name string) string {
	if walker.config.CaseSensitiveSort {
		return name
	}
	return strings.ToLower(name)
}

// alreadyExpanded reports whether the directory's canonical path was
// expanded before, recording it otherwise. Canonicalization failures fall
// back to the literal path.
func (walker *Walker) alreadyExpanded(absolutePath string) bool {
	canonicalPath, canonicalizeError := filepath.EvalSymlinks(absolutePath)
	if canonicalizeError != nil {
		canonicalPath = absolutePath
	}
	if _, seen := walker.expandedDirectories[canonicalPath]; seen {
		return true
	}
	walker.expandedDirectories[canonicalPath] = struct{}{}
	return false
}

// entryKindOf resolves a directory entry's kind, following symlinks so a
// link to a directory walks as its target.
func entryKindOf(directoryEntry os.DirEntry, absolutePath string) types.EntryKind {
	if directoryEntry.IsDir() {
		return types.EntryKindDirectory
	}
	if directoryEntry.Type()&fs.ModeSymlink != 0 {
		targetInfo, statError := os.Stat(absolutePath)
		if statError == nil && targetInfo.IsDir() {
			return types.EntryKindDirectory
		}
	}
	return types.EntryKindFile
}

// joinRelative appends a name to a slash-normalized relative path.
func joinRelative(parentRelativePath string, name string) string {
	if parentRelativePath == "" {
		return name
	}
	return parentRelativePath + relativePathSeparator + name
}

// accessAnnotation converts a listing error into the short human-readable
// form embedded in the rendered tree.
func accessAnnotation(listError error) string {
	if os.IsPermission(listError) {
		return annotationPermissionDenied
	}
	var pathError *fs.PathError
	if errors.As(listError, &pathError) {
		return pathError.Err.Error()
	}
	return listError.Error()
}
