// Package output turns the walker's visit records into connector-formatted
// tree lines and the optional report sections appended after them.
package output

import (
	"fmt"
	"strings"

	"github.com/treemk/treemk/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix = "/"

	// accessErrorAnnotationFormat wraps the inaccessible annotation in
	// single angle quotation marks after the entry name.
	accessErrorAnnotationFormat = " ‹%s›"

	lineSeparator = "\n"
)

// Report is the rendered scan artifact: the display lines plus the counts
// the caller surfaces.
type Report struct {
	// Lines holds one tree line per visit record, in display order.
	Lines []string
	// EntryCount is the number of records rendered.
	EntryCount int
	// ErrorCount is the number of inaccessible entries rendered.
	ErrorCount int
}

// Text returns the persisted form of the report: the same lines joined
// with newlines and newline-terminated, byte-identical line-for-line with
// Lines.
func (report *Report) Text() string {
	if len(report.Lines) == 0 {
		return ""
	}
	return strings.Join(report.Lines, lineSeparator) + lineSeparator
}

// TreeRenderer consumes an ordered visit-record sequence exactly once and
// accumulates the indented tree lines. The prefix for each record is built
// from its ancestry chain: a pipe segment for every ancestor that was not
// the last sibling at its level, blank padding for one that was.
type TreeRenderer struct {
	lines []string
	// childPrefixes[depth] is the prefix for children of the most recent
	// record seen at that depth.
	childPrefixes []string
	entryCount    int
	errorCount    int
}

// NewTreeRenderer returns a renderer ready for one record sequence.
func NewTreeRenderer() *TreeRenderer {
	return &TreeRenderer{}
}

// Visit renders one record. Records must arrive in the walker's display
// order; this is the walker's VisitFunc.
func (renderer *TreeRenderer) Visit(record types.VisitRecord) error {
	displayName := record.Entry.Name
	if record.Entry.Kind == types.EntryKindDirectory || record.Entry.Kind == types.EntryKindInaccessible {
		displayName += directorySuffix
	}
	if record.Entry.Kind == types.EntryKindInaccessible {
		displayName += annotate(record.AccessError)
	}

	depth := record.Entry.Depth
	if depth == 0 {
		renderer.lines = append(renderer.lines, displayName)
		renderer.setChildPrefix(0, "")
	} else {
		parentPrefix := renderer.childPrefixes[depth-1]
		connector := treeBranchConnector
		padding := treeBranchPadding
		if record.IsLastSibling {
			connector = treeLastConnector
			padding = treeLastPadding
		}
		renderer.lines = append(renderer.lines, parentPrefix+connector+displayName)
		renderer.setChildPrefix(depth, parentPrefix+padding)
	}

	renderer.entryCount++
	if record.Entry.Kind == types.EntryKindInaccessible {
		renderer.errorCount++
	}
	return nil
}

// Report returns the accumulated artifact.
func (renderer *TreeRenderer) Report() *Report {
	return &Report{
		Lines:      renderer.lines,
		EntryCount: renderer.entryCount,
		ErrorCount: renderer.errorCount,
	}
}

// setChildPrefix records the prefix children at depth+1 inherit, shrinking
// the ancestry chain when the walk climbs back up.
func (renderer *TreeRenderer) setChildPrefix(depth int, prefix string) {
	if depth < len(renderer.childPrefixes) {
		renderer.childPrefixes = renderer.childPrefixes[:depth]
	}
	renderer.childPrefixes = append(renderer.childPrefixes, prefix)
}

func annotate(accessError string) string {
	if accessError == "" {
		accessError = "inaccessible"
	}
	return fmt.Sprintf(accessErrorAnnotationFormat, accessError)
}
