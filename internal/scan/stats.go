package scan

import (
	"os"
	"path/filepath"

	"github.com/treemk/treemk/internal/types"
)

// SubtreeStats summarizes the visible contents beneath a directory that
// the tree itself does not show.
type SubtreeStats struct {
	// MaxRelativeDepth is the deepest visible level below the start
	// directory, the start itself being level 0.
	MaxRelativeDepth int
	// Directories counts visible directories below the start directory.
	Directories int
	// Files counts visible files below the start directory.
	Files int
}

// measureFrame pairs a directory with its level below the measured start.
type measureFrame struct {
	entry types.Entry
	level int
}

// MeasureSubtree walks the subtree under startRelativePath breadth-first,
// applying the same visibility rules as the main walk, and returns its
// statistics. extraLimit caps how many levels below the start are
// measured; zero or negative means unlimited. Listing failures skip the
// affected branch and never fail the measurement.
func (walker *Walker) MeasureSubtree(startRelativePath string, extraLimit int) SubtreeStats {
	statistics := SubtreeStats{}

	startAbsolutePath := walker.config.Root
	if startRelativePath != "" && startRelativePath != relativePathSeparator {
		startAbsolutePath = filepath.Join(walker.config.Root, filepath.FromSlash(startRelativePath))
	}

	queue := []measureFrame{{
		entry: types.Entry{
			AbsolutePath: startAbsolutePath,
			RelativePath: trimRelative(startRelativePath),
			Kind:         types.EntryKindDirectory,
		},
		level: 0,
	}}

	for len(queue) > 0 {
		frame := queue[0]
		queue = queue[1:]
		if extraLimit > 0 && frame.level >= extraLimit {
			continue
		}

		directoryEntries, readDirectoryError := os.ReadDir(frame.entry.AbsolutePath)
		if readDirectoryError != nil {
			continue
		}
		for _, directoryEntry := range directoryEntries {
			childAbsolutePath := filepath.Join(frame.entry.AbsolutePath, directoryEntry.Name())
			childEntry := types.Entry{
				AbsolutePath: childAbsolutePath,
				Name:         directoryEntry.Name(),
				RelativePath: joinRelative(frame.entry.RelativePath, directoryEntry.Name()),
				Depth:        frame.level + 1,
				Kind:         entryKindOf(directoryEntry, childAbsolutePath),
			}
			decision := walker.matcher.Classify(childEntry)
			if decision.Classification == types.ClassificationHiddenSkipped ||
				decision.Classification == types.ClassificationExcluded {
				continue
			}
			switch childEntry.Kind {
			case types.EntryKindDirectory:
				statistics.Directories++
				childLevel := frame.level + 1
				if childLevel > statistics.MaxRelativeDepth {
					statistics.MaxRelativeDepth = childLevel
				}
				queue = append(queue, measureFrame{entry: childEntry, level: childLevel})
			case types.EntryKindFile:
				statistics.Files++
			}
		}
	}

	return statistics
}

// trimRelative strips the trailing slash report records carry.
func trimRelative(relativePath string) string {
	if relativePath == relativePathSeparator {
		return ""
	}
	if len(relativePath) > 0 && relativePath[len(relativePath)-1] == '/' {
		return relativePath[:len(relativePath)-1]
	}
	return relativePath
}
