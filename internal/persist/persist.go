// Package persist writes rendered reports to their save locations with
// deterministic timestamped naming.
package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/treemk/treemk/internal/utils"
)

const (
	savedFileExtension = ".txt"
	fileNameSeparator  = "-"

	saveDirectoryPermissions = 0o755
	savedFilePermissions     = 0o644

	warningWriteFailedFormat = "failed to write %s: %v"
)

// TimestampedFileName returns the deterministic report filename for a
// scan root name at the given instant: <root>-YYYY.MM.DD.HH.MM.SS.txt.
func TimestampedFileName(rootName string, at time.Time) string {
	return rootName + fileNameSeparator + utils.FormatSaveTimestamp(at) + savedFileExtension
}

// Saver resolves save targets and writes the report text to all of them.
type Saver struct {
	// baseDirectory is the per-user fallback location, normally the
	// user's configuration directory. Empty disables the fallback target.
	baseDirectory    string
	extraDirectories []string
	logger           *zap.Logger
	clock            func() time.Time
}

// NewSaver constructs a Saver. A nil clock defaults to time.Now.
func NewSaver(baseDirectory string, extraDirectories []string, logger *zap.Logger, clock func() time.Time) *Saver {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saver{
		baseDirectory:    baseDirectory,
		extraDirectories: extraDirectories,
		logger:           logger,
		clock:            clock,
	}
}

// Targets derives every file path one save operation writes: the scan
// root's own save directory, the per-user fallback, and each configured
// extra directory. An extra directory that does not exist falls back to
// the per-user location. All targets share one timestamp.
func (saver *Saver) Targets(rootPath string) []string {
	rootName := filepath.Base(rootPath)
	fileName := TimestampedFileName(rootName, saver.clock())

	targets := []string{filepath.Join(rootPath, utils.SaveDirectoryName, fileName)}

	fallbackDirectory := ""
	if saver.baseDirectory != "" {
		fallbackDirectory = filepath.Join(saver.baseDirectory, utils.SaveDirectoryName, rootName)
		targets = append(targets, filepath.Join(fallbackDirectory, fileName))
	}

	for _, extraDirectory := range saver.extraDirectories {
		if utils.IsDirectory(extraDirectory) {
			targets = append(targets, filepath.Join(extraDirectory, fileName))
		} else if fallbackDirectory != "" {
			targets = append(targets, filepath.Join(fallbackDirectory, fileName))
		}
	}

	return utils.DeduplicatePatterns(targets)
}

// Save writes the text to every target concurrently and returns the paths
// written successfully. Individual write failures are logged and skipped;
// they never fail the remaining targets.
func (saver *Saver) Save(ctx context.Context, rootPath string, text string) []string {
	targets := saver.Targets(rootPath)
	written := make([]string, len(targets))

	group, groupCtx := errgroup.WithContext(ctx)
	for targetIndex, target := range targets {
		targetIndex, target := targetIndex, target
		group.Go(func() error {
			if contextError := groupCtx.Err(); contextError != nil {
				return contextError
			}
			if writeError := writeTarget(target, text); writeError != nil {
				saver.logger.Warn(fmt.Sprintf(warningWriteFailedFormat, target, writeError))
				return nil
			}
			written[targetIndex] = target
			return nil
		})
	}
	_ = group.Wait()

	var saved []string
	for _, writtenTarget := range written {
		if writtenTarget != "" {
			saved = append(saved, writtenTarget)
		}
	}
	return saved
}

func writeTarget(target string, text string) error {
	if mkdirError := os.MkdirAll(filepath.Dir(target), saveDirectoryPermissions); mkdirError != nil {
		return mkdirError
	}
	return os.WriteFile(target, []byte(text), savedFilePermissions)
}
