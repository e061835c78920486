package output

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/treemk/treemk/internal/types"
)

const (
	// twoTabColumnGap separates the two report columns.
	twoTabColumnGap = "                "

	depthPrunedTitleFormat  = "Depth-Pruned Directories (max_depth=%d)"
	depthPrunedLeftFormat   = "Folders @ Level %d:"
	depthPrunedRightHeader  = "Full Directory Depth:"
	depthPrunedEmptyFormat  = "No depth-pruned directories (max_depth=%d)"
	ruleExcludedTitle       = "Rule-Excluded Folders"
	ruleExcludedLeftHeader  = "Excluded Folders:"
	ruleExcludedRightHeader = "Rule Applied:"
	ruleExcludedEmptyText   = "No rule-excluded folders (hidden, gitignore or exclusion list)"
	skippedTotalFormat      = "- Skipped Total: %s Folders | %s Files"

	depthPrunedMinimumLeftWidth  = 35
	reportLeftWidthCeiling       = 70
	depthPrunedMinimumRuleWidth  = 64
	ruleExcludedMinimumRuleWidth = 70
	depthPrunedEmptyRuleWidth    = 39
	reportTableRowLimit          = 4

	// compressionSegmentThreshold is the segment count from which long
	// relative paths are collapsed in report tables.
	compressionSegmentThreshold = 6
)

// MeasureFunc returns the visible statistics beneath a root-relative
// directory path: the deepest level below it, and its directory and file
// counts.
type MeasureFunc func(relativePath string) (maxRelativeDepth int, directories int, files int)

// countPrinter renders totals with thousands separators.
var countPrinter = message.NewPrinter(language.English)

type reportRow struct {
	left  string
	right string
}

// RenderDepthPrunedSection builds the report section listing directories
// cut off by the global depth limit. It returns no lines when no depth
// limit is configured.
func RenderDepthPrunedSection(pruned []types.PrunedDirectory, maxDepth *int, measure MeasureFunc) []string {
	if maxDepth == nil {
		return nil
	}

	title := fmt.Sprintf(depthPrunedTitleFormat, *maxDepth)
	sortedPruned := append([]types.PrunedDirectory(nil), pruned...)
	sort.SliceStable(sortedPruned, func(leftIndex, rightIndex int) bool {
		return strings.ToLower(sortedPruned[leftIndex].RelativePath) < strings.ToLower(sortedPruned[rightIndex].RelativePath)
	})

	compress := *maxDepth >= compressionSegmentThreshold
	var rows []reportRow
	var skippedFoldersTotal int
	var skippedFilesTotal int
	for _, prunedDirectory := range sortedPruned {
		maxRelativeDepth, directories, files := measure(prunedDirectory.RelativePath)
		if maxRelativeDepth <= 0 {
			continue
		}
		skippedFoldersTotal += directories
		skippedFilesTotal += files
		if len(rows) >= reportTableRowLimit {
			continue
		}
		displayPath := prunedDirectory.RelativePath
		if compress {
			displayPath = compressPath(displayPath)
		}
		totalDepth := prunedDirectory.CutoffDepth + maxRelativeDepth
		levelWord := fmt.Sprintf("%d levels", maxRelativeDepth)
		if maxRelativeDepth == 1 {
			levelWord = "1 level"
		}
		rows = append(rows, reportRow{
			left:  displayPath,
			right: fmt.Sprintf("%d (%s skipped)", totalDepth, levelWord),
		})
	}

	if len(rows) == 0 {
		return emptySection(fmt.Sprintf(depthPrunedEmptyFormat, *maxDepth), depthPrunedEmptyRuleWidth)
	}

	leftHeader := fmt.Sprintf(depthPrunedLeftFormat, *maxDepth)
	return tableSection(title, leftHeader, depthPrunedRightHeader, rows,
		depthPrunedMinimumRuleWidth, skippedFoldersTotal, skippedFilesTotal)
}

// RenderRuleExcludedSection builds the report section listing directories
// removed by the hidden policy, gitignore patterns, or the exclusion list.
func RenderRuleExcludedSection(skipped []types.SkippedDirectory, measure MeasureFunc) []string {
	if len(skipped) == 0 {
		return emptySection(ruleExcludedEmptyText, ruleExcludedMinimumRuleWidth)
	}

	sortedSkipped := append([]types.SkippedDirectory(nil), skipped...)
	sort.SliceStable(sortedSkipped, func(leftIndex, rightIndex int) bool {
		return strings.ToLower(sortedSkipped[leftIndex].RelativePath) < strings.ToLower(sortedSkipped[rightIndex].RelativePath)
	})

	var rows []reportRow
	var skippedFoldersTotal int
	var skippedFilesTotal int
	for _, skippedDirectory := range sortedSkipped {
		_, directories, files := measure(skippedDirectory.RelativePath)
		skippedFoldersTotal += directories
		skippedFilesTotal += files
		if len(rows) >= reportTableRowLimit {
			continue
		}
		displayPath := skippedDirectory.RelativePath
		if pathSegmentCount(displayPath) >= compressionSegmentThreshold {
			displayPath = compressPath(displayPath)
		}
		rows = append(rows, reportRow{left: displayPath, right: string(skippedDirectory.Reason)})
	}

	return tableSection(ruleExcludedTitle, ruleExcludedLeftHeader, ruleExcludedRightHeader, rows,
		ruleExcludedMinimumRuleWidth, skippedFoldersTotal, skippedFilesTotal)
}

// tableSection lays out one report table: dash rules, title, two-column
// header, up to four rows, and the skipped totals line.
func tableSection(title string, leftHeader string, rightHeader string, rows []reportRow, minimumRuleWidth int, skippedFolders int, skippedFiles int) []string {
	leftValues := make([]string, 0, len(rows)+1)
	for _, row := range rows {
		leftValues = append(leftValues, row.left)
	}
	leftValues = append(leftValues, leftHeader)
	leftWidth := leftColumnWidth(leftValues, leftHeader)

	headerLine := padRight(leftHeader, leftWidth+2) + twoTabColumnGap + rightHeader
	ruleWidth := minimumRuleWidth
	if len(title) > ruleWidth {
		ruleWidth = len(title)
	}
	if len(headerLine) > ruleWidth {
		ruleWidth = len(headerLine)
	}

	lines := []string{
		dashRule(ruleWidth),
		title,
		dashRule(ruleWidth),
		headerLine,
		dashRule(ruleWidth),
	}
	for _, row := range rows {
		lines = append(lines, "- "+padRight(row.left, leftWidth)+twoTabColumnGap+row.right)
	}
	lines = append(lines,
		dashRule(ruleWidth),
		fmt.Sprintf(skippedTotalFormat, formatCount(skippedFolders), formatCount(skippedFiles)),
		dashRule(ruleWidth),
		"",
	)
	return lines
}

func emptySection(messageText string, minimumRuleWidth int) []string {
	ruleWidth := minimumRuleWidth
	if len(messageText) > ruleWidth {
		ruleWidth = len(messageText)
	}
	return []string{dashRule(ruleWidth), messageText, dashRule(ruleWidth), ""}
}

// compressPath collapses a long relative path to its first three and last
// two segments with an omitted-segment marker between them.
func compressPath(relativePathWithSlash string) string {
	trimmed := strings.TrimSuffix(relativePathWithSlash, "/")
	if trimmed == "" {
		return "./"
	}
	segments := strings.Split(trimmed, "/")
	if len(segments) <= 5 {
		return trimmed + "/"
	}
	omitted := len(segments) - 5
	return strings.Join(segments[:3], "/") + fmt.Sprintf("/...(%d).../", omitted) + strings.Join(segments[len(segments)-2:], "/") + "/"
}

func pathSegmentCount(relativePathWithSlash string) int {
	trimmed := strings.TrimSuffix(relativePathWithSlash, "/")
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "/"))
}

// leftColumnWidth sizes the left column between the configured floor and
// ceiling.
func leftColumnWidth(values []string, header string) int {
	width := depthPrunedMinimumLeftWidth
	if len(header) > width {
		width = len(header)
	}
	for _, value := range values {
		if len(value) > width {
			width = len(value)
		}
	}
	if width > reportLeftWidthCeiling {
		width = reportLeftWidthCeiling
	}
	return width
}

func padRight(value string, width int) string {
	if len(value) >= width {
		return value
	}
	return value + strings.Repeat(" ", width-len(value))
}

func dashRule(width int) string {
	return strings.Repeat("-", width)
}

func formatCount(value int) string {
	return countPrinter.Sprintf("%d", value)
}
