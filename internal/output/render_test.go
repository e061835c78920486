package output_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/treemk/treemk/internal/output"
	"github.com/treemk/treemk/internal/scan"
	"github.com/treemk/treemk/internal/types"
)

func renderRecords(testingInstance *testing.T, records []types.VisitRecord) *output.Report {
	testingInstance.Helper()
	renderer := output.NewTreeRenderer()
	for _, record := range records {
		if visitError := renderer.Visit(record); visitError != nil {
			testingInstance.Fatalf("Visit failed: %v", visitError)
		}
	}
	return renderer.Report()
}

func record(name string, relativePath string, depth int, kind types.EntryKind, isLastSibling bool) types.VisitRecord {
	return types.VisitRecord{
		Entry: types.Entry{
			Name:         name,
			RelativePath: relativePath,
			Depth:        depth,
			Kind:         kind,
		},
		IsLastSibling: isLastSibling,
	}
}

// TestTreeRendererConnectors verifies connector selection and the pipe
// continuation under a non-last ancestor.
func TestTreeRendererConnectors(testingInstance *testing.T) {
	records := []types.VisitRecord{
		record("root", "", 0, types.EntryKindDirectory, true),
		record("src", "src", 1, types.EntryKindDirectory, false),
		record("main.go", "src/main.go", 2, types.EntryKindFile, true),
		record("readme.md", "readme.md", 1, types.EntryKindFile, true),
	}

	report := renderRecords(testingInstance, records)

	expectedLines := []string{
		"root/",
		"├── src/",
		"│   └── main.go",
		"└── readme.md",
	}
	if !reflect.DeepEqual(report.Lines, expectedLines) {
		testingInstance.Errorf("lines = %q, want %q", report.Lines, expectedLines)
	}
	if report.EntryCount != len(records) {
		testingInstance.Errorf("entry count = %d, want %d", report.EntryCount, len(records))
	}
}

// TestTreeRendererBlankPaddingUnderLastSiblings verifies that closed
// branches carry blank padding instead of pipes.
func TestTreeRendererBlankPaddingUnderLastSiblings(testingInstance *testing.T) {
	records := []types.VisitRecord{
		record("root", "", 0, types.EntryKindDirectory, true),
		record("a", "a", 1, types.EntryKindDirectory, true),
		record("b", "a/b", 2, types.EntryKindDirectory, true),
		record("leaf.txt", "a/b/leaf.txt", 3, types.EntryKindFile, true),
	}

	report := renderRecords(testingInstance, records)

	expectedLines := []string{
		"root/",
		"└── a/",
		"    └── b/",
		"        └── leaf.txt",
	}
	if !reflect.DeepEqual(report.Lines, expectedLines) {
		testingInstance.Errorf("lines = %q, want %q", report.Lines, expectedLines)
	}
}

// TestTreeRendererInaccessibleAnnotation verifies the angle-quoted error
// annotation and the error count.
func TestTreeRendererInaccessibleAnnotation(testingInstance *testing.T) {
	annotated := record("locked", "locked", 1, types.EntryKindInaccessible, false)
	annotated.AccessError = "permission denied"
	unannotated := record("broken", "broken", 1, types.EntryKindInaccessible, true)

	records := []types.VisitRecord{
		record("root", "", 0, types.EntryKindDirectory, true),
		annotated,
		unannotated,
	}

	report := renderRecords(testingInstance, records)

	expectedLines := []string{
		"root/",
		"├── locked/ ‹permission denied›",
		"└── broken/ ‹inaccessible›",
	}
	if !reflect.DeepEqual(report.Lines, expectedLines) {
		testingInstance.Errorf("lines = %q, want %q", report.Lines, expectedLines)
	}
	if report.ErrorCount != 2 {
		testingInstance.Errorf("error count = %d, want 2", report.ErrorCount)
	}
}

// TestReportText verifies that the persisted text is the display lines
// joined and newline-terminated.
func TestReportText(testingInstance *testing.T) {
	report := &output.Report{Lines: []string{"root/", "└── file.txt"}}
	expectedText := "root/\n└── file.txt\n"
	if report.Text() != expectedText {
		testingInstance.Errorf("text = %q, want %q", report.Text(), expectedText)
	}

	emptyReport := &output.Report{}
	if emptyReport.Text() != "" {
		testingInstance.Errorf("empty report text = %q, want empty", emptyReport.Text())
	}
}

// TestWalkAndRender exercises the walker and renderer together on a real
// directory fixture.
func TestWalkAndRender(testingInstance *testing.T) {
	rootPath := testingInstance.TempDir()
	if mkdirError := os.Mkdir(filepath.Join(rootPath, "a"), 0o755); mkdirError != nil {
		testingInstance.Fatalf("creating fixture directory: %v", mkdirError)
	}
	if writeError := os.WriteFile(filepath.Join(rootPath, "b.txt"), nil, 0o644); writeError != nil {
		testingInstance.Fatalf("creating fixture file: %v", writeError)
	}

	walker, walkerError := scan.NewWalker(scan.Config{Root: rootPath})
	if walkerError != nil {
		testingInstance.Fatalf("NewWalker failed: %v", walkerError)
	}
	renderer := output.NewTreeRenderer()
	if _, walkError := walker.Walk(renderer.Visit); walkError != nil {
		testingInstance.Fatalf("Walk failed: %v", walkError)
	}

	expectedLines := []string{
		filepath.Base(rootPath) + "/",
		"├── a/",
		"└── b.txt",
	}
	if !reflect.DeepEqual(renderer.Report().Lines, expectedLines) {
		testingInstance.Errorf("lines = %q, want %q", renderer.Report().Lines, expectedLines)
	}
}
