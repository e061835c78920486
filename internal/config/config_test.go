package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/treemk/treemk/internal/config"
)

func writeFileOrFail(testingInstance *testing.T, filePath string, content string) {
	testingInstance.Helper()
	if mkdirError := os.MkdirAll(filepath.Dir(filePath), 0o755); mkdirError != nil {
		testingInstance.Fatalf("creating parent of %s: %v", filePath, mkdirError)
	}
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingInstance.Fatalf("writing %s: %v", filePath, writeError)
	}
}

// TestLoadGitignorePatterns verifies comment and blank-line removal,
// trailing-slash trimming, and deduplication.
func TestLoadGitignorePatterns(testingInstance *testing.T) {
	directoryPath := testingInstance.TempDir()
	writeFileOrFail(testingInstance, filepath.Join(directoryPath, ".gitignore"),
		"# build artifacts\n\nnode_modules/\n*.log\nnode_modules/\n  dist/  \n")

	patterns, loadError := config.LoadGitignorePatterns(directoryPath)
	if loadError != nil {
		testingInstance.Fatalf("LoadGitignorePatterns failed: %v", loadError)
	}

	expectedPatterns := []string{"node_modules", "*.log", "dist"}
	if !reflect.DeepEqual(patterns, expectedPatterns) {
		testingInstance.Errorf("patterns = %v, want %v", patterns, expectedPatterns)
	}
}

// TestLoadGitignorePatternsMissingFile verifies that an absent ignore file
// is not an error.
func TestLoadGitignorePatternsMissingFile(testingInstance *testing.T) {
	patterns, loadError := config.LoadGitignorePatterns(testingInstance.TempDir())
	if loadError != nil {
		testingInstance.Fatalf("LoadGitignorePatterns failed: %v", loadError)
	}
	if patterns != nil {
		testingInstance.Errorf("patterns = %v, want none", patterns)
	}
}

// TestLoadApplicationConfigurationPrecedence verifies that local values
// override global ones while unset local fields fall through.
func TestLoadApplicationConfigurationPrecedence(testingInstance *testing.T) {
	homeDirectory := testingInstance.TempDir()
	testingInstance.Setenv("HOME", homeDirectory)
	writeFileOrFail(testingInstance, filepath.Join(homeDirectory, ".treemk", "config.yaml"),
		"scan:\n  max_depth: 2\n  dirs_first: true\n  exclude:\n    - vendor\n")

	workingDirectory := testingInstance.TempDir()
	writeFileOrFail(testingInstance, filepath.Join(workingDirectory, ".treemk.yaml"),
		"scan:\n  max_depth: 5\n  show_hidden: true\n")

	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
	})
	if loadError != nil {
		testingInstance.Fatalf("LoadApplicationConfiguration failed: %v", loadError)
	}

	if configuration.Scan.MaxDepth == nil || *configuration.Scan.MaxDepth != 5 {
		testingInstance.Errorf("max depth = %v, want 5 from the local file", configuration.Scan.MaxDepth)
	}
	if configuration.Scan.ShowHidden == nil || !*configuration.Scan.ShowHidden {
		testingInstance.Errorf("show hidden = %v, want true from the local file", configuration.Scan.ShowHidden)
	}
	if configuration.Scan.DirsFirst == nil || !*configuration.Scan.DirsFirst {
		testingInstance.Errorf("dirs first = %v, want true from the global file", configuration.Scan.DirsFirst)
	}
	if expected := []string{"vendor"}; !reflect.DeepEqual(configuration.Scan.Exclude, expected) {
		testingInstance.Errorf("exclude = %v, want %v from the global file", configuration.Scan.Exclude, expected)
	}
}

// TestLoadApplicationConfigurationExplicitPath verifies that an explicit
// configuration file replaces the conventional local file.
func TestLoadApplicationConfigurationExplicitPath(testingInstance *testing.T) {
	testingInstance.Setenv("HOME", testingInstance.TempDir())
	workingDirectory := testingInstance.TempDir()
	writeFileOrFail(testingInstance, filepath.Join(workingDirectory, "custom.yaml"),
		"reports:\n  enabled: false\n  measure_limit: 10\nsave:\n  extra_directories:\n    - /tmp/archive\n")

	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: "custom.yaml",
	})
	if loadError != nil {
		testingInstance.Fatalf("LoadApplicationConfiguration failed: %v", loadError)
	}

	if configuration.Reports.Enabled == nil || *configuration.Reports.Enabled {
		testingInstance.Errorf("reports enabled = %v, want false", configuration.Reports.Enabled)
	}
	if configuration.Reports.MeasureLimit == nil || *configuration.Reports.MeasureLimit != 10 {
		testingInstance.Errorf("measure limit = %v, want 10", configuration.Reports.MeasureLimit)
	}
	if expected := []string{"/tmp/archive"}; !reflect.DeepEqual(configuration.Save.ExtraDirectories, expected) {
		testingInstance.Errorf("extra directories = %v, want %v", configuration.Save.ExtraDirectories, expected)
	}
}

// TestLoadApplicationConfigurationMissingFiles verifies that absent
// configuration files yield a zero configuration and no error.
func TestLoadApplicationConfigurationMissingFiles(testingInstance *testing.T) {
	testingInstance.Setenv("HOME", testingInstance.TempDir())

	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: testingInstance.TempDir(),
	})
	if loadError != nil {
		testingInstance.Fatalf("LoadApplicationConfiguration failed: %v", loadError)
	}
	if !reflect.DeepEqual(configuration, config.ApplicationConfiguration{}) {
		testingInstance.Errorf("configuration = %+v, want zero value", configuration)
	}
}

// TestMergeCopiesOnlySetFields verifies that merging never clears fields
// the override leaves unset.
func TestMergeCopiesOnlySetFields(testingInstance *testing.T) {
	baseDepth := 3
	baseHidden := true
	base := config.ApplicationConfiguration{}
	base.Scan.MaxDepth = &baseDepth
	base.Scan.ShowHidden = &baseHidden
	base.Scan.Exclude = []string{"vendor"}

	overrideDepth := 7
	override := config.ApplicationConfiguration{}
	override.Scan.MaxDepth = &overrideDepth

	merged := base.Merge(override)

	if merged.Scan.MaxDepth == nil || *merged.Scan.MaxDepth != 7 {
		testingInstance.Errorf("max depth = %v, want 7", merged.Scan.MaxDepth)
	}
	if merged.Scan.ShowHidden == nil || !*merged.Scan.ShowHidden {
		testingInstance.Errorf("show hidden = %v, want preserved true", merged.Scan.ShowHidden)
	}
	if expected := []string{"vendor"}; !reflect.DeepEqual(merged.Scan.Exclude, expected) {
		testingInstance.Errorf("exclude = %v, want preserved %v", merged.Scan.Exclude, expected)
	}

	overrideDepth = 9
	if *merged.Scan.MaxDepth != 7 {
		testingInstance.Error("merged configuration shares the override's pointer")
	}
}
