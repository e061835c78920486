package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"

	"github.com/treemk/treemk/internal/config"
)

// TestBuildScanConfigurationDepthConvention verifies that a depth flag of
// zero means unbounded while positive values become the limit.
func TestBuildScanConfigurationDepthConvention(testingInstance *testing.T) {
	unbounded := buildScanConfiguration("/tmp/project", scanOptions{maxDepth: 0})
	if unbounded.MaxDepth != nil {
		testingInstance.Errorf("max depth = %v, want unbounded", *unbounded.MaxDepth)
	}

	bounded := buildScanConfiguration("/tmp/project", scanOptions{maxDepth: 3})
	if bounded.MaxDepth == nil || *bounded.MaxDepth != 3 {
		testingInstance.Errorf("max depth = %v, want 3", bounded.MaxDepth)
	}
}

// TestBuildScanConfigurationDeduplicatesPatterns verifies that repeated
// flag values collapse before validation.
func TestBuildScanConfigurationDeduplicatesPatterns(testingInstance *testing.T) {
	configuration := buildScanConfiguration("/tmp/project", scanOptions{
		excludePatterns:   []string{"vendor", "dist", "vendor"},
		noRecursePatterns: []string{"node_modules", "node_modules"},
	})

	if expected := []string{"vendor", "dist"}; !reflect.DeepEqual(configuration.ExcludePatterns, expected) {
		testingInstance.Errorf("exclude patterns = %v, want %v", configuration.ExcludePatterns, expected)
	}
	if expected := []string{"node_modules"}; !reflect.DeepEqual(configuration.NonRecursivePatterns, expected) {
		testingInstance.Errorf("non-recursive patterns = %v, want %v", configuration.NonRecursivePatterns, expected)
	}
}

// TestApplyConfigurationDefaults verifies that file-configured values fill
// in only the flags the user did not set.
func TestApplyConfigurationDefaults(testingInstance *testing.T) {
	var options scanOptions
	scanCommand := &cobra.Command{Use: scanUse}
	registerScanFlags(scanCommand, &options)
	if parseError := scanCommand.ParseFlags([]string{"--max-depth", "4"}); parseError != nil {
		testingInstance.Fatalf("parsing flags: %v", parseError)
	}

	configuredDepth := 9
	configuredHidden := true
	configuredUseGitignore := false
	configuredMeasureLimit := 10
	configuration := config.ApplicationConfiguration{}
	configuration.Scan.MaxDepth = &configuredDepth
	configuration.Scan.ShowHidden = &configuredHidden
	configuration.Scan.UseGitignore = &configuredUseGitignore
	configuration.Scan.Exclude = []string{"vendor"}
	configuration.Reports.MeasureLimit = &configuredMeasureLimit

	applyConfigurationDefaults(scanCommand, &options, configuration)

	if options.maxDepth != 4 {
		testingInstance.Errorf("max depth = %d, want the flag value 4", options.maxDepth)
	}
	if !options.showHidden {
		testingInstance.Error("show hidden = false, want the configured true")
	}
	if !options.noGitignore {
		testingInstance.Error("no-gitignore = false, want true from use_gitignore: false")
	}
	if expected := []string{"vendor"}; !reflect.DeepEqual(options.excludePatterns, expected) {
		testingInstance.Errorf("exclude patterns = %v, want %v", options.excludePatterns, expected)
	}
	if options.measureLimit != 10 {
		testingInstance.Errorf("measure limit = %d, want the configured 10", options.measureLimit)
	}
}

// TestApplyConfigurationDefaultsKeepsFlagDefaults verifies that an empty
// configuration leaves the built-in flag defaults untouched.
func TestApplyConfigurationDefaultsKeepsFlagDefaults(testingInstance *testing.T) {
	var options scanOptions
	scanCommand := &cobra.Command{Use: scanUse}
	registerScanFlags(scanCommand, &options)
	if parseError := scanCommand.ParseFlags(nil); parseError != nil {
		testingInstance.Fatalf("parsing flags: %v", parseError)
	}

	applyConfigurationDefaults(scanCommand, &options, config.ApplicationConfiguration{})

	if !options.dirsFirst {
		testingInstance.Error("dirs first = false, want the default true")
	}
	if !options.reportsEnabled || !options.saveEnabled {
		testingInstance.Error("reports or save disabled, want both default true")
	}
	if options.measureLimit != defaultMeasureLimit {
		testingInstance.Errorf("measure limit = %d, want the default %d", options.measureLimit, defaultMeasureLimit)
	}
}
