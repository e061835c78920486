// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treemk/treemk/internal/config"
	"github.com/treemk/treemk/internal/output"
	"github.com/treemk/treemk/internal/persist"
	"github.com/treemk/treemk/internal/scan"
	"github.com/treemk/treemk/internal/services/clipboard"
	"github.com/treemk/treemk/internal/utils"
)

const (
	versionFlagName = "version"
	versionTemplate = "treemk version: %s\n"

	rootUse              = "treemk"
	rootShortDescription = "treemk command line interface"
	rootLongDescription  = `treemk renders a directory subtree as an indented tree diagram.
It prints the tree, appends optional skip reports, and saves the result to
timestamped files. Patterns use shell-style globs including '**'.`
	versionFlagDescription = "display application version"

	scanUse              = "scan [path]"
	scanAlias            = "s"
	scanShortDescription = "render a directory tree (" + scanAlias + ")"
	scanLongDescription  = `Render the tree for a directory (default: the current directory).
Filtering, depth, report, and save behavior come from flags layered over
.treemk.yaml and the global configuration file.`
	scanUsageExample = `  # Tree of the current project, three levels deep
  treemk scan -d 3

  # Exclude build output and keep node_modules closed
  treemk scan --exclude dist --no-recurse node_modules .`

	maxDepthFlagName        = "max-depth"
	maxDepthFlagShorthand   = "d"
	onlyDirsFlagName        = "only-dirs"
	showHiddenFlagName      = "hidden"
	dirsFirstFlagName       = "dirs-first"
	caseSensitiveFlagName   = "case-sensitive"
	noGitignoreFlagName     = "no-gitignore"
	excludeFlagName         = "exclude"
	excludeFlagShorthand    = "e"
	noRecurseFlagName       = "no-recurse"
	hiddenIncludeFlagName   = "hidden-include"
	hiddenNoRecurseFlagName = "hidden-no-recurse"
	hiddenRecurseFlagName   = "hidden-recurse"
	catchAllFlagName        = "catch-all"
	reportsFlagName         = "reports"
	measureLimitFlagName    = "measure-limit"
	saveFlagName            = "save"
	saveDirFlagName         = "save-dir"
	copyFlagName            = "copy"
	quietFlagName           = "quiet"
	configFlagName          = "config"

	maxDepthFlagDescription        = "maximum depth to display, 0 = unlimited"
	onlyDirsFlagDescription        = "show only directories"
	showHiddenFlagDescription      = "show hidden entries"
	dirsFirstFlagDescription       = "list directories before files"
	caseSensitiveFlagDescription   = "case-sensitive sorting and matching"
	noGitignoreFlagDescription     = "do not apply .gitignore patterns"
	excludeFlagDescription         = "exclude entries matching the pattern"
	noRecurseFlagDescription       = "show matching directories without expanding them"
	hiddenIncludeFlagDescription   = "with --hidden, only include hidden entries matching the pattern"
	hiddenNoRecurseFlagDescription = "with --hidden, show matching hidden directories without expanding them"
	hiddenRecurseFlagDescription   = "with --hidden, expand hidden directories matching the pattern anyway"
	catchAllFlagDescription        = "classify every directory at the depth limit as non-recursive"
	reportsFlagDescription         = "append depth-pruned and rule-excluded report sections"
	measureLimitFlagDescription    = "extra levels measured under skipped directories, 0 = unlimited"
	saveFlagDescription            = "save the report to the default locations"
	saveDirFlagDescription         = "additional directory to save the report into"
	copyFlagDescription            = "copy the report to the clipboard"
	quietFlagDescription           = "suppress progress messages"
	configFlagDescription          = "path to a configuration file"

	defaultPath         = "."
	defaultMeasureLimit = 25

	progressScanningFormat  = "Scanning directory tree for: %s"
	progressReportsMessage  = "Generating reports (depth-pruned, rule-excluded)"
	progressSavedFormat     = "Saved report to %s"
	progressSummaryFormat   = "Done: %d entries, %d access errors"
	warningClipboardFormat  = "Warning: failed to copy to clipboard: %v"
	errorLoadGitignoreFmt   = "loading gitignore patterns: %w"
	errorLoadConfigFormat   = "loading configuration: %w"
	errorScanSetupFormat    = "configuring scan: %w"
	errorScanExecuteFormat  = "scanning %s: %w"
	reportSectionsSeparator = ""
)

// Execute runs the treemk application with the provided logger.
func Execute(loggerInstance *zap.Logger) error {
	rootCommand := createRootCommand(loggerInstance)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(loggerInstance *zap.Logger) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(createScanCommand(loggerInstance))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// scanOptions stores the flag values of the scan command.
type scanOptions struct {
	maxDepth                int
	onlyDirs                bool
	showHidden              bool
	dirsFirst               bool
	caseSensitive           bool
	noGitignore             bool
	excludePatterns         []string
	noRecursePatterns       []string
	hiddenIncludePatterns   []string
	hiddenNoRecursePatterns []string
	hiddenRecursePatterns   []string
	catchAll                bool
	reportsEnabled          bool
	measureLimit            int
	saveEnabled             bool
	saveDirectories         []string
	copyEnabled             bool
	quiet                   bool
	configPath              string
}

// createScanCommand returns the scan subcommand.
func createScanCommand(loggerInstance *zap.Logger) *cobra.Command {
	var options scanOptions

	scanCommand := &cobra.Command{
		Use:     scanUse,
		Aliases: []string{scanAlias},
		Short:   scanShortDescription,
		Long:    scanLongDescription,
		Example: scanUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := defaultPath
			if len(arguments) == 1 {
				rootPath = arguments[0]
			}

			applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
				ExplicitFilePath: options.configPath,
			})
			if configurationError != nil {
				return fmt.Errorf(errorLoadConfigFormat, configurationError)
			}
			applyConfigurationDefaults(command, &options, applicationConfiguration)

			return runScan(loggerInstance, rootPath, options)
		},
	}

	registerScanFlags(scanCommand, &options)

	return scanCommand
}

// registerScanFlags binds every scan flag to the options struct.
func registerScanFlags(scanCommand *cobra.Command, options *scanOptions) {
	scanCommand.Flags().IntVarP(&options.maxDepth, maxDepthFlagName, maxDepthFlagShorthand, 0, maxDepthFlagDescription)
	scanCommand.Flags().BoolVar(&options.onlyDirs, onlyDirsFlagName, false, onlyDirsFlagDescription)
	scanCommand.Flags().BoolVar(&options.showHidden, showHiddenFlagName, false, showHiddenFlagDescription)
	scanCommand.Flags().BoolVar(&options.dirsFirst, dirsFirstFlagName, true, dirsFirstFlagDescription)
	scanCommand.Flags().BoolVar(&options.caseSensitive, caseSensitiveFlagName, false, caseSensitiveFlagDescription)
	scanCommand.Flags().BoolVar(&options.noGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	scanCommand.Flags().StringArrayVarP(&options.excludePatterns, excludeFlagName, excludeFlagShorthand, nil, excludeFlagDescription)
	scanCommand.Flags().StringArrayVar(&options.noRecursePatterns, noRecurseFlagName, nil, noRecurseFlagDescription)
	scanCommand.Flags().StringArrayVar(&options.hiddenIncludePatterns, hiddenIncludeFlagName, nil, hiddenIncludeFlagDescription)
	scanCommand.Flags().StringArrayVar(&options.hiddenNoRecursePatterns, hiddenNoRecurseFlagName, nil, hiddenNoRecurseFlagDescription)
	scanCommand.Flags().StringArrayVar(&options.hiddenRecursePatterns, hiddenRecurseFlagName, nil, hiddenRecurseFlagDescription)
	scanCommand.Flags().BoolVar(&options.catchAll, catchAllFlagName, false, catchAllFlagDescription)
	scanCommand.Flags().BoolVar(&options.reportsEnabled, reportsFlagName, true, reportsFlagDescription)
	scanCommand.Flags().IntVar(&options.measureLimit, measureLimitFlagName, defaultMeasureLimit, measureLimitFlagDescription)
	scanCommand.Flags().BoolVar(&options.saveEnabled, saveFlagName, true, saveFlagDescription)
	scanCommand.Flags().StringArrayVar(&options.saveDirectories, saveDirFlagName, nil, saveDirFlagDescription)
	scanCommand.Flags().BoolVar(&options.copyEnabled, copyFlagName, false, copyFlagDescription)
	scanCommand.Flags().BoolVar(&options.quiet, quietFlagName, false, quietFlagDescription)
	scanCommand.Flags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
}

// applyConfigurationDefaults overlays file-configured values onto every
// option whose flag was not explicitly set on the command line.
func applyConfigurationDefaults(command *cobra.Command, options *scanOptions, configuration config.ApplicationConfiguration) {
	flags := command.Flags()

	if !flags.Changed(maxDepthFlagName) && configuration.Scan.MaxDepth != nil {
		options.maxDepth = *configuration.Scan.MaxDepth
	}
	if !flags.Changed(onlyDirsFlagName) && configuration.Scan.OnlyDirs != nil {
		options.onlyDirs = *configuration.Scan.OnlyDirs
	}
	if !flags.Changed(showHiddenFlagName) && configuration.Scan.ShowHidden != nil {
		options.showHidden = *configuration.Scan.ShowHidden
	}
	if !flags.Changed(dirsFirstFlagName) && configuration.Scan.DirsFirst != nil {
		options.dirsFirst = *configuration.Scan.DirsFirst
	}
	if !flags.Changed(caseSensitiveFlagName) && configuration.Scan.CaseSensitive != nil {
		options.caseSensitive = *configuration.Scan.CaseSensitive
	}
	if !flags.Changed(noGitignoreFlagName) && configuration.Scan.UseGitignore != nil {
		options.noGitignore = !*configuration.Scan.UseGitignore
	}
	if !flags.Changed(catchAllFlagName) && configuration.Scan.CatchAll != nil {
		options.catchAll = *configuration.Scan.CatchAll
	}
	if !flags.Changed(excludeFlagName) && len(configuration.Scan.Exclude) > 0 {
		options.excludePatterns = configuration.Scan.Exclude
	}
	if !flags.Changed(noRecurseFlagName) && len(configuration.Scan.NoRecurse) > 0 {
		options.noRecursePatterns = configuration.Scan.NoRecurse
	}
	if !flags.Changed(hiddenIncludeFlagName) && len(configuration.Scan.HiddenInclude) > 0 {
		options.hiddenIncludePatterns = configuration.Scan.HiddenInclude
	}
	if !flags.Changed(hiddenNoRecurseFlagName) && len(configuration.Scan.HiddenNoRecurse) > 0 {
		options.hiddenNoRecursePatterns = configuration.Scan.HiddenNoRecurse
	}
	if !flags.Changed(hiddenRecurseFlagName) && len(configuration.Scan.HiddenRecurse) > 0 {
		options.hiddenRecursePatterns = configuration.Scan.HiddenRecurse
	}
	if !flags.Changed(reportsFlagName) && configuration.Reports.Enabled != nil {
		options.reportsEnabled = *configuration.Reports.Enabled
	}
	if !flags.Changed(measureLimitFlagName) && configuration.Reports.MeasureLimit != nil {
		options.measureLimit = *configuration.Reports.MeasureLimit
	}
	if !flags.Changed(saveFlagName) && configuration.Save.Enabled != nil {
		options.saveEnabled = *configuration.Save.Enabled
	}
	if !flags.Changed(saveDirFlagName) && len(configuration.Save.ExtraDirectories) > 0 {
		options.saveDirectories = configuration.Save.ExtraDirectories
	}
}

// buildScanConfiguration converts CLI options into the engine's immutable
// configuration. A depth flag of zero disables the limit.
func buildScanConfiguration(rootPath string, options scanOptions) scan.Config {
	configuration := scan.Config{
		Root:                       rootPath,
		OnlyDirs:                   options.onlyDirs,
		ShowHidden:                 options.showHidden,
		DirectoriesFirst:           options.dirsFirst,
		CaseSensitiveSort:          options.caseSensitive,
		ExcludePatterns:            utils.DeduplicatePatterns(options.excludePatterns),
		NonRecursivePatterns:       utils.DeduplicatePatterns(options.noRecursePatterns),
		HiddenIncludePatterns:      options.hiddenIncludePatterns,
		HiddenNonRecursivePatterns: options.hiddenNoRecursePatterns,
		HiddenRecursiveExceptions:  options.hiddenRecursePatterns,
		NonRecursiveCatchAll:       options.catchAll,
	}
	if options.maxDepth > 0 {
		depthLimit := options.maxDepth
		configuration.MaxDepth = &depthLimit
	}
	return configuration
}

// runScan executes the whole pipeline: validate, walk, render, report,
// print, persist, copy.
func runScan(loggerInstance *zap.Logger, rootPath string, options scanOptions) error {
	progressLogger := loggerInstance
	if options.quiet {
		progressLogger = zap.NewNop()
	}

	scanConfiguration := buildScanConfiguration(rootPath, options)
	resolvedConfiguration, resolveError := scanConfiguration.ResolveRoot()
	if resolveError != nil {
		return fmt.Errorf(errorScanSetupFormat, resolveError)
	}
	if !options.noGitignore {
		gitignorePatterns, gitignoreError := config.LoadGitignorePatterns(resolvedConfiguration.Root)
		if gitignoreError != nil {
			return fmt.Errorf(errorLoadGitignoreFmt, gitignoreError)
		}
		resolvedConfiguration.GitignorePatterns = gitignorePatterns
	}

	walker, walkerError := scan.NewWalker(resolvedConfiguration)
	if walkerError != nil {
		return fmt.Errorf(errorScanSetupFormat, walkerError)
	}

	progressLogger.Info(fmt.Sprintf(progressScanningFormat, walker.Config().Root))

	renderer := output.NewTreeRenderer()
	summary, walkError := walker.Walk(renderer.Visit)
	if walkError != nil {
		return fmt.Errorf(errorScanExecuteFormat, walker.Config().Root, walkError)
	}
	report := renderer.Report()

	if options.reportsEnabled {
		progressLogger.Info(progressReportsMessage)
		measure := func(relativePath string) (int, int, int) {
			statistics := walker.MeasureSubtree(relativePath, options.measureLimit)
			return statistics.MaxRelativeDepth, statistics.Directories, statistics.Files
		}
		report.Lines = append(report.Lines, reportSectionsSeparator, reportSectionsSeparator)
		report.Lines = append(report.Lines, output.RenderDepthPrunedSection(summary.PrunedDirectories, walker.Config().MaxDepth, measure)...)
		report.Lines = append(report.Lines, output.RenderRuleExcludedSection(summary.SkippedDirectories, measure)...)
	}

	reportText := report.Text()
	fmt.Print(reportText)

	if options.saveEnabled {
		saver := persist.NewSaver(utils.UserConfigDirectory(), options.saveDirectories, loggerInstance, nil)
		for _, savedPath := range saver.Save(context.Background(), walker.Config().Root, reportText) {
			progressLogger.Info(fmt.Sprintf(progressSavedFormat, savedPath))
		}
	}

	if options.copyEnabled {
		if copyError := clipboard.NewService().Copy(reportText); copyError != nil {
			loggerInstance.Warn(fmt.Sprintf(warningClipboardFormat, copyError))
		}
	}

	progressLogger.Info(fmt.Sprintf(progressSummaryFormat, report.EntryCount, report.ErrorCount))
	return nil
}
