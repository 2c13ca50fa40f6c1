// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/printproject/internal/config"
	"github.com/temirov/printproject/internal/detect"
	"github.com/temirov/printproject/internal/services/clipboard"
	"github.com/temirov/printproject/internal/tokenizer"
	"github.com/temirov/printproject/internal/types"
	"github.com/temirov/printproject/internal/utils"
)

const (
	rootUse              = "print-project [folder]"
	rootShortDescription = "Bundle a project's tree and text files into one document"
	rootLongDescription  = `print-project walks a project folder, renders its directory tree and
concatenates every text file into a single timestamped document, followed by a
summary of what was processed and what was skipped and why.

Settings come from built-in defaults, then config.ini, then command-line flags.
Tree exclusions follow --skip unless --tree-exclude is given.
Use --tree-exclude none to expand every directory in the tree.`
	rootUsageExample = `  # Analyze the current directory
  print-project

  # Analyze another folder and echo per-file decisions
  print-project -f /path/to/project --console

  # Skip folders for both content and tree
  print-project -s "tests,docs,build"

  # Keep the tree exclusions independent of --skip
  print-project -s "tests,docs" --tree-exclude ".git,venv"

  # Only Python and Go files, no tree
  print-project -e py,go --no-tree

  # Always include a file that filters would drop
  print-project -x env --include-files "settings.local.env"

  # Process only the named files
  print-project --only-include-files "main.go,README.md"

  # Print to stdout with token counts
  print-project --stdout --tokens`

	initUse              = "init"
	initShortDescription = "Write the default config.ini"
	initLongDescription  = `Write the default configuration file to the working directory, or to
~/.print-project/config.ini with --global.`
	initSuccessFormat = "Configuration written to %s\n"

	configFlagName           = "config"
	folderFlagName           = "folder"
	folderShorthand          = "f"
	skipFlagName             = "skip"
	skipShorthand            = "s"
	extensionsFlagName       = "extensions"
	extensionsShorthand      = "e"
	excludeExtFlagName       = "exclude-ext"
	excludeExtShorthand      = "x"
	ignoreFilesFlagName      = "ignore-files"
	ignoreFilesShorthand     = "i"
	includeFilesFlagName     = "include-files"
	onlyIncludeFilesFlagName = "only-include-files"
	treeExcludeFlagName      = "tree-exclude"
	maxSizeFlagName          = "max-size"
	consoleFlagName          = "console"
	outputFlagName           = "output"
	outputShorthand          = "o"
	outputDirFlagName        = "output-dir"
	overwriteFlagName        = "overwrite"
	duplicateFlagName        = "duplicate"
	noSummaryFlagName        = "no-summary"
	noTreeFlagName           = "no-tree"
	noLineNumbersFlagName    = "no-line-numbers"
	gitignoreFlagName        = "gitignore"
	stdoutFlagName           = "stdout"
	clipboardFlagName        = "clipboard"
	tokensFlagName           = "tokens"
	modelFlagName            = "model"
	sampleSizeFlagName       = "sample-size"
	confidenceFlagName       = "confidence"
	nonASCIIRatioFlagName    = "max-non-ascii-ratio"
	globalFlagName           = "global"
	forceFlagName            = "force"

	configFlagDescription         = "configuration file (default: first config.ini found in the search path)"
	folderFlagDescription         = "directory to process (default: current directory)"
	skipFlagDescription           = "comma-separated directories excluded from file processing (also used for the tree unless --tree-exclude is given)"
	extensionsFlagDescription     = "comma-separated file extensions to include"
	excludeExtFlagDescription     = "comma-separated file extensions to exclude"
	ignoreFilesFlagDescription    = "comma-separated file names to exclude"
	includeFilesFlagDescription   = "comma-separated file names always processed, bypassing every filter"
	onlyIncludeFlagDescription    = "comma-separated file names; process ONLY these files"
	treeExcludeFlagDescription    = "comma-separated directories listed but not expanded in the tree (\"none\" expands all)"
	maxSizeFlagDescription        = "maximum file size in bytes to process (0 for unlimited)"
	consoleFlagDescription        = "echo per-file decisions and show progress"
	outputFlagDescription         = "output file name without extension (default: project name)"
	outputDirFlagDescription      = "output directory"
	overwriteFlagDescription      = "write <name>.txt, replacing earlier output, instead of a timestamped file"
	duplicateFlagDescription      = "create a timestamped file (always the default now)"
	duplicateDeprecationMessage   = "timestamped output files are the default; the flag has no effect"
	noSummaryFlagDescription      = "omit the summary from the document"
	noTreeFlagDescription         = "omit the directory tree from the document"
	noLineNumbersFlagDescription  = "do not number content lines"
	gitignoreFlagDescription      = "also skip files matched by the root .gitignore"
	stdoutFlagDescription         = "write the document to stdout instead of a file"
	clipboardFlagDescription      = "copy the document to the system clipboard"
	tokensFlagDescription         = "include token counts"
	modelFlagDescription          = "tokenizer model to use for token counting"
	sampleSizeFlagDescription     = "bytes sampled for text detection"
	confidenceFlagDescription     = "minimum encoding detection confidence (0-1)"
	nonASCIIRatioFlagDescription  = "maximum share of non-ASCII characters in decoded samples (0-1)"
	globalFlagDescription         = "write to ~/.print-project/config.ini instead of the working directory"
	forceFlagDescription          = "replace an existing configuration file"
	messageFolderArgumentConflict = "cannot be combined with a positional folder"
)

// Dependencies carries the collaborators of the command tree. Zero fields select the
// production implementations.
type Dependencies struct {
	// Now supplies the clock used for timestamps and elapsed time.
	Now func() time.Time
	// NewLogger builds the run logger; verbose is the resolved console setting.
	NewLogger func(verbose bool) (*zap.Logger, error)
	// Clipboard receives the document when clipboard output is requested.
	Clipboard clipboard.Copier
	// ConfigLookup overrides the directories searched for config.ini.
	ConfigLookup config.LoadOptions
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.Now == nil {
		dependencies.Now = time.Now
	}
	if dependencies.NewLogger == nil {
		dependencies.NewLogger = utils.NewApplicationLogger
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = clipboard.NewService()
	}
	return dependencies
}

// rootOptions receives the raw flag values. Toggles write straight into layer.
type rootOptions struct {
	layer               config.Values
	configurationPath   string
	folder              string
	skipFolders         string
	extensions          string
	excludeExtensions   string
	ignoreFiles         string
	includeFiles        string
	onlyIncludeFiles    string
	treeExclude         string
	maxFileSize         int64
	outputName          string
	outputDirectory     string
	model               string
	sampleSize          int
	confidenceThreshold float64
	maxNonASCIIRatio    float64
	duplicate           bool
}

// NewRootCommand builds the print-project command tree.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = dependencies.withDefaults()
	options := &rootOptions{}

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			flagLayer, flagError := options.toValues(command.Flags(), arguments)
			if flagError != nil {
				return flagError
			}
			return runProject(command, dependencies, options.configurationPath, flagLayer)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringVar(&options.configurationPath, configFlagName, "", configFlagDescription)
	flagSet.StringVarP(&options.folder, folderFlagName, folderShorthand, "", folderFlagDescription)
	flagSet.StringVarP(&options.skipFolders, skipFlagName, skipShorthand, "", skipFlagDescription)
	flagSet.StringVarP(&options.extensions, extensionsFlagName, extensionsShorthand, "", extensionsFlagDescription)
	flagSet.StringVarP(&options.excludeExtensions, excludeExtFlagName, excludeExtShorthand, "", excludeExtFlagDescription)
	flagSet.StringVarP(&options.ignoreFiles, ignoreFilesFlagName, ignoreFilesShorthand, "", ignoreFilesFlagDescription)
	flagSet.StringVar(&options.includeFiles, includeFilesFlagName, "", includeFilesFlagDescription)
	flagSet.StringVar(&options.onlyIncludeFiles, onlyIncludeFilesFlagName, "", onlyIncludeFlagDescription)
	flagSet.StringVar(&options.treeExclude, treeExcludeFlagName, "", treeExcludeFlagDescription)
	flagSet.Int64Var(&options.maxFileSize, maxSizeFlagName, 0, maxSizeFlagDescription)
	flagSet.StringVarP(&options.outputName, outputFlagName, outputShorthand, "", outputFlagDescription)
	flagSet.StringVar(&options.outputDirectory, outputDirFlagName, utils.DefaultOutputDirectoryName, outputDirFlagDescription)
	flagSet.StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	flagSet.IntVar(&options.sampleSize, sampleSizeFlagName, detect.DefaultSampleSize, sampleSizeFlagDescription)
	flagSet.Float64Var(&options.confidenceThreshold, confidenceFlagName, detect.DefaultConfidenceThreshold, confidenceFlagDescription)
	flagSet.Float64Var(&options.maxNonASCIIRatio, nonASCIIRatioFlagName, detect.DefaultMaxNonASCIIRatio, nonASCIIRatioFlagDescription)

	registerBooleanFlag(flagSet, &options.layer.Console, consoleFlagName, consoleFlagDescription)
	registerBooleanFlag(flagSet, &options.layer.Overwrite, overwriteFlagName, overwriteFlagDescription)
	registerBooleanFlag(flagSet, &options.layer.NoSummary, noSummaryFlagName, noSummaryFlagDescription)
	registerBooleanFlag(flagSet, &options.layer.NoTree, noTreeFlagName, noTreeFlagDescription)
	registerNegatedBooleanFlag(flagSet, &options.layer.LineNumbers, noLineNumbersFlagName, noLineNumbersFlagDescription)
	registerBooleanFlag(flagSet, &options.layer.UseGitignore, gitignoreFlagName, gitignoreFlagDescription)
	registerBooleanFlag(flagSet, &options.layer.Stdout, stdoutFlagName, stdoutFlagDescription)
	registerBooleanFlag(flagSet, &options.layer.Clipboard, clipboardFlagName, clipboardFlagDescription)
	registerBooleanFlag(flagSet, &options.layer.Tokens, tokensFlagName, tokensFlagDescription)

	flagSet.BoolVar(&options.duplicate, duplicateFlagName, false, duplicateFlagDescription)
	_ = flagSet.MarkDeprecated(duplicateFlagName, duplicateDeprecationMessage)

	rootCommand.AddCommand(createInitCommand())
	return rootCommand
}

// toValues turns the flags that were set on the command line into a configuration layer.
// Flags left at their defaults, and list flags given an empty value, do not override
// the configuration file.
func (options *rootOptions) toValues(flagSet *pflag.FlagSet, arguments []string) (config.Values, error) {
	layer := options.layer

	if flagSet.Changed(folderFlagName) {
		layer.Root = config.Pointer(options.folder)
	}
	if len(arguments) > 0 {
		if layer.Root != nil {
			return config.Values{}, types.NewConfigError(folderFlagName, arguments[0], messageFolderArgumentConflict)
		}
		layer.Root = config.Pointer(arguments[0])
	}

	layer.SkipFolders = changedList(flagSet, skipFlagName, options.skipFolders)
	layer.Extensions = changedList(flagSet, extensionsFlagName, options.extensions)
	layer.ExcludeExtensions = changedList(flagSet, excludeExtFlagName, options.excludeExtensions)
	layer.IgnoreFiles = changedList(flagSet, ignoreFilesFlagName, options.ignoreFiles)
	layer.IncludeFiles = changedList(flagSet, includeFilesFlagName, options.includeFiles)
	layer.OnlyIncludeFiles = changedList(flagSet, onlyIncludeFilesFlagName, options.onlyIncludeFiles)
	layer.TreeExclude = changedList(flagSet, treeExcludeFlagName, options.treeExclude)

	if flagSet.Changed(maxSizeFlagName) {
		layer.MaxFileSize = config.Pointer(options.maxFileSize)
	}
	if flagSet.Changed(outputFlagName) {
		layer.OutputName = config.Pointer(options.outputName)
	}
	if flagSet.Changed(outputDirFlagName) {
		layer.OutputDirectory = config.Pointer(options.outputDirectory)
	}
	if flagSet.Changed(modelFlagName) {
		layer.Model = config.Pointer(options.model)
	}
	if flagSet.Changed(sampleSizeFlagName) {
		layer.SampleSize = config.Pointer(options.sampleSize)
	}
	if flagSet.Changed(confidenceFlagName) {
		layer.ConfidenceThreshold = config.Pointer(options.confidenceThreshold)
	}
	if flagSet.Changed(nonASCIIRatioFlagName) {
		layer.MaxNonASCIIRatio = config.Pointer(options.maxNonASCIIRatio)
	}
	return layer, nil
}

func changedList(flagSet *pflag.FlagSet, name string, value string) config.StringList {
	if !flagSet.Changed(name) {
		return config.StringList{}
	}
	items := utils.SplitList(value)
	if len(items) == 0 {
		return config.StringList{}
	}
	return config.NewStringList(items...)
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var global *bool
	var force *bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global != nil && *global {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  force != nil && *force,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), initSuccessFormat, destinationPath)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, forceFlagDescription)
	return initCommand
}
