package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/printproject/internal/types"
	"github.com/temirov/printproject/internal/utils"
)

const (
	configurationSubdirectory = "config"
	systemConfigurationRoot   = "/etc"
	appDataEnvironmentKey     = "APPDATA"
	defaultSectionPrefix      = "default."
	iniConfigType             = "ini"
	windowsOperatingSystem    = "windows"

	keySkipFolders         = "skip_folders"
	keyExtensions          = "extensions"
	keySkipExtensions      = "skip_extensions"
	keySkipFiles           = "skip_files"
	keyIncludeFiles        = "include_files"
	keyOnlyIncludeFiles    = "only_include_files"
	keyTrustedExtensions   = "trusted_extensions"
	keyTreeExclude         = "tree_exclude"
	keyMaxFileSize         = "max_file_size"
	keyConsole             = "console"
	keyNoSummary           = "no_summary"
	keyNoTree              = "no_tree"
	keyOutputDir           = "output_dir"
	keyOverwrite           = "overwrite"
	keyLineNumbers         = "line_numbers"
	keySampleSize          = "sample_size"
	keyConfidenceThreshold = "confidence_threshold"
	keyMaxNonASCIIRatio    = "max_non_ascii_ratio"
	keyUseGitignore        = "use_gitignore"
	keyTokens              = "tokens"
	keyModel               = "model"

	fieldConfig = "config"

	messageConfigMissing   = "configuration file does not exist"
	messageConfigDirectory = "configuration path is a directory"
	messageInvalidBoolean  = "expected true or false"
	messageInvalidInteger  = "expected an integer"
	messageInvalidNumber   = "expected a number"

	errorStatConfigurationFormat = "stat configuration %s: %w"
	errorReadConfigurationFormat = "read configuration from %s: %w"
)

// LoadOptions controls how the configuration file is discovered. Empty directories
// are filled from the process environment.
type LoadOptions struct {
	ExplicitFilePath    string
	WorkingDirectory    string
	ExecutableDirectory string
	HomeDirectory       string
	SystemDirectory     string
	AppDataDirectory    string
}

func (options LoadOptions) withEnvironment() LoadOptions {
	if options.WorkingDirectory == "" {
		if workingDirectory, workingDirectoryError := os.Getwd(); workingDirectoryError == nil {
			options.WorkingDirectory = workingDirectory
		}
	}
	if options.ExecutableDirectory == "" {
		if executablePath, executableError := os.Executable(); executableError == nil {
			options.ExecutableDirectory = filepath.Dir(executablePath)
		}
	}
	if options.HomeDirectory == "" {
		if homeDirectory, homeError := os.UserHomeDir(); homeError == nil {
			options.HomeDirectory = homeDirectory
		}
	}
	if options.SystemDirectory == "" && runtime.GOOS != windowsOperatingSystem {
		options.SystemDirectory = filepath.Join(systemConfigurationRoot, utils.ApplicationName)
	}
	if options.AppDataDirectory == "" && runtime.GOOS == windowsOperatingSystem {
		if appData := os.Getenv(appDataEnvironmentKey); appData != "" {
			options.AppDataDirectory = filepath.Join(appData, utils.ApplicationName)
		}
	}
	return options
}

// SearchPaths lists the candidate configuration files in priority order.
func SearchPaths(options LoadOptions) []string {
	options = options.withEnvironment()
	var candidates []string
	if options.WorkingDirectory != "" {
		candidates = append(candidates, filepath.Join(options.WorkingDirectory, utils.ConfigFileName))
	}
	if options.ExecutableDirectory != "" {
		candidates = append(candidates,
			filepath.Join(options.ExecutableDirectory, utils.ConfigFileName),
			filepath.Join(options.ExecutableDirectory, configurationSubdirectory, utils.ConfigFileName),
		)
	}
	if options.HomeDirectory != "" {
		candidates = append(candidates, filepath.Join(options.HomeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName))
	}
	if options.SystemDirectory != "" {
		candidates = append(candidates, filepath.Join(options.SystemDirectory, utils.ConfigFileName))
	}
	if options.AppDataDirectory != "" {
		candidates = append(candidates, filepath.Join(options.AppDataDirectory, utils.ConfigFileName))
	}
	return utils.DeduplicatePatterns(candidates)
}

// FindConfigurationFile returns the explicit file, or the first existing search path.
// An empty path means no file was found. A missing explicit file is a ConfigError.
func FindConfigurationFile(options LoadOptions) (string, error) {
	if options.ExplicitFilePath != "" {
		explicitPath := options.ExplicitFilePath
		if !filepath.IsAbs(explicitPath) && options.WorkingDirectory != "" {
			explicitPath = filepath.Join(options.WorkingDirectory, explicitPath)
		}
		info, statError := os.Stat(explicitPath)
		if statError != nil {
			if os.IsNotExist(statError) {
				return "", types.NewConfigError(fieldConfig, explicitPath, messageConfigMissing)
			}
			return "", fmt.Errorf(errorStatConfigurationFormat, explicitPath, statError)
		}
		if info.IsDir() {
			return "", types.NewConfigError(fieldConfig, explicitPath, messageConfigDirectory)
		}
		return explicitPath, nil
	}

	for _, candidate := range SearchPaths(options) {
		info, statError := os.Stat(candidate)
		if statError == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", nil
}

// LoadFile reads the configuration file at path into a Values layer. INI files keep
// their keys in the [DEFAULT] section; other formats supported by viper may place them
// at the top level.
func LoadFile(path string) (Values, error) {
	reader := viper.New()
	reader.SetConfigFile(path)
	if !isKnownConfigType(filepath.Ext(path)) {
		reader.SetConfigType(iniConfigType)
	}
	if readError := reader.ReadInConfig(); readError != nil {
		return Values{}, fmt.Errorf(errorReadConfigurationFormat, path, readError)
	}

	fileReader := configurationReader{reader: reader}
	values := Values{
		SkipFolders:       fileReader.list(keySkipFolders),
		Extensions:        normalizedExtensions(fileReader.list(keyExtensions)),
		ExcludeExtensions: normalizedExtensions(fileReader.list(keySkipExtensions)),
		IgnoreFiles:       fileReader.list(keySkipFiles),
		IncludeFiles:      fileReader.list(keyIncludeFiles),
		OnlyIncludeFiles:  fileReader.list(keyOnlyIncludeFiles),
		TrustedExtensions: normalizedExtensions(fileReader.list(keyTrustedExtensions)),
		TreeExclude:       fileReader.list(keyTreeExclude),
		OutputDirectory:   fileReader.text(keyOutputDir),
		Model:             fileReader.text(keyModel),
	}
	values.MaxFileSize = fileReader.integer(keyMaxFileSize)
	values.Console = fileReader.boolean(keyConsole)
	values.NoSummary = fileReader.boolean(keyNoSummary)
	values.NoTree = fileReader.boolean(keyNoTree)
	values.Overwrite = fileReader.boolean(keyOverwrite)
	values.LineNumbers = fileReader.boolean(keyLineNumbers)
	values.UseGitignore = fileReader.boolean(keyUseGitignore)
	values.Tokens = fileReader.boolean(keyTokens)
	values.ConfidenceThreshold = fileReader.number(keyConfidenceThreshold)
	values.MaxNonASCIIRatio = fileReader.number(keyMaxNonASCIIRatio)
	if sampleSize := fileReader.integer(keySampleSize); sampleSize != nil {
		values.SampleSize = Pointer(int(*sampleSize))
	}

	if fileReader.firstError != nil {
		return Values{}, fileReader.firstError
	}
	return values, nil
}

// configurationReader converts raw viper values, remembering the first conversion error.
type configurationReader struct {
	reader     *viper.Viper
	firstError error
}

func (fileReader *configurationReader) lookup(key string) (any, string, bool) {
	for _, candidate := range []string{defaultSectionPrefix + key, key} {
		if fileReader.reader.IsSet(candidate) {
			return fileReader.reader.Get(candidate), candidate, true
		}
	}
	return nil, "", false
}

func (fileReader *configurationReader) list(key string) StringList {
	value, fullKey, found := fileReader.lookup(key)
	if !found {
		return StringList{}
	}
	if text, isText := value.(string); isText {
		return NewStringList(utils.SplitList(text)...)
	}
	var items []string
	for _, item := range fileReader.reader.GetStringSlice(fullKey) {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return NewStringList(items...)
}

func (fileReader *configurationReader) text(key string) *string {
	value, _, found := fileReader.lookup(key)
	if !found {
		return nil
	}
	return Pointer(strings.TrimSpace(fmt.Sprint(value)))
}

func (fileReader *configurationReader) boolean(key string) *bool {
	value, _, found := fileReader.lookup(key)
	if !found {
		return nil
	}
	parsed, parseError := strconv.ParseBool(strings.TrimSpace(fmt.Sprint(value)))
	if parseError != nil {
		fileReader.remember(key, value, messageInvalidBoolean)
		return nil
	}
	return &parsed
}

func (fileReader *configurationReader) integer(key string) *int64 {
	value, _, found := fileReader.lookup(key)
	if !found {
		return nil
	}
	parsed, parseError := strconv.ParseInt(strings.TrimSpace(fmt.Sprint(value)), 10, 64)
	if parseError != nil {
		fileReader.remember(key, value, messageInvalidInteger)
		return nil
	}
	return &parsed
}

func (fileReader *configurationReader) number(key string) *float64 {
	value, _, found := fileReader.lookup(key)
	if !found {
		return nil
	}
	parsed, parseError := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(value)), 64)
	if parseError != nil {
		fileReader.remember(key, value, messageInvalidNumber)
		return nil
	}
	return &parsed
}

func (fileReader *configurationReader) remember(key string, value any, message string) {
	if fileReader.firstError == nil {
		fileReader.firstError = types.NewConfigError(key, fmt.Sprint(value), message)
	}
}

func normalizedExtensions(list StringList) StringList {
	if !list.Set {
		return list
	}
	return NewStringList(utils.NormalizeExtensions(list.Items)...)
}

func isKnownConfigType(extension string) bool {
	trimmed := strings.TrimPrefix(strings.ToLower(extension), ".")
	for _, supported := range viper.SupportedExts {
		if trimmed == supported {
			return true
		}
	}
	return false
}
