package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/printproject/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the per-user configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `[DEFAULT]
# Directories never traversed for file contents.
skip_folders = .git, print_project_outputs, node_modules, __pycache__, .venv, venv, dist, build
# Only process these extensions (empty processes every extension).
extensions =
# Extensions never processed.
skip_extensions = .pyc, .pyo, .so, .dll, .exe, .bin, .lock
# File names never processed.
skip_files = .DS_Store, Thumbs.db
# File names processed in addition to the normal selection, bypassing every filter.
include_files =
# When set, ONLY these file names are processed.
only_include_files =
# Extensions always treated as text.
trusted_extensions = %s
# Directories listed but not expanded in the tree. Empty reuses skip_folders, "none" expands all.
tree_exclude =
# Maximum file size in bytes, 0 for unlimited.
max_file_size = 0
console = false
no_summary = false
no_tree = false
output_dir = print_project_outputs
overwrite = false
line_numbers = true
use_gitignore = false
sample_size = 8192
confidence_threshold = 0.5
max_non_ascii_ratio = 0.3
tokens = false
model = gpt-4o
`

	configurationFilePermissions      = 0o600
	configurationDirectoryPermissions = 0o755
	trustedExtensionSeparator         = ", "
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// DefaultConfigurationTemplate returns the contents written by InitializeConfiguration.
func DefaultConfigurationTemplate() string {
	dotted := make([]string, 0, len(defaultTrustedExtensions))
	for _, extension := range defaultTrustedExtensions {
		dotted = append(dotted, "."+extension)
	}
	return fmt.Sprintf(defaultConfigurationTemplate, strings.Join(dotted, trustedExtensionSeparator))
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, configurationDirectoryPermissions); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.ConfigFileName)
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s (use --force to replace it)", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(DefaultConfigurationTemplate()), configurationFilePermissions); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
