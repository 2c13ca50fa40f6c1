package utils

const (
	// ApplicationName is used for the config directory and lock file names.
	ApplicationName = "print-project"
	// ConfigFileName is the name of the INI configuration file.
	ConfigFileName = "config.ini"
	// GlobalConfigDirectoryName is the per-user configuration directory under the home directory.
	GlobalConfigDirectoryName = ".print-project"
	// DefaultOutputDirectoryName is the directory receiving generated documents.
	DefaultOutputDirectoryName = "print_project_outputs"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal run errors.
	ApplicationExecutionFailedMessage = "print-project failed"
)
