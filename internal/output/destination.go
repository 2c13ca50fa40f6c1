package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/temirov/printproject/internal/types"
	"github.com/temirov/printproject/internal/utils"
)

const (
	documentExtension      = ".txt"
	lockFileName           = "." + utils.ApplicationName + ".lock"
	temporaryFilePattern   = ".tmp-*"
	collisionSuffixFormat  = "%s_%d"
	timestampedNameFormat  = "%s_%s"
	maximumCollisionSuffix = 10000

	outputDirectoryPermissions = 0o755
	outputFilePermissions      = 0o644

	errorOutputWriteFormat     = "%w: %s: %w"
	errorResolveDirectory      = "resolving output directory %s: %w"
	errorInspectDestination    = "inspecting %s: %w"
	errorCollisionsExhausted   = "no free file name for %s"
	errorCreateDirectoryFormat = "creating directory %s: %w"
	errorAcquireLockFormat     = "acquiring lock %s: %w"
	errorCreateTempFormat      = "creating temporary file in %s: %w"
	errorWriteTempFormat       = "writing temporary file %s: %w"
	errorSyncTempFormat        = "syncing temporary file %s: %w"
	errorCloseTempFormat       = "closing temporary file %s: %w"
	errorChmodTempFormat       = "setting permissions on %s: %w"
	errorRenameFormat          = "renaming %s to %s: %w"
)

// DestinationOptions controls where the document is written.
type DestinationOptions struct {
	// Directory receives the document. Empty selects print_project_outputs under the
	// working directory.
	Directory string
	// BaseName replaces the project name in the file name.
	BaseName string
	// Overwrite writes to a fixed name without a timestamp, replacing earlier output.
	Overwrite bool
}

// ResolveDestination returns the absolute path of the next document. Outside overwrite
// mode an existing file is never reused; numeric suffixes are tried instead.
func ResolveDestination(options DestinationOptions, projectName string, now time.Time) (string, error) {
	directory, directoryError := resolveDirectory(options.Directory)
	if directoryError != nil {
		return "", directoryError
	}

	baseName := strings.TrimSuffix(strings.TrimSpace(options.BaseName), documentExtension)
	if baseName == "" {
		baseName = projectName
	}
	if options.Overwrite {
		return filepath.Join(directory, baseName+documentExtension), nil
	}

	stem := fmt.Sprintf(timestampedNameFormat, baseName, utils.FormatFileStamp(now))
	candidate := filepath.Join(directory, stem+documentExtension)
	for suffix := 1; suffix <= maximumCollisionSuffix; suffix++ {
		exists, existsError := pathExists(candidate)
		if existsError != nil {
			return "", existsError
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(directory, fmt.Sprintf(collisionSuffixFormat, stem, suffix)+documentExtension)
	}
	return "", fmt.Errorf(errorCollisionsExhausted, stem)
}

// WriteDocument resolves the destination and publishes document there while holding the
// output directory lock, so concurrent runs never pick the same name. Every failure
// wraps types.ErrOutputWrite.
func WriteDocument(options DestinationOptions, projectName string, now time.Time, document string) (string, error) {
	directory, directoryError := resolveDirectory(options.Directory)
	if directoryError != nil {
		return "", fmt.Errorf(errorOutputWriteFormat, types.ErrOutputWrite, options.Directory, directoryError)
	}
	if makeError := os.MkdirAll(directory, outputDirectoryPermissions); makeError != nil {
		return "", fmt.Errorf(errorOutputWriteFormat, types.ErrOutputWrite, directory, fmt.Errorf(errorCreateDirectoryFormat, directory, makeError))
	}

	lockPath := filepath.Join(directory, lockFileName)
	directoryLock := flock.New(lockPath)
	if lockError := directoryLock.Lock(); lockError != nil {
		return "", fmt.Errorf(errorOutputWriteFormat, types.ErrOutputWrite, lockPath, fmt.Errorf(errorAcquireLockFormat, lockPath, lockError))
	}
	defer directoryLock.Unlock()

	options.Directory = directory
	destination, resolveError := ResolveDestination(options, projectName, now)
	if resolveError != nil {
		return "", fmt.Errorf(errorOutputWriteFormat, types.ErrOutputWrite, directory, resolveError)
	}
	if writeError := AtomicWrite(destination, []byte(document)); writeError != nil {
		return "", fmt.Errorf(errorOutputWriteFormat, types.ErrOutputWrite, destination, writeError)
	}
	return destination, nil
}

// AtomicWrite writes data to a temporary file in the target directory, syncs it and
// renames it over path. Readers never observe a partial document.
func AtomicWrite(path string, data []byte) error {
	directory := filepath.Dir(path)
	if makeError := os.MkdirAll(directory, outputDirectoryPermissions); makeError != nil {
		return fmt.Errorf(errorCreateDirectoryFormat, directory, makeError)
	}

	temporaryFile, createError := os.CreateTemp(directory, temporaryFilePattern)
	if createError != nil {
		return fmt.Errorf(errorCreateTempFormat, directory, createError)
	}
	temporaryPath := temporaryFile.Name()
	published := false
	defer func() {
		if !published {
			_ = temporaryFile.Close()
			_ = os.Remove(temporaryPath)
		}
	}()

	if _, writeError := temporaryFile.Write(data); writeError != nil {
		return fmt.Errorf(errorWriteTempFormat, temporaryPath, writeError)
	}
	if syncError := temporaryFile.Sync(); syncError != nil {
		return fmt.Errorf(errorSyncTempFormat, temporaryPath, syncError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return fmt.Errorf(errorCloseTempFormat, temporaryPath, closeError)
	}
	if chmodError := os.Chmod(temporaryPath, outputFilePermissions); chmodError != nil {
		return fmt.Errorf(errorChmodTempFormat, temporaryPath, chmodError)
	}
	if renameError := os.Rename(temporaryPath, path); renameError != nil {
		return fmt.Errorf(errorRenameFormat, temporaryPath, path, renameError)
	}
	published = true
	return nil
}

func resolveDirectory(directory string) (string, error) {
	if strings.TrimSpace(directory) == "" {
		directory = utils.DefaultOutputDirectoryName
	}
	absoluteDirectory, absoluteError := filepath.Abs(directory)
	if absoluteError != nil {
		return "", fmt.Errorf(errorResolveDirectory, directory, absoluteError)
	}
	return absoluteDirectory, nil
}

func pathExists(path string) (bool, error) {
	_, statError := os.Lstat(path)
	if statError == nil {
		return true, nil
	}
	if errors.Is(statError, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf(errorInspectDestination, path, statError)
}
