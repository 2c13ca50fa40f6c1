// Package filter decides which directories are traversed and which files are processed.
package filter

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/temirov/printproject/internal/types"
	"github.com/temirov/printproject/internal/utils"
)

const (
	ReasonNotOnlyIncluded    = "Not in only-include files list"
	ReasonExcludedFileFormat = "Excluded file: %s"
	ReasonGitignore          = "Matched .gitignore"
	ReasonExcludedExtFormat  = "Excluded extension: .%s"
	ReasonNotIncludedFormat  = "Extension not in inclusion list: .%s"
	ReasonTooLargeFormat     = "Size exceeds limit (%s)"
	ReasonBinary             = "Binary file"

	errorLoadGitignoreFormat = "loading %s: %w"
)

// Decision is the outcome of ShouldProcess.
type Decision struct {
	Process        bool
	Classification types.Classification
	Reason         string
	ForceIncluded  bool
	SkipDetection  bool
}

// Engine applies the content-processing and tree-display rule sets of a ScanConfig.
// The two rule sets never consult each other.
type Engine struct {
	config        types.ScanConfig
	ignoreMatcher gitignore.IgnoreMatcher
}

// New builds an Engine. When the configuration enables .gitignore support the root
// .gitignore, if present, is loaded once.
func New(config types.ScanConfig) (*Engine, error) {
	engine := &Engine{config: config}
	if !config.UseGitignore {
		return engine, nil
	}
	gitignorePath := filepath.Join(config.Root, utils.GitIgnoreFileName)
	if _, statError := os.Stat(gitignorePath); statError != nil {
		if os.IsNotExist(statError) {
			return engine, nil
		}
		return nil, fmt.Errorf(errorLoadGitignoreFormat, gitignorePath, statError)
	}
	matcher, loadError := gitignore.NewGitIgnore(gitignorePath, config.Root)
	if loadError != nil {
		return nil, fmt.Errorf(errorLoadGitignoreFormat, gitignorePath, loadError)
	}
	engine.ignoreMatcher = matcher
	return engine, nil
}

// ShouldDescend reports whether content traversal enters the directory named directoryName.
// A pruned directory's subtree is never visited.
func (engine *Engine) ShouldDescend(directoryName string) bool {
	return !engine.config.SkipDirs.Contains(directoryName)
}

// ExcludedFromTree reports whether the tree renderer lists directoryName without expanding it.
func (engine *Engine) ExcludedFromTree(directoryName string) bool {
	return engine.config.TreeExcludeDirs.Contains(directoryName)
}

// ShouldProcess applies the file rules in priority order; the first matching rule wins.
// relativePath is slash separated and relative to the scan root.
func (engine *Engine) ShouldProcess(relativePath string, size int64) Decision {
	fileName := path.Base(relativePath)

	if engine.config.ExclusiveMode() {
		if engine.config.OnlyIncludeFiles.Contains(fileName) {
			return Decision{Process: true, SkipDetection: true}
		}
		return excluded(ReasonNotOnlyIncluded)
	}

	if engine.config.ForceIncludeFiles.Contains(fileName) {
		return Decision{Process: true, ForceIncluded: true, SkipDetection: true}
	}

	if engine.config.IgnoreFiles.Contains(fileName) {
		return excluded(fmt.Sprintf(ReasonExcludedFileFormat, fileName))
	}

	if engine.matchesGitignore(relativePath) {
		return excluded(ReasonGitignore)
	}

	extension := utils.FileExtension(fileName)
	if engine.config.ExcludeExtensions.Contains(extension) {
		return excluded(fmt.Sprintf(ReasonExcludedExtFormat, extension))
	}

	if engine.config.IncludeExtensions.Len() > 0 && !engine.config.IncludeExtensions.Contains(extension) {
		return excluded(fmt.Sprintf(ReasonNotIncludedFormat, extension))
	}

	if engine.config.MaxFileSize > 0 && size > engine.config.MaxFileSize {
		return Decision{
			Classification: types.ClassificationTooLarge,
			Reason:         fmt.Sprintf(ReasonTooLargeFormat, utils.FormatFileSize(size)),
		}
	}

	return Decision{Process: true}
}

// matchesGitignore checks the file and each of its ancestor directories, since a
// directory pattern such as "build/" excludes everything beneath it.
func (engine *Engine) matchesGitignore(relativePath string) bool {
	if engine.ignoreMatcher == nil {
		return false
	}
	segments := strings.Split(relativePath, "/")
	for index := 1; index < len(segments); index++ {
		ancestor := filepath.Join(engine.config.Root, filepath.FromSlash(strings.Join(segments[:index], "/")))
		if engine.ignoreMatcher.Match(ancestor, true) {
			return true
		}
	}
	return engine.ignoreMatcher.Match(filepath.Join(engine.config.Root, filepath.FromSlash(relativePath)), false)
}

func excluded(reason string) Decision {
	return Decision{Classification: types.ClassificationExcluded, Reason: reason}
}
