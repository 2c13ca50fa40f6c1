package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/printproject/internal/detect"
	"github.com/temirov/printproject/internal/filter"
	"github.com/temirov/printproject/internal/tokenizer"
	"github.com/temirov/printproject/internal/types"
	"github.com/temirov/printproject/internal/utils"
)

const (
	// ReasonSymbolicLink marks symbolic links found during traversal; they are never followed.
	ReasonSymbolicLink = "Symbolic link"
	// ReasonNotRegular marks devices, sockets and pipes.
	ReasonNotRegular = "Not a regular file"
	// ReasonErrorFormat prefixes per-file and per-directory access failures.
	ReasonErrorFormat = "Error: %v"

	errorRootStatFormat   = "reading project root %s: %w"
	errorRenderTreeFormat = "rendering tree for %s: %w"

	fieldRoot = "folder"

	messageRootMissing = "does not exist"
	messageRootNotDir  = "is not a directory"

	logTokenCountFailed    = "token counting failed"
	logDirectoryUnreadable = "directory unreadable"
)

// EventKind identifies what an Event reports.
type EventKind int

const (
	// EventFileClassified is emitted once per discovered file after classification.
	EventFileClassified EventKind = iota
	// EventDirectoryPruned is emitted for each directory excluded from traversal.
	EventDirectoryPruned
)

// Event describes progress of a scan. Index and Total are set for EventFileClassified.
type Event struct {
	Kind         EventKind
	RelativePath string
	Entry        types.FileEntry
	Index        int
	Total        int
}

// Observer receives scan events synchronously on the scanning goroutine.
type Observer func(Event)

// AssemblerOptions carries the collaborators of an Assembler that are not part of the
// scan configuration.
type AssemblerOptions struct {
	Now          func() time.Time
	TokenCounter tokenizer.Counter
	TokenModel   string
	Observer     Observer
	Logger       *zap.Logger
}

// Assembler traverses a project, classifies every file and collects the processed content.
type Assembler struct {
	config   types.ScanConfig
	engine   *filter.Engine
	detector *detect.Detector
	options  AssemblerOptions
}

// pendingFile is a file discovered during enumeration, classified afterwards.
type pendingFile struct {
	path         string
	relativePath string
	size         int64
	symlink      bool
	irregular    bool
	infoError    error
}

// NewAssembler constructs an Assembler. Missing options fall back to the wall clock,
// no token counting, no observer and a no-op logger.
func NewAssembler(config types.ScanConfig, engine *filter.Engine, detector *detect.Detector, options AssemblerOptions) *Assembler {
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Observer == nil {
		options.Observer = func(Event) {}
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	return &Assembler{config: config, engine: engine, detector: detector, options: options}
}

// Run performs the scan. Only a missing or non-directory root and context
// cancellation are fatal; every per-file problem is recorded in the result.
func (assembler *Assembler) Run(ctx context.Context) (*types.ScanResult, error) {
	root, absoluteError := filepath.Abs(assembler.config.Root)
	if absoluteError != nil {
		return nil, fmt.Errorf(errorRootStatFormat, assembler.config.Root, absoluteError)
	}
	assembler.config.Root = root
	rootInfo, statError := os.Stat(root)
	if statError != nil {
		if os.IsNotExist(statError) {
			return nil, types.NewConfigError(fieldRoot, root, messageRootMissing)
		}
		return nil, fmt.Errorf(errorRootStatFormat, root, statError)
	}
	if !rootInfo.IsDir() {
		return nil, types.NewConfigError(fieldRoot, root, messageRootNotDir)
	}

	result := types.NewScanResult(root, filepath.Base(root), assembler.options.Now())
	if assembler.options.TokenCounter != nil {
		result.TokenModel = assembler.options.TokenModel
	}

	if assembler.config.IncludeTree {
		tree, treeError := NewTreeRenderer(assembler.engine.ExcludedFromTree).Render(root)
		if treeError != nil {
			return nil, fmt.Errorf(errorRenderTreeFormat, root, treeError)
		}
		result.Tree = tree
	}

	pendingFiles := assembler.enumerate(result)
	for index, pending := range pendingFiles {
		if contextError := ctx.Err(); contextError != nil {
			return nil, contextError
		}
		entry := assembler.classify(pending)
		result.Record(entry)
		assembler.options.Observer(Event{
			Kind:         EventFileClassified,
			RelativePath: entry.RelativePath,
			Entry:        entry,
			Index:        index + 1,
			Total:        len(pendingFiles),
		})
	}

	result.Elapsed = assembler.options.Now().Sub(result.StartedAt)
	return result, nil
}

// enumerate walks the tree with an explicit stack using Lstat metadata only and
// returns the discovered files sorted by relative path.
func (assembler *Assembler) enumerate(result *types.ScanResult) []pendingFile {
	var pendingFiles []pendingFile
	directoryStack := []string{assembler.config.Root}

	for len(directoryStack) > 0 {
		directoryPath := directoryStack[len(directoryStack)-1]
		directoryStack = directoryStack[:len(directoryStack)-1]

		directoryEntries, readError := os.ReadDir(directoryPath)
		if readError != nil {
			relativeDirectory := utils.RelativePathOrSelf(directoryPath, assembler.config.Root)
			assembler.options.Logger.Debug(logDirectoryUnreadable, zap.String("path", relativeDirectory), zap.Error(readError))
			result.DirErrors = append(result.DirErrors, types.DirectoryError{
				Path:   relativeDirectory + "/",
				Reason: fmt.Sprintf(ReasonErrorFormat, readError),
			})
			continue
		}

		for _, directoryEntry := range directoryEntries {
			entryPath := filepath.Join(directoryPath, directoryEntry.Name())
			relativePath := utils.RelativePathOrSelf(entryPath, assembler.config.Root)
			entryType := directoryEntry.Type()

			switch {
			case entryType&os.ModeSymlink != 0:
				pendingFiles = append(pendingFiles, pendingFile{path: entryPath, relativePath: relativePath, symlink: true})
			case directoryEntry.IsDir():
				if !assembler.engine.ShouldDescend(directoryEntry.Name()) {
					result.SkippedDirs = append(result.SkippedDirs, relativePath)
					assembler.options.Observer(Event{Kind: EventDirectoryPruned, RelativePath: relativePath})
					continue
				}
				directoryStack = append(directoryStack, entryPath)
			case !entryType.IsRegular():
				pendingFiles = append(pendingFiles, pendingFile{path: entryPath, relativePath: relativePath, irregular: true})
			default:
				pending := pendingFile{path: entryPath, relativePath: relativePath}
				if entryInfo, infoError := directoryEntry.Info(); infoError != nil {
					pending.infoError = infoError
				} else {
					pending.size = entryInfo.Size()
				}
				pendingFiles = append(pendingFiles, pending)
			}
		}
	}

	sort.Strings(result.SkippedDirs)
	sort.Slice(pendingFiles, func(left, right int) bool {
		return pendingFiles[left].relativePath < pendingFiles[right].relativePath
	})
	return pendingFiles
}

// classify applies the filter rules, the text detector and finally reads the file.
func (assembler *Assembler) classify(pending pendingFile) types.FileEntry {
	entry := types.FileEntry{Path: pending.path, RelativePath: pending.relativePath, Size: pending.size}

	switch {
	case pending.symlink:
		return skipped(entry, types.ClassificationExcluded, ReasonSymbolicLink)
	case pending.irregular:
		return skipped(entry, types.ClassificationExcluded, ReasonNotRegular)
	case pending.infoError != nil:
		return skipped(entry, types.ClassificationError, fmt.Sprintf(ReasonErrorFormat, pending.infoError))
	}

	decision := assembler.engine.ShouldProcess(pending.relativePath, pending.size)
	if !decision.Process {
		return skipped(entry, decision.Classification, decision.Reason)
	}
	entry.ForceIncluded = decision.ForceIncluded

	encodingName := detect.EncodingUTF8
	if !decision.SkipDetection {
		verdict, classifyError := assembler.detector.ClassifyFile(pending.path)
		if classifyError != nil {
			return skipped(entry, types.ClassificationError, fmt.Sprintf(ReasonErrorFormat, classifyError))
		}
		if !verdict.Text {
			return skipped(entry, types.ClassificationBinary, filter.ReasonBinary)
		}
		if verdict.Encoding != "" {
			encodingName = verdict.Encoding
		}
	}

	data, readError := os.ReadFile(pending.path)
	if readError != nil {
		return skipped(entry, types.ClassificationError, fmt.Sprintf(ReasonErrorFormat, readError))
	}

	entry.Classification = types.ClassificationText
	entry.Size = int64(len(data))
	entry.Encoding = encodingName
	entry.Content = detect.DecodeContent(data, encodingName)
	entry.Lines = utils.CountLines(entry.Content)

	countResult, countError := tokenizer.CountText(assembler.options.TokenCounter, entry.Content)
	if countError != nil {
		assembler.options.Logger.Warn(logTokenCountFailed, zap.String("path", pending.relativePath), zap.Error(countError))
	} else if countResult.Counted {
		entry.Tokens = countResult.Tokens
	}
	return entry
}

func skipped(entry types.FileEntry, classification types.Classification, reason string) types.FileEntry {
	entry.Classification = classification
	entry.Reason = reason
	return entry
}
