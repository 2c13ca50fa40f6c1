// Package commands contains the core logic for data collection: the directory tree
// rendering and the content assembly of a scan.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix   = "/"
	symlinkFormat     = "%s -> %s"
	treeErrorFormat   = "[error: %s]"
	treeLineSeparator = "\n"

	errorTreeRootStatFormat = "reading tree root %s: %w"
	errorTreeRootNotDir     = "tree root %s is not a directory"
)

type treeEntryKind int

const (
	treeEntryFile treeEntryKind = iota
	treeEntryDirectory
	treeEntrySymlink
	treeEntryError
)

type treeEntry struct {
	name  string
	path  string
	kind  treeEntryKind
	label string
}

// treeFrame is one directory level on the explicit traversal stack.
type treeFrame struct {
	prefix  string
	entries []treeEntry
	next    int
}

// TreeRenderer draws the visual directory tree of a project.
type TreeRenderer struct {
	excluded func(directoryName string) bool
}

// NewTreeRenderer returns a renderer that lists, without expanding, every directory for
// which excluded reports true. A nil predicate expands everything.
func NewTreeRenderer(excluded func(directoryName string) bool) *TreeRenderer {
	if excluded == nil {
		excluded = func(string) bool { return false }
	}
	return &TreeRenderer{excluded: excluded}
}

// Render returns the tree of rootDirectoryPath without a trailing newline.
// Symbolic links are shown as leaves and never followed. Unreadable directories
// produce an error line and rendering continues.
func (renderer *TreeRenderer) Render(rootDirectoryPath string) (string, error) {
	absoluteRootPath, absoluteError := filepath.Abs(rootDirectoryPath)
	if absoluteError != nil {
		return "", fmt.Errorf(errorTreeRootStatFormat, rootDirectoryPath, absoluteError)
	}
	rootInfo, statError := os.Stat(absoluteRootPath)
	if statError != nil {
		return "", fmt.Errorf(errorTreeRootStatFormat, absoluteRootPath, statError)
	}
	if !rootInfo.IsDir() {
		return "", fmt.Errorf(errorTreeRootNotDir, absoluteRootPath)
	}

	lines := []string{filepath.Base(absoluteRootPath) + directorySuffix}
	stack := []*treeFrame{{entries: readTreeEntries(absoluteRootPath)}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		if frame.next >= len(frame.entries) {
			stack = stack[:len(stack)-1]
			continue
		}
		entry := frame.entries[frame.next]
		frame.next++
		isLast := frame.next == len(frame.entries)

		connector, padding := treeBranchConnector, treeBranchPadding
		if isLast {
			connector, padding = treeLastConnector, treeLastPadding
		}
		lines = append(lines, frame.prefix+connector+entry.label)

		if entry.kind == treeEntryDirectory && !renderer.excluded(entry.name) {
			stack = append(stack, &treeFrame{
				prefix:  frame.prefix + padding,
				entries: readTreeEntries(entry.path),
			})
		}
	}

	return strings.Join(lines, treeLineSeparator), nil
}

// readTreeEntries lists a directory in display order: directories first, then
// everything else, each group case-insensitively sorted with ties broken by exact name.
func readTreeEntries(directoryPath string) []treeEntry {
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return []treeEntry{{kind: treeEntryError, label: fmt.Sprintf(treeErrorFormat, readError.Error())}}
	}

	entries := make([]treeEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		entryPath := filepath.Join(directoryPath, entryName)
		switch {
		case directoryEntry.Type()&os.ModeSymlink != 0:
			label := entryName
			if target, linkError := os.Readlink(entryPath); linkError == nil {
				label = fmt.Sprintf(symlinkFormat, entryName, target)
			}
			entries = append(entries, treeEntry{name: entryName, path: entryPath, kind: treeEntrySymlink, label: label})
		case directoryEntry.IsDir():
			entries = append(entries, treeEntry{name: entryName, path: entryPath, kind: treeEntryDirectory, label: entryName + directorySuffix})
		default:
			entries = append(entries, treeEntry{name: entryName, path: entryPath, kind: treeEntryFile, label: entryName})
		}
	}

	sort.SliceStable(entries, func(left, right int) bool {
		leftIsDirectory := entries[left].kind == treeEntryDirectory
		rightIsDirectory := entries[right].kind == treeEntryDirectory
		if leftIsDirectory != rightIsDirectory {
			return leftIsDirectory
		}
		leftFolded := strings.ToLower(entries[left].name)
		rightFolded := strings.ToLower(entries[right].name)
		if leftFolded != rightFolded {
			return leftFolded < rightFolded
		}
		return entries[left].name < entries[right].name
	})
	return entries
}
