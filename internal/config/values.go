// Package config resolves the run configuration from built-in defaults, an optional
// configuration file and command-line flags.
package config

import (
	"github.com/temirov/printproject/internal/utils"
)

// StringList is a list setting that remembers whether a layer configured it.
type StringList struct {
	Items []string
	Set   bool
}

// NewStringList returns a configured list.
func NewStringList(items ...string) StringList {
	return StringList{Items: utils.DeduplicatePatterns(items), Set: true}
}

// Values is one configuration layer. Nil fields and unset lists leave lower layers untouched.
type Values struct {
	Root                *string
	SkipFolders         StringList
	Extensions          StringList
	ExcludeExtensions   StringList
	IgnoreFiles         StringList
	IncludeFiles        StringList
	OnlyIncludeFiles    StringList
	TrustedExtensions   StringList
	TreeExclude         StringList
	MaxFileSize         *int64
	Console             *bool
	NoSummary           *bool
	NoTree              *bool
	OutputDirectory     *string
	OutputName          *string
	Overwrite           *bool
	LineNumbers         *bool
	SampleSize          *int
	ConfidenceThreshold *float64
	MaxNonASCIIRatio    *float64
	UseGitignore        *bool
	Tokens              *bool
	Model               *string
	Stdout              *bool
	Clipboard           *bool
}

// Merge overlays override onto the receiver returning the combined layer.
func (values Values) Merge(override Values) Values {
	result := values
	result.Root = mergeValue(result.Root, override.Root)
	result.SkipFolders = result.SkipFolders.merge(override.SkipFolders)
	result.Extensions = result.Extensions.merge(override.Extensions)
	result.ExcludeExtensions = result.ExcludeExtensions.merge(override.ExcludeExtensions)
	result.IgnoreFiles = result.IgnoreFiles.merge(override.IgnoreFiles)
	result.IncludeFiles = result.IncludeFiles.merge(override.IncludeFiles)
	result.OnlyIncludeFiles = result.OnlyIncludeFiles.merge(override.OnlyIncludeFiles)
	result.TrustedExtensions = result.TrustedExtensions.merge(override.TrustedExtensions)
	result.TreeExclude = result.TreeExclude.merge(override.TreeExclude)
	result.MaxFileSize = mergeValue(result.MaxFileSize, override.MaxFileSize)
	result.Console = mergeValue(result.Console, override.Console)
	result.NoSummary = mergeValue(result.NoSummary, override.NoSummary)
	result.NoTree = mergeValue(result.NoTree, override.NoTree)
	result.OutputDirectory = mergeValue(result.OutputDirectory, override.OutputDirectory)
	result.OutputName = mergeValue(result.OutputName, override.OutputName)
	result.Overwrite = mergeValue(result.Overwrite, override.Overwrite)
	result.LineNumbers = mergeValue(result.LineNumbers, override.LineNumbers)
	result.SampleSize = mergeValue(result.SampleSize, override.SampleSize)
	result.ConfidenceThreshold = mergeValue(result.ConfidenceThreshold, override.ConfidenceThreshold)
	result.MaxNonASCIIRatio = mergeValue(result.MaxNonASCIIRatio, override.MaxNonASCIIRatio)
	result.UseGitignore = mergeValue(result.UseGitignore, override.UseGitignore)
	result.Tokens = mergeValue(result.Tokens, override.Tokens)
	result.Model = mergeValue(result.Model, override.Model)
	result.Stdout = mergeValue(result.Stdout, override.Stdout)
	result.Clipboard = mergeValue(result.Clipboard, override.Clipboard)
	return result
}

func (list StringList) merge(override StringList) StringList {
	if !override.Set {
		return list
	}
	return StringList{Items: append([]string{}, override.Items...), Set: true}
}

func mergeValue[T any](current *T, override *T) *T {
	if override == nil {
		return current
	}
	cloned := *override
	return &cloned
}

func valueOf[T any](pointer *T) T {
	var zero T
	if pointer == nil {
		return zero
	}
	return *pointer
}

// Pointer returns a pointer to a copy of value. It is used to populate Values.
func Pointer[T any](value T) *T {
	return &value
}
