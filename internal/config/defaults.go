package config

import (
	"github.com/temirov/printproject/internal/detect"
	"github.com/temirov/printproject/internal/tokenizer"
	"github.com/temirov/printproject/internal/utils"
)

// defaultTrustedExtensions are always treated as text without sniffing.
var defaultTrustedExtensions = []string{
	"md", "txt", "sh", "bash", "zsh", "fish", "py", "js", "ts", "jsx", "tsx",
	"java", "c", "cpp", "cc", "cxx", "h", "hpp", "cs", "go", "rs", "rb", "php",
	"css", "scss", "sass", "less", "html", "htm", "xml", "xhtml", "vue", "svelte",
	"yml", "yaml", "json", "toml", "ini", "cfg", "conf", "config", "properties",
	"sql", "pl", "perl", "r", "m", "mm", "swift", "kt", "kts", "scala",
	"clj", "cljs", "hs", "elm", "ex", "exs", "erl", "hrl", "lua", "vim", "vimrc",
	"ps1", "psm1", "bat", "cmd", "dockerfile", "makefile", "cmake", "gradle",
	"sbt", "gemfile", "rakefile", "podfile", "cartfile", "nixos", "nix",
}

// DefaultTrustedExtensions returns a copy of the built-in trusted extension list.
func DefaultTrustedExtensions() []string {
	return append([]string{}, defaultTrustedExtensions...)
}

// Defaults is the lowest configuration layer.
func Defaults() Values {
	return Values{
		Root:                Pointer("."),
		SkipFolders:         NewStringList(utils.GitDirectoryName, utils.DefaultOutputDirectoryName),
		Extensions:          NewStringList(),
		ExcludeExtensions:   NewStringList(),
		IgnoreFiles:         NewStringList(),
		IncludeFiles:        NewStringList(),
		OnlyIncludeFiles:    NewStringList(),
		TrustedExtensions:   NewStringList(DefaultTrustedExtensions()...),
		TreeExclude:         StringList{},
		MaxFileSize:         Pointer(int64(0)),
		Console:             Pointer(false),
		NoSummary:           Pointer(false),
		NoTree:              Pointer(false),
		OutputDirectory:     Pointer(utils.DefaultOutputDirectoryName),
		OutputName:          Pointer(""),
		Overwrite:           Pointer(false),
		LineNumbers:         Pointer(true),
		SampleSize:          Pointer(detect.DefaultSampleSize),
		ConfidenceThreshold: Pointer(detect.DefaultConfidenceThreshold),
		MaxNonASCIIRatio:    Pointer(detect.DefaultMaxNonASCIIRatio),
		UseGitignore:        Pointer(false),
		Tokens:              Pointer(false),
		Model:               Pointer(tokenizer.DefaultModel),
		Stdout:              Pointer(false),
		Clipboard:           Pointer(false),
	}
}
