package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeConfigurationCreatesLocalFile(t *testing.T) {
	workingDirectory := t.TempDir()
	options := InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal}
	path, err := InitializeConfiguration(options)
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(workingDirectory, "config.ini")
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}
	content, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read config: %v", readErr)
	}
	if !strings.HasPrefix(string(content), "[DEFAULT]\n") {
		t.Fatalf("unexpected configuration content: %s", string(content))
	}
	if !strings.Contains(string(content), "trusted_extensions = .md, .txt,") {
		t.Fatalf("trusted extensions missing from template: %s", string(content))
	}
}

func TestInitializeConfigurationTemplateLoads(t *testing.T) {
	workingDirectory := t.TempDir()
	path, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	values, loadErr := LoadFile(path)
	if loadErr != nil {
		t.Fatalf("LoadFile error: %v", loadErr)
	}
	settings, resolveErr := Resolve(values, Values{Root: Pointer(workingDirectory)})
	if resolveErr != nil {
		t.Fatalf("Resolve error: %v", resolveErr)
	}
	if !settings.Scan.SkipDirs.Contains("node_modules") {
		t.Fatalf("expected node_modules to be skipped")
	}
	if !settings.Scan.ExcludeExtensions.Contains("pyc") {
		t.Fatalf("expected pyc to be excluded, got %v", settings.Scan.ExcludeExtensions.Sorted())
	}
	if settings.Scan.TrustedExtensions.Len() != len(DefaultTrustedExtensions()) {
		t.Fatalf("expected %d trusted extensions, got %d", len(DefaultTrustedExtensions()), settings.Scan.TrustedExtensions.Len())
	}
	if settings.Scan.TreeExcludeSource != "file processing config" {
		t.Fatalf("expected inherited tree exclusions, got %q", settings.Scan.TreeExcludeSource)
	}
}

func TestInitializeConfigurationHonorsGlobalTarget(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	path, err := InitializeConfiguration(InitOptions{Target: InitTargetGlobal, Force: true})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	if path != filepath.Join(homeDir, ".print-project", "config.ini") {
		t.Fatalf("expected configuration under home dir, got %s", path)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected file to exist at %s: %v", path, statErr)
	}
}

func TestInitializeConfigurationPreventsOverwriteWithoutForce(t *testing.T) {
	workingDirectory := t.TempDir()
	path := filepath.Join(workingDirectory, "config.ini")
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatalf("write seed config: %v", err)
	}
	_, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: false})
	if err == nil {
		t.Fatalf("expected error when configuration already exists")
	}
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: true}); err != nil {
		t.Fatalf("expected forced initialization to succeed: %v", err)
	}
}
