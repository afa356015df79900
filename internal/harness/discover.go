// Package harness boots the language server and drives a batch of
// validations against it: it locates the LTeX VS Code extension, spawns
// the server subprocess with a TCP socket, and feeds it documents.
package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	mainExtensionPrefix     = "valentjn.vscode-ltex-"
	languageExtensionPrefix = "valentjn.vscode-ltex-en-"
)

// ConfigurationError indicates that no usable server installation was
// found or that process/socket setup failed.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Installation describes a discovered LTeX extension pair.
type Installation struct {
	// ExtensionsDir is the VS Code extensions directory that was scanned.
	ExtensionsDir string
	// MainDir is the directory name of the newest main extension.
	MainDir string
	// LanguageDir is the directory name of the newest English language
	// extension.
	LanguageDir string
}

// DefaultExtensionsDir returns the standard VS Code extensions directory.
func DefaultExtensionsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", &ConfigurationError{Reason: "resolving home directory", Err: err}
	}
	return filepath.Join(home, ".vscode", "extensions"), nil
}

// DiscoverInstallation scans extensionsDir for the LTeX main and English
// language extensions, picking the highest version of each.
func DiscoverInstallation(extensionsDir string) (*Installation, error) {
	entries, err := os.ReadDir(extensionsDir)
	if err != nil {
		return nil, &ConfigurationError{Reason: "reading extensions directory", Err: err}
	}

	var mainDirs, languageDirs []string
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasPrefix(name, languageExtensionPrefix):
			languageDirs = append(languageDirs, name)
		case strings.HasPrefix(name, mainExtensionPrefix) && strings.Count(name, "-") == 2:
			mainDirs = append(mainDirs, name)
		}
	}

	if len(mainDirs) == 0 {
		return nil, &ConfigurationError{Reason: "no LTeX main extension found"}
	}
	if len(languageDirs) == 0 {
		return nil, &ConfigurationError{Reason: "no LTeX English language extension found"}
	}

	sortByVersion(mainDirs)
	sortByVersion(languageDirs)

	return &Installation{
		ExtensionsDir: extensionsDir,
		MainDir:       mainDirs[len(mainDirs)-1],
		LanguageDir:   languageDirs[len(languageDirs)-1],
	}, nil
}

// sortByVersion orders extension directory names by the dotted version
// after the final dash, numerically per component.
func sortByVersion(dirs []string) {
	sort.Slice(dirs, func(i, j int) bool {
		return compareVersions(versionKey(dirs[i]), versionKey(dirs[j])) < 0
	})
}

func versionKey(dir string) []int {
	version := dir[strings.LastIndex(dir, "-")+1:]
	parts := strings.Split(version, ".")
	key := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			n = 0
		}
		key = append(key, n)
	}
	return key
}

func compareVersions(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return len(a) - len(b)
}

// ServerArgs builds the java invocation for the language server, told to
// connect back on port.
func (inst *Installation) ServerArgs(port int) []string {
	serverLib := filepath.Join(inst.ExtensionsDir, inst.MainDir,
		"lib", "languagetool-languageserver",
		"build", "install", "languagetool-languageserver", "lib")
	classpath := strings.Join([]string{
		filepath.Join(serverLib, "ltex-ls-languagetool-patch.jar"),
		filepath.Join(serverLib, "*"),
		filepath.Join(inst.ExtensionsDir, inst.LanguageDir, "lib", "*"),
	}, string(os.PathListSeparator))

	return []string{
		"java", "-classpath", classpath,
		"LanguageToolLanguageServerLauncher", strconv.Itoa(port),
	}
}
