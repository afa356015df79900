package harness

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeExtensionDirs(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
	}
	return dir
}

func TestDiscoverInstallationPicksNewestVersions(t *testing.T) {
	dir := makeExtensionDirs(t,
		"valentjn.vscode-ltex-9.2.0",
		"valentjn.vscode-ltex-13.1.0",
		"valentjn.vscode-ltex-en-9.0.1",
		"valentjn.vscode-ltex-en-10.0.0",
		"some.other-extension-1.0.0",
	)

	inst, err := DiscoverInstallation(dir)
	require.NoError(t, err)

	// 13 beats 9 numerically even though it loses lexicographically.
	assert.Equal(t, "valentjn.vscode-ltex-13.1.0", inst.MainDir)
	assert.Equal(t, "valentjn.vscode-ltex-en-10.0.0", inst.LanguageDir)
	assert.Equal(t, dir, inst.ExtensionsDir)
}

func TestDiscoverInstallationExcludesOtherLanguagePacks(t *testing.T) {
	// Directory names with more than two dashes are not the main
	// extension, even with the matching prefix.
	dir := makeExtensionDirs(t,
		"valentjn.vscode-ltex-8.0.0",
		"valentjn.vscode-ltex-de-9.0.0",
		"valentjn.vscode-ltex-en-9.0.0",
	)

	inst, err := DiscoverInstallation(dir)
	require.NoError(t, err)
	assert.Equal(t, "valentjn.vscode-ltex-8.0.0", inst.MainDir)
}

func TestDiscoverInstallationMissingMain(t *testing.T) {
	dir := makeExtensionDirs(t, "valentjn.vscode-ltex-en-9.0.0")

	_, err := DiscoverInstallation(dir)
	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Contains(t, configErr.Reason, "main extension")
}

func TestDiscoverInstallationMissingLanguage(t *testing.T) {
	dir := makeExtensionDirs(t, "valentjn.vscode-ltex-9.0.0")

	_, err := DiscoverInstallation(dir)
	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Contains(t, configErr.Reason, "language extension")
}

func TestDiscoverInstallationMissingDirectory(t *testing.T) {
	_, err := DiscoverInstallation(filepath.Join(t.TempDir(), "does-not-exist"))
	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestServerArgs(t *testing.T) {
	inst := &Installation{
		ExtensionsDir: "/home/user/.vscode/extensions",
		MainDir:       "valentjn.vscode-ltex-13.1.0",
		LanguageDir:   "valentjn.vscode-ltex-en-10.0.0",
	}

	args := inst.ServerArgs(12345)

	require.Len(t, args, 5)
	assert.Equal(t, "java", args[0])
	assert.Equal(t, "-classpath", args[1])
	assert.Equal(t, "LanguageToolLanguageServerLauncher", args[3])
	assert.Equal(t, "12345", args[4])

	classpath := strings.Split(args[2], string(os.PathListSeparator))
	require.Len(t, classpath, 3)
	assert.Contains(t, classpath[0], "ltex-ls-languagetool-patch.jar")
	assert.Contains(t, classpath[0], "valentjn.vscode-ltex-13.1.0")
	assert.Contains(t, classpath[2], "valentjn.vscode-ltex-en-10.0.0")
}
