//go:build e2e && unix

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelpCommand(t *testing.T) {
	t.Parallel()

	// Ensure the test binary exists (it should be built by TestMain)
	if _, err := os.Stat(binPath); os.IsNotExist(err) {
		t.Skip("Test binary not found - TestMain may not have run yet")
	}

	// Test help command by running it directly (not through PTY since it exits quickly)
	cmd := exec.Command(binPath, "--help")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "Help command should run without error")

	output := string(out)
	t.Logf("Help output length: %d chars", len(output))

	require.Greater(t, len(output), 50, "Help should produce substantial output")
	require.Contains(t, output, "Usage")
	require.Contains(t, output, "--no-outline")
	require.Contains(t, output, "outline")
	require.Contains(t, output, "export")
}

func TestOutlineCommand(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	_, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")
	path, err := tf.WriteDocument("guide.md", SampleDocument("Guide", "Install", "Usage"))
	require.NoError(t, err)

	out, err := exec.Command(binPath, "outline", path).CombinedOutput()
	require.NoError(t, err, string(out))

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[1], "#guide")
	require.Contains(t, lines[2], "#install")
	require.Contains(t, lines[3], "#usage")
}

func TestExportCommand(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")
	path, err := tf.WriteDocument("guide.md", SampleDocument("Guide", "Install"))
	require.NoError(t, err)

	target := filepath.Join(workspace, "guide.html")
	out, err := exec.Command(binPath, "export", path, "-o", target).CombinedOutput()
	require.NoError(t, err, string(out))

	html, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Contains(t, string(html), `<a href="#install">Install</a>`)
	require.Contains(t, string(html), `id="install"`)
}

func TestHelpPager(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	_, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")
	path, err := tf.WriteDocument("guide.md", SampleDocument("Guide", "Install"))
	require.NoError(t, err)

	require.NoError(t, tf.StartApp(path), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	require.NoError(t, tf.SendKeys(KeyHelp))
	require.True(t, tf.SeePlain("tocview Help"), "Help pager should open")

	// Leave the pager and quit
	require.NoError(t, tf.SendKeys(KeyQuit))
	require.True(t, tf.SeePlain("Contents"), "Reader should come back after the pager")
	require.NoError(t, tf.Quit())
}
