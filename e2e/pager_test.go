//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHelpPager(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	_, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")

	pagePath, err := tf.CreateTestPage("grid.html", NumberedCards(3))
	require.NoError(t, err, "Failed to create test page")

	err = tf.StartApp("--page", pagePath)
	require.NoError(t, err, "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	// Open the key reference
	tf.OpenHelp()
	require.True(t, tf.OutputContainsPlain("While a video plays", 3*time.Second), "Should show help in pager")

	// Quit pager and ensure TUI again
	tf.Quit()
	before := tf.Snapshot()
	require.True(t, tf.WaitFor(func(s string) bool {
		return len(s) > len(before)
	}, 3*time.Second), "Should return to main TUI after closing pager")
	require.True(t, tf.SeePlain("Episode 1"), "Should show the grid again")
}
