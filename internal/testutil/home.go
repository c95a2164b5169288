// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the platform home variable (USERPROFILE on Windows,
// HOME elsewhere) at dir and returns a cleanup function restoring it.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	if runtime.GOOS == "windows" {
		return MustSetenv(t, "USERPROFILE", dir)
	}
	return MustSetenv(t, "HOME", dir)
}

// IsolateConfig points every variable craftpack consults for its config
// directory at dir, so that a developer's own config.cue cannot leak into a
// test. CRAFTPACK_* overrides are blanked, which viper treats as unset.
// Tests calling it must not run in parallel.
func IsolateConfig(t *testing.T, dir string) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("APPDATA", dir)
	t.Cleanup(SetHomeDir(t, dir))
	for _, key := range []string{
		"CRAFTPACK_DEFAULT_FORMAT",
		"CRAFTPACK_LANGUAGE",
		"CRAFTPACK_OUTPUT_DIR",
		"CRAFTPACK_COMMAND_DIALECT",
		"CRAFTPACK_UI_COLOR_SCHEME",
		"CRAFTPACK_UI_VERBOSE",
		"CRAFTPACK_WATCH_DEBOUNCE",
		"CRAFTPACK_WATCH_CLEAR_SCREEN",
	} {
		t.Setenv(key, "")
	}
}
