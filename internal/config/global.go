// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride allows tests to override the config directory.
// os.UserHomeDir() does not reliably honor HOME on every platform.
var configDirOverride string

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride sets a custom config directory path. It is meant for
// tests; the CLI passes LoadOptions.ConfigDirPath instead.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
