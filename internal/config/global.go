// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride allows tests to point config loading at a temp directory
// without touching the real XDG config home.
var configDirOverride string

// SetConfigDirOverride sets a custom config directory path. Intended for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears test overrides. Call from test cleanup.
func Reset() {
	configDirOverride = ""
}
