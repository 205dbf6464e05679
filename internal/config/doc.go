// SPDX-License-Identifier: MPL-2.0

// Package config resolves the BuildContext: the process-wide directories,
// parallelism level, runner mode, and package compression codec every build
// runs under. Values come from built-in defaults, an optional config.cue
// file, and PKGSMITH_* environment variables, merged through viper.
package config
