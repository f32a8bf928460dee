// SPDX-License-Identifier: MPL-2.0

// Package config loads argweave's settings using Viper with CUE as the file format.
//
// Settings come from config.cue in the user config directory ($XDG_CONFIG_HOME/argweave
// on Linux, ~/Library/Application Support/argweave on macOS, %APPDATA%\argweave on
// Windows), from config.cue in the working directory when the former is absent, or
// from an explicit --config file. ARGWEAVE_* environment variables override file
// values (ARGWEAVE_STRICT, ARGWEAVE_ENV_FILE_SEPARATOR, ARGWEAVE_UI_MARKDOWN, ...).
//
// Files are validated against config_schema.cue before they are merged.
package config
