// SPDX-License-Identifier: MPL-2.0

// Package config handles craftpack configuration using Viper with CUE as the
// file format.
//
// Configuration is loaded from config.cue in the platform config directory
// ($XDG_CONFIG_HOME/craftpack on Linux, ~/Library/Application Support/craftpack
// on macOS, %APPDATA%\craftpack on Windows) or, failing that, from the current
// directory. Files are validated against the embedded config_schema.cue before
// they are merged over the defaults. CRAFTPACK_* environment variables override
// both, with dots in keys written as underscores (CRAFTPACK_COMMAND_DIALECT).
package config
