// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the craftpack CLI commands.
//
// The root command wires configuration, logging and the subcommands that
// build, preview and inspect Minecraft data packs from a definition file.
package cmd
