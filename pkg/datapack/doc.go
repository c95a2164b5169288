// SPDX-License-Identifier: MPL-2.0

// Package datapack assembles a Minecraft Java data pack from a Definition:
// pack metadata, one shapeless recipe, a function holding the give command,
// the load tag that runs it, and a README with install instructions.
//
// Assemble renders the files, (*Archive).WriteZip compresses them and Build
// does both in memory. Previews renders the same texts without an archive.
// Archives are deterministic: identical definitions and options give
// identical bytes.
//
// The archive layout and JSON key names are read by the game and by other
// tools; they must not change.
package datapack
