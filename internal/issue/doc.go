// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors for the craftpack CLI: errors
// that carry the failed operation, the resource involved, suggestions, and
// optionally a Markdown help card from the catalog rendered with glamour.
package issue
