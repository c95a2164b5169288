// SPDX-License-Identifier: MPL-2.0

package datapack

// Preview holds the three texts shown while a pack is being edited. Each is
// byte-for-byte identical to the matching archive entry for the same
// definition and options.
type Preview struct {
	// PackMeta is the content of pack.mcmeta.
	PackMeta string
	// Recipe is the content of the recipe file.
	Recipe string
	// GiveCommand is the content of the give function.
	GiveCommand string
}

// Previews renders the preview texts for d without building an archive.
func Previews(d Definition, opts ...Option) (Preview, error) {
	o := applyOptions(opts)

	meta, err := PackMeta(d)
	if err != nil {
		return Preview{}, err
	}
	recipe, err := Recipe(d)
	if err != nil {
		return Preview{}, err
	}
	return Preview{
		PackMeta:    meta,
		Recipe:      recipe,
		GiveCommand: d.GiveCommand(o.dialect),
	}, nil
}
