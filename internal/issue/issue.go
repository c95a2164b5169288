// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	DefinitionNotFoundId Id = iota + 1
	DefinitionParseErrorId
	ConfigLoadFailedId
	ArchiveWriteFailedId
	ArchiveReadFailedId
	PermissionDeniedId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of a catalog entry.
	MarkdownMsg string

	// HttpLink is a documentation link shown under a catalog entry.
	HttpLink string

	// Issue is a help card for a known failure kind.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the card with glamour using stylePath ("dark", "light",
// "notty", "auto" or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	definitionNotFoundIssue = &Issue{
		id: DefinitionNotFoundId,
		mdMsg: `
# No definition file found!

craftpack looks for one of these files in the current directory:

- datapack.cue
- datapack.yaml / datapack.yml
- datapack.toml
- datapack.json

## Things you can try:
- Create a starter definition:
~~~
$ craftpack init
~~~

- Point craftpack at an existing file:
~~~
$ craftpack build path/to/pack.yaml
~~~`,
		docLinks: []HttpLink{"https://minecraft.wiki/w/Data_pack"},
	}

	definitionParseErrorIssue = &Issue{
		id: DefinitionParseErrorId,
		mdMsg: `
# Failed to parse the definition!

The definition file has a syntax error or a value the schema does not allow.

## Common issues:
- Unknown field names (fields are checked, typos are errors)
- ` + "`item.count`" + ` outside 1-64
- Enchantment ` + "`level`" + ` outside 1-10
- Missing ` + "`pack.name`" + ` or ` + "`item.id`" + `

## Example of a valid definition:
~~~cue
pack: {
	name:        "Test Pack"
	description: "My first pack"
}
item: {
	id:           "minecraft:diamond_sword"
	display_name: "Blade"
	lore: ["line one"]
	enchantments: [{id: "minecraft:sharpness", level: 5}]
}
recipe: ingredients: ["minecraft:diamond_sword", "#minecraft:planks"]
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or contains invalid values.

## Things you can try:
- Show where craftpack looks for its configuration:
~~~
$ craftpack config path
~~~

- Print the effective configuration:
~~~
$ craftpack config show
~~~

- Write a fresh default file:
~~~
$ craftpack config init
~~~`,
	}

	archiveWriteFailedIssue = &Issue{
		id: ArchiveWriteFailedId,
		mdMsg: `
# Failed to write the data pack!

The archive was built but could not be saved. Nothing was written to the
target path.

## Things you can try:
- Check that the output directory exists and is writable
- Choose another location:
~~~
$ craftpack build --output ./dist
~~~`,
	}

	archiveReadFailedIssue = &Issue{
		id: ArchiveReadFailedId,
		mdMsg: `
# Failed to read the data pack!

The file is missing, is not a zip archive, or is damaged.

## Things you can try:
- Rebuild the archive:
~~~
$ craftpack build
~~~

- Check the file with another zip tool`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

craftpack was not allowed to read or write a file.

## Things you can try:
- Check file and directory permissions
- Write the archive to a directory you own
- Copy the pack into the world folder by hand if the game directory is protected`,
	}

	issues = map[Id]*Issue{
		definitionNotFoundIssue.Id():   definitionNotFoundIssue,
		definitionParseErrorIssue.Id(): definitionParseErrorIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		archiveWriteFailedIssue.Id():   archiveWriteFailedIssue,
		archiveReadFailedIssue.Id():    archiveReadFailedIssue,
		permissionDeniedIssue.Id():     permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := slices.Collect(maps.Values(issues))
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
