// SPDX-License-Identifier: MPL-2.0

package datapack

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/language"
)

//go:embed templates/*.txt.tmpl
var templateFS embed.FS

var readmeTemplates = template.Must(template.ParseFS(templateFS, "templates/*.txt.tmpl"))

// Supported README languages. The first entry is the fallback.
var readmeLanguages = []language.Tag{
	language.Russian,
	language.English,
}

var readmeMatcher = language.NewMatcher(readmeLanguages)

type readmeData struct {
	PackName     string
	Description  string
	ArchiveName  string
	Format       int
	Namespace    string
	MetaPath     string
	RecipePath   string
	FunctionPath string
	LoadTagPath  string
	GiveFunction string
	GiveCommand  string
}

// ReadmeLanguage returns the README language used for lang: "ru" or "en".
// Unknown or empty values fall back to "ru".
func ReadmeLanguage(lang string) string {
	tag, _, confidence := readmeMatcher.Match(language.Make(lang))
	if lang == "" || confidence == language.No {
		tag = readmeLanguages[0]
	}
	base, _ := tag.Base()
	return base.String()
}

// Readme renders the install instructions for d in lang. giveCommand is the
// command stored in the give function.
func Readme(d Definition, lang, giveCommand string) (string, error) {
	name := "readme_" + ReadmeLanguage(lang) + ".txt.tmpl"

	var b strings.Builder
	ns := d.Namespace()
	err := readmeTemplates.ExecuteTemplate(&b, name, readmeData{
		PackName:     d.Pack.Name,
		Description:  d.Pack.Description,
		ArchiveName:  d.ArchiveName(),
		Format:       d.Format(),
		Namespace:    ns.String(),
		MetaPath:     MetaPath,
		RecipePath:   RecipePath(ns, d.RecipeID()),
		FunctionPath: FunctionPath(ns, GiveFunctionName),
		LoadTagPath:  LoadTagPath,
		GiveFunction: GiveFunctionName,
		GiveCommand:  giveCommand,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render README: %w", err)
	}
	return b.String(), nil
}
