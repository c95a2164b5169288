// SPDX-License-Identifier: MPL-2.0

package datapack

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/craftpack/craftpack/pkg/cueutil"

	"github.com/klauspost/compress/flate"
)

// MaxEntrySize is the largest uncompressed entry ReadArchive accepts. No
// generated file comes close; larger entries point at a foreign archive.
const MaxEntrySize = cueutil.DefaultMaxFileSize

// ErrInvalidArchive is returned (wrapped) when an archive breaks the layout
// rules checked by Validate.
var ErrInvalidArchive = errors.New("invalid data pack archive")

// ErrEntryTooLarge is returned (wrapped) by ReadArchive for entries that
// decompress to more than MaxEntrySize bytes.
var ErrEntryTooLarge = errors.New("archive entry too large")

type (
	// Entry is one file of a data pack.
	Entry struct {
		// Path is the slash-separated path inside the archive.
		Path string
		// Content is the UTF-8 file content.
		Content string
	}

	// Archive is the full set of files of a data pack, in archive order.
	Archive struct {
		// Name is the conventional file name, "<normalized pack name>.zip".
		Name    string
		Entries []Entry

		// namespace is the pack namespace the data/ paths must live under.
		namespace string
		modTime   time.Time
	}
)

// Build assembles d and compresses it into zip bytes. Nothing is returned
// unless the whole archive was written.
func Build(ctx context.Context, d Definition, opts ...Option) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a, err := Assemble(d, opts...)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := a.WriteZip(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Assemble renders every file of the pack for d:
//
//	pack.mcmeta
//	data/<namespace>/recipes/<recipe id>.json
//	data/<namespace>/functions/give_item.mcfunction
//	data/minecraft/tags/functions/load.json
//	README.txt
func Assemble(d Definition, opts ...Option) (*Archive, error) {
	o := applyOptions(opts)

	if _, known := LookupFormat(d.Format()); !known {
		slog.Warn("unknown pack format, writing it anyway", "pack_format", d.Format())
	}

	ns := d.Namespace()
	recipeID := d.RecipeID()
	give := d.GiveCommand(o.dialect)

	meta, err := PackMeta(d)
	if err != nil {
		return nil, err
	}
	recipe, err := Recipe(d)
	if err != nil {
		return nil, err
	}
	loadTag, err := LoadTag(ns)
	if err != nil {
		return nil, err
	}

	lang := d.Pack.Language
	if o.language != "" {
		lang = o.language
	}
	readme, err := Readme(d, lang, give)
	if err != nil {
		return nil, err
	}

	slog.Debug("assembled data pack", "namespace", ns, "recipe", recipeID, "dialect", o.dialect.ForFormat(d.Format()))

	return &Archive{
		Name: d.ArchiveName(),
		Entries: []Entry{
			{Path: MetaPath, Content: meta},
			{Path: RecipePath(ns, recipeID), Content: recipe},
			{Path: FunctionPath(ns, GiveFunctionName), Content: give},
			{Path: LoadTagPath, Content: loadTag},
			{Path: ReadmePath, Content: readme},
		},
		namespace: ns.String(),
		modTime:   o.modTime,
	}, nil
}

// WriteZip compresses the entries into w in archive order. Every entry is
// deflated and stamped with the same modification time.
func (a *Archive) WriteZip(w io.Writer) (err error) {
	if err := a.Validate(); err != nil {
		return err
	}

	modTime := a.modTime
	if modTime.IsZero() {
		modTime = DefaultModTime
	}

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to finish archive: %w", closeErr)
		}
	}()

	for _, e := range a.Entries {
		header := &zip.FileHeader{
			Name:     e.Path,
			Method:   zip.Deflate,
			Modified: modTime,
		}
		fw, createErr := zw.CreateHeader(header)
		if createErr != nil {
			return fmt.Errorf("failed to create archive entry %s: %w", e.Path, createErr)
		}
		if _, writeErr := io.WriteString(fw, e.Content); writeErr != nil {
			return fmt.Errorf("failed to write archive entry %s: %w", e.Path, writeErr)
		}
	}
	return nil
}

// Validate checks the layout rules every archive must satisfy: paths are
// unique, relative and slash-separated, and every data/ path lives under
// the pack namespace or "minecraft".
func (a *Archive) Validate() error {
	seen := make(map[string]struct{}, len(a.Entries))
	for _, e := range a.Entries {
		switch {
		case e.Path == "":
			return fmt.Errorf("%w: empty entry path", ErrInvalidArchive)
		case strings.Contains(e.Path, `\`):
			return fmt.Errorf("%w: %s uses backslashes", ErrInvalidArchive, e.Path)
		case strings.HasPrefix(e.Path, "/"):
			return fmt.Errorf("%w: %s is absolute", ErrInvalidArchive, e.Path)
		case strings.Contains("/"+e.Path+"/", "/../"):
			return fmt.Errorf("%w: %s leaves the archive root", ErrInvalidArchive, e.Path)
		}
		if _, dup := seen[e.Path]; dup {
			return fmt.Errorf("%w: duplicate entry %s", ErrInvalidArchive, e.Path)
		}
		seen[e.Path] = struct{}{}

		if rest, ok := strings.CutPrefix(e.Path, "data/"); ok {
			root, _, _ := strings.Cut(rest, "/")
			if root != "minecraft" && (a.namespace == "" || root != a.namespace) {
				return fmt.Errorf("%w: %s is outside namespace %q", ErrInvalidArchive, e.Path, a.namespace)
			}
		}
	}
	return nil
}

// Lookup returns the entry stored at p.
func (a *Archive) Lookup(p string) (Entry, bool) {
	for _, e := range a.Entries {
		if e.Path == p {
			return e, true
		}
	}
	return Entry{}, false
}

// Paths returns the entry paths in archive order.
func (a *Archive) Paths() []string {
	paths := make([]string, len(a.Entries))
	for i, e := range a.Entries {
		paths[i] = e.Path
	}
	return paths
}

// Namespace returns the namespace the archive's data/ paths live under.
func (a *Archive) Namespace() string { return a.namespace }

// ReadArchive reads zip bytes back into an Archive. The namespace is taken
// from the first data/ directory that is not "minecraft". Directory entries
// are skipped, and entries larger than MaxEntrySize are rejected.
func ReadArchive(data []byte) (*Archive, error) {
	return readArchive(data, MaxEntrySize)
}

func readArchive(data []byte, maxEntrySize int64) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	zr.RegisterDecompressor(zip.Deflate, flate.NewReader)

	a := &Archive{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		content, readErr := readZipFile(f, maxEntrySize)
		if readErr != nil {
			return nil, readErr
		}
		a.Entries = append(a.Entries, Entry{Path: f.Name, Content: content})

		if rest, ok := strings.CutPrefix(f.Name, "data/"); ok && a.namespace == "" {
			if root, _, _ := strings.Cut(rest, "/"); root != "minecraft" {
				a.namespace = root
			}
		}
	}
	return a, nil
}

func readZipFile(f *zip.File, maxSize int64) (content string, err error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open archive entry %s: %w", f.Name, err)
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	// The header size is attacker-controlled; count the bytes actually read.
	b, err := io.ReadAll(io.LimitReader(rc, maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read archive entry %s: %w", f.Name, err)
	}
	if int64(len(b)) > maxSize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrEntryTooLarge, f.Name, maxSize)
	}
	return string(b), nil
}
