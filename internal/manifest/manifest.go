// Package manifest reads and writes spriter.toml, the file that lists the
// documents (and atlases) of an animation library.
package manifest

import (
	"errors"
	"fmt"
	"image"
	"log"
	_ "image/png" // atlas pages
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/phanxgames/spriter"
)

// FileName is the manifest's conventional name.
const FileName = "spriter.toml"

// ErrNoManifest is returned by Load when the directory has no spriter.toml.
var ErrNoManifest = errors.New("spriter.toml not found")

// Manifest is the decoded spriter.toml.
type Manifest struct {
	Library   Info       `toml:"library"`
	Documents []Document `toml:"document"`

	// Dir is the directory relative paths resolve against.
	Dir string `toml:"-"`
}

// Info holds library-wide settings.
type Info struct {
	Name  string `toml:"name,omitempty"`
	Debug bool   `toml:"debug,omitempty"`
}

// Document is one [[document]] entry.
type Document struct {
	Key   string `toml:"key"`
	SCON  string `toml:"scon"`
	Atlas string `toml:"atlas,omitempty"` // TexturePacker JSON; defaults to the .json next to SCON
}

// Load reads dir/spriter.toml.
func Load(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoManifest
		}
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.Dir = dir
	return m, nil
}

// Parse decodes manifest TOML and validates it.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	seen := make(map[string]bool, len(m.Documents))
	for i, d := range m.Documents {
		if d.SCON == "" {
			return nil, fmt.Errorf("%s: document %d has no scon path", FileName, i)
		}
		if d.Key == "" {
			m.Documents[i].Key = KeyFor(d.SCON)
		}
		key := m.Documents[i].Key
		if seen[key] {
			return nil, fmt.Errorf("%s: duplicate document key %q", FileName, key)
		}
		seen[key] = true
	}
	return &m, nil
}

// Marshal serializes m to TOML suitable for writing as spriter.toml.
func Marshal(m *Manifest) ([]byte, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest to TOML: %w", err)
	}
	// Ensure trailing newline for POSIX compliance.
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}

// KeyFor derives a document key from a SCON path.
func KeyFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Scan builds a manifest for every .scon file in dir, pairing each with a
// same-named .json atlas when one exists. Documents are sorted by key.
func Scan(dir string) (*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	m := &Manifest{Library: Info{Name: filepath.Base(dir)}, Dir: dir}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".scon") {
			continue
		}
		d := Document{Key: KeyFor(e.Name()), SCON: e.Name()}
		if atlas := KeyFor(e.Name()) + ".json"; fileExists(filepath.Join(dir, atlas)) {
			d.Atlas = atlas
		}
		m.Documents = append(m.Documents, d)
	}
	slices.SortFunc(m.Documents, func(a, b Document) int { return strings.Compare(a.Key, b.Key) })
	return m, nil
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func (m *Manifest) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}

// OpenOptions configures Open.
type OpenOptions struct {
	// Images decodes atlas page images into ebiten images. Without it,
	// atlases carry regions only, which is enough for inspection.
	Images bool
	// Logger receives debug warnings when the manifest enables debug.
	// Defaults to log.Default().
	Logger *log.Logger
}

// Open loads every listed document (and atlas) into lib. It stops at the
// first error; documents loaded before it stay registered.
func (m *Manifest) Open(lib *spriter.Library, opts OpenOptions) error {
	lib.SetDebugMode(m.Library.Debug, opts.Logger)
	for _, d := range m.Documents {
		data, err := os.ReadFile(m.path(d.SCON))
		if err != nil {
			return fmt.Errorf("document %q: %w", d.Key, err)
		}
		if _, err := lib.Load(d.Key, data); err != nil {
			return err
		}

		atlasPath := d.Atlas
		if atlasPath == "" {
			guess := strings.TrimSuffix(d.SCON, filepath.Ext(d.SCON)) + ".json"
			if !fileExists(m.path(guess)) {
				continue
			}
			atlasPath = guess
		}
		atlas, err := m.loadAtlas(m.path(atlasPath), opts)
		if err != nil {
			return fmt.Errorf("document %q: %w", d.Key, err)
		}
		lib.SetAtlas(d.Key, atlas)
	}
	return nil
}

func (m *Manifest) loadAtlas(path string, opts OpenOptions) (*spriter.Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pages []*ebiten.Image
	if opts.Images {
		names, err := spriter.AtlasPageImages(data)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			img, err := decodeImage(filepath.Join(filepath.Dir(path), name))
			if err != nil {
				return nil, err
			}
			pages = append(pages, ebiten.NewImageFromImage(img))
		}
	}
	return spriter.LoadAtlas(data, pages)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
