package store

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"glyphboard/internal/geometry"
	"glyphboard/internal/scene"
)

const libraryVersion = 1

// ErrEmptyLibrary indicates a library export with no symbols to save.
var ErrEmptyLibrary = errors.New("library is empty")

// Library is a board-independent collection of symbol definitions.
type Library struct {
	Items []LibraryItem
}

// LibraryItem is one reusable symbol: its identity, normalized paths,
// and optional key binding.
type LibraryItem struct {
	ID    string
	Key   rune
	Paths []scene.Path
}

// libraryFile is the YAML-serializable form of a Library.
type libraryFile struct {
	Version int            `yaml:"version"`
	SavedAt time.Time      `yaml:"saved_at"`
	Symbols []libraryEntry `yaml:"symbols"`
}

type libraryEntry struct {
	ID    string     `yaml:"id"`
	Key   string     `yaml:"key,omitempty"`
	Paths []pathSpec `yaml:"paths"`
}

type pathSpec struct {
	Color  [4]float64   `yaml:"color,flow"`
	Width  float64      `yaml:"width"`
	Points [][2]float64 `yaml:"points,flow"`
}

// BuildLibrary collects every distinct symbol in the scene into a
// library, one item per shared identity. Items are ordered by id so
// repeated exports of the same board produce identical files.
func BuildLibrary(s *scene.Scene) Library {
	seen := make(map[string]bool)
	var lib Library

	add := func(sym *scene.Symbol) {
		if sym == nil || seen[sym.ID] {
			return
		}
		seen[sym.ID] = true
		item := LibraryItem{ID: sym.ID, Key: s.KeyFor(sym.ID)}
		for _, p := range sym.Paths {
			item.Paths = append(item.Paths, p.Clone())
		}
		lib.Items = append(lib.Items, item)
	}

	for _, sym := range s.Symbols() {
		add(sym)
	}
	// Bound templates that are not placed on the canvas still belong
	// in the library.
	for _, r := range s.BoundKeys() {
		add(s.Template(r))
	}

	sort.Slice(lib.Items, func(i, j int) bool {
		return lib.Items[i].ID < lib.Items[j].ID
	})
	return lib
}

// Install registers the library's bound items as templates in the
// scene, without placing anything on the canvas. Items whose key is
// invalid or already taken are skipped, as are items with no key at
// all. It returns the number of bindings installed.
func (l Library) Install(s *scene.Scene) int {
	installed := 0
	for _, item := range l.Items {
		if item.Key == 0 || !scene.BindableKey(item.Key) || s.HasBinding(item.Key) {
			continue
		}
		tpl := scene.NewSymbol(geometry.Point{}, clonePaths(item.Paths))
		tpl.ID = item.ID
		tpl.AssignedKey = item.Key
		s.Bind(item.Key, tpl)
		installed++
	}
	return installed
}

// Save writes the library to path as YAML, atomically.
func (l Library) Save(path string) error {
	file := libraryFile{
		Version: libraryVersion,
		SavedAt: time.Now(),
		Symbols: make([]libraryEntry, 0, len(l.Items)),
	}
	for _, item := range l.Items {
		entry := libraryEntry{ID: item.ID}
		if item.Key != 0 {
			entry.Key = string(item.Key)
		}
		for _, p := range item.Paths {
			spec := pathSpec{
				Color: [4]float64{p.Color.R, p.Color.G, p.Color.B, p.Color.A},
				Width: p.Width,
			}
			for _, pt := range p.Points {
				spec.Points = append(spec.Points, [2]float64{pt.X, pt.Y})
			}
			entry.Paths = append(entry.Paths, spec)
		}
		file.Symbols = append(file.Symbols, entry)
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encoding library: %w", err)
	}
	return writeAtomic(path, data)
}

// LoadLibrary reads a library from path. A missing file yields an
// empty library and no error.
func LoadLibrary(path string) (Library, error) {
	var lib Library

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lib, nil
		}
		return lib, fmt.Errorf("reading library file: %w", err)
	}

	var file libraryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return lib, fmt.Errorf("decoding library file %s: %w", path, err)
	}
	if file.Version > libraryVersion {
		return lib, fmt.Errorf("%w: %d (max supported: %d)", ErrUnsupportedVersion, file.Version, libraryVersion)
	}

	for _, entry := range file.Symbols {
		item := LibraryItem{ID: entry.ID}
		if entry.Key != "" {
			item.Key = []rune(entry.Key)[0]
		}
		for _, spec := range entry.Paths {
			p := scene.Path{
				Color: scene.Color{R: spec.Color[0], G: spec.Color[1], B: spec.Color[2], A: spec.Color[3]},
				Width: spec.Width,
			}
			for _, pt := range spec.Points {
				p.Points = append(p.Points, geometry.Pt(pt[0], pt[1]))
			}
			item.Paths = append(item.Paths, p)
		}
		lib.Items = append(lib.Items, item)
	}
	return lib, nil
}

func clonePaths(paths []scene.Path) []scene.Path {
	out := make([]scene.Path, len(paths))
	for i, p := range paths {
		out[i] = p.Clone()
	}
	return out
}
