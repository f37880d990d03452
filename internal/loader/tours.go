package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/options"
)

var (
	ErrDuplicateTour = errors.New("duplicate tour name")
	ErrUnnamedTour   = errors.New("tour has no name")
)

// DefaultPattern matches tour files anywhere under a root.
const DefaultPattern = "**/*.tour.{yaml,yml}"

// Definition is one named tour in a YAML file. Options uses the same keys
// as SetOptions, in snake_case or camelCase.
type Definition struct {
	Name    string           `yaml:"name"`
	Page    string           `yaml:"page"`
	Hints   []map[string]any `yaml:"hints"`
	Steps   []map[string]any `yaml:"steps"`
	Options map[string]any   `yaml:"options"`

	// Source is the file the definition was read from.
	Source string `yaml:"-"`
}

type tourFile struct {
	Tours []Definition `yaml:"tours"`
}

// ParseTours decodes a tour file.
func ParseTours(r io.Reader, source string) ([]Definition, error) {
	var f tourFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	for i := range f.Tours {
		d := &f.Tours[i]
		if d.Name == "" {
			return nil, fmt.Errorf("%s: tours[%d]: %w", source, i, ErrUnnamedTour)
		}
		d.Source = source
		if d.Page != "" && !filepath.IsAbs(d.Page) && source != "" {
			d.Page = filepath.Join(filepath.Dir(source), d.Page)
		}
	}
	return f.Tours, nil
}

// LoadTours reads every file and checks that names are unique.
func LoadTours(paths ...string) ([]Definition, error) {
	var out []Definition
	seen := map[string]string{}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open tours: %w", err)
		}
		defs, err := ParseTours(f, path)
		f.Close()
		if err != nil {
			return nil, err
		}
		for _, d := range defs {
			if prev, ok := seen[d.Name]; ok {
				return nil, fmt.Errorf("%q in %s and %s: %w", d.Name, prev, path, ErrDuplicateTour)
			}
			seen[d.Name] = path
			out = append(out, d)
		}
		logger.DebugTagf("loader", "loaded %d tours from %s", len(defs), path)
	}
	return out, nil
}

// FindTours returns the files under root matching pattern (DefaultPattern
// when empty), sorted.
func FindTours(root, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("find tours: bad pattern %q", pattern)
	}
	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("find tours: %w", err)
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(root, filepath.FromSlash(m))
	}
	sort.Strings(out)
	return out, nil
}

// IsTourFile reports whether a path names a tour file.
func IsTourFile(path string) bool {
	ok, _ := doublestar.Match("*.tour.{yaml,yml}", filepath.Base(path))
	return ok
}

// Resolve merges the definition over base: options first, then explicit
// steps and hints when the definition has any.
func (d Definition) Resolve(base options.Options) (options.Options, error) {
	opts := base
	partial := map[string]any{}
	for k, v := range d.Options {
		partial[k] = v
	}
	if d.Steps != nil {
		partial["steps"] = toAnySlice(d.Steps)
	}
	if d.Hints != nil {
		partial["hints"] = toAnySlice(d.Hints)
	}
	if len(partial) == 0 {
		return opts, nil
	}
	if err := opts.Apply(partial); err != nil {
		return base, fmt.Errorf("tour %s: %w", d.Name, err)
	}
	return opts, nil
}

func toAnySlice(ms []map[string]any) []any {
	out := make([]any, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}
