// Package locale holds the built-in UI string tables.
package locale

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// Keys present in every table.
const (
	Next          = "next"
	Prev          = "prev"
	Skip          = "skip"
	Done          = "done"
	DontShowAgain = "dont_show_again"
	StepNumbersOf = "step_numbers_of"
	HintButton    = "hint_button"
)

// Fallback is used when a language or key is missing.
const Fallback = "en"

//go:embed lang/*.toml
var files embed.FS

var (
	loadOnce sync.Once
	tables   map[string]map[string]string
	loadErr  error
)

func load() {
	tables = make(map[string]map[string]string)
	entries, err := files.ReadDir("lang")
	if err != nil {
		loadErr = err
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		data, err := files.ReadFile(path.Join("lang", name))
		if err != nil {
			loadErr = err
			return
		}
		table := map[string]string{}
		if _, err := toml.Decode(string(data), &table); err != nil {
			loadErr = fmt.Errorf("locale %s: %w", name, err)
			return
		}
		tables[strings.TrimSuffix(name, ".toml")] = table
	}
}

func ensureLoaded() {
	loadOnce.Do(load)
	if loadErr != nil {
		// The tables are embedded; a decode failure is a build defect.
		panic(loadErr)
	}
}

// Languages lists the available language codes.
func Languages() []string {
	ensureLoaded()
	out := make([]string, 0, len(tables))
	for code := range tables {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the string for key in lang. "pt-BR" falls back to "pt",
// then to Fallback; an unknown key returns the key itself.
func Lookup(lang, key string) string {
	ensureLoaded()
	lang = strings.ToLower(strings.ReplaceAll(lang, "_", "-"))
	candidates := []string{lang}
	if base, _, ok := strings.Cut(lang, "-"); ok {
		candidates = append(candidates, base)
	}
	candidates = append(candidates, Fallback)
	for _, code := range candidates {
		if v, ok := tables[code][key]; ok {
			return v
		}
	}
	return key
}

// Label returns override when set, otherwise the table entry.
func Label(override, lang, key string) string {
	if override != "" {
		return override
	}
	return Lookup(lang, key)
}
