package manifest

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Resolve looks bundle up in doc. devMode only matters for Vite documents,
// where development entries point at sources instead of built files.
// A miss is reported as ok == false, never as an error.
func Resolve(doc Document, bundle string, devMode bool) (file string, ok bool) {
	switch d := doc.(type) {
	case *KeyValue:
		return d.Lookup(bundle)
	case *Vite:
		return d.Lookup(bundle, devMode)
	}
	return "", false
}

// Lookup is an exact key match, extension included.
func (kv *KeyValue) Lookup(bundle string) (string, bool) {
	file, ok := kv.m[bundle]
	return file, ok
}

func (kv *KeyValue) Bundles() []string {
	out := make([]string, len(kv.keys))
	copy(out, kv.keys)
	return out
}

// Lookup finds the first entry whose name equals the bundle's base name
// without extension.
//
// For non-CSS bundles it returns the entry's src in development and file in
// production. For CSS bundles it returns the first css output starting with
// that name. Vite dev manifests have no css arrays, so CSS imported from JS
// cannot be resolved on its own in development.
func (v *Vite) Lookup(bundle string, devMode bool) (string, bool) {
	nameToFind := stripExt(path.Base(bundle))

	for _, e := range v.entries {
		if e.Chunk.Name != nameToFind {
			continue
		}

		if !hasSuffixFold(bundle, ".css") {
			file := e.Chunk.File
			if devMode {
				file = e.Chunk.Src
			}
			return file, file != ""
		}

		for _, css := range e.Chunk.CSS {
			if strings.HasPrefix(css, nameToFind) {
				return css, true
			}
		}
		return "", false
	}

	return "", false
}

// Bundles returns distinct entry names in document order.
func (v *Vite) Bundles() []string {
	seen := make(map[string]struct{}, len(v.entries))
	out := make([]string, 0, len(v.entries))
	for _, e := range v.entries {
		if e.Chunk.Name == "" {
			continue
		}
		if _, ok := seen[e.Chunk.Name]; ok {
			continue
		}
		seen[e.Chunk.Name] = struct{}{}
		out = append(out, e.Chunk.Name)
	}
	return out
}

// Match returns the bundles in doc matching a doublestar glob pattern.
// An empty pattern matches everything.
func Match(doc Document, pattern string) ([]string, error) {
	all := doc.Bundles()
	if pattern == "" {
		return all, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	out := all[:0]
	for _, b := range all {
		if ok, _ := doublestar.Match(pattern, b); ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func stripExt(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
