// Package manifest parses frontend build manifests and resolves bundle names
// to built asset filenames.
//
// Two document shapes are supported, each with its own resolver:
//
//	KeyValue: {"Home.js": "Home.3f2a1c.js", ...}
//	Vite:     {"src/Home.ts": {"name": "Home", "file": "Home.3f2a1c.js", "src": "src/Home.ts", "css": [...]}, ...}
//
// Entry order from the document is preserved, so "first match wins" lookups
// are deterministic.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vormadev/assetmanager/internal/config"
)

// Document is a parsed manifest: either *KeyValue or *Vite.
type Document interface {
	// Bundles lists the logical bundle identifiers in document order.
	Bundles() []string
	isDocument()
}

type KeyValue struct {
	keys []string
	m    map[string]string
}

func (*KeyValue) isDocument() {}

func (kv *KeyValue) Len() int { return len(kv.keys) }

type Chunk struct {
	Src            string   `json:"src"`
	File           string   `json:"file"`
	CSS            []string `json:"css"`
	Assets         []string `json:"assets"`
	IsEntry        bool     `json:"isEntry"`
	Name           string   `json:"name"`
	IsDynamicEntry bool     `json:"isDynamicEntry"`
	Imports        []string `json:"imports"`
	DynamicImports []string `json:"dynamicImports"`
}

type ViteEntry struct {
	Key   string
	Chunk Chunk
}

type Vite struct {
	entries []ViteEntry
}

func (*Vite) isDocument() {}

func (v *Vite) Entries() []ViteEntry { return v.entries }

func Parse(data []byte, t config.ManifestType) (Document, error) {
	switch t {
	case config.ManifestKeyValue:
		return ParseKeyValue(data)
	case config.ManifestVite:
		return ParseVite(data)
	}
	return nil, fmt.Errorf("%w: manifest type %s", config.ErrInvalidEnumValue, t)
}

// ParseKeyValue parses a flat manifest. Non-string values (for example the
// "entrypoints" object some webpack plugins emit) are ignored.
func ParseKeyValue(data []byte) (*KeyValue, error) {
	kv := &KeyValue{m: make(map[string]string)}
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return nil
		}
		if _, seen := kv.m[key]; !seen {
			kv.keys = append(kv.keys, key)
		}
		kv.m[key] = s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse key-value manifest: %w", err)
	}
	return kv, nil
}

func ParseVite(data []byte) (*Vite, error) {
	v := &Vite{}
	index := make(map[string]int)
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		var c Chunk
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("entry %q: %w", key, err)
		}
		if i, seen := index[key]; seen {
			v.entries[i].Chunk = c
			return nil
		}
		index[key] = len(v.entries)
		v.entries = append(v.entries, ViteEntry{Key: key, Chunk: c})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse vite manifest: %w", err)
	}
	return v, nil
}

// decodeObject walks the members of a top-level JSON object in document order.
func decodeObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("value of %q: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
