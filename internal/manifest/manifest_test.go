package manifest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/vormadev/assetmanager/internal/config"
	"github.com/vormadev/assetmanager/internal/fetch"
)

const keyValueJSON = `{
  "Bundle.js": "Bundle.min.js",
  "Bundle.css": "Bundle.min.css",
  "entrypoints": {"Bundle": {"assets": {"js": ["Bundle.min.js"]}}}
}`

const viteJSON = `{
  "Assets/Bundle.ts": {
    "file": "Bundle.min.js",
    "name": "Bundle",
    "src": "Assets/Bundle.ts",
    "isEntry": true,
    "css": ["Shared.min.css", "Bundle.min.css"]
  },
  "Assets/Other.ts": {
    "file": "Other.min.js",
    "name": "Other",
    "src": "Assets/Other.ts"
  }
}`

const viteDevJSON = `{
  "Assets/Bundle.ts": {"name": "Bundle", "src": "Assets/Bundle.ts"},
  "Assets/Styles.css": {"name": "Styles"}
}`

func mustParse(t *testing.T, data string, typ config.ManifestType) Document {
	t.Helper()
	doc, err := Parse([]byte(data), typ)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestResolve_KeyValue(t *testing.T) {
	doc := mustParse(t, keyValueJSON, config.ManifestKeyValue)

	tests := []struct {
		bundle string
		want   string
		wantOK bool
	}{
		{"Bundle.js", "Bundle.min.js", true},
		{"Bundle.css", "Bundle.min.css", true},
		{"Bundle", "", false},
		{"bundle.js", "", false},
		{"entrypoints", "", false},
		{"Missing.js", "", false},
	}
	for _, tt := range tests {
		for _, dev := range []bool{false, true} {
			got, ok := Resolve(doc, tt.bundle, dev)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Resolve(%q, dev=%v) = %q, %v; want %q, %v", tt.bundle, dev, got, ok, tt.want, tt.wantOK)
			}
		}
	}
}

func TestResolve_Vite(t *testing.T) {
	prod := mustParse(t, viteJSON, config.ManifestVite)
	dev := mustParse(t, viteDevJSON, config.ManifestVite)

	tests := []struct {
		name    string
		doc     Document
		devMode bool
		bundle  string
		want    string
		wantOK  bool
	}{
		{"prod js returns file", prod, false, "Bundle.js", "Bundle.min.js", true},
		{"prod css returns matching css", prod, false, "Bundle.css", "Bundle.min.css", true},
		{"prod css without css array", prod, false, "Other.css", "", false},
		{"prod missing", prod, false, "Nope.js", "", false},
		{"extension is ignored for non-css", prod, false, "Bundle.mjs", "Bundle.min.js", true},
		{"dev js returns src", dev, true, "Bundle.js", "Assets/Bundle.ts", true},
		{"dev css is unresolvable", dev, true, "Bundle.css", "", false},
		{"dev css-only entry has no src", dev, true, "Styles.js", "", false},
		{"dev missing", dev, true, "Nope.js", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.doc, tt.bundle, tt.devMode)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.bundle, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolve_ViteFirstMatchWins(t *testing.T) {
	doc := mustParse(t, `{
		"b": {"name": "Dup", "file": "second.js"},
		"a": {"name": "Dup", "file": "first.js"}
	}`, config.ManifestVite)

	got, _ := Resolve(doc, "Dup.js", false)
	if got != "second.js" {
		t.Errorf("Resolve() = %q, want the entry that appears first in the document", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		typ  config.ManifestType
	}{
		{"not json", `nope`, config.ManifestKeyValue},
		{"array", `["a"]`, config.ManifestKeyValue},
		{"vite entry not object", `{"a": "b"}`, config.ManifestVite},
		{"truncated", `{"a": {"name": "x"}`, config.ManifestVite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), tt.typ); err == nil {
				t.Error("expected parse error")
			}
		})
	}

	if _, err := Parse([]byte(`{}`), config.ManifestType(5)); !errors.Is(err, config.ErrInvalidEnumValue) {
		t.Errorf("Parse() with bad type error = %v", err)
	}
}

func TestBundlesAndMatch(t *testing.T) {
	kv := mustParse(t, `{"Home_Index.js":"a","Home_About.js":"b","Admin_Index.js":"c"}`, config.ManifestKeyValue)
	if got, want := kv.Bundles(), []string{"Home_Index.js", "Home_About.js", "Admin_Index.js"}; !slices.Equal(got, want) {
		t.Errorf("Bundles() = %v, want %v", got, want)
	}

	got, err := Match(kv, "Home_*")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Home_Index.js", "Home_About.js"}; !slices.Equal(got, want) {
		t.Errorf("Match() = %v, want %v", got, want)
	}

	if _, err := Match(kv, "[a-"); err == nil {
		t.Error("expected bad pattern error")
	}

	vite := mustParse(t, viteJSON, config.ManifestVite)
	if got, want := vite.Bundles(), []string{"Bundle", "Other"}; !slices.Equal(got, want) {
		t.Errorf("Vite Bundles() = %v, want %v", got, want)
	}
}

type countingFetcher struct {
	mu    sync.Mutex
	body  string
	err   error
	calls []string
}

func (f *countingFetcher) Fetch(_ context.Context, location string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, location)
	return f.body, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSource_GetEntry(t *testing.T) {
	for _, dev := range []bool{false, true} {
		f := &countingFetcher{body: keyValueJSON}
		cfg := config.Config{DevelopmentMode: dev, ManifestPath: "/www/dist/manifest.json"}
		src := NewSource(cfg, f, discardLogger())

		for range 2 {
			got, ok, err := src.GetEntry(context.Background(), "Bundle.js")
			if err != nil || !ok || got != "Bundle.min.js" {
				t.Fatalf("GetEntry() = %q, %v, %v", got, ok, err)
			}
		}
		_, ok, err := src.GetEntry(context.Background(), "Missing.js")
		if err != nil || ok {
			t.Errorf("GetEntry(Missing.js) = %v, %v; want miss without error", ok, err)
		}

		wantCalls := 1
		if dev {
			wantCalls = 3
		}
		if len(f.calls) != wantCalls {
			t.Errorf("dev=%v: manifest fetched %d times, want %d", dev, len(f.calls), wantCalls)
		}
		if f.calls[0] != cfg.ManifestPath {
			t.Errorf("fetched %q, want %q", f.calls[0], cfg.ManifestPath)
		}
	}
}

func TestSource_PropagatesFetchErrors(t *testing.T) {
	f := &countingFetcher{err: fetch.ErrDevServerUnavailable}
	src := NewSource(config.Config{DevelopmentMode: true}, f, discardLogger())

	_, ok, err := src.GetEntry(context.Background(), "Bundle.js")
	if !errors.Is(err, fetch.ErrDevServerUnavailable) {
		t.Errorf("GetEntry() error = %v, want ErrDevServerUnavailable", err)
	}
	if ok {
		t.Error("GetEntry() reported a hit on error")
	}
}

func TestSource_ErrorsAreRetried(t *testing.T) {
	f := &countingFetcher{err: errors.New("read failed")}
	src := NewSource(config.Config{}, f, discardLogger())

	if _, _, err := src.GetEntry(context.Background(), "Bundle.js"); err == nil {
		t.Fatal("expected error")
	}
	f.err, f.body = nil, keyValueJSON
	if got, ok, err := src.GetEntry(context.Background(), "Bundle.js"); err != nil || !ok || got != "Bundle.min.js" {
		t.Errorf("GetEntry() after recovery = %q, %v, %v", got, ok, err)
	}
}
