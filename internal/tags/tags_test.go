package tags

import (
	"errors"
	"strings"
	"testing"

	"github.com/vormadev/assetmanager/internal/config"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const webPath = "/Path/To/Assets/"

func builder(dev bool, typ config.ManifestType) *Builder {
	return NewBuilder(config.Config{DevelopmentMode: dev, ManifestType: typ, AssetsWebPath: webPath})
}

// parseTag parses a single rendered element and returns its name and attributes.
func parseTag(t *testing.T, markup string) (string, map[string]string) {
	t.Helper()
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head})
	if err != nil {
		t.Fatalf("parse %q: %v", markup, err)
	}
	if len(nodes) != 1 || nodes[0].Type != html.ElementNode {
		t.Fatalf("expected exactly one element in %q", markup)
	}
	attrs := map[string]string{}
	for _, a := range nodes[0].Attr {
		attrs[a.Key] = a.Val
	}
	return nodes[0].Data, attrs
}

func TestBuildScriptTag(t *testing.T) {
	tests := []struct {
		name      string
		dev       bool
		typ       config.ManifestType
		load      config.ScriptLoad
		wantAttrs map[string]string
	}{
		{"production", false, config.ManifestKeyValue, config.ScriptLoadNormal, map[string]string{}},
		{"production vite", false, config.ManifestVite, config.ScriptLoadNormal, map[string]string{}},
		{"development", true, config.ManifestKeyValue, config.ScriptLoadNormal,
			map[string]string{"crossorigin": "anonymous"}},
		{"development vite", true, config.ManifestVite, config.ScriptLoadNormal,
			map[string]string{"crossorigin": "anonymous", "type": "module"}},
		{"development async", true, config.ManifestKeyValue, config.ScriptLoadAsync,
			map[string]string{"crossorigin": "anonymous", "async": ""}},
		{"development defer", true, config.ManifestKeyValue, config.ScriptLoadDefer,
			map[string]string{"crossorigin": "anonymous", "defer": ""}},
		{"development async defer", true, config.ManifestKeyValue, config.ScriptLoadAsyncDefer,
			map[string]string{"crossorigin": "anonymous", "async": "", "defer": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := builder(tt.dev, tt.typ).BuildScriptTag("Bundle.js", tt.load)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(got, `<script src="/Path/To/Assets/Bundle.js"`) || !strings.HasSuffix(got, "></script>") {
				t.Errorf("BuildScriptTag() = %s", got)
			}

			tag, attrs := parseTag(t, got)
			if tag != "script" {
				t.Errorf("tag = %q", tag)
			}
			tt.wantAttrs["src"] = webPath + "Bundle.js"
			if len(attrs) != len(tt.wantAttrs) {
				t.Errorf("attrs = %v, want %v", attrs, tt.wantAttrs)
			}
			for k, v := range tt.wantAttrs {
				if got, ok := attrs[k]; !ok || got != v {
					t.Errorf("attr %s = %q (present %v), want %q", k, got, ok, v)
				}
			}
		})
	}
}

func TestBuildScriptTag_Exact(t *testing.T) {
	got, _ := NewBuilder(config.Config{AssetsWebPath: "/dist/"}).BuildScriptTag("Bundle.min.js", config.ScriptLoadNormal)
	if want := `<script src="/dist/Bundle.min.js"></script>`; got != want {
		t.Errorf("BuildScriptTag() = %s, want %s", got, want)
	}

	got, _ = builder(true, config.ManifestVite).BuildScriptTag("a.js", config.ScriptLoadAsyncDefer)
	if want := `<script src="/Path/To/Assets/a.js" type="module" crossorigin="anonymous" async defer></script>`; got != want {
		t.Errorf("BuildScriptTag() = %s, want %s", got, want)
	}
}

func TestBuildScriptTag_InvalidLoad(t *testing.T) {
	_, err := builder(true, config.ManifestKeyValue).BuildScriptTag("Bundle.js", config.ScriptLoad(6))
	if !errors.Is(err, config.ErrInvalidEnumValue) {
		t.Errorf("error = %v, want ErrInvalidEnumValue", err)
	}
}

func TestBuildLinkTag(t *testing.T) {
	got, err := builder(false, config.ManifestKeyValue).BuildLinkTag("Bundle.css")
	if err != nil {
		t.Fatal(err)
	}
	if want := `<link href="/Path/To/Assets/Bundle.css" rel="stylesheet" />`; got != want {
		t.Errorf("production BuildLinkTag() = %s, want %s", got, want)
	}

	got, err = builder(true, config.ManifestKeyValue).BuildLinkTag("Bundle.css")
	if err != nil {
		t.Fatal(err)
	}
	if want := `<link href="/Path/To/Assets/Bundle.css" rel="stylesheet" crossorigin="anonymous" />`; got != want {
		t.Errorf("development BuildLinkTag() = %s, want %s", got, want)
	}
	if tag, attrs := parseTag(t, got); tag != "link" || attrs["rel"] != "stylesheet" {
		t.Errorf("parsed %s %v", tag, attrs)
	}
}

func TestBuildStyleTag(t *testing.T) {
	got := builder(false, config.ManifestKeyValue).BuildStyleTag("a > b { color: red }")
	if want := "<style>a > b { color: red }</style>"; got != want {
		t.Errorf("BuildStyleTag() = %s, want %s", got, want)
	}
}
