// Package tags formats resolved asset paths and inline content as HTML
// script, link and style elements.
package tags

import (
	"fmt"

	"github.com/vormadev/assetmanager/internal/config"
	"github.com/vormadev/assetmanager/kit/htmlutil"
)

type Builder struct {
	cfg config.Config
}

func NewBuilder(cfg config.Config) *Builder {
	return &Builder{cfg: cfg}
}

// BuildScriptTag renders <script src="{web path}{file}" ...></script>.
// Development adds crossorigin="anonymous", plus type="module" for Vite.
func (b *Builder) BuildScriptTag(file string, load config.ScriptLoad) (string, error) {
	el := htmlutil.Element{
		Tag:        "script",
		Attributes: []htmlutil.Attr{{Key: "src", Value: b.cfg.AssetsWebPath + file}},
	}

	if b.cfg.DevelopmentMode {
		if b.cfg.ManifestType == config.ManifestVite {
			el.Set("type", "module")
		}
		el.Set("crossorigin", "anonymous")
	}

	switch load {
	case config.ScriptLoadNormal:
	case config.ScriptLoadAsync:
		el.BooleanAttributes = []string{"async"}
	case config.ScriptLoadDefer:
		el.BooleanAttributes = []string{"defer"}
	case config.ScriptLoadAsyncDefer:
		el.BooleanAttributes = []string{"async", "defer"}
	default:
		return "", fmt.Errorf("%w: %s", config.ErrInvalidEnumValue, load)
	}

	return render(&el)
}

// BuildLinkTag renders <link href="{web path}{file}" rel="stylesheet" />.
func (b *Builder) BuildLinkTag(file string) (string, error) {
	el := htmlutil.Element{
		Tag: "link",
		Attributes: []htmlutil.Attr{
			{Key: "href", Value: b.cfg.AssetsWebPath + file},
			{Key: "rel", Value: "stylesheet"},
		},
	}
	if b.cfg.DevelopmentMode {
		el.Set("crossorigin", "anonymous")
	}
	return render(&el)
}

// BuildStyleTag wraps already fetched, trusted CSS in a style element.
// The content is not escaped.
func (b *Builder) BuildStyleTag(content string) string {
	return "<style>" + content + "</style>"
}

func render(el *htmlutil.Element) (string, error) {
	html, err := htmlutil.RenderElement(el)
	if err != nil {
		return "", err
	}
	return string(html), nil
}
