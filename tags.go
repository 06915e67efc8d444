package assetmanager

import (
	"context"
	"html/template"

	"github.com/vormadev/assetmanager/kit/bundlename"
)

// GetScriptTag renders a script tag for bundle (or fallback). An empty
// result with a nil error means neither name is in the manifest.
func (m *Manager) GetScriptTag(ctx context.Context, bundle, fallback string, load ScriptLoad) (template.HTML, error) {
	file, ok, err := m.GetScriptSrc(ctx, bundle, fallback)
	if err != nil || !ok {
		return "", err
	}
	tag, err := m.tags.BuildScriptTag(file, load)
	if err != nil {
		return "", err
	}
	return template.HTML(tag), nil
}

func (m *Manager) GetLinkTag(ctx context.Context, bundle, fallback string) (template.HTML, error) {
	file, ok, err := m.GetLinkHref(ctx, bundle, fallback)
	if err != nil || !ok {
		return "", err
	}
	tag, err := m.tags.BuildLinkTag(file)
	if err != nil {
		return "", err
	}
	return template.HTML(tag), nil
}

// GetStyleTag inlines the resolved stylesheet in a style element.
func (m *Manager) GetStyleTag(ctx context.Context, bundle, fallback string) (template.HTML, error) {
	text, ok, err := m.GetStyleContent(ctx, bundle, fallback)
	if err != nil || !ok {
		return "", err
	}
	return template.HTML(m.tags.BuildStyleTag(text)), nil
}

// FuncMap exposes the tag helpers to html/template. The returned functions
// run lookups with ctx, so build one map per request:
//
//	{{ scriptTag "Home_Index" }}
//	{{ scriptTag "Home_Index" "Shared" "defer" }}
//	{{ linkTag "Home_Index" "Shared" }}
//	{{ styleTag "Critical" }}
//	{{ bundlePath "logo.svg" }}
//	{{ scriptTag (viewBundle "/Views/Home/Index.tmpl" .) }}
//
// The optional second argument of each tag helper is a fallback bundle, the
// optional third argument of scriptTag a load mode.
func (m *Manager) FuncMap(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"scriptTag": func(bundle string, args ...string) (template.HTML, error) {
			load, err := ParseScriptLoad(argAt(args, 1))
			if err != nil {
				return "", err
			}
			return m.GetScriptTag(ctx, bundle, argAt(args, 0), load)
		},
		"linkTag": func(bundle string, args ...string) (template.HTML, error) {
			return m.GetLinkTag(ctx, bundle, argAt(args, 0))
		},
		"styleTag": func(bundle string, args ...string) (template.HTML, error) {
			return m.GetStyleTag(ctx, bundle, argAt(args, 0))
		},
		"bundlePath": func(bundle string, args ...string) (string, error) {
			fileType, err := ParseFileType(argAt(args, 0))
			if err != nil {
				return "", err
			}
			p, _, err := m.GetBundlePath(ctx, bundle, fileType)
			return p, err
		},
		"viewBundle": func(viewPath string, data map[string]any) string {
			return bundlename.Resolve("", data, viewPath, "")
		},
	}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
