// Package bundlename derives default bundle names from view identities, so
// that a template at /Views/Home/Index.tmpl loads the "Views_Home_Index"
// bundle unless told otherwise.
package bundlename

import (
	"path"
	"strings"
)

// ViewDataKey is the view data entry that overrides the derived bundle name.
const ViewDataKey = "Bundle"

// FromViewPath strips the template extension from viewPath and joins its
// segments with underscores. If ext is empty, whatever extension the last
// segment has is removed.
func FromViewPath(viewPath, ext string) string {
	if ext == "" {
		ext = path.Ext(viewPath)
	}
	return joinSegments(strings.TrimSuffix(viewPath, ext))
}

// FromViewData returns the explicit bundle set in view data, if any. Values
// starting with "/" are page paths and get the same underscore treatment as
// view paths; anything else is used verbatim.
func FromViewData(data map[string]any) (string, bool) {
	bundle, ok := data[ViewDataKey].(string)
	if !ok {
		return "", false
	}
	if !strings.HasPrefix(bundle, "/") {
		return bundle, true
	}
	return joinSegments(bundle), true
}

// Resolve prefers an explicit name, then view data, then the view path.
func Resolve(explicit string, data map[string]any, viewPath, ext string) string {
	if explicit != "" {
		return explicit
	}
	if b, ok := FromViewData(data); ok {
		return b
	}
	return FromViewPath(viewPath, ext)
}

func joinSegments(p string) string {
	parts := strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' })
	return strings.Join(parts, "_")
}
