package htmlutil

import (
	"fmt"
	"html/template"
	"slices"
	"strings"
)

// Attr is a single attribute. Attributes render in slice order.
type Attr struct {
	Key   string
	Value string
	// KnownSafe skips escaping of Value.
	KnownSafe bool
}

type Element struct {
	Tag               string
	Attributes        []Attr
	BooleanAttributes []string
	TextContent       string
	// DangerousInnerHTML is written verbatim and takes precedence over TextContent.
	DangerousInnerHTML string
	SelfClosing        bool
}

var (
	// see https://html.spec.whatwg.org/multipage/syntax.html#void-elements
	// If you need something to self-close something that isn't on this list, set the SelfClosing field to true
	selfClosingTags = []string{
		"area", "base", "br", "col", "embed", "hr", "img",
		"input", "link", "meta", "source", "track", "wbr",
	}
)

// Set replaces the value of key if present, otherwise appends it.
func (el *Element) Set(key, value string) {
	for i := range el.Attributes {
		if el.Attributes[i].Key == key {
			el.Attributes[i].Value = value
			return
		}
	}
	el.Attributes = append(el.Attributes, Attr{Key: key, Value: value})
}

func RenderElement(el *Element) (template.HTML, error) {
	var b strings.Builder
	if err := RenderElementToBuilder(el, &b); err != nil {
		return "", fmt.Errorf("could not render element: %w", err)
	}
	return template.HTML(b.String()), nil
}

func RenderElementToBuilder(el *Element, b *strings.Builder) error {
	tag := template.HTMLEscapeString(el.Tag)
	if tag == "" {
		return fmt.Errorf("element has no tag")
	}

	b.WriteString("<")
	b.WriteString(tag)

	for _, a := range el.Attributes {
		value := a.Value
		if !a.KnownSafe {
			value = template.HTMLEscapeString(value)
		}
		b.WriteString(" ")
		b.WriteString(template.HTMLEscapeString(a.Key))
		b.WriteString(`="`)
		b.WriteString(value)
		b.WriteString(`"`)
	}

	for _, flag := range el.BooleanAttributes {
		b.WriteString(" ")
		b.WriteString(template.HTMLEscapeString(flag))
	}

	if el.SelfClosing || slices.Contains(selfClosingTags, tag) {
		b.WriteString(" />")
		return nil
	}

	b.WriteString(">")
	switch {
	case el.DangerousInnerHTML != "":
		b.WriteString(el.DangerousInnerHTML)
	case el.TextContent != "":
		b.WriteString(template.HTMLEscapeString(el.TextContent))
	}
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
	return nil
}
