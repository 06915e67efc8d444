package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"github.com/urfave/cli/v2"
	"github.com/vormadev/assetmanager"
	"gopkg.in/yaml.v3"
)

var errNotFound = errors.New("not found in manifest")

// PathAction prints the URL of a bundle.
func PathAction(c *cli.Context) error {
	bundle, err := bundleArg(c)
	if err != nil {
		return err
	}
	fileType, err := assetmanager.ParseFileType(c.String("type"))
	if err != nil {
		return err
	}

	m, err := newManager(c)
	if err != nil {
		return err
	}
	p, ok, err := m.GetBundlePath(c.Context, bundle, fileType)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", bundle, errNotFound)
	}
	fmt.Fprintln(c.App.Writer, p)
	return nil
}

func ScriptTagAction(c *cli.Context) error {
	load, err := assetmanager.ParseScriptLoad(c.String("load"))
	if err != nil {
		return err
	}
	return printTag(c, func(m *assetmanager.Manager, bundle, fallback string) (template.HTML, error) {
		return m.GetScriptTag(c.Context, bundle, fallback, load)
	})
}

func LinkTagAction(c *cli.Context) error {
	return printTag(c, func(m *assetmanager.Manager, bundle, fallback string) (template.HTML, error) {
		return m.GetLinkTag(c.Context, bundle, fallback)
	})
}

func StyleTagAction(c *cli.Context) error {
	return printTag(c, func(m *assetmanager.Manager, bundle, fallback string) (template.HTML, error) {
		return m.GetStyleTag(c.Context, bundle, fallback)
	})
}

func printTag(c *cli.Context, render func(m *assetmanager.Manager, bundle, fallback string) (template.HTML, error)) error {
	bundle, err := bundleArg(c)
	if err != nil {
		return err
	}
	m, err := newManager(c)
	if err != nil {
		return err
	}
	tag, err := render(m, bundle, c.String("fallback"))
	if err != nil {
		return err
	}
	if tag == "" {
		return fmt.Errorf("%s: %w", bundle, errNotFound)
	}
	fmt.Fprintln(c.App.Writer, tag)
	return nil
}

type listEntry struct {
	Bundle string `json:"bundle" yaml:"bundle"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
}

// ListAction prints every bundle in the manifest with the file it resolves to.
func ListAction(c *cli.Context) error {
	format := c.String("format")
	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	m, err := newManager(c)
	if err != nil {
		return err
	}
	bundles, err := m.Bundles(c.Context, c.String("match"))
	if err != nil {
		return err
	}

	entries := make([]listEntry, 0, len(bundles))
	for _, b := range bundles {
		file, _, err := m.GetFromManifest(c.Context, b)
		if err != nil {
			return err
		}
		entries = append(entries, listEntry{Bundle: b, File: file})
	}

	switch format {
	case "json":
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal bundles: %w", err)
		}
		fmt.Fprintln(c.App.Writer, string(out))
	case "yaml":
		out, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal bundles: %w", err)
		}
		fmt.Fprint(c.App.Writer, string(out))
	default:
		for _, e := range entries {
			fmt.Fprintf(c.App.Writer, "%s\t%s\n", e.Bundle, e.File)
		}
	}
	return nil
}

func bundleArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one bundle name, got %d arguments", c.NArg())
	}
	return c.Args().First(), nil
}
