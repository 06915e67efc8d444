package assetmanager

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/vormadev/assetmanager/internal/manifest"
)

// GetFromManifest looks bundle up in the manifest exactly as given. The
// result is the manifest entry, without the web path prefix.
func (m *Manager) GetFromManifest(ctx context.Context, bundle string) (string, bool, error) {
	file, ok, err := m.manifest.GetEntry(ctx, bundle)
	if err != nil {
		return "", false, m.logFetchErr(err)
	}
	return file, ok, nil
}

// GetBundlePath returns the browser URL of bundle. The kind of asset comes
// either from the extension in bundle or from fileType, never both.
func (m *Manager) GetBundlePath(ctx context.Context, bundle string, fileType FileType) (string, bool, error) {
	if bundle == "" {
		return "", false, nil
	}

	if hasExtension(bundle) {
		if fileType != FileTypeNone {
			return "", false, fmt.Errorf("%w: %q with %s", ErrRedundantExtension, bundle, fileType)
		}
	} else {
		if fileType == FileTypeNone {
			return "", false, fmt.Errorf("%w: %q", ErrAmbiguousExtension, bundle)
		}
		ext, err := fileType.Extension()
		if err != nil {
			return "", false, err
		}
		bundle += ext
	}

	file, ok, err := m.GetFromManifest(ctx, bundle)
	if err != nil || !ok {
		return "", false, err
	}
	return m.cfg.AssetsWebPath + file, true, nil
}

// GetScriptSrc resolves bundle, or fallback when bundle is not in the
// manifest, as a script. ".js" is appended to names that lack it. Empty
// names are skipped.
func (m *Manager) GetScriptSrc(ctx context.Context, bundle, fallback string) (string, bool, error) {
	return m.resolveWithFallback(ctx, ".js", bundle, fallback)
}

// GetLinkHref is GetScriptSrc for stylesheets.
func (m *Manager) GetLinkHref(ctx context.Context, bundle, fallback string) (string, bool, error) {
	return m.resolveWithFallback(ctx, ".css", bundle, fallback)
}

// GetStyleContent returns the raw CSS of the stylesheet GetLinkHref resolves.
func (m *Manager) GetStyleContent(ctx context.Context, bundle, fallback string) (string, bool, error) {
	file, ok, err := m.GetLinkHref(ctx, bundle, fallback)
	if err != nil || !ok {
		return "", false, err
	}
	text, err := m.content.GetContent(ctx, file)
	if err != nil {
		return "", false, m.logFetchErr(err)
	}
	return text, true, nil
}

// Bundles lists the bundle names in the manifest that match the doublestar
// pattern. An empty pattern matches everything.
func (m *Manager) Bundles(ctx context.Context, pattern string) ([]string, error) {
	doc, err := m.manifest.Document(ctx)
	if err != nil {
		return nil, m.logFetchErr(err)
	}
	return manifest.Match(doc, pattern)
}

// The fallback is only consulted on a miss. Errors from the primary lookup
// are returned as they are.
func (m *Manager) resolveWithFallback(ctx context.Context, ext, bundle, fallback string) (string, bool, error) {
	if bundle != "" {
		file, ok, err := m.GetFromManifest(ctx, normalize(bundle, ext))
		if err != nil || ok {
			return file, ok, err
		}
		if fallback != "" {
			m.log.Warn("bundle not found, trying fallback", "bundle", bundle, "fallback", fallback)
		}
	}
	if fallback == "" {
		return "", false, nil
	}
	return m.GetFromManifest(ctx, normalize(fallback, ext))
}

func (m *Manager) logFetchErr(err error) error {
	if errors.Is(err, ErrDevServerUnavailable) {
		m.log.Error("dev server unavailable, is it running?", "url", m.cfg.AssetsDirectoryPath, "error", err)
	}
	return err
}

func normalize(bundle, ext string) string {
	if len(bundle) >= len(ext) && strings.EqualFold(bundle[len(bundle)-len(ext):], ext) {
		return bundle
	}
	return bundle + ext
}

func hasExtension(bundle string) bool {
	ext := path.Ext(bundle)
	return ext != "" && ext != "."
}
