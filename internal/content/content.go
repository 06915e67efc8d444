// Package content fetches the raw text of built asset files, e.g. CSS to be
// inlined in a style element.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"
	"github.com/vormadev/assetmanager/internal/config"
	"github.com/vormadev/assetmanager/internal/fetch"
	"github.com/vormadev/assetmanager/kit/safecache"
)

type Options struct {
	// CacheLimit bounds the number of cached files in production.
	// Zero means unbounded.
	CacheLimit int
	// MinifyCSS runs fetched .css files through esbuild before caching.
	MinifyCSS bool
}

// Fetcher reads asset files relative to the assets directory. In production
// content is cached per file token (query string included) for the life of
// the Fetcher; in development every call goes to the dev server.
type Fetcher struct {
	cfg     config.Config
	fetcher fetch.Strategy
	log     *slog.Logger
	opts    Options
	cache   *safecache.CacheMap[string]
}

func New(cfg config.Config, fetcher fetch.Strategy, log *slog.Logger, opts Options) (*Fetcher, error) {
	f := &Fetcher{cfg: cfg, fetcher: fetcher, log: log, opts: opts}

	cache, err := safecache.NewMap(
		f.load,
		safecache.ForMode(cfg.DevelopmentMode),
		safecache.MapOptions{Limit: opts.CacheLimit},
	)
	if err != nil {
		return nil, fmt.Errorf("content cache: %w", err)
	}
	f.cache = cache

	return f, nil
}

// GetContent returns the text of the file named by token. Any "?query"
// suffix is a client cache-busting hint: it is part of the cache key but is
// not sent to the dev server or used on disk.
func (f *Fetcher) GetContent(ctx context.Context, token string) (string, error) {
	return f.cache.Get(ctx, token)
}

func (f *Fetcher) load(ctx context.Context, token string) (string, error) {
	filename := StripQuery(token)

	text, err := f.fetcher.Fetch(ctx, f.cfg.AssetsDirectoryPath+filename)
	if err != nil {
		return "", fmt.Errorf("content %s: %w", filename, err)
	}

	if f.opts.MinifyCSS && strings.HasSuffix(strings.ToLower(filename), ".css") {
		text, err = minifyCSS(text)
		if err != nil {
			return "", fmt.Errorf("content %s: %w", filename, err)
		}
	}

	f.log.Debug("asset content loaded", "file", filename, "bytes", len(text))
	return text, nil
}

func StripQuery(token string) string {
	filename, _, _ := strings.Cut(token, "?")
	return filename
}

func minifyCSS(css string) (string, error) {
	result := esbuild.Transform(css, esbuild.TransformOptions{
		Loader:           esbuild.LoaderCSS,
		MinifyWhitespace: true,
		MinifySyntax:     true,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, msg := range result.Errors {
			msgs = append(msgs, msg.Text)
		}
		return "", errors.New("esbuild: " + strings.Join(msgs, "; "))
	}
	return strings.TrimRight(string(result.Code), "\n"), nil
}
