package manifest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vormadev/assetmanager/internal/config"
	"github.com/vormadev/assetmanager/internal/fetch"
	"github.com/vormadev/assetmanager/kit/safecache"
)

// Source owns the manifest document for one service instance. In production
// the parsed document is kept for the life of the Source; in development it
// is fetched and parsed again on every call.
type Source struct {
	cfg     config.Config
	fetcher fetch.Strategy
	log     *slog.Logger
	doc     *safecache.Cache[Document]
}

func NewSource(cfg config.Config, fetcher fetch.Strategy, log *slog.Logger) *Source {
	s := &Source{cfg: cfg, fetcher: fetcher, log: log}
	s.doc = safecache.New(s.load, safecache.ForMode(cfg.DevelopmentMode))
	return s
}

func (s *Source) load(ctx context.Context) (Document, error) {
	raw, err := s.fetcher.Fetch(ctx, s.cfg.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	doc, err := Parse([]byte(raw), s.cfg.ManifestType)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", s.cfg.ManifestPath, err)
	}
	s.log.Debug("manifest loaded",
		"path", s.cfg.ManifestPath,
		"type", s.cfg.ManifestType,
		"cache", s.doc.Strategy(),
	)
	return doc, nil
}

func (s *Source) Document(ctx context.Context) (Document, error) {
	return s.doc.Get(ctx)
}

// GetEntry resolves bundle against the current manifest.
func (s *Source) GetEntry(ctx context.Context, bundle string) (string, bool, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		return "", false, err
	}
	file, ok := Resolve(doc, bundle, s.cfg.DevelopmentMode)
	if !ok {
		s.log.Debug("bundle not in manifest", "bundle", bundle)
	}
	return file, ok, nil
}
