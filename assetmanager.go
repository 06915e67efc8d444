package assetmanager

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vormadev/assetmanager/internal/config"
	"github.com/vormadev/assetmanager/internal/content"
	"github.com/vormadev/assetmanager/internal/fetch"
	"github.com/vormadev/assetmanager/internal/manifest"
	"github.com/vormadev/assetmanager/internal/tags"
	"github.com/vormadev/assetmanager/kit/colorlog"
)

type (
	Options        = config.Options
	Environment    = config.Environment
	ResolvedConfig = config.Config
	ManifestType   = config.ManifestType
	FileType       = config.FileType
	ScriptLoad     = config.ScriptLoad
)

const (
	ManifestKeyValue = config.ManifestKeyValue
	ManifestVite     = config.ManifestVite

	FileTypeNone = config.FileTypeNone
	FileTypeCSS  = config.FileTypeCSS
	FileTypeJS   = config.FileTypeJS

	ScriptLoadNormal     = config.ScriptLoadNormal
	ScriptLoadAsync      = config.ScriptLoadAsync
	ScriptLoadDefer      = config.ScriptLoadDefer
	ScriptLoadAsyncDefer = config.ScriptLoadAsyncDefer

	DefaultPublicPath   = config.DefaultPublicPath
	DefaultManifestFile = config.DefaultManifestFile
)

var (
	ErrInvalidConfiguration = config.ErrInvalidConfiguration
	ErrInvalidEnumValue     = config.ErrInvalidEnumValue
	ErrDevServerUnavailable = fetch.ErrDevServerUnavailable

	// ErrAmbiguousExtension is returned by GetBundlePath when neither the
	// bundle name nor the file type says which kind of asset is wanted.
	ErrAmbiguousExtension = errors.New("a file extension is needed either in the bundle name or as the file type")
	// ErrRedundantExtension is returned by GetBundlePath when the bundle name
	// already has an extension and a file type is given as well.
	ErrRedundantExtension = errors.New("bundle name already has an extension, do not also pass a file type")
)

var (
	DefaultOptions     = config.DefaultOptions
	ParseOptions       = config.ParseOptions
	ParseOptionsFile   = config.ParseOptionsFile
	EnvironmentFromEnv = config.EnvironmentFromEnv
	LoadDotEnv         = config.LoadDotEnv
	GetIsDev           = config.GetIsDev
	SetModeToDev       = config.SetModeToDev
	ParseManifestType  = config.ParseManifestType
	ParseFileType      = config.ParseFileType
	ParseScriptLoad    = config.ParseScriptLoad
)

const defaultDevServerTimeout = 10 * time.Second

type Config struct {
	// Required.
	Options *Options

	// Required -- usually EnvironmentFromEnv().
	Environment *Environment

	// Optional -- used to reach the dev server in development.
	// Defaults to a client with a 10 second timeout.
	HTTPClient *http.Client

	// Optional -- a logger instance.
	// If not provided, a default logger will be created that writes to standard out.
	Logger *slog.Logger

	// Optional -- minify inlined CSS with esbuild before caching it.
	MinifyInlineStyles bool

	// Optional -- maximum number of inline style files kept in memory in
	// production. Zero means no limit.
	InlineStyleCacheLimit int
}

// Manager resolves bundle names to built asset files and renders the tags
// that load them. One Manager is meant to live as long as the service that
// owns it; in production its caches are never invalidated.
type Manager struct {
	cfg      config.Config
	log      *slog.Logger
	manifest *manifest.Source
	content  *content.Fetcher
	tags     *tags.Builder
}

func New(c Config) (*Manager, error) {
	cfg, err := config.Resolve(c.Options, c.Environment)
	if err != nil {
		return nil, err
	}

	log := c.Logger
	if log == nil {
		log = colorlog.New("assetmanager")
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultDevServerTimeout}
	}

	fetcher, err := fetch.ForConfig(cfg, client)
	if err != nil {
		return nil, err
	}

	contentFetcher, err := content.New(cfg, fetcher, log, content.Options{
		CacheLimit: c.InlineStyleCacheLimit,
		MinifyCSS:  c.MinifyInlineStyles,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	m := &Manager{
		cfg:      cfg,
		log:      log,
		manifest: manifest.NewSource(cfg, fetcher, log),
		content:  contentFetcher,
		tags:     tags.NewBuilder(cfg),
	}

	log.Debug("asset manager ready",
		"dev", cfg.DevelopmentMode,
		"manifest", cfg.ManifestPath,
		"type", cfg.ManifestType,
		"webPath", cfg.AssetsWebPath,
	)

	return m, nil
}

func (m *Manager) Config() ResolvedConfig { return m.cfg }

// DirectoryPath is where manifest and asset files are fetched from: a local
// directory in production, the internal dev server URL in development.
func (m *Manager) DirectoryPath() string { return m.cfg.AssetsDirectoryPath }

// WebPath is the prefix browsers use for asset URLs.
func (m *Manager) WebPath() string { return m.cfg.AssetsWebPath }
