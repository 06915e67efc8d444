// Package config resolves the effective asset paths and mode from static
// options and the runtime environment. This package has no dependencies on
// other internal packages.
package config

import (
	"fmt"
)

const (
	DefaultPublicPath   = "/dist/"
	DefaultManifestFile = "assets-manifest.json"
)

// Options are the static, user-supplied settings.
type Options struct {
	// Browser-reachable dev server origin, e.g. "http://localhost:5173".
	// Required in development.
	PublicDevServer string `json:"PublicDevServer,omitempty"`
	// Dev server origin as seen from the app server (e.g. a container
	// hostname). Falls back to PublicDevServer.
	InternalDevServer string `json:"InternalDevServer,omitempty"`
	// Defaults to DefaultPublicPath.
	PublicPath string `json:"PublicPath,omitempty"`
	// Defaults to DefaultManifestFile.
	ManifestFile string       `json:"ManifestFile,omitempty"`
	ManifestType ManifestType `json:"ManifestType"`
}

func DefaultOptions() Options {
	return Options{
		PublicPath:   DefaultPublicPath,
		ManifestFile: DefaultManifestFile,
		ManifestType: ManifestKeyValue,
	}
}

// Environment is what the host application knows about where it runs.
type Environment struct {
	IsDevelopment bool
	// Filesystem directory the app serves static files from.
	WebRootPath string
}

// Config is the resolved configuration. It is computed once by Resolve and
// never changes afterwards.
type Config struct {
	DevelopmentMode bool
	// Local directory (production) or dev server URL (development) used to
	// fetch the manifest and raw asset files.
	AssetsDirectoryPath string
	// Prefix a browser uses for asset URLs. In development this is always
	// the public dev server.
	AssetsWebPath string
	ManifestPath  string
	ManifestType  ManifestType
}

func Resolve(opts *Options, env *Environment) (Config, error) {
	if opts == nil {
		return Config{}, fmt.Errorf("%w: options are required", ErrInvalidConfiguration)
	}
	if env == nil {
		return Config{}, fmt.Errorf("%w: environment is required", ErrInvalidConfiguration)
	}
	if !opts.ManifestType.Valid() {
		return Config{}, fmt.Errorf("%w: %w: %s", ErrInvalidConfiguration, ErrInvalidEnumValue, opts.ManifestType)
	}

	publicPath := opts.PublicPath
	if publicPath == "" {
		publicPath = DefaultPublicPath
	}
	manifestFile := opts.ManifestFile
	if manifestFile == "" {
		manifestFile = DefaultManifestFile
	}

	cfg := Config{
		DevelopmentMode: env.IsDevelopment,
		ManifestType:    opts.ManifestType,
	}

	// The Vite dev server serves from its root regardless of the build's base path.
	if cfg.DevelopmentMode && cfg.ManifestType == ManifestVite {
		publicPath = "/"
	}

	if cfg.DevelopmentMode {
		if opts.PublicDevServer == "" {
			return Config{}, fmt.Errorf("%w: PublicDevServer is required in development", ErrInvalidConfiguration)
		}
		internal := opts.InternalDevServer
		if internal == "" {
			internal = opts.PublicDevServer
		}
		cfg.AssetsDirectoryPath = internal + publicPath
		cfg.AssetsWebPath = opts.PublicDevServer + publicPath
	} else {
		cfg.AssetsDirectoryPath = env.WebRootPath + publicPath
		cfg.AssetsWebPath = publicPath
	}

	cfg.ManifestPath = cfg.AssetsDirectoryPath + manifestFile

	return cfg, nil
}
