// Package commands implements the assetmanager command line tool.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"
	"github.com/vormadev/assetmanager"
	"github.com/vormadev/assetmanager/kit/colorlog"
)

func NewApp() *cli.App {
	return &cli.App{
		Name:  "assetmanager",
		Usage: "resolve frontend bundles against an asset manifest",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "JSON options file"},
			&cli.StringSliceFlag{Name: "env-file", Usage: "load a .env file before reading the environment (repeatable)"},
			&cli.BoolFlag{Name: "dev", Usage: "resolve against the dev server (default from ASSETMANAGER_MODE)"},
			&cli.StringFlag{Name: "web-root", Usage: "directory the app serves static files from (default from ASSETMANAGER_WEB_ROOT)"},
			&cli.StringFlag{Name: "dev-server", Usage: "public dev server URL, overrides the options file"},
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "debug, info, warn or error"},
		},
		Before: loadEnvFiles,
		Commands: []*cli.Command{
			{
				Name:      "path",
				Usage:     "print the URL of a bundle",
				ArgsUsage: "<bundle>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Usage: "js or css, when the bundle name has no extension"},
				},
				Action: PathAction,
			},
			{
				Name:  "tag",
				Usage: "print the HTML tag that loads a bundle",
				Subcommands: []*cli.Command{
					{
						Name:      "script",
						ArgsUsage: "<bundle>",
						Flags: []cli.Flag{
							fallbackFlag(),
							&cli.StringFlag{Name: "load", Value: "normal", Usage: "normal, async, defer or async-defer"},
						},
						Action: ScriptTagAction,
					},
					{
						Name:      "link",
						ArgsUsage: "<bundle>",
						Flags:     []cli.Flag{fallbackFlag()},
						Action:    LinkTagAction,
					},
					{
						Name:      "style",
						Usage:     "inline the stylesheet",
						ArgsUsage: "<bundle>",
						Flags:     []cli.Flag{fallbackFlag()},
						Action:    StyleTagAction,
					},
				},
			},
			{
				Name:  "list",
				Usage: "list the bundles in the manifest",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "match", Usage: "only bundles matching this glob, e.g. \"**/*.js\""},
					&cli.StringFlag{Name: "format", Value: "text", Usage: "text, json or yaml"},
				},
				Action: ListAction,
			},
			{
				Name:      "watch",
				Usage:     "print tags for bundles, and again whenever the local manifest changes",
				ArgsUsage: "<bundle>...",
				Action:    WatchAction,
			},
		},
	}
}

func fallbackFlag() cli.Flag {
	return &cli.StringFlag{Name: "fallback", Usage: "bundle to use when the first one is not in the manifest"}
}

func loadEnvFiles(c *cli.Context) error {
	files := c.StringSlice("env-file")
	if len(files) == 0 {
		return nil
	}
	return assetmanager.LoadDotEnv(files...)
}

func newLogger(c *cli.Context) (*slog.Logger, error) {
	level, err := colorlog.ParseLevel(c.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return colorlog.New("assetmanager", colorlog.Options{Output: c.App.ErrWriter, Level: level}), nil
}

// newManager builds a Manager from the options file (or defaults), the
// process environment and the global flags, in that order of precedence.
func newManager(c *cli.Context) (*assetmanager.Manager, error) {
	opts := assetmanager.DefaultOptions()
	if path := c.String("config"); path != "" {
		parsed, err := assetmanager.ParseOptionsFile(path)
		if err != nil {
			return nil, err
		}
		opts = *parsed
	}
	if s := c.String("dev-server"); s != "" {
		opts.PublicDevServer = s
	}

	env := assetmanager.EnvironmentFromEnv()
	if c.IsSet("dev") {
		env.IsDevelopment = c.Bool("dev")
	}
	if c.IsSet("web-root") {
		env.WebRootPath = c.String("web-root")
	}

	log, err := newLogger(c)
	if err != nil {
		return nil, err
	}

	return assetmanager.New(assetmanager.Config{
		Options:     &opts,
		Environment: env,
		Logger:      log,
	})
}
