// Package fetch retrieves manifest documents and raw asset files, either from
// a running dev server over HTTP or from the local filesystem. The strategy is
// chosen once from the resolved configuration.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/vormadev/assetmanager/internal/config"
)

// ErrDevServerUnavailable means the dev server could not be reached or did
// not answer successfully. It is never a "not found" result.
var ErrDevServerUnavailable = errors.New("development server not started")

type Strategy interface {
	Fetch(ctx context.Context, location string) (string, error)
}

// ForConfig returns HTTP in development and LocalFile in production.
func ForConfig(cfg config.Config, client *http.Client) (Strategy, error) {
	if cfg.DevelopmentMode {
		h, err := NewHTTP(client)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
	return LocalFile{}, nil
}

type HTTP struct {
	client *http.Client
}

func NewHTTP(client *http.Client) (*HTTP, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: an HTTP client is required in development", config.ErrInvalidConfiguration)
	}
	return &HTTP{client: client}, nil
}

func (h *HTTP) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: GET %s: %w", ErrDevServerUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: GET %s: status %d", ErrDevServerUnavailable, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: GET %s: read body: %w", ErrDevServerUnavailable, url, err)
	}
	return string(body), nil
}

type LocalFile struct{}

func (LocalFile) Fetch(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}
