package fetch

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/vormadev/assetmanager/internal/config"
)

func TestHTTP_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/manifest.json":
			w.Write([]byte(`{"a.js":"a.1.js"}`))
		default:
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	h, err := NewHTTP(srv.Client())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("ok", func(t *testing.T) {
		got, err := h.Fetch(context.Background(), srv.URL+"/manifest.json")
		if err != nil {
			t.Fatal(err)
		}
		if got != `{"a.js":"a.1.js"}` {
			t.Errorf("Fetch() = %q", got)
		}
	})

	t.Run("non-success status", func(t *testing.T) {
		_, err := h.Fetch(context.Background(), srv.URL+"/other")
		if !errors.Is(err, ErrDevServerUnavailable) {
			t.Errorf("Fetch() error = %v, want ErrDevServerUnavailable", err)
		}
	})
}

func TestHTTP_FetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	h, _ := NewHTTP(http.DefaultClient)
	_, err := h.Fetch(context.Background(), url+"/manifest.json")
	if !errors.Is(err, ErrDevServerUnavailable) {
		t.Errorf("Fetch() error = %v, want ErrDevServerUnavailable", err)
	}
}

func TestNewHTTP_NilClient(t *testing.T) {
	if _, err := NewHTTP(nil); !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("NewHTTP(nil) error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestLocalFile_Fetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.css")
	if err := os.WriteFile(path, []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LocalFile{}.Fetch(context.Background(), path)
	if err != nil || got != "body{}" {
		t.Errorf("Fetch() = %q, %v", got, err)
	}

	_, err = LocalFile{}.Fetch(context.Background(), filepath.Join(dir, "missing.css"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Fetch() error = %v, want fs.ErrNotExist", err)
	}
}

func TestForConfig(t *testing.T) {
	s, err := ForConfig(config.Config{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(LocalFile); !ok {
		t.Errorf("production strategy = %T, want LocalFile", s)
	}

	s, err = ForConfig(config.Config{DevelopmentMode: true}, http.DefaultClient)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*HTTP); !ok {
		t.Errorf("development strategy = %T, want *HTTP", s)
	}

	if _, err := ForConfig(config.Config{DevelopmentMode: true}, nil); !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("ForConfig(dev, nil) error = %v", err)
	}
}
