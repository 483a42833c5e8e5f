package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iburimskiy/cartoongen/internal/config"
	"github.com/iburimskiy/cartoongen/internal/generate"
)

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-endpoint", "http://x/generate", "-prompt", "green hair", "-out", "/tmp/o", "-watch=false"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if o.endpoint != "http://x/generate" || o.prompt != "green hair" || o.outDir != "/tmp/o" {
		t.Fatalf("unexpected options %+v", o)
	}
	if o.watch || o.sound || o.debug {
		t.Fatalf("unexpected bool flags %+v", o)
	}
	if o.configPath != config.DefaultPath {
		t.Fatalf("config path %q", o.configPath)
	}

	if _, err := parseFlags([]string{"-nope"}); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cartoongen.yaml")
	yaml := "endpoint: http://from-file/generate\nasset_dir: faces\nmotion:\n  damping: 0.9\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name     string
		opts     options
		endpoint string
		assets   string
	}{
		{"file", options{configPath: path}, "http://from-file/generate", "faces"},
		{"flags_win", options{configPath: path, endpoint: "http://flag/generate", assetDir: "mine"}, "http://flag/generate", "mine"},
		{"missing_file", options{configPath: filepath.Join(dir, "none.yaml")}, config.DefaultEndpoint, ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := loadConfig(c.opts, quietLog())
			if cfg.Endpoint != c.endpoint || cfg.AssetDir != c.assets {
				t.Fatalf("got endpoint %q assets %q", cfg.Endpoint, cfg.AssetDir)
			}
		})
	}
}

func TestGenerateOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"image":"QUJD"}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Endpoint = srv.URL
	cfg.OutputDir = t.TempDir()

	path, err := generateOnce(context.Background(), cfg, "green hair", quietLog())
	if err != nil {
		t.Fatalf("generateOnce: %v", err)
	}
	if b, _ := os.ReadFile(path); string(b) != "ABC" {
		t.Fatalf("unexpected file content %q", b)
	}

	t.Run("empty_prompt", func(t *testing.T) {
		_, err := generateOnce(context.Background(), cfg, "   ", quietLog())
		if err == nil || err.Error() != generate.NoticeEmptyPrompt {
			t.Fatalf("expected empty prompt notice, got %v", err)
		}
	})

	t.Run("offline", func(t *testing.T) {
		down := httptest.NewServer(http.NotFoundHandler())
		down.Close()
		cfg := cfg
		cfg.Endpoint = down.URL
		_, err := generateOnce(context.Background(), cfg, "green hair", quietLog())
		if !errors.Is(err, generate.ErrBackendOffline) || !strings.HasPrefix(err.Error(), generate.NoticeOffline) {
			t.Fatalf("expected offline notice, got %v", err)
		}
	})
}
