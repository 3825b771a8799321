package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestValidate tests configuration validation.
func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Seeds = []string{"http://example.com/governance/"}
		return cfg
	}

	t.Run("valid default config passes", func(t *testing.T) {
		t.Parallel()

		if err := valid().Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"missing seed", func(c *Config) { c.Seeds = nil }, ErrNoSeed},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative depth", func(c *Config) { c.CrawlDepth = -1 }, ErrInvalidDepth},
		{"zero min chunk length", func(c *Config) { c.MinChunkLen = 0 }, ErrInvalidMinChunkLen},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"conflicting formats", func(c *Config) { c.JSONReport = true; c.MarkdownReport = true }, ErrConflictingReportFormats},
		{"negative max body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("depth zero is valid", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.CrawlDepth = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("depth 0 should be valid (seed page only), got %v", err)
		}
	})
}

// TestNewConfig tests default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.Timeout != 15*time.Second {
		t.Errorf("unexpected default timeout: %v", cfg.Timeout)
	}
	if cfg.MinChunkLen != 20 {
		t.Errorf("unexpected default min chunk length: %d", cfg.MinChunkLen)
	}
	if len(cfg.BlockedExtensions) != 10 {
		t.Errorf("expected 10 default blocked extensions, got %d", len(cfg.BlockedExtensions))
	}
	if len(cfg.PathKeywords) != 0 {
		t.Errorf("path keywords should default to empty (allow all), got %v", cfg.PathKeywords)
	}
	if cfg.AllowSubdomains {
		t.Error("subdomains should be rejected by default")
	}
}

// TestLoadConfigFile tests YAML config file loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads site profiles", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		content := `
defaults:
  pathKeywords:
    - /governance
    - /ir
sites:
  example.com:
    depth: 2
    minChunkLen: 30
    orgLabel: "Example Co., Ltd."
    headers:
      Authorization: "Bearer token"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		profile := cf.GetSiteProfile("example.com")
		if profile.Depth != 2 {
			t.Errorf("expected depth 2, got %d", profile.Depth)
		}
		if profile.MinChunkLen != 30 {
			t.Errorf("expected min chunk length 30, got %d", profile.MinChunkLen)
		}
		if profile.OrgLabel != "Example Co., Ltd." {
			t.Errorf("unexpected org label: %q", profile.OrgLabel)
		}
		// Defaults are merged in
		if len(profile.PathKeywords) != 2 {
			t.Errorf("expected merged default path keywords, got %v", profile.PathKeywords)
		}
	})

	t.Run("unknown host gets defaults", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Defaults: SiteProfile{Depth: 5},
			Sites:    map[string]SiteProfile{},
		}

		profile := cf.GetSiteProfile("unknown.example.org")
		if profile.Depth != 5 {
			t.Errorf("expected default depth 5, got %d", profile.Depth)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: [not a map"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests config file discovery.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path wins when it exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("sites: {}"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("missing explicit path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}
