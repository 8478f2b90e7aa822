package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		c := NewConfig()
		c.Seeds = []string{"https://example.com"}
		return c
	}

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()

		if err := valid().Validate(); err != nil {
			t.Errorf("expected valid default config, got %v", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"no seeds", func(c *Config) { c.Seeds = nil }, ErrNoSeeds},
		{"eleven seeds", func(c *Config) {
			c.Seeds = make([]string, 11)
			for i := range c.Seeds {
				c.Seeds[i] = "https://example.com"
			}
		}, ErrTooManySeeds},
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }, ErrInvalidDepth},
		{"depth too large", func(c *Config) { c.MaxDepth = 11 }, ErrInvalidDepth},
		{"zero pages", func(c *Config) { c.MaxPages = 0 }, ErrInvalidMaxPages},
		{"pages too large", func(c *Config) { c.MaxPages = 1001 }, ErrInvalidMaxPages},
		{"negative delay", func(c *Config) { c.Delay = -time.Second }, ErrInvalidDelay},
		{"delay too large", func(c *Config) { c.Delay = 11 * time.Second }, ErrInvalidDelay},
		{"timeout too short", func(c *Config) { c.Timeout = time.Second }, ErrInvalidTimeout},
		{"timeout too long", func(c *Config) { c.Timeout = 3 * time.Minute }, ErrInvalidTimeout},
		{"zero concurrency", func(c *Config) { c.BatchConcurrency = 0 }, ErrInvalidConcurrency},
		{"conflicting formats", func(c *Config) { c.JSONReport = true; c.MarkdownReport = true }, ErrConflictingReportFormats},
		{"enrichment without endpoint", func(c *Config) { c.UseAICategorization = true }, ErrMissingEnrichEndpoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads site overrides", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		content := `sites:
  example.com:
    cookie: "session=abc"
    depth: 3
    delay_seconds: 2
    restrict_to_path: "https://example.com/team"
    headers:
      X-Custom: "yes"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		sc, ok := cf.Sites["example.com"]
		if !ok {
			t.Fatal("expected example.com site config")
		}
		if sc.Cookie != "session=abc" {
			t.Errorf("unexpected cookie %q", sc.Cookie)
		}
		if sc.Depth != 3 {
			t.Errorf("unexpected depth %d", sc.Depth)
		}
		if sc.Headers["X-Custom"] != "yes" {
			t.Errorf("unexpected headers %v", sc.Headers)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestSiteConfigApply(t *testing.T) {
	t.Parallel()

	base := NewConfig()
	base.Seeds = []string{"https://example.com"}

	sc := &SiteConfig{Depth: 4, DelaySeconds: 3, RestrictToPath: "https://example.com/about"}
	out := sc.Apply(base)

	if out.MaxDepth != 4 {
		t.Errorf("expected depth override 4, got %d", out.MaxDepth)
	}
	if out.Delay != 3*time.Second {
		t.Errorf("expected delay override 3s, got %v", out.Delay)
	}
	if out.RestrictToPath != "https://example.com/about" {
		t.Errorf("unexpected restrict prefix %q", out.RestrictToPath)
	}
	if base.MaxDepth != DefaultMaxDepth {
		t.Error("Apply must not mutate the original config")
	}
}
