package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleYAML = `
server:
  port: "9090"
  mode: test
jwt:
  secret: file-secret
  expire_hours: 2
ai:
  provider: openai
  model: gpt-4o-mini
storage:
  quiz_path: data/quizzes
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadConfigFileAndDefaults(t *testing.T) {
	dir := writeConfig(t, sampleYAML)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.AI.Provider != "openai" {
		t.Fatalf("file values not applied: %+v", cfg.Server)
	}
	if cfg.JWT.ExpireTime != 2*time.Hour {
		t.Fatalf("expire = %v", cfg.JWT.ExpireTime)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Storage.LocalPath != "static/pdfs" || cfg.Storage.QuizPath != "data/quizzes" {
		t.Fatalf("defaults not applied: %+v %+v", cfg.Database, cfg.Storage)
	}
	if cfg.Admin.Username != "admin" {
		t.Fatalf("admin username = %q", cfg.Admin.Username)
	}
	if !strings.HasSuffix(cfg.ConfigFile, "config.yaml") {
		t.Fatalf("config file = %q", cfg.ConfigFile)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := writeConfig(t, sampleYAML)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("QUIZ_APP_SERVER_PORT", "7070")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Fatalf("jwt secret = %q", cfg.JWT.Secret)
	}
	if cfg.AI.APIKey != "legacy-key" {
		t.Fatalf("api key = %q", cfg.AI.APIKey)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Mode: "debug"},
			AI:       AIConfig{Provider: "gemini"},
			Database: DatabaseConfig{Driver: "sqlite"},
			JWT:      JWTConfig{Secret: "s"},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(c *Config){
		"provider":       func(c *Config) { c.AI.Provider = "other" },
		"driver":         func(c *Config) { c.Database.Driver = "postgres" },
		"mode":           func(c *Config) { c.Server.Mode = "prod" },
		"missing secret": func(c *Config) { c.JWT.Secret = "" },
		"release short secret": func(c *Config) {
			c.Server.Mode = "release"
			c.AI.APIKey = "k"
		},
		"release no key": func(c *Config) {
			c.Server.Mode = "release"
			c.JWT.Secret = strings.Repeat("x", 32)
		},
	}
	for name, mutate := range cases {
		c := base()
		mutate(c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
