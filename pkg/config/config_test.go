package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jtripath/maven-dependency-management-extension/pkg/cache"
	"github.com/jtripath/maven-dependency-management-extension/pkg/errors"
	"github.com/jtripath/maven-dependency-management-extension/pkg/repository"
)

const sampleConfig = `
local_repository = "${env.DEPMGMT_TEST_HOME}/repo"
offline = true

[[repositories]]
id = "corp"
url = "https://repo.corp.example/maven2"

[[repositories]]
id = "legacy"
url = "https://old.corp.example/repo"
layout = "legacy"
no_snapshots = true

[[mirrors]]
id = "proxy"
url = "https://proxy.corp.example/maven2"
mirror_of = "external:*,!corp"

[[servers]]
id = "proxy"
username = "ci"
password = "${env.DEPMGMT_TEST_TOKEN}"

[properties]
"java.version" = "17"

[http]
timeout = "5s"
retries = 4

[cache]
backend = "redis"
ttl = "1h"
redis_addr = "cache:6379"
`

func TestLoad(t *testing.T) {
	t.Setenv("DEPMGMT_TEST_HOME", "/home/ci")
	t.Setenv("DEPMGMT_TEST_TOKEN", "s3cret")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LocalRepository != "/home/ci/repo" || !cfg.Offline {
		t.Errorf("LocalRepository = %q, Offline = %v", cfg.LocalRepository, cfg.Offline)
	}
	if len(cfg.Repositories) != 2 || cfg.Repositories[0].Layout != repository.LayoutDefault {
		t.Errorf("Repositories = %+v, want layout defaulted", cfg.Repositories)
	}
	if r := cfg.Repositories[1]; r.Layout != repository.LayoutLegacy || !r.NoSnapshots {
		t.Errorf("legacy repository = %+v", r)
	}
	if cfg.Servers[0].Password != "s3cret" {
		t.Errorf("Password = %q, want expanded env", cfg.Servers[0].Password)
	}
	if cfg.Properties["java.version"] != "17" {
		t.Errorf("Properties = %v", cfg.Properties)
	}
	if cfg.HTTP.Timeout != 5*time.Second || cfg.HTTP.Retries != 4 {
		t.Errorf("HTTP = %+v", cfg.HTTP)
	}
	if cfg.HTTP.UserAgent == "" {
		t.Error("UserAgent default lost")
	}

	opts := cfg.CacheOptions()
	if opts.Backend != cache.BackendRedis || opts.RedisAddr != "cache:6379" || cfg.Cache.TTL != time.Hour {
		t.Errorf("CacheOptions() = %+v, ttl %v", opts, cfg.Cache.TTL)
	}

	sel, err := cfg.Selector()
	if err != nil {
		t.Fatal(err)
	}
	got := sel.Apply([]repository.Endpoint{{ID: "corp", URL: "https://repo.corp.example/maven2"}, repository.Central})
	if len(got) != 2 || got[0].ID != "corp" || got[1].ID != "proxy" {
		t.Errorf("mirrored = %+v", got)
	}
}

func TestLoad_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load without file failed: %v", err)
	}
	if cfg.Cache.Backend != cache.BackendFile || cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Cache.Dir != filepath.Join(dir, "cache", "depmgmt", "responses") {
		t.Errorf("Cache.Dir = %q", cfg.Cache.Dir)
	}

	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "depmgmt", "config.toml") {
		t.Errorf("DefaultPath() = %q", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("offline = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if cfg, err := Load(""); err != nil || !cfg.Offline {
		t.Errorf("Load(default file) = %+v, %v", cfg, err)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "colour = \"blue\"\n"},
		{"syntax", "offline = \n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"repository without url", "[[repositories]]\nid = \"x\"\n"},
		{"duplicate repository", "[[repositories]]\nid = \"x\"\nurl = \"https://a\"\n[[repositories]]\nid = \"x\"\nurl = \"https://b\"\n"},
		{"mirror without url", "[[mirrors]]\nid = \"m\"\nmirror_of = \"*\"\n"},
		{"negative retries", "[http]\nretries = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err == nil {
				t.Fatalf("Load() = %+v, want error", cfg)
			}
			code := errors.GetCode(err)
			if code != errors.ErrCodeInvalidConfig && code != errors.ErrCodeInvalidRepository {
				t.Errorf("code = %q for %v", code, err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("explicit missing file should fail")
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("DEPMGMT_A", "x")
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"${env.DEPMGMT_A}/y", "x/y"},
		{"${env.DEPMGMT_UNSET_VAR}", ""},
		{"${project.version}", "${project.version}"},
	}
	for _, tt := range tests {
		if got := ExpandEnv(tt.in); got != tt.want {
			t.Errorf("ExpandEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse("[serve]\naddr = \":9000\"\n")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Serve.Addr != ":9000" {
		t.Errorf("Serve.Addr = %q", cfg.Serve.Addr)
	}
}

func TestCacheKeyer(t *testing.T) {
	t.Setenv("DEPMGMT_ENV", "ci")
	const url, path = "https://repo.example/maven2", "g/a/1/a-1.pom"

	cfg, err := Parse("[cache]\nprefix = \"depmgmt:${env.DEPMGMT_ENV}:\"\n")
	if err != nil {
		t.Fatal(err)
	}
	want := "depmgmt:ci:" + cache.NewDefaultKeyer().ArtifactKey(url, path)
	if got := cfg.CacheKeyer().ArtifactKey(url, path); got != want {
		t.Errorf("scoped key = %q, want %q", got, want)
	}

	if got := Default().CacheKeyer().ArtifactKey(url, path); got != cache.NewDefaultKeyer().ArtifactKey(url, path) {
		t.Errorf("default key = %q, want unscoped", got)
	}
}
