// Package config loads the depmgmt configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/depmgmt/config.toml
// (~/.config/depmgmt/config.toml when XDG_CONFIG_HOME is unset):
//
//	local_repository = "${env.HOME}/.m2/repository"
//	offline = false
//
//	[[repositories]]
//	id = "corp"
//	url = "https://repo.corp.example/maven2"
//
//	[[mirrors]]
//	id = "proxy"
//	url = "https://proxy.corp.example/maven2"
//	mirror_of = "external:*"
//
//	[[servers]]
//	id = "proxy"
//	username = "ci"
//	password = "${env.PROXY_TOKEN}"
//
//	[properties]
//	"java.version" = "17"
//
//	[http]
//	timeout = "30s"
//	retries = 2
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//	redis_addr = "localhost:6379"
//	prefix = "depmgmt:ci:"
//
// ${env.NAME} in any string value is replaced by the environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jtripath/maven-dependency-management-extension/pkg/buildinfo"
	"github.com/jtripath/maven-dependency-management-extension/pkg/cache"
	"github.com/jtripath/maven-dependency-management-extension/pkg/errors"
	"github.com/jtripath/maven-dependency-management-extension/pkg/repository"
)

const appName = "depmgmt"

// Config is the file configuration. Command-line flags are applied on top
// by the CLI.
type Config struct {
	// LocalRepository defaults to ~/.m2/repository.
	LocalRepository string `toml:"local_repository"`
	Offline         bool   `toml:"offline"`

	// Repositories are searched in order. Empty means central only.
	Repositories []repository.Endpoint `toml:"repositories"`
	Mirrors      []repository.Mirror   `toml:"mirrors"`
	Servers      []repository.Server   `toml:"servers"`

	// Properties are system properties for interpolation and profile
	// activation.
	Properties map[string]string `toml:"properties"`

	HTTP  HTTP  `toml:"http"`
	Cache Cache `toml:"cache"`
	Serve Serve `toml:"serve"`
}

// HTTP configures the repository client.
type HTTP struct {
	Timeout time.Duration `toml:"timeout"`

	// Retries re-sends a request after a transient failure. The default of
	// zero makes one attempt per repository.
	Retries   int    `toml:"retries"`
	UserAgent string `toml:"user_agent"`
}

// Cache selects the response cache backend.
type Cache struct {
	// Backend is "file", "redis", "mongo" or "none".
	Backend string        `toml:"backend"`
	TTL     time.Duration `toml:"ttl"`
	Dir     string        `toml:"dir"`

	// Prefix scopes keys on a redis or mongo backend shared by several
	// installations.
	Prefix string `toml:"prefix"`

	RedisAddr       string `toml:"redis_addr"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Serve configures the HTTP API.
type Serve struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		HTTP: HTTP{
			Timeout:   30 * time.Second,
			UserAgent: buildinfo.UserAgent(),
		},
		Cache: Cache{
			Backend:         cache.BackendFile,
			TTL:             24 * time.Hour,
			MongoDatabase:   appName,
			MongoCollection: "responses",
		},
		Serve: Serve{Addr: ":8080"},
	}
}

// DefaultPath returns the XDG location of the configuration file.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the XDG cache directory (~/.cache/depmgmt/).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the file at path over [Default]. An empty path means
// [DefaultPath], which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return Default(), nil
		}
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			if err := cfg.finish(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.finish(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration text over [Default].
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	c.expandEnv()
	if c.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = filepath.Join(dir, "responses")
		}
	}
	return c.Validate()
}

// Validate checks repositories, mirrors and the cache backend.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Repositories))
	for i, ep := range c.Repositories {
		if ep.Layout == "" {
			c.Repositories[i].Layout = repository.LayoutDefault
		}
		if err := ep.Validate(); err != nil {
			return err
		}
		if seen[ep.ID] {
			return errors.New(errors.ErrCodeInvalidConfig, "repository %q declared twice", ep.ID)
		}
		seen[ep.ID] = true
	}
	if _, err := repository.NewSelector(c.Mirrors...); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "mirrors")
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.HTTP.Retries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "http.retries must not be negative")
	}
	return nil
}

// Selector returns the mirror selector.
func (c *Config) Selector() (*repository.Selector, error) {
	return repository.NewSelector(c.Mirrors...)
}

// CacheOptions returns the options for [cache.Open].
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:         c.Cache.Backend,
		Dir:             c.Cache.Dir,
		RedisAddr:       c.Cache.RedisAddr,
		MongoURI:        c.Cache.MongoURI,
		MongoDatabase:   c.Cache.MongoDatabase,
		MongoCollection: c.Cache.MongoCollection,
	}
}

// CacheKeyer returns the keyer for the response cache, scoped by
// cache.prefix when set.
func (c *Config) CacheKeyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(c.Cache.Prefix)
}

var envPattern = regexp.MustCompile(`\$\{env\.([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnv replaces ${env.NAME} with the value of NAME. Unset variables
// expand to the empty string.
func ExpandEnv(s string) string {
	if !strings.Contains(s, "${env.") {
		return s
	}
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(envPattern.FindStringSubmatch(m)[1])
	})
}

func (c *Config) expandEnv() {
	c.LocalRepository = ExpandEnv(c.LocalRepository)
	for i := range c.Repositories {
		r := &c.Repositories[i]
		r.ID, r.URL = ExpandEnv(r.ID), ExpandEnv(r.URL)
	}
	for i := range c.Mirrors {
		m := &c.Mirrors[i]
		m.URL, m.MirrorOf = ExpandEnv(m.URL), ExpandEnv(m.MirrorOf)
	}
	for i := range c.Servers {
		s := &c.Servers[i]
		s.Username, s.Password = ExpandEnv(s.Username), ExpandEnv(s.Password)
		for k, v := range s.Headers {
			s.Headers[k] = ExpandEnv(v)
		}
	}
	for k, v := range c.Properties {
		c.Properties[k] = ExpandEnv(v)
	}
	c.HTTP.UserAgent = ExpandEnv(c.HTTP.UserAgent)
	c.Cache.Dir = ExpandEnv(c.Cache.Dir)
	c.Cache.Prefix = ExpandEnv(c.Cache.Prefix)
	c.Cache.RedisAddr = ExpandEnv(c.Cache.RedisAddr)
	c.Cache.MongoURI = ExpandEnv(c.Cache.MongoURI)
}
