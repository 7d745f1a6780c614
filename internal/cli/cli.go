package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jtripath/maven-dependency-management-extension/pkg/artifact"
	"github.com/jtripath/maven-dependency-management-extension/pkg/buildinfo"
	"github.com/jtripath/maven-dependency-management-extension/pkg/cache"
	"github.com/jtripath/maven-dependency-management-extension/pkg/config"
	"github.com/jtripath/maven-dependency-management-extension/pkg/effective"
	deperrors "github.com/jtripath/maven-dependency-management-extension/pkg/errors"
	"github.com/jtripath/maven-dependency-management-extension/pkg/integrations"
	"github.com/jtripath/maven-dependency-management-extension/pkg/integrations/maven"
	"github.com/jtripath/maven-dependency-management-extension/pkg/integrations/s3"
	"github.com/jtripath/maven-dependency-management-extension/pkg/repository"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "depmgmt"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	repos      []string
	defines    []string
	offline    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "depmgmt resolves effective POMs and their version overrides",
		Long:         `depmgmt resolves a Maven coordinate to its effective POM, following the parent chain and imported BOMs, and reports the managed dependency and plugin versions as override tables.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/depmgmt/config.toml)")
	flags.StringArrayVar(&c.repos, "repo", nil, "remote repository as id=url (repeatable, replaces configured repositories)")
	flags.StringArrayVarP(&c.defines, "define", "D", nil, "system property as key=value (repeatable)")
	flags.BoolVar(&c.offline, "offline", false, "use the local repository only")

	root.AddCommand(c.overridesCommand())
	root.AddCommand(c.effectiveCommand())
	root.AddCommand(c.lineageCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Service Factory
// =============================================================================

// loadConfig reads the config file and applies the global flags on top.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.offline {
		cfg.Offline = true
	}
	if len(c.repos) > 0 {
		repos, err := parseRepos(c.repos)
		if err != nil {
			return nil, err
		}
		cfg.Repositories = repos
	}
	props, err := parseDefines(c.defines)
	if err != nil {
		return nil, err
	}
	if len(props) > 0 {
		if cfg.Properties == nil {
			cfg.Properties = make(map[string]string, len(props))
		}
		maps.Copy(cfg.Properties, props)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session bundles a service with the resources its caller must release.
type session struct {
	cfg     *config.Config
	service *effective.Service
	cache   cache.Cache
}

// Close releases the response cache.
func (s *session) Close() error {
	return s.cache.Close()
}

// newSession wires config, cache, transports and fetcher into a service.
func (c *CLI) newSession(ctx context.Context) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	respCache, err := cache.Open(ctx, cfg.CacheOptions())
	if err != nil {
		c.Logger.Warn("response cache disabled", "backend", cfg.Cache.Backend, "error", err)
		respCache = cache.Unavailable(err)
	}

	mirrors, err := cfg.Selector()
	if err != nil {
		respCache.Close()
		return nil, err
	}

	httpClient := integrations.NewClient(integrations.Options{
		Timeout:   cfg.HTTP.Timeout,
		UserAgent: cfg.HTTP.UserAgent,
		Retries:   cfg.HTTP.Retries,
	})
	remote := maven.NewClient(httpClient, repository.NewServers(cfg.Servers...))

	fetcher, err := artifact.NewFetcher(artifact.Options{
		LocalRepository: cfg.LocalRepository,
		Offline:         cfg.Offline,
		Transports: map[string]artifact.Transport{
			"http":  remote,
			"https": remote,
			"s3":    s3.NewLazy(),
		},
		Mirrors:  mirrors,
		Cache:    respCache,
		Keyer:    cfg.CacheKeyer(),
		CacheTTL: cfg.Cache.TTL,
		Logger:   c.Logger,
	})
	if err != nil {
		respCache.Close()
		return nil, err
	}

	svc, err := effective.New(effective.Config{
		Repositories:     cfg.Repositories,
		Fetcher:          fetcher,
		SystemProperties: cfg.Properties,
		Logger:           c.Logger,
	})
	if err != nil {
		respCache.Close()
		return nil, err
	}

	c.Logger.Debug("session ready",
		"local", fetcher.LocalRepository(),
		"offline", cfg.Offline,
		"cache", cfg.Cache.Backend)

	return &session{cfg: cfg, service: svc, cache: respCache}, nil
}

// parseRepos converts id=url flag values to endpoints.
func parseRepos(values []string) ([]repository.Endpoint, error) {
	out := make([]repository.Endpoint, 0, len(values))
	for _, v := range values {
		id, url, ok := strings.Cut(v, "=")
		if !ok || id == "" || url == "" {
			return nil, deperrors.New(deperrors.ErrCodeInvalidRepository, "--repo %q: expected id=url", v)
		}
		ep := repository.Endpoint{ID: id, URL: url, Layout: repository.LayoutDefault}
		if err := ep.Validate(); err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, nil
}

// parseDefines converts key=value flag values to properties. A bare key is
// set to "true", as Maven does.
func parseDefines(values []string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for _, v := range values {
		k, val, ok := strings.Cut(v, "=")
		if k == "" {
			return nil, deperrors.New(deperrors.ErrCodeInvalidConfig, "-D %q: empty property name", v)
		}
		if !ok {
			val = "true"
		}
		out[k] = val
	}
	return out, nil
}

// =============================================================================
// Paths
// =============================================================================

// responseCacheDir returns the directory of the file cache backend.
func (c *CLI) responseCacheDir() (string, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Cache.Dir == "" {
		return "", fmt.Errorf("get cache dir: %w", os.ErrNotExist)
	}
	return cfg.Cache.Dir, nil
}
