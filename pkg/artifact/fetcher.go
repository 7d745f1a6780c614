package artifact

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jtripath/maven-dependency-management-extension/pkg/cache"
	deperrors "github.com/jtripath/maven-dependency-management-extension/pkg/errors"
	"github.com/jtripath/maven-dependency-management-extension/pkg/integrations"
	"github.com/jtripath/maven-dependency-management-extension/pkg/observability"
	"github.com/jtripath/maven-dependency-management-extension/pkg/repository"
)

// ErrOffline is the cause recorded when a file is missing locally and remote
// access is disabled.
var ErrOffline = errors.New("offline mode: remote repositories disabled")

// errNoRepositories is the cause recorded for an empty repository list.
var errNoRepositories = errors.New("no remote repositories")

// Result is a file resolved into the local repository.
type Result struct {
	Coordinate Coordinate

	// Path is the absolute path of the file in the local repository.
	Path string

	// Repository is the id of the endpoint that served the file; empty when
	// the file was already present locally.
	Repository string
}

// Options configures a [Fetcher].
type Options struct {
	// LocalRepository is the directory files are stored in. Defaults to
	// ~/.m2/repository.
	LocalRepository string

	// Offline disables remote repositories.
	Offline bool

	// Transports by URL scheme ("http", "https", "file", "s3"). A "file"
	// transport is installed when missing.
	Transports map[string]Transport

	// Mirrors rewrites endpoints before they are tried.
	Mirrors *repository.Selector

	// Cache holds raw responses keyed by repository URL and path. Nil or a
	// [cache.NullCache] disables it.
	Cache    cache.Cache
	Keyer    cache.Keyer
	CacheTTL time.Duration

	Logger *log.Logger
}

// Fetcher resolves coordinates to files using a local repository and an
// ordered list of remote repositories.
//
// Fetch is safe for concurrent use as long as the configured transports and
// cache are.
type Fetcher struct {
	local      string
	offline    bool
	transports map[string]Transport
	mirrors    *repository.Selector
	cache      cache.Cache
	keyer      cache.Keyer
	ttl        time.Duration
	logger     *log.Logger
}

// NewFetcher creates a fetcher.
func NewFetcher(opts Options) (*Fetcher, error) {
	local := opts.LocalRepository
	if local == "" {
		var err error
		if local, err = DefaultLocalRepository(); err != nil {
			return nil, err
		}
	}
	local, err := filepath.Abs(local)
	if err != nil {
		return nil, fmt.Errorf("local repository: %w", err)
	}

	transports := make(map[string]Transport, len(opts.Transports)+1)
	for scheme, t := range opts.Transports {
		transports[scheme] = t
	}
	if _, ok := transports["file"]; !ok {
		transports["file"] = FileTransport{}
	}

	keyer := opts.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	respCache := opts.Cache
	if !cache.Enabled(respCache) {
		respCache = nil
	}

	return &Fetcher{
		local:      local,
		offline:    opts.Offline,
		transports: transports,
		mirrors:    opts.Mirrors,
		cache:      respCache,
		keyer:      keyer,
		ttl:        opts.CacheTTL,
		logger:     logger,
	}, nil
}

// DefaultLocalRepository returns ~/.m2/repository.
func DefaultLocalRepository() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".m2", "repository"), nil
}

// LocalRepository returns the absolute local repository directory.
func (f *Fetcher) LocalRepository() string { return f.local }

// Fetch resolves c. A file already in the local repository is returned
// without remote traffic. Otherwise repos are tried in order, after mirrors
// are applied, and the first success is stored locally and returned.
//
// When no repository yields the file the error is an
// [*deperrors.UnresolvableArtifactError] whose Cause is the last failure and
// whose Failures lists every attempt.
func (f *Fetcher) Fetch(ctx context.Context, c Coordinate, repos []repository.Endpoint) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rel, err := Path(LayoutDefault, c)
	if err != nil {
		return nil, err
	}
	localPath := filepath.Join(f.local, filepath.FromSlash(rel))

	if _, err := os.Stat(localPath); err == nil {
		f.logger.Debug("local repository hit", "artifact", c.String())
		observability.Fetch().OnLocalHit(ctx, c.String())
		return &Result{Coordinate: c, Path: localPath}, nil
	}

	if f.offline {
		return nil, f.unresolvable(c, ErrOffline, nil)
	}

	var (
		failures []deperrors.RepositoryFailure
		lastErr  error
	)
	for _, ep := range f.mirrors.Apply(repos) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !ep.Allows(c.IsSnapshot()) {
			f.logger.Debug("repository policy excludes version", "repository", ep.ID, "artifact", c.String())
			continue
		}

		start := time.Now()
		data, err := f.fetchFrom(ctx, ep, c)
		observability.Fetch().OnFetch(ctx, ep.ID, c.String(), time.Since(start), err)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.logger.Debug("repository miss", "repository", ep.ID, "artifact", c.String(), "err", err)
			lastErr = err
			failures = append(failures, deperrors.RepositoryFailure{RepositoryID: ep.ID, URL: ep.URL, Err: err})
			continue
		}

		if err := writeFile(localPath, data); err != nil {
			return nil, deperrors.Wrap(deperrors.ErrCodeInternal, err, "store %s in local repository", c)
		}
		f.logger.Debug("downloaded", "artifact", c.String(), "repository", ep.ID, "bytes", len(data))
		return &Result{Coordinate: c, Path: localPath, Repository: ep.ID}, nil
	}

	if lastErr == nil {
		lastErr = errNoRepositories
	}
	return nil, f.unresolvable(c, lastErr, failures)
}

// fetchFrom downloads c from one endpoint, consulting the response cache first.
func (f *Fetcher) fetchFrom(ctx context.Context, ep repository.Endpoint, c Coordinate) ([]byte, error) {
	rel, err := Path(ep.Layout, c)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(ep.URL)
	if err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeInvalidRepository, err, "repository %s", ep.ID)
	}
	t, ok := f.transports[u.Scheme]
	if !ok {
		return nil, deperrors.New(deperrors.ErrCodeInvalidRepository, "repository %s: no transport for scheme %q", ep.ID, u.Scheme)
	}

	var key string
	if f.cache != nil && u.Scheme != "file" {
		key = f.keyer.ArtifactKey(ep.URL, rel)
		data, hit, err := f.cache.Get(ctx, key)
		switch {
		case err != nil:
			f.logger.Warn("cache read failed", "err", err)
		case hit:
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, nil
		default:
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
	}

	data, err := t.Get(ctx, ep, rel)
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%s not found: %w", rel, err)
		}
		return nil, err
	}

	if key != "" {
		if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
			f.logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return data, nil
}

func (f *Fetcher) unresolvable(c Coordinate, cause error, failures []deperrors.RepositoryFailure) error {
	return &deperrors.UnresolvableArtifactError{
		Coordinate: c.GAV(),
		Extension:  c.Extension,
		Cause:      cause,
		Failures:   failures,
	}
}

// writeFile stores data at path via a temporary file so readers never see a
// partial descriptor.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
