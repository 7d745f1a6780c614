// Package effective answers version override queries for a coordinate.
//
// A [Service] fetches the POM of a groupId:artifactId:version coordinate,
// builds its effective model and extracts the dependencyManagement or
// pluginManagement versions:
//
//	svc, err := effective.New(effective.Config{
//	    Repositories: []repository.Endpoint{repository.Central},
//	    Fetcher:      fetcher,
//	})
//	deps, err := svc.DependencyOverrides(ctx, "org.example:parent:1.0")
//	// {"commons-lang:commons-lang": "2.6", "junit:junit": "4.12"}
//
// Every call starts from the configured repositories; repositories declared
// inside fetched POMs never leak into later calls.
package effective

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/jtripath/maven-dependency-management-extension/pkg/artifact"
	"github.com/jtripath/maven-dependency-management-extension/pkg/errors"
	"github.com/jtripath/maven-dependency-management-extension/pkg/model"
	"github.com/jtripath/maven-dependency-management-extension/pkg/observability"
	"github.com/jtripath/maven-dependency-management-extension/pkg/overrides"
	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
	"github.com/jtripath/maven-dependency-management-extension/pkg/repository"
)

// Resolution kinds reported to [observability.ResolveHooks].
const (
	KindDependencies = "dependencies"
	KindPlugins      = "plugins"
	KindModel        = "model"
)

// Config configures a [Service].
type Config struct {
	// Repositories are searched in order. Empty means central only.
	Repositories []repository.Endpoint

	// Fetcher downloads descriptors. Required.
	Fetcher model.Fetcher

	// Builder merges models. Nil uses a builder sharing Logger.
	Builder *model.Builder

	// SystemProperties are added to the environment (as env.*) and the Go
	// runtime properties; they win over both.
	SystemProperties map[string]string

	// UserProperties take precedence over model properties, like -D on a
	// Maven command line.
	UserProperties map[string]string

	Logger *log.Logger

	// Hooks receives resolution events. Nil uses [observability.Resolve].
	Hooks observability.ResolveHooks
}

// Service resolves effective models and their override tables. Calls are
// serialized; concurrent calls for the same coordinate share one resolution
// and its result.
type Service struct {
	repos   []repository.Endpoint
	fetcher model.Fetcher
	builder *model.Builder
	sysProp map[string]string
	usrProp map[string]string
	logger  *log.Logger
	hooks   observability.ResolveHooks

	mu    sync.Mutex
	group singleflight.Group
}

// New validates cfg and creates a service.
func New(cfg Config) (*Service, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "effective: a fetcher is required")
	}
	for _, ep := range cfg.Repositories {
		if err := ep.Validate(); err != nil {
			return nil, err
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	builder := cfg.Builder
	if builder == nil {
		builder = model.NewBuilder(logger)
	}
	return &Service{
		repos:   append([]repository.Endpoint(nil), cfg.Repositories...),
		fetcher: cfg.Fetcher,
		builder: builder,
		sysProp: SystemProperties(cfg.SystemProperties),
		usrProp: cfg.UserProperties,
		logger:  logger,
		hooks:   cfg.Hooks,
	}, nil
}

func (s *Service) ready() bool {
	return s != nil && s.fetcher != nil && s.builder != nil
}

func (s *Service) observer() observability.ResolveHooks {
	if s.hooks != nil {
		return s.hooks
	}
	return observability.Resolve()
}

// Repositories returns the configured repositories, or central when none
// were configured.
func (s *Service) Repositories() []repository.Endpoint {
	if !s.ready() {
		return nil
	}
	return repository.NewRegistry(s.repos...).Snapshot()
}

// DependencyOverrides returns the dependencyManagement versions of the
// effective model of gav, keyed by groupId:artifactId.
func (s *Service) DependencyOverrides(ctx context.Context, gav string) (*overrides.Map, error) {
	return s.overrides(ctx, KindDependencies, gav, overrides.Dependencies)
}

// PluginOverrides returns the pluginManagement versions of the effective
// model of gav, keyed by groupId:artifactId. The effective model always
// includes the plugin versions pinned by the super POM.
func (s *Service) PluginOverrides(ctx context.Context, gav string) (*overrides.Map, error) {
	return s.overrides(ctx, KindPlugins, gav, overrides.Plugins)
}

func (s *Service) overrides(ctx context.Context, kind, gav string, extract func(*pom.Model) *overrides.Map) (*overrides.Map, error) {
	if !s.ready() {
		return nil, errors.ErrNotInitialized
	}
	hooks := s.observer()
	start := time.Now()
	hooks.OnResolveStart(ctx, kind, gav)

	res, err := s.resolve(ctx, gav)
	var out *overrides.Map
	if err == nil {
		out = extract(res.Effective)
	}
	hooks.OnResolveComplete(ctx, kind, gav, out.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EffectiveModel fetches the POM of gav and builds its effective model.
func (s *Service) EffectiveModel(ctx context.Context, gav string) (*model.Result, error) {
	if !s.ready() {
		return nil, errors.ErrNotInitialized
	}
	hooks := s.observer()
	start := time.Now()
	hooks.OnResolveStart(ctx, KindModel, gav)
	res, err := s.resolve(ctx, gav)
	hooks.OnResolveComplete(ctx, KindModel, gav, 0, time.Since(start), err)
	return res, err
}

// resolve coalesces concurrent requests for the same coordinate. The shared
// resolution runs detached from any single caller's cancellation; each caller
// stops waiting when its own ctx is done. The shared result must be treated
// as read-only.
func (s *Service) resolve(ctx context.Context, gav string) (*model.Result, error) {
	c, err := artifact.ParseGAV(gav)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(c.GAV(), func() (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.resolveLocked(shared, c)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Shared {
			s.logger.Debug("shared in-flight resolution", "gav", c.GAV())
		}
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*model.Result), nil
	}
}

func (s *Service) resolveLocked(ctx context.Context, c artifact.Coordinate) (*model.Result, error) {
	logger := s.logger.With("session", uuid.NewString(), "gav", c.GAV())
	logger.Debug("resolving effective model", "repositories", len(s.repos))

	resolver := model.NewResolver(s.fetcher, repository.NewRegistry(s.repos...), logger)
	src, err := resolver.ResolveModel(ctx, c.GroupID, c.ArtifactID, c.Version)
	if err != nil {
		return nil, err
	}
	res, err := s.BuildEffectiveModel(ctx, src.Location(), resolver)
	if err != nil {
		return nil, err
	}
	for _, p := range res.Problems {
		logger.Warn(p.Message, "source", p.Source)
	}
	logger.Debug("built effective model", "model", res.Effective.ID(), "lineage", len(res.Lineage))
	return res, nil
}

// BuildEffectiveModel builds the effective model of the POM at path with
// Maven 3.0 validation. Errors from the builder are returned unchanged.
func (s *Service) BuildEffectiveModel(ctx context.Context, path string, resolver model.ModelResolver) (*model.Result, error) {
	if !s.ready() {
		return nil, errors.ErrNotInitialized
	}
	return s.builder.Build(ctx, model.Request{
		POMFile:          path,
		Resolver:         resolver,
		Validation:       model.ValidationMaven30,
		SystemProperties: s.sysProp,
		UserProperties:   s.usrProp,
	})
}
