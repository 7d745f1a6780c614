// Package model builds effective POMs.
//
// A [Builder] reads a POM file, walks its parent chain, applies inheritance,
// active profiles and the super POM, interpolates ${...} expressions and
// imports bills of materials. Parent and BOM descriptors are obtained through
// a [ModelResolver]; [Resolver] is the implementation backed by an artifact
// fetcher and a repository registry.
//
//	resolver := model.NewResolver(fetcher, repository.NewRegistry(), logger)
//	src, err := resolver.ResolveModel(ctx, "org.example", "parent", "1.0")
//	...
//	res, err := model.NewBuilder(logger).Build(ctx, model.Request{
//	    POMFile:    src.Location(),
//	    Resolver:   resolver,
//	    Validation: model.ValidationMaven30,
//	})
//	fmt.Println(res.Effective.ManagedDependencies())
package model

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jtripath/maven-dependency-management-extension/pkg/artifact"
	"github.com/jtripath/maven-dependency-management-extension/pkg/errors"
	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
	"github.com/jtripath/maven-dependency-management-extension/pkg/repository"
)

// ModelResolver locates POMs on behalf of the [Builder].
type ModelResolver interface {
	// ResolveModel returns the descriptor of groupId:artifactId:version.
	ResolveModel(ctx context.Context, groupID, artifactID, version string) (Source, error)

	// AddRepository makes a repository declared in a POM available to later
	// ResolveModel calls. Adding an already known id is a no-op.
	AddRepository(repo pom.Repository) error

	// NewCopy returns a resolver with the same fetch configuration and an
	// independent set of known repositories.
	NewCopy() ModelResolver
}

// Fetcher resolves a coordinate against an ordered list of repositories.
// [*artifact.Fetcher] implements it.
type Fetcher interface {
	Fetch(ctx context.Context, c artifact.Coordinate, repos []repository.Endpoint) (*artifact.Result, error)
}

// Resolver is the [ModelResolver] backed by a [Fetcher] and a
// [repository.Registry].
type Resolver struct {
	fetcher  Fetcher
	registry *repository.Registry
	logger   *log.Logger
}

// NewResolver creates a resolver. A nil registry means central only.
func NewResolver(fetcher Fetcher, registry *repository.Registry, logger *log.Logger) *Resolver {
	if registry == nil {
		registry = repository.NewRegistry()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{fetcher: fetcher, registry: registry, logger: logger}
}

// ResolveModel fetches the POM of groupId:artifactId:version from the
// registered repositories. Failures are reported as
// [*errors.UnresolvableModelError]; a done ctx returns ctx.Err() as is.
func (r *Resolver) ResolveModel(ctx context.Context, groupID, artifactID, version string) (Source, error) {
	c := artifact.POM(groupID, artifactID, version)
	fail := func(cause error) error {
		return &errors.UnresolvableModelError{GroupID: groupID, ArtifactID: artifactID, Version: version, Cause: cause}
	}
	if err := c.Validate(); err != nil {
		return nil, fail(err)
	}

	res, err := r.fetcher.Fetch(ctx, c, r.registry.Snapshot())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fail(err)
	}
	r.logger.Debug("resolved descriptor", "gav", c.GAV(), "repository", res.Repository)
	return FileSource{Path: res.Path, Coordinate: c}, nil
}

// AddRepository registers an inline repository declaration. Known ids are
// ignored before the declaration is validated, so a repository redeclared at
// several levels of a parent chain is accepted once.
func (r *Resolver) AddRepository(repo pom.Repository) error {
	if r.registry.Has(strings.TrimSpace(repo.ID)) {
		return nil
	}
	ep, err := repository.FromPOM(repo)
	if err != nil {
		return err
	}
	if r.registry.Register(ep) {
		r.logger.Debug("added repository", "id", ep.ID, "url", ep.URL)
	}
	return nil
}

// NewCopy returns a resolver sharing the fetcher and a derived registry.
func (r *Resolver) NewCopy() ModelResolver {
	return &Resolver{fetcher: r.fetcher, registry: r.registry.Derive(), logger: r.logger}
}

// Repositories returns the repositories in priority order.
func (r *Resolver) Repositories() []repository.Endpoint {
	return r.registry.Snapshot()
}
