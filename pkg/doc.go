// Package pkg provides the libraries behind depmgmt, a resolver for Maven
// effective POMs and the version overrides they manage.
//
// # Overview
//
// Given a coordinate such as "org.example:parent:1.0", depmgmt downloads the
// POM, follows its parent chain, merges imported bills of materials and
// interpolates properties. The resulting effective model yields two override
// tables: managed dependency versions and managed plugin versions, both keyed
// by "groupId:artifactId".
//
// # Architecture
//
// The typical data flow:
//
//	groupId:artifactId:version
//	         ↓
//	    [artifact] package (local repository, then remote repositories)
//	         ↓
//	    [model] package (parent chain, BOM imports, profiles, interpolation)
//	         ↓
//	    [overrides] package (ordered groupId:artifactId → version tables)
//
// [effective] ties these together behind one service.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/jtripath/maven-dependency-management-extension/pkg/artifact"
//	    "github.com/jtripath/maven-dependency-management-extension/pkg/effective"
//	)
//
//	fetcher, _ := artifact.NewFetcher(artifact.Options{})
//	svc, _ := effective.New(effective.Config{Fetcher: fetcher})
//
//	deps, err := svc.DependencyOverrides(context.Background(), "org.example:parent:1.0")
//	if err != nil {
//	    return err
//	}
//	for _, key := range deps.Keys() {
//	    v, _ := deps.Get(key)
//	    fmt.Printf("%s=%s\n", key, v)
//	}
//
// # Main Packages
//
// ## Domain Logic
//
// [pom] - The pom.xml object model with ordered properties, parsing and
// writing.
//
// [model] - Model resolution and the effective model builder: inheritance,
// profile activation, interpolation, BOM import and validation.
//
// [overrides] - Ordered version tables extracted from an effective model.
//
// [effective] - The resolution service used by the CLI and the HTTP API.
//
// [lineage] - Graphviz diagrams of a parent chain and its imports.
//
// ## Repositories
//
// [repository] - Remote repository endpoints, copy-on-write registries,
// mirrors and credentials.
//
// [artifact] - Coordinates, repository layouts and the fetcher that fills the
// local repository.
//
// ## Infrastructure
//
// [integrations] - HTTP client with retries, plus the http(s) and s3
// repository transports.
//
// [cache] - Response cache backends: file, Redis, MongoDB and a no-op cache.
//
// [config] - TOML configuration with ${env.NAME} expansion.
//
// [observability] - Hook interfaces for resolve, fetch, cache and HTTP events.
//
// [errors] - Error codes and typed resolution errors.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/model/...              # Specific package
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB backends
//
// [pom]: https://pkg.go.dev/github.com/jtripath/maven-dependency-management-extension/pkg/pom
// [model]: https://pkg.go.dev/github.com/jtripath/maven-dependency-management-extension/pkg/model
// [overrides]: https://pkg.go.dev/github.com/jtripath/maven-dependency-management-extension/pkg/overrides
// [effective]: https://pkg.go.dev/github.com/jtripath/maven-dependency-management-extension/pkg/effective
// [lineage]: https://pkg.go.dev/github.com/jtripath/maven-dependency-management-extension/pkg/lineage
// [repository]: https://pkg.go.dev/github.com/jtripath/maven-dependency-management-extension/pkg/repository
// [artifact]: https://pkg.go.dev/github.com/jtripath/maven-dependency-management-extension/pkg/artifact
// [integrations]: https://pkg.go.dev/github.com/jtripath/maven-dependency-management-extension/pkg/integrations
// [cache]: https://pkg.go.dev/github.com/jtripath/maven-dependency-management-extension/pkg/cache
// [config]: https://pkg.go.dev/github.com/jtripath/maven-dependency-management-extension/pkg/config
// [observability]: https://pkg.go.dev/github.com/jtripath/maven-dependency-management-extension/pkg/observability
// [errors]: https://pkg.go.dev/github.com/jtripath/maven-dependency-management-extension/pkg/errors
package pkg
