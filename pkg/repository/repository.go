// Package repository manages the remote Maven repositories a resolution may
// consult.
//
// # Registry
//
// A [Registry] is an ordered, deduplicated list of [Endpoint] values.
// Registration is idempotent by id and never reorders: endpoints registered
// earlier are tried first when fetching.
//
//	reg := repository.NewRegistry()        // central only
//	reg.Register(repository.Endpoint{ID: "corp", URL: "https://repo.corp/maven2"})
//	for _, ep := range reg.Snapshot() {
//	    fmt.Println(ep.ID, ep.URL)
//	}
//
// Registries are copy-on-write. [Registry.Derive] returns a registry that
// shares the current sequence and owns a private copy of the id set, so
// repositories discovered while resolving one parent chain never leak into
// another resolution.
//
// # Mirrors and Servers
//
// A [Selector] rewrites endpoints to mirrors using Maven's mirrorOf syntax,
// and [Servers] supplies credentials by endpoint id. Both are applied at fetch
// time by the artifact fetcher.
package repository

import (
	"strings"

	"github.com/jtripath/maven-dependency-management-extension/pkg/errors"
	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
)

// Layouts understood by the artifact fetcher.
const (
	LayoutDefault = "default"
	LayoutLegacy  = "legacy"
)

// CentralURL is the location of the default repository.
const CentralURL = "http://repo.maven.apache.org/maven2"

// Central is the repository installed when nothing else is configured.
var Central = Endpoint{ID: "central", Layout: LayoutDefault, URL: CentralURL}

// Endpoint is a remote repository. Identity is ID.
type Endpoint struct {
	ID     string `toml:"id" json:"id"`
	Layout string `toml:"layout" json:"layout,omitempty"`
	URL    string `toml:"url" json:"url"`

	// NoReleases and NoSnapshots disable the corresponding version kinds.
	NoReleases  bool `toml:"no_releases" json:"no_releases,omitempty"`
	NoSnapshots bool `toml:"no_snapshots" json:"no_snapshots,omitempty"`
}

// Allows reports whether the endpoint serves snapshot (or release) versions.
func (e Endpoint) Allows(snapshot bool) bool {
	if snapshot {
		return !e.NoSnapshots
	}
	return !e.NoReleases
}

// Validate checks that the endpoint has an id and a supported URL.
func (e Endpoint) Validate() error {
	if e.ID == "" {
		return errors.New(errors.ErrCodeInvalidRepository, "repository id cannot be empty (url %q)", e.URL)
	}
	if err := errors.ValidateRepositoryURL(e.URL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRepository, err, "repository %s", e.ID)
	}
	switch e.Layout {
	case "", LayoutDefault, LayoutLegacy:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidRepository, "repository %s: unsupported layout %q", e.ID, e.Layout)
}

// IsLocal reports whether the endpoint points at the local machine.
// Used by the "external:*" mirror pattern.
func (e Endpoint) IsLocal() bool {
	u := strings.ToLower(e.URL)
	if strings.HasPrefix(u, "file:") {
		return true
	}
	host := u
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/"); i >= 0 {
		host = host[:i]
	}
	if i := strings.LastIndex(host, "@"); i >= 0 {
		host = host[i+1:]
	}
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.HasSuffix(host, "]") {
		host = host[:i]
	}
	return host == "localhost" || host == "127.0.0.1" || host == "[::1]"
}

// FromPOM converts an inline <repository> declaration into an endpoint.
// The layout defaults to "default".
func FromPOM(r pom.Repository) (Endpoint, error) {
	ep := Endpoint{
		ID:          strings.TrimSpace(r.ID),
		Layout:      strings.TrimSpace(r.Layout),
		URL:         strings.TrimSpace(r.URL),
		NoReleases:  !r.Releases.IsEnabled(),
		NoSnapshots: !r.Snapshots.IsEnabled(),
	}
	if ep.Layout == "" {
		ep.Layout = LayoutDefault
	}
	if err := ep.Validate(); err != nil {
		return Endpoint{}, err
	}
	return ep, nil
}
