package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of a file fetched from a repository.
	ArtifactKey(repositoryURL, path string) string
}

// DefaultKeyer keys a repository file by the SHA-256 of its normalized URL.
// Scheme and host are compared case-insensitively, credentials embedded in
// the URL are ignored and a trailing slash on the repository URL is dropped,
// so "https://Repo.example/maven2/" and "https://repo.example/maven2" share
// entries.
//
// Prefix scopes the keys of one installation on a shared redis or mongo
// backend.
type DefaultKeyer struct {
	Prefix string
}

// NewDefaultKeyer creates an unscoped keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// NewScopedKeyer creates a keyer whose keys start with prefix.
//
//	keyer := cache.NewScopedKeyer("depmgmt:ci:")
func NewScopedKeyer(prefix string) Keyer {
	return DefaultKeyer{Prefix: prefix}
}

// ArtifactKey returns "<prefix>artifact:<sha256>".
func (k DefaultKeyer) ArtifactKey(repositoryURL, path string) string {
	return k.Prefix + "artifact:" + sha256Hex(normalizeURL(repositoryURL)+"/"+strings.TrimLeft(path, "/"))
}

func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.TrimRight(raw, "/")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.User = nil
	return strings.TrimRight(u.String(), "/")
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
