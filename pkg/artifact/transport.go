package artifact

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/jtripath/maven-dependency-management-extension/pkg/integrations"
	"github.com/jtripath/maven-dependency-management-extension/pkg/repository"
)

// Transport downloads a repository-relative path from an endpoint. A file the
// repository does not hold must be reported as [integrations.ErrNotFound].
type Transport interface {
	Get(ctx context.Context, ep repository.Endpoint, path string) ([]byte, error)
}

// TransportFunc adapts a function to [Transport].
type TransportFunc func(ctx context.Context, ep repository.Endpoint, path string) ([]byte, error)

// Get calls f.
func (f TransportFunc) Get(ctx context.Context, ep repository.Endpoint, path string) ([]byte, error) {
	return f(ctx, ep, path)
}

// FileTransport reads from file:// repositories.
type FileTransport struct{}

// Get reads path below the directory named by ep.URL.
func (FileTransport) Get(ctx context.Context, ep repository.Endpoint, path string) ([]byte, error) {
	u, err := url.Parse(ep.URL)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(filepath.FromSlash(u.Path), filepath.FromSlash(path)))
	if os.IsNotExist(err) {
		return nil, integrations.ErrNotFound
	}
	return data, err
}
