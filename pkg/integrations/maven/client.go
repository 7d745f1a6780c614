package maven

import (
	"context"

	"github.com/jtripath/maven-dependency-management-extension/pkg/integrations"
	"github.com/jtripath/maven-dependency-management-extension/pkg/repository"
)

// Client downloads files from http and https repositories.
type Client struct {
	http    *integrations.Client
	servers repository.Servers
}

// NewClient creates a client. servers supplies credentials by repository id
// and may be nil.
func NewClient(http *integrations.Client, servers repository.Servers) *Client {
	if http == nil {
		http = integrations.NewClient(integrations.Options{})
	}
	return &Client{http: http, servers: servers}
}

// Get downloads path relative to the repository root of ep.
func (c *Client) Get(ctx context.Context, ep repository.Endpoint, path string) ([]byte, error) {
	return c.http.GetBytes(ctx, URL(ep, path), c.credentials(ep))
}

// URL returns the absolute URL of path in ep.
func URL(ep repository.Endpoint, path string) string {
	return integrations.JoinURL(ep.URL, path)
}

func (c *Client) credentials(ep repository.Endpoint) *integrations.Credentials {
	srv, ok := c.servers.For(ep)
	if !ok {
		return nil
	}
	return &integrations.Credentials{
		Username: srv.Username,
		Password: srv.Password,
		Headers:  srv.Headers,
	}
}
