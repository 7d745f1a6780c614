// Package s3 downloads repository files from Amazon S3 (or any S3-compatible
// store).
//
// A repository URL of the form
//
//	s3://bucket/prefix
//
// maps a repository-relative path "org/example/a/1.0/a-1.0.pom" to the object
// key "prefix/org/example/a/1.0/a-1.0.pom" in bucket. Credentials and region
// come from the standard AWS configuration chain (environment, shared config,
// instance role).
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/jtripath/maven-dependency-management-extension/pkg/integrations"
	"github.com/jtripath/maven-dependency-management-extension/pkg/repository"
)

// API is the subset of the S3 client used here.
type API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Client fetches files from s3:// repositories.
type Client struct {
	api API
}

// NewClient creates a client from the default AWS configuration.
func NewClient(ctx context.Context) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Client{api: s3.NewFromConfig(cfg)}, nil
}

// NewClientFromAPI wraps an existing S3 API implementation.
func NewClientFromAPI(api API) *Client {
	return &Client{api: api}
}

// Get downloads path from the repository ep. A missing object maps to
// [integrations.ErrNotFound].
func (c *Client) Get(ctx context.Context, ep repository.Endpoint, path string) ([]byte, error) {
	bucket, key, err := ObjectKey(ep.URL, path)
	if err != nil {
		return nil, err
	}

	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, integrations.ErrNotFound
		}
		return nil, fmt.Errorf("%w: s3://%s/%s: %v", integrations.ErrNetwork, bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read s3://%s/%s: %v", integrations.ErrNetwork, bucket, key, err)
	}
	return data, nil
}

// ObjectKey splits an s3:// repository URL and a repository path into bucket
// and object key.
func ObjectKey(repoURL, path string) (bucket, key string, err error) {
	u, err := url.Parse(repoURL)
	if err != nil {
		return "", "", fmt.Errorf("parse repository url: %w", err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("not an s3 repository url: %q", repoURL)
	}
	prefix := strings.Trim(u.Path, "/")
	key = strings.TrimPrefix(path, "/")
	if prefix != "" {
		key = prefix + "/" + key
	}
	return u.Host, key, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}

// Lazy defers loading the AWS configuration until the first download, so
// installations without s3 repositories never touch the AWS credential chain.
type Lazy struct {
	once   sync.Once
	client *Client
	err    error
}

// NewLazy creates a lazily initialised client.
func NewLazy() *Lazy {
	return &Lazy{}
}

// Get downloads path from ep, creating the underlying client on first use.
func (l *Lazy) Get(ctx context.Context, ep repository.Endpoint, path string) ([]byte, error) {
	l.once.Do(func() {
		l.client, l.err = NewClient(ctx)
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.client.Get(ctx, ep, path)
}
