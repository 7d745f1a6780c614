// Package integrations provides the clients that download files from remote
// Maven repositories.
//
// # Overview
//
// Each repository protocol has its own subpackage:
//
//   - [maven]: http and https repositories
//   - [s3]: repositories stored in an S3 bucket
//
// Both return [ErrNotFound] when the repository does not hold a file, so the
// artifact fetcher can move on to the next repository.
//
// # Shared Infrastructure
//
// The [Client] type provides the HTTP plumbing used by [maven]: default
// headers, basic auth from [Credentials], status mapping and retry of
// transient failures through [httputil.Retry].
//
//	client := integrations.NewClient(integrations.Options{Retries: 2})
//	data, err := client.GetBytes(ctx, url, nil)
//	if errors.Is(err, integrations.ErrNotFound) {
//	    // try the next repository
//	}
//
// [maven]: github.com/jtripath/maven-dependency-management-extension/pkg/integrations/maven
// [s3]: github.com/jtripath/maven-dependency-management-extension/pkg/integrations/s3
// [httputil.Retry]: github.com/jtripath/maven-dependency-management-extension/pkg/httputil.Retry
package integrations
