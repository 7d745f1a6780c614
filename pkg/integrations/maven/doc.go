// Package maven downloads files from Maven repositories served over http or
// https.
//
// # Usage
//
//	client := maven.NewClient(integrations.NewClient(integrations.Options{}), servers)
//	data, err := client.Get(ctx, repository.Central,
//	    "org/apache/commons/commons-lang3/3.14.0/commons-lang3-3.14.0.pom")
//	if errors.Is(err, integrations.ErrNotFound) {
//	    // not in this repository
//	}
//
// # Credentials
//
// When servers holds an entry with the endpoint's id, its username and
// password are sent as basic auth and its headers are added to the request.
// After mirroring, the id looked up is the mirror's id.
package maven
