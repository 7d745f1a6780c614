// Package artifact resolves Maven coordinates to files in a local
// repository.
//
// A [Coordinate] names a file; [Path] maps it to a repository-relative path
// for the default or legacy layout. A [Fetcher] returns the local copy when
// present and otherwise downloads it from the first remote repository that
// has it, through a [Transport] chosen by URL scheme.
package artifact

import (
	"strings"

	"github.com/jtripath/maven-dependency-management-extension/pkg/errors"
)

// ExtensionPOM is the file extension of Maven descriptors.
const ExtensionPOM = "pom"

// Coordinate identifies a file in a Maven repository.
//
// GroupID, ArtifactID and Version are always set on a valid coordinate.
// Extension defaults to "jar" when parsed from the short forms and Classifier
// is usually empty.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
	Extension  string
	Classifier string
}

// ParseGAV parses a plain "groupId:artifactId:version" string.
//
// The input must split into exactly three non-empty fields. Fields are taken
// verbatim: no trimming, no case changes. The returned coordinate has the
// descriptor extension ("pom").
func ParseGAV(gav string) (Coordinate, error) {
	parts := strings.Split(gav, ":")
	if len(parts) != 3 {
		return Coordinate{}, errors.New(errors.ErrCodeMalformedCoordinate,
			"invalid coordinate %q (expected groupId:artifactId:version)", gav)
	}
	c := Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2], Extension: ExtensionPOM}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Parse parses the long coordinate forms
// "g:a:v", "g:a:ext:v" and "g:a:ext:classifier:v".
// Extension defaults to "jar" for the three-field form.
func Parse(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	var c Coordinate
	switch len(parts) {
	case 3:
		c = Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2], Extension: "jar"}
	case 4:
		c = Coordinate{GroupID: parts[0], ArtifactID: parts[1], Extension: parts[2], Version: parts[3]}
	case 5:
		c = Coordinate{GroupID: parts[0], ArtifactID: parts[1], Extension: parts[2], Classifier: parts[3], Version: parts[4]}
	default:
		return Coordinate{}, errors.New(errors.ErrCodeMalformedCoordinate,
			"invalid coordinate %q (expected groupId:artifactId[:extension[:classifier]]:version)", s)
	}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// POM returns the descriptor coordinate for groupId, artifactId and version.
func POM(groupID, artifactID, version string) Coordinate {
	return Coordinate{GroupID: groupID, ArtifactID: artifactID, Version: version, Extension: ExtensionPOM}
}

// Validate checks that every field can be used as a repository path segment.
func (c Coordinate) Validate() error {
	if err := errors.ValidateCoordinateField("groupId", c.GroupID); err != nil {
		return err
	}
	if err := errors.ValidateCoordinateField("artifactId", c.ArtifactID); err != nil {
		return err
	}
	if err := errors.ValidateCoordinateField("version", c.Version); err != nil {
		return err
	}
	if err := errors.ValidateCoordinateField("extension", c.Extension); err != nil {
		return err
	}
	if c.Classifier != "" {
		return errors.ValidateCoordinateField("classifier", c.Classifier)
	}
	return nil
}

// GAV returns "groupId:artifactId:version".
func (c Coordinate) GAV() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// Key returns "groupId:artifactId", the key used by version override tables.
func (c Coordinate) Key() string {
	return c.GroupID + ":" + c.ArtifactID
}

// String returns the long form "g:a:ext[:classifier]:v".
func (c Coordinate) String() string {
	var b strings.Builder
	b.WriteString(c.GroupID)
	b.WriteByte(':')
	b.WriteString(c.ArtifactID)
	b.WriteByte(':')
	b.WriteString(c.Extension)
	if c.Classifier != "" {
		b.WriteByte(':')
		b.WriteString(c.Classifier)
	}
	b.WriteByte(':')
	b.WriteString(c.Version)
	return b.String()
}

// IsSnapshot reports whether the version is a snapshot version.
func (c Coordinate) IsSnapshot() bool {
	return strings.HasSuffix(c.Version, "-SNAPSHOT")
}

// FileName returns "artifactId-version[-classifier].extension".
func (c Coordinate) FileName() string {
	name := c.ArtifactID + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	return name + "." + c.Extension
}
