package artifact

import (
	"strings"

	"github.com/jtripath/maven-dependency-management-extension/pkg/errors"
)

// Repository layouts understood by [Path].
const (
	LayoutDefault = "default"
	LayoutLegacy  = "legacy"
)

// Path returns the repository-relative path of c under the given layout.
//
// The default (Maven 2) layout is:
//
//	org/apache/commons/commons-lang3/3.14.0/commons-lang3-3.14.0.pom
//
// The legacy (Maven 1) layout is:
//
//	org.apache.commons/poms/commons-lang3-3.14.0.pom
//
// An empty layout means default.
func Path(layout string, c Coordinate) (string, error) {
	var p string
	switch layout {
	case LayoutDefault, "":
		p = strings.ReplaceAll(c.GroupID, ".", "/") + "/" + c.ArtifactID + "/" + c.Version + "/" + c.FileName()
	case LayoutLegacy:
		p = c.GroupID + "/" + c.Extension + "s/" + c.FileName()
	default:
		return "", errors.New(errors.ErrCodeInvalidRepository, "unsupported repository layout %q", layout)
	}
	if err := errors.ValidatePath(p); err != nil {
		return "", err
	}
	return p, nil
}
