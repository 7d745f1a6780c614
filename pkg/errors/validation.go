package errors

import (
	"strings"
	"unicode"
)

const (
	maxFieldLength = 256
	maxPathLength  = 500

	// Characters Maven rejects in versions, classifiers and extensions
	// because they cannot appear in a repository file name.
	illegalFileChars = `\/:"<>|?*`
)

// ValidateCoordinateField checks one field of a coordinate before it becomes
// a repository path segment. groupId and artifactId follow Maven's id rule
// ([A-Za-z0-9_.-]+); version, classifier and extension may hold any printable
// character except whitespace and file-name separators. An unresolved ${...}
// expression is reported as such.
func ValidateCoordinateField(field, value string) error {
	switch {
	case value == "":
		return New(ErrCodeMalformedCoordinate, "%s cannot be empty", field)
	case len(value) > maxFieldLength:
		return New(ErrCodeMalformedCoordinate, "%s too long (max %d characters)", field, maxFieldLength)
	case strings.Contains(value, "${"):
		return New(ErrCodeMalformedCoordinate, "%s contains an unresolved expression: %q", field, value)
	case strings.Contains(value, ".."):
		return New(ErrCodeMalformedCoordinate, "%s contains invalid characters: %q", field, "..")
	}

	if field == "groupId" || field == "artifactId" {
		for _, r := range value {
			if !isIDChar(r) {
				return New(ErrCodeMalformedCoordinate, "%s %q does not match [A-Za-z0-9_.-]+", field, value)
			}
		}
		return nil
	}

	for _, r := range value {
		if unicode.IsControl(r) || unicode.IsSpace(r) || strings.ContainsRune(illegalFileChars, r) {
			return New(ErrCodeMalformedCoordinate, "%s contains invalid characters: %q", field, value)
		}
	}
	return nil
}

func isIDChar(r rune) bool {
	return r < unicode.MaxASCII && (r == '_' || r == '-' || r == '.' ||
		unicode.IsLetter(r) || unicode.IsDigit(r))
}

// ValidatePath checks a repository-relative path produced by a layout: it
// must be relative, use forward slashes and stay inside the repository.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLength:
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	case strings.HasPrefix(path, "/"):
		return New(ErrCodeInvalidPath, "path must be relative: %q", path)
	case strings.Contains(path, `\`):
		return New(ErrCodeInvalidPath, "path cannot contain backslashes: %q", path)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains control characters")
		}
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return New(ErrCodeInvalidPath, "path has an empty or relative segment: %q", path)
		}
	}
	return nil
}

// RepositorySchemes are the URL schemes a repository may use.
var RepositorySchemes = []string{"http", "https", "file", "s3"}

// ValidateRepositoryURL checks that rawURL uses one of [RepositorySchemes]
// and names a location.
func ValidateRepositoryURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidRepository, "URL cannot be empty")
	}
	scheme, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return New(ErrCodeInvalidRepository, "URL must use http, https, file or s3 scheme: %q", rawURL)
	}
	scheme = strings.ToLower(scheme)
	for _, s := range RepositorySchemes {
		if scheme != s {
			continue
		}
		if strings.Trim(rest, "/") == "" {
			return New(ErrCodeInvalidRepository, "URL has no location: %q", rawURL)
		}
		return nil
	}
	return New(ErrCodeInvalidRepository, "URL must use http, https, file or s3 scheme: %q", rawURL)
}
