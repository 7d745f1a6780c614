package model

import (
	"fmt"

	"github.com/jtripath/maven-dependency-management-extension/pkg/errors"
)

// problems collects the issues of one model build.
type problems struct {
	list []errors.Problem
}

func (p *problems) add(sev errors.Severity, source string, cause error, format string, args ...any) {
	p.list = append(p.list, errors.Problem{
		Severity: sev,
		Source:   source,
		Message:  fmt.Sprintf(format, args...),
		Cause:    cause,
	})
}

func (p *problems) warnf(source, format string, args ...any) {
	p.add(errors.SeverityWarning, source, nil, format, args...)
}

func (p *problems) errorf(source, format string, args ...any) {
	p.add(errors.SeverityError, source, nil, format, args...)
}

func (p *problems) hasErrors() bool {
	for _, pr := range p.list {
		if pr.Severity >= errors.SeverityError {
			return true
		}
	}
	return false
}

// fail converts the collected problems into a build error. The cause is the
// first error-level problem that carries one.
func (p *problems) fail(modelID string) error {
	var cause error
	for _, pr := range p.list {
		if pr.Severity >= errors.SeverityError && pr.Cause != nil {
			cause = pr.Cause
			break
		}
	}
	return &errors.ModelBuildError{ModelID: modelID, Problems: p.list, Cause: cause}
}

// warnings returns the problems below error severity.
func (p *problems) warnings() []errors.Problem {
	var out []errors.Problem
	for _, pr := range p.list {
		if pr.Severity < errors.SeverityError {
			out = append(out, pr)
		}
	}
	return out
}
