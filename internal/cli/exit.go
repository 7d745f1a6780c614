package cli

import (
	"context"
	stderrors "errors"

	"github.com/jtripath/maven-dependency-management-extension/pkg/errors"
)

// Process exit codes. Scripts wrapping depmgmt can tell a bad invocation
// from a coordinate that does not resolve or a POM that does not build.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitUnresolved  = 3
	ExitModelBuild  = 4
	ExitInterrupted = 130
)

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if stderrors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeMalformedCoordinate, errors.ErrCodeInvalidRepository, errors.ErrCodeInvalidConfig:
		return ExitUsage
	case errors.ErrCodeUnresolvableArtifact, errors.ErrCodeUnresolvableModel, errors.ErrCodeNotFound:
		return ExitUnresolved
	case errors.ErrCodeModelBuild:
		return ExitModelBuild
	}
	return ExitFailure
}
