package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMalformedCoordinate, "test message: %s", "value")

	if err.Code != ErrCodeMalformedCoordinate {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMalformedCoordinate)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "MALFORMED_COORDINATE: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeMalformedCoordinate, "test"),
			code:     ErrCodeMalformedCoordinate,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeMalformedCoordinate, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeNetwork, New(ErrCodeMalformedCoordinate, "inner"), "outer"),
			code:     ErrCodeNetwork,
			expected: true,
		},
		{
			name:     "typed artifact error",
			err:      &UnresolvableArtifactError{Coordinate: "g:a:pom:1"},
			code:     ErrCodeUnresolvableArtifact,
			expected: true,
		},
		{
			name:     "typed model error behind fmt wrap",
			err:      fmt.Errorf("resolve: %w", &UnresolvableModelError{GroupID: "g"}),
			code:     ErrCodeUnresolvableModel,
			expected: true,
		},
		{
			name:     "not initialized sentinel",
			err:      ErrNotInitialized,
			code:     ErrCodeNotInitialized,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeMalformedCoordinate,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeMalformedCoordinate,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidRepository, "test"),
			expected: ErrCodeInvalidRepository,
		},
		{
			name:     "outermost typed error wins",
			err:      &UnresolvableModelError{Cause: &UnresolvableArtifactError{}},
			expected: ErrCodeUnresolvableModel,
		},
		{
			name:     "model build error",
			err:      &ModelBuildError{},
			expected: ErrCodeModelBuild,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidConfig, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUnresolvableArtifactError(t *testing.T) {
	first := errors.New("connection refused")
	last := errors.New("not found")

	t.Run("last failure is the cause", func(t *testing.T) {
		err := &UnresolvableArtifactError{
			Coordinate: "org.example:lib:pom:1.0",
			Extension:  "pom",
			Cause:      last,
			Failures: []RepositoryFailure{
				{RepositoryID: "a", URL: "http://a", Err: first},
				{RepositoryID: "b", URL: "http://b", Err: last},
			},
		}
		if !errors.Is(err, last) {
			t.Error("errors.Is(err, last) = false, want true")
		}
		msg := err.Error()
		for _, want := range []string{"org.example:lib:pom:1.0", "connection refused", "not found"} {
			if !strings.Contains(msg, want) {
				t.Errorf("Error() = %q, missing %q", msg, want)
			}
		}
	})

	t.Run("no repositories", func(t *testing.T) {
		err := &UnresolvableArtifactError{Coordinate: "g:a:pom:1", Extension: "pom"}
		if !strings.Contains(err.Error(), "g:a:pom:1") {
			t.Errorf("Error() = %q, want coordinate", err.Error())
		}
	})
}

func TestModelBuildError(t *testing.T) {
	cause := errors.New("boom")
	err := &ModelBuildError{
		ModelID: "g:a:1",
		Cause:   cause,
		Problems: []Problem{
			{Severity: SeverityWarning, Message: "just a warning"},
			{Severity: SeverityError, Message: "parent cycle", Source: "g:a:1"},
		},
	}

	msg := err.Error()
	if !strings.Contains(msg, "parent cycle") {
		t.Errorf("Error() = %q, want error problem", msg)
	}
	if strings.Contains(msg, "just a warning") {
		t.Errorf("Error() = %q, warnings should not be listed", msg)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}
