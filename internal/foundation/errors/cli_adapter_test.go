package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type bodyError struct {
	body []byte
}

func (e *bodyError) Error() string        { return "request failed" }
func (e *bodyError) ResponseBody() []byte { return e.body }

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad platform").Build(), expected: 2},
		{name: "auth", err: AuthError("invalid token").Build(), expected: 5},
		{name: "config", err: ConfigError("missing token").Build(), expected: 7},
		{name: "network", err: NetworkError("timeout").Build(), expected: 8},
		{name: "remote", err: RemoteError("500").Build(), expected: 8},
		{name: "not found", err: NotFoundError("no stack").Build(), expected: 9},
		{name: "internal", err: InternalError("boom").Build(), expected: 10},
		{name: "build", err: BuildError("failed").Build(), expected: 11},
		{name: "wrapped build", err: fmt.Errorf("run: %w", BuildError("canceled").Build()), expected: 11},
		{name: "unclassified", err: stderrors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestResponseBody(t *testing.T) {
	t.Run("json body is indented", func(t *testing.T) {
		err := RemoteError("API error").WithCause(&bodyError{body: []byte(`{"error":{"message":"nope"}}`)}).Build()
		assert.Equal(t, "{\n  \"error\": {\n    \"message\": \"nope\"\n  }\n}", ResponseBody(err))
	})

	t.Run("non json body is returned raw", func(t *testing.T) {
		err := fmt.Errorf("wrap: %w", &bodyError{body: []byte("Bad Gateway")})
		assert.Equal(t, "Bad Gateway", ResponseBody(err))
	})

	t.Run("no carrier", func(t *testing.T) {
		assert.Empty(t, ResponseBody(stderrors.New("plain")))
		assert.Empty(t, ResponseBody(&bodyError{body: []byte("  ")}))
	})
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())
	var out bytes.Buffer

	err := AuthError("Invalid Token. Failed to Authenticate.").
		WithCause(&bodyError{body: []byte(`{"message":"unauthorized"}`)}).
		Build()
	code := adapter.Report(&out, err)

	assert.Equal(t, 5, code)
	assert.Contains(t, out.String(), "\"message\": \"unauthorized\"")
	assert.Contains(t, out.String(), "Error: Invalid Token. Failed to Authenticate.")
}

func TestCLIErrorAdapter_FormatVerbose(t *testing.T) {
	adapter := NewCLIErrorAdapter(true, slog.Default())
	err := NotFoundError("Couldn't find stack").WithContext("platform", "ios").Build()

	got := adapter.FormatError(err)
	assert.Contains(t, got, "[not_found]")
	assert.Contains(t, got, "platform:ios")
}
