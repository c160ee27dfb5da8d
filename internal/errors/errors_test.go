package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, ErrorTypeStorage, SeverityHigh, "save snapshots")

	require.NotNil(t, err)
	assert.Equal(t, "save snapshots: disk full", err.Error())
	assert.True(t, stderrors.Is(err, cause))
	assert.Nil(t, Wrap(nil, ErrorTypeStorage, SeverityHigh, "noop"))
}

func TestIs_MatchesByType(t *testing.T) {
	err := Validationf("bad date %q", "2024-13-01")
	wrapped := fmt.Errorf("load roster: %w", err)

	assert.True(t, stderrors.Is(wrapped, New(ErrorTypeValidation, SeverityLow, "")))
	assert.False(t, stderrors.Is(wrapped, New(ErrorTypeConfig, SeverityLow, "")))
}

func TestDetailedString(t *testing.T) {
	err := Configf("invalid window").
		WithContext("windows", []int{-1}).
		WithContext("field", "analysis.windows")
	err.StackTrace = ""

	got := err.DetailedString()
	assert.Contains(t, got, "[CRITICAL] [CONFIG] invalid window")
	assert.Contains(t, got, "  field: analysis.windows\n  windows: [-1]")
	assert.True(t, err.IsFatal())
}
