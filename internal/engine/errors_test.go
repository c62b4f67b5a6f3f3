package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind_StringNamesEachKind(t *testing.T) {
	assert.Equal(t, "MissingOperand", KindMissingOperand.String())
	assert.Equal(t, "DepthExceeded", KindDepthExceeded.String())
	assert.Equal(t, "Unknown", ErrorKind(999).String())
}

func TestErrorKind_SeverityClassifiesFaults(t *testing.T) {
	assert.Equal(t, SeverityFatal, KindParseStructural.Severity())
	assert.Equal(t, SeverityWarning, KindEmptyGraphicsStack.Severity())
	assert.Equal(t, SeverityInfo, KindUnknownOperator.Severity())
	assert.Equal(t, SeverityError, KindMissingOperand.Severity())
}

func TestEngineError_ErrorIncludesOperatorWhenPresent(t *testing.T) {
	err := NewError(KindMissingOperand, "Tj", "expected a string operand")
	assert.Contains(t, err.Error(), "Tj")
	assert.Contains(t, err.Error(), "MissingOperand")
	assert.Contains(t, err.Error(), "expected a string operand")
}

func TestEngineError_ErrorOmitsOperatorWhenEmpty(t *testing.T) {
	err := NewError(KindParseStructural, "", "truncated stream")
	assert.NotContains(t, err.Error(), `""`)
	assert.Contains(t, err.Error(), "truncated stream")
}

func TestEngineError_UnwrapExposesWrappedCause(t *testing.T) {
	cause := errors.New("boom")
	err := &EngineError{Kind: KindMissingResource, Err: cause}

	assert.Same(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestEngineError_ErrorsAsRecoversKind(t *testing.T) {
	var err error = NewError(KindInvalidMatrix, "cm", "six operands required")

	var engErr *EngineError
	require := assert.New(t)
	require.True(errors.As(err, &engErr))
	require.Equal(KindInvalidMatrix, engErr.Kind)
}
