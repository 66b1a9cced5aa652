package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want codes.Code
	}{
		{nil, codes.OK},
		{ErrUnsupportedFormat, codes.InvalidArgument},
		{fmt.Errorf("wrapped: %w", ErrInvalidInput), codes.InvalidArgument},
		{ErrQueueFull, codes.ResourceExhausted},
		{ErrQueueClosed, codes.Unavailable},
		{ErrNotInitialized, codes.Unavailable},
		{ErrNotFound, codes.NotFound},
		{ErrOCRFailed, codes.Internal},
		{errors.New("other"), codes.Internal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CodeOf(tc.err), "%v", tc.err)
	}
}

func TestUnsupportedFormatError(t *testing.T) {
	err := NewUnsupportedFormatError("exe")

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), `"exe"`)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	var appErr *AppError
	require.ErrorAs(t, fmt.Errorf("load: %w", err), &appErr)
	assert.Equal(t, CodeUnsupportedFormat, appErr.Code)
}

func TestOCRError(t *testing.T) {
	cause := errors.New("tesseract: exit status 1")
	err := NewOCRError("page 2", cause)

	assert.ErrorIs(t, err, ErrOCRFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, "page 2", status.Convert(err).Message())
}

func TestAppErrorWithoutCause(t *testing.T) {
	err := NewAppError(CodeConfig, "bad config", nil)
	assert.Equal(t, "CONFIG_ERROR: bad config", err.Error())
	assert.NoError(t, err.Unwrap())
}
