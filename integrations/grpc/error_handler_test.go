package grpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tmstack/authsdk"
	"github.com/tmstack/authsdk/jwks"
)

func TestDefaultErrorHandler(t *testing.T) {
	testCases := []struct {
		name         string
		err          error
		expectedCode codes.Code
	}{
		{
			name:         "missing token maps to Unauthenticated",
			err:          authsdk.ErrTokenMissing,
			expectedCode: codes.Unauthenticated,
		},
		{
			name:         "rejected token maps to Unauthenticated",
			err:          fmt.Errorf("%w: expired", authsdk.ErrTokenInvalid),
			expectedCode: codes.Unauthenticated,
		},
		{
			name:         "multiple auth headers map to InvalidArgument",
			err:          ErrMultipleAuthHeaders,
			expectedCode: codes.InvalidArgument,
		},
		{
			name:         "malformed metadata maps to InvalidArgument",
			err:          ErrInvalidAuthFormat,
			expectedCode: codes.InvalidArgument,
		},
		{
			name:         "JWKS fetch failure maps to Internal",
			err:          &jwks.FetchError{Endpoint: "https://auth.example.com/certs", Err: errors.New("refused")},
			expectedCode: codes.Internal,
		},
		{
			name:         "JWKS parse failure maps to Internal",
			err:          &jwks.ParseError{Endpoint: "https://auth.example.com/certs", Err: errors.New("bad document")},
			expectedCode: codes.Internal,
		},
		{
			name:         "unknown errors map to Unauthenticated",
			err:          errors.New("something unexpected"),
			expectedCode: codes.Unauthenticated,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := DefaultErrorHandler(testCase.err)
			assert.Equal(t, testCase.expectedCode, status.Code(err))
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, DefaultErrorHandler(nil))
	})
}
