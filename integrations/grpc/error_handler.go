package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tmstack/authsdk"
	"github.com/tmstack/authsdk/jwks"
)

// ErrorHandler converts validation errors to gRPC status errors.
type ErrorHandler func(error) error

// DefaultErrorHandler maps validation errors to gRPC status codes.
// Missing or rejected tokens become Unauthenticated, malformed
// authorization metadata becomes InvalidArgument, and trust
// infrastructure failures become Internal so token validation failures
// do not masquerade as server errors and vice versa.
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, authsdk.ErrTokenMissing) {
		return status.Error(codes.Unauthenticated, "missing credentials")
	}

	if errors.Is(err, ErrMultipleAuthHeaders) ||
		errors.Is(err, ErrInvalidAuthFormat) ||
		errors.Is(err, ErrUnsupportedScheme) {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	var fetchErr *jwks.FetchError
	var parseErr *jwks.ParseError
	if errors.As(err, &fetchErr) || errors.As(err, &parseErr) {
		return status.Error(codes.Internal, "unable to verify token")
	}

	if errors.Is(err, authsdk.ErrTokenInvalid) {
		return status.Error(codes.Unauthenticated, err.Error())
	}

	// Treat unknown errors as Unauthenticated so validation failures
	// don't leak as internal errors.
	return status.Error(codes.Unauthenticated, "invalid or malformed token")
}
