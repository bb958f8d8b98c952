package grpc

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"

	"github.com/tmstack/authsdk"
	"github.com/tmstack/authsdk/validator"
)

// Interceptor provides bearer token validation for gRPC servers.
type Interceptor struct {
	sdk                 *authsdk.SDK
	tokenExtractor      TokenExtractor
	errorHandler        ErrorHandler
	excludedMethods     map[string]bool
	credentialsOptional bool
	logger              authsdk.Logger
}

// New creates a gRPC interceptor backed by the given SDK.
func New(sdk *authsdk.SDK, opts ...Option) (*Interceptor, error) {
	if sdk == nil {
		return nil, errors.New("sdk cannot be nil")
	}

	interceptor := &Interceptor{
		sdk:             sdk,
		tokenExtractor:  MetadataTokenExtractor,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
		logger:          &authsdk.NoopLogger{},
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, err
		}
	}

	return interceptor, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that validates
// bearer tokens. The validated user is available in the handler context via
// authsdk.UserFromContext.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if i.excludedMethods[info.FullMethod] {
			i.logger.Debugf("skipping token validation for excluded method %s", info.FullMethod)
			return handler(ctx, req)
		}

		validatedCtx, err := i.validateRequest(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}

		return handler(validatedCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that
// validates bearer tokens on the stream context.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excludedMethods[info.FullMethod] {
			i.logger.Debugf("skipping token validation for excluded method %s", info.FullMethod)
			return handler(srv, ss)
		}

		validatedCtx, err := i.validateRequest(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}

		wrappedStream := &wrappedServerStream{
			ServerStream: ss,
			ctx:          validatedCtx,
		}

		return handler(srv, wrappedStream)
	}
}

// validateRequest extracts and validates the token from the context.
func (i *Interceptor) validateRequest(ctx context.Context, method string) (context.Context, error) {
	token, err := i.tokenExtractor(ctx)
	if err != nil {
		i.logger.Errorf("failed to extract token from metadata for %s: %v", method, err)
		return ctx, i.errorHandler(err)
	}

	if token == "" {
		if i.credentialsOptional {
			i.logger.Debugf("no credentials provided for %s, continuing without user", method)
			return ctx, nil
		}
		return ctx, i.errorHandler(authsdk.ErrTokenMissing)
	}

	outcome, err := i.sdk.ValidateToken(ctx, token)
	if err != nil {
		i.logger.Warnf("token validation could not complete for %s: %v", method, err)
		return ctx, i.errorHandler(err)
	}
	if !outcome.IsValid() {
		i.logger.Debugf("token rejected for %s: %s", method, outcome)
		return ctx, i.errorHandler(fmt.Errorf("%w: %s", authsdk.ErrTokenInvalid, outcome))
	}

	user, err := validator.NewUser(outcome.Claims)
	if err != nil {
		return ctx, i.errorHandler(fmt.Errorf("%w: %s", authsdk.ErrTokenInvalid, err))
	}

	return authsdk.ContextWithUser(ctx, user), nil
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context carrying the validated user.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
