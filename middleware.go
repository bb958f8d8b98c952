package authsdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tmstack/authsdk/validator"
)

var (
	// ErrTokenMissing is returned when no token was found on the request.
	ErrTokenMissing = errors.New("token missing")

	// ErrTokenInvalid is returned when the token failed validation. It is
	// wrapped around the specific verdict; use errors.Is to detect it.
	ErrTokenInvalid = errors.New("token invalid")
)

// invalidError handles wrapping a validation verdict with the concrete
// error ErrTokenInvalid. We do not expose this publicly because the
// interface methods of Is and Unwrap should give the user all they need.
type invalidError struct {
	details error
}

func (e *invalidError) Is(target error) bool {
	return target == ErrTokenInvalid
}

func (e *invalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTokenInvalid, e.details)
}

func (e *invalidError) Unwrap() error {
	return e.details
}

// ErrorHandler is called when the middleware rejects a request. The err
// can be checked against ErrTokenMissing and ErrTokenInvalid; anything
// else means validation could not complete (e.g. the identity provider
// was unreachable).
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler responds 400 for a missing token, 401 for an
// invalid one, and 500 for operational failures.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTokenMissing):
		http.Error(w, "", http.StatusBadRequest)
	case errors.Is(err, ErrTokenInvalid):
		http.Error(w, "", http.StatusUnauthorized)
	default:
		http.Error(w, "", http.StatusInternalServerError)
	}
}

// userContextKey is the context key the validated user is stored under.
type userContextKey struct{}

// UserFromContext returns the validated user stored by the middleware.
func UserFromContext(ctx context.Context) (*validator.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*validator.User)
	return user, ok
}

// ContextWithUser stores a validated user in the context the same way the
// middleware does. Transport adapters (e.g. the gRPC interceptor) use it
// so UserFromContext works regardless of transport.
func ContextWithUser(ctx context.Context, user *validator.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// Middleware gates HTTP requests on token validation. Build one with
// SDK.Middleware; the framework subpackages adapt it to gin and echo.
type Middleware struct {
	sdk                 *SDK
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	credentialsOptional bool
	validateOnOptions   bool
}

// MiddlewareOption is how options for the Middleware are set up.
type MiddlewareOption func(*Middleware)

// WithErrorHandler sets the handler called on rejected requests.
func WithErrorHandler(h ErrorHandler) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = h
	}
}

// WithTokenExtractor sets how the token is pulled off the request.
// Defaults to the Authorization header.
func WithTokenExtractor(e TokenExtractor) MiddlewareOption {
	return func(m *Middleware) {
		m.tokenExtractor = e
	}
}

// WithCredentialsOptional lets requests without a token through,
// without a user in the context.
func WithCredentialsOptional(value bool) MiddlewareOption {
	return func(m *Middleware) {
		m.credentialsOptional = value
	}
}

// WithValidateOnOptions controls whether OPTIONS requests are validated.
// Default: true.
func WithValidateOnOptions(value bool) MiddlewareOption {
	return func(m *Middleware) {
		m.validateOnOptions = value
	}
}

// Middleware builds an HTTP middleware around the SDK.
func (s *SDK) Middleware(opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		sdk:               s,
		errorHandler:      DefaultErrorHandler,
		tokenExtractor:    AuthHeaderTokenExtractor,
		validateOnOptions: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CheckToken wraps next with extraction, validation, and user projection.
// On success the normalized user is stored in the request context.
func (m *Middleware) CheckToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.validateOnOptions && r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token, err := m.tokenExtractor(r)
		if err != nil {
			// Not ErrTokenMissing: the extractor found a token attempt
			// that was malformed.
			m.errorHandler(w, r, &invalidError{details: err})
			return
		}

		if token == "" {
			if m.credentialsOptional {
				next.ServeHTTP(w, r)
				return
			}
			m.errorHandler(w, r, ErrTokenMissing)
			return
		}

		outcome, err := m.sdk.ValidateToken(r.Context(), token)
		if err != nil {
			// Trust infrastructure unreachable; surfaced as-is so the
			// error handler can apply its fail-open/fail-closed policy.
			m.errorHandler(w, r, err)
			return
		}
		if !outcome.IsValid() {
			m.errorHandler(w, r, &invalidError{details: errors.New(outcome.String())})
			return
		}

		user, err := validator.NewUser(outcome.Claims)
		if err != nil {
			m.errorHandler(w, r, &invalidError{details: err})
			return
		}

		next.ServeHTTP(w, r.Clone(ContextWithUser(r.Context(), user)))
	})
}
