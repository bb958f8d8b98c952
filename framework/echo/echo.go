package authechohandler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tmstack/authsdk"
	"github.com/tmstack/authsdk/validator"
)

var DefaultUserKey = "user"

// echoMiddlewareConfig holds all configuration for the middleware
type echoMiddlewareConfig struct {
	errorHandler   func(echo.Context, error)
	contextKey     string
	tokenExtractor authsdk.TokenExtractor
}

// NewEchoMiddleware creates an Echo middleware that validates bearer tokens
// with the given SDK and stores the resulting user in the Echo context.
func NewEchoMiddleware(sdk *authsdk.SDK, opts ...Option) echo.MiddlewareFunc {
	config := &echoMiddlewareConfig{
		errorHandler: defaultEchoErrorHandler,
		contextKey:   DefaultUserKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	middlewareOpts := []authsdk.MiddlewareOption{
		authsdk.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			// Adapt the standard error handler to the Echo context
			e := echo.New()
			c := e.NewContext(r, w)
			config.errorHandler(c, err)
		}),
	}

	if config.tokenExtractor != nil {
		middlewareOpts = append(middlewareOpts, authsdk.WithTokenExtractor(config.tokenExtractor))
	}

	middleware := sdk.Middleware(middlewareOpts...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			encounteredError := true
			var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
				encounteredError = false
				c.SetRequest(r)

				if user, ok := authsdk.UserFromContext(r.Context()); ok {
					c.Set(config.contextKey, user)
				}

				err := next(c)
				if err != nil {
					return
				}
			}

			middleware.CheckToken(handler).ServeHTTP(c.Response(), c.Request())

			if encounteredError {
				return nil // Prevent further handlers from being called
			}
			return nil
		}
	}
}

func defaultEchoErrorHandler(c echo.Context, err error) {
	status := http.StatusUnauthorized
	if !errors.Is(err, authsdk.ErrTokenMissing) && !errors.Is(err, authsdk.ErrTokenInvalid) {
		status = http.StatusInternalServerError
	}
	err = c.JSON(status, map[string]string{
		"message": err.Error(),
	})
	if err != nil {
		return
	}
}

// GetUser extracts the authenticated user from the Echo context
func GetUser(c echo.Context, contextKey string) (*validator.User, bool) {
	value := c.Get(contextKey)
	if value == nil {
		return nil, false
	}

	user, ok := value.(*validator.User)
	return user, ok
}
