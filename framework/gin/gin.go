package authginhandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmstack/authsdk"
	"github.com/tmstack/authsdk/validator"
)

const DefaultUserKey = "user"

var (
	ErrMissingUser = errors.New("no authenticated user found in context")
	ErrInvalidUser = errors.New("invalid user type in context")
)

type GinMiddlewareConfig struct {
	errorHandler   func(*gin.Context, error)
	contextKey     string
	tokenExtractor authsdk.TokenExtractor
}

// NewGinMiddleware creates a Gin middleware that validates bearer tokens
// with the given SDK and stores the resulting user in the Gin context.
func NewGinMiddleware(sdk *authsdk.SDK, opts ...Option) gin.HandlerFunc {
	config := &GinMiddlewareConfig{
		errorHandler: defaultGinErrorHandler,
		contextKey:   DefaultUserKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	middlewareOpts := []authsdk.MiddlewareOption{
		authsdk.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			c, exists := r.Context().Value(gin.ContextKey).(*gin.Context)
			if !exists || c == nil {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(err.Error()))
				return
			}
			config.errorHandler(c, err)
		}),
	}

	if config.tokenExtractor != nil {
		middlewareOpts = append(middlewareOpts, authsdk.WithTokenExtractor(config.tokenExtractor))
	}

	middleware := sdk.Middleware(middlewareOpts...)

	return func(c *gin.Context) {
		encounteredError := true
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			encounteredError = false
			c.Request = r

			if user, ok := authsdk.UserFromContext(r.Context()); ok {
				c.Set(config.contextKey, user)
			}

			c.Next()
		}

		middleware.CheckToken(handler).ServeHTTP(c.Writer, c.Request)

		if encounteredError {
			c.Abort()
		}
	}
}

func defaultGinErrorHandler(c *gin.Context, err error) {
	status := http.StatusUnauthorized
	if !errors.Is(err, authsdk.ErrTokenMissing) && !errors.Is(err, authsdk.ErrTokenInvalid) {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
	})
}

// GetUser extracts the authenticated user from the Gin context.
func GetUser(c *gin.Context, contextKey string) (*validator.User, error) {
	if contextKey == "" {
		contextKey = DefaultUserKey
	}
	value, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingUser
	}

	user, ok := value.(*validator.User)
	if !ok {
		return nil, ErrInvalidUser
	}

	return user, nil
}
