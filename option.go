package authsdk

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tmstack/authsdk/jwks"
)

// settings collects everything configurable on the SDK beyond the trust
// configuration itself.
type settings struct {
	httpClient       *http.Client
	cacheTTL         time.Duration
	maxCachedIssuers int
	leeway           time.Duration
	clock            func() time.Time
	logger           Logger
	metrics          Metrics
	tracer           Tracer
}

func defaultSettings() *settings {
	return &settings{
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		cacheTTL:         jwks.DefaultTTL,
		maxCachedIssuers: jwks.DefaultMaxEndpoints,
		logger:           &NoopLogger{},
		metrics:          &NoopMetrics{},
		tracer:           &NoopTracer{},
	}
}

// Option is how options for the SDK are set up.
// Options return errors to enable validation during construction.
type Option func(*settings) error

// WithHTTPClient sets the client used for JWKS fetches.
// If not specified, a default client with a 30s timeout is used.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) error {
		if client == nil {
			return errors.New("HTTP client cannot be nil")
		}
		s.httpClient = client
		return nil
	}
}

// WithCacheTTL sets the freshness horizon for cached JWKS key sets.
// If not specified, jwks.DefaultTTL is used.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *settings) error {
		if ttl <= 0 {
			return fmt.Errorf("cache TTL must be positive, got %s", ttl)
		}
		s.cacheTTL = ttl
		return nil
	}
}

// WithMaxCachedIssuers bounds how many issuer endpoints keep cached key
// sets; the least-recently-used endpoint is evicted past the limit.
// If not specified, jwks.DefaultMaxEndpoints is used.
func WithMaxCachedIssuers(n int) Option {
	return func(s *settings) error {
		if n < 0 {
			return fmt.Errorf("max cached issuers cannot be negative, got %d", n)
		}
		s.maxCachedIssuers = n
		return nil
	}
}

// WithLeeway sets the allowed clock skew for time-based claims.
func WithLeeway(leeway time.Duration) Option {
	return func(s *settings) error {
		if leeway < 0 {
			return errors.New("leeway cannot be negative")
		}
		s.leeway = leeway
		return nil
	}
}

// WithClock overrides the SDK's time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		s.clock = now
		return nil
	}
}

// WithLogger sets the logger used by the SDK and middleware.
// If not specified, logging is disabled.
func WithLogger(logger Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink. If not specified, metrics are
// disabled.
func WithMetrics(metrics Metrics) Option {
	return func(s *settings) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		s.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer. If not specified, tracing is disabled.
func WithTracer(tracer Tracer) Option {
	return func(s *settings) error {
		if tracer == nil {
			return errors.New("tracer cannot be nil")
		}
		s.tracer = tracer
		return nil
	}
}
