package authsdk

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmstack/authsdk/jwks"
	"github.com/tmstack/authsdk/validator"
)

// ErrTokenNotValid is returned by GetUserFromToken when validation
// completed but the outcome was anything other than Valid. Inspect the
// wrapped message, or call ValidateToken directly, for the verdict.
var ErrTokenNotValid = errors.New("token is not valid")

// SDK is the entry point for token validation. A single instance is meant
// to be shared by all request handlers; it holds no per-call state and is
// safe for concurrent use.
type SDK struct {
	validator *validator.Validator
	cache     *jwks.Cache
	logger    Logger
	metrics   Metrics
	tracer    Tracer
}

// New builds an SDK from the given configuration. Configuration problems
// (duplicate issuers, malformed URLs, undecodable secret) are reported
// here so deployments fail fast instead of per-request.
func New(cfg Config, opts ...Option) (*SDK, error) {
	settings := defaultSettings()
	for _, opt := range opts {
		if err := opt(settings); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	registry, err := cfg.buildRegistry()
	if err != nil {
		return nil, err
	}

	cacheOpts := []jwks.CacheOption{
		jwks.WithTTL(settings.cacheTTL),
		jwks.WithMaxEndpoints(settings.maxCachedIssuers),
	}
	if settings.clock != nil {
		cacheOpts = append(cacheOpts, jwks.WithClock(settings.clock))
	}
	cache, err := jwks.NewCache(jwks.FetchWithClient(settings.httpClient), cacheOpts...)
	if err != nil {
		return nil, err
	}

	validatorOpts := []validator.Option{}
	if settings.leeway > 0 {
		validatorOpts = append(validatorOpts, validator.WithLeeway(settings.leeway))
	}
	if settings.clock != nil {
		validatorOpts = append(validatorOpts, validator.WithClock(settings.clock))
	}
	v, err := validator.New(registry, cache, validatorOpts...)
	if err != nil {
		return nil, err
	}

	return &SDK{
		validator: v,
		cache:     cache,
		logger:    settings.logger,
		metrics:   settings.metrics,
		tracer:    settings.tracer,
	}, nil
}

// ValidateToken validates a compact-serialized bearer token. The Outcome
// is the verdict about the token; the error is non-nil only when the trust
// infrastructure could not be reached, which callers may treat as a
// transient outage rather than a rejection.
func (s *SDK) ValidateToken(ctx context.Context, token string) (validator.Outcome, error) {
	ctx, span := s.tracer.StartSpan(ctx, "authsdk.validate_token")
	defer span.Finish()

	outcome, err := s.validator.ValidateToken(ctx, token)
	if err != nil {
		s.logger.Errorf("token validation could not complete: %v", err)
		s.metrics.IncCounter(MetricTrustFetchFailures, nil)
		span.SetTag("error", err)
		return validator.Outcome{}, err
	}

	status := outcome.Status.String()
	span.SetTag("outcome", status)
	s.metrics.IncCounter(MetricValidationOutcomes, map[string]string{"status": status})
	if outcome.IsValid() {
		s.logger.Debugf("token validated for issuer %q", outcome.Claims.Issuer)
	} else {
		s.logger.Debugf("token rejected: %s", outcome)
	}

	return outcome, nil
}

// GetUserFromToken validates the token and projects its claims into a
// normalized user. It fails with ErrTokenNotValid unless the validation
// outcome was Valid.
func (s *SDK) GetUserFromToken(ctx context.Context, token string) (*validator.User, error) {
	outcome, err := s.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !outcome.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotValid, outcome)
	}

	user, err := validator.NewUser(outcome.Claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotValid, err)
	}
	return user, nil
}

// CachedIssuerEndpoints reports how many JWKS endpoints currently have
// cached keys. Useful for monitoring memory usage with many issuers.
func (s *SDK) CachedIssuerEndpoints() int {
	return s.cache.Len()
}
