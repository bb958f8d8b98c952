package validator

import (
	"fmt"
	"net/url"
	"strings"
)

// TestIssuerMarker is the substring that marks an issuer as a test issuer.
// When test tokens are allowed, issuers containing it resolve to a
// permissive trust descriptor without a registry entry.
const TestIssuerMarker = "test"

// TrustKind discriminates how an issuer's tokens are verified.
type TrustKind int

const (
	// TrustJWKS verifies signatures against rotating public keys fetched
	// from the issuer's JWKS endpoint.
	TrustJWKS TrustKind = iota

	// TrustSymmetric verifies signatures with a static shared secret.
	TrustSymmetric

	// TrustPermissive accepts tokens without signature verification.
	// Only ever produced for test issuers in development configurations.
	TrustPermissive
)

func (k TrustKind) String() string {
	switch k {
	case TrustJWKS:
		return "jwks"
	case TrustSymmetric:
		return "symmetric"
	case TrustPermissive:
		return "permissive"
	default:
		return fmt.Sprintf("TrustKind(%d)", int(k))
	}
}

// Trust describes how to verify tokens from one issuer. Endpoint is set
// for TrustJWKS, Secret for TrustSymmetric; a tagged variant rather than
// an interface so the validator's branching stays auditable in one place.
type Trust struct {
	Kind     TrustKind
	Endpoint string // JWKS endpoint URL
	Secret   []byte // shared secret, never logged
}

// Registry maps issuer identifiers to trust descriptors. It is built once
// at construction, validated eagerly, and read-only afterwards, so lookups
// need no locking.
type Registry struct {
	issuers         map[string]Trust
	symmetricIssuer string
	allowTestTokens bool
}

// NewRegistry validates and assembles an issuer registry. JWKS endpoints
// must be well-formed absolute URLs and issuer identifiers must be unique
// across trust kinds. symmetricIssuer may be empty when no symmetric trust
// is configured.
func NewRegistry(jwksIssuers map[string]string, symmetricIssuer string, secret []byte, allowTestTokens bool) (*Registry, error) {
	issuers := make(map[string]Trust, len(jwksIssuers)+1)

	for issuer, endpoint := range jwksIssuers {
		if issuer == "" {
			return nil, fmt.Errorf("issuer identifier cannot be empty")
		}
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("issuer %q: invalid JWKS endpoint %q: %w", issuer, endpoint, err)
		}
		if !u.IsAbs() || u.Host == "" {
			return nil, fmt.Errorf("issuer %q: JWKS endpoint %q is not an absolute URL", issuer, endpoint)
		}
		issuers[issuer] = Trust{Kind: TrustJWKS, Endpoint: endpoint}
	}

	if symmetricIssuer != "" {
		if len(secret) == 0 {
			return nil, fmt.Errorf("symmetric issuer %q configured without a secret", symmetricIssuer)
		}
		if _, exists := issuers[symmetricIssuer]; exists {
			return nil, fmt.Errorf("duplicate issuer %q: registered for both JWKS and symmetric trust", symmetricIssuer)
		}
		issuers[symmetricIssuer] = Trust{Kind: TrustSymmetric, Secret: secret}
	}

	return &Registry{
		issuers:         issuers,
		symmetricIssuer: symmetricIssuer,
		allowTestTokens: allowTestTokens,
	}, nil
}

// Resolve looks up the trust descriptor for an issuer. Exact matches win;
// when test tokens are allowed, issuers containing the test marker resolve
// to a permissive descriptor. A false return is a routine outcome, not an
// error: it becomes the UnknownIssuer verdict.
func (r *Registry) Resolve(issuer string) (Trust, bool) {
	if trust, ok := r.issuers[issuer]; ok {
		return trust, true
	}
	if r.allowTestTokens && strings.Contains(issuer, TestIssuerMarker) {
		return Trust{Kind: TrustPermissive}, true
	}
	return Trust{}, false
}

// HasJWKSIssuers reports whether any registered issuer uses JWKS trust.
func (r *Registry) HasJWKSIssuers() bool {
	for _, trust := range r.issuers {
		if trust.Kind == TrustJWKS {
			return true
		}
	}
	return false
}

// Symmetric returns the symmetric trust descriptor and its issuer id, if
// one is configured. Used to route SHIP tokens that carry no iss claim.
func (r *Registry) Symmetric() (Trust, string, bool) {
	if r.symmetricIssuer == "" {
		return Trust{}, "", false
	}
	return r.issuers[r.symmetricIssuer], r.symmetricIssuer, true
}
