package validator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeyProvider supplies verification keys for JWKS-trusted issuers. The
// jwks.Cache satisfies this; the validator never sees the cache's internal
// key storage, only the narrow lookup/refresh contract.
type KeyProvider interface {
	// GetKey returns the cached key for kid under the endpoint, or a miss.
	GetKey(endpoint, kid string) (any, bool)

	// Refresh re-fetches the endpoint's key set. Errors are transport or
	// parse failures and are propagated to the caller untouched.
	Refresh(ctx context.Context, endpoint string) error
}

// asymmetricAlgorithms are the header alg values accepted for JWKS trust.
// HMAC algorithms are deliberately excluded: accepting an HS* token
// against a public key would let the public key double as the secret.
var asymmetricAlgorithms = map[string]bool{
	"RS256": true, "RS384": true, "RS512": true,
	"PS256": true, "PS384": true, "PS512": true,
	"ES256": true, "ES384": true, "ES512": true,
}

// symmetricAlgorithms are the header alg values accepted for symmetric trust.
var symmetricAlgorithms = map[string]bool{
	"HS256": true, "HS384": true, "HS512": true,
}

// header is the unverified structural prefix of a token. Never trusted for
// authorization decisions; it only steers key selection.
type header struct {
	Algorithm string `json:"alg"`
	KeyID     string `json:"kid,omitempty"`
	Type      string `json:"typ,omitempty"`
}

// Validator is the validation engine. It holds no per-call state and is
// safe for concurrent use; the only shared mutable resource is the
// KeyProvider, which synchronizes internally.
type Validator struct {
	registry *Registry
	keys     KeyProvider
	parser   *jwt.Parser
	now      func() time.Time
	leeway   time.Duration
}

// New builds a Validator. The registry is required; keys may only be nil
// when the registry contains no JWKS issuers.
func New(registry *Registry, keys KeyProvider, opts ...Option) (*Validator, error) {
	if registry == nil {
		return nil, errors.New("registry is required but was nil")
	}
	if keys == nil && registry.HasJWKSIssuers() {
		return nil, errors.New("key provider is required when JWKS issuers are configured")
	}

	v := &Validator{
		registry: registry,
		keys:     keys,
		parser:   jwt.NewParser(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// ValidateToken validates a compact-serialized token and produces an
// Outcome. The returned error is non-nil only when validation could not
// complete at all, in practice when a JWKS refresh failed, so callers
// can distinguish a bad token from an unreachable identity provider.
//
// A single call makes at most one refresh side trip; it never loops.
func (v *Validator) ValidateToken(ctx context.Context, token string) (Outcome, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return invalid(ReasonFormat), nil
	}

	headerJSON, err := v.parser.DecodeSegment(parts[0])
	if err != nil {
		return invalid(ReasonFormat), nil
	}
	payloadJSON, err := v.parser.DecodeSegment(parts[1])
	if err != nil {
		return invalid(ReasonFormat), nil
	}
	signature, err := v.parser.DecodeSegment(parts[2])
	if err != nil {
		return invalid(ReasonFormat), nil
	}

	var hdr header
	if err := json.Unmarshal(headerJSON, &hdr); err != nil {
		return invalid(ReasonFormat), nil
	}
	claims := &Claims{}
	if err := json.Unmarshal(payloadJSON, claims); err != nil {
		return invalid(ReasonFormat), nil
	}

	// Expiry is checked before anything else so an expired token reports
	// Expired regardless of signature validity. Callers act on expiry
	// specifically (refresh flows), and rejecting early avoids needless
	// JWKS traffic for tokens that cannot pass anyway.
	if claims.ExpiresAt != 0 && !v.now().Add(-v.leeway).Before(claims.ExpiresAt.Time()) {
		return expired(), nil
	}

	trust, outcome, ok := v.resolveTrust(claims)
	if !ok {
		return outcome, nil
	}

	signingString := token[:len(parts[0])+1+len(parts[1])]

	switch trust.Kind {
	case TrustJWKS:
		outcome, err := v.verifyAsymmetric(ctx, trust, hdr, signingString, signature)
		if err != nil {
			return Outcome{}, err
		}
		if outcome != nil {
			return *outcome, nil
		}
	case TrustSymmetric:
		if !symmetricAlgorithms[hdr.Algorithm] {
			return invalid(ReasonAlgorithm), nil
		}
		method := jwt.GetSigningMethod(hdr.Algorithm)
		if err := method.Verify(signingString, signature, trust.Secret); err != nil {
			return invalid(ReasonSignature), nil
		}
	case TrustPermissive:
		// Test issuers validate without production trust anchors.
	}

	if claims.NotBefore != 0 && v.now().Add(v.leeway).Before(claims.NotBefore.Time()) {
		return invalid(ReasonNotYetValid), nil
	}

	return valid(claims), nil
}

// resolveTrust maps the token's unverified claims to a trust descriptor.
// SHIP tokens carry no iss claim and are routed to the symmetric issuer by
// their marker claims. The returned Outcome is only meaningful when ok is
// false.
func (v *Validator) resolveTrust(claims *Claims) (Trust, Outcome, bool) {
	if claims.Issuer == "" {
		if !claims.IsShipToken() {
			return Trust{}, invalid(ReasonMissingIssuer), false
		}
		trust, issuer, ok := v.registry.Symmetric()
		if !ok {
			return Trust{}, unknownIssuer(issuer), false
		}
		return trust, Outcome{}, true
	}

	trust, ok := v.registry.Resolve(claims.Issuer)
	if !ok {
		return Trust{}, unknownIssuer(claims.Issuer), false
	}
	return trust, Outcome{}, true
}

// verifyAsymmetric verifies the signature against the issuer's JWKS keys.
// A nil, nil return means the signature checked out. A non-nil Outcome is
// a verdict about the token; a non-nil error means the key provider could
// not be refreshed and validation could not complete.
func (v *Validator) verifyAsymmetric(ctx context.Context, trust Trust, hdr header, signingString string, signature []byte) (*Outcome, error) {
	if !asymmetricAlgorithms[hdr.Algorithm] {
		o := invalid(ReasonAlgorithm)
		return &o, nil
	}
	if hdr.KeyID == "" {
		o := invalid(ReasonUnknownKeyID)
		return &o, nil
	}

	key, ok := v.keys.GetKey(trust.Endpoint, hdr.KeyID)
	if !ok {
		// One refresh per validation call; a key that is still absent
		// afterwards is simply unknown, not worth polling for.
		if err := v.keys.Refresh(ctx, trust.Endpoint); err != nil {
			return nil, err
		}
		key, ok = v.keys.GetKey(trust.Endpoint, hdr.KeyID)
		if !ok {
			o := invalid(ReasonUnknownKeyID)
			return &o, nil
		}
	}

	method := jwt.GetSigningMethod(hdr.Algorithm)
	if err := method.Verify(signingString, signature, key); err != nil {
		o := invalid(ReasonSignature)
		return &o, nil
	}
	return nil, nil
}
