package authsdk

import (
	"encoding/base64"
	"fmt"

	"github.com/tmstack/authsdk/validator"
)

// DefaultSymmetricIssuer is the issuer identifier SHIP tokens validate
// under when Config.SymmetricIssuer is left empty.
const DefaultSymmetricIssuer = "ship"

// Config enumerates the trust sources the SDK accepts tokens from. It is
// consumed once by New, validated eagerly, and never mutated afterwards.
type Config struct {
	// JWKSIssuers maps issuer identifiers (the iss value expected in
	// tokens) to the JWKS endpoint publishing that issuer's public keys.
	// Endpoints must be well-formed absolute URLs.
	JWKSIssuers map[string]string

	// SymmetricSecret is the base64-encoded shared secret for SHIP
	// tokens. Empty disables symmetric trust.
	SymmetricSecret string

	// SymmetricIssuer is the issuer identifier for symmetric trust.
	// Defaults to DefaultSymmetricIssuer when SymmetricSecret is set.
	SymmetricIssuer string

	// AllowTestTokens permits issuers whose identifier contains the test
	// marker to validate without production trust anchors. Development
	// configurations only.
	AllowTestTokens bool
}

// buildRegistry validates the configuration and assembles the immutable
// issuer registry. Misconfiguration fails here, at startup, never
// per-request.
func (c Config) buildRegistry() (*validator.Registry, error) {
	var secret []byte
	symmetricIssuer := ""

	if c.SymmetricSecret != "" {
		decoded, err := base64.StdEncoding.DecodeString(c.SymmetricSecret)
		if err != nil {
			return nil, fmt.Errorf("symmetric secret is not valid base64: %w", err)
		}
		secret = decoded
		symmetricIssuer = c.SymmetricIssuer
		if symmetricIssuer == "" {
			symmetricIssuer = DefaultSymmetricIssuer
		}
	} else if c.SymmetricIssuer != "" {
		return nil, fmt.Errorf("symmetric issuer %q configured without a secret", c.SymmetricIssuer)
	}

	return validator.NewRegistry(c.JWKSIssuers, symmetricIssuer, secret, c.AllowTestTokens)
}
