package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	testCases := []struct {
		name            string
		jwksIssuers     map[string]string
		symmetricIssuer string
		secret          []byte
		expectedError   string
	}{
		{
			name: "it accepts a well-formed configuration",
			jwksIssuers: map[string]string{
				"https://auth.example.com/realms/main": "https://auth.example.com/realms/main/protocol/openid-connect/certs",
			},
			symmetricIssuer: "ship",
			secret:          []byte("shared secret"),
		},
		{
			name:        "it rejects an empty issuer identifier",
			jwksIssuers: map[string]string{"": "https://auth.example.com/certs"},
			expectedError: "issuer identifier cannot be empty",
		},
		{
			name:          "it rejects a relative JWKS endpoint",
			jwksIssuers:   map[string]string{"issuer": "/certs"},
			expectedError: "not an absolute URL",
		},
		{
			name:          "it rejects an endpoint without a host",
			jwksIssuers:   map[string]string{"issuer": "https:///certs"},
			expectedError: "not an absolute URL",
		},
		{
			name:            "it rejects a symmetric issuer without a secret",
			symmetricIssuer: "ship",
			expectedError:   "without a secret",
		},
		{
			name: "it rejects an issuer registered for both trust kinds",
			jwksIssuers: map[string]string{
				"ship": "https://auth.example.com/certs",
			},
			symmetricIssuer: "ship",
			secret:          []byte("shared secret"),
			expectedError:   "duplicate issuer",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := NewRegistry(testCase.jwksIssuers, testCase.symmetricIssuer, testCase.secret, false)

			if testCase.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), testCase.expectedError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRegistry_Resolve(t *testing.T) {
	registry, err := NewRegistry(
		map[string]string{"https://auth.example.com/realms/main": "https://auth.example.com/certs"},
		"ship",
		[]byte("shared secret"),
		false,
	)
	require.NoError(t, err)

	t.Run("it resolves a registered JWKS issuer", func(t *testing.T) {
		trust, ok := registry.Resolve("https://auth.example.com/realms/main")
		require.True(t, ok)
		assert.Equal(t, TrustJWKS, trust.Kind)
		assert.Equal(t, "https://auth.example.com/certs", trust.Endpoint)
	})

	t.Run("it resolves the symmetric issuer", func(t *testing.T) {
		trust, ok := registry.Resolve("ship")
		require.True(t, ok)
		assert.Equal(t, TrustSymmetric, trust.Kind)
		assert.Equal(t, []byte("shared secret"), trust.Secret)
	})

	t.Run("it does not resolve an unknown issuer", func(t *testing.T) {
		_, ok := registry.Resolve("https://unknown.example.com")
		assert.False(t, ok)
	})

	t.Run("it does not resolve test issuers by default", func(t *testing.T) {
		_, ok := registry.Resolve("https://test.example.com")
		assert.False(t, ok)
	})
}

func TestRegistry_TestIssuers(t *testing.T) {
	registry, err := NewRegistry(
		map[string]string{"https://auth.example.com/realms/test": "https://auth.example.com/certs"},
		"", nil,
		true,
	)
	require.NoError(t, err)

	t.Run("an exact registry match wins over the test marker", func(t *testing.T) {
		trust, ok := registry.Resolve("https://auth.example.com/realms/test")
		require.True(t, ok)
		assert.Equal(t, TrustJWKS, trust.Kind)
	})

	t.Run("an unregistered issuer containing the marker is permissive", func(t *testing.T) {
		trust, ok := registry.Resolve("https://test.example.com/realms/dev")
		require.True(t, ok)
		assert.Equal(t, TrustPermissive, trust.Kind)
	})

	t.Run("an unregistered issuer without the marker stays unknown", func(t *testing.T) {
		_, ok := registry.Resolve("https://staging.example.com")
		assert.False(t, ok)
	})
}

func TestRegistry_HasJWKSIssuers(t *testing.T) {
	withJWKS, err := NewRegistry(map[string]string{"issuer": "https://auth.example.com/certs"}, "", nil, false)
	require.NoError(t, err)
	assert.True(t, withJWKS.HasJWKSIssuers())

	symmetricOnly, err := NewRegistry(nil, "ship", []byte("secret"), false)
	require.NoError(t, err)
	assert.False(t, symmetricOnly.HasJWKSIssuers())
}

func TestRegistry_Symmetric(t *testing.T) {
	t.Run("it returns the symmetric trust when configured", func(t *testing.T) {
		registry, err := NewRegistry(nil, "ship", []byte("shared secret"), false)
		require.NoError(t, err)

		trust, issuer, ok := registry.Symmetric()
		require.True(t, ok)
		assert.Equal(t, "ship", issuer)
		assert.Equal(t, TrustSymmetric, trust.Kind)
	})

	t.Run("it reports absence when not configured", func(t *testing.T) {
		registry, err := NewRegistry(nil, "", nil, false)
		require.NoError(t, err)

		_, _, ok := registry.Symmetric()
		assert.False(t, ok)
	})
}
