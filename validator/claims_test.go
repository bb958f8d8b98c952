package validator

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaims_Unmarshal(t *testing.T) {
	t.Run("it decodes integer and fractional timestamps", func(t *testing.T) {
		var claims Claims
		require.NoError(t, json.Unmarshal([]byte(`{"exp": 1700000000, "iat": 1699999999.75}`), &claims))

		assert.EqualValues(t, 1700000000, claims.ExpiresAt)
		assert.EqualValues(t, 1699999999, claims.IssuedAt)
		assert.Zero(t, claims.NotBefore)
	})

	t.Run("it decodes aud as a single string", func(t *testing.T) {
		var claims Claims
		require.NoError(t, json.Unmarshal([]byte(`{"aud": "account"}`), &claims))
		assert.Equal(t, Audience{"account"}, claims.Audience)
	})

	t.Run("it decodes aud as a string array", func(t *testing.T) {
		var claims Claims
		require.NoError(t, json.Unmarshal([]byte(`{"aud": ["account", "api"]}`), &claims))
		assert.Equal(t, Audience{"account", "api"}, claims.Audience)
	})

	t.Run("it decodes the nested resource_access structure", func(t *testing.T) {
		payload := `{
			"resource_access": {
				"tms": {"roles": ["admin"]},
				"account": {"roles": ["viewer"]}
			}
		}`
		var claims Claims
		require.NoError(t, json.Unmarshal([]byte(payload), &claims))
		assert.Equal(t, []string{"admin"}, claims.ResourceAccess["tms"].Roles)
		assert.Equal(t, []string{"viewer"}, claims.ResourceAccess["account"].Roles)
	})

	t.Run("it rejects a non-numeric timestamp", func(t *testing.T) {
		var claims Claims
		assert.Error(t, json.Unmarshal([]byte(`{"exp": "tomorrow"}`), &claims))
	})
}

func TestClaims_IsShipToken(t *testing.T) {
	testCases := []struct {
		name     string
		claims   Claims
		expected bool
	}{
		{name: "no marker claims", claims: Claims{Subject: "user-1"}, expected: false},
		{name: "customerId marker", claims: Claims{CustomerID: "cust-1"}, expected: true},
		{name: "userId marker", claims: Claims{UserID: "user-1"}, expected: true},
		{name: "tokenRequestedFrom marker", claims: Claims{TokenRequestedFrom: "portal"}, expected: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, testCase.claims.IsShipToken())
		})
	}
}

func TestNewUser(t *testing.T) {
	testCases := []struct {
		name          string
		claims        *Claims
		expectedUser  *User
		expectedError error
	}{
		{
			name: "it projects the registered claims",
			claims: &Claims{
				Subject: "user-1",
				Email:   "user@example.com",
				Name:    "User One",
			},
			expectedUser: &User{
				ID:    "user-1",
				Email: "user@example.com",
				Name:  "User One",
				Roles: []string{},
			},
		},
		{
			name: "it prefers userId over sub",
			claims: &Claims{
				Subject: "keycloak-internal-id",
				UserID:  "ship-user-1",
			},
			expectedUser: &User{
				ID:    "ship-user-1",
				Roles: []string{},
			},
		},
		{
			name: "it prefers the tms client's roles",
			claims: &Claims{
				Subject: "user-1",
				ResourceAccess: map[string]ResourceRoles{
					"tms":     {Roles: []string{"dispatcher", "admin"}},
					"account": {Roles: []string{"viewer"}},
				},
			},
			expectedUser: &User{
				ID:    "user-1",
				Roles: []string{"dispatcher", "admin"},
			},
		},
		{
			name: "it flattens other clients in sorted order when tms is absent",
			claims: &Claims{
				Subject: "user-1",
				ResourceAccess: map[string]ResourceRoles{
					"zeta":    {Roles: []string{"ops"}},
					"account": {Roles: []string{"viewer", "ops"}},
				},
			},
			expectedUser: &User{
				ID:    "user-1",
				Roles: []string{"viewer", "ops"},
			},
		},
		{
			name: "it falls through an empty tms entry",
			claims: &Claims{
				Subject: "user-1",
				ResourceAccess: map[string]ResourceRoles{
					"tms":     {},
					"account": {Roles: []string{"viewer"}},
				},
			},
			expectedUser: &User{
				ID:    "user-1",
				Roles: []string{"viewer"},
			},
		},
		{
			name:          "it fails when neither sub nor userId is present",
			claims:        &Claims{Email: "user@example.com"},
			expectedError: ErrMissingSubject,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			user, err := NewUser(testCase.claims)

			if testCase.expectedError != nil {
				require.ErrorIs(t, err, testCase.expectedError)
				return
			}

			require.NoError(t, err)
			if diff := cmp.Diff(testCase.expectedUser, user); diff != "" {
				t.Errorf("user mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRolesDeduplication(t *testing.T) {
	claims := &Claims{
		Subject: "user-1",
		ResourceAccess: map[string]ResourceRoles{
			"account": {Roles: []string{"viewer", "ops"}},
			"billing": {Roles: []string{"ops", "viewer", "billing-admin"}},
		},
	}

	user, err := NewUser(claims)
	require.NoError(t, err)
	assert.Equal(t, []string{"viewer", "ops", "billing-admin"}, user.Roles)
}
