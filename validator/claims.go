package validator

import (
	"encoding/json"
	"errors"
	"sort"
	"time"
)

// ErrMissingSubject is returned by NewUser when the claims carry neither a
// subject nor a SHIP user id.
var ErrMissingSubject = errors.New("missing subject")

// preferredRolesClient is the resource_access client whose roles take
// precedence when projecting a user. Other clients are only consulted when
// this one is absent or empty.
const preferredRolesClient = "tms"

// UnixTime is a seconds-since-epoch claim value. Some issuers emit these
// as floats, so decoding tolerates both integer and fractional numbers.
// Zero means the claim was absent.
type UnixTime int64

func (t *UnixTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*t = UnixTime(int64(f))
	return nil
}

func (t UnixTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(t))
}

// Time converts the claim to a time.Time. Only meaningful when t is not zero.
func (t UnixTime) Time() time.Time { return time.Unix(int64(t), 0) }

// Audience is the aud claim, which issuers serialize either as a single
// string or as an array of strings.
type Audience []string

func (a *Audience) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*a = Audience{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*a = Audience(many)
	return nil
}

// ResourceRoles is one client's entry in the nested resource_access claim.
type ResourceRoles struct {
	Roles []string `json:"roles,omitempty"`
}

// Claims is the decoded token payload. It is populated once during
// validation and never mutated afterwards; a Claims value must not be
// trusted until signature verification has succeeded.
type Claims struct {
	Issuer          string   `json:"iss,omitempty"`
	Subject         string   `json:"sub,omitempty"`
	Audience        Audience `json:"aud,omitempty"`
	AuthorizedParty string   `json:"azp,omitempty"`
	ExpiresAt       UnixTime `json:"exp,omitempty"`
	IssuedAt        UnixTime `json:"iat,omitempty"`
	NotBefore       UnixTime `json:"nbf,omitempty"`
	Email           string   `json:"email,omitempty"`
	Name            string   `json:"name,omitempty"`

	// ResourceAccess is the per-client role structure some identity
	// providers nest into the payload.
	ResourceAccess map[string]ResourceRoles `json:"resource_access,omitempty"`

	// SHIP tokens carry these instead of the registered claims.
	CustomerID         string `json:"customerId,omitempty"`
	UserID             string `json:"userId,omitempty"`
	TokenRequestedFrom string `json:"tokenRequestedFrom,omitempty"`
}

// IsShipToken reports whether the claims carry any SHIP marker field.
// SHIP tokens are issued without an iss claim and are verified against the
// configured shared secret.
func (c *Claims) IsShipToken() bool {
	return c.TokenRequestedFrom != "" || c.UserID != "" || c.CustomerID != ""
}

// User is the normalized identity projected from verified claims.
type User struct {
	ID    string
	Email string
	Name  string
	Roles []string
}

// NewUser projects verified claims into a User. SHIP tokens identify the
// user through userId, so that takes precedence over sub. An absent
// resource_access structure is a valid "no roles" state, not an error.
func NewUser(c *Claims) (*User, error) {
	id := c.UserID
	if id == "" {
		id = c.Subject
	}
	if id == "" {
		return nil, ErrMissingSubject
	}

	return &User{
		ID:    id,
		Email: c.Email,
		Name:  c.Name,
		Roles: rolesFromClaims(c),
	}, nil
}

// rolesFromClaims flattens the nested resource_access structure into a
// deduplicated role list. The preferred client's roles win outright; when
// it has none, every client contributes, visited in sorted order so the
// result is deterministic.
func rolesFromClaims(c *Claims) []string {
	if len(c.ResourceAccess) == 0 {
		return []string{}
	}

	if preferred, ok := c.ResourceAccess[preferredRolesClient]; ok && len(preferred.Roles) > 0 {
		return dedupe(preferred.Roles)
	}

	clients := make([]string, 0, len(c.ResourceAccess))
	for client := range c.ResourceAccess {
		clients = append(clients, client)
	}
	sort.Strings(clients)

	var roles []string
	for _, client := range clients {
		roles = append(roles, c.ResourceAccess[client].Roles...)
	}
	return dedupe(roles)
}

func dedupe(roles []string) []string {
	seen := make(map[string]bool, len(roles))
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		if seen[role] {
			continue
		}
		seen[role] = true
		out = append(out, role)
	}
	return out
}
