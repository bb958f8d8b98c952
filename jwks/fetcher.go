package jwks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// maxDocumentSize limits the JWKS response body. Real key sets are a few
// kilobytes; anything near this limit is not a key set.
const maxDocumentSize = 1 * 1024 * 1024

// KeySet maps a key identifier (kid) to raw verification key material,
// e.g. *rsa.PublicKey or *ecdsa.PublicKey.
type KeySet map[string]any

// FetchError reports a transport-level failure while retrieving a JWKS
// document. It is distinct from ParseError so callers can tell an
// unreachable identity provider apart from a malformed one.
type FetchError struct {
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("jwks: fetching %s: %s", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a JWKS document that could not be turned into usable
// verification keys. KeyID is set when a single key was at fault and empty
// when the whole document was malformed. Key material is never included.
type ParseError struct {
	Endpoint string
	KeyID    string
	Err      error
}

func (e *ParseError) Error() string {
	if e.KeyID != "" {
		return fmt.Sprintf("jwks: parsing %s: key %q: %s", e.Endpoint, e.KeyID, e.Err)
	}
	return fmt.Sprintf("jwks: parsing %s: %s", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FetchFunc retrieves and parses the key set published at endpoint.
// Cache calls it on refresh; implementations must be safe for concurrent use.
type FetchFunc func(ctx context.Context, endpoint string) (KeySet, error)

// Fetch performs a single GET against the JWKS endpoint and parses the
// response into a KeySet. It does not retry and does not cache; that is the
// Cache's job. Transport failures come back as *FetchError, malformed
// documents as *ParseError.
func Fetch(ctx context.Context, client *http.Client, endpoint string) (KeySet, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	set, err := jwk.ParseReader(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, &ParseError{Endpoint: endpoint, Err: err}
	}

	keys := make(KeySet, set.Len())
	for i := 0; i < set.Len(); i++ {
		key, ok := set.Key(i)
		if !ok {
			continue
		}
		// Encryption keys are published alongside signing keys by some
		// providers; they are not usable for token verification.
		if use := key.KeyUsage(); use != "" && use != string(jwk.ForSignature) {
			continue
		}
		kid := key.KeyID()
		if kid == "" {
			continue
		}

		var raw any
		if err := key.Raw(&raw); err != nil {
			return nil, &ParseError{Endpoint: endpoint, KeyID: kid, Err: err}
		}
		keys[kid] = raw
	}

	return keys, nil
}

// FetchWithClient binds Fetch to an HTTP client, producing a FetchFunc
// suitable for NewCache.
func FetchWithClient(client *http.Client) FetchFunc {
	return func(ctx context.Context, endpoint string) (KeySet, error) {
		return Fetch(ctx, client, endpoint)
	}
}
