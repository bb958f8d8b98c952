/*
Package jwks fetches and caches JSON Web Key Sets published by token issuers.

The package is split along the two responsibilities the validation engine
needs:

  - Fetch performs a single outbound request against a JWKS endpoint and
    parses the document into verification-ready keys. It never retries and
    never caches.
  - Cache holds fetched key sets per endpoint with a freshness horizon and
    LRU eviction, and coalesces concurrent refreshes for the same endpoint
    into one in-flight fetch.

Typical wiring:

	cache, err := jwks.NewCache(
	    jwks.FetchWithClient(httpClient),
	    jwks.WithTTL(10*time.Minute),
	)
	if err != nil {
	    log.Fatal(err)
	}

	key, ok := cache.GetKey(endpoint, kid)
	if !ok {
	    if err := cache.Refresh(ctx, endpoint); err != nil {
	        // transport failure, not a token problem
	    }
	    key, ok = cache.GetKey(endpoint, kid)
	}
*/
package jwks
