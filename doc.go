/*
Package authsdk validates bearer tokens issued by multiple trust sources
and projects their claims into a normalized user identity.

Tokens are verified under two trust models: asymmetric rotating keys
published as JWKS by remote identity providers, and a static shared secret
for SHIP tokens. The SDK only verifies tokens; it never issues or signs
them.

# Quick Start

	sdk, err := authsdk.New(authsdk.Config{
	    JWKSIssuers: map[string]string{
	        "https://idp.example.com": "https://idp.example.com/protocol/openid-connect/certs",
	    },
	    SymmetricSecret: os.Getenv("SHIP_TOKEN_SECRET"),
	})
	if err != nil {
	    log.Fatal(err)
	}

	outcome, err := sdk.ValidateToken(ctx, token)
	if err != nil {
	    // the identity provider could not be reached; the token may be fine
	}
	if outcome.IsValid() {
	    user, _ := validator.NewUser(outcome.Claims)
	    fmt.Println(user.ID, user.Roles)
	}

For HTTP servers, sdk.Middleware wraps handlers with extraction and
validation; the framework and integrations subpackages adapt it to gin,
echo, and gRPC.
*/
package authsdk
