/*
Package validator implements the multi-issuer token validation engine.

A Validator resolves the token's unverified issuer claim against a Registry
of trust descriptors, obtains the matching verification key (from a JWKS
key provider for asymmetric issuers, or a configured shared secret for the
symmetric issuer), verifies the signature, checks time-based claims, and
produces an Outcome.

Validation results travel on two channels that must not be conflated:
routine verdicts about the token (valid, expired, bad signature, unknown
issuer) are Outcome values, while failures to reach the trust
infrastructure (a JWKS endpoint that cannot be fetched) are returned as
errors so callers can tell "this token is bad" from "the identity provider
is unreachable".
*/
package validator
