// Package jwt provides compact JWT signing and parsing over an ordered
// claim store.
//
// Signing is built on crypto.Signer so the private key may live in
// memory, in an HSM, or behind a KMS. Parsing produces a claims.Store
// that preserves the exact JSON shape of every claim. A remote JWKS
// key set is provided for platform public key discovery.
package jwt
