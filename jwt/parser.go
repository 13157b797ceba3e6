package jwt

import (
	"context"
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/json"
	"strings"

	"github.com/Panopto/LtiAdvantage/claims"
	"github.com/cockroachdb/errors"
	jose "github.com/go-jose/go-jose/v3"
)

// Keyfunc supplies the verification key for a parsed but unverified
// token, typically by looking up the kid header in a KeySet.
type Keyfunc func(ctx context.Context, token *Token) (any, error)

// TokenParser config
type TokenParser struct {
	// ValidMethods restricts the accepted alg values when populated
	ValidMethods []string
}

// Parse parses the token, resolves the verification key via keyFunc
// and validates the signature. Temporal claim validation (exp, nbf,
// aud) is a caller concern.
func (p *TokenParser) Parse(ctx context.Context, tokenString string, keyFunc Keyfunc) (*Token, error) {
	token, parts, err := p.ParseUnverified(tokenString)
	if err != nil {
		return nil, err
	}

	if p.ValidMethods != nil {
		var methodValid bool
		for _, m := range p.ValidMethods {
			if m == token.SigningMethod {
				methodValid = true
				break
			}
		}
		if !methodValid {
			return nil, errors.Errorf("unsupported signing method: %s", token.SigningMethod)
		}
	}

	key, err := keyFunc(ctx, token)
	if err != nil {
		return nil, errors.WithMessage(err, "unable to resolve verification key")
	}

	token.Signature = parts[2]
	err = VerifySignature(token.SigningMethod, strings.Join(parts[0:2], "."), token.Signature, publicKey(key))
	if err != nil {
		return nil, errors.WithMessage(err, "unable to verify token")
	}

	token.Valid = true
	return token, nil
}

// ParseUnverified parses the token without validating the signature,
// returning the token and its three segments. The payload is decoded
// into a claim store preserving each claim's native JSON shape.
//
// WARNING: only use this when the signature has been checked elsewhere
// in the stack.
func (p *TokenParser) ParseUnverified(tokenString string) (*Token, []string, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, parts, errors.Errorf("malformed token")
	}

	token := &Token{
		Raw: tokenString,
	}

	headerBytes, err := DecodeSegment(parts[0])
	if err != nil {
		return nil, nil, errors.WithMessage(err, "unable to decode header")
	}
	if err = json.Unmarshal(headerBytes, &token.Header); err != nil {
		return nil, nil, errors.WithMessage(err, "unable to unmarshal header")
	}

	claimBytes, err := DecodeSegment(parts[1])
	if err != nil {
		return nil, nil, errors.WithMessage(err, "unable to decode payload")
	}
	token.Payload = claims.NewStore()
	if err = token.Payload.UnmarshalJSON(claimBytes); err != nil {
		return nil, nil, errors.WithMessage(err, "unable to decode payload")
	}

	if method, ok := token.Header["alg"].(string); ok {
		token.SigningMethod = method
	} else {
		return nil, nil, errors.Errorf("invalid token: no alg specified")
	}

	return token, parts, nil
}

// publicKey unwraps JWKS entries to the raw public key
func publicKey(key any) any {
	switch t := key.(type) {
	case jose.JSONWebKey:
		return t.Key
	case *jose.JSONWebKey:
		return t.Key
	case *rsa.PublicKey, *ecdsa.PublicKey:
		return t
	}
	return key
}
