package jwt

import (
	"encoding/base64"

	"github.com/Panopto/LtiAdvantage/claims"
)

// Token is a parsed compact JWT.
type Token struct {
	Raw           string         // the raw token, populated on Parse
	SigningMethod string         // the JWS alg used or to be used
	Header        map[string]any // the first segment of the token
	Payload       *claims.Store  // the second segment of the token
	Signature     string         // the third segment, populated on Parse
	Valid         bool           // populated when the signature verifies
}

// KeyID returns the kid header, if present.
func (t *Token) KeyID() string {
	kid, _ := t.Header["kid"].(string)
	return kid
}

// DecodeSegment JWT specific base64url encoding with padding stripped
func DecodeSegment(seg string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(seg)
}

// EncodeSegment returns JWT specific base64url encoding with padding stripped
func EncodeSegment(seg []byte) string {
	return base64.RawURLEncoding.EncodeToString(seg)
}
