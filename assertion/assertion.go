// Package assertion builds the short-lived self-signed JWT a tool
// presents as client authentication evidence in the client-credentials
// grant.
package assertion

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/Panopto/LtiAdvantage/claims"
	"github.com/Panopto/LtiAdvantage/jwt"
	"github.com/Panopto/LtiAdvantage/keyutil"
	"github.com/Panopto/LtiAdvantage/metricskey"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/Panopto/LtiAdvantage", "assertion")

const (
	// Lifetime is the assertion validity window, kept short since the
	// assertion is single use
	Lifetime = 5 * time.Minute
	// NotBeforeSkew tolerates clock skew at the receiving party
	NotBeforeSkew = 5 * time.Second

	// jtiSize is the entropy, in bytes, of the unique token id
	jtiSize = 32
)

// TimeNowFn to override in unit tests
var TimeNowFn = time.Now

// ValidationError reports a missing required input. It is detected
// before the claim set is constructed and before any network activity.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required input: %s", e.Field)
}

// Request carries the inputs for one client assertion.
type Request struct {
	// Issuer is the client id of the tool, carried as iss and
	// conventionally equal to Subject
	Issuer string
	// Subject is the client id of the tool, carried as sub
	Subject string
	// Audience identifies the authorization server; when empty, the
	// token endpoint URL is used
	Audience string
	// TokenEndpoint is the audience fallback
	TokenEndpoint string
	// Key signs the assertion; its KeyID is placed in the kid header
	Key *keyutil.SigningKey
}

// Build constructs and signs the assertion, returning the compact
// token and the claim set it carries. The claim set is never mutated
// after signing.
func Build(req Request) (string, *claims.Store, error) {
	if req.Issuer == "" {
		return "", nil, &ValidationError{Field: "issuer"}
	}
	if req.Subject == "" {
		return "", nil, &ValidationError{Field: "subject"}
	}
	aud := req.Audience
	if aud == "" {
		aud = req.TokenEndpoint
	}
	if aud == "" {
		return "", nil, &ValidationError{Field: "audience"}
	}
	if req.Key == nil || req.Key.Signer == nil {
		return "", nil, &ValidationError{Field: "signing key"}
	}
	if req.Key.KeyID == "" {
		return "", nil, &ValidationError{Field: "key id"}
	}

	si, err := jwt.NewSignerInfo(req.Key.Signer)
	if err != nil {
		return "", nil, err
	}
	defer metricskey.PerfAssertionSign.MeasureSince(time.Now(), si.Algorithm())

	jti, err := newID()
	if err != nil {
		return "", nil, err
	}
	now := TimeNowFn().UTC()

	set := claims.NewStore()
	var setErr error
	add := func(name string, val any) {
		if setErr == nil {
			setErr = claims.Set(set, name, val)
		}
	}
	add(claims.ClaimIssuer, req.Issuer)
	add(claims.ClaimSubject, req.Subject)
	add(claims.ClaimAudience, aud)
	add(claims.ClaimIssuedAt, now.Unix())
	add(claims.ClaimNotBefore, now.Add(-NotBeforeSkew).Unix())
	add(claims.ClaimExpiresAt, now.Add(Lifetime).Unix())
	add(claims.ClaimID, jti)
	if setErr != nil {
		return "", nil, setErr
	}

	token, err := si.SignClaims(set, map[string]any{"kid": req.Key.KeyID})
	if err != nil {
		return "", nil, errors.WithMessage(err, "unable to sign assertion")
	}

	logger.KV(xlog.DEBUG, "iss", req.Issuer, "aud", aud, "kid", req.Key.KeyID, "alg", si.Algorithm())

	return token, set, nil
}

// newID returns a fresh unique token id from a cryptographically
// secure source, preventing assertion replay.
func newID() (string, error) {
	b := make([]byte, jtiSize)
	if _, err := rand.Read(b); err != nil {
		return "", errors.WithMessage(err, "unable to generate token id")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
