package jwt

import (
	"context"
	"crypto"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
	jose "github.com/go-jose/go-jose/v3"
)

// KeySet is an interface for resolving JWT verification keys.
type KeySet interface {
	GetKey(ctx context.Context, kid string) (any, error)
}

// StaticKeySet resolves keys from a fixed list of public keys.
type StaticKeySet struct {
	// Keys used to verify tokens. Supported key types are
	// *rsa.PublicKey and *ecdsa.PublicKey.
	Keys []jose.JSONWebKey
}

// GetKey returns the public key for the given kid.
func (s *StaticKeySet) GetKey(ctx context.Context, kid string) (any, error) {
	for _, key := range s.Keys {
		if kid == "" || key.KeyID == kid {
			return key.Key, nil
		}
	}
	return nil, errors.Errorf("key not found: %s", kid)
}

// StaticKeyfunc returns a Keyfunc resolving the parsed token's kid
// against a fixed public key.
func StaticKeyfunc(kid string, key crypto.PublicKey) Keyfunc {
	return func(ctx context.Context, token *Token) (any, error) {
		if tokenKid := token.KeyID(); tokenKid != "" && tokenKid != kid {
			return nil, errors.Errorf("key not found: %s", tokenKid)
		}
		return key, nil
	}
}

// RemoteKeySet resolves keys against a remote JWKS endpoint, such as a
// platform's published key set. Keys are cached; an unknown kid forces
// a refetch, which is the rotation strategy recommended by OpenID
// Connect Core.
type RemoteKeySet struct {
	jwksURL string
	client  *http.Client

	// guard all other fields
	mu sync.Mutex

	// inflight suppresses parallel fetches and lets multiple
	// goroutines wait for one result
	inflight *inflight

	cachedKeys []jose.JSONWebKey
}

// NewRemoteKeySet returns a KeySet backed by the JWKS hosted at
// jwksURL. The HTTP client is owned by the caller; nil selects
// http.DefaultClient. Reuse one RemoteKeySet per URL rather than
// creating them per request.
func NewRemoteKeySet(jwksURL string, client *http.Client) *RemoteKeySet {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteKeySet{
		jwksURL: jwksURL,
		client:  client,
	}
}

// Keyfunc adapts the key set for TokenParser.Parse.
func (r *RemoteKeySet) Keyfunc() Keyfunc {
	return func(ctx context.Context, token *Token) (any, error) {
		return r.GetKey(ctx, token.KeyID())
	}
}

// GetKey returns the public key for the given kid.
func (r *RemoteKeySet) GetKey(ctx context.Context, kid string) (any, error) {
	r.mu.Lock()
	cached := r.cachedKeys
	r.mu.Unlock()

	if key, ok := findKey(cached, kid); ok {
		return key, nil
	}

	keys, err := r.fetch(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "unable to fetch JWKS key")
	}
	if key, ok := findKey(keys, kid); ok {
		return key, nil
	}
	return nil, errors.Errorf("key not found: %s", kid)
}

func findKey(keys []jose.JSONWebKey, kid string) (any, bool) {
	for _, key := range keys {
		if kid == "" || key.KeyID == kid {
			return key.Key, true
		}
	}
	return nil, false
}

type inflight struct {
	doneCh chan struct{}

	keys []jose.JSONWebKey
	err  error
}

// fetch loads the key set from the remote endpoint, collapsing
// concurrent callers onto one request.
func (r *RemoteKeySet) fetch(ctx context.Context) ([]jose.JSONWebKey, error) {
	r.mu.Lock()
	if r.inflight == nil {
		r.inflight = &inflight{doneCh: make(chan struct{})}

		go func(fl *inflight) {
			fl.keys, fl.err = r.updateKeys(context.Background())

			r.mu.Lock()
			if fl.err == nil {
				r.cachedKeys = fl.keys
			}
			r.inflight = nil
			r.mu.Unlock()

			close(fl.doneCh)
		}(r.inflight)
	}
	fl := r.inflight
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-fl.doneCh:
		return fl.keys, fl.err
	}
}

func (r *RemoteKeySet) updateKeys(ctx context.Context) ([]jose.JSONWebKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.jwksURL, nil)
	if err != nil {
		return nil, errors.WithMessage(err, "unable to create request")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.WithMessage(err, "unable to fetch keys")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithMessage(err, "unable to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("get keys failed: %s %s", resp.Status, body)
	}

	var keySet jose.JSONWebKeySet
	err = json.Unmarshal(body, &keySet)
	if err != nil {
		return nil, errors.Errorf("unable to decode keys: %v %s", err, body)
	}
	return keySet.Keys, nil
}
