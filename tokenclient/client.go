// Package tokenclient exchanges a signed client assertion for an
// OAuth2 access token using the client-credentials grant with a
// JWT-bearer assertion.
package tokenclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Panopto/LtiAdvantage/assertion"
	"github.com/Panopto/LtiAdvantage/keyutil"
	"github.com/Panopto/LtiAdvantage/metricskey"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"golang.org/x/oauth2"
)

var logger = xlog.NewPackageLogger("github.com/Panopto/LtiAdvantage", "tokenclient")

// Token endpoint protocol constants.
const (
	// GrantTypeClientCredentials is the grant_type value
	GrantTypeClientCredentials = "client_credentials"
	// ClientAssertionType is the client_assertion_type value
	ClientAssertionType = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"
)

// DefaultTimeout bounds a token request when the caller's context
// carries no deadline.
const DefaultTimeout = 30 * time.Second

// TokenResponse is the success result of a token exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// Client requests access tokens from a platform's token endpoint. The
// HTTP transport is owned by the client and safe for concurrent use;
// retry policy is a caller concern.
type Client struct {
	cfg        *ClientConfig
	httpClient *http.Client
}

// New returns a new Client
func New(cfg *ClientConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Config returns the client configuration
func (c *Client) Config() *ClientConfig {
	return c.cfg
}

// WithHTTPClient replaces the HTTP transport, e.g. to configure TLS or
// a custom timeout.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// CreateTokenRequest returns a new *http.Request to retrieve a token
// from the configured endpoint with the provided POST body parameters.
func (c *Client) CreateTokenRequest(ctx context.Context, v url.Values, authStyle oauth2.AuthStyle) (*http.Request, error) {
	if authStyle == oauth2.AuthStyleInParams {
		v = cloneURLValues(v)
		v.Set("client_id", c.cfg.ClientID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(v.Encode()))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if authStyle == oauth2.AuthStyleInHeader {
		req.SetBasicAuth(url.QueryEscape(c.cfg.ClientID), "")
	}

	return req, nil
}

// Exchange sends the signed assertion to the token endpoint and
// returns the access token. Failures are structured: *ValidationError
// before any I/O, *TransportError for network faults, *EndpointError
// for OAuth error responses and *DecodeError for unparsable success
// bodies.
func (c *Client) Exchange(ctx context.Context, signedAssertion string) (*TokenResponse, error) {
	if c.cfg.TokenURL == "" {
		return nil, &ValidationError{Field: "token endpoint"}
	}
	if signedAssertion == "" {
		return nil, &ValidationError{Field: "client assertion"}
	}

	v := url.Values{}
	v.Set("grant_type", GrantTypeClientCredentials)
	v.Set("client_assertion_type", ClientAssertionType)
	v.Set("client_assertion", signedAssertion)
	v.Set("scope", strings.Join(c.cfg.Scopes, " "))

	req, err := c.CreateTokenRequest(ctx, v, oauth2.AuthStyleInParams)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metricskey.PerfTokenExchange.MeasureSince(started, c.cfg.TokenURL, "transport_error")
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metricskey.PerfTokenExchange.MeasureSince(started, c.cfg.TokenURL, "transport_error")
		return nil, &TransportError{Err: err}
	}
	metricskey.PerfTokenExchange.MeasureSince(started, c.cfg.TokenURL, strconv.Itoa(resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		epErr := &EndpointError{StatusCode: resp.StatusCode}
		// best effort; Code stays empty when the body is not OAuth
		_ = json.Unmarshal(body, epErr)
		logger.KV(xlog.DEBUG, "endpoint", c.cfg.TokenURL, "status", resp.StatusCode, "err", epErr.Code)
		return nil, epErr
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if token.AccessToken == "" {
		return nil, &DecodeError{Err: errors.Errorf("missing access_token in response")}
	}

	logger.KV(xlog.DEBUG, "endpoint", c.cfg.TokenURL, "token_type", token.TokenType, "expires_in", token.ExpiresIn)

	return &token, nil
}

// RequestToken builds a fresh client assertion with the given key and
// exchanges it for an access token.
func (c *Client) RequestToken(ctx context.Context, key *keyutil.SigningKey) (*TokenResponse, error) {
	signed, _, err := assertion.Build(assertion.Request{
		Issuer:        c.cfg.ClientID,
		Subject:       c.cfg.ClientID,
		Audience:      c.cfg.Audience,
		TokenEndpoint: c.cfg.TokenURL,
		Key:           key,
	})
	if err != nil {
		return nil, err
	}
	return c.Exchange(ctx, signed)
}

func cloneURLValues(v url.Values) url.Values {
	v2 := make(url.Values, len(v))
	for k, vv := range v {
		v2[k] = append([]string(nil), vv...)
	}
	return v2
}
