package tokenclient_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Panopto/LtiAdvantage/jwt"
	"github.com/Panopto/LtiAdvantage/keyutil"
	"github.com/Panopto/LtiAdvantage/tokenclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Exchange(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"grant_type":            r.PostForm.Get("grant_type"),
			"client_assertion_type": r.PostForm.Get("client_assertion_type"),
			"client_assertion":      r.PostForm.Get("client_assertion"),
			"scope":                 r.PostForm.Get("scope"),
			"client_id":             r.PostForm.Get("client_id"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	client := tokenclient.New(&tokenclient.ClientConfig{
		ClientID: "client-123",
		TokenURL: server.URL,
		Scopes: []string{
			"https://purl.imsglobal.org/spec/lti-ags/scope/lineitem",
			"https://purl.imsglobal.org/spec/lti-ags/scope/score",
		},
	}).WithHTTPClient(server.Client())

	token, err := client.Exchange(context.Background(), "signed.assertion.value")
	require.NoError(t, err)
	assert.Equal(t, "abc", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int64(3600), token.ExpiresIn)

	assert.Equal(t, map[string]string{
		"grant_type":            "client_credentials",
		"client_assertion_type": "urn:ietf:params:oauth:client-assertion-type:jwt-bearer",
		"client_assertion":      "signed.assertion.value",
		"scope":                 "https://purl.imsglobal.org/spec/lti-ags/scope/lineitem https://purl.imsglobal.org/spec/lti-ags/scope/score",
		"client_id":             "client-123",
	}, gotForm)
}

func Test_Exchange_EndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"unknown client"}`))
	}))
	defer server.Close()

	client := tokenclient.New(&tokenclient.ClientConfig{TokenURL: server.URL})

	_, err := client.Exchange(context.Background(), "signed.assertion.value")
	require.Error(t, err)

	var epErr *tokenclient.EndpointError
	require.ErrorAs(t, err, &epErr)
	assert.Equal(t, http.StatusBadRequest, epErr.StatusCode)
	assert.Equal(t, "invalid_client", epErr.Code)
	assert.Equal(t, "unknown client", epErr.Description)
	assert.EqualError(t, err, "token endpoint returned invalid_client: unknown client")
}

func Test_Exchange_EndpointError_NotOAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client := tokenclient.New(&tokenclient.ClientConfig{TokenURL: server.URL})

	_, err := client.Exchange(context.Background(), "signed.assertion.value")
	require.Error(t, err)

	var epErr *tokenclient.EndpointError
	require.ErrorAs(t, err, &epErr)
	assert.Equal(t, http.StatusBadGateway, epErr.StatusCode)
	assert.Empty(t, epErr.Code)
	assert.EqualError(t, err, "token endpoint returned status 502")
}

func Test_Exchange_DecodeError(t *testing.T) {
	body := "not json"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := tokenclient.New(&tokenclient.ClientConfig{TokenURL: server.URL})

	_, err := client.Exchange(context.Background(), "signed.assertion.value")
	require.Error(t, err)
	var decErr *tokenclient.DecodeError
	require.ErrorAs(t, err, &decErr)

	body = `{"token_type":"Bearer"}`
	_, err = client.Exchange(context.Background(), "signed.assertion.value")
	require.ErrorAs(t, err, &decErr)
	assert.EqualError(t, err, "unable to decode token response: missing access_token in response")
}

func Test_Exchange_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := tokenclient.New(&tokenclient.ClientConfig{TokenURL: server.URL})

	_, err := client.Exchange(context.Background(), "signed.assertion.value")
	require.Error(t, err)
	var trErr *tokenclient.TransportError
	require.ErrorAs(t, err, &trErr)
}

func Test_Exchange_Validation(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	var ve *tokenclient.ValidationError

	client := tokenclient.New(&tokenclient.ClientConfig{})
	_, err := client.Exchange(context.Background(), "signed.assertion.value")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "token endpoint", ve.Field)

	client = tokenclient.New(&tokenclient.ClientConfig{TokenURL: server.URL})
	_, err = client.Exchange(context.Background(), "")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "client assertion", ve.Field)

	// validation failures never reach the endpoint
	assert.Equal(t, 0, hits)
}

func Test_RequestToken(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	key := &keyutil.SigningKey{KeyID: "key-1", Signer: rsaKey}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())

		// the assertion is a freshly signed JWT for this endpoint
		parser := jwt.TokenParser{}
		token, err := parser.Parse(r.Context(), r.PostForm.Get("client_assertion"),
			jwt.StaticKeyfunc("key-1", &rsaKey.PublicKey))
		require.NoError(t, err)

		iss, _ := token.Payload.Get("iss")
		assert.Equal(t, "client-123", iss.Str())

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	client := tokenclient.New(&tokenclient.ClientConfig{
		ClientID: "client-123",
		TokenURL: server.URL,
		Scopes:   []string{"https://purl.imsglobal.org/spec/lti-ags/scope/lineitem"},
	}).WithHTTPClient(server.Client())

	token, err := client.RequestToken(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "abc", token.AccessToken)

	// missing key is a validation failure before any I/O
	_, err = client.RequestToken(context.Background(), nil)
	require.Error(t, err)
	assert.EqualError(t, err, "missing required input: signing key")
}
