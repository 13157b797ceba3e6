package cli_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Panopto/LtiAdvantage/assertion"
	"github.com/Panopto/LtiAdvantage/cmd/lti-tool/cli"
	"github.com/Panopto/LtiAdvantage/keyutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, tokenURL string) (string, *rsa.PrivateKey) {
	t.Helper()
	dir := t.TempDir()

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemKey, err := keyutil.EncodePrivateKeyToPEM(rsaKey)
	require.NoError(t, err)
	keyFile := filepath.Join(dir, "tool.pem")
	require.NoError(t, os.WriteFile(keyFile, pemKey, 0600))

	cfgFile := filepath.Join(dir, "client.yaml")
	cfg := fmt.Sprintf(`client_id: client-123
token_url: %s
kid: key-1
private_key: %s
scopes:
  - https://purl.imsglobal.org/spec/lti-ags/scope/lineitem
`, tokenURL, keyFile)
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfg), 0600))

	return cfgFile, rsaKey
}

func TestSignCmd(t *testing.T) {
	cfgFile, _ := writeConfig(t, "https://platform.example/token")

	out := &bytes.Buffer{}
	cl := &cli.Cli{Cfg: cfgFile}
	cl.WithWriter(out).WithErrWriter(out)

	cmd := cli.SignCmd{}
	require.NoError(t, cmd.Run(cl))

	assert.Contains(t, out.String(), `"assertion"`)
	assert.Contains(t, out.String(), `"aud": "https://platform.example/token"`)
}

func TestRequestCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	cfgFile, _ := writeConfig(t, server.URL)

	out := &bytes.Buffer{}
	cl := &cli.Cli{Cfg: cfgFile}
	cl.WithWriter(out).WithErrWriter(out)

	cmd := cli.RequestCmd{}
	require.NoError(t, cmd.Run(cl))
	assert.Contains(t, out.String(), `"access_token": "abc"`)
}

func TestShowCmd(t *testing.T) {
	cfgFile, rsaKey := writeConfig(t, "https://platform.example/token")

	signed, _, err := assertion.Build(assertion.Request{
		Issuer:        "client-123",
		Subject:       "client-123",
		TokenEndpoint: "https://platform.example/token",
		Key:           &keyutil.SigningKey{KeyID: "key-1", Signer: rsaKey},
	})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	cl := &cli.Cli{Cfg: cfgFile}
	cl.WithWriter(out).WithErrWriter(out)

	cmd := cli.ShowCmd{Token: signed}
	require.NoError(t, cmd.Run(cl))

	assert.Contains(t, out.String(), `"Name": "iss"`)
	assert.Contains(t, out.String(), `"Value": "client-123"`)
}
