package keyutil_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"os"
	"path/filepath"
	"testing"

	"github.com/Panopto/LtiAdvantage/keyutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewSigningKey(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemKey, err := keyutil.EncodePrivateKeyToPEM(rsaKey)
	require.NoError(t, err)

	key, err := keyutil.NewSigningKey("key-1", pemKey)
	require.NoError(t, err)
	assert.Equal(t, "key-1", key.KeyID)
	assert.NotNil(t, key.Signer)

	jwks := key.JWKS()
	require.Len(t, jwks.Keys, 1)
	assert.Equal(t, "key-1", jwks.Keys[0].KeyID)
	assert.Equal(t, "sig", jwks.Keys[0].Use)

	_, err = keyutil.NewSigningKey("", pemKey)
	assert.EqualError(t, err, "key id not provided")

	_, err = keyutil.NewSigningKey("key-1", []byte("invalid"))
	assert.EqualError(t, err, "key must be PEM encoded")
}

func Test_ParsePrivateKeyPEM_EC(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	pemKey, err := keyutil.EncodePrivateKeyToPEM(ecKey)
	require.NoError(t, err)

	signer, err := keyutil.ParsePrivateKeyPEM(pemKey)
	require.NoError(t, err)
	assert.Equal(t, ecKey.Public(), signer.Public())
}

func Test_LoadSigningKey(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemKey, err := keyutil.EncodePrivateKeyToPEM(rsaKey)
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "tool.pem")
	require.NoError(t, os.WriteFile(file, pemKey, 0600))

	key, err := keyutil.LoadSigningKey("key-1", file)
	require.NoError(t, err)
	assert.Equal(t, "key-1", key.KeyID)

	_, err = keyutil.LoadSigningKey("key-1", filepath.Join(t.TempDir(), "missing.pem"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to load key file")
}
