// Package keyutil loads PEM encoded private keys into the signing key
// handle consumed by the assertion builder.
package keyutil

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"os"

	"github.com/cockroachdb/errors"
	jose "github.com/go-jose/go-jose/v3"
)

// SigningKey binds a private key to the key id the tool publishes for
// it in its JWKS. The handle is immutable and safe for concurrent use.
type SigningKey struct {
	KeyID  string
	Signer crypto.Signer
}

// NewSigningKey parses a PEM encoded private key into a signing key
// handle.
func NewSigningKey(keyID string, pemKey []byte) (*SigningKey, error) {
	if keyID == "" {
		return nil, errors.Errorf("key id not provided")
	}
	signer, err := ParsePrivateKeyPEM(pemKey)
	if err != nil {
		return nil, err
	}
	return &SigningKey{
		KeyID:  keyID,
		Signer: signer,
	}, nil
}

// LoadSigningKey reads a PEM encoded private key from a file.
func LoadSigningKey(keyID, file string) (*SigningKey, error) {
	pemKey, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WithMessage(err, "unable to load key file")
	}
	key, err := NewSigningKey(keyID, pemKey)
	if err != nil {
		return nil, errors.WithMessagef(err, "unable to load key from file: %s", file)
	}
	return key, nil
}

// JWKS returns the public JWKS document for the key, suitable for
// publication at the tool's key set URL.
func (k *SigningKey) JWKS() jose.JSONWebKeySet {
	return jose.JSONWebKeySet{
		Keys: []jose.JSONWebKey{
			{
				Key:   k.Signer.Public(),
				KeyID: k.KeyID,
				Use:   "sig",
			},
		},
	}
}

// ParsePrivateKeyPEM returns a crypto.Signer parsed from a PKCS#1,
// PKCS#8 or SEC1 PEM block.
func ParsePrivateKeyPEM(pemKey []byte) (crypto.Signer, error) {
	block, _ := pem.Decode(bytes.TrimSpace(pemKey))
	if block == nil {
		return nil, errors.Errorf("key must be PEM encoded")
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.WithMessage(err, "unable to parse RSA private key")
		}
		return key, nil
	case "EC PRIVATE KEY":
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.WithMessage(err, "unable to parse EC private key")
		}
		return key, nil
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.WithMessage(err, "unable to parse private key")
		}
		signer, ok := key.(crypto.Signer)
		if !ok {
			return nil, errors.Errorf("key of %T type does not support crypto.Signer", key)
		}
		return signer, nil
	}
	return nil, errors.Errorf("unsupported PEM block: %s", block.Type)
}

// EncodePrivateKeyToPEM returns the PKCS#8 PEM encoding of the key.
func EncodePrivateKeyToPEM(key crypto.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var buf bytes.Buffer
	err = pem.Encode(&buf, &pem.Block{Type: "PRIVATE KEY", Bytes: der})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}
