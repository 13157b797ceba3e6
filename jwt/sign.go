package jwt

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"math/big"

	"github.com/Panopto/LtiAdvantage/claims"
	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

type hasher struct {
	hash crypto.Hash
}

func (h hasher) HashFunc() crypto.Hash {
	return h.hash
}

// SignerInfo binds a signing key to the JWS algorithm selected from the
// key's type and size.
type SignerInfo struct {
	hasher  hasher
	keySize int
	algo    string
	signer  crypto.Signer
}

// NewSignerInfo returns *SignerInfo for the given key.
// RSA and ECDSA keys are supported.
func NewSignerInfo(signer crypto.Signer) (*SignerInfo, error) {
	si := &SignerInfo{
		signer: signer,
	}

	switch typ := signer.Public().(type) {
	case *rsa.PublicKey:
		si.keySize = typ.N.BitLen()
		switch {
		case si.keySize >= 4096:
			si.algo = "RS512"
			si.hasher.hash = crypto.SHA512
		case si.keySize >= 3072:
			si.algo = "RS384"
			si.hasher.hash = crypto.SHA384
		default:
			si.algo = "RS256"
			si.hasher.hash = crypto.SHA256
		}
	case *ecdsa.PublicKey:
		switch typ.Curve {
		case elliptic.P521():
			si.algo = "ES512"
			si.hasher.hash = crypto.SHA512
		case elliptic.P384():
			si.algo = "ES384"
			si.hasher.hash = crypto.SHA384
		default:
			si.algo = "ES256"
			si.hasher.hash = crypto.SHA256
		}
		si.keySize = typ.Curve.Params().BitSize
	default:
		return nil, errors.Errorf("public key not supported: %T", typ)
	}
	return si, nil
}

// Algorithm returns the JWS alg header value for this key.
func (si *SignerInfo) Algorithm() string {
	return si.algo
}

// Public returns the public part of the signing key.
func (si *SignerInfo) Public() crypto.PublicKey {
	return si.signer.Public()
}

// SignClaims serializes the claim set in its insertion order and
// returns the signed compact token. Extra headers are merged into the
// standard {"typ","alg"} header.
func (si *SignerInfo) SignClaims(set *claims.Store, headers map[string]any) (string, error) {
	header := map[string]any{
		"typ": "JWT",
		"alg": si.algo,
	}
	for k, v := range headers {
		header[k] = v
	}

	jsonHeader, err := json.Marshal(header)
	if err != nil {
		return "", errors.WithStack(err)
	}
	jsonClaims, err := set.MarshalJSON()
	if err != nil {
		return "", errors.WithStack(err)
	}

	sstr := EncodeSegment(jsonHeader) + "." + EncodeSegment(jsonClaims)
	sig, err := si.sign(sstr)
	if err != nil {
		return "", err
	}
	return sstr + "." + sig, nil
}

// sign returns the encoded signature segment
func (si *SignerInfo) sign(signingString string) (string, error) {
	h := si.hasher.hash.New()
	h.Write([]byte(signingString))

	sig, err := si.signer.Sign(rand.Reader, h.Sum(nil), si.hasher)
	if err != nil {
		return "", errors.WithMessage(err, "unable to sign")
	}

	switch si.algo {
	case "ES256", "ES384", "ES512":
		// for ECDSA, crypto.Signer produces ASN1{r,s}
		var (
			r, s  = &big.Int{}, &big.Int{}
			inner cryptobyte.String
		)
		input := cryptobyte.String(sig)
		if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
			!input.Empty() ||
			!inner.ReadASN1Integer(r) ||
			!inner.ReadASN1Integer(s) ||
			!inner.Empty() {
			return "", errors.Errorf("unable to decode ECDSA signature")
		}

		keyBytes := si.keySize / 8
		if si.keySize%8 > 0 {
			keyBytes++
		}

		// JWS wants r||s as fixed-width big-endian values
		out := make([]byte, 2*keyBytes)
		r.FillBytes(out[0:keyBytes])
		s.FillBytes(out[keyBytes:])

		return EncodeSegment(out), nil

	case "RS256", "RS384", "RS512":
		return EncodeSegment(sig), nil
	}
	return "", errors.Errorf("unsupported algorithm: %s", si.algo)
}

var hashMap = map[string]crypto.Hash{
	"ES256": crypto.SHA256,
	"ES384": crypto.SHA384,
	"ES512": crypto.SHA512,
	"RS256": crypto.SHA256,
	"RS384": crypto.SHA384,
	"RS512": crypto.SHA512,
}

var curveMap = map[string]elliptic.Curve{
	"ES256": elliptic.P256(),
	"ES384": elliptic.P384(),
	"ES512": elliptic.P521(),
}

// VerifySignature returns error if the JWT signature is invalid.
// key must be *rsa.PublicKey or *ecdsa.PublicKey depending on algo.
func VerifySignature(algo, signingString, signature string, key any) error {
	sig, err := DecodeSegment(signature)
	if err != nil {
		return errors.Errorf("invalid signature")
	}

	h := hashMap[algo]
	if h == 0 {
		return errors.Errorf("unsupported algorithm: %s", algo)
	}

	hasher := h.New()
	hasher.Write([]byte(signingString))

	switch algo {
	case "ES256", "ES384", "ES512":
		curve := curveMap[algo]
		curveBits := curve.Params().BitSize
		keySize := curveBits / 8
		if curveBits%8 > 0 {
			keySize++
		}
		if len(sig) != 2*keySize {
			return errors.Errorf("invalid ECDSA signature length: %s", algo)
		}
		r := big.NewInt(0).SetBytes(sig[:keySize])
		s := big.NewInt(0).SetBytes(sig[keySize:])
		ecdsaKey, ok := key.(*ecdsa.PublicKey)
		if !ok {
			return errors.Errorf("invalid key type for ECDSA signature: %T", key)
		}
		if !ecdsa.Verify(ecdsaKey, hasher.Sum(nil), r, s) {
			return errors.Errorf("ecdsa: invalid signature")
		}
		return nil
	case "RS256", "RS384", "RS512":
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return errors.Errorf("invalid key type for RSA signature: %T", key)
		}
		err = rsa.VerifyPKCS1v15(rsaKey, h, hasher.Sum(nil), sig)
		if err != nil {
			return errors.WithStack(err)
		}
		return nil
	}
	return errors.Errorf("unsupported algorithm: %s", algo)
}
