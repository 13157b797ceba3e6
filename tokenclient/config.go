package tokenclient

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/Panopto/LtiAdvantage/keyutil"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ClientConfig provides token client configuration
type ClientConfig struct {
	// ClientID issued to the tool during platform registration
	ClientID string `json:"client_id" yaml:"client_id"`
	// TokenURL specifies the platform's access token endpoint
	TokenURL string `json:"token_url" yaml:"token_url"`
	// Scopes requested by the tool
	Scopes []string `json:"scopes" yaml:"scopes"`
	// Audience of the client assertion, defaults to TokenURL
	Audience string `json:"audience" yaml:"audience"`
	// JwksURL specifies the platform's public key set
	JwksURL string `json:"jwks_url" yaml:"jwks_url"`
	// KeyID of the tool's signing key
	KeyID string `json:"kid" yaml:"kid"`
	// PrivateKeyFile holds the PEM encoded tool private key
	PrivateKeyFile string `json:"private_key" yaml:"private_key"`
}

// LoadConfig returns configuration loaded from a file
func LoadConfig(file string) (*ClientConfig, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var config ClientConfig
	if strings.HasSuffix(file, ".json") {
		err = json.Unmarshal(raw, &config)
		if err != nil {
			return nil, errors.WithMessagef(err, "unable to unmarshal JSON: %q", file)
		}
	} else {
		err = yaml.Unmarshal(raw, &config)
		if err != nil {
			return nil, errors.WithMessagef(err, "unable to unmarshal YAML: %q", file)
		}
	}
	return &config, nil
}

// SigningKey loads the signing key named by the configuration.
func (c *ClientConfig) SigningKey() (*keyutil.SigningKey, error) {
	return keyutil.LoadSigningKey(c.KeyID, c.PrivateKeyFile)
}
