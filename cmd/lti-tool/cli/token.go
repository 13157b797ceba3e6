package cli

import (
	"github.com/Panopto/LtiAdvantage/assertion"
	"github.com/Panopto/LtiAdvantage/tokenclient"
	"github.com/cockroachdb/errors"
)

// TokenCmd provides token commands
type TokenCmd struct {
	Sign    SignCmd    `cmd:"" help:"Build and sign a client assertion"`
	Request RequestCmd `cmd:"" help:"Request an access token"`
}

// SignCmd builds and signs a client assertion for the configured
// token endpoint.
type SignCmd struct {
	Audience string `help:"Override the assertion audience"`
}

// Run the command
func (a *SignCmd) Run(cli *Cli) error {
	cfg := cli.ClientConfig()
	key, err := cfg.SigningKey()
	if err != nil {
		return err
	}

	aud := a.Audience
	if aud == "" {
		aud = cfg.Audience
	}
	signed, set, err := assertion.Build(assertion.Request{
		Issuer:        cfg.ClientID,
		Subject:       cfg.ClientID,
		Audience:      aud,
		TokenEndpoint: cfg.TokenURL,
		Key:           key,
	})
	if err != nil {
		return err
	}

	return cli.WriteJSON(map[string]any{
		"assertion": signed,
		"claims":    set,
	})
}

// RequestCmd requests an access token using the client-credentials
// grant with a JWT-bearer assertion.
type RequestCmd struct {
	Scope []string `help:"Override the configured scopes"`
}

// Run the command
func (a *RequestCmd) Run(cli *Cli) error {
	cfg := cli.ClientConfig()
	key, err := cfg.SigningKey()
	if err != nil {
		return err
	}

	if len(a.Scope) > 0 {
		cfg.Scopes = a.Scope
	}

	client := tokenclient.New(cfg)
	token, err := client.RequestToken(cli.Context(), key)
	if err != nil {
		return errors.WithMessage(err, "unable to request access token")
	}

	return cli.WriteJSON(token)
}
