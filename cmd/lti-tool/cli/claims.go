package cli

import (
	"net/http"

	"github.com/Panopto/LtiAdvantage/claims"
	"github.com/Panopto/LtiAdvantage/jwt"
)

// ClaimsCmd provides claims commands
type ClaimsCmd struct {
	Show ShowCmd `cmd:"" help:"Show the claims carried in a token"`
}

// ShowCmd projects the claims of a compact token.
type ShowCmd struct {
	Token  string `arg:"" help:"Compact token"`
	Verify bool   `help:"Verify the signature against the platform JWKS"`
}

// Run the command
func (a *ShowCmd) Run(cli *Cli) error {
	parser := jwt.TokenParser{}

	var token *jwt.Token
	var err error
	if a.Verify {
		keySet := jwt.NewRemoteKeySet(cli.ClientConfig().JwksURL, http.DefaultClient)
		token, err = parser.Parse(cli.Context(), a.Token, keySet.Keyfunc())
	} else {
		token, _, err = parser.ParseUnverified(a.Token)
	}
	if err != nil {
		return err
	}

	issuer, err := claims.Get[string](token.Payload, claims.ClaimIssuer)
	if err != nil {
		return err
	}

	return cli.WriteJSON(map[string]any{
		"header":   token.Header,
		"verified": token.Valid,
		"claims":   claims.Project(token.Payload, issuer),
	})
}
