package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Panopto/LtiAdvantage/cmd/lti-tool/cli"
	"github.com/alecthomas/kong"
)

type app struct {
	cli.Cli

	Token  cli.TokenCmd  `cmd:"" help:"Client assertion and access token commands"`
	Claims cli.ClaimsCmd `cmd:"" help:"Token claims commands"`
}

func main() {
	realMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

func realMain(args []string, out io.Writer, errout io.Writer, exit func(int)) {
	cl := app{
		Cli: cli.Cli{},
	}
	cl.Cli.WithErrWriter(errout).
		WithWriter(out)

	parser, err := kong.New(&cl,
		kong.Name("lti-tool"),
		kong.Description("CLI tool for LTI Advantage client assertions and access tokens"),
		kong.Writers(out, errout),
		kong.Exit(exit),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}))
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args[1:])
	parser.FatalIfErrorf(err)

	if ctx != nil {
		if cl.Debug {
			// in DEBUG mode print command line
			_, _ = fmt.Fprintf(ctx.Stdout, "#\n# %s\n#\n", strings.Join(args, " "))
		}
		err = ctx.Run(&cl.Cli)
		ctx.FatalIfErrorf(err)
	}
}
