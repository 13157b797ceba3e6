package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/Panopto/LtiAdvantage/tokenclient"
	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/Panopto/LtiAdvantage", "cli")

// Cli provides CLI context to run commands
type Cli struct {
	Cfg      string `help:"Location of the token client config file" required:"" type:"path"`
	Debug    bool   `short:"D" help:"Enable debug mode"`
	LogLevel string `short:"l" help:"Set the logging level (debug|info|warn|error)" default:"error"`

	// Output is the destination for all output from the command, typically set to os.Stdout
	output io.Writer
	// ErrOutput is the destinaton for errors.
	// If not set, errors will be written to os.StdError
	errOutput io.Writer

	ctx       context.Context
	clientCfg *tokenclient.ClientConfig
}

// Context for requests
func (c *Cli) Context() context.Context {
	if c.ctx == nil {
		c.ctx = context.Background()
	}
	return c.ctx
}

// Writer returns a writer for control output
func (c *Cli) Writer() io.Writer {
	if c.output != nil {
		return c.output
	}
	return os.Stdout
}

// WithWriter allows to specify a custom writer
func (c *Cli) WithWriter(out io.Writer) *Cli {
	c.output = out
	return c
}

// ErrWriter returns a writer for control output
func (c *Cli) ErrWriter() io.Writer {
	if c.errOutput != nil {
		return c.errOutput
	}
	return os.Stderr
}

// WithErrWriter allows to specify a custom error writer
func (c *Cli) WithErrWriter(out io.Writer) *Cli {
	c.errOutput = out
	return c
}

// AfterApply hook loads config
func (c *Cli) AfterApply(app *kong.Kong, vars kong.Vars) error {
	if c.Debug {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	} else {
		val := strings.TrimLeft(c.LogLevel, "=")
		l, err := xlog.ParseLevel(strings.ToUpper(val))
		if err != nil {
			return errors.WithStack(err)
		}
		xlog.SetGlobalLogLevel(l)
	}

	return nil
}

// WriteJSON prints response to out
func (c *Cli) WriteJSON(value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errors.WithMessage(err, "failed to encode")
	}
	_, _ = c.Writer().Write(raw)
	_, _ = io.WriteString(c.Writer(), "\n")
	return nil
}

// ClientConfig loads the token client configuration
func (c *Cli) ClientConfig() *tokenclient.ClientConfig {
	if c.clientCfg != nil {
		return c.clientCfg
	}
	cfg, err := tokenclient.LoadConfig(c.Cfg)
	if err != nil {
		logger.Panicf("unable to load client config: [%v]", err)
	}
	c.clientCfg = cfg
	return c.clientCfg
}
