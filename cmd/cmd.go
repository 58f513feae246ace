// Package cmd parses args and runs the commands of the application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"tavern/app"
	"tavern/config"
	"tavern/metric"
	"tavern/server"
)

// Exit statuses.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// errUsage marks errors caused by wrong arguments.
var errUsage = errors.New("usage error")

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, w io.Writer, args []string) error
}

var commands = []command{
	{name: "webserver", usage: "start the HTTP API [-port -debug -key -cert -metrics-port]", run: runWebserver},
	{name: "bash", usage: "run an interactive shell", run: runBash},
	{name: "payments_checker", usage: "run the configured payments checker command", run: runPaymentsChecker},
	{name: "migrate", usage: "apply database migrations", run: runMigrate},
	{name: "create-rooms", usage: "create permanent video rooms [-count N] [-start ID]", run: runCreateRooms},
	{name: "help", usage: "print this help"},
}

// Run runs the command named by the first argument and returns the exit status.
func Run(ctx context.Context, stdout, stderr io.Writer, args []string) int {
	if len(args) == 0 {
		Usage(stderr)
		return ExitUsage
	}

	name, rest := args[0], args[1:]
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if c.run == nil {
			Usage(stdout)
			return ExitOK
		}
		err := c.run(ctx, stdout, rest)
		switch {
		case err == nil:
			return ExitOK
		case errors.Is(err, flag.ErrHelp):
			return ExitOK
		case errors.Is(err, errUsage):
			fmt.Fprintln(stderr, err)
			return ExitUsage
		default:
			log.Error().Err(err).Str("command", name).Msg("command failed")
			return ExitError
		}
	}

	fmt.Fprintf(stderr, "unknown command %q\n", name)
	Usage(stderr)
	return ExitUsage
}

// Usage prints the list of commands.
func Usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tavern <command> [flags]")
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", c.name, c.usage)
	}
	_ = tw.Flush()
}

// SetupConfig sets up and returns the configuration of the webserver.
func SetupConfig(w io.Writer, args []string) (app.Config, error) {
	config, err := Parse(w, args)
	if err != nil {
		return config, err
	}
	if err = config.Server.Validate(); err != nil {
		return config, err
	}
	if config.Metrics.Port < 0 || config.Metrics.Port > 65535 {
		return config, fmt.Errorf("metrics port must be between 0 and 65535, given %d: %w", config.Metrics.Port, server.ErrInvalidPort)
	}
	return config, nil
}

// Parse parses the command line arguments of the webserver.
func Parse(w io.Writer, args []string) (app.Config, error) {
	con := app.Config{
		Metrics: metric.Config{Path: metric.DefaultMetricsPath},
	}

	fs := flag.NewFlagSet("webserver", flag.ContinueOnError)
	fs.SetOutput(w)
	fs.IntVar(&con.Server.Port, "port", server.DefaultPort, "listening port")
	fs.BoolVar(&con.Server.Debug, "debug", false, "debug mode")
	fs.StringVar(&con.Server.KeyFile, "key", "", "key file path")
	fs.StringVar(&con.Server.CertFile, "cert", "", "cert file path")
	fs.IntVar(&con.Metrics.Port, "metrics-port", metric.DefaultMetricsPort, "metrics port, 0 disables it")

	err := fs.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return app.Config{}, err
		}
		return app.Config{}, fmt.Errorf("failed to parse args: %w: %w", err, errUsage)
	}

	if fs.NArg() != 0 {
		return app.Config{}, fmt.Errorf("some args are not parsed: %w", errUsage)
	}

	return con, nil
}

func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func runWebserver(ctx context.Context, w io.Writer, args []string) error {
	conf, err := SetupConfig(w, args)
	if err != nil {
		return err
	}
	setupLogging(conf.Server.Debug)

	conf.Env, err = config.Load()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, conf)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

func runBash(ctx context.Context, _ io.Writer, args []string) error {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "bash"
	}
	return attach(exec.CommandContext(ctx, shell, args...))
}

func runPaymentsChecker(ctx context.Context, _ io.Writer, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("payments_checker takes no arguments: %w", errUsage)
	}
	env, err := config.Load()
	if err != nil {
		return err
	}
	command := strings.TrimSpace(env.PaymentsCheckerCommand)
	if command == "" {
		return errors.New("PAYMENTS_CHECKER_COMMAND is not set")
	}
	log.Printf("Running payments checker: %s", command)
	return attach(exec.CommandContext(ctx, "sh", "-c", command))
}

// attach runs the command on the standard streams of the process.
func attach(c *exec.Cmd) error {
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", c.Path, err)
	}
	return nil
}
