package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	pagecraft "github.com/pagecraft/client-go"
)

// IO holds the streams used by the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultIO returns the process streams.
func DefaultIO() IO {
	return IO{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

type app struct {
	io      IO
	cfgFile string
	envFile string
	logger  zerolog.Logger
	client  *pagecraft.Client
}

// run executes the command line and returns the process exit code.
func run(args []string, stdio IO) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(stdio)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		printError(stdio.Stderr, err)
		return 1
	}
	return 0
}

func newRootCmd(stdio IO) *cobra.Command {
	a := &app{io: stdio}

	root := &cobra.Command{
		Use:               "pagecraft",
		Short:             "Scrape, render and capture web pages with the PageCraft API",
		Version:           pagecraft.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initialize,
	}
	root.SetIn(stdio.Stdin)
	root.SetOut(stdio.Stdout)
	root.SetErr(stdio.Stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ./pagecraft.yaml or ~/.config/pagecraft/pagecraft.yaml)")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded into the environment when present")
	pf.String("api-key", "", "API key (env PAGECRAFT_API_KEY)")
	pf.String("base-url", "", "API base URL")
	pf.Duration("timeout", 0, "per-attempt request timeout")
	pf.Int("retries", 0, "retries for transient failures")
	pf.Int("rate-limit", 0, "client-side requests per second, 0 to disable")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")

	root.AddCommand(
		a.pingCmd(),
		a.scrapeCmd(),
		a.extractCmd(),
		a.screenshotCmd(),
		a.pdfCmd(),
		a.creditsCmd(),
		a.usageCmd(),
		a.overviewCmd(),
	)
	return root
}

// initialize loads configuration and builds the client before any subcommand runs.
func (a *app) initialize(cmd *cobra.Command, _ []string) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	cfg, err := pagecraft.LoadConfigWithFlags(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	a.logger = setupLogger(cfg.Logging, a.io.Stderr)

	a.client, err = pagecraft.NewFromConfig(cfg,
		pagecraft.WithLogger(a.logger),
		pagecraft.WithUserAgent("pagecraft-cli/"+pagecraft.Version),
	)
	if err != nil {
		return err
	}

	a.logger.Debug().Str("base_url", a.client.BaseURL()).Msg("client ready")
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg pagecraft.LoggingConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.WarnLevel
	}

	if cfg.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(out),
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.io.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printError(w io.Writer, err error) {
	var perr pagecraft.Error
	if !errors.As(err, &perr) {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}

	fmt.Fprintf(w, "error [%s]: %v\n", perr.Kind(), err)

	var verr *pagecraft.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		fmt.Fprintf(w, "  field: %s\n", verr.Field)
	}
	var rl *pagecraft.RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter != nil {
		fmt.Fprintf(w, "  retry after: %ds\n", *rl.RetryAfter)
	}
}
