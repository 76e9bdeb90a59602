// Package cli is the command line front end: the interactive viewer by
// default, plus headless commands that drive the same sessions.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/ipv/internal/config"
	"github.com/llehouerou/ipv/internal/errmsg"
	"github.com/llehouerou/ipv/internal/logging"
	"github.com/llehouerou/ipv/internal/remote"
	"github.com/llehouerou/ipv/internal/state"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer

	configPath string
	serverURL  string

	// openStore opens the preferences and history database.
	openStore func() (state.Interface, error)
}

// New creates the CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		openStore: func() (state.Interface, error) {
			return state.Open()
		},
	}

	app.root = app.newRootCmd()
	app.root.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "Path to an extra configuration file")
	app.root.PersistentFlags().StringVar(&app.serverURL, "server", "", "Processing service URL (overrides server.url)")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newMethodsCmd(),
		app.newHistoryCmd(),
		app.newConvertCmd(),
		app.newCutoutCmd(),
	)
	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// WithStore replaces how the state database is opened.
func (a *App) WithStore(open func() (state.Interface, error)) *App {
	a.openStore = open
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// env is what every command needs once flags are parsed.
type env struct {
	cfg     *config.Config
	client  *remote.Client
	logFile *os.File
}

func (e *env) close() {
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

// prepare loads the configuration, points logging at the log file and
// builds the service client.
func (a *App) prepare() (*env, error) {
	var extra []string
	if a.configPath != "" {
		if _, err := os.Stat(a.configPath); err != nil {
			return nil, errmsg.Wrap(errmsg.OpConfigLoad, err)
		}
		extra = append(extra, a.configPath)
	}
	cfg, err := config.Load(extra...)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpConfigLoad, err)
	}

	e := &env{cfg: cfg}
	logCfg := cfg.GetLogConfig()
	if f, err := logging.OpenFile(logCfg.File); err == nil {
		e.logFile = f
		logging.Init(logging.Config{Level: logCfg.Level, Format: logCfg.Format, Output: f})
	} else {
		fmt.Fprintf(a.stderr, "warning: logging disabled: %v\n", err)
	}

	srv := cfg.GetServerConfig()
	if a.serverURL != "" {
		srv.URL = a.serverURL
	}
	br := cfg.GetBreakerConfig()
	e.client = remote.NewClient(remote.Config{
		BaseURL:          srv.URL,
		Timeout:          cfg.RequestTimeout(),
		UserAgent:        srv.UserAgent,
		BreakerThreshold: br.Threshold,
		BreakerCooldown:  time.Duration(br.Cooldown) * time.Second,
	})
	return e, nil
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.stdout, "ipv version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}
