package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/planner/internal/config"
	"github.com/Makepad-fr/planner/internal/logging"
	"github.com/Makepad-fr/planner/internal/remote"
	"github.com/Makepad-fr/planner/internal/ui"
)

// Exit codes: 0 ok, 1 runtime error, 2 usage error.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// exitErr carries an exit code and a message already fit for the user.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func failf(format string, a ...any) error {
	return &exitErr{code: exitError, msg: fmt.Sprintf(format, a...)}
}

func usagef(format string, a ...any) error {
	return &exitErr{code: exitUsage, msg: fmt.Sprintf(format, a...)}
}

// app is what every subcommand shares once flags and config are resolved.
type app struct {
	configPath string
	baseURL    string
	theme      string

	cfg config.Config
}

func (a *app) client() *remote.Client {
	return remote.New(a.cfg.BaseURL, remote.WithTimeout(a.cfg.RequestTimeout))
}

func (a *app) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.RequestTimeout <= 0 {
		return context.WithCancel(parent)
	}
	// add and rm run two calls back to back
	return context.WithTimeout(parent, 2*a.cfg.RequestTimeout)
}

// load resolves config > env > flags, then sets up theme and logging.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return usagef("config: %v", err)
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}
	if a.theme != "" {
		cfg.Theme = a.theme
	}
	a.cfg = cfg

	ui.SetTheme(cfg.Theme)
	if err := logging.Init(cfg.Log); err != nil {
		return usagef("log: %v", err)
	}
	logging.NewModuleLogger("cli", "root").Debug("config loaded",
		"source", cfg.Source, "base_url", cfg.BaseURL, "command", cmd.Name())
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "planner",
		Short: "Summer planner: what to eat, what was eaten",
		Long: `planner keeps a shared list of foods to eat this summer.

Run without a subcommand for the interactive view.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(a)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ~/.planner/config.yaml)")
	pf.StringVar(&a.baseURL, "base-url", "", "planner API root")
	pf.StringVar(&a.theme, "theme", "", "classic, neon or mono")

	root.AddCommand(
		newTUICmd(a),
		newListCmd(a),
		newAddCmd(a),
		newRemoveCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Run executes the command line and returns the process exit code.
func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, out, errOut io.Writer) int {
	ui.SetOutput(out, errOut)
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.Execute()
	defer logging.Close()
	if err == nil {
		return exitOK
	}

	var ee *exitErr
	if errors.As(err, &ee) {
		ui.Fail(ee.msg)
		if ee.code == exitUsage {
			ui.Hint("Run `planner --help` for usage")
		}
		return ee.code
	}
	// Anything cobra rejected itself: unknown command, bad flag, arg count.
	ui.Fail(err.Error())
	ui.Hint("Run `planner --help` for usage")
	return exitUsage
}
