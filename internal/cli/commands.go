package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/planner/internal/config"
	"github.com/Makepad-fr/planner/internal/logging"
	"github.com/Makepad-fr/planner/internal/planner"
	"github.com/Makepad-fr/planner/internal/server"
	"github.com/Makepad-fr/planner/internal/store"
	"github.com/Makepad-fr/planner/internal/store/jsonstore"
	"github.com/Makepad-fr/planner/internal/store/memstore"
	"github.com/Makepad-fr/planner/internal/store/pgstore"
	"github.com/Makepad-fr/planner/internal/store/sqlitestore"
	"github.com/Makepad-fr/planner/internal/tui"
	"github.com/Makepad-fr/planner/internal/ui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive view (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(a)
		},
	}
}

func runTUI(a *app) error {
	// The alt screen owns the terminal; console logging would tear it.
	if tearsScreen(a.cfg.Log.Output) {
		quiet := a.cfg.Log
		quiet.Output = "none"
		if err := logging.Init(quiet); err != nil {
			return failf("log: %v", err)
		}
	}
	err := tui.Run(tui.Options{
		Service:     a.client(),
		Timeout:     a.cfg.RequestTimeout,
		OnError:     a.cfg.OnError,
		ReloadDelay: a.cfg.ReloadDelay,
	})
	if err != nil {
		return failf("tui: %v", err)
	}
	return nil
}

func tearsScreen(output string) bool {
	switch output {
	case "", "stderr", "stdout":
		return true
	}
	return false
}

func newListCmd(a *app) *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print the list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			s := planner.Drive(ctx, a.client(), planner.New(), planner.Mounted{})
			if s.Err != nil {
				return failf("%v", s.Err)
			}
			ui.Panel(ui.ListLines(s.Items, group))
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by to-eat/eaten")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <food...>",
		Short: "Append a food (multiple words are joined)",
		Args:  anyArgs("usage: planner add <food...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			s, _ := planner.Update(planner.New(), planner.NameChanged{Text: name})
			return mutate(cmd.Context(), a, s, planner.Submitted{})
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <food...>",
		Aliases: []string{"delete"},
		Short:   "Delete a food by name",
		Args:    anyArgs("usage: planner rm <food...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return mutate(cmd.Context(), a, planner.New(), planner.DeleteRequested{Name: name})
		},
	}
}

// mutate runs one mutation plus the reload it triggers, then prints both.
func mutate(parent context.Context, a *app, s planner.State, ev planner.Event) error {
	ctx, cancel := a.requestContext(parent)
	defer cancel()

	s = planner.Drive(ctx, a.client(), s, ev)
	if s.Err != nil {
		return failf("%v", s.Err)
	}
	if s.Rejected {
		ui.Warn(s.Status)
	} else {
		ui.OK(s.Status)
	}
	ui.Panel(ui.ListLines(s.Items, false))
	return nil
}

func anyArgs(usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return usagef("%s", usage)
		}
		return nil
	}
}

func newServeCmd(a *app) *cobra.Command {
	var (
		addr, basePath, storeName, dsn string
		plain                          bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference planner API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := a.cfg.Server
			f := cmd.Flags()
			if f.Changed("addr") {
				sc.Addr = addr
			}
			if f.Changed("base-path") {
				sc.BasePath = basePath
			}
			if f.Changed("store") {
				sc.Store = storeName
			}
			if f.Changed("dsn") {
				sc.DSN = dsn
			}
			if f.Changed("plain") {
				sc.Plain = plain
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := openStore(ctx, sc)
			if err != nil {
				return failf("store: %v", err)
			}
			defer st.Close()

			srv := server.New(st, server.Options{Addr: sc.Addr, BasePath: sc.BasePath, Plain: sc.Plain})
			ui.OK(fmt.Sprintf("serving %s on %s%s", describeStore(sc.Store, st), sc.Addr, sc.BasePath))
			if err := srv.Run(ctx); err != nil {
				return failf("serve: %v", err)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", "", "listen address (default :8080)")
	f.StringVar(&basePath, "base-path", "", "route prefix (default /summer2023planner-stage)")
	f.StringVar(&storeName, "store", "", "memory, json, sqlite or postgres")
	f.StringVar(&dsn, "dsn", "", "file path (json, sqlite) or connection URL (postgres)")
	f.BoolVar(&plain, "plain", false, "answer mutations with a plain JSON object")
	return cmd
}

func openStore(ctx context.Context, sc config.ServerConfig) (store.Store, error) {
	switch sc.Store {
	case "memory", "":
		return memstore.New(), nil
	case "json":
		return jsonstore.Open(sc.DSN)
	case "sqlite":
		p := sc.DSN
		if p == "" {
			dir, err := config.Dir()
			if err != nil {
				return nil, err
			}
			p = filepath.Join(dir, "planner.db")
		}
		return sqlitestore.Open(p)
	case "postgres":
		return pgstore.Open(ctx, sc.DSN)
	}
	return nil, errors.New("unknown store " + sc.Store)
}

// describeStore names the backend and where its data lives.
func describeStore(name string, st store.Store) string {
	if name == "" {
		name = "memory"
	}
	switch s := st.(type) {
	case *jsonstore.Store:
		return fmt.Sprintf("%s store (%s)", name, s.Path())
	case fmt.Stringer:
		return fmt.Sprintf("%s store (%s)", name, s.String())
	}
	return name + " store"
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := config.Marshal(a.cfg)
			if err != nil {
				return failf("%v", err)
			}
			src := a.cfg.Source
			if src == "" {
				src = "(defaults)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n%s", src, b)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.Path(a.configPath)
			if err != nil {
				return failf("%v", err)
			}
			if err := config.Save(p, a.cfg); err != nil {
				return failf("save config: %v", err)
			}
			ui.OK("wrote " + p)
			return nil
		},
	})
	return cmd
}
