package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"synclist-hub/internal/app"
	"synclist-hub/internal/config"
	internaldb "synclist-hub/internal/db"
	"synclist-hub/internal/middleware"
)

// cliState is shared between the root command and its subcommands.
type cliState struct {
	envFile  string
	logLevel logLevelFlag
	cfg      *config.Config
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	st := &cliState{}

	rootCmd := &cobra.Command{
		Use:           "synclist-hub",
		Short:         "Group-scoped synclist service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.load(cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().StringVar(&st.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().Var(&st.logLevel, "log-level", "log level: debug, info, warn or error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(
		newServeCmd(st),
		newMigrateCmd(st),
		newSeedCmd(st),
		newTokenCmd(st),
	)
	return rootCmd
}

func (st *cliState) load(stderr io.Writer) error {
	if err := config.LoadDotEnv(st.envFile); err != nil {
		return err
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st.cfg = cfg

	opts := &slog.HandlerOptions{Level: st.logLevel.resolve(cfg.SlogLevel())}
	var handler slog.Handler = slog.NewTextHandler(stderr, opts)
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(stderr, opts)
	}
	st.logger = slog.New(handler)
	for _, w := range cfg.Warnings {
		st.logger.Warn(w)
	}
	return nil
}

func newServeCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the task reaper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, st.cfg, st.logger)
		},
	}
}

func newMigrateCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending metastore migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			writeDB, err := internaldb.OpenSQLite(st.cfg.MetaDBPath, internaldb.PoolWrite, 1)
			if err != nil {
				return err
			}
			defer writeDB.Close() //nolint:errcheck

			if err := internaldb.RunMigrations(writeDB); err != nil {
				return err
			}
			v, err := internaldb.SchemaVersion(writeDB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "metastore %s at schema version %d\n", st.cfg.MetaDBPath, v)
			return nil
		},
	}
}

func newSeedCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file]",
		Short: "Apply a YAML fixture to the metastore (defaults to SEED_FILE)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := st.cfg.SeedFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no seed file given and SEED_FILE is not set")
			}
			return withApp(cmd.Context(), st, func(a *app.App) error {
				return seedFromFile(cmd.Context(), a, path, st.logger)
			})
		},
	}
}

func newTokenCmd(st *cliState) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <principal>",
		Short: "Mint an HS256 bearer token for a principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if st.cfg.Auth.OIDCEnabled() {
				return fmt.Errorf("tokens are issued by %s when OIDC is enabled", st.cfg.Auth.IssuerURL)
			}
			token, err := middleware.IssueHS256Token(st.cfg.Auth.JWTSecret, args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

// withApp opens and migrates the metastore, wires the app and runs fn.
func withApp(ctx context.Context, st *cliState, fn func(*app.App) error) error {
	writeDB, readDB, err := internaldb.OpenSQLitePair(st.cfg.MetaDBPath, 4)
	if err != nil {
		return err
	}
	defer readDB.Close()  //nolint:errcheck
	defer writeDB.Close() //nolint:errcheck

	if err := internaldb.RunMigrations(writeDB); err != nil {
		return err
	}
	a, err := app.New(ctx, app.Deps{Cfg: st.cfg, WriteDB: writeDB, ReadDB: readDB, Logger: st.logger})
	if err != nil {
		return err
	}
	return fn(a)
}

func seedFromFile(ctx context.Context, a *app.App, path string, logger *slog.Logger) error {
	data, err := app.LoadSeedFile(path)
	if err != nil {
		return err
	}
	return app.Seed(ctx, a.Repos, data, logger)
}
