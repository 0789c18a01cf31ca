package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vytor/wordbox/internal/config"
	"github.com/vytor/wordbox/internal/db"
	"github.com/vytor/wordbox/internal/leitner"
	"github.com/vytor/wordbox/internal/logger"
	"github.com/vytor/wordbox/internal/repository"
	"github.com/vytor/wordbox/internal/repository/sqlite"
)

// app carries configuration shared by every command.
type app struct {
	cfg      config.Config
	log      *logger.Logger
	dbPath   string
	logLevel string
}

// store is an opened card store with its scheduler loaded.
type store struct {
	db    *db.DB
	repo  repository.CardRepository
	sched *leitner.Scheduler
}

func (s *store) Close() error {
	return s.db.Close()
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "wordbox",
		Short:         "Leitner-box vocabulary trainer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "card database path (overrides WORDBOX_DB)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(a.addCmd())
	rootCmd.AddCommand(a.listCmd())
	rootCmd.AddCommand(a.showCmd())
	rootCmd.AddCommand(a.reviewCmd())
	rootCmd.AddCommand(a.statsCmd())
	rootCmd.AddCommand(a.exportCmd())
	rootCmd.AddCommand(a.serveCmd())
	return rootCmd
}

// setup loads configuration, applies flag overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.Load()
	if cmd.Flags().Changed("db") {
		a.cfg.DBPath = a.dbPath
	}
	if cmd.Flags().Changed("log-level") {
		a.cfg.LogLevel = a.logLevel
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		a.cfg.Addr = f.Value.String()
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.log = logger.New(
		logger.WithLevel(logger.ParseLevel(a.cfg.LogLevel)),
		logger.WithColors(a.cfg.LogColors),
		logger.WithOutput(cmd.ErrOrStderr()),
	)
	logger.SetDefault(a.log)
	cmd.SetContext(logger.NewContext(cmd.Context(), a.log))

	a.log.Debug("db_path=%s", a.cfg.DBPath)
	a.log.Debug("log_level=%s", a.cfg.LogLevel)
	return nil
}

// open opens the card store and loads the scheduler.
func (a *app) open(ctx context.Context) (*store, error) {
	database, err := db.Open(ctx, a.cfg.DBPath)
	if err != nil {
		return nil, err
	}

	repo := sqlite.NewCardRepository(database.DB)
	sched, err := leitner.New(ctx, repo, leitner.WithLogger(a.log.WithPrefix("scheduler")))
	if err != nil {
		database.Close()
		return nil, err
	}
	return &store{db: database, repo: repo, sched: sched}, nil
}
