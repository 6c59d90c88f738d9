package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alimasry/go-html-editor/config"
	"github.com/alimasry/go-html-editor/logging"
)

var (
	configPath string
	verbose    bool
	backend    string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "htmledit",
	Short: "Interactive editor for simplified HTML documents",
	Long: `htmledit edits HTML documents as trees of elements addressed by id.

Every edit can be undone and redone. Documents are shown as a connector tree
or as indented markup, and can be spell checked.

Run without arguments to start the interactive console.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if backend != "" {
			cfg.Store.Backend = backend
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runConsole,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "htmledit.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&backend, "store", "", "store backend (file, memory, sqlite, firestore)")
	rootCmd.AddCommand(serveCmd)
}

func runConsole(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	newConsole, err := consoleFactory(cfg, st, logger)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	con := newConsole(out)

	fmt.Fprintln(out, "HTML editor. Type 'help' for available commands, 'quit' to exit.")
	if cfg.Editor.RestoreState {
		con.Restore(ctx)
	}
	return con.Run(ctx, cmd.InOrStdin())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
