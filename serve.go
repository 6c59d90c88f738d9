package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alimasry/go-html-editor/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the console over WebSocket",
	Long: `Serves one console per WebSocket connection on /ws.

Clients send {"type":"exec","line":"..."} and receive the command output.
Each connection has its own open documents; all of them share the store.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
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

		ln, err := net.Listen("tcp", cfg.Server.Addr)
		if err != nil {
			return err
		}
		hub := server.NewHub(newConsole, logger.Named("server"))
		logger.Info("starting server", zap.String("addr", cfg.Server.Addr))
		return server.Serve(ctx, ln, hub)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (default from config)")
}
