package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wslanalytics/pressbox/internal/server"
)

var servePort int

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes the summarise pipeline over HTTP:

  GET  /health             liveness probe
  POST /summarise/round    generate a round recap
  POST /summarise/preview  generate a gameweek preview

Both summarise endpoints accept either season+round (database mode) or
the stat rows inline in the request body (file mode).

Example:
  pressbox serve
  pressbox serve --port 9000
  DATABASE_URL=postgres://... OPENAI_API_KEY=... pressbox serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	p, cleanup, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	zap.L().Info("starting pressbox",
		zap.Int("port", cfg.Server.Port),
		zap.Bool("db", cfg.DB.Configured()),
		zap.String("llm", cfg.LLM.Provider),
	)

	srv := server.New(p, cfg.Server, zap.L())
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
