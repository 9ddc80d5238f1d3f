package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/place-finder/internal/app"
	"github.com/octobees/place-finder/internal/config"
	"github.com/octobees/place-finder/internal/logger"
)

var (
	verbose bool
	cfg     *config.Config
	zl      *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:          "placefinder",
	Short:        "Resolve natural-language place searches into places and a short summary",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		env := cfg.Env
		if verbose {
			env = "development"
		}
		zl = logger.New(env)
		// Logs go to stdout, which carries command output and the MCP stdio stream.
		quiet := !verbose && cmd.Name() != "serve"
		if quiet || (cmd.Name() == "mcp" && mcpTransport == "stdio") {
			zl = zap.NewNop()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync(zl)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func buildApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, cfg, zl)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
