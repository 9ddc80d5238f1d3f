package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/place-finder/internal/mcpserver"
)

var (
	mcpTransport string
	mcpAddr      string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the place tools over the Model Context Protocol",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		srv := mcpserver.New(a.Query, a.Places, zl)
		switch mcpTransport {
		case "stdio":
			return srv.Run(cmd.Context(), &mcp.StdioTransport{})
		case "http":
			handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
				return srv
			}, nil)
			httpSrv := &http.Server{Addr: mcpAddr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				_ = httpSrv.Close()
			}()
			zl.Info("mcp server listening", zap.String("addr", mcpAddr))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		default:
			return fmt.Errorf("unknown transport %q (use stdio or http)", mcpTransport)
		}
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport mode: stdio or http")
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", ":8081", "HTTP listen address (only with --transport http)")
	rootCmd.AddCommand(mcpCmd)
}
