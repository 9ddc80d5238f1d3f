package main

import (
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("addr") {
			serveAddr = ":" + cfg.Port
		}
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		return a.Serve(cmd.Context(), serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Address to listen on (defaults to :$PORT)")
	rootCmd.AddCommand(serveCmd)
}
