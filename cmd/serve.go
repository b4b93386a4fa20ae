package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	port     int
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP query service",
		Long: `Start the HTTP query service.

The service exposes POST /query for business questions, a browser chat page
at /, Prometheus metrics at /metrics and a health check at /healthz.`,
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 8000, "Port to run the server on")
}

func runServe() {
	fmt.Printf("Starting Cargo Query service...\n")
	fmt.Printf("Data directory: %s\n", dataDir)
	fmt.Printf("Port: %d\n\n", port)

	if err := StartServer(dataDir, port); err != nil {
		log.Fatalf("Server failed: %v\n", err)
	}
}
