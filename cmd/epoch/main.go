package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "epoch",
	Short: "Timesheet logging service",
	Long:  "epoch records daily work activities per user and exports weekly spreadsheet reports.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: config.yaml, then env vars)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
