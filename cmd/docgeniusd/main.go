package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docgenius-ai/docgenius/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docgeniusd",
		Short: "DocGenius daemon and CLI",
		Long:  "DocGenius daemon for running the API server and managing user accounts",
	}

	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.UserCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
