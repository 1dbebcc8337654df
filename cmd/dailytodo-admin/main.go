package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyunwkim/dailytodo/cmd/dailytodo-admin/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "dailytodo-admin",
		Short: "Admin tool for the dailytodo API",
		Long:  "CLI tool for schema migration and generation API checks",
	}

	rootCmd.AddCommand(commands.NewMigrateCmd())
	rootCmd.AddCommand(commands.NewCheckAICmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
