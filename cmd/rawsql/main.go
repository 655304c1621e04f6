package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/kcmvp/rawsql/cmd/internal"
	"github.com/kcmvp/rawsql/cmd/rawsql/ddl"
	"github.com/kcmvp/rawsql/cmd/rawsql/demo"
	"github.com/kcmvp/rawsql/cmd/rawsql/serve"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rawsql",
	Short: "rawsql manages users, orders and payments in a relational store.",
	Long: `rawsql creates the users, orders and payments tables, prints their DDL
per dialect, runs a sample walk-through and serves the records over HTTP.
Settings come from application.yml, RAWSQL_* variables and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return internal.LoadDotEnv()
	},
}

func init() {
	rootCmd.AddCommand(ddl.SchemaCmd)
	rootCmd.AddCommand(ddl.MigrateCmd)
	rootCmd.AddCommand(demo.DemoCmd)
	rootCmd.AddCommand(serve.ServeCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
