package ddl

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kcmvp/rawsql/cmd/internal"
	"github.com/kcmvp/rawsql/schema"
	"github.com/spf13/cobra"
)

const (
	dialectFlag = "dialect"
	tableFlag   = "table"
)

// SchemaCmd prints the CREATE TABLE statements of the registry.
var SchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the CREATE TABLE statements for a dialect.",
	Long: fmt.Sprintf(`Print the CREATE TABLE statements of the schema registry.
Supported dialects: %s. Tables can be filtered with a pattern using * and ?.`, strings.Join(schema.Dialects(), ", ")),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dialect, _ := cmd.Flags().GetString(dialectFlag)
		pattern, _ := cmd.Flags().GetString(tableFlag)
		tables, err := schema.Select(pattern)
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			return fmt.Errorf("no table matches '%s'", pattern)
		}
		stmts, err := schema.RenderAll(dialect, tables)
		if err != nil {
			return err
		}
		for _, stmt := range stmts {
			fmt.Fprintln(cmd.OutOrStdout(), stmt)
		}
		return nil
	},
}

// MigrateCmd creates the tables in the configured datasource.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tables in the configured datasource.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := internal.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.Manager.InitSchema(cmd.Context()); err != nil {
			color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "schema is incomplete: %v\n", err)
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "schema is ready on %s datasource %s\n", rt.Manager.Dialect(), rt.Env.DataSource)
		return nil
	},
}

func init() {
	SchemaCmd.Flags().String(dialectFlag, "sqlite3", "target dialect")
	SchemaCmd.Flags().String(tableFlag, "", "table name pattern, e.g. 'pay*'")
}
