package ddl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runSchema(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	SchemaCmd.SetOut(&out)
	SchemaCmd.SetArgs(append([]string{}, args...))
	t.Cleanup(func() {
		_ = SchemaCmd.Flags().Set(dialectFlag, "sqlite3")
		_ = SchemaCmd.Flags().Set(tableFlag, "")
	})
	_, err := SchemaCmd.ExecuteC()
	return out.String(), err
}

func TestSchemaCmd(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		count    int
	}{
		{"all tables", nil, []string{"CREATE TABLE IF NOT EXISTS users", "CREATE TABLE IF NOT EXISTS payments"}, 3},
		{"postgres orders", []string{"--dialect", "postgres", "--table", "orders"}, []string{"SERIAL PRIMARY KEY", "NUMERIC(10,2)"}, 1},
		{"pattern", []string{"--table", "*s", "--dialect", "mysql"}, []string{"AUTO_INCREMENT"}, 3},
		{"single char pattern", []string{"--table", "?sers"}, []string{"users"}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runSchema(t, tc.args...)
			require.NoError(t, err)
			require.Equal(t, tc.count, strings.Count(out, "CREATE TABLE"))
			for _, s := range tc.contains {
				require.Contains(t, out, s)
			}
		})
	}
}

func TestSchemaCmd_Errors(t *testing.T) {
	_, err := runSchema(t, "--dialect", "oracle")
	require.Error(t, err)
	_, err = runSchema(t, "--table", "accounts")
	require.Error(t, err)
	_, err = runSchema(t, "--table", "x*")
	require.ErrorContains(t, err, "no table matches")
}

func TestMigrateCmd(t *testing.T) {
	var out bytes.Buffer
	MigrateCmd.SetOut(&out)
	MigrateCmd.SetArgs([]string{})
	require.NoError(t, MigrateCmd.ExecuteContext(context.Background()))
	require.Contains(t, out.String(), "schema is ready on sqlite3 datasource default")
}
