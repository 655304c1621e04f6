package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kcmvp/rawsql/store"
	"github.com/stretchr/testify/require"
)

func TestBoot(t *testing.T) {
	rt, err := Boot(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	require.Equal(t, "default", rt.Env.DataSource)
	require.Equal(t, store.SQLite3, rt.Manager.Dialect())
}

func TestBoot_UnknownDataSource(t *testing.T) {
	t.Setenv("RAWSQL_DATASOURCE", "nowhere")
	_, err := Boot(context.Background())
	require.ErrorContains(t, err, "nowhere")
}

func TestBoot_ExplicitConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rawsql.yml")
	content := "datasource:\n  default:\n    driver: oracle\n    url: x\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	t.Setenv("RAWSQL_CONFIG", file)
	_, err := Boot(context.Background())
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("RAWSQL_ADDR=:7070\n"), 0o644))
	t.Setenv("RAWSQL_ADDR", "")
	require.NoError(t, os.Unsetenv("RAWSQL_ADDR"))
	require.NoError(t, LoadDotEnv(file))
	require.Equal(t, ":7070", os.Getenv("RAWSQL_ADDR"))
}
