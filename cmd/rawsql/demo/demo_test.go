package demo

import (
	"bytes"
	"context"
	"testing"

	"github.com/kcmvp/rawsql/dao"
	"github.com/kcmvp/rawsql/store"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	ds := store.DataSource{Driver: "sqlite3", URL: "file:demo_run?mode=memory&cache=shared"}
	m, err := store.Open(ctx, ds)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	var out bytes.Buffer
	require.NoError(t, Run(ctx, m, &out))
	text := out.String()
	require.Contains(t, text, demoName)
	require.Contains(t, text, `"order_date": "1970-01-01T00:00:00Z"`)
	require.Contains(t, text, "deleted order")
	require.Contains(t, text, "0 payment(s) left")
	require.NotContains(t, text, "already exists")

	out.Reset()
	require.NoError(t, Run(ctx, m, &out))
	require.Contains(t, out.String(), "already exists")

	users, err := dao.NewUserDAO(m)
	require.NoError(t, err)
	all, err := users.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	orders, err := dao.NewOrderDAO(m)
	require.NoError(t, err)
	left, err := orders.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, left)
}
