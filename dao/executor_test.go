package dao

import (
	"context"
	"testing"

	"github.com/kcmvp/rawsql/store"
	"github.com/stretchr/testify/require"
)

const insertUser = "INSERT INTO users (name, email) VALUES (?, ?) RETURNING *"

func TestExecutor_ReadOne(t *testing.T) {
	e := NewExecutor(openStore(t))
	ctx := context.Background()
	require.Equal(t, store.SQLite3, e.Dialect())

	opt, err := e.ReadOne(ctx, "SELECT * FROM users WHERE id = ?", 1)
	require.NoError(t, err)
	require.True(t, opt.IsAbsent())

	_, err = e.InsertOne(ctx, insertUser, "A", "a@x.com")
	require.NoError(t, err)

	opt, err = e.ReadOne(ctx, "SELECT id, name, email FROM users WHERE id = ?", 1)
	require.NoError(t, err)
	row, ok := opt.Get()
	require.True(t, ok)
	require.Equal(t, []string{"id", "name", "email"}, row.Columns())
	require.Equal(t, "A", row.Get("name").MustGet())
	require.True(t, row.Get("missing").IsAbsent())
}

func TestExecutor_SingleRowWrites(t *testing.T) {
	e := NewExecutor(openStore(t))
	ctx := context.Background()

	row, err := e.InsertOne(ctx, insertUser, "A", "a@x.com")
	require.NoError(t, err)
	require.Equal(t, int64(1), row.Get("id").MustGet())
	require.Equal(t, "A", row.Get("name").MustGet())

	row, err = e.UpdateOne(ctx, "UPDATE users SET name = ? WHERE id = ? RETURNING *", "B", 1)
	require.NoError(t, err)
	require.Equal(t, "B", row.Get("name").MustGet())

	_, err = e.UpdateOne(ctx, "UPDATE users SET name = ? WHERE id = ? RETURNING *", "B", 9)
	require.ErrorIs(t, err, store.ErrNotFound)

	row, err = e.DeleteOne(ctx, "DELETE FROM users WHERE id = ? RETURNING *", 1)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", row.Get("email").MustGet())

	_, err = e.DeleteOne(ctx, "DELETE FROM users WHERE id = ? RETURNING *", 1)
	require.ErrorIs(t, err, store.ErrNotFound)

	rows, err := e.ReadAll(ctx, "SELECT * FROM users")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestExecutor_NullIsPresent(t *testing.T) {
	e := NewExecutor(openStore(t))
	ctx := context.Background()
	rows, err := e.ReadAll(ctx, "SELECT NULL AS empty, 1 AS one")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	v, ok := rows[0].Get("empty").Get()
	require.True(t, ok)
	require.Nil(t, v)
}

func TestExecutor_InsertMany(t *testing.T) {
	e := NewExecutor(openStore(t))
	ctx := context.Background()

	rows, err := e.InsertMany(ctx, insertUser, 3, [][]any{
		{"A", "a@x.com"},
		{"B", "b@x.com"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "B", rows[1].Get("name").MustGet())

	_, err = e.InsertMany(ctx, insertUser, 1, [][]any{
		{"C", "c@x.com"},
		{"D", "d@x.com"},
	})
	require.ErrorIs(t, err, ErrBatchSize)

	// the duplicate email fails the batch and C is rolled back
	_, err = e.InsertMany(ctx, insertUser, 2, [][]any{
		{"C", "c@x.com"},
		{"E", "a@x.com"},
	})
	require.ErrorIs(t, err, store.ErrIntegrity)

	all, err := e.ReadAll(ctx, "SELECT * FROM users")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestExecutor_UpdateAndDeleteMany(t *testing.T) {
	e := NewExecutor(openStore(t))
	ctx := context.Background()
	_, err := e.InsertMany(ctx, insertUser, 3, [][]any{
		{"A", "a@x.com"},
		{"B", "b@x.com"},
		{"C", "c@x.com"},
	})
	require.NoError(t, err)

	rows, err := e.UpdateMany(ctx, "UPDATE users SET is_active = ? WHERE id = ? RETURNING *", 2, [][]any{
		{false, 1},
		{false, 3},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = e.ReadAll(ctx, "SELECT * FROM users WHERE is_active = ?", false)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = e.DeleteMany(ctx, "DELETE FROM users WHERE id = ? RETURNING *", 5, [][]any{{1}, {2}})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = e.ReadAll(ctx, "SELECT * FROM users")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "C", rows[0].Get("name").MustGet())
}

func TestExecutor_BadStatement(t *testing.T) {
	e := NewExecutor(openStore(t))
	_, err := e.ReadAll(context.Background(), "SELECT * FROM nowhere")
	require.Error(t, err)
	var se *store.Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, store.KindExec, se.Kind)
	require.Equal(t, "read all", se.Op)
}
