package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ---------- Get ----------

func TestPostgresStore_Get_Success(t *testing.T) {
	db := &mockDB{}
	store := NewPostgresStore(db, "governance_ds")
	ctx := context.Background()

	row := &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = "DISABLED"
		return nil
	}}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"),
		[]any{"governance_ds", "/states/proxynodes/node1"}).Return(row)

	value, err := store.Get(ctx, ProxyNodePath("node1"))
	require.NoError(t, err)
	assert.Equal(t, "DISABLED", value)
	db.AssertExpectations(t)
}

func TestPostgresStore_Get_Absent(t *testing.T) {
	db := &mockDB{}
	store := NewPostgresStore(db, "governance_ds")
	ctx := context.Background()

	row := &mockRow{scanFunc: func(dest ...any) error {
		return pgx.ErrNoRows
	}}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)

	value, err := store.Get(ctx, ProxyNodePath("node2"))
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestPostgresStore_Get_DBError(t *testing.T) {
	db := &mockDB{}
	store := NewPostgresStore(db, "governance_ds")
	ctx := context.Background()

	row := &mockRow{scanFunc: func(dest ...any) error {
		return errors.New("connection refused")
	}}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)

	_, err := store.Get(ctx, ProxyNodePath("node1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

// ---------- Persist ----------

func TestPostgresStore_Persist_Success(t *testing.T) {
	db := &mockDB{}
	store := NewPostgresStore(db, "governance_ds")
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), []any{
		"governance_ds",
		[]string{"/states", "/states/datanodes", "/states/datanodes/users"},
		[]string{"", "/states", "/states/datanodes"},
		"/states/datanodes/users/db_r1",
		"/states/datanodes/users",
		"DISABLED",
	}).Return(pgconn.CommandTag{}, nil)

	err := store.Persist(ctx, DataSourcePath("users", "db_r1"), DisabledStatus)
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestPostgresStore_Persist_DBError(t *testing.T) {
	db := &mockDB{}
	store := NewPostgresStore(db, "governance_ds")
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.CommandTag{}, errors.New("read-only transaction"))

	err := store.Persist(ctx, ProxyNodePath("node1"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "persist /states/proxynodes/node1")
}

// ---------- GetChildrenKeys ----------

func TestPostgresStore_GetChildrenKeys_Success(t *testing.T) {
	db := &mockDB{}
	store := NewPostgresStore(db, "governance_ds")
	ctx := context.Background()

	rows := newMockRows("/states/proxynodes/node1", "/states/proxynodes/node2")
	db.On("Query", ctx, mock.AnythingOfType("string"),
		[]any{"governance_ds", "/states/proxynodes"}).Return(rows, nil)

	children, err := store.GetChildrenKeys(ctx, ProxyNodesRootPath())
	require.NoError(t, err)
	assert.Equal(t, []string{"node1", "node2"}, children)
	db.AssertExpectations(t)
}

func TestPostgresStore_GetChildrenKeys_Empty(t *testing.T) {
	db := &mockDB{}
	store := NewPostgresStore(db, "governance_ds")
	ctx := context.Background()

	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(newMockRows(), nil)

	children, err := store.GetChildrenKeys(ctx, DataNodesPath())
	require.NoError(t, err)
	assert.NotNil(t, children)
	assert.Empty(t, children)
}

func TestPostgresStore_GetChildrenKeys_QueryError(t *testing.T) {
	db := &mockDB{}
	store := NewPostgresStore(db, "governance_ds")
	ctx := context.Background()

	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil, errors.New("timeout"))

	_, err := store.GetChildrenKeys(ctx, DataNodesPath())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPostgresStore_GetChildrenKeys_RowsError(t *testing.T) {
	db := &mockDB{}
	store := NewPostgresStore(db, "governance_ds")
	ctx := context.Background()

	rows := newMockRows()
	rows.err = errors.New("conn closed")
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)

	_, err := store.GetChildrenKeys(ctx, DataNodesPath())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "iterate children")
}
