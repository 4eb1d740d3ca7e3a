package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		name     string
		dsn      string
		driver   string
		dialect  string
		isSQLite bool
		wantErr  bool
	}{
		{name: "postgres pgx", dsn: "postgres://u:p@localhost:5432/shop", driver: DriverPgx, dialect: "postgres"},
		{name: "postgres pq", dsn: "postgresql://u:p@localhost:5432/shop", driver: DriverPq, dialect: "postgres"},
		{name: "mysql", dsn: "mysql://u:p@tcp(localhost:3306)/shop", dialect: "mysql"},
		{name: "sqlite scheme", dsn: "sqlite://shop.db", dialect: "sqlite", isSQLite: true},
		{name: "memory", dsn: ":memory:", dialect: "sqlite", isSQLite: true},
		{name: "unknown", dsn: "mongodb://localhost", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, isSQLite, err := Dialector(tt.dsn, tt.driver)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, d.Name())
			assert.Equal(t, tt.isSQLite, isSQLite)
		})
	}
}

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)", withForeignKeys(":memory:"))
	assert.Equal(t, "file:x.db?cache=shared&_pragma=foreign_keys(1)", withForeignKeys("file:x.db?cache=shared"))
	assert.Equal(t, "x.db?_pragma=foreign_keys(0)", withForeignKeys("x.db?_pragma=foreign_keys(0)"))
}

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.db")

	gdb, err := Open(context.Background(), "sqlite://"+path, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Ping(context.Background(), gdb))

	var fk int
	require.NoError(t, gdb.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "", "")
	require.Error(t, err)
}
