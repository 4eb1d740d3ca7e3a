package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/quickcart/internal/models"
	pkgdb "github.com/Skotchmaster/quickcart/pkg/db"
)

// NewDB opens a migrated in-memory sqlite database that lives for the duration of the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := pkgdb.Open(context.Background(), ":memory:", "")
	require.NoError(t, err, "failed to connect to in-memory db")
	require.NoError(t, db.AutoMigrate(models.Tables()...), "failed to migrate tables")

	t.Cleanup(func() { _ = pkgdb.Close(db) })
	return db
}
