package db

import (
	"testing"

	rows "github.com/stafflink/stafflink/internal/agency/db/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *Repository {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	err = gdb.AutoMigrate(
		&rows.Job{},
		&rows.HostCount{},
		&rows.EditRequest{},
		&rows.Message{},
		&rows.User{},
		&rows.Option{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return &Repository{db: gdb, logger: zaptest.NewLogger(t)}
}
