package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/cvyas/quotewall/internal/common"
	"github.com/cvyas/quotewall/internal/dbx"
	"github.com/cvyas/quotewall/internal/server/migrations"
	"github.com/cvyas/quotewall/internal/server/repositories/userentries"
)

type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Entries(db dbx.DBTX) userentries.Repository {
	return userentries.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("%w: %v", common.ErrSchemaInit, err)
	}
	if err := goose.UpContext(ctx, db, "sqlite"); err != nil {
		return fmt.Errorf("%w: %v", common.ErrSchemaInit, err)
	}
	return nil
}
