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

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Entries(db dbx.DBTX) userentries.Repository {
	return userentries.NewPostgresRepository(db)
}

// RunMigrations is idempotent; goose records applied versions and skips
// them on subsequent starts.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("%w: %v", common.ErrSchemaInit, err)
	}
	if err := goose.UpContext(ctx, db, "postgres"); err != nil {
		return fmt.Errorf("%w: %v", common.ErrSchemaInit, err)
	}
	return nil
}
