// Package repomanager constructs repositories over an arbitrary DBTX,
// so services can run them on the shared handle, a leased connection or
// a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/cvyas/quotewall/internal/dbx"
	"github.com/cvyas/quotewall/internal/server/repositories/userentries"
)

type RepositoryManager interface {
	Entries(db dbx.DBTX) userentries.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
