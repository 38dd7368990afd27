// Package userentries provides repositories for the user_details table.
package userentries

import (
	"context"

	"github.com/cvyas/quotewall/internal/server/models"
)

// ListQuery bounds a listing request. Search, when non-empty, is
// matched case-insensitively as a substring of name, quote and advice.
type ListQuery struct {
	Limit  int
	Offset int
	Search string
}

type Repository interface {
	// Upsert inserts the entry or, when a row with the same name
	// already exists, overwrites quote/advice and refreshes updated_at
	// in a single conditional write. Returns the row id.
	//
	// Policy note: earlier revisions of the original application
	// silently ignored duplicates; upsert is the deliberate behavior
	// here.
	Upsert(ctx context.Context, entry *models.UserEntry) (int64, error)

	// List returns entries ordered by most-recently-updated first,
	// plus the total count of rows matching the query for pagination.
	List(ctx context.Context, q ListQuery) ([]models.UserEntry, int, error)

	// GetByName returns the row exactly matching name, or
	// common.ErrNotFound.
	GetByName(ctx context.Context, name string) (*models.UserEntry, error)

	// DeleteByName removes the row matching name and reports whether a
	// row was actually removed. Deleting an absent name is not an
	// error.
	DeleteByName(ctx context.Context, name string) (bool, error)
}
