// Package services implements the operations behind the request
// handlers: validation, connection scoping, timeouts and storage-error
// classification around the userentries repository.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cvyas/quotewall/internal/common"
	"github.com/cvyas/quotewall/internal/dbx"
	"github.com/cvyas/quotewall/internal/logging"
	"github.com/cvyas/quotewall/internal/server/config"
	"github.com/cvyas/quotewall/internal/server/db"
	"github.com/cvyas/quotewall/internal/server/models"
	"github.com/cvyas/quotewall/internal/server/repositories/repomanager"
	"github.com/cvyas/quotewall/internal/server/repositories/userentries"
)

// Field length bounds, matching the submission form.
const (
	NameMinLen   = 2
	NameMaxLen   = 100
	QuoteMinLen  = 5
	QuoteMaxLen  = 500
	AdviceMinLen = 5
	AdviceMaxLen = 1000
)

// MaxListLimit caps the page size regardless of what the caller asks
// for.
const MaxListLimit = 100

// DefaultListLimit applies when the caller supplies no limit.
const DefaultListLimit = 10

type EntryService struct {
	manager db.Manager
	repos   repomanager.RepositoryManager
	config  *config.Config
	logger  logging.Logger
}

func NewEntryService(m db.Manager, rm repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *EntryService {
	return &EntryService{
		manager: m,
		repos:   rm,
		config:  cfg,
		logger:  logger.With("module", "entry_service"),
	}
}

// Upsert validates and saves a submission, inserting a new row or
// overwriting the existing row with the same name. Returns the row id.
func (s *EntryService) Upsert(ctx context.Context, name, quote, advice string) (int64, error) {
	name = strings.TrimSpace(name)
	quote = strings.TrimSpace(quote)
	advice = strings.TrimSpace(advice)

	if err := validateEntry(name, quote, advice); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	conn, err := s.manager.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	id, err := s.repos.Entries(conn).Upsert(ctx, &models.UserEntry{Name: name, Quote: quote, Advice: advice})
	if err != nil {
		return 0, classifyStorage(err)
	}

	s.logger.Info(ctx, "entry saved", "name", name, "id", id)
	return id, nil
}

// List returns a page of entries, most recently updated first, plus the
// total count of matching rows. The limit is clamped to MaxListLimit.
func (s *EntryService) List(ctx context.Context, limit, offset int, search string) ([]models.UserEntry, int, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	conn, err := s.manager.Acquire(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer conn.Close()

	// The page and the total are two statements; run them in one
	// transaction so they describe the same snapshot.
	var entries []models.UserEntry
	var total int
	err = dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		entries, total, err = s.repos.Entries(tx).List(ctx, userentries.ListQuery{
			Limit:  limit,
			Offset: offset,
			Search: strings.TrimSpace(search),
		})
		return err
	})
	if err != nil {
		return nil, 0, classifyStorage(err)
	}
	return entries, total, nil
}

// GetByName returns the entry exactly matching name, or
// common.ErrNotFound.
func (s *EntryService) GetByName(ctx context.Context, name string) (*models.UserEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	conn, err := s.manager.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	entry, err := s.repos.Entries(conn).GetByName(ctx, name)
	if err != nil {
		return nil, classifyStorage(err)
	}
	return entry, nil
}

// DeleteByName removes the entry matching name and reports whether a
// row was removed. Deleting an absent name is not an error.
func (s *EntryService) DeleteByName(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	conn, err := s.manager.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	deleted, err := s.repos.Entries(conn).DeleteByName(ctx, name)
	if err != nil {
		return false, classifyStorage(err)
	}
	if deleted {
		s.logger.Info(ctx, "entry deleted", "name", name)
	}
	return deleted, nil
}

// Ping verifies the backend answers a trivial query; used by the health
// endpoint.
func (s *EntryService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	return s.manager.Ping(ctx)
}

// classifyStorage keeps not-found as-is and wraps every other driver
// failure as common.ErrStorage, so handlers can log detail while
// showing a generic notice.
func classifyStorage(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrStorage, err)
}

func validateEntry(name, quote, advice string) error {
	verr := &common.ValidationError{}

	checkField := func(field, value string, min, max int) {
		if value == "" {
			verr.Add(field, "%s is required", field)
			return
		}
		if n := utf8.RuneCountInString(value); n < min || n > max {
			verr.Add(field, "%s must be between %d and %d characters", field, min, max)
		}
	}

	checkField("name", name, NameMinLen, NameMaxLen)
	checkField("quote", quote, QuoteMinLen, QuoteMaxLen)
	checkField("advice", advice, AdviceMinLen, AdviceMaxLen)

	if verr.HasViolations() {
		return verr
	}
	return nil
}
