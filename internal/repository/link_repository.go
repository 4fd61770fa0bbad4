package repository

import (
	"context"
	"time"

	"shortlink/internal/domain"
)

// LinkRepository defines the contract for link data access
// This interface allows us to swap implementations (PostgreSQL, SQLite, etc.)
// without changing business logic - following Dependency Inversion Principle
type LinkRepository interface {
	// Create stores a new link. The store's unique constraint on short codes
	// (scoped to non-deleted rows) is the final arbiter for allocation races;
	// a duplicate code surfaces as domain.ErrAliasTaken.
	Create(ctx context.Context, link *domain.Link) error

	// FindByCode retrieves a non-deleted link by its short code or alias
	FindByCode(ctx context.Context, code string) (*domain.Link, error)

	// FindByIDAndOwner retrieves a non-deleted link by ID, scoped to its owner
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Link, error)

	// ExistsByCode checks if a short code is occupied among non-deleted links
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Update persists owner-editable fields of an existing link
	Update(ctx context.Context, link *domain.Link) error

	// SoftDelete marks a link as deleted, scoped to its owner.
	// The record is retained as a tombstone for history.
	SoftDelete(ctx context.Context, id, ownerID string) error

	// RecordClick appends a click event and increments the click counter
	// as one atomic update. Concurrent calls on the same link never lose
	// an increment, and the event row commits with the counter or not at all.
	RecordClick(ctx context.Context, linkID string, event *domain.ClickEvent) error

	// ListByOwner returns the owner's non-deleted links, filtered and sorted
	ListByOwner(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Link, error)

	// CountByOwner counts the owner's non-deleted links
	CountByOwner(ctx context.Context, ownerID string) (int64, error)

	// CountActiveByOwner counts the owner's non-deleted links with the active flag set
	CountActiveByOwner(ctx context.Context, ownerID string) (int64, error)

	// SumClicksByOwner sums click counts across the owner's non-deleted links
	SumClicksByOwner(ctx context.Context, ownerID string) (int64, error)

	// TopByClicks returns the owner's most-clicked links, ties broken by
	// most recent creation
	TopByClicks(ctx context.Context, ownerID string, limit int) ([]domain.Link, error)

	// RecentByOwner returns the owner's most recently created links
	RecentByOwner(ctx context.Context, ownerID string, limit int) ([]domain.Link, error)

	// ListClicksByLink returns a link's full click history, oldest first
	ListClicksByLink(ctx context.Context, linkID string) ([]domain.ClickEvent, error)

	// ListClicksByOwnerSince returns click events across all of the owner's
	// non-deleted links from the given instant onward
	ListClicksByOwnerSince(ctx context.Context, ownerID string, since time.Time) ([]domain.ClickEvent, error)
}
