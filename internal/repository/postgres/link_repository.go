package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"shortlink/internal/domain"
	"shortlink/internal/repository"
)

// linkRepository implements the LinkRepository interface on GORM.
// Despite the package name it runs unchanged on any GORM dialect with
// partial index support; tests use the sqlite driver.
type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates a new GORM-backed link repository
func NewLinkRepository(db *gorm.DB) repository.LinkRepository {
	return &linkRepository{db: db}
}

// Create inserts a new link record into the database.
// The partial unique index on short_code (non-deleted rows only) catches
// allocation races; a duplicate key maps to ErrAliasTaken for the caller
// to surface or retry with a freshly generated code.
func (r *linkRepository) Create(ctx context.Context, link *domain.Link) error {
	result := r.db.WithContext(ctx).Create(link)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return domain.ErrAliasTaken
		}
		return domain.NewInternalError(result.Error)
	}
	return nil
}

// FindByCode retrieves a link by its short code among non-deleted records.
// Custom aliases and generated codes share one namespace, so a single
// lookup covers both. Returns ErrLinkNotFound if the code doesn't exist.
func (r *linkRepository) FindByCode(ctx context.Context, code string) (*domain.Link, error) {
	var link domain.Link

	result := r.db.WithContext(ctx).
		Where("short_code = ? AND is_deleted = ?", code, false).
		First(&link)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, domain.NewInternalError(result.Error)
	}

	return &link, nil
}

// FindByIDAndOwner retrieves a link by ID scoped to its owner.
// Foreign-owned links are indistinguishable from missing ones.
func (r *linkRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Link, error) {
	var link domain.Link

	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND is_deleted = ?", id, ownerID, false).
		First(&link)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, domain.NewInternalError(result.Error)
	}

	return &link, nil
}

// ExistsByCode checks if a short code is occupied without loading the record.
// Deleted tombstones don't count; their codes are reusable.
func (r *linkRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&domain.Link{}).
		Where("short_code = ? AND is_deleted = ?", code, false).
		Count(&count)

	if result.Error != nil {
		return false, domain.NewInternalError(result.Error)
	}

	return count > 0, nil
}

// Update persists the owner-editable columns of a link.
// Click counters never flow through here; see RecordClick.
func (r *linkRepository) Update(ctx context.Context, link *domain.Link) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Link{}).
		Where("id = ? AND is_deleted = ?", link.ID, false).
		Updates(map[string]interface{}{
			"title":       link.Title,
			"description": link.Description,
			"is_active":   link.IsActive,
			"tags":        link.Tags,
		})

	if result.Error != nil {
		return domain.NewInternalError(result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrLinkNotFound
	}

	return nil
}

// SoftDelete marks a link as deleted, scoped to its owner.
// The row stays behind as a tombstone so click history survives for
// analytics, while lookups and the unique namespace stop seeing it.
func (r *linkRepository) SoftDelete(ctx context.Context, id, ownerID string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Link{}).
		Where("id = ? AND owner_id = ? AND is_deleted = ?", id, ownerID, false).
		Update("is_deleted", true)

	if result.Error != nil {
		return domain.NewInternalError(result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrLinkNotFound
	}

	return nil
}

// RecordClick increments the click counter and appends the click event in
// one transaction. The counter moves via an in-database expression, never a
// read-modify-write from Go, so concurrent redirects on the same link
// cannot lose increments. If the link was deleted between the access check
// and this call, the whole transaction rolls back with ErrLinkNotFound.
func (r *linkRepository) RecordClick(ctx context.Context, linkID string, event *domain.ClickEvent) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Link{}).
			Where("id = ? AND is_deleted = ?", linkID, false).
			Update("click_count", gorm.Expr("click_count + ?", 1))

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrLinkNotFound
		}

		event.LinkID = linkID
		return tx.Create(event).Error
	})

	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			return err
		}
		return domain.NewInternalError(err)
	}
	return nil
}

// ListByOwner returns the owner's non-deleted links with filtering and sorting
func (r *linkRepository) ListByOwner(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Link, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Link{}).
		Where("owner_id = ? AND is_deleted = ?", ownerID, false)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"original_url LIKE ? OR title LIKE ? OR short_code LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if filter.Tag != "" {
		// Tags are stored comma separated; match the tag at any position
		query = query.Where(
			"tags = ? OR tags LIKE ? OR tags LIKE ? OR tags LIKE ?",
			filter.Tag, filter.Tag+",%", "%,"+filter.Tag, "%,"+filter.Tag+",%",
		)
	}

	sortBy := "created_at"
	if filter.SortBy == "click_count" {
		sortBy = "click_count"
	}
	order := "desc"
	if strings.EqualFold(filter.Order, "asc") {
		order = "asc"
	}
	query = query.Order(sortBy + " " + order)

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var links []domain.Link
	if err := query.Find(&links).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}

	return links, nil
}

// CountByOwner counts the owner's non-deleted links
func (r *linkRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&domain.Link{}).
		Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Count(&count)

	if result.Error != nil {
		return 0, domain.NewInternalError(result.Error)
	}

	return count, nil
}

// CountActiveByOwner counts the owner's non-deleted links with is_active set
func (r *linkRepository) CountActiveByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&domain.Link{}).
		Where("owner_id = ? AND is_deleted = ? AND is_active = ?", ownerID, false, true).
		Count(&count)

	if result.Error != nil {
		return 0, domain.NewInternalError(result.Error)
	}

	return count, nil
}

// SumClicksByOwner sums click counts across the owner's non-deleted links
func (r *linkRepository) SumClicksByOwner(ctx context.Context, ownerID string) (int64, error) {
	var total int64

	result := r.db.WithContext(ctx).
		Model(&domain.Link{}).
		Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Select("COALESCE(SUM(click_count), 0)").
		Scan(&total)

	if result.Error != nil {
		return 0, domain.NewInternalError(result.Error)
	}

	return total, nil
}

// TopByClicks returns the owner's most-clicked links, ties broken by most
// recent creation
func (r *linkRepository) TopByClicks(ctx context.Context, ownerID string, limit int) ([]domain.Link, error) {
	var links []domain.Link

	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Order("click_count DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&links)

	if result.Error != nil {
		return nil, domain.NewInternalError(result.Error)
	}

	return links, nil
}

// RecentByOwner returns the owner's most recently created links
func (r *linkRepository) RecentByOwner(ctx context.Context, ownerID string, limit int) ([]domain.Link, error) {
	var links []domain.Link

	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&links)

	if result.Error != nil {
		return nil, domain.NewInternalError(result.Error)
	}

	return links, nil
}

// ListClicksByLink returns a link's click history in append order
func (r *linkRepository) ListClicksByLink(ctx context.Context, linkID string) ([]domain.ClickEvent, error) {
	var clicks []domain.ClickEvent

	result := r.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&clicks)

	if result.Error != nil {
		return nil, domain.NewInternalError(result.Error)
	}

	return clicks, nil
}

// ListClicksByOwnerSince flattens click history across all of the owner's
// non-deleted links from the given instant onward
func (r *linkRepository) ListClicksByOwnerSince(ctx context.Context, ownerID string, since time.Time) ([]domain.ClickEvent, error) {
	var clicks []domain.ClickEvent

	result := r.db.WithContext(ctx).
		Model(&domain.ClickEvent{}).
		Joins("JOIN links ON links.id = click_events.link_id").
		Where("links.owner_id = ? AND links.is_deleted = ? AND click_events.timestamp >= ?", ownerID, false, since).
		Order("click_events.timestamp ASC").
		Find(&clicks)

	if result.Error != nil {
		return nil, domain.NewInternalError(result.Error)
	}

	return clicks, nil
}

// isDuplicateKey detects unique constraint violations across dialects.
// gorm's TranslateError covers postgres; the sqlite driver used in tests
// reports the raw constraint message.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
