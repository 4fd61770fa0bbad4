package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"shortlink/internal/analytics"
	"shortlink/internal/cache"
	"shortlink/internal/config"
	"shortlink/internal/domain"
	"shortlink/internal/repository"
	"shortlink/internal/shortener"
	"shortlink/internal/useragent"
	"shortlink/pkg/logger"
	"shortlink/pkg/validator"
)

// linkService implements the LinkService interface
type linkService struct {
	repo      repository.LinkRepository
	cache     cache.Cache
	cfg       *config.Config
	logger    *logger.Logger
	generator *shortener.CodeGenerator
}

// NewLinkService creates a new link service with dependencies injected
func NewLinkService(
	repo repository.LinkRepository,
	cache cache.Cache,
	cfg *config.Config,
	logger *logger.Logger,
) LinkService {
	return &linkService{
		repo:      repo,
		cache:     cache,
		cfg:       cfg,
		logger:    logger,
		generator: shortener.NewCodeGenerator(cfg.ShortCodeLength),
	}
}

// cachedLink is the trimmed resolve-path cache entry. Only links with no
// password, no expiry and no click cap are cached, so a hit is permitted
// by construction; mutations invalidate the entry.
type cachedLink struct {
	ID          string `json:"id"`
	OriginalURL string `json:"original_url"`
}

// CreateLink validates the request, allocates a short code and persists
// the new link. The store's unique constraint is the final authority on
// code uniqueness; generated-code races retry within a bounded budget.
func (s *linkService) CreateLink(ctx context.Context, req *domain.CreateLinkRequest, ownerID string) (*domain.LinkSummary, error) {
	// Validate the destination URL (scheme required, nothing prepended)
	if err := validator.ValidateURL(req.OriginalURL); err != nil {
		s.logger.Warn("Invalid URL provided", "url", req.OriginalURL, "error", err)
		return nil, domain.NewValidationError(err.Error())
	}

	normalizedURL := validator.NormalizeURL(req.OriginalURL)

	if req.ExpiresInDays < 0 {
		return nil, domain.NewValidationError("expires_in_days cannot be negative")
	}
	if req.MaxClicks < 0 {
		return nil, domain.NewValidationError("max_clicks cannot be negative")
	}

	link := &domain.Link{
		ID:          uuid.NewString(),
		OriginalURL: normalizedURL,
		Title:       req.Title,
		Description: req.Description,
		IsActive:    true,
	}
	link.SetTags(req.Tags)

	if ownerID != "" {
		link.OwnerID = &ownerID
	}

	if req.ExpiresInDays > 0 {
		expiry := time.Now().AddDate(0, 0, req.ExpiresInDays)
		link.ExpiresAt = &expiry
	}

	if req.MaxClicks > 0 {
		maxClicks := req.MaxClicks
		link.MaxClicks = &maxClicks
	}

	if req.Password != "" {
		hash, err := domain.HashPassword(req.Password)
		if err != nil {
			s.logger.Error("Failed to hash link password", "error", err)
			return nil, domain.NewInternalError(err)
		}
		link.PasswordHash = hash
	}

	if req.CustomAlias != "" {
		if err := s.createWithAlias(ctx, link, req.CustomAlias); err != nil {
			return nil, err
		}
	} else {
		if err := s.createWithGeneratedCode(ctx, link); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Link created",
		"short_code", link.ShortCode,
		"original_url", normalizedURL,
		"custom", link.IsCustomAlias,
	)

	return s.buildSummary(link), nil
}

// createWithAlias validates, normalizes and claims a user-chosen alias.
// Aliases and generated codes share one namespace.
func (s *linkService) createWithAlias(ctx context.Context, link *domain.Link, alias string) error {
	alias = validator.NormalizeAlias(alias)
	if !validator.ValidateAlias(alias) {
		return domain.NewAppError(domain.ErrInvalidAlias,
			"Custom alias must be 3-30 characters: letters, digits, hyphen, underscore", 400, false)
	}

	exists, err := s.repo.ExistsByCode(ctx, alias)
	if err != nil {
		s.logger.Error("Failed to check alias availability", "error", err)
		return domain.NewInternalError(err)
	}
	if exists {
		return domain.ErrAliasTaken
	}

	link.ShortCode = alias
	link.IsCustomAlias = true

	// A concurrent creation may still win the alias between the check and
	// the insert; the unique index reports it as ErrAliasTaken.
	if err := s.repo.Create(ctx, link); err != nil {
		return err
	}
	return nil
}

// createWithGeneratedCode allocates a random code with bounded retries.
// Both the pre-check collision and the insert-race duplicate count against
// the same budget; exhaustion is an operational failure, not user error.
func (s *linkService) createWithGeneratedCode(ctx context.Context, link *domain.Link) error {
	for attempt := 1; attempt <= s.cfg.AllocationRetries; attempt++ {
		code := s.generator.Generate()

		exists, err := s.repo.ExistsByCode(ctx, code)
		if err != nil {
			return domain.NewInternalError(err)
		}
		if exists {
			s.logger.Warn("Short code collision detected, retrying",
				"short_code", code,
				"attempt", attempt,
			)
			continue
		}

		link.ShortCode = code
		err = s.repo.Create(ctx, link)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrAliasTaken) {
			// Lost the insert race to a concurrent allocation of the same code
			s.logger.Warn("Short code insert race, retrying",
				"short_code", code,
				"attempt", attempt,
			)
			continue
		}
		return err
	}

	s.logger.Error("Short code allocation exhausted", "retries", s.cfg.AllocationRetries)
	return domain.ErrAllocationExhausted
}

// ResolveAndRecord evaluates access for a redirect and records the click.
// Recording is strict: if the click cannot be durably stored, the resolve
// fails and the caller must not redirect. The cache fast path only ever
// holds links whose access cannot be denied (no password, expiry or cap).
func (s *linkService) ResolveAndRecord(ctx context.Context, code, password string, meta domain.RequestMetadata) (string, error) {
	// Fast path: trimmed entry for unconstrained links
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, code); err == nil && raw != "" {
			var cached cachedLink
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				event := useragent.Enrich(meta, time.Now())
				err := s.repo.RecordClick(ctx, cached.ID, event)
				if err == nil {
					s.logger.Debug("Cache hit", "short_code", code)
					return cached.OriginalURL, nil
				}
				if errors.Is(err, domain.ErrLinkNotFound) {
					// Deleted since caching; drop the stale entry and re-resolve
					_ = s.cache.Delete(ctx, code)
				} else {
					s.logger.Error("Failed to record click", "error", err, "short_code", code)
					return "", err
				}
			}
		}
	}

	link, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			return "", &domain.AccessDeniedError{Reason: domain.DenyNotFound}
		}
		return "", err
	}

	decision := domain.EvaluateAccess(link, time.Now(), password)
	if !decision.Allowed {
		s.logger.Info("Redirect denied",
			"short_code", code,
			"reason", decision.Reason.String(),
		)
		return "", &domain.AccessDeniedError{Reason: decision.Reason}
	}

	event := useragent.Enrich(meta, time.Now())
	if err := s.repo.RecordClick(ctx, link.ID, event); err != nil {
		// Strict policy: an unrecorded click must not produce a redirect
		s.logger.Error("Failed to record click", "error", err, "short_code", code)
		return "", err
	}

	if s.cache != nil && s.cacheable(link) {
		if data, err := json.Marshal(cachedLink{ID: link.ID, OriginalURL: link.OriginalURL}); err == nil {
			if err := s.cache.Set(ctx, code, string(data), s.cfg.CacheTTL); err != nil {
				// Log cache error but don't fail the request
				s.logger.Warn("Failed to cache link", "error", err, "short_code", code)
			}
		}
	}

	s.logger.Info("Link resolved", "short_code", code, "clicks", link.ClickCount+1)
	return link.OriginalURL, nil
}

// cacheable reports whether a link may serve redirects from cache.
// Anything requiring a fresh snapshot (password, click cap, expiry)
// must hit the store every time.
func (s *linkService) cacheable(link *domain.Link) bool {
	return link.PasswordHash == "" &&
		link.MaxClicks == nil &&
		link.ExpiresAt == nil &&
		link.IsActive
}

// GetOwnedLinks lists the owner's links through the store's query layer
func (s *linkService) GetOwnedLinks(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.LinkSummary, error) {
	links, err := s.repo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.LinkSummary, 0, len(links))
	for i := range links {
		summaries = append(summaries, *s.buildSummary(&links[i]))
	}
	return summaries, nil
}

// UpdateLink applies an owner-initiated patch and invalidates the cache entry
func (s *linkService) UpdateLink(ctx context.Context, id, ownerID string, patch *domain.UpdateLinkRequest) (*domain.LinkSummary, error) {
	link, err := s.repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		link.Title = *patch.Title
	}
	if patch.Description != nil {
		link.Description = *patch.Description
	}
	if patch.IsActive != nil {
		link.IsActive = *patch.IsActive
	}
	if patch.Tags != nil {
		link.SetTags(*patch.Tags)
	}

	if err := s.repo.Update(ctx, link); err != nil {
		s.logger.Error("Failed to update link", "error", err, "id", id)
		return nil, err
	}

	s.invalidate(ctx, link.ShortCode)

	s.logger.Info("Link updated", "short_code", link.ShortCode)
	return s.buildSummary(link), nil
}

// SoftDeleteLink tombstones a link and invalidates its cache entry.
// The record is retained so the owner's dashboard keeps its history.
func (s *linkService) SoftDeleteLink(ctx context.Context, id, ownerID string) error {
	link, err := s.repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id, ownerID); err != nil {
		s.logger.Error("Failed to delete link", "error", err, "id", id)
		return err
	}

	s.invalidate(ctx, link.ShortCode)

	s.logger.Info("Link deleted", "short_code", link.ShortCode)
	return nil
}

// GetLinkStats aggregates a link's click history into summary statistics
func (s *linkService) GetLinkStats(ctx context.Context, id, ownerID string) (*domain.Stats, error) {
	link, err := s.repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	clicks, err := s.repo.ListClicksByLink(ctx, link.ID)
	if err != nil {
		return nil, err
	}

	return analytics.Summarize(link, clicks), nil
}

// GetDashboard summarizes all of the owner's links: totals, top and recent
// lists, and the trailing 30-day click series
func (s *linkService) GetDashboard(ctx context.Context, ownerID string) (*domain.DashboardStats, error) {
	totalLinks, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	activeLinks, err := s.repo.CountActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	totalClicks, err := s.repo.SumClicksByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	top, err := s.repo.TopByClicks(ctx, ownerID, 5)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.RecentByOwner(ctx, ownerID, 5)
	if err != nil {
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, 0, -analytics.DashboardWindowDays)
	clicks, err := s.repo.ListClicksByOwnerSince(ctx, ownerID, since)
	if err != nil {
		return nil, err
	}

	dashboard := &domain.DashboardStats{
		TotalLinks:     totalLinks,
		ActiveLinks:    activeLinks,
		TotalClicks:    totalClicks,
		TopLinks:       make([]domain.LinkSummary, 0, len(top)),
		RecentLinks:    make([]domain.LinkSummary, 0, len(recent)),
		ClicksOverTime: analytics.ClicksOverTime(clicks, since),
	}
	for i := range top {
		dashboard.TopLinks = append(dashboard.TopLinks, *s.buildSummary(&top[i]))
	}
	for i := range recent {
		dashboard.RecentLinks = append(dashboard.RecentLinks, *s.buildSummary(&recent[i]))
	}

	return dashboard, nil
}

// invalidate drops a resolve-path cache entry, logging on failure
func (s *linkService) invalidate(ctx context.Context, code string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, code); err != nil {
		s.logger.Warn("Failed to invalidate cache", "error", err, "short_code", code)
	}
}

// buildSummary constructs the outward-facing view with the full short URL
func (s *linkService) buildSummary(link *domain.Link) *domain.LinkSummary {
	return &domain.LinkSummary{
		ID:          link.ID,
		ShortCode:   link.ShortCode,
		ShortURL:    s.cfg.BaseURL + "/" + link.ShortCode,
		OriginalURL: link.OriginalURL,
		Title:       link.Title,
		Description: link.Description,
		Tags:        link.TagList(),
		HasPassword: link.PasswordHash != "",
		ExpiresAt:   link.ExpiresAt,
		MaxClicks:   link.MaxClicks,
		ClickCount:  link.ClickCount,
		IsActive:    link.IsActive,
		CreatedAt:   link.CreatedAt,
	}
}
