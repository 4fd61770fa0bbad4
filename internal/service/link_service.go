package service

import (
	"context"

	"shortlink/internal/domain"
)

// LinkService defines the business logic interface for link operations
// This layer orchestrates between repositories, cache, and external services
type LinkService interface {
	// CreateLink allocates a short code and persists a new link.
	// ownerID is empty for anonymous links.
	CreateLink(ctx context.Context, req *domain.CreateLinkRequest, ownerID string) (*domain.LinkSummary, error)

	// ResolveAndRecord evaluates access for a redirect request and, if
	// permitted, records the click and returns the destination URL.
	// Denials surface as *domain.AccessDeniedError.
	ResolveAndRecord(ctx context.Context, code, password string, meta domain.RequestMetadata) (string, error)

	// GetOwnedLinks lists the owner's links, filtered and sorted
	GetOwnedLinks(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.LinkSummary, error)

	// UpdateLink applies an owner-initiated patch to a link
	UpdateLink(ctx context.Context, id, ownerID string, patch *domain.UpdateLinkRequest) (*domain.LinkSummary, error)

	// SoftDeleteLink marks a link as deleted, retaining it for history
	SoftDeleteLink(ctx context.Context, id, ownerID string) error

	// GetLinkStats returns aggregated click statistics for one link
	GetLinkStats(ctx context.Context, id, ownerID string) (*domain.Stats, error)

	// GetDashboard summarizes all of the owner's links
	GetDashboard(ctx context.Context, ownerID string) (*domain.DashboardStats, error)
}
