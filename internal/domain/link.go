package domain

import (
	"strings"
	"time"
)

// Link represents a shortened link entry in the system
// This is the core domain entity that models our business concept
type Link struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	ShortCode     string     `gorm:"not null;size:30;index:idx_links_short_code,unique,where:is_deleted = false" json:"short_code"`
	OriginalURL   string     `gorm:"not null;type:text" json:"original_url"`
	OwnerID       *string    `gorm:"size:36;index:idx_links_owner_created,priority:1" json:"owner_id,omitempty"` // Nullable for anonymous links
	Title         string     `gorm:"size:200" json:"title,omitempty"`
	Description   string     `gorm:"size:500" json:"description,omitempty"`
	Tags          string     `gorm:"type:text" json:"-"` // Comma separated, see TagList
	PasswordHash  string     `gorm:"size:255" json:"-"`
	ExpiresAt     *time.Time `gorm:"index" json:"expires_at,omitempty"` // Nullable for non-expiring links
	MaxClicks     *int64     `json:"max_clicks,omitempty"`
	ClickCount    int64      `gorm:"default:0" json:"click_count"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	IsDeleted     bool       `gorm:"default:false;index" json:"-"`
	IsCustomAlias bool       `gorm:"default:false" json:"is_custom_alias"` // User-defined vs auto-generated
	CreatedAt     time.Time  `gorm:"autoCreateTime;index:idx_links_owner_created,priority:2" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Clicks []ClickEvent `gorm:"foreignKey:LinkID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Link) TableName() string {
	return "links"
}

// IsExpired checks if the link has passed its expiration timestamp
func (l *Link) IsExpired(now time.Time) bool {
	if l.ExpiresAt == nil {
		return false // Never expires
	}
	return now.After(*l.ExpiresAt)
}

// HasReachedMaxClicks checks if the click cap has been consumed
func (l *Link) HasReachedMaxClicks() bool {
	if l.MaxClicks == nil {
		return false
	}
	return l.ClickCount >= *l.MaxClicks
}

// TagList splits the stored tag column into individual tags
func (l *Link) TagList() []string {
	if l.Tags == "" {
		return nil
	}
	parts := strings.Split(l.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// SetTags stores the given tags as a comma separated column value
func (l *Link) SetTags(tags []string) {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	l.Tags = strings.Join(cleaned, ",")
}

// ClickEvent represents one recorded visit with contextual metadata
type ClickEvent struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	LinkID    string    `gorm:"not null;size:36;index" json:"-"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	IPAddress string    `gorm:"size:45" json:"ip_address,omitempty"` // IPv6 max length
	UserAgent string    `gorm:"size:500" json:"user_agent,omitempty"`
	Referer   string    `gorm:"size:500;default:'Direct'" json:"referer"`
	Device    string    `gorm:"size:50" json:"device"`
	Browser   string    `gorm:"size:100" json:"browser"`
	OS        string    `gorm:"size:100" json:"os"`
}

// TableName specifies the table name for GORM
func (ClickEvent) TableName() string {
	return "click_events"
}

// RequestMetadata carries the visitor context captured by the HTTP layer
// for click recording. Parsing into device/browser/os happens later.
type RequestMetadata struct {
	IPAddress string
	UserAgent string
	Referer   string
}

// CreateLinkRequest represents the request payload for creating a short link
type CreateLinkRequest struct {
	OriginalURL   string   `json:"original_url" binding:"required"`
	CustomAlias   string   `json:"custom_alias,omitempty"`
	Password      string   `json:"password,omitempty"`
	ExpiresInDays int      `json:"expires_in_days,omitempty"`
	MaxClicks     int64    `json:"max_clicks,omitempty"`
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// UpdateLinkRequest is the owner-initiated patch surface. Nil fields are
// left untouched so partial updates don't clobber existing metadata.
type UpdateLinkRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// ListFilter narrows and orders owner link listings
type ListFilter struct {
	Search string // Matches original URL, title or short code
	Tag    string
	SortBy string // created_at | click_count (default created_at)
	Order  string // asc | desc (default desc)
	Limit  int
	Offset int
}

// LinkSummary represents the outward-facing view of a link
type LinkSummary struct {
	ID          string     `json:"id"`
	ShortCode   string     `json:"short_code"`
	ShortURL    string     `json:"short_url"` // Full shortened URL
	OriginalURL string     `json:"original_url"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	HasPassword bool       `json:"has_password"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	MaxClicks   *int64     `json:"max_clicks,omitempty"`
	ClickCount  int64      `json:"click_count"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
}

// DailyCount is one point of a per-day click series
type DailyCount struct {
	Date  string `json:"date"` // UTC calendar day, YYYY-MM-DD
	Count int64  `json:"count"`
}

// Stats represents aggregated statistics for a single link
type Stats struct {
	TotalClicks  int64            `json:"total_clicks"`
	DeviceStats  map[string]int64 `json:"device_stats"`
	BrowserStats map[string]int64 `json:"browser_stats"`
	OSStats      map[string]int64 `json:"os_stats"`
	RefererStats map[string]int64 `json:"referer_stats"`
	DailyClicks  []DailyCount     `json:"daily_clicks"`
	RecentClicks []ClickEvent     `json:"recent_clicks"` // Reverse chronological
}

// DashboardStats summarizes all non-deleted links of one owner
type DashboardStats struct {
	TotalLinks     int64         `json:"total_links"`
	ActiveLinks    int64         `json:"active_links"`
	TotalClicks    int64         `json:"total_clicks"`
	TopLinks       []LinkSummary `json:"top_links"`
	RecentLinks    []LinkSummary `json:"recent_links"`
	ClicksOverTime []DailyCount  `json:"clicks_over_time"` // Trailing 30 days, sparse
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error            string `json:"error"`
	Message          string `json:"message,omitempty"`
	Code             int    `json:"code"`
	RequiresPassword bool   `json:"requires_password,omitempty"`
}
