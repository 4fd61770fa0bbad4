// Package useragent turns raw request metadata into an enriched click event.
package useragent

import (
	"strings"
	"time"

	"github.com/mssola/user_agent"

	"shortlink/internal/domain"
)

// Canonical fallback values for click event dimensions
const (
	DirectReferer  = "Direct"
	UnknownBrowser = "Unknown"
	UnknownOS      = "Unknown"
)

// Enrich builds a ClickEvent from request metadata at the given instant.
// Device, browser and OS are parsed from the User-Agent header; an empty
// referer is canonicalized to "Direct" so aggregation has a stable key.
func Enrich(meta domain.RequestMetadata, now time.Time) *domain.ClickEvent {
	event := &domain.ClickEvent{
		Timestamp: now,
		IPAddress: meta.IPAddress,
		UserAgent: truncate(meta.UserAgent, 500),
		Referer:   truncate(meta.Referer, 500),
		Device:    "Desktop",
		Browser:   UnknownBrowser,
		OS:        UnknownOS,
	}

	if event.Referer == "" {
		event.Referer = DirectReferer
	}

	if meta.UserAgent == "" {
		return event
	}

	ua := user_agent.New(meta.UserAgent)

	if name, _ := ua.Browser(); name != "" {
		event.Browser = name
	}
	if os := ua.OS(); os != "" {
		event.OS = os
	}

	switch {
	case ua.Bot():
		event.Device = "Bot"
	case ua.Mobile():
		if isTablet(meta.UserAgent) {
			event.Device = "Tablet"
		} else {
			event.Device = "Mobile"
		}
	case isTablet(meta.UserAgent):
		event.Device = "Tablet"
	}

	return event
}

// isTablet catches the common tablet markers the parser folds into mobile
func isTablet(rawUA string) bool {
	ua := strings.ToLower(rawUA)
	return strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
