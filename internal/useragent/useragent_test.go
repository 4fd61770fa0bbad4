package useragent

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shortlink/internal/domain"
)

const (
	chromeWindowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	iphoneUA        = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	ipadUA          = "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"
	googlebotUA     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestEnrich_Desktop(t *testing.T) {
	now := time.Now()
	event := Enrich(domain.RequestMetadata{
		IPAddress: "203.0.113.7",
		UserAgent: chromeWindowsUA,
		Referer:   "https://news.ycombinator.com/",
	}, now)

	assert.Equal(t, now, event.Timestamp)
	assert.Equal(t, "203.0.113.7", event.IPAddress)
	assert.Equal(t, "Desktop", event.Device)
	assert.Equal(t, "Chrome", event.Browser)
	assert.NotEqual(t, UnknownOS, event.OS)
	assert.Equal(t, "https://news.ycombinator.com/", event.Referer)
}

func TestEnrich_Mobile(t *testing.T) {
	event := Enrich(domain.RequestMetadata{UserAgent: iphoneUA}, time.Now())

	assert.Equal(t, "Mobile", event.Device)
	assert.Equal(t, "Safari", event.Browser)
}

func TestEnrich_Tablet(t *testing.T) {
	event := Enrich(domain.RequestMetadata{UserAgent: ipadUA}, time.Now())

	assert.Equal(t, "Tablet", event.Device)
}

func TestEnrich_Bot(t *testing.T) {
	event := Enrich(domain.RequestMetadata{UserAgent: googlebotUA}, time.Now())

	assert.Equal(t, "Bot", event.Device)
}

func TestEnrich_EmptyUserAgent(t *testing.T) {
	event := Enrich(domain.RequestMetadata{}, time.Now())

	assert.Equal(t, "Desktop", event.Device)
	assert.Equal(t, UnknownBrowser, event.Browser)
	assert.Equal(t, UnknownOS, event.OS)
}

func TestEnrich_EmptyRefererIsDirect(t *testing.T) {
	event := Enrich(domain.RequestMetadata{UserAgent: chromeWindowsUA}, time.Now())

	assert.Equal(t, DirectReferer, event.Referer)
}

func TestEnrich_TruncatesLongHeaders(t *testing.T) {
	long := strings.Repeat("a", 2000)
	event := Enrich(domain.RequestMetadata{UserAgent: long, Referer: "https://example.com/" + long}, time.Now())

	assert.Len(t, event.UserAgent, 500)
	assert.Len(t, event.Referer, 500)
}
