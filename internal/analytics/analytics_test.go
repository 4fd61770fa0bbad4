package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shortlink/internal/domain"
)

func click(ts time.Time, device, browser, os, referer string) domain.ClickEvent {
	return domain.ClickEvent{
		Timestamp: ts,
		Device:    device,
		Browser:   browser,
		OS:        os,
		Referer:   referer,
	}
}

func TestSummarize_GroupsByDimension(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	link := &domain.Link{ID: "l1", ClickCount: 4}
	clicks := []domain.ClickEvent{
		click(base, "Desktop", "Chrome", "Windows 10", "Direct"),
		click(base.Add(time.Minute), "Mobile", "Safari", "iOS", "https://t.co/x"),
		click(base.Add(2*time.Minute), "Desktop", "Chrome", "Linux", "Direct"),
		click(base.Add(3*time.Minute), "Desktop", "Firefox", "Windows 10", "Direct"),
	}

	stats := Summarize(link, clicks)

	assert.Equal(t, int64(4), stats.TotalClicks)
	assert.Equal(t, int64(3), stats.DeviceStats["Desktop"])
	assert.Equal(t, int64(1), stats.DeviceStats["Mobile"])
	assert.Equal(t, int64(2), stats.BrowserStats["Chrome"])
	assert.Equal(t, int64(1), stats.BrowserStats["Firefox"])
	assert.Equal(t, int64(2), stats.OSStats["Windows 10"])
	assert.Equal(t, int64(3), stats.RefererStats["Direct"])
	assert.Equal(t, int64(1), stats.RefererStats["https://t.co/x"])
}

func TestSummarize_DailyClicksUseUTCDays(t *testing.T) {
	// 23:30 UTC and 00:30 UTC the next day land on different days even
	// though they are an hour apart
	link := &domain.Link{ID: "l1", ClickCount: 2}
	clicks := []domain.ClickEvent{
		click(time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC), "Desktop", "Chrome", "Linux", "Direct"),
		click(time.Date(2025, 3, 11, 0, 30, 0, 0, time.UTC), "Desktop", "Chrome", "Linux", "Direct"),
	}

	stats := Summarize(link, clicks)

	assert.Equal(t, []domain.DailyCount{
		{Date: "2025-03-10", Count: 1},
		{Date: "2025-03-11", Count: 1},
	}, stats.DailyClicks)
}

func TestSummarize_DailyClicksConvertToUTC(t *testing.T) {
	// 20:00 in UTC-5 is 01:00 UTC the next day
	loc := time.FixedZone("UTC-5", -5*3600)
	link := &domain.Link{ID: "l1", ClickCount: 1}
	clicks := []domain.ClickEvent{
		click(time.Date(2025, 3, 10, 20, 0, 0, 0, loc), "Desktop", "Chrome", "Linux", "Direct"),
	}

	stats := Summarize(link, clicks)

	assert.Equal(t, []domain.DailyCount{{Date: "2025-03-11", Count: 1}}, stats.DailyClicks)
}

func TestSummarize_RecentClicksReverseChronological(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	link := &domain.Link{ID: "l1", ClickCount: 30}

	clicks := make([]domain.ClickEvent, 30)
	for i := range clicks {
		clicks[i] = click(base.Add(time.Duration(i)*time.Minute), "Desktop", "Chrome", "Linux", fmt.Sprintf("ref-%d", i))
	}

	stats := Summarize(link, clicks)

	assert.Len(t, stats.RecentClicks, RecentClickLimit)
	assert.Equal(t, "ref-29", stats.RecentClicks[0].Referer, "newest first")
	assert.Equal(t, "ref-10", stats.RecentClicks[RecentClickLimit-1].Referer)
	for i := 1; i < len(stats.RecentClicks); i++ {
		assert.False(t, stats.RecentClicks[i-1].Timestamp.Before(stats.RecentClicks[i].Timestamp))
	}
}

func TestSummarize_EmptyHistory(t *testing.T) {
	link := &domain.Link{ID: "l1"}

	stats := Summarize(link, nil)

	assert.Equal(t, int64(0), stats.TotalClicks)
	assert.Empty(t, stats.DeviceStats)
	assert.Empty(t, stats.DailyClicks)
	assert.Empty(t, stats.RecentClicks)
}

func TestSummarize_Idempotent(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	link := &domain.Link{ID: "l1", ClickCount: 2}
	clicks := []domain.ClickEvent{
		click(base, "Desktop", "Chrome", "Linux", "Direct"),
		click(base.Add(time.Hour), "Mobile", "Safari", "iOS", "Direct"),
	}

	first := Summarize(link, clicks)
	second := Summarize(link, clicks)

	assert.Equal(t, first, second)
}

// Two click days inside the window produce exactly two entries, ascending,
// with zero-click days omitted.
func TestClicksOverTime_SparseAscending(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -DashboardWindowDays)

	dayD := now.AddDate(0, 0, -10)
	clicks := []domain.ClickEvent{
		click(dayD.Add(time.Hour), "Desktop", "Chrome", "Linux", "Direct"),
		click(dayD, "Desktop", "Chrome", "Linux", "Direct"),
		click(dayD.AddDate(0, 0, 5), "Mobile", "Safari", "iOS", "Direct"),
	}

	series := ClicksOverTime(clicks, since)

	assert.Len(t, series, 2)
	assert.Equal(t, dayD.Format("2006-01-02"), series[0].Date)
	assert.Equal(t, int64(2), series[0].Count)
	assert.Equal(t, dayD.AddDate(0, 0, 5).Format("2006-01-02"), series[1].Date)
	assert.Equal(t, int64(1), series[1].Count)
	assert.True(t, series[0].Date < series[1].Date)
}

func TestClicksOverTime_FiltersBeforeWindow(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -DashboardWindowDays)

	clicks := []domain.ClickEvent{
		click(since.Add(-time.Hour), "Desktop", "Chrome", "Linux", "Direct"), // Outside
		click(since, "Desktop", "Chrome", "Linux", "Direct"),                 // Boundary, included
	}

	series := ClicksOverTime(clicks, since)

	assert.Len(t, series, 1)
	assert.Equal(t, int64(1), series[0].Count)
}

func TestClicksOverTime_Empty(t *testing.T) {
	assert.Empty(t, ClicksOverTime(nil, time.Now()))
}
