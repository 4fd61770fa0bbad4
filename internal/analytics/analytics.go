// Package analytics derives summary statistics from stored click history.
// Everything here is pure: functions fold over snapshots of domain values
// and never touch the store or the clock.
package analytics

import (
	"sort"
	"time"

	"shortlink/internal/domain"
)

// RecentClickLimit caps the recent-events window in per-link stats
const RecentClickLimit = 20

// DashboardWindowDays is the trailing window for the dashboard click series
const DashboardWindowDays = 30

// Summarize aggregates a link's click history into per-dimension counts.
// Grouping keys are the raw stored strings; absent referers were already
// canonicalized to "Direct" at recording time. Days are UTC calendar dates.
func Summarize(link *domain.Link, clicks []domain.ClickEvent) *domain.Stats {
	stats := &domain.Stats{
		TotalClicks:  link.ClickCount,
		DeviceStats:  make(map[string]int64),
		BrowserStats: make(map[string]int64),
		OSStats:      make(map[string]int64),
		RefererStats: make(map[string]int64),
	}

	daily := make(map[string]int64)
	for _, click := range clicks {
		stats.DeviceStats[click.Device]++
		stats.BrowserStats[click.Browser]++
		stats.OSStats[click.OS]++
		stats.RefererStats[click.Referer]++
		daily[dayKey(click.Timestamp)]++
	}

	stats.DailyClicks = sortedDaily(daily)
	stats.RecentClicks = recentClicks(clicks, RecentClickLimit)

	return stats
}

// ClicksOverTime groups click events into a per-day series, filtered to
// events at or after since. The series is sorted ascending by date and
// sparse: days with zero clicks are omitted, not zero-filled.
func ClicksOverTime(clicks []domain.ClickEvent, since time.Time) []domain.DailyCount {
	daily := make(map[string]int64)
	for _, click := range clicks {
		if click.Timestamp.Before(since) {
			continue
		}
		daily[dayKey(click.Timestamp)]++
	}
	return sortedDaily(daily)
}

// recentClicks returns the newest events in reverse chronological order.
// Input is in append order; ties on timestamp keep the later append first.
func recentClicks(clicks []domain.ClickEvent, limit int) []domain.ClickEvent {
	n := len(clicks)
	if limit > n {
		limit = n
	}
	recent := make([]domain.ClickEvent, limit)
	for i := 0; i < limit; i++ {
		recent[i] = clicks[n-1-i]
	}
	return recent
}

// dayKey extracts the UTC calendar day of a timestamp
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// sortedDaily flattens a day->count map into an ascending series.
// YYYY-MM-DD keys sort correctly as plain strings.
func sortedDaily(daily map[string]int64) []domain.DailyCount {
	series := make([]domain.DailyCount, 0, len(daily))
	for date, count := range daily {
		series = append(series, domain.DailyCount{Date: date, Count: count})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series
}
