package service

import (
	"time"

	"projectdash/internal/domain/models"
)

// TrendWindow is how far back the monthly trend looks
const TrendWindow = 365 * 24 * time.Hour

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// BucketByMonth counts the timestamps inside [now-TrendWindow, now] per
// calendar month name in loc. The result always has 12 entries and ends
// with the current month. Months are keyed by name only, so a month seen
// both at the start and the end of the window lands in one bucket.
func BucketByMonth(times []time.Time, now time.Time, loc *time.Location) []models.MonthlyCount {
	if loc == nil {
		loc = time.UTC
	}
	since := now.Add(-TrendWindow)

	var counts [12]int
	for _, t := range times {
		if t.Before(since) || t.After(now) {
			continue
		}
		counts[t.In(loc).Month()-1]++
	}

	current := int(now.In(loc).Month()) - 1
	out := make([]models.MonthlyCount, 0, len(monthNames))
	for i := 1; i <= len(monthNames); i++ {
		idx := (current + i) % len(monthNames)
		out = append(out, models.MonthlyCount{Name: monthNames[idx], Projects: counts[idx]})
	}
	return out
}
