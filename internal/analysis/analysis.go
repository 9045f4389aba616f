// Package analysis derives dashboard statistics from stored complaints.
// Every call is a full, point-in-time computation; nothing is cached.
package analysis

import (
	"civiceye/backend/internal/config"
	"civiceye/backend/internal/models"
	"time"
)

// Aggregate summarises complaints as seen at now.
//
// StatusCounts always carries the four known statuses, zero-filled.
// CategoryCounts is keyed by whatever complaint types occur in the data.
// A record with a status outside the known four is counted in the total
// only; the store never writes one.
func Aggregate(complaints []models.Complaint, now time.Time) models.Stats {
	stats := models.Stats{
		TotalComplaints: len(complaints),
		StatusCounts:    make(map[models.Status]int, len(models.Statuses)),
		CategoryCounts:  make(map[string]int),
	}
	for _, st := range models.Statuses {
		stats.StatusCounts[st] = 0
	}

	for i := range complaints {
		c := &complaints[i]
		if _, ok := stats.StatusCounts[c.Status]; ok {
			stats.StatusCounts[c.Status]++
		}
		stats.CategoryCounts[c.Type]++
		if IsRecent(c.CreatedAt, now) {
			stats.Last7DaysCount++
		}
	}
	return stats
}

// IsRecent reports whether createdAt lies in the inclusive window
// [now - RecentWindow, now].
func IsRecent(createdAt, now time.Time) bool {
	since := now.Add(-config.RecentWindow)
	return !createdAt.Before(since) && !createdAt.After(now)
}
