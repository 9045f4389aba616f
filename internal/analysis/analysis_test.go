package analysis_test

import (
	"civiceye/backend/internal/analysis"
	"civiceye/backend/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func complaintAt(typ string, st models.Status, createdAt time.Time) models.Complaint {
	return models.Complaint{Type: typ, Status: st, CreatedAt: createdAt}
}

func TestAggregate_MixedAges(t *testing.T) {
	complaints := []models.Complaint{
		complaintAt("Pothole", models.StatusPending, fixedNow.Add(-time.Hour)),
		complaintAt("Garbage", models.StatusApproved, fixedNow.Add(-2*time.Hour)),
		complaintAt("Pothole", models.StatusResolved, fixedNow.Add(-3*time.Hour)),
		complaintAt("Streetlight", models.StatusPending, fixedNow.AddDate(0, 0, -10)),
	}

	stats := analysis.Aggregate(complaints, fixedNow)

	assert.Equal(t, 4, stats.TotalComplaints)
	assert.Equal(t, map[models.Status]int{
		models.StatusPending:  2,
		models.StatusApproved: 1,
		models.StatusRejected: 0,
		models.StatusResolved: 1,
	}, stats.StatusCounts)
	assert.Equal(t, map[string]int{"Pothole": 2, "Garbage": 1, "Streetlight": 1}, stats.CategoryCounts)
	assert.Equal(t, 3, stats.Last7DaysCount)
}

func TestAggregate_StatusCountsAlwaysHaveFourKeys(t *testing.T) {
	cases := map[string][]models.Complaint{
		"none":   nil,
		"single": {complaintAt("Noise", models.StatusRejected, fixedNow)},
		"all resolved": {
			complaintAt("A", models.StatusResolved, fixedNow),
			complaintAt("B", models.StatusResolved, fixedNow),
		},
		"every status": {
			complaintAt("A", models.StatusPending, fixedNow),
			complaintAt("A", models.StatusApproved, fixedNow),
			complaintAt("A", models.StatusRejected, fixedNow),
			complaintAt("A", models.StatusResolved, fixedNow),
		},
	}

	for name, complaints := range cases {
		t.Run(name, func(t *testing.T) {
			stats := analysis.Aggregate(complaints, fixedNow)

			assert.Len(t, stats.StatusCounts, 4)
			sum := 0
			for _, st := range models.Statuses {
				n, ok := stats.StatusCounts[st]
				assert.True(t, ok, "missing key %s", st)
				sum += n
			}
			assert.Equal(t, stats.TotalComplaints, sum)
		})
	}
}

func TestAggregate_UnknownStatusOnlyInTotal(t *testing.T) {
	stats := analysis.Aggregate([]models.Complaint{
		complaintAt("A", models.Status("Closed"), fixedNow),
		complaintAt("A", models.StatusPending, fixedNow),
	}, fixedNow)

	assert.Equal(t, 2, stats.TotalComplaints)
	assert.Len(t, stats.StatusCounts, 4)
	assert.Equal(t, 1, stats.StatusCounts[models.StatusPending])
	assert.Equal(t, 2, stats.CategoryCounts["A"])
}

func TestIsRecent_WindowBounds(t *testing.T) {
	tests := []struct {
		name      string
		createdAt time.Time
		want      bool
	}{
		{"now", fixedNow, true},
		{"exactly seven days ago", fixedNow.Add(-7 * 24 * time.Hour), true},
		{"just outside window", fixedNow.Add(-7*24*time.Hour - time.Second), false},
		{"six days ago", fixedNow.AddDate(0, 0, -6), true},
		{"ten days ago", fixedNow.AddDate(0, 0, -10), false},
		{"future", fixedNow.Add(time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analysis.IsRecent(tt.createdAt, fixedNow))
		})
	}
}
