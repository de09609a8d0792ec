package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/pickup"
)

func newEarningsFixture(t *testing.T) (*EarningsUseCase, *fakePickupRepo) {
	t.Helper()

	pickups := newFakePickupRepo()
	c := collector("c1")
	c.Rating = 4.5
	c.TotalRatings = 2
	users := newFakeUserRepo(household("h1"), c)

	at := func(month time.Month, day, hour int) time.Time {
		return time.Date(2026, month, day, hour, 0, 0, 0, dhaka)
	}

	today := completedRequest("today", "h1", "c1", at(time.October, 21, 8))
	today.ActualEarnings = amount(150)
	today.Materials = []entity.Material{
		{Name: "কাগজ", Quantity: 5, Unit: "কেজি", Price: "৳৮-১২"},
		{Name: "ইলেকট্রনিক্স", Quantity: 2, Unit: "পিস", Price: "৳৫০+"},
	}
	monday := completedRequest("monday", "h1", "c1", at(time.October, 19, 12))
	monday.Materials = []entity.Material{{Name: "কাগজ", Quantity: 3, Unit: "KG", Price: "৳৮-১২"}}
	saturday := completedRequest("saturday", "h1", "c1", at(time.October, 17, 23))
	saturday.EstimatedEarnings = 80
	early := completedRequest("early", "h1", "c1", at(time.October, 5, 10))
	early.EstimatedEarnings = 200
	september := completedRequest("september", "h1", "c1", at(time.September, 30, 10))
	september.EstimatedEarnings = 50
	other := completedRequest("other", "h1", "c2", at(time.October, 21, 9))

	for _, r := range []*entity.PickupRequest{today, monday, saturday, early, september, other} {
		pickups.put(r)
	}

	uc := NewEarningsUseCase(pickups, users, dhaka)
	uc.now = func() time.Time { return fixedNow }
	return uc, pickups
}

func TestEarningsUseCase_Summary(t *testing.T) {
	uc, _ := newEarningsFixture(t)
	ctx := context.Background()

	summary, err := uc.Earnings(ctx, c1, "week")
	require.NoError(t, err)

	assert.Equal(t, 150.0, summary.Today)
	assert.Equal(t, 250.0, summary.Week)
	assert.Equal(t, 530.0, summary.Month)
	assert.Equal(t, 580.0, summary.Total)

	require.Len(t, summary.Transactions, 2)
	assert.Equal(t, "today", summary.Transactions[0].RequestID)
	assert.Equal(t, "monday", summary.Transactions[1].RequestID)

	all, err := uc.Earnings(ctx, c1, "")
	require.NoError(t, err)
	assert.Equal(t, "all", all.Filter)
	assert.Len(t, all.Transactions, 5)

	_, err = uc.Earnings(ctx, c1, "decade")
	assertCode(t, err, "VALIDATION_ERROR")

	_, err = uc.Earnings(ctx, h1, "all")
	assertCode(t, err, "FORBIDDEN")
}

func TestEarningsUseCase_Stats(t *testing.T) {
	uc, _ := newEarningsFixture(t)
	ctx := context.Background()

	stats, err := uc.Stats(ctx, c1, "week")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, time.October, 18, 0, 0, 0, 0, dhaka), stats.Since)
	assert.Equal(t, 250.0, stats.TotalEarnings)
	assert.Equal(t, 2, stats.TotalPickups)
	assert.Equal(t, 8.0, stats.TotalWeight)
	assert.Equal(t, 4.5, stats.AverageRating)
	assert.Equal(t, 2, stats.TotalRatings)

	require.Len(t, stats.TopMaterials, 2)
	assert.Equal(t, "কাগজ", stats.TopMaterials[0].Name)
	assert.Equal(t, 8.0, stats.TopMaterials[0].Quantity)
	assert.Equal(t, 2, stats.TopMaterials[0].Pickups)

	require.Len(t, stats.Daily, 2)
	assert.Equal(t, "2026-10-19", stats.Daily[0].Date)
	assert.Equal(t, 100.0, stats.Daily[0].Amount)
	assert.Equal(t, "2026-10-21", stats.Daily[1].Date)

	year, err := uc.Stats(ctx, c1, "year")
	require.NoError(t, err)
	assert.Equal(t, 5, year.TotalPickups)

	_, err = uc.Stats(ctx, c1, "day")
	assertCode(t, err, "VALIDATION_ERROR")
}

func TestEarningsUseCase_HouseholdSummary(t *testing.T) {
	uc, pickups := newEarningsFixture(t)
	ctx := context.Background()

	cancelled := completedRequest("cancelled", "h1", "", fixedNow)
	cancelled.Status = pickup.StatusCancelled
	cancelled.EstimatedEarnings = 999
	pickups.put(cancelled)

	summary, err := uc.HouseholdSummary(ctx, h1)
	require.NoError(t, err)

	assert.Equal(t, 7, summary.TotalRequests)
	assert.Equal(t, 6, summary.ByStatus[pickup.StatusCompleted])
	assert.Equal(t, 1, summary.ByStatus[pickup.StatusCancelled])
	assert.Equal(t, 0, summary.ByStatus[pickup.StatusPending])
	// 150 actual + 100 + 80 + 200 + 50 + 100
	assert.Equal(t, 680.0, summary.ActualEarnings)
	assert.Equal(t, 630.0, summary.EstimatedEarnings)
}

func TestBoundsAtWeekStartsOnSunday(t *testing.T) {
	sunday := time.Date(2026, time.October, 18, 7, 0, 0, 0, dhaka)
	b := boundsAt(sunday)
	assert.Equal(t, time.Date(2026, time.October, 18, 0, 0, 0, 0, dhaka), b.week)

	saturday := time.Date(2026, time.October, 24, 23, 0, 0, 0, dhaka)
	assert.Equal(t, b.week, boundsAt(saturday).week)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, dhaka), b.year)
}
