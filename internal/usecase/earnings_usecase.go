package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/pickup"
	"bhangari/internal/domain/repository"
	"bhangari/pkg/errors"
	"bhangari/pkg/utils"
)

const topMaterialCount = 5

var weightUnits = map[string]bool{"কেজি": true, "kg": true}

type EarningsUseCase struct {
	pickupRepo repository.PickupRepository
	userRepo   repository.UserRepository
	location   *time.Location
	now        func() time.Time
}

func NewEarningsUseCase(pickupRepo repository.PickupRepository, userRepo repository.UserRepository, location *time.Location) *EarningsUseCase {
	if location == nil {
		location = time.UTC
	}
	return &EarningsUseCase{
		pickupRepo: pickupRepo,
		userRepo:   userRepo,
		location:   location,
		now:        time.Now,
	}
}

type EarningsTransaction struct {
	RequestID   string            `json:"request_id"`
	HouseholdID string            `json:"household_id"`
	Address     string            `json:"address"`
	Materials   []entity.Material `json:"materials"`
	Amount      float64           `json:"amount"`
	CompletedAt time.Time         `json:"completed_at"`
}

type EarningsSummary struct {
	Today        float64               `json:"today"`
	Week         float64               `json:"week"`
	Month        float64               `json:"month"`
	Total        float64               `json:"total"`
	Filter       string                `json:"filter"`
	Transactions []EarningsTransaction `json:"transactions"`
}

type MaterialStat struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
	Pickups  int     `json:"pickups"`
}

type DailyEarning struct {
	Date    string  `json:"date"`
	Amount  float64 `json:"amount"`
	Pickups int     `json:"pickups"`
}

type CollectorStats struct {
	Period        string         `json:"period"`
	Since         time.Time      `json:"since"`
	TotalEarnings float64        `json:"total_earnings"`
	TotalPickups  int            `json:"total_pickups"`
	TotalWeight   float64        `json:"total_weight"`
	AverageRating float64        `json:"average_rating"`
	TotalRatings  int            `json:"total_ratings"`
	TopMaterials  []MaterialStat `json:"top_materials"`
	Daily         []DailyEarning `json:"daily"`
}

type HouseholdSummary struct {
	TotalRequests     int                   `json:"total_requests"`
	ByStatus          map[pickup.Status]int `json:"by_status"`
	EstimatedEarnings float64               `json:"estimated_earnings"`
	ActualEarnings    float64               `json:"actual_earnings"`
}

type periodBounds struct {
	day, week, month, year time.Time
}

// boundsAt returns local midnight of today, of the last Sunday, of the 1st
// of the month and of January 1st.
func boundsAt(now time.Time) periodBounds {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return periodBounds{
		day:   day,
		week:  day.AddDate(0, 0, -int(day.Weekday())),
		month: time.Date(y, m, 1, 0, 0, 0, 0, now.Location()),
		year:  time.Date(y, time.January, 1, 0, 0, 0, 0, now.Location()),
	}
}

func completedAt(req *entity.PickupRequest) time.Time {
	if req.CompletedAt != nil {
		return *req.CompletedAt
	}
	return req.UpdatedAt
}

func (uc *EarningsUseCase) completed(ctx context.Context, actor Actor) ([]*entity.PickupRequest, error) {
	if actor.Role != entity.RoleCollector {
		return nil, errors.Forbidden("Only collectors have earnings", nil)
	}
	reqs, _, err := uc.pickupRepo.List(ctx, repository.PickupListFilter{
		CollectorID: actor.ID,
		Status:      pickup.StatusCompleted,
	})
	return reqs, err
}

func (uc *EarningsUseCase) Earnings(ctx context.Context, actor Actor, filter string) (*EarningsSummary, error) {
	if filter == "" {
		filter = "all"
	}
	b := boundsAt(uc.now().In(uc.location))

	var since time.Time
	switch filter {
	case "all":
	case "today":
		since = b.day
	case "week":
		since = b.week
	case "month":
		since = b.month
	default:
		return nil, errors.Validation("Filter must be one of all, today, week, month")
	}

	reqs, err := uc.completed(ctx, actor)
	if err != nil {
		return nil, err
	}

	summary := &EarningsSummary{Filter: filter, Transactions: []EarningsTransaction{}}
	for _, req := range reqs {
		at := completedAt(req)
		amount := req.Earnings()

		summary.Total += amount
		if !at.Before(b.day) {
			summary.Today += amount
		}
		if !at.Before(b.week) {
			summary.Week += amount
		}
		if !at.Before(b.month) {
			summary.Month += amount
		}

		if at.Before(since) {
			continue
		}
		summary.Transactions = append(summary.Transactions, EarningsTransaction{
			RequestID:   req.ID,
			HouseholdID: req.UserID,
			Address:     req.Address,
			Materials:   req.Materials,
			Amount:      amount,
			CompletedAt: at,
		})
	}

	sort.SliceStable(summary.Transactions, func(i, j int) bool {
		return summary.Transactions[i].CompletedAt.After(summary.Transactions[j].CompletedAt)
	})
	return summary, nil
}

func (uc *EarningsUseCase) Stats(ctx context.Context, actor Actor, period string) (*CollectorStats, error) {
	if period == "" {
		period = "week"
	}
	now := uc.now().In(uc.location)
	b := boundsAt(now)

	var since time.Time
	switch period {
	case "week":
		since = b.week
	case "month":
		since = b.month
	case "year":
		since = b.year
	default:
		return nil, errors.Validation("Period must be one of week, month, year")
	}

	reqs, err := uc.completed(ctx, actor)
	if err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	stats := &CollectorStats{
		Period:        period,
		Since:         since,
		AverageRating: user.Rating,
		TotalRatings:  user.TotalRatings,
		TopMaterials:  []MaterialStat{},
		Daily:         []DailyEarning{},
	}

	materials := make(map[string]*MaterialStat)
	daily := make(map[string]*DailyEarning)
	for _, req := range reqs {
		at := completedAt(req).In(uc.location)
		if at.Before(since) {
			continue
		}

		amount := req.Earnings()
		stats.TotalEarnings += amount
		stats.TotalPickups++

		key := at.Format(utils.DateLayout)
		if daily[key] == nil {
			daily[key] = &DailyEarning{Date: key}
		}
		daily[key].Amount += amount
		daily[key].Pickups++

		for _, m := range req.Materials {
			if weightUnits[strings.ToLower(strings.TrimSpace(m.Unit))] {
				stats.TotalWeight += m.Quantity
			}
			if materials[m.Name] == nil {
				materials[m.Name] = &MaterialStat{Name: m.Name, Unit: m.Unit}
			}
			materials[m.Name].Quantity += m.Quantity
			materials[m.Name].Pickups++
		}
	}

	for _, m := range materials {
		stats.TopMaterials = append(stats.TopMaterials, *m)
	}
	sort.Slice(stats.TopMaterials, func(i, j int) bool {
		a, b := stats.TopMaterials[i], stats.TopMaterials[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	if len(stats.TopMaterials) > topMaterialCount {
		stats.TopMaterials = stats.TopMaterials[:topMaterialCount]
	}

	for _, d := range daily {
		stats.Daily = append(stats.Daily, *d)
	}
	sort.Slice(stats.Daily, func(i, j int) bool { return stats.Daily[i].Date < stats.Daily[j].Date })

	return stats, nil
}

func (uc *EarningsUseCase) HouseholdSummary(ctx context.Context, actor Actor) (*HouseholdSummary, error) {
	reqs, total, err := uc.pickupRepo.List(ctx, repository.PickupListFilter{UserID: actor.ID})
	if err != nil {
		return nil, err
	}

	summary := &HouseholdSummary{
		TotalRequests: int(total),
		ByStatus:      make(map[pickup.Status]int),
	}
	for _, s := range pickup.Statuses() {
		summary.ByStatus[s] = 0
	}
	for _, req := range reqs {
		summary.ByStatus[req.Status]++
		if req.Status == pickup.StatusCancelled {
			continue
		}
		summary.EstimatedEarnings += float64(req.EstimatedEarnings)
		if req.Status == pickup.StatusCompleted {
			summary.ActualEarnings += req.Earnings()
		}
	}
	return summary, nil
}
