package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/GTDGit/kaira_store/internal/models"
	"github.com/GTDGit/kaira_store/internal/repository"
)

const (
	// ActivityWindowDays is the number of days shown on the activity chart.
	ActivityWindowDays = 14
	// activityQueryDays is how far back the grouping query looks.
	activityQueryDays = 20
	// EmptyPlaceholder stands in for values that do not exist yet.
	EmptyPlaceholder = "—"

	dayKeyLayout   = "2006-01-02"
	dayLabelLayout = "02 Jan"
)

// DashboardService computes the admin dashboard aggregates. Nothing is cached.
type DashboardService struct {
	productRepo *repository.ProductRepository
	now         func() time.Time
}

// NewDashboardService constructs a DashboardService using the wall clock.
func NewDashboardService(productRepo *repository.ProductRepository) *DashboardService {
	return &DashboardService{productRepo: productRepo, now: time.Now}
}

// WithClock replaces the clock used to decide "today".
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// Stats gathers every dashboard figure.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var (
		stats models.DashboardStats
		err   error
	)
	if stats.Total, err = s.TotalCount(ctx); err != nil {
		return nil, err
	}
	if stats.Categories, err = s.CategoryCount(ctx); err != nil {
		return nil, err
	}
	if stats.Latest, err = s.LatestName(ctx); err != nil {
		return nil, err
	}
	if stats.Breakdown, err = s.CategoryBreakdown(ctx); err != nil {
		return nil, err
	}
	if stats.Activity, err = s.RecentActivity(ctx, ActivityWindowDays); err != nil {
		return nil, err
	}
	return &stats, nil
}

// TotalCount returns the number of products.
func (s *DashboardService) TotalCount(ctx context.Context) (int, error) {
	return s.productRepo.Count(ctx)
}

// CategoryCount returns the number of distinct categories.
func (s *DashboardService) CategoryCount(ctx context.Context) (int, error) {
	return s.productRepo.CountCategories(ctx)
}

// LatestName returns the newest product's name, or EmptyPlaceholder.
func (s *DashboardService) LatestName(ctx context.Context) (string, error) {
	name, err := s.productRepo.LatestName(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EmptyPlaceholder, nil
		}
		return "", err
	}
	return name, nil
}

// CategoryBreakdown returns counts per category, largest first. An empty
// table yields a single placeholder entry.
func (s *DashboardService) CategoryBreakdown(ctx context.Context) ([]models.CategoryCount, error) {
	rows, err := s.productRepo.CategoryBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []models.CategoryCount{{Category: EmptyPlaceholder, Count: 0}}, nil
	}
	return rows, nil
}

// RecentActivity returns one entry per UTC calendar day for the last
// windowDays days including today, oldest first, zero-filled.
func (s *DashboardService) RecentActivity(ctx context.Context, windowDays int) ([]models.DayCount, error) {
	if windowDays <= 0 {
		windowDays = ActivityWindowDays
	}
	queryDays := activityQueryDays
	if windowDays > queryDays {
		queryDays = windowDays
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	rows, err := s.productRepo.CountByDaySince(ctx, today.AddDate(0, 0, -queryDays))
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Day] += r.Count
	}

	days := make([]models.DayCount, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		key := d.Format(dayKeyLayout)
		days = append(days, models.DayCount{
			Date:  key,
			Label: d.Format(dayLabelLayout),
			Count: counts[key],
		})
	}
	return days, nil
}
