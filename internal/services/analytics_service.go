package services

import (
	"fmt"
	"time"

	"github.com/buyroll/backend/internal/repositories"
	"github.com/buyroll/backend/pkg/cache"
)

// AnalyticsService serves spending aggregations, cached per user and report
// for a short TTL. The cache is invalidated whenever a sync imports new
// purchases for the user.
type AnalyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
	userRepo      repositories.UserRepository
	cache         cache.Cache
	ttl           time.Duration
}

func NewAnalyticsService(
	analyticsRepo repositories.AnalyticsRepository,
	userRepo repositories.UserRepository,
	c cache.Cache,
	ttl time.Duration,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		userRepo:      userRepo,
		cache:         c,
		ttl:           ttl,
	}
}

func (s *AnalyticsService) Summary(userID uint) (repositories.SpendingSummary, error) {
	key := cacheKey(userID, "summary")
	if v, ok := s.cache.Get(key); ok {
		return v.(repositories.SpendingSummary), nil
	}
	summary, err := s.analyticsRepo.SpendingSummary(userID)
	if err != nil {
		return repositories.SpendingSummary{}, err
	}
	s.cache.Set(key, summary, s.ttl)
	return summary, nil
}

func (s *AnalyticsService) ByCategory(userID uint) ([]repositories.CategorySpending, error) {
	key := cacheKey(userID, "by-category")
	if v, ok := s.cache.Get(key); ok {
		return v.([]repositories.CategorySpending), nil
	}
	rows, err := s.analyticsRepo.SpendingByCategory(userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, rows, s.ttl)
	return rows, nil
}

// ByMonth covers the user's configured dashboard window.
func (s *AnalyticsService) ByMonth(userID uint) ([]repositories.MonthlySpending, error) {
	key := cacheKey(userID, "by-month")
	if v, ok := s.cache.Get(key); ok {
		return v.([]repositories.MonthlySpending), nil
	}
	months := 6
	if user, err := s.userRepo.GetUserByID(userID); err == nil {
		months = user.Settings.Dashboard.MonthsShownOrDefault()
	}
	rows, err := s.analyticsRepo.SpendingByMonth(userID, months)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, rows, s.ttl)
	return rows, nil
}

func (s *AnalyticsService) ByStore(userID uint) ([]repositories.StoreSpending, error) {
	key := cacheKey(userID, "by-store")
	if v, ok := s.cache.Get(key); ok {
		return v.([]repositories.StoreSpending), nil
	}
	rows, err := s.analyticsRepo.SpendingByStore(userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, rows, s.ttl)
	return rows, nil
}

// Invalidate drops every cached report for the user.
func (s *AnalyticsService) Invalidate(userID uint) {
	for _, report := range []string{"summary", "by-category", "by-month", "by-store"} {
		s.cache.Delete(cacheKey(userID, report))
	}
}

func cacheKey(userID uint, report string) string {
	return fmt.Sprintf("analytics:%d:%s", userID, report)
}
