package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const DefaultRecentLimit = 5

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
	Recent(ctx context.Context, limit int) ([]*RecentBooking, error)
}

type service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

// NewService creates the dashboard aggregator. loc decides which month "this month" is.
func NewService(repo Repository, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, loc: loc, now: time.Now}
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	thisStart, thisEnd := monthRange(s.now().In(s.loc))
	lastStart, _ := monthRange(thisStart.AddDate(0, -1, 0))

	var stats Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.repo.Counts(gctx)
		if err != nil {
			return err
		}
		stats.TotalBookings = c.TotalBookings
		stats.PendingBookings = c.PendingBookings
		stats.TotalCustomers = c.TotalCustomers
		return nil
	})
	g.Go(func() error {
		v, err := s.repo.Revenue(gctx, thisStart, thisEnd)
		stats.MonthlyRevenue = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.Revenue(gctx, lastStart, thisStart)
		stats.LastMonthRevenue = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.RevenueGrowth = Growth(stats.MonthlyRevenue, stats.LastMonthRevenue)
	return &stats, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]*RecentBooking, error) {
	if limit <= 0 || limit > 50 {
		limit = DefaultRecentLimit
	}
	return s.repo.Recent(ctx, limit)
}
