//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/DevLaukey/cesi-delivery-ms/internal/domain"
	"github.com/DevLaukey/cesi-delivery-ms/internal/repository"
)

type EarningsRepositorySuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *repository.EarningsRepo
}

func (s *EarningsRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewEarningsRepo(tcPool)
}

func (s *EarningsRepositorySuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE earnings RESTART IDENTITY`)
	s.Require().NoError(err)
}

func (s *EarningsRepositorySuite) TestRecord_Idempotent() {
	ctx := context.Background()

	e := domain.Earning{
		CourierID:   "courier-1",
		OrderID:     "ord-1",
		Fee:         4.40,
		DeliveredAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	inserted, err := s.repo.Record(ctx, e)
	s.Require().NoError(err)
	s.True(inserted)

	inserted, err = s.repo.Record(ctx, e)
	s.Require().NoError(err)
	s.False(inserted, "replaying the same order records nothing")

	stats, err := s.repo.Stats(ctx, "courier-1")
	s.Require().NoError(err)
	s.Equal(int64(1), stats.TotalDeliveries)
	s.Equal(4.40, stats.TotalEarnings)
}

func (s *EarningsRepositorySuite) TestStats() {
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, fee := range []float64{4.40, 7.0, 2.5} {
		_, err := s.repo.Record(ctx, domain.Earning{
			CourierID:   "courier-1",
			OrderID:     "ord-" + string(rune('a'+i)),
			Fee:         fee,
			DeliveredAt: base.Add(time.Duration(i) * time.Hour),
		})
		s.Require().NoError(err)
	}
	_, err := s.repo.Record(ctx, domain.Earning{
		CourierID: "courier-2", OrderID: "ord-x", Fee: 10, DeliveredAt: base,
	})
	s.Require().NoError(err)

	stats, err := s.repo.Stats(ctx, "courier-1")
	s.Require().NoError(err)
	s.Equal(int64(3), stats.TotalDeliveries)
	s.InDelta(13.90, stats.TotalEarnings, 1e-9)
	s.Require().NotNil(stats.LastDeliveredAt)
	s.Equal(base.Add(2*time.Hour), *stats.LastDeliveredAt)
}

func (s *EarningsRepositorySuite) TestStats_NoRows() {
	stats, err := s.repo.Stats(context.Background(), "ghost")
	s.Require().NoError(err)
	s.Equal(int64(0), stats.TotalDeliveries)
	s.Equal(0.0, stats.TotalEarnings)
	s.Nil(stats.LastDeliveredAt)
}

func (s *EarningsRepositorySuite) TestList_NewestFirst() {
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.repo.Record(ctx, domain.Earning{
			CourierID:   "courier-1",
			OrderID:     "ord-" + string(rune('a'+i)),
			Fee:         5,
			DeliveredAt: base.Add(time.Duration(i) * time.Hour),
		})
		s.Require().NoError(err)
	}

	list, err := s.repo.List(ctx, "courier-1", 2)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("ord-c", list[0].OrderID)
	s.Equal("ord-b", list[1].OrderID)
}

func TestEarningsRepositorySuite(t *testing.T) {
	suite.Run(t, new(EarningsRepositorySuite))
}
