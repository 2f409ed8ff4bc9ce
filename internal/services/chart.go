package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/sachinottawa/call-agent-backend/internal/apierr"
	redisclient "github.com/sachinottawa/call-agent-backend/internal/clients/redis"
	"github.com/sachinottawa/call-agent-backend/internal/logger"
	"github.com/sachinottawa/call-agent-backend/internal/repos"
	"github.com/sachinottawa/call-agent-backend/internal/types"
)

const CodeAggregateStats = "aggregate_stats"

type ChartService interface {
	// HourlyStats returns the aggregated conversion rows for an email. The
	// reduction itself runs database-side; this service only adds caching.
	HourlyStats(ctx context.Context, email string) ([]types.HourlyCallStat, error)
}

type chartService struct {
	db            *gorm.DB
	log           *logger.Logger
	callEventRepo repos.CallEventRepo
	chartCache    redisclient.ChartCache
}

func NewChartService(db *gorm.DB, log *logger.Logger, callEventRepo repos.CallEventRepo, chartCache redisclient.ChartCache) ChartService {
	return &chartService{
		db:            db,
		log:           log.With("service", "ChartService"),
		callEventRepo: callEventRepo,
		chartCache:    chartCache,
	}
}

func (cs *chartService) HourlyStats(ctx context.Context, email string) ([]types.HourlyCallStat, error) {
	if cs.chartCache != nil {
		if rows, ok := cs.chartCache.Get(ctx, email); ok {
			return rows, nil
		}
	}

	rows, err := cs.callEventRepo.HourlyStats(ctx, nil, email)
	if err != nil {
		cs.log.Error("Hourly stats aggregation failed", "email", email, "error", err)
		return nil, apierr.Persistence(CodeAggregateStats, err)
	}
	if rows == nil {
		rows = []types.HourlyCallStat{}
	}

	if cs.chartCache != nil {
		cs.chartCache.Set(ctx, email, rows)
	}
	return rows, nil
}
