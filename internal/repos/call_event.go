package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sachinottawa/call-agent-backend/internal/logger"
	"github.com/sachinottawa/call-agent-backend/internal/types"
)

type CallEventRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, events []*types.CallEvent) error
	HourlyStats(ctx context.Context, tx *gorm.DB, email string) ([]types.HourlyCallStat, error)
}

type callEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCallEventRepo(db *gorm.DB, baseLog *logger.Logger) CallEventRepo {
	return &callEventRepo{db: db, log: baseLog.With("repo", "CallEventRepo")}
}

func (cr *callEventRepo) CreateBatch(ctx context.Context, tx *gorm.DB, events []*types.CallEvent) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(events) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).CreateInBatches(&events, 500).Error
}

// HourlyStats invokes the database-side aggregation function. The function
// returns one row per hour with at least one event, in no guaranteed order.
func (cr *callEventRepo) HourlyStats(ctx context.Context, tx *gorm.DB, email string) ([]types.HourlyCallStat, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []types.HourlyCallStat
	if err := transaction.WithContext(ctx).
		Raw("SELECT hour, total, converted, conversion_rate FROM get_hourly_call_stats(?)", email).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
