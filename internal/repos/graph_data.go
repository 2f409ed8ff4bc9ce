package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sachinottawa/call-agent-backend/internal/logger"
	"github.com/sachinottawa/call-agent-backend/internal/types"
)

type GraphDataRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.GraphPoint, error)
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	CreateBatch(ctx context.Context, tx *gorm.DB, points []*types.GraphPoint) error
}

type graphDataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGraphDataRepo(db *gorm.DB, baseLog *logger.Logger) GraphDataRepo {
	return &graphDataRepo{db: db, log: baseLog.With("repo", "GraphDataRepo")}
}

func (gr *graphDataRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.GraphPoint, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var results []*types.GraphPoint
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *graphDataRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.GraphPoint{}).Error
}

func (gr *graphDataRepo) CreateBatch(ctx context.Context, tx *gorm.DB, points []*types.GraphPoint) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	if len(points) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).CreateInBatches(&points, 500).Error
}
