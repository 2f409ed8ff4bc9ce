package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sachinottawa/call-agent-backend/internal/logger"
	"github.com/sachinottawa/call-agent-backend/internal/types"
)

type UploadRepo interface {
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Upload, error)
	EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, upload *types.Upload) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type uploadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUploadRepo(db *gorm.DB, baseLog *logger.Logger) UploadRepo {
	return &uploadRepo{db: db, log: baseLog.With("repo", "UploadRepo")}
}

// GetByEmail returns nil when no upload exists for the email; absence is not
// an error.
func (ur *uploadRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Upload, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.Upload
	if err := transaction.WithContext(ctx).
		Where("email = ?", email).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (ur *uploadRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Upload{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *uploadRepo) Create(ctx context.Context, tx *gorm.DB, upload *types.Upload) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).Create(upload).Error
}

// DeleteByID removes the upload row; call_events rows follow via the
// ON DELETE CASCADE constraint.
func (ur *uploadRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Upload{}).Error
}
