package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sachinottawa/call-agent-backend/internal/apierr"
	redisclient "github.com/sachinottawa/call-agent-backend/internal/clients/redis"
	"github.com/sachinottawa/call-agent-backend/internal/logger"
	"github.com/sachinottawa/call-agent-backend/internal/repos"
	"github.com/sachinottawa/call-agent-backend/internal/types"
	"github.com/sachinottawa/call-agent-backend/internal/validation"
)

// Step codes for persistence failures during a replace; handlers map these to
// the caller-facing 500 messages.
const (
	CodeOverwriteUpload  = "overwrite_upload"
	CodeCreateUpload     = "create_upload"
	CodeInsertCallEvents = "insert_call_events"
	CodeCheckUpload      = "check_upload"
)

type UploadService interface {
	// ReplaceUpload enforces "one dataset per email": any existing upload is
	// deleted (cascading to its call events) and a fresh one inserted, all
	// within a single transaction so a mid-sequence failure can never leave
	// the email with no dataset.
	ReplaceUpload(ctx context.Context, email string, events []validation.ParsedEvent) error
	CheckExists(ctx context.Context, email string) (bool, error)
}

type uploadService struct {
	db            *gorm.DB
	log           *logger.Logger
	uploadRepo    repos.UploadRepo
	callEventRepo repos.CallEventRepo
	chartCache    redisclient.ChartCache
}

func NewUploadService(db *gorm.DB, log *logger.Logger, uploadRepo repos.UploadRepo, callEventRepo repos.CallEventRepo, chartCache redisclient.ChartCache) UploadService {
	return &uploadService{
		db:            db,
		log:           log.With("service", "UploadService"),
		uploadRepo:    uploadRepo,
		callEventRepo: callEventRepo,
		chartCache:    chartCache,
	}
}

type uploadMeta struct {
	EventCount int `json:"event_count"`
}

func (us *uploadService) ReplaceUpload(ctx context.Context, email string, events []validation.ParsedEvent) error {
	var failedStep string

	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := us.uploadRepo.GetByEmail(ctx, tx, email)
		if err != nil {
			failedStep = CodeOverwriteUpload
			return err
		}
		if existing != nil {
			if err := us.uploadRepo.DeleteByID(ctx, tx, existing.ID); err != nil {
				failedStep = CodeOverwriteUpload
				return err
			}
		}

		metaJSON, _ := json.Marshal(uploadMeta{EventCount: len(events)})
		upload := &types.Upload{Email: email, Meta: datatypes.JSON(metaJSON)}
		if err := us.uploadRepo.Create(ctx, tx, upload); err != nil {
			failedStep = CodeCreateUpload
			return err
		}

		rows := make([]*types.CallEvent, 0, len(events))
		for _, ev := range events {
			rows = append(rows, &types.CallEvent{
				UploadID:  upload.ID,
				Timestamp: ev.Timestamp,
				Converted: ev.Converted,
			})
		}
		if err := us.callEventRepo.CreateBatch(ctx, tx, rows); err != nil {
			failedStep = CodeInsertCallEvents
			return err
		}
		return nil
	})
	if err != nil {
		us.log.Error("Upload replacement failed", "email", email, "step", failedStep, "error", err)
		return apierr.Persistence(failedStep, err)
	}

	if us.chartCache != nil {
		us.chartCache.Invalidate(ctx, email)
	}
	us.log.Info("Upload replaced", "email", email, "events", len(events))
	return nil
}

func (us *uploadService) CheckExists(ctx context.Context, email string) (bool, error) {
	exists, err := us.uploadRepo.EmailExists(ctx, nil, email)
	if err != nil {
		us.log.Error("Upload existence check failed", "email", email, "error", err)
		return false, apierr.Persistence(CodeCheckUpload, err)
	}
	return exists, nil
}
