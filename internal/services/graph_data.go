package services

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/sachinottawa/call-agent-backend/internal/apierr"
	"github.com/sachinottawa/call-agent-backend/internal/chart"
	"github.com/sachinottawa/call-agent-backend/internal/logger"
	"github.com/sachinottawa/call-agent-backend/internal/repos"
	"github.com/sachinottawa/call-agent-backend/internal/types"
)

const (
	CodeResolveUser    = "resolve_user"
	CodeCreateUser     = "create_user"
	CodeOverwriteGraph = "overwrite_graph"
	CodeInsertGraph    = "insert_graph"
	CodeFetchGraph     = "fetch_graph"
)

// GraphSnapshot is the fetch result. Exists=false means the email has never
// saved a snapshot; that is a normal outcome, not an error.
type GraphSnapshot struct {
	Exists bool
	Points []chart.Point
}

type GraphDataService interface {
	// ReplaceSnapshot validates every value before touching the database,
	// then — in one transaction — resolves (or creates) the user and swaps
	// the full row set.
	ReplaceSnapshot(ctx context.Context, email string, data map[string]any) error
	FetchSnapshot(ctx context.Context, email string) (*GraphSnapshot, error)
}

type graphDataService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	graphDataRepo repos.GraphDataRepo
}

func NewGraphDataService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, graphDataRepo repos.GraphDataRepo) GraphDataService {
	return &graphDataService{
		db:            db,
		log:           log.With("service", "GraphDataService"),
		userRepo:      userRepo,
		graphDataRepo: graphDataRepo,
	}
}

func (gs *graphDataService) ReplaceSnapshot(ctx context.Context, email string, data map[string]any) error {
	// Validation fully precedes mutation: a bad value must never trigger a
	// partial delete.
	values := make(map[string]float64, len(data))
	for hour, raw := range data {
		value, ok := raw.(float64)
		if !ok || value < 0 || value > 100 {
			return apierr.Validation(fmt.Errorf("Invalid conversion value for %q. Must be between 0 and 100.", hour))
		}
		values[hour] = value
	}

	// Deterministic insert order: canonical hours first, unknown labels after.
	hours := make([]string, 0, len(values))
	for hour := range values {
		hours = append(hours, hour)
	}
	sort.SliceStable(hours, func(i, j int) bool {
		ri, rj := chart.HourRank(hours[i]), chart.HourRank(hours[j])
		if ri != rj {
			return ri < rj
		}
		return hours[i] < hours[j]
	})

	var failedStep string
	err := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := gs.userRepo.GetByEmail(ctx, tx, email)
		if err != nil {
			failedStep = CodeResolveUser
			return err
		}
		if user == nil {
			user, err = gs.userRepo.GetOrCreateByEmail(ctx, tx, email)
			if err != nil {
				failedStep = CodeCreateUser
				return err
			}
		}

		if err := gs.graphDataRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
			failedStep = CodeOverwriteGraph
			return err
		}

		rows := make([]*types.GraphPoint, 0, len(hours))
		for _, hour := range hours {
			rows = append(rows, &types.GraphPoint{
				UserID:               user.ID,
				HourLabel:            hour,
				ConversionPercentage: values[hour],
			})
		}
		if err := gs.graphDataRepo.CreateBatch(ctx, tx, rows); err != nil {
			failedStep = CodeInsertGraph
			return err
		}
		return nil
	})
	if err != nil {
		gs.log.Error("Graph snapshot replacement failed", "email", email, "step", failedStep, "error", err)
		return apierr.Persistence(failedStep, err)
	}

	gs.log.Info("Graph snapshot replaced", "email", email, "points", len(values))
	return nil
}

func (gs *graphDataService) FetchSnapshot(ctx context.Context, email string) (*GraphSnapshot, error) {
	user, err := gs.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		gs.log.Error("Graph snapshot user lookup failed", "email", email, "error", err)
		return nil, apierr.Persistence(CodeResolveUser, err)
	}
	if user == nil {
		return &GraphSnapshot{Exists: false}, nil
	}

	rows, err := gs.graphDataRepo.GetByUserID(ctx, nil, user.ID)
	if err != nil {
		gs.log.Error("Graph snapshot fetch failed", "email", email, "error", err)
		return nil, apierr.Persistence(CodeFetchGraph, err)
	}

	points := make([]chart.Point, 0, len(rows))
	for _, row := range rows {
		points = append(points, chart.Point{
			Hour:       row.HourLabel,
			Conversion: row.ConversionPercentage,
		})
	}
	return &GraphSnapshot{
		Exists: true,
		Points: chart.SortByHourOrder(points),
	}, nil
}
