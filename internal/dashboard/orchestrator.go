package dashboard

import (
	"context"
	"sync"

	"github.com/sachinottawa/call-agent-backend/internal/chart"
	"github.com/sachinottawa/call-agent-backend/internal/logger"
)

type State string

const (
	StateNoIdentitySelected State = "no_identity_selected"
	StateLoading            State = "loading"
	StateLoaded             State = "loaded"
	StateLoadedEmpty        State = "loaded_empty"
	StateLoadFailed         State = "load_failed"
)

// Snapshot is the orchestrator's single piece of state: the current dataset
// for the active identity.
type Snapshot struct {
	State    State
	Identity string
	Points   []chart.Point
	Err      error
}

// Loader produces the chart-ready series for an identity (fetch → adapt →
// sort).
type Loader interface {
	HourlyConversion(ctx context.Context, email string) ([]chart.Point, error)
}

// Orchestrator sequences identity selection, loading and result application.
// Each selection gets a monotonically increasing sequence number; a response
// arriving after a newer selection is discarded rather than applied, so a
// slow fetch can never overwrite a fresher one. The transport is not asked to
// cancel anything.
type Orchestrator struct {
	mu       sync.Mutex
	seq      uint64
	snap     Snapshot
	loader   Loader
	log      *logger.Logger
	onChange func(Snapshot)
}

func NewOrchestrator(loader Loader, log *logger.Logger, onChange func(Snapshot)) *Orchestrator {
	return &Orchestrator{
		snap:     Snapshot{State: StateNoIdentitySelected},
		loader:   loader,
		log:      log.With("service", "DashboardOrchestrator"),
		onChange: onChange,
	}
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snap
}

// Select makes email the active identity and starts loading its dataset.
// Called on the initial default identity and again after an upload or a
// manual-edit save succeeds.
func (o *Orchestrator) Select(ctx context.Context, email string) {
	o.mu.Lock()
	o.seq++
	seq := o.seq
	o.setLocked(Snapshot{State: StateLoading, Identity: email})
	o.mu.Unlock()

	go func() {
		points, err := o.loader.HourlyConversion(ctx, email)
		o.apply(seq, email, points, err)
	}()
}

func (o *Orchestrator) apply(seq uint64, email string, points []chart.Point, err error) {
	o.mu.Lock()
	if seq != o.seq {
		o.mu.Unlock()
		o.log.Debug("Discarding stale load result", "email", email, "seq", seq)
		return
	}

	next := Snapshot{Identity: email, Points: points, Err: err}
	switch {
	case err != nil:
		next.State = StateLoadFailed
		next.Points = nil
	case len(points) == 0:
		next.State = StateLoadedEmpty
	default:
		next.State = StateLoaded
	}
	o.setLocked(next)
	o.mu.Unlock()

	if err != nil {
		o.log.Warn("Dashboard load failed", "email", email, "error", err)
	}
}

// setLocked updates the snapshot and notifies the observer. Callers hold mu;
// the callback runs under it too, keeping notifications ordered.
func (o *Orchestrator) setLocked(next Snapshot) {
	o.snap = next
	if o.onChange != nil {
		o.onChange(next)
	}
}

// ChartLoader loads the hourly conversion series over the API client and
// runs the full adapt-and-sort path the dashboard chart consumes.
type ChartLoader struct {
	Client *APIClient
}

func (l *ChartLoader) HourlyConversion(ctx context.Context, email string) ([]chart.Point, error) {
	rows, err := l.Client.ChartData(ctx, email)
	if err != nil {
		return nil, err
	}
	return chart.SortByHourOrder(chart.Adapt(rows)), nil
}
