package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sachinottawa/call-agent-backend/internal/chart"
	"github.com/sachinottawa/call-agent-backend/internal/logger"
)

type fakeLoader struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	points  map[string][]chart.Point
	errs    map[string]error
	started chan string
}

func (l *fakeLoader) HourlyConversion(ctx context.Context, email string) ([]chart.Point, error) {
	if l.started != nil {
		l.started <- email
	}
	l.mu.Lock()
	gate := l.gates[email]
	l.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return l.points[email], l.errs[email]
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func waitForSettled(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	for {
		select {
		case snap := <-ch:
			if snap.State != StateLoading {
				return snap
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for a settled snapshot")
		}
	}
}

func TestOrchestratorInitialState(t *testing.T) {
	orch := NewOrchestrator(&fakeLoader{}, testLogger(t), nil)
	if got := orch.Snapshot().State; got != StateNoIdentitySelected {
		t.Errorf("initial state = %q, want %q", got, StateNoIdentitySelected)
	}
}

func TestOrchestratorLoadOutcomes(t *testing.T) {
	points := []chart.Point{{Hour: "9 AM", Conversion: 50}}
	loadErr := errors.New("Failed to fetch chart data")

	cases := []struct {
		name       string
		email      string
		loader     *fakeLoader
		wantState  State
		wantPoints int
		wantErr    error
	}{
		{
			name:       "loaded",
			email:      "a@example.com",
			loader:     &fakeLoader{points: map[string][]chart.Point{"a@example.com": points}},
			wantState:  StateLoaded,
			wantPoints: 1,
		},
		{
			name:      "loaded_empty",
			email:     "b@example.com",
			loader:    &fakeLoader{points: map[string][]chart.Point{}},
			wantState: StateLoadedEmpty,
		},
		{
			name:      "load_failed",
			email:     "c@example.com",
			loader:    &fakeLoader{errs: map[string]error{"c@example.com": loadErr}},
			wantState: StateLoadFailed,
			wantErr:   loadErr,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			changes := make(chan Snapshot, 8)
			orch := NewOrchestrator(tc.loader, testLogger(t), func(s Snapshot) { changes <- s })

			orch.Select(context.Background(), tc.email)

			snap := waitForSettled(t, changes)
			if snap.State != tc.wantState {
				t.Errorf("state = %q, want %q", snap.State, tc.wantState)
			}
			if snap.Identity != tc.email {
				t.Errorf("identity = %q, want %q", snap.Identity, tc.email)
			}
			if len(snap.Points) != tc.wantPoints {
				t.Errorf("got %d points, want %d", len(snap.Points), tc.wantPoints)
			}
			if !errors.Is(snap.Err, tc.wantErr) {
				t.Errorf("err = %v, want %v", snap.Err, tc.wantErr)
			}
		})
	}
}

func TestOrchestratorDiscardsStaleResult(t *testing.T) {
	slowGate := make(chan struct{})
	loader := &fakeLoader{
		gates: map[string]chan struct{}{"slow@example.com": slowGate},
		points: map[string][]chart.Point{
			"slow@example.com": {{Hour: "7 AM", Conversion: 10}},
			"fast@example.com": {{Hour: "4 PM", Conversion: 90}},
		},
		started: make(chan string, 2),
	}
	changes := make(chan Snapshot, 8)
	orch := NewOrchestrator(loader, testLogger(t), func(s Snapshot) { changes <- s })

	ctx := context.Background()
	orch.Select(ctx, "slow@example.com")
	<-loader.started // slow fetch is in flight
	orch.Select(ctx, "fast@example.com")

	snap := waitForSettled(t, changes)
	if snap.State != StateLoaded || snap.Identity != "fast@example.com" {
		t.Fatalf("settled on %q/%q, want loaded fast@example.com", snap.State, snap.Identity)
	}

	// Let the superseded fetch finish; its result must not be applied.
	close(slowGate)
	time.Sleep(50 * time.Millisecond)

	final := orch.Snapshot()
	if final.Identity != "fast@example.com" {
		t.Errorf("stale result overwrote identity: %q", final.Identity)
	}
	if len(final.Points) != 1 || final.Points[0].Hour != "4 PM" {
		t.Errorf("stale result overwrote points: %v", final.Points)
	}
}
