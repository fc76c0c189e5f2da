package plan

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Tracker owns the single in-memory State. Every mutation runs under the
// lock and is saved before the lock is released, so concurrent callers see
// the same sequence of states a single event loop would.
type Tracker struct {
	mu    sync.Mutex
	state *State
	repo  *Repository
	log   *zap.Logger
}

// NewTracker loads the stored state once.
func NewTracker(ctx context.Context, repo *Repository, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{state: repo.Load(ctx), repo: repo, log: logger}
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// mutate applies fn to a copy of the state. A validation error from fn
// discards the copy; otherwise the copy becomes current and is saved. When
// the save fails the change is still kept in memory.
func (t *Tracker) mutate(ctx context.Context, op string, fn func(*State) error) (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state.Clone()
	if err := fn(&next); err != nil {
		return t.state.Clone(), err
	}
	t.state = &next
	if err := t.repo.Save(ctx, t.state); err != nil {
		t.log.Error("save plan", zap.String("op", op), zap.Error(err))
		return t.state.Clone(), fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	t.log.Debug("plan saved", zap.String("op", op))
	return t.state.Clone(), nil
}

// GeneratePlan resolves the starting weight and writes the 12 goals.
func (t *Tracker) GeneratePlan(ctx context.Context, explicit string) (State, error) {
	return t.mutate(ctx, "generate", func(s *State) error {
		return GeneratePlan(s, explicit)
	})
}

// ClearPlan empties the plan and all entries. Callers must have confirmed
// the action with the user first.
func (t *Tracker) ClearPlan(ctx context.Context) (State, error) {
	return t.mutate(ctx, "clear", func(s *State) error {
		ClearPlan(s)
		return nil
	})
}

// UpdateCell stores raw into one cell of week (1-based). Editing week 1's
// date of an existing plan re-dates the following weeks.
func (t *Tracker) UpdateCell(ctx context.Context, week int, field Field, raw string) (State, error) {
	return t.mutate(ctx, "update-cell", func(s *State) error {
		if week < 1 || week > WeekCount {
			return ErrWeekOutOfRange
		}
		if err := s.Rows[week-1].Set(field, raw); err != nil {
			return err
		}
		if week == 1 && field == FieldDate && s.StartingWeight != nil {
			PropagateWeeklyDatesFromFirst(&s.Rows)
		}
		return nil
	})
}

// SetUnitMode switches between US and metric TDEE inputs. Anything but
// UnitsMetric selects UnitsUS.
func (t *Tracker) SetUnitMode(ctx context.Context, mode UnitMode) (State, error) {
	return t.mutate(ctx, "unit-mode", func(s *State) error {
		s.UnitMode = ParseUnitMode(string(mode))
		return nil
	})
}

// SetSeriesVisible toggles one series of the metrics chart.
func (t *Tracker) SetSeriesVisible(ctx context.Context, key SeriesKey, visible bool) (State, error) {
	return t.mutate(ctx, "series-visible", func(s *State) error {
		return s.SeriesVisible.Set(key, visible)
	})
}

// SetPreferences applies an optional unit mode and any number of series
// flags as one change. An unknown series key rejects the whole change.
func (t *Tracker) SetPreferences(ctx context.Context, mode *UnitMode, series map[SeriesKey]bool) (State, error) {
	return t.mutate(ctx, "preferences", func(s *State) error {
		if mode != nil {
			s.UnitMode = ParseUnitMode(string(*mode))
		}
		for key, visible := range series {
			if err := s.SeriesVisible.Set(key, visible); err != nil {
				return err
			}
		}
		return nil
	})
}

// CalculateTDEE computes and stores the calorie target.
func (t *Tracker) CalculateTDEE(ctx context.Context, in RawTDEEInputs) (State, error) {
	return t.mutate(ctx, "tdee", func(s *State) error {
		return CalculateAndStoreTDEE(s, in)
	})
}

// Stats summarizes the recorded weights.
func (t *Tracker) Stats() (Stats, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ComputeStats(t.state.Rows)
}

// WeightChart projects the recorded weights.
func (t *Tracker) WeightChart(box Box) (Drawing, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ProjectSingleSeries(FilledWeights(t.state.Rows), box)
}

// MetricsChart projects every visible series.
func (t *Tracker) MetricsChart(box Box) Drawing {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ProjectMultiSeries(t.state.Rows, SeriesDefs(t.state), box)
}
