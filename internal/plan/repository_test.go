package plan

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/drsaho/weekly-tracker/internal/kvstore"
)

// flakyKV wraps a MemStore and fails reads or writes on demand.
type flakyKV struct {
	*kvstore.MemStore
	getErr error
	putErr error
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemStore.Get(ctx, key)
}

func (f *flakyKV) Put(ctx context.Context, key string, value []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.MemStore.Put(ctx, key, value)
}

func loadRaw(t *testing.T, raw string) *State {
	t.Helper()
	kv := kvstore.NewMemStore()
	require.NoError(t, kv.Put(context.Background(), StorageKey, []byte(raw)))
	return NewRepository(kv, zaptest.NewLogger(t)).Load(context.Background())
}

/* ─── Fallback to default ────────────────────────────────────────────── */

func TestLoad_Fallbacks(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "{oops"},
		{"not an object", `[1,2,3]`},
		{"no rows", `{"startingWeight":180}`},
		{"rows not an array", `{"rows":{"0":{}}}`},
		{"rows null", `{"rows":null}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, DefaultState(), loadRaw(t, tc.raw))
		})
	}
}

func TestLoad_NothingStored(t *testing.T) {
	repo := NewRepository(kvstore.NewMemStore(), nil)
	assert.Equal(t, DefaultState(), repo.Load(context.Background()))
}

func TestLoad_ReadErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	kv := &flakyKV{MemStore: kvstore.NewMemStore(), getErr: errors.New("disk gone")}

	s := NewRepository(kv, zap.New(core)).Load(context.Background())

	assert.Equal(t, DefaultState(), s)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "read stored plan", logs.All()[0].Message)
}

/* ─── Normalization ──────────────────────────────────────────────────── */

func TestLoad_NormalizesPartialDocument(t *testing.T) {
	s := loadRaw(t, `{
		"startingWeight": 180.5,
		"rows": [
			{"date": "2025-01-06", "current": 181, "bp": "120/80", "extra": "ignored"},
			"not a row",
			{"goal": true, "waist": null, "water": "55%"}
		],
		"seriesVisible": {"water": true, "current": false, "pulse": true, "waist": "yes"},
		"unitMode": "imperial",
		"tdeeInputs": {"sex": "female", "age": 41.6, "heightCm": "170", "weightKg": 65, "activity": null},
		"tdee": 2000.5,
		"targetCalories": 1000.4
	}`)

	require.NotNil(t, s.StartingWeight)
	assert.Equal(t, 180.5, *s.StartingWeight)

	assert.Equal(t, WeekEntry{Date: "2025-01-06", Current: "181", BP: "120/80"}, s.Rows[0])
	assert.Equal(t, WeekEntry{}, s.Rows[1])
	assert.Equal(t, WeekEntry{Water: "55%"}, s.Rows[2])
	for i := 3; i < WeekCount; i++ {
		assert.Equal(t, WeekEntry{}, s.Rows[i], "row %d", i)
	}

	want := DefaultSeriesVisibility()
	want.Water = true
	want.Current = false
	assert.Equal(t, want, s.SeriesVisible)

	assert.Equal(t, UnitsUS, s.UnitMode)

	in := s.TDEEInputs
	assert.Equal(t, Female, in.Sex)
	require.NotNil(t, in.Age)
	assert.Equal(t, 42, *in.Age)
	assert.Nil(t, in.HeightCm, "strings are not numbers")
	require.NotNil(t, in.WeightKg)
	assert.Equal(t, 65.0, *in.WeightKg)
	assert.Equal(t, DefaultActivity, in.Activity)
	assert.Equal(t, DefaultLossRate, in.LossRate)

	assert.Equal(t, 2000.5, *s.TDEE)
	assert.Equal(t, 1000, *s.TargetCalories)
}

// TestLoad_IllTypedSectionsKeepRows verifies that a wrongly typed
// seriesVisible or tdeeInputs falls back to its default without losing the
// weekly rows.
func TestLoad_IllTypedSectionsKeepRows(t *testing.T) {
	for _, raw := range []string{
		`{"rows":[{"current":"180"}],"seriesVisible":5}`,
		`{"rows":[{"current":"180"}],"seriesVisible":[true]}`,
		`{"rows":[{"current":"180"}],"tdeeInputs":"x"}`,
		`{"rows":[{"current":"180"}],"tdeeInputs":[1]}`,
	} {
		t.Run(raw, func(t *testing.T) {
			s := loadRaw(t, raw)
			assert.Equal(t, Cell("180"), s.Rows[0].Current)
			assert.Equal(t, DefaultSeriesVisibility(), s.SeriesVisible)
			assert.Equal(t, DefaultTDEEInputs(), s.TDEEInputs)
		})
	}
}

func TestLoad_OutOfRangeIntegersDropped(t *testing.T) {
	s := loadRaw(t, `{"rows":[],"tdeeInputs":{"age":1e300},"targetCalories":-5}`)
	assert.Nil(t, s.TDEEInputs.Age)
	assert.Nil(t, s.TargetCalories)

	s = loadRaw(t, `{"rows":[],"targetCalories":1e300}`)
	assert.Nil(t, s.TargetCalories)
}

func TestLoad_RejectsNonPositiveStartingWeight(t *testing.T) {
	for _, raw := range []string{
		`{"startingWeight": 0, "rows": []}`,
		`{"startingWeight": -180, "rows": []}`,
		`{"startingWeight": "180", "rows": []}`,
	} {
		assert.Nil(t, loadRaw(t, raw).StartingWeight, raw)
	}
}

func TestLoad_ExtraRowsDropped(t *testing.T) {
	rows := make([]WeekEntry, 14)
	rows[13].Current = "999"
	data, err := json.Marshal(map[string]any{"rows": rows})
	require.NoError(t, err)

	s := loadRaw(t, string(data))
	for _, r := range s.Rows {
		assert.Empty(t, r.Current)
	}
}

/* ─── Round trip ─────────────────────────────────────────────────────── */

func populatedState(t *testing.T) *State {
	t.Helper()
	s := DefaultState()
	s.Rows[0].Date = "2025-01-06"
	s.Rows[0].Current = "200 lb"
	s.Rows[1].BP = "118/76"
	s.Rows[2].Muscle = "42%"
	require.NoError(t, GeneratePlan(s, ""))
	s.UnitMode = UnitsMetric
	require.NoError(t, CalculateAndStoreTDEE(s, RawTDEEInputs{Age: "35", HeightCm: "180", WeightKg: "90"}))
	require.NoError(t, s.SeriesVisible.Set(SeriesBPSys, true))
	return s
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kvstore.NewMemStore(), zaptest.NewLogger(t))
	s := populatedState(t)

	require.NoError(t, repo.Save(ctx, s))
	got := repo.Load(ctx)

	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("state changed across save/load (-want +got):\n%s", diff)
	}
}

// TestLoad_Idempotent verifies that normalizing an already-normalized
// document is a no-op.
func TestLoad_Idempotent(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemStore()
	require.NoError(t, kv.Put(ctx, StorageKey, []byte(`{"rows":[{"current":181.0,"goal":179}],"unitMode":"metric"}`)))
	repo := NewRepository(kv, zaptest.NewLogger(t))

	first := repo.Load(ctx)
	require.NoError(t, repo.Save(ctx, first))
	second := repo.Load(ctx)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second load differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, Cell("181"), second.Rows[0].Current)
}

func TestSave_WriteError(t *testing.T) {
	kv := &flakyKV{MemStore: kvstore.NewMemStore(), putErr: errors.New("quota exceeded")}
	err := NewRepository(kv, nil).Save(context.Background(), DefaultState())
	assert.ErrorContains(t, err, "write plan: quota exceeded")
}

func TestClearThenLoad_KeepsUnitModeAndTDEE(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kvstore.NewMemStore(), zaptest.NewLogger(t))
	s := populatedState(t)
	ClearPlan(s)
	require.NoError(t, repo.Save(ctx, s))

	got := repo.Load(ctx)
	assert.Nil(t, got.StartingWeight)
	assert.Equal(t, [WeekCount]WeekEntry{}, got.Rows)
	assert.Equal(t, UnitsMetric, got.UnitMode)
	if diff := cmp.Diff(s.TDEEInputs, got.TDEEInputs); diff != "" {
		t.Errorf("TDEE inputs changed (-want +got):\n%s", diff)
	}
	assert.Equal(t, *s.TargetCalories, *got.TargetCalories)
}

func TestLoad_TwiceWithoutSave(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemStore()
	require.NoError(t, kv.Put(ctx, StorageKey, []byte(`{"rows":[{"current":" 150 lb "}],"startingWeight":152}`)))
	repo := NewRepository(kv, nil)

	assert.Equal(t, repo.Load(ctx), repo.Load(ctx))
	assert.Equal(t, Cell(" 150 lb "), repo.Load(ctx).Rows[0].Current, "raw text is kept verbatim")
}
