package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/drsaho/weekly-tracker/internal/kvstore"
)

// StorageKey is where the state document lives. Incompatible schema changes
// bump the suffix; data under an old key is abandoned, not migrated.
const StorageKey = "weeklyWeightTable_v2"

// KV is the byte-level store beneath the Repository.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Repository loads and saves the single State document.
type Repository struct {
	kv  KV
	log *zap.Logger
}

// NewRepository creates a Repository over kv.
func NewRepository(kv KV, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{kv: kv, log: logger}
}

// Load returns the stored state, normalized. Anything missing, unreadable
// or without a rows array yields DefaultState; Load never fails.
func (r *Repository) Load(ctx context.Context) *State {
	data, err := r.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			r.log.Warn("read stored plan", zap.Error(err))
		}
		return DefaultState()
	}
	s, err := decodeState(data)
	if err != nil {
		r.log.Debug("discarding malformed plan", zap.Error(err))
		return DefaultState()
	}
	return s
}

// Save writes the complete state under StorageKey.
func (r *Repository) Save(ctx context.Context, s *State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	if err := r.kv.Put(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}

/* ─── Deserialization boundary ───────────────────────────────────────── */

// storedState mirrors State with every field left raw so that one ill-typed
// value degrades to its default instead of failing the whole document.
type storedState struct {
	StartingWeight json.RawMessage `json:"startingWeight"`
	Rows           json.RawMessage `json:"rows"`
	SeriesVisible  json.RawMessage `json:"seriesVisible"`
	UnitMode       json.RawMessage `json:"unitMode"`
	TDEEInputs     json.RawMessage `json:"tdeeInputs"`
	TDEE           json.RawMessage `json:"tdee"`
	TargetCalories json.RawMessage `json:"targetCalories"`
}

var errNoRows = errors.New("rows array missing")

func decodeState(data []byte) (*State, error) {
	var raw storedState
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(raw.Rows, &rows); err != nil || rows == nil {
		return nil, errNoRows
	}

	s := DefaultState()
	if w, ok := rawNumber(raw.StartingWeight); ok && w > 0 {
		s.StartingWeight = &w
	}
	for i := 0; i < WeekCount && i < len(rows); i++ {
		var cells map[string]json.RawMessage
		if json.Unmarshal(rows[i], &cells) != nil {
			continue
		}
		for _, f := range Fields {
			_ = s.Rows[i].Set(f, rawText(cells[string(f)]))
		}
	}
	for key, v := range rawObject(raw.SeriesVisible) {
		var b bool
		if json.Unmarshal(v, &b) == nil {
			_ = s.SeriesVisible.Set(SeriesKey(key), b)
		}
	}
	s.UnitMode = ParseUnitMode(rawText(raw.UnitMode))
	s.TDEEInputs = decodeTDEEInputs(rawObject(raw.TDEEInputs))
	if v, ok := rawNumber(raw.TDEE); ok {
		s.TDEE = &v
	}
	if v, ok := rawNumber(raw.TargetCalories); ok && v >= 0 {
		if n, ok := roundInt(v); ok {
			s.TargetCalories = &n
		}
	}
	return s, nil
}

func decodeTDEEInputs(m map[string]json.RawMessage) TDEEInputs {
	in := DefaultTDEEInputs()
	in.Sex = ParseSex(rawText(m["sex"]))
	if v, ok := rawNumber(m["age"]); ok {
		if n, ok := roundInt(v); ok {
			in.Age = ptr(n)
		}
	}
	optional := map[string]**float64{
		"heightFt": &in.HeightFt,
		"heightIn": &in.HeightIn,
		"heightCm": &in.HeightCm,
		"weightLb": &in.WeightLb,
		"weightKg": &in.WeightKg,
	}
	for key, dst := range optional {
		if v, ok := rawNumber(m[key]); ok {
			*dst = ptr(v)
		}
	}
	if v, ok := rawNumber(m["activity"]); ok {
		in.Activity = v
	}
	if v, ok := rawNumber(m["lossRate"]); ok {
		in.LossRate = v
	}
	return in
}

// rawObject decodes a JSON object; any other value yields nil.
func rawObject(m json.RawMessage) map[string]json.RawMessage {
	var obj map[string]json.RawMessage
	if len(m) == 0 || json.Unmarshal(m, &obj) != nil {
		return nil
	}
	return obj
}

// rawNumber accepts only JSON numbers; null, strings and absent values fail.
func rawNumber(m json.RawMessage) (float64, bool) {
	var v float64
	if len(m) == 0 || string(m) == "null" {
		return 0, false
	}
	if json.Unmarshal(m, &v) != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

// rawText returns a JSON string as-is and a JSON number in its shortest
// decimal form. Anything else is empty.
func rawText(m json.RawMessage) string {
	var s string
	if len(m) > 0 && json.Unmarshal(m, &s) == nil {
		return s
	}
	if v, ok := rawNumber(m); ok {
		return formatNumber(v)
	}
	return ""
}
