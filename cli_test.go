package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drsaho/weekly-tracker/internal/config"
	"github.com/drsaho/weekly-tracker/internal/kvstore"
	"github.com/drsaho/weekly-tracker/internal/plan"
)

// runCLI executes one command line against store and returns its output.
func runCLI(t *testing.T, store kvstore.Store, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORE_BACKEND", "")
	a := &app{
		openStore: func(context.Context, *config.Config) (kvstore.Store, error) { return store, nil },
		newLogger: func(*config.Config, bool) (*zap.Logger, error) { return zap.NewNop(), nil },
	}
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_Show(t *testing.T) {
	out, err := runCLI(t, kvstore.NewMemStore(), "", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Starting weight: not set")
	assert.Contains(t, out, "Body fat %")
	assert.Contains(t, out, "TDEE: not calculated")
}

func TestCLI_GenerateAndSet(t *testing.T) {
	store := kvstore.NewMemStore()

	out, err := runCLI(t, store, "", "generate", "--start", "180")
	require.NoError(t, err)
	assert.Contains(t, out, "Starting weight: 180 lb")
	assert.Contains(t, out, "156")

	out, err = runCLI(t, store, "", "set", "1", "current", "181.5")
	require.NoError(t, err)
	assert.Contains(t, out, "181.5")

	_, err = runCLI(t, store, "", "set", "2", "current", "179")
	require.NoError(t, err)
	out, err = runCLI(t, store, "", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Start 181.5  Latest 179.0")
	assert.Contains(t, out, "-2.5")
}

func TestCLI_GenerateWithoutWeight(t *testing.T) {
	_, err := runCLI(t, kvstore.NewMemStore(), "", "generate")
	assert.ErrorIs(t, err, plan.ErrInvalidStartingWeight)
}

func TestCLI_SetErrors(t *testing.T) {
	store := kvstore.NewMemStore()

	_, err := runCLI(t, store, "", "set", "one", "current", "180")
	assert.ErrorContains(t, err, "week must be a number")

	_, err = runCLI(t, store, "", "set", "13", "current", "180")
	assert.ErrorIs(t, err, plan.ErrWeekOutOfRange)

	_, err = runCLI(t, store, "", "set", "1", "pulse", "60")
	assert.ErrorIs(t, err, plan.ErrUnknownField)

	_, err = runCLI(t, store, "", "set", "1", "current")
	assert.Error(t, err)
}

func TestCLI_Clear(t *testing.T) {
	store := kvstore.NewMemStore()
	_, err := runCLI(t, store, "", "generate", "--start", "180")
	require.NoError(t, err)

	out, err := runCLI(t, store, "n\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "[y/N]")
	assert.Contains(t, out, "Nothing cleared.")
	out, _ = runCLI(t, store, "", "show")
	assert.Contains(t, out, "Starting weight: 180 lb")

	out, err = runCLI(t, store, "yes\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Plan cleared.")
	out, _ = runCLI(t, store, "", "show")
	assert.Contains(t, out, "Starting weight: not set")

	_, err = runCLI(t, store, "", "generate", "--start", "170")
	require.NoError(t, err)
	out, err = runCLI(t, store, "", "clear", "--yes")
	require.NoError(t, err)
	assert.NotContains(t, out, "[y/N]")
	assert.Contains(t, out, "Plan cleared.")
}

func TestCLI_UnitsAndSeries(t *testing.T) {
	store := kvstore.NewMemStore()

	out, err := runCLI(t, store, "", "units", "metric")
	require.NoError(t, err)
	assert.Contains(t, out, "Units: metric")

	_, err = runCLI(t, store, "", "units", "imperial")
	assert.Error(t, err)

	out, err = runCLI(t, store, "", "series", "water", "on")
	require.NoError(t, err)
	assert.Contains(t, out, "Series water: on")

	_, err = runCLI(t, store, "", "series", "water", "maybe")
	assert.ErrorContains(t, err, `expected on or off, got "maybe"`)

	_, err = runCLI(t, store, "", "series", "pulse", "on")
	assert.ErrorIs(t, err, plan.ErrUnknownSeries)
}

func TestCLI_TDEE(t *testing.T) {
	store := kvstore.NewMemStore()

	out, err := runCLI(t, store, "", "tdee",
		"--age", "30", "--height-ft", "5", "--height-in", "10", "--weight-lb", "180",
		"--activity", "sedentary", "--loss-rate", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "TDEE: 2139 kcal/day  Target: 1639 kcal/day (1.0 lb/week)")

	_, err = runCLI(t, store, "", "tdee", "--age", "30")
	var missing *plan.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"height (ft)", "weight (lb)"}, missing.Fields)

	// The earlier result survives the failed attempt.
	out, _ = runCLI(t, store, "", "show")
	assert.Contains(t, out, "Target: 1639 kcal/day")
}

func TestCLI_StoreOpenFailure(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	a := &app{
		openStore: func(context.Context, *config.Config) (kvstore.Store, error) {
			return nil, errors.New("permission denied")
		},
		newLogger: func(*config.Config, bool) (*zap.Logger, error) { return zap.NewNop(), nil },
	}
	cmd := newRootCmd(a)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"show"})

	err := cmd.Execute()
	assert.ErrorContains(t, err, "failed to open file store: permission denied")
}
