package title

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blog-agent/pkg/logger"
)

type fakeEnricher struct {
	variations []string
	varErr     error
	best       string
	bestErr    error
}

func (e *fakeEnricher) GenerateTitleVariations(ctx context.Context, seed string, count int) ([]string, error) {
	return e.variations, e.varErr
}

func (e *fakeEnricher) SelectBestTitle(ctx context.Context, candidates []string) (string, error) {
	return e.best, e.bestErr
}

type fakeState struct {
	values map[string]string
	err    error
}

func (s *fakeState) SetState(ctx context.Context, key, value string) error {
	if s.err != nil {
		return s.err
	}
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "disabled"})
}

func strategy(name, result string, err error) Strategy {
	return FuncStrategy{
		StrategyName: name,
		Fn: func(ctx context.Context) (string, error) {
			return result, err
		},
	}
}

func TestSynthesizeFirstStrategyWins(t *testing.T) {
	s := New([]Strategy{
		strategy("first", "Winning Seed", nil),
		strategy("second", "Unused Seed", nil),
	}, nil, nil, testLogger())

	got, err := s.Synthesize(context.Background(), "fallback")
	require.NoError(t, err)
	require.Equal(t, "Winning Seed", got)
}

func TestSynthesizeSkipsFailedStrategies(t *testing.T) {
	s := New([]Strategy{
		strategy("broken", "", fmt.Errorf("no model")),
		strategy("empty", "", nil),
		strategy("working", "Recovered Seed", nil),
	}, nil, nil, testLogger())

	got, err := s.Synthesize(context.Background(), "fallback")
	require.NoError(t, err)
	require.Equal(t, "Recovered Seed", got)
}

func TestSynthesizeFallsBackWhenChainExhausted(t *testing.T) {
	s := New([]Strategy{
		strategy("broken", "", fmt.Errorf("no model")),
	}, nil, nil, testLogger())

	got, err := s.Synthesize(context.Background(), "My Topic")
	require.NoError(t, err)
	require.Equal(t, "My Topic", got)
}

func TestSynthesizeEnrichesSeed(t *testing.T) {
	enricher := &fakeEnricher{
		variations: []string{"Variant A", "Variant B"},
		best:       "Variant B",
	}
	s := New([]Strategy{strategy("seed", "Seed Title", nil)}, enricher, nil, testLogger())

	got, err := s.Synthesize(context.Background(), "fallback")
	require.NoError(t, err)
	require.Equal(t, "Variant B", got)
}

func TestSynthesizeEnrichmentFailureKeepsSeed(t *testing.T) {
	tests := []struct {
		name     string
		enricher *fakeEnricher
	}{
		{name: "variation error", enricher: &fakeEnricher{varErr: fmt.Errorf("api down")}},
		{name: "no variations", enricher: &fakeEnricher{variations: nil}},
		{name: "ranking error", enricher: &fakeEnricher{variations: []string{"A"}, bestErr: fmt.Errorf("api down")}},
		{name: "empty ranking", enricher: &fakeEnricher{variations: []string{"A"}, best: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New([]Strategy{strategy("seed", "Seed Title", nil)}, tt.enricher, nil, testLogger())

			got, err := s.Synthesize(context.Background(), "fallback")
			require.NoError(t, err)
			require.Equal(t, "Seed Title", got)
		})
	}
}

func TestSynthesizePersistsCandidate(t *testing.T) {
	state := &fakeState{}
	s := New([]Strategy{strategy("seed", "Chosen Title", nil)}, nil, state, testLogger())

	_, err := s.Synthesize(context.Background(), "fallback")
	require.NoError(t, err)
	require.Equal(t, "Chosen Title", state.values["candidate_title"])
}

func TestSynthesizeStatePersistFailureNotFatal(t *testing.T) {
	state := &fakeState{err: fmt.Errorf("disk full")}
	s := New([]Strategy{strategy("seed", "Chosen Title", nil)}, nil, state, testLogger())

	got, err := s.Synthesize(context.Background(), "fallback")
	require.NoError(t, err)
	require.Equal(t, "Chosen Title", got)
}

func TestFuncStrategyUnconfigured(t *testing.T) {
	f := FuncStrategy{StrategyName: "hollow"}

	_, err := f.Propose(context.Background())
	require.Error(t, err)
}
