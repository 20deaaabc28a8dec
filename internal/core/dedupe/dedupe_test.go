package dedupe

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/ledger/internal/core/model"
)

func entityMap(t model.EntityType, entities ...*model.Entity) *model.EntityMap {
	m := model.NewEntityMap(t)
	for _, e := range entities {
		e.Type = t
		sort.Strings(e.NormalizedVariants)
		m.Add(e)
	}
	return m
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 100.0, Similarity("verdenova", "verdenova"))
	assert.Equal(t, 94.74, Similarity("verdenova", "verde nova"))
	assert.Equal(t, 90.0, Similarity("eco forest", "ecoforests"))
	assert.Equal(t, 40.0, Similarity("abcde", "abxyz"))
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
	assert.Equal(t, 66.67, Similarity("abc", "abd"))
	assert.Equal(t, 100.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("", "abc"))
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"verdenova", "verde nova"},
		{"northstar", "north star partners"},
		{"écoforêt", "ecoforet"},
		{"a", "abcdef"},
		{"", "x"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), "pair %q", p)
	}
}

func TestDetect_Scenario(t *testing.T) {
	m := entityMap(model.Developer,
		&model.Entity{ID: "D1", CanonicalName: "VerdeNova Solutions", NormalizedVariants: []string{"verdenova"}},
		&model.Entity{ID: "D2", CanonicalName: "Verde Nova Agro", NormalizedVariants: []string{"verde nova"}},
		&model.Entity{ID: "D3", CanonicalName: "Abcde", NormalizedVariants: []string{"abcde"}},
		&model.Entity{ID: "D4", CanonicalName: "Abxyz", NormalizedVariants: []string{"abxyz"}},
	)

	got, err := NewDetector(DefaultThreshold, 2, zerolog.Nop()).Detect(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, model.Developer, c.Type)
	assert.Equal(t, "D1", c.IDA)
	assert.Equal(t, "D2", c.IDB)
	assert.Equal(t, "VerdeNova Solutions", c.NameA)
	assert.Equal(t, 94.74, c.Similarity)
	assert.Equal(t, [2]string{"verdenova", "verde nova"}, c.MatchedVariantPair)

	// The 40-point pair only shows up once the threshold allows it.
	low, err := NewDetector(40, 1, zerolog.Nop()).Detect(context.Background(), m)
	require.NoError(t, err)
	var ids [][2]string
	for _, c := range low {
		ids = append(ids, [2]string{c.IDA, c.IDB})
	}
	assert.Contains(t, ids, [2]string{"D3", "D4"})
}

func TestDetect_GapsAndPluralsScoreHigh(t *testing.T) {
	// Two gaps, a space and a plural "s", over twenty characters.
	m := entityMap(model.Developer,
		&model.Entity{ID: "D1", CanonicalName: "Eco Forest Ltd", NormalizedVariants: []string{"eco forest"}},
		&model.Entity{ID: "D2", CanonicalName: "EcoForests", NormalizedVariants: []string{"ecoforests"}},
	)

	got, err := NewDetector(DefaultThreshold, 1, zerolog.Nop()).Detect(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "D1", got[0].IDA)
	assert.Equal(t, "D2", got[0].IDB)
	assert.Equal(t, 90.0, got[0].Similarity)
}

func TestDetect_OrdersPairBySmallerID(t *testing.T) {
	m := entityMap(model.Investor,
		&model.Entity{ID: "I9", CanonicalName: "NorthStar", NormalizedVariants: []string{"northstar"}},
		&model.Entity{ID: "I2", CanonicalName: "North Star", NormalizedVariants: []string{"north star"}},
	)

	got, err := NewDetector(80, 1, zerolog.Nop()).Detect(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "I2", got[0].IDA)
	assert.Equal(t, "I9", got[0].IDB)
	assert.Equal(t, [2]string{"north star", "northstar"}, got[0].MatchedVariantPair)
}

func TestBestMatch_FirstMaximumWins(t *testing.T) {
	score, pair := BestMatch([]string{"abc"}, []string{"abd", "abe"})
	assert.Equal(t, 66.67, score)
	assert.Equal(t, [2]string{"abc", "abd"}, pair)

	score, pair = BestMatch([]string{"aa", "zz"}, []string{"aa", "zz"})
	assert.Equal(t, 100.0, score)
	assert.Equal(t, [2]string{"aa", "aa"}, pair)
}

func TestDetect_ThresholdMonotonic(t *testing.T) {
	m := syntheticMap(40)

	prev := -1
	for _, threshold := range []float64{0, 20, 40, 60, 80, 85, 90, 100} {
		got, err := NewDetector(threshold, 4, zerolog.Nop()).Detect(context.Background(), m)
		require.NoError(t, err)
		if prev >= 0 {
			assert.LessOrEqual(t, len(got), prev, "threshold %v", threshold)
		}
		prev = len(got)
	}
}

func TestDetect_ParallelMatchesSequential(t *testing.T) {
	m := syntheticMap(60)

	seq, err := NewDetector(50, 1, zerolog.Nop()).Detect(context.Background(), m)
	require.NoError(t, err)
	par, err := NewDetector(50, 8, zerolog.Nop()).Detect(context.Background(), m)
	require.NoError(t, err)

	assert.NotEmpty(t, seq)
	assert.Equal(t, seq, par)
}

func TestDetect_Blocking(t *testing.T) {
	m := entityMap(model.Developer,
		&model.Entity{ID: "D1", CanonicalName: "VerdeNova", NormalizedVariants: []string{"verdenova"}},
		&model.Entity{ID: "D2", CanonicalName: "Verde Nova", NormalizedVariants: []string{"verde nova"}},
		&model.Entity{ID: "D3", CanonicalName: "Green Earth", NormalizedVariants: []string{"green earth"}},
		&model.Entity{ID: "D4", CanonicalName: "Green Earht", NormalizedVariants: []string{"green earht"}},
	)

	d := NewDetector(80, 2, zerolog.Nop())
	d.Blocking = true
	got, err := d.Detect(context.Background(), m)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "D3", got[0].IDA)
	assert.Equal(t, "D4", got[0].IDB)
}

func TestDetect_EmptyAndCancelled(t *testing.T) {
	got, err := NewDetector(85, 2, zerolog.Nop()).Detect(context.Background(), model.NewEntityMap(model.Developer))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewDetector(85, 2, zerolog.Nop()).Detect(ctx, syntheticMap(5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBlockKey(t *testing.T) {
	assert.Equal(t, "green", BlockKey("green earth"))
	assert.Equal(t, "verdenova", BlockKey("verdenova"))
	assert.Equal(t, "", BlockKey(""))
}

func syntheticMap(n int) *model.EntityMap {
	stems := []string{"verde", "terra", "solar", "aqua", "forest"}
	m := model.NewEntityMap(model.Developer)
	for i := 0; i < n; i++ {
		stem := stems[i%len(stems)]
		variants := []string{fmt.Sprintf("%s %d", stem, i), fmt.Sprintf("%s group %d", stem, i%7)}
		sort.Strings(variants)
		m.Add(&model.Entity{
			ID:                 fmt.Sprintf("D%03d", i),
			Type:               model.Developer,
			CanonicalName:      variants[0],
			NormalizedVariants: variants,
		})
	}
	return m
}
