package dedupe

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/ledger/internal/core/model"
)

const DefaultThreshold = 85.0

// Detector reports same-type entity pairs whose normalized variants are
// similar enough to be reviewed as possible duplicates. It never merges.
type Detector struct {
	Threshold float64
	Workers   int
	// Blocking restricts scoring to entities sharing the first token of at
	// least one variant.
	Blocking bool
	Logger   zerolog.Logger
}

func NewDetector(threshold float64, workers int, logger zerolog.Logger) *Detector {
	if workers < 1 {
		workers = 1
	}
	return &Detector{
		Threshold: threshold,
		Workers:   workers,
		Logger:    logger,
	}
}

// Detect scores every candidate pair of m and returns those at or above the
// threshold, sorted by (id_a, id_b).
func (d *Detector) Detect(ctx context.Context, m *model.EntityMap) ([]model.DuplicateCandidate, error) {
	entities := m.Entities()
	sort.Slice(entities, func(i, j int) bool { return entities[i].ID < entities[j].ID })

	partners := d.partners(entities)
	found := make([][]model.DuplicateCandidate, len(entities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(d.Workers, 1))
	for i := range entities {
		if len(partners[i]) == 0 {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a := entities[i]
			for _, j := range partners[i] {
				b := entities[j]
				score, pair := BestMatch(a.NormalizedVariants, b.NormalizedVariants)
				if score < d.Threshold {
					continue
				}
				found[i] = append(found[i], model.DuplicateCandidate{
					Type:               m.Type,
					IDA:                a.ID,
					NameA:              a.CanonicalName,
					IDB:                b.ID,
					NameB:              b.CanonicalName,
					Similarity:         score,
					MatchedVariantPair: pair,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to detect %s duplicates: %w", m.Type, err)
	}

	out := []model.DuplicateCandidate{}
	for _, batch := range found {
		out = append(out, batch...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IDA != out[j].IDA {
			return out[i].IDA < out[j].IDA
		}
		return out[i].IDB < out[j].IDB
	})

	d.Logger.Debug().
		Str("entity_type", string(m.Type)).
		Int("entities", len(entities)).
		Int("candidates", len(out)).
		Float64("threshold", d.Threshold).
		Msg("duplicate detection finished")
	return out, nil
}

// partners lists, for each entity, the indexes of later entities it must be
// compared with. entities must already be sorted by id.
func (d *Detector) partners(entities []*model.Entity) [][]int {
	out := make([][]int, len(entities))
	if !d.Blocking {
		for i := range entities {
			for j := i + 1; j < len(entities); j++ {
				out[i] = append(out[i], j)
			}
		}
		return out
	}

	blocks := make(map[string][]int)
	for i, e := range entities {
		seen := make(map[string]bool)
		for _, v := range e.NormalizedVariants {
			key := BlockKey(v)
			if seen[key] {
				continue
			}
			seen[key] = true
			blocks[key] = append(blocks[key], i)
		}
	}

	pairs := make(map[[2]int]bool)
	for _, members := range blocks {
		for x := 0; x < len(members); x++ {
			for y := x + 1; y < len(members); y++ {
				pairs[[2]int{members[x], members[y]}] = true
			}
		}
	}
	for p := range pairs {
		out[p[0]] = append(out[p[0]], p[1])
	}
	for i := range out {
		sort.Ints(out[i])
	}
	return out
}

// BlockKey is the first token of a normalized variant.
func BlockKey(variant string) string {
	if i := strings.IndexByte(variant, ' '); i >= 0 {
		return variant[:i]
	}
	return variant
}

// BestMatch returns the highest similarity over the Cartesian product of two
// sorted variant sets and the first pair that reached it.
func BestMatch(as, bs []string) (float64, [2]string) {
	best := -1.0
	var pair [2]string
	for _, a := range as {
		for _, b := range bs {
			if s := Similarity(a, b); s > best {
				best = s
				pair = [2]string{a, b}
			}
		}
	}
	if best < 0 {
		return 0, pair
	}
	return best, pair
}

// Similarity is the Indel ratio 100*(1 - indel/(len(a)+len(b))) in [0,100],
// rounded to two decimals. Indel distance counts insertions and deletions
// only, so it equals len(a)+len(b)-2*LCS. Identical strings score 100.
func Similarity(a, b string) float64 {
	if a == b {
		return 100
	}
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	ratio := 100 * float64(2*edlib.LCS(a, b)) / float64(total)
	return math.Round(ratio*100) / 100
}
