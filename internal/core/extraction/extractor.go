package extraction

import (
	"context"
	"fmt"

	"github.com/cloudflare/ahocorasick"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/ledger/internal/core/model"
	"github.com/agenthands/ledger/internal/core/normalize"
)

// Extractor finds entity names in free text. All canonical and alternate names
// of one entity map are compiled into a single automaton, so a document is
// scanned once regardless of how many entities there are.
type Extractor struct {
	entities []*model.Entity
	// names[i][k] is the pattern index of entities[i].Names()[k].
	names   [][]int
	matcher *ahocorasick.Matcher
}

func NewExtractor(m *model.EntityMap) *Extractor {
	x := &Extractor{entities: m.Entities()}

	index := make(map[string]int)
	var patterns []string
	for _, e := range x.entities {
		var ids []int
		for _, name := range e.Names() {
			p := normalize.Lower(name)
			if p == "" {
				ids = append(ids, -1)
				continue
			}
			i, ok := index[p]
			if !ok {
				i = len(patterns)
				index[p] = i
				patterns = append(patterns, p)
			}
			ids = append(ids, i)
		}
		x.names = append(x.names, ids)
	}
	if len(patterns) > 0 {
		x.matcher = ahocorasick.NewStringMatcher(patterns)
	}
	return x
}

// FindMentions returns at most one mention per entity, in entity map order.
// The canonical name takes priority; otherwise the first alternate present
// in the text is used. Matching is case-insensitive substring matching.
func (x *Extractor) FindMentions(text string) []model.Mention {
	mentions := []model.Mention{}
	if x == nil || x.matcher == nil || text == "" {
		return mentions
	}

	hits := make(map[int]bool)
	for _, i := range x.matcher.MatchThreadSafe([]byte(normalize.Lower(text))) {
		hits[i] = true
	}
	if len(hits) == 0 {
		return mentions
	}

	for i, e := range x.entities {
		names := e.Names()
		for k, p := range x.names[i] {
			if p < 0 || !hits[p] {
				continue
			}
			mentions = append(mentions, model.Mention{
				EntityID:    e.ID,
				EntityName:  e.CanonicalName,
				MatchedText: names[k],
			})
			break
		}
	}
	return mentions
}

// FindMentions compiles an Extractor for m and scans text once.
func FindMentions(text string, m *model.EntityMap) []model.Mention {
	return NewExtractor(m).FindMentions(text)
}

// ScanDocuments finds developer and investor mentions in every document on a
// bounded worker pool. The result has one entry per document, in input order.
func ScanDocuments(ctx context.Context, docs []model.Document, developers, investors *Extractor, workers int) ([]model.DocumentMentions, error) {
	out := make([]model.DocumentMentions, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = model.DocumentMentions{
				DocumentID: doc.ID,
				Source:     doc.Source,
				Developers: developers.FindMentions(doc.Text),
				Investors:  investors.FindMentions(doc.Text),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}
	return out, nil
}

// WithMentions drops documents that mention no entity.
func WithMentions(found []model.DocumentMentions) []model.DocumentMentions {
	out := []model.DocumentMentions{}
	for _, d := range found {
		if !d.Empty() {
			out = append(out, d)
		}
	}
	return out
}
