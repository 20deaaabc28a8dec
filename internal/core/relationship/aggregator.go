// Package relationship derives entity-to-entity edges from document mentions
// and investor notes.
package relationship

import (
	"fmt"
	"regexp"

	"github.com/agenthands/ledger/internal/core/entitymap"
	"github.com/agenthands/ledger/internal/core/model"
)

// projectToken matches candidate project references. Only tokens with exactly
// three digits are project ids; longer runs are reported as malformed.
var projectToken = regexp.MustCompile(`P\d+`)

const projectDigits = 3

type Aggregator struct {
	Developers *model.EntityMap
	Investors  *model.EntityMap
	Projects   *entitymap.ProjectIndex
	Warnings   *model.Warnings
}

func NewAggregator(developers, investors *model.EntityMap, projects *entitymap.ProjectIndex, warnings *model.Warnings) *Aggregator {
	return &Aggregator{
		Developers: developers,
		Investors:  investors,
		Projects:   projects,
		Warnings:   warnings,
	}
}

// Aggregate emits mentioned_together edges for every document with both
// developer and investor mentions, then prior_interaction edges from investor
// notes, and deduplicates by (entity_1, entity_2, relationship_type) keeping
// the first occurrence. docs are expected in generation order: emails, then
// transcripts.
func (a *Aggregator) Aggregate(docs []model.DocumentMentions, investorRecords []model.Record) []model.Relationship {
	var edges []model.Relationship
	for _, doc := range docs {
		edges = append(edges, a.coMentions(doc)...)
	}
	for _, row := range investorRecords {
		edges = append(edges, a.priorInteractions(row)...)
	}
	return Dedupe(edges)
}

func (a *Aggregator) coMentions(doc model.DocumentMentions) []model.Relationship {
	devs := a.resolve(doc.DocumentID, doc.Developers, a.Developers)
	invs := a.resolve(doc.DocumentID, doc.Investors, a.Investors)
	if len(devs) == 0 || len(invs) == 0 {
		return nil
	}

	edges := make([]model.Relationship, 0, len(devs)*len(invs))
	for _, d := range devs {
		for _, i := range invs {
			edges = append(edges, model.Relationship{
				Entity1:          d.ID,
				Entity1Name:      d.CanonicalName,
				Entity2:          i.ID,
				Entity2Name:      i.CanonicalName,
				RelationshipType: model.MentionedTogether,
				SourceType:       doc.Source,
				SourceID:         doc.DocumentID,
			})
		}
	}
	return edges
}

// resolve maps mentions to live entities, warning about any id the map no
// longer holds.
func (a *Aggregator) resolve(docID string, mentions []model.Mention, m *model.EntityMap) []*model.Entity {
	var out []*model.Entity
	for _, mention := range mentions {
		e, ok := m.Get(mention.EntityID)
		if !ok {
			a.Warnings.Add(model.WarnUnresolvedReference, docID,
				fmt.Sprintf("mention of unknown entity %s skipped", mention.EntityID))
			continue
		}
		out = append(out, e)
	}
	return out
}

func (a *Aggregator) priorInteractions(row model.Record) []model.Relationship {
	notes := row.Get(model.FieldPriorInteractions)
	investorID := row.Get(model.FieldInvestorID)
	if notes == "" || investorID == "" {
		return nil
	}
	investor, ok := a.Investors.Get(investorID)
	if !ok {
		a.Warnings.Add(model.WarnUnresolvedReference, investorID, "investor notes reference an unknown investor; skipped")
		return nil
	}

	var edges []model.Relationship
	for _, token := range ProjectTokens(notes) {
		if len(token) != projectDigits+1 {
			a.Warnings.Add(model.WarnMalformedProjectReference, investorID,
				fmt.Sprintf("token %q is not a project id", token))
			continue
		}
		devID, ok := a.Projects.Developer(token)
		if !ok {
			a.Warnings.Add(model.WarnMalformedProjectReference, investorID,
				fmt.Sprintf("project %s does not resolve to a developer", token))
			continue
		}
		dev, ok := a.Developers.Get(devID)
		if !ok {
			a.Warnings.Add(model.WarnUnresolvedReference, investorID,
				fmt.Sprintf("project %s belongs to unknown developer %s", token, devID))
			continue
		}
		edges = append(edges, model.Relationship{
			Entity1:          investor.ID,
			Entity1Name:      investor.CanonicalName,
			Entity2:          dev.ID,
			Entity2Name:      dev.CanonicalName,
			RelationshipType: model.PriorInteraction,
			SourceType:       model.SourceInvestorNotes,
			SourceID:         investor.ID,
		})
	}
	return edges
}

// ProjectTokens returns every P-prefixed digit run in text, in order.
func ProjectTokens(text string) []string {
	return projectToken.FindAllString(text, -1)
}

// Dedupe keeps the first relationship for each (entity_1, entity_2, type).
func Dedupe(edges []model.Relationship) []model.Relationship {
	seen := make(map[model.RelationshipKey]bool, len(edges))
	out := make([]model.Relationship, 0, len(edges))
	for _, e := range edges {
		if seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		out = append(out, e)
	}
	return out
}
