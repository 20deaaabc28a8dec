package core

import (
	"errors"
	"strings"

	"github.com/agenthands/ledger/internal/core/model"
	"github.com/agenthands/ledger/internal/core/normalize"
)

// Entity returns the master record for id, searching developers then
// investors.
func (r *Result) Entity(id string) (*model.MasterEntity, error) {
	for i := range r.MasterEntities {
		if r.MasterEntities[i].EntityID == id {
			return &r.MasterEntities[i], nil
		}
	}
	return nil, model.ErrNotFound
}

// Search matches query case-insensitively as a substring of canonical and
// alternate names. Each entity appears once, with the first name that hit.
func (r *Result) Search(query string) []model.SearchResult {
	out := []model.SearchResult{}
	q := normalize.Lower(strings.TrimSpace(query))
	if q == "" {
		return out
	}
	for _, m := range []*model.EntityMap{r.Developers, r.Investors} {
		for _, e := range m.Entities() {
			for _, name := range e.Names() {
				if strings.Contains(normalize.Lower(name), q) {
					out = append(out, searchResult(e, name))
					break
				}
			}
		}
	}
	return out
}

// Resolve runs name through both reverse lookups. A name can resolve to one
// developer and one investor.
func (r *Result) Resolve(name string) ([]model.SearchResult, error) {
	var out []model.SearchResult
	for _, pair := range []struct {
		lookup interface{ Lookup(string) (string, error) }
		m      *model.EntityMap
	}{
		{r.DeveloperLookup, r.Developers},
		{r.InvestorLookup, r.Investors},
	} {
		id, err := pair.lookup.Lookup(name)
		if errors.Is(err, model.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if e, ok := pair.m.Get(id); ok {
			out = append(out, searchResult(e, name))
		}
	}
	if len(out) == 0 {
		return nil, model.ErrNotFound
	}
	return out, nil
}

// RelationshipsOf returns the edges touching id in output order.
func (r *Result) RelationshipsOf(id string) []model.Relationship {
	out := []model.Relationship{}
	for _, rel := range r.Relationships {
		if rel.Involves(id) {
			out = append(out, rel)
		}
	}
	return out
}

// CommunicationsOf returns the emails and transcripts mentioning id.
func (r *Result) CommunicationsOf(id string) []model.Communication {
	out := []model.Communication{}
	for _, c := range r.Communications {
		if c.Mentions(id) {
			out = append(out, c)
		}
	}
	return out
}

// ProjectDeveloper resolves a project id to its developer's master record.
func (r *Result) ProjectDeveloper(projectID string) (*model.MasterEntity, error) {
	devID, ok := r.Projects.Developer(strings.ToUpper(strings.TrimSpace(projectID)))
	if !ok {
		return nil, model.ErrNotFound
	}
	return r.Entity(devID)
}

func searchResult(e *model.Entity, matched string) model.SearchResult {
	return model.SearchResult{
		EntityID:      e.ID,
		EntityType:    e.Type,
		CanonicalName: e.CanonicalName,
		MatchedName:   matched,
	}
}
