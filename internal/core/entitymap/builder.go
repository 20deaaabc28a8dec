package entitymap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agenthands/ledger/internal/core/model"
	"github.com/agenthands/ledger/internal/core/normalize"
)

// Fields names the columns an entity map is built from. AltNames is optional.
type Fields struct {
	ID       string
	Name     string
	AltNames string
}

var (
	DeveloperFields = Fields{ID: model.FieldDeveloperID, Name: model.FieldDeveloperName, AltNames: model.FieldAlternateNames}
	InvestorFields  = Fields{ID: model.FieldInvestorID, Name: model.FieldFundName}
)

type Builder struct {
	Normalizer *normalize.Normalizer
	Warnings   *model.Warnings
}

func NewBuilder(n *normalize.Normalizer, warnings *model.Warnings) *Builder {
	if n == nil {
		n = normalize.New(normalize.DefaultSuffixes)
	}
	return &Builder{
		Normalizer: n,
		Warnings:   warnings,
	}
}

// Build creates one entity per record. Rows without an id or name are dropped
// with a warning, and a repeated id keeps its first record.
func (b *Builder) Build(t *model.Table, entityType model.EntityType, f Fields) (*model.EntityMap, error) {
	if t == nil {
		return nil, &model.MissingFieldError{Table: string(entityType), Field: f.ID}
	}
	for _, field := range []string{f.ID, f.Name} {
		if !t.HasColumn(field) {
			return nil, &model.MissingFieldError{Table: t.Name, Field: field}
		}
	}
	useAlts := f.AltNames != "" && t.HasColumn(f.AltNames)

	m := model.NewEntityMap(entityType)
	for i, row := range t.Rows {
		id := row.Get(f.ID)
		if id == "" {
			b.Warnings.Add(model.WarnMissingIdentifier, fmt.Sprintf("%s row %d", t.Name, i+1),
				fmt.Sprintf("record has no %s; dropped", f.ID))
			continue
		}
		name := row.Get(f.Name)
		if name == "" {
			b.Warnings.Add(model.WarnMissingName, id, fmt.Sprintf("record has no %s; dropped", f.Name))
			continue
		}

		alts := []string{}
		if useAlts {
			if parsed := ParseAlternateNames(row.Get(f.AltNames)); parsed != nil {
				alts = parsed
			}
		}

		e := &model.Entity{
			ID:                 id,
			Type:               entityType,
			CanonicalName:      name,
			AlternateNames:     alts,
			NormalizedVariants: b.variants(name, alts),
		}
		if len(e.NormalizedVariants) == 0 {
			b.Warnings.Add(model.WarnMissingName, id, fmt.Sprintf("name %q normalizes to nothing; dropped", name))
			continue
		}
		if !m.Add(e) {
			b.Warnings.Add(model.WarnDuplicateIdentifier, id, fmt.Sprintf("%s row %d repeats an id; first record kept", t.Name, i+1))
		}
	}

	if m.Len() == 0 {
		return nil, &model.EmptyEntitySetError{Type: entityType, Table: t.Name}
	}
	return m, nil
}

func (b *Builder) variants(name string, alts []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range append([]string{name}, alts...) {
		v := b.Normalizer.Normalize(n)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ParseAlternateNames splits a ';'-separated list, dropping blanks.
func ParseAlternateNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
