package entitymap

import (
	"github.com/agenthands/ledger/internal/core/model"
)

// ProjectIndex maps project ids to the developer that owns them.
type ProjectIndex struct {
	byProject map[string]string
}

// BuildProjectIndex reads ProjectID and DeveloperID from the developer table.
// The first row naming a project wins.
func BuildProjectIndex(t *model.Table) (*ProjectIndex, error) {
	if t == nil {
		return nil, &model.MissingFieldError{Table: string(model.Developer), Field: model.FieldProjectID}
	}
	for _, field := range []string{model.FieldProjectID, model.FieldDeveloperID} {
		if !t.HasColumn(field) {
			return nil, &model.MissingFieldError{Table: t.Name, Field: field}
		}
	}

	idx := &ProjectIndex{byProject: make(map[string]string)}
	for _, row := range t.Rows {
		project := row.Get(model.FieldProjectID)
		developer := row.Get(model.FieldDeveloperID)
		if project == "" || developer == "" {
			continue
		}
		if _, exists := idx.byProject[project]; !exists {
			idx.byProject[project] = developer
		}
	}
	return idx, nil
}

// NewProjectIndex builds an index from a literal project -> developer map.
func NewProjectIndex(projects map[string]string) *ProjectIndex {
	idx := &ProjectIndex{byProject: make(map[string]string, len(projects))}
	for p, d := range projects {
		idx.byProject[p] = d
	}
	return idx
}

func (p *ProjectIndex) Developer(projectID string) (string, bool) {
	if p == nil {
		return "", false
	}
	d, ok := p.byProject[projectID]
	return d, ok
}

func (p *ProjectIndex) Len() int {
	if p == nil {
		return 0
	}
	return len(p.byProject)
}
