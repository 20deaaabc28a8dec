package driver

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agenthands/ledger/internal/core"
	"github.com/agenthands/ledger/internal/core/model"
)

// Exporter mirrors a pipeline result into the graph. Every node and edge is
// tagged with the run id; anything from an earlier run is removed afterwards.
type Exporter struct {
	Driver GraphDriver
	Logger zerolog.Logger
}

func NewExporter(d GraphDriver, logger zerolog.Logger) *Exporter {
	return &Exporter{Driver: d, Logger: logger}
}

// ExportStats counts the rows sent per step.
type ExportStats struct {
	Developers     int
	Investors      int
	Relationships  int
	Duplicates     int
	Communications int
	Clusters       int
}

func (e *Exporter) Export(ctx context.Context, res *core.Result) (ExportStats, error) {
	var stats ExportStats
	if err := e.Driver.BuildIndices(ctx); err != nil {
		return stats, fmt.Errorf("failed to build indices: %w", err)
	}

	devs, invs := entityRows(res.MasterEntities, res.Developers, res.Investors)
	steps := []struct {
		name  string
		query string
		rows  []map[string]interface{}
		count *int
	}{
		{"developers", SaveDeveloperNodesQuery, devs, &stats.Developers},
		{"investors", SaveInvestorNodesQuery, invs, &stats.Investors},
		{"relationships", SaveRelationshipsQuery, relationshipRows(res.Relationships), &stats.Relationships},
		{"duplicates", SaveDuplicatesQuery, duplicateRows(res.Duplicates), &stats.Duplicates},
		{"communications", SaveCommunicationsQuery, communicationRows(res.Communications), &stats.Communications},
		{"clusters", SaveClustersQuery, clusterRows(res.Clusters), &stats.Clusters},
	}

	for _, s := range steps {
		if len(s.rows) == 0 {
			continue
		}
		params := map[string]interface{}{
			"run_id": res.RunID,
			"rows":   toList(s.rows),
		}
		if _, err := e.Driver.ExecuteQuery(ctx, s.query, params); err != nil {
			return stats, fmt.Errorf("failed to save %s: %w", s.name, err)
		}
		*s.count = len(s.rows)
	}

	for _, q := range []string{DeleteStaleRelationshipsQuery, DeleteStaleNodesQuery} {
		if _, err := e.Driver.ExecuteQuery(ctx, q, map[string]interface{}{"run_id": res.RunID}); err != nil {
			return stats, fmt.Errorf("failed to remove stale graph data: %w", err)
		}
	}

	e.Logger.Info().
		Str("run_id", res.RunID).
		Int("developers", stats.Developers).
		Int("investors", stats.Investors).
		Int("relationships", stats.Relationships).
		Msg("graph exported")
	return stats, nil
}

func entityRows(master []model.MasterEntity, developers, investors *model.EntityMap) (devs, invs []map[string]interface{}) {
	for _, m := range master {
		row := map[string]interface{}{
			"id":              m.EntityID,
			"type":            string(m.EntityType),
			"name":            m.CanonicalName,
			"alternate_names": toStrings(m.AlternateNames),
		}
		switch m.EntityType {
		case model.Developer:
			if e, ok := developers.Get(m.EntityID); ok {
				row["variants"] = toStrings(e.NormalizedVariants)
			}
			row["country"] = m.Country
			projectID := ""
			if m.Developer != nil {
				projectID = m.Developer.ProjectID
			}
			row["project_id"] = projectID
			devs = append(devs, row)
		case model.Investor:
			if e, ok := investors.Get(m.EntityID); ok {
				row["variants"] = toStrings(e.NormalizedVariants)
			}
			invs = append(invs, row)
		}
	}
	return devs, invs
}

func relationshipRows(rels []model.Relationship) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(rels))
	for _, r := range rels {
		rows = append(rows, map[string]interface{}{
			"entity_1":          r.Entity1,
			"entity_2":          r.Entity2,
			"relationship_type": string(r.RelationshipType),
			"source_type":       string(r.SourceType),
			"source_id":         r.SourceID,
		})
	}
	return rows
}

func duplicateRows(dupes []model.DuplicateCandidate) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(dupes))
	for _, d := range dupes {
		rows = append(rows, map[string]interface{}{
			"id_a":       d.IDA,
			"id_b":       d.IDB,
			"similarity": d.Similarity,
			"variant_a":  d.MatchedVariantPair[0],
			"variant_b":  d.MatchedVariantPair[1],
		})
	}
	return rows
}

func communicationRows(comms []model.Communication) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(comms))
	for _, c := range comms {
		mentions := append(toStrings(c.MentionedDevelopers), toStrings(c.MentionedInvestors)...)
		rows = append(rows, map[string]interface{}{
			"id":       c.CommunicationID,
			"type":     string(c.CommunicationType),
			"date":     c.Date,
			"subject":  c.Subject,
			"mentions": mentions,
		})
	}
	return rows
}

func clusterRows(clusters []model.Cluster) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(clusters))
	for _, c := range clusters {
		rows = append(rows, map[string]interface{}{
			"id":      int64(c.ID),
			"members": toStrings(c.Members),
		})
	}
	return rows
}

// The bolt encoder wants []interface{} for lists.
func toStrings(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func toList(rows []map[string]interface{}) []interface{} {
	out := make([]interface{}, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
