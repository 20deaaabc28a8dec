// Package output persists a pipeline result as JSON files and, optionally, a
// SQLite database. Both sinks are all-or-nothing.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/agenthands/ledger/internal/core"
	"github.com/agenthands/ledger/internal/core/model"
)

// File names written by JSONWriter.
const (
	DeveloperEntityMapFile     = "developer_entity_map.json"
	InvestorEntityMapFile      = "investor_entity_map.json"
	DeveloperReverseLookupFile = "developer_reverse_lookup.json"
	InvestorReverseLookupFile  = "investor_reverse_lookup.json"
	DuplicatesFile             = "duplicates.json"
	EmailMentionsFile          = "email_mentions.json"
	TranscriptMentionsFile     = "transcript_mentions.json"
	RelationshipsFile          = "relationships.json"
	MasterEntitiesFile         = "master_entities.json"
	CommunicationsFile         = "communications.json"
	ClustersFile               = "clusters.json"
	SummaryFile                = "summary.json"
	WarningsFile               = "warnings.json"
)

type JSONWriter struct {
	Dir    string
	Logger zerolog.Logger
}

func NewJSONWriter(dir string, logger zerolog.Logger) *JSONWriter {
	return &JSONWriter{Dir: dir, Logger: logger}
}

// Write stages every file and publishes the result. A failed write leaves
// Dir untouched.
func (w *JSONWriter) Write(res *core.Result) error {
	st, err := w.Stage(res)
	if err != nil {
		return err
	}
	return st.Commit()
}

// Stage renders every file into a staging directory next to Dir. Nothing
// under Dir changes until Commit.
func (w *JSONWriter) Stage(res *core.Result) (*JSONStage, error) {
	parent := filepath.Dir(w.Dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output parent directory: %w", err)
	}
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(w.Dir)+"-"+res.RunID+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	if err := w.writeAll(staging, res); err != nil {
		os.RemoveAll(staging)
		return nil, err
	}
	return &JSONStage{w: w, dir: staging, files: len(files(res))}, nil
}

// JSONStage is a fully written output directory waiting to replace Dir.
type JSONStage struct {
	w     *JSONWriter
	dir   string
	files int
}

// Dir is the staging directory.
func (s *JSONStage) Dir() string { return s.dir }

// Commit swaps the staging directory in for the writer's Dir.
func (s *JSONStage) Commit() error {
	if err := os.RemoveAll(s.w.Dir); err != nil {
		s.Discard()
		return fmt.Errorf("failed to replace output directory: %w", err)
	}
	if err := os.Rename(s.dir, s.w.Dir); err != nil {
		s.Discard()
		return fmt.Errorf("failed to move outputs into place: %w", err)
	}
	s.w.Logger.Info().Str("dir", s.w.Dir).Int("files", s.files).Msg("outputs written")
	return nil
}

func (s *JSONStage) Discard() {
	os.RemoveAll(s.dir)
}

func (w *JSONWriter) writeAll(dir string, res *core.Result) error {
	for name, v := range files(res) {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

func files(res *core.Result) map[string]any {
	return map[string]any{
		DeveloperEntityMapFile:     res.Developers,
		InvestorEntityMapFile:      res.Investors,
		DeveloperReverseLookupFile: res.DeveloperLookup,
		InvestorReverseLookupFile:  res.InvestorLookup,
		DuplicatesFile:             nonNil(res.Duplicates),
		EmailMentionsFile:          byDocument(res.EmailMentions),
		TranscriptMentionsFile:     byDocument(res.TranscriptMentions),
		RelationshipsFile:          nonNil(res.Relationships),
		MasterEntitiesFile:         nonNil(res.MasterEntities),
		CommunicationsFile:         nonNil(res.Communications),
		ClustersFile:               nonNil(res.Clusters),
		SummaryFile:                fileSummary(res.Summary),
		WarningsFile:               nonNil(res.Warnings),
	}
}

// fileSummary drops the run id so that identical inputs give identical
// files. The run id stays in the SQLite runs table and the API summary.
func fileSummary(s model.Summary) model.Summary {
	s.RunID = ""
	return s
}

type documentEntry struct {
	Source     model.SourceType `json:"source_type"`
	Developers []model.Mention  `json:"developers"`
	Investors  []model.Mention  `json:"investors"`
}

// byDocument keys mention sets by document id.
func byDocument(docs []model.DocumentMentions) map[string]documentEntry {
	out := make(map[string]documentEntry, len(docs))
	for _, d := range docs {
		out[d.DocumentID] = documentEntry{
			Source:     d.Source,
			Developers: nonNil(d.Developers),
			Investors:  nonNil(d.Investors),
		}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
