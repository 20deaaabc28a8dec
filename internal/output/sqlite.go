package output

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/agenthands/ledger/internal/core"
	"github.com/agenthands/ledger/internal/core/lookup"
	"github.com/agenthands/ledger/internal/core/model"
)

const schema = `
CREATE TABLE runs (
	run_id  TEXT PRIMARY KEY,
	summary TEXT NOT NULL
);
CREATE TABLE entities (
	entity_id       TEXT NOT NULL,
	entity_type     TEXT NOT NULL,
	canonical_name  TEXT NOT NULL,
	alternate_names TEXT NOT NULL,
	primary_contact TEXT,
	email           TEXT,
	country         TEXT,
	metadata        TEXT,
	PRIMARY KEY (entity_type, entity_id)
);
CREATE TABLE variants (
	variant     TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id   TEXT NOT NULL,
	PRIMARY KEY (entity_type, variant)
);
CREATE TABLE duplicates (
	entity_type TEXT NOT NULL,
	id_a        TEXT NOT NULL,
	id_b        TEXT NOT NULL,
	similarity  REAL NOT NULL,
	variant_a   TEXT NOT NULL,
	variant_b   TEXT NOT NULL
);
CREATE TABLE mentions (
	document_id  TEXT NOT NULL,
	source_type  TEXT NOT NULL,
	entity_type  TEXT NOT NULL,
	entity_id    TEXT NOT NULL,
	matched_text TEXT NOT NULL
);
CREATE TABLE relationships (
	entity_1          TEXT NOT NULL,
	entity_2          TEXT NOT NULL,
	relationship_type TEXT NOT NULL,
	source_type       TEXT NOT NULL,
	source_id         TEXT NOT NULL,
	PRIMARY KEY (entity_1, entity_2, relationship_type)
);
CREATE TABLE communications (
	communication_id   TEXT NOT NULL,
	communication_type TEXT NOT NULL,
	date               TEXT,
	sender             TEXT,
	recipient          TEXT,
	subject            TEXT,
	body               TEXT
);
CREATE TABLE clusters (
	cluster_id INTEGER NOT NULL,
	entity_id  TEXT NOT NULL
);
`

// SQLiteWriter stores a result in a fresh database file. The file is built
// under a temporary name and renamed over Path on success.
type SQLiteWriter struct {
	Path   string
	Logger zerolog.Logger
}

func NewSQLiteWriter(path string, logger zerolog.Logger) *SQLiteWriter {
	return &SQLiteWriter{Path: path, Logger: logger}
}

func (w *SQLiteWriter) Write(ctx context.Context, res *core.Result) error {
	st, err := w.Stage(ctx, res)
	if err != nil {
		return err
	}
	return st.Commit()
}

// Stage builds the database under a temporary name next to Path. Path is
// not touched until Commit.
func (w *SQLiteWriter) Stage(ctx context.Context, res *core.Result) (*SQLiteStage, error) {
	if err := os.MkdirAll(filepath.Dir(w.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	tmp := w.Path + ".tmp-" + res.RunID
	os.Remove(tmp)

	if err := w.build(ctx, tmp, res); err != nil {
		os.Remove(tmp)
		return nil, err
	}
	return &SQLiteStage{w: w, tmp: tmp}, nil
}

// SQLiteStage is a committed database file waiting to be renamed over Path.
type SQLiteStage struct {
	w   *SQLiteWriter
	tmp string
}

func (s *SQLiteStage) Commit() error {
	if err := os.MkdirAll(filepath.Dir(s.w.Path), 0o755); err != nil {
		s.Discard()
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	if err := os.Rename(s.tmp, s.w.Path); err != nil {
		s.Discard()
		return fmt.Errorf("failed to move database into place: %w", err)
	}
	s.w.Logger.Info().Str("path", s.w.Path).Msg("sqlite database written")
	return nil
}

func (s *SQLiteStage) Discard() {
	os.Remove(s.tmp)
}

func (w *SQLiteWriter) build(ctx context.Context, path string, res *core.Result) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	steps := []struct {
		name string
		fn   func(context.Context, *sql.Tx, *core.Result) error
	}{
		{"run", insertRun},
		{"entities", insertEntities},
		{"variants", insertVariants},
		{"duplicates", insertDuplicates},
		{"mentions", insertMentions},
		{"relationships", insertRelationships},
		{"communications", insertCommunications},
		{"clusters", insertClusters},
	}
	for _, s := range steps {
		if err := s.fn(ctx, tx, res); err != nil {
			return fmt.Errorf("failed to insert %s: %w", s.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertRun(ctx context.Context, tx *sql.Tx, res *core.Result) error {
	summary, err := json.Marshal(res.Summary)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO runs (run_id, summary) VALUES (?, ?)`, res.RunID, string(summary))
	return err
}

func insertEntities(ctx context.Context, tx *sql.Tx, res *core.Result) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entities
		(entity_id, entity_type, canonical_name, alternate_names, primary_contact, email, country, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range res.MasterEntities {
		alts, err := json.Marshal(nonNil(e.AlternateNames))
		if err != nil {
			return err
		}
		var meta any = e.Developer
		if e.EntityType == model.Investor {
			meta = e.Investor
		}
		metadata, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, e.EntityID, string(e.EntityType), e.CanonicalName, string(alts),
			e.PrimaryContact, e.Email, e.Country, string(metadata)); err != nil {
			return err
		}
	}
	return nil
}

func insertVariants(ctx context.Context, tx *sql.Tx, res *core.Result) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO variants (variant, entity_type, entity_id) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, idx := range []struct {
		t model.EntityType
		r *lookup.ReverseLookup
	}{{model.Developer, res.DeveloperLookup}, {model.Investor, res.InvestorLookup}} {
		for _, v := range idx.r.Variants() {
			id, err := idx.r.LookupVariant(v)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, v, string(idx.t), id); err != nil {
				return err
			}
		}
	}
	return nil
}

func insertDuplicates(ctx context.Context, tx *sql.Tx, res *core.Result) error {
	for _, d := range res.Duplicates {
		if _, err := tx.ExecContext(ctx, `INSERT INTO duplicates
			(entity_type, id_a, id_b, similarity, variant_a, variant_b) VALUES (?, ?, ?, ?, ?, ?)`,
			string(d.Type), d.IDA, d.IDB, d.Similarity, d.MatchedVariantPair[0], d.MatchedVariantPair[1]); err != nil {
			return err
		}
	}
	return nil
}

func insertMentions(ctx context.Context, tx *sql.Tx, res *core.Result) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO mentions
		(document_id, source_type, entity_type, entity_id, matched_text) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	docs := append(append([]model.DocumentMentions{}, res.EmailMentions...), res.TranscriptMentions...)
	for _, d := range docs {
		for _, set := range []struct {
			t        model.EntityType
			mentions []model.Mention
		}{{model.Developer, d.Developers}, {model.Investor, d.Investors}} {
			for _, m := range set.mentions {
				if _, err := stmt.ExecContext(ctx, d.DocumentID, string(d.Source), string(set.t), m.EntityID, m.MatchedText); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func insertRelationships(ctx context.Context, tx *sql.Tx, res *core.Result) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO relationships
		(entity_1, entity_2, relationship_type, source_type, source_id) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range res.Relationships {
		if _, err := stmt.ExecContext(ctx, r.Entity1, r.Entity2, string(r.RelationshipType), string(r.SourceType), r.SourceID); err != nil {
			return err
		}
	}
	return nil
}

func insertCommunications(ctx context.Context, tx *sql.Tx, res *core.Result) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO communications
		(communication_id, communication_type, date, sender, recipient, subject, body) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range res.Communications {
		if _, err := stmt.ExecContext(ctx, c.CommunicationID, string(c.CommunicationType), c.Date, c.From, c.To, c.Subject, c.Body); err != nil {
			return err
		}
	}
	return nil
}

func insertClusters(ctx context.Context, tx *sql.Tx, res *core.Result) error {
	for _, c := range res.Clusters {
		for _, id := range c.Members {
			if _, err := tx.ExecContext(ctx, `INSERT INTO clusters (cluster_id, entity_id) VALUES (?, ?)`, c.ID, id); err != nil {
				return err
			}
		}
	}
	return nil
}
