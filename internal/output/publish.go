package output

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/agenthands/ledger/internal/core"
)

// Publish writes the JSON outputs and, when sqlite is non-nil, the database.
// Both are fully built before either is moved into place, so a failure in
// one sink leaves the previous outputs of both untouched.
//
// A database path inside the JSON directory is built inside the JSON staging
// directory and published with it.
func Publish(ctx context.Context, res *core.Result, jw *JSONWriter, sqlite *SQLiteWriter) error {
	js, err := jw.Stage(res)
	if err != nil {
		return err
	}
	if sqlite == nil {
		return js.Commit()
	}

	if rel, ok := within(jw.Dir, sqlite.Path); ok {
		nested := &SQLiteWriter{Path: filepath.Join(js.Dir(), rel), Logger: sqlite.Logger}
		st, err := nested.Stage(ctx, res)
		if err != nil {
			js.Discard()
			return err
		}
		if err := st.Commit(); err != nil {
			js.Discard()
			return err
		}
		return js.Commit()
	}

	st, err := sqlite.Stage(ctx, res)
	if err != nil {
		js.Discard()
		return err
	}
	if err := js.Commit(); err != nil {
		st.Discard()
		return err
	}
	return st.Commit()
}

// within reports whether path lies under dir and returns it relative to dir.
func within(dir, path string) (string, bool) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
