// Package ingest loads cleaned CSV and XLSX tables into model records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/agenthands/ledger/internal/config"
	"github.com/agenthands/ledger/internal/core/model"
)

// Load reads all configured tables. Developers and investors are required;
// emails and transcripts are skipped when unset or absent on disk.
func Load(cfg config.InputConfig, logger zerolog.Logger) (*model.Snapshot, error) {
	developers, err := ReadTable(cfg.Developers, "developers")
	if err != nil {
		return nil, err
	}
	investors, err := ReadTable(cfg.Investors, "investors")
	if err != nil {
		return nil, err
	}
	emails, err := readOptional(cfg.Emails, "emails", logger)
	if err != nil {
		return nil, err
	}
	transcripts, err := readOptional(cfg.Transcripts, "transcripts", logger)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("developers", developers.Len()).
		Int("investors", investors.Len()).
		Int("emails", emails.Len()).
		Int("transcripts", transcripts.Len()).
		Msg("input loaded")

	return &model.Snapshot{
		Developers:  developers,
		Investors:   investors,
		Emails:      emails,
		Transcripts: transcripts,
	}, nil
}

func readOptional(path, name string, logger zerolog.Logger) (*model.Table, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Str("table", name).Str("path", path).Msg("optional input not found; skipped")
		return nil, nil
	}
	return ReadTable(path, name)
}

// ReadTable picks the reader from the file extension.
func ReadTable(path, name string) (*model.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, name)
	case ".csv", "":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s table: %w", name, err)
		}
		defer f.Close()
		return ReadCSV(f, name)
	default:
		return nil, fmt.Errorf("unsupported input format %q for %s table", filepath.Ext(path), name)
	}
}

// ReadCSV reads a header row followed by data rows. Short rows are padded
// with empty values.
func ReadCSV(r io.Reader, name string) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV for %s table: %w", name, err)
	}
	return toTable(name, rows)
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(path, name string) (*model.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file for %s table: %w", name, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in Excel file for %s table", name)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows for %s table: %w", name, err)
	}
	return toTable(name, rows)
}

func toTable(name string, rows [][]string) (*model.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s table has no header row", name)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	t := &model.Table{Name: name, Columns: header}
	for _, raw := range rows[1:] {
		if blank(raw) {
			continue
		}
		rec := make(model.Record, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(raw) {
				rec[col] = raw[i]
			} else {
				rec[col] = ""
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
