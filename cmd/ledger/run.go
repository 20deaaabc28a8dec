package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agenthands/ledger/internal/core"
	"github.com/agenthands/ledger/internal/core/model"
	"github.com/agenthands/ledger/internal/output"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline and write all outputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.pipeline(cmd.Context())
		if err != nil {
			a.logger.Error().Err(err).Msg("run failed; nothing written")
			return err
		}

		if err := a.publish(cmd.Context(), res); err != nil {
			a.logger.Error().Err(err).Msg("failed to write outputs; previous outputs kept")
			return err
		}

		printSummary(os.Stdout, res, a.cfg.Output.Dir)
		return nil
	},
}

// publish writes the JSON outputs and the optional SQLite database together.
func (a *app) publish(ctx context.Context, res *core.Result) error {
	var db *output.SQLiteWriter
	if a.cfg.Output.SQLite != "" {
		db = output.NewSQLiteWriter(a.cfg.Output.SQLite, a.logger)
	}
	return output.Publish(ctx, res, output.NewJSONWriter(a.cfg.Output.Dir, a.logger), db)
}

func printSummary(w io.Writer, res *core.Result, dir string) {
	title := color.New(color.FgCyan, color.Bold)
	good := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)

	s := res.Summary
	title.Fprintf(w, "Run %s\n", s.RunID)
	for _, row := range []struct {
		label string
		n     int
	}{
		{"developers", s.Developers},
		{"investors", s.Investors},
		{"duplicate candidates", s.DuplicateCandidates},
		{"emails with mentions", s.EmailsWithMentions},
		{"transcripts with mentions", s.TranscriptsWithMentions},
		{"relationships", s.Relationships},
		{"clusters", s.Clusters},
	} {
		fmt.Fprintf(w, "  %-28s %d\n", row.label+":", row.n)
	}

	if s.Warnings == 0 {
		good.Fprintln(w, "  no warnings")
	} else {
		warn.Fprintf(w, "  %-28s %d\n", "warnings:", s.Warnings)
		for _, kind := range []model.WarningKind{
			model.WarnMissingIdentifier,
			model.WarnMissingName,
			model.WarnDuplicateIdentifier,
			model.WarnVariantCollision,
			model.WarnUnresolvedReference,
			model.WarnMalformedProjectReference,
		} {
			if n := s.WarningsByKind[kind]; n > 0 {
				warn.Fprintf(w, "    %-28s %d\n", kind, n)
			}
		}
	}
	good.Fprintf(w, "Outputs written to %s\n", dir)
}
