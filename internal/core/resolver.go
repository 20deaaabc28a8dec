package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agenthands/ledger/internal/config"
	"github.com/agenthands/ledger/internal/core/community"
	"github.com/agenthands/ledger/internal/core/dedupe"
	"github.com/agenthands/ledger/internal/core/entitymap"
	"github.com/agenthands/ledger/internal/core/extraction"
	"github.com/agenthands/ledger/internal/core/lookup"
	"github.com/agenthands/ledger/internal/core/model"
	"github.com/agenthands/ledger/internal/core/normalize"
	"github.com/agenthands/ledger/internal/core/relationship"
)

// Resolver runs the entity resolution pipeline over one snapshot.
type Resolver struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Normalizer *normalize.Normalizer
}

func NewResolver(cfg *config.Config, logger zerolog.Logger) *Resolver {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Resolver{
		Config:     cfg,
		Logger:     logger,
		Normalizer: normalize.New(cfg.Resolution.Suffixes),
	}
}

// Result holds every data product of a run. It is not modified after Run
// returns and may be shared between goroutines.
type Result struct {
	RunID string

	Developers      *model.EntityMap
	Investors       *model.EntityMap
	DeveloperLookup *lookup.ReverseLookup
	InvestorLookup  *lookup.ReverseLookup
	Projects        *entitymap.ProjectIndex

	// Duplicates lists developer candidates, then investor candidates.
	Duplicates []model.DuplicateCandidate

	// Only documents with at least one mention, in input order.
	EmailMentions      []model.DocumentMentions
	TranscriptMentions []model.DocumentMentions

	Relationships  []model.Relationship
	MasterEntities []model.MasterEntity
	Communications []model.Communication
	Clusters       []model.Cluster
	Warnings       []model.Warning
	Summary        model.Summary
}

// Run executes every stage. Structural problems (missing columns, no valid
// entities) abort with an error; data-quality issues become warnings.
func (r *Resolver) Run(ctx context.Context, snap *model.Snapshot) (*Result, error) {
	if snap == nil {
		return nil, fmt.Errorf("failed to run pipeline: no input snapshot")
	}
	cfg := r.Config
	runID := uuid.New().String()
	log := r.Logger.With().Str("run_id", runID).Logger()
	warnings := model.NewWarnings(log)

	builder := entitymap.NewBuilder(r.Normalizer, warnings)
	developers, err := builder.Build(snap.Developers, model.Developer, entitymap.DeveloperFields)
	if err != nil {
		return nil, fmt.Errorf("failed to build developer map: %w", err)
	}
	investors, err := builder.Build(snap.Investors, model.Investor, entitymap.InvestorFields)
	if err != nil {
		return nil, fmt.Errorf("failed to build investor map: %w", err)
	}
	projects, err := entitymap.BuildProjectIndex(snap.Developers)
	if err != nil {
		return nil, fmt.Errorf("failed to build project index: %w", err)
	}
	emails, err := extraction.EmailDocuments(snap.Emails, warnings)
	if err != nil {
		return nil, fmt.Errorf("failed to read emails: %w", err)
	}
	transcripts, err := extraction.TranscriptDocuments(snap.Transcripts, warnings)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcripts: %w", err)
	}
	log.Info().Int("developers", developers.Len()).Int("investors", investors.Len()).Msg("entity maps built")

	detector := dedupe.NewDetector(cfg.Resolution.Threshold, cfg.Concurrency.Workers, log)
	detector.Blocking = cfg.Resolution.Blocking
	devDupes, err := detector.Detect(ctx, developers)
	if err != nil {
		return nil, err
	}
	invDupes, err := detector.Detect(ctx, investors)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:           runID,
		Developers:      developers,
		Investors:       investors,
		DeveloperLookup: lookup.Build(developers, r.Normalizer, warnings),
		InvestorLookup:  lookup.Build(investors, r.Normalizer, warnings),
		Projects:        projects,
		Duplicates:      append(devDupes, invDupes...),
	}

	docs := append(append([]model.Document{}, emails...), transcripts...)
	found, err := extraction.ScanDocuments(ctx, docs,
		extraction.NewExtractor(developers), extraction.NewExtractor(investors), cfg.Concurrency.Workers)
	if err != nil {
		return nil, err
	}
	res.EmailMentions = extraction.WithMentions(found[:len(emails)])
	res.TranscriptMentions = extraction.WithMentions(found[len(emails):])
	res.Communications = extraction.Communications(docs, found)
	log.Info().
		Int("emails_with_mentions", len(res.EmailMentions)).
		Int("transcripts_with_mentions", len(res.TranscriptMentions)).
		Msg("mentions extracted")

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to aggregate relationships: %w", err)
	}

	var investorRows []model.Record
	if snap.Investors != nil {
		investorRows = snap.Investors.Rows
	}
	agg := relationship.NewAggregator(developers, investors, projects, warnings)
	res.Relationships = agg.Aggregate(found, investorRows)

	nodes := append(developers.IDs(), investors.IDs()...)
	groups, err := community.NewDetector(cfg.Clusters.Algorithm).Detect(nodes, res.Relationships)
	if err != nil {
		return nil, fmt.Errorf("failed to detect clusters: %w", err)
	}
	res.Clusters = community.Clusters(groups)
	res.MasterEntities = entitymap.MasterEntities(developers, snap.Developers, investors, snap.Investors)

	res.Warnings = warnings.Items()
	res.Summary = model.Summary{
		RunID: runID,
		SourceRows: map[string]int{
			"developers":  snap.Developers.Len(),
			"investors":   snap.Investors.Len(),
			"emails":      snap.Emails.Len(),
			"transcripts": snap.Transcripts.Len(),
		},
		Developers:              developers.Len(),
		Investors:               investors.Len(),
		DuplicateCandidates:     len(res.Duplicates),
		EmailsWithMentions:      len(res.EmailMentions),
		TranscriptsWithMentions: len(res.TranscriptMentions),
		Relationships:           len(res.Relationships),
		Clusters:                len(res.Clusters),
		Warnings:                len(res.Warnings),
		WarningsByKind:          warnings.CountByKind(),
	}

	log.Info().
		Int("duplicates", res.Summary.DuplicateCandidates).
		Int("relationships", res.Summary.Relationships).
		Int("clusters", res.Summary.Clusters).
		Int("warnings", res.Summary.Warnings).
		Msg("pipeline finished")
	return res, nil
}
