package model

// Summary describes one pipeline run.
type Summary struct {
	RunID                   string              `json:"run_id,omitempty"`
	SourceRows              map[string]int      `json:"source_rows"`
	Developers              int                 `json:"developers"`
	Investors               int                 `json:"investors"`
	DuplicateCandidates     int                 `json:"duplicate_candidates"`
	EmailsWithMentions      int                 `json:"emails_with_mentions"`
	TranscriptsWithMentions int                 `json:"transcripts_with_mentions"`
	Relationships           int                 `json:"relationships"`
	Clusters                int                 `json:"clusters"`
	Warnings                int                 `json:"warnings"`
	WarningsByKind          map[WarningKind]int `json:"warnings_by_kind"`
}
