package model

import (
	"sync"

	"github.com/rs/zerolog"
)

type WarningKind string

const (
	WarnMissingIdentifier         WarningKind = "missing_identifier"
	WarnMissingName               WarningKind = "missing_name"
	WarnDuplicateIdentifier       WarningKind = "duplicate_identifier"
	WarnVariantCollision          WarningKind = "variant_collision"
	WarnUnresolvedReference       WarningKind = "unresolved_reference"
	WarnMalformedProjectReference WarningKind = "malformed_project_reference"
)

// Warning is a recovered per-record data-quality issue.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Subject string      `json:"subject"`
	Detail  string      `json:"detail"`
}

// Warnings collects warnings for one run and logs each as it is recorded.
// A nil *Warnings discards everything.
type Warnings struct {
	mu    sync.Mutex
	items []Warning
	log   zerolog.Logger
}

func NewWarnings(logger zerolog.Logger) *Warnings {
	return &Warnings{log: logger}
}

func (w *Warnings) Add(kind WarningKind, subject, detail string) {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.items = append(w.items, Warning{Kind: kind, Subject: subject, Detail: detail})
	w.mu.Unlock()

	w.log.Warn().Str("kind", string(kind)).Str("subject", subject).Msg(detail)
}

func (w *Warnings) Len() int {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Items returns a copy of the recorded warnings in insertion order.
func (w *Warnings) Items() []Warning {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Warning, len(w.items))
	copy(out, w.items)
	return out
}

func (w *Warnings) CountByKind() map[WarningKind]int {
	counts := make(map[WarningKind]int)
	for _, item := range w.Items() {
		counts[item.Kind]++
	}
	return counts
}
