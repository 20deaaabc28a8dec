package model

import (
	"strconv"
	"strings"
)

type DeveloperMetadata struct {
	ProjectID              string   `json:"project_id,omitempty"`
	ProjectType            string   `json:"project_type,omitempty"`
	Country                string   `json:"country,omitempty"`
	Status                 string   `json:"status,omitempty"`
	Hectares               *float64 `json:"hectares,omitempty"`
	EstimatedAnnualCredits *float64 `json:"estimated_annual_credits,omitempty"`
}

type InvestorMetadata struct {
	RegionFocus        string   `json:"region_focus,omitempty"`
	SectorFocus        string   `json:"sector_focus,omitempty"`
	TicketSizeMin      *float64 `json:"ticket_size_min,omitempty"`
	TicketSizeMax      *float64 `json:"ticket_size_max,omitempty"`
	TicketSizeCurrency string   `json:"ticket_size_currency,omitempty"`
}

// MasterEntity is the unified entity row. Exactly one of Developer and
// Investor is set, matching EntityType.
type MasterEntity struct {
	EntityID       string             `json:"entity_id"`
	EntityType     EntityType         `json:"entity_type"`
	CanonicalName  string             `json:"canonical_name"`
	AlternateNames []string           `json:"alternate_names"`
	PrimaryContact string             `json:"primary_contact,omitempty"`
	Email          string             `json:"email,omitempty"`
	Country        string             `json:"country,omitempty"`
	Developer      *DeveloperMetadata `json:"developer,omitempty"`
	Investor       *InvestorMetadata  `json:"investor,omitempty"`
}

func NewDeveloperMetadata(r Record) *DeveloperMetadata {
	return &DeveloperMetadata{
		ProjectID:              r.Get(FieldProjectID),
		ProjectType:            r.Get(FieldProjectType),
		Country:                r.Get(FieldCountry),
		Status:                 r.Get(FieldStatus),
		Hectares:               ParseNumber(r.Get(FieldHectares)),
		EstimatedAnnualCredits: ParseNumber(r.Get(FieldAnnualCredits)),
	}
}

func NewInvestorMetadata(r Record) *InvestorMetadata {
	return &InvestorMetadata{
		RegionFocus:        r.Get(FieldRegionFocus),
		SectorFocus:        r.Get(FieldSectorFocus),
		TicketSizeMin:      ParseNumber(r.Get(FieldTicketSizeMin)),
		TicketSizeMax:      ParseNumber(r.Get(FieldTicketSizeMax)),
		TicketSizeCurrency: r.Get(FieldTicketCurrency),
	}
}

// ParseNumber parses a cleaned numeric cell, tolerating thousands separators.
// Empty or unparsable values yield nil.
func ParseNumber(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
