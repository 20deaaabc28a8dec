package model

import "strings"

// Column names of the cleaned input tables.
const (
	FieldDeveloperID         = "DeveloperID"
	FieldDeveloperName       = "DeveloperName"
	FieldAlternateNames      = "AlternateNames"
	FieldProjectID           = "ProjectID"
	FieldProjectType         = "ProjectType"
	FieldCountry             = "Country"
	FieldStatus              = "Status"
	FieldHectares            = "Hectares"
	FieldAnnualCredits       = "EstimatedAnnualCredits"
	FieldPrimaryContactName  = "PrimaryContactName"
	FieldPrimaryContactEmail = "PrimaryContactEmail"

	FieldInvestorID        = "InvestorID"
	FieldFundName          = "FundName"
	FieldRegionFocus       = "RegionFocus"
	FieldSectorFocus       = "SectorFocus"
	FieldTicketSizeMin     = "TicketSizeMin"
	FieldTicketSizeMax     = "TicketSizeMax"
	FieldTicketCurrency    = "TicketSizeCurrency"
	FieldPriorInteractions = "PriorInteractions"

	FieldEmailID        = "EmailID"
	FieldDate           = "Date"
	FieldFrom           = "From"
	FieldTo             = "To"
	FieldSubject        = "Subject"
	FieldBody           = "Body"
	FieldTranscriptID   = "TranscriptID"
	FieldTranscriptText = "TranscriptText"
)

// Record is one cleaned row keyed by column name. A missing key and an empty
// value both mean null.
type Record map[string]string

// Get returns the trimmed value of field, or "" when absent.
func (r Record) Get(field string) string {
	return strings.TrimSpace(r[field])
}

// Table is a batch of records sharing one header.
type Table struct {
	Name    string
	Columns []string
	Rows    []Record
}

func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Snapshot is the immutable set of cleaned inputs for one run. Emails and
// Transcripts may be nil.
type Snapshot struct {
	Developers  *Table
	Investors   *Table
	Emails      *Table
	Transcripts *Table
}
