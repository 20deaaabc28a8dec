package extraction

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/ledger/internal/core/model"
)

func developers() *model.EntityMap {
	m := model.NewEntityMap(model.Developer)
	m.Add(&model.Entity{ID: "D1", Type: model.Developer, CanonicalName: "VerdeNova Solutions",
		AlternateNames: []string{"Verde Nova"}, NormalizedVariants: []string{"verde nova", "verdenova"}})
	m.Add(&model.Entity{ID: "D2", Type: model.Developer, CanonicalName: "Terra Bio Ltd",
		AlternateNames: []string{"TerraBio", "Terra"}, NormalizedVariants: []string{"terra", "terra bio", "terrabio"}})
	return m
}

func investors() *model.EntityMap {
	m := model.NewEntityMap(model.Investor)
	m.Add(&model.Entity{ID: "I1", Type: model.Investor, CanonicalName: "NorthStar Capital",
		AlternateNames: []string{}, NormalizedVariants: []string{"northstar"}})
	return m
}

func TestFindMentions_Exact(t *testing.T) {
	got := FindMentions("Contact VerdeNova Solutions about ARR", developers())

	require.Len(t, got, 1)
	assert.Equal(t, "D1", got[0].EntityID)
	assert.Equal(t, "VerdeNova Solutions", got[0].EntityName)
	assert.Equal(t, "VerdeNova Solutions", got[0].MatchedText)
}

func TestFindMentions_CanonicalBeatsAlternate(t *testing.T) {
	got := FindMentions("verde nova and VERDENOVA SOLUTIONS met", developers())

	require.Len(t, got, 1)
	assert.Equal(t, "VerdeNova Solutions", got[0].MatchedText)
}

func TestFindMentions_FirstAlternateInOrder(t *testing.T) {
	// Both alternates of D2 appear; the earlier one in the list is reported.
	got := FindMentions("terra firma and terrabio", developers())

	require.Len(t, got, 1)
	assert.Equal(t, "D2", got[0].EntityID)
	assert.Equal(t, "TerraBio", got[0].MatchedText)
}

func TestFindMentions_SubstringSemantics(t *testing.T) {
	got := FindMentions("The Mediterranean region", developers())

	require.Len(t, got, 1)
	assert.Equal(t, "Terra", got[0].MatchedText)
}

func TestFindMentions_MapOrder(t *testing.T) {
	got := FindMentions("TerraBio partners with Verde Nova", developers())

	require.Len(t, got, 2)
	assert.Equal(t, "D1", got[0].EntityID)
	assert.Equal(t, "Verde Nova", got[0].MatchedText)
	assert.Equal(t, "D2", got[1].EntityID)
}

func TestFindMentions_Empty(t *testing.T) {
	got := FindMentions("", developers())
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, FindMentions("nothing relevant here", developers()))
	assert.Empty(t, FindMentions("VerdeNova", model.NewEntityMap(model.Developer)))
}

func TestFindMentions_MatchesPerEntityScan(t *testing.T) {
	texts := []string{
		"VerdeNova Solutions and NorthStar",
		"a terra-cotta pot",
		"TERRABIO",
		"verde novaterra",
	}
	x := NewExtractor(developers())
	for _, text := range texts {
		assert.Equal(t, naiveMentions(text, developers()), x.FindMentions(text), "text %q", text)
	}
}

func TestScanDocuments(t *testing.T) {
	docs := []model.Document{
		{ID: "E001", Source: model.SourceEmail, Text: "VerdeNova Solutions meets NorthStar Capital"},
		{ID: "E002", Source: model.SourceEmail, Text: "lunch plans"},
		{ID: "T001", Source: model.SourceTranscript, Text: "NorthStar Capital call"},
	}

	got, err := ScanDocuments(context.Background(), docs, NewExtractor(developers()), NewExtractor(investors()), 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "E001", got[0].DocumentID)
	assert.Equal(t, model.SourceEmail, got[0].Source)
	assert.Len(t, got[0].Developers, 1)
	assert.Len(t, got[0].Investors, 1)
	assert.True(t, got[1].Empty())
	assert.Equal(t, model.SourceTranscript, got[2].Source)

	kept := WithMentions(got)
	require.Len(t, kept, 2)
	assert.Equal(t, "T001", kept[1].DocumentID)
}

func TestScanDocuments_ParallelMatchesSequential(t *testing.T) {
	var docs []model.Document
	for i := 0; i < 50; i++ {
		text := "status update"
		if i%3 == 0 {
			text = "Verde Nova and NorthStar Capital"
		}
		if i%5 == 0 {
			text += " with TerraBio"
		}
		docs = append(docs, model.Document{ID: fmt.Sprintf("E%03d", i), Source: model.SourceEmail, Text: text})
	}
	dev, inv := NewExtractor(developers()), NewExtractor(investors())

	seq, err := ScanDocuments(context.Background(), docs, dev, inv, 1)
	require.NoError(t, err)
	par, err := ScanDocuments(context.Background(), docs, dev, inv, 8)
	require.NoError(t, err)
	assert.Equal(t, seq, par)
}

func TestEmailDocuments(t *testing.T) {
	table := &model.Table{
		Name:    "emails",
		Columns: []string{model.FieldEmailID, model.FieldSubject, model.FieldBody},
		Rows: []model.Record{
			{"EmailID": "E001", "Subject": "Intro", "Body": "Meet VerdeNova"},
			{"EmailID": "", "Subject": "orphan"},
			{"EmailID": "E002", "Body": "body only"},
		},
	}
	warnings := model.NewWarnings(testLogger())

	docs, err := EmailDocuments(table, warnings)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Intro Meet VerdeNova", docs[0].Text)
	assert.Equal(t, "body only", docs[1].Text)
	assert.Equal(t, 1, warnings.Len())

	_, err = EmailDocuments(&model.Table{Name: "emails", Columns: []string{"Body"}}, nil)
	var mfe *model.MissingFieldError
	assert.ErrorAs(t, err, &mfe)

	docs, err = EmailDocuments(nil, nil)
	assert.NoError(t, err)
	assert.Empty(t, docs)
}

func TestCommunications(t *testing.T) {
	docs := []model.Document{
		{ID: "E001", Source: model.SourceEmail, Text: "Intro VerdeNova Solutions",
			Record: model.Record{"EmailID": "E001", "Subject": "Intro", "Body": "VerdeNova Solutions", "From": "a@x", "Date": "2024-01-02"}},
		{ID: "T001", Source: model.SourceTranscript, Text: "NorthStar Capital call",
			Record: model.Record{"TranscriptID": "T001", "TranscriptText": "NorthStar Capital call"}},
	}
	found, err := ScanDocuments(context.Background(), docs, NewExtractor(developers()), NewExtractor(investors()), 2)
	require.NoError(t, err)

	comms := Communications(docs, found)
	require.Len(t, comms, 2)
	assert.Equal(t, "Intro", comms[0].Subject)
	assert.Equal(t, "VerdeNova Solutions", comms[0].Body)
	assert.Equal(t, "a@x", comms[0].From)
	assert.Equal(t, []string{"D1"}, comms[0].MentionedDevelopers)
	assert.Empty(t, comms[0].MentionedInvestors)
	assert.Equal(t, []string{"I1"}, comms[1].MentionedInvestors)
	assert.True(t, comms[1].Mentions("I1"))
	assert.False(t, comms[1].Mentions("D1"))
}
