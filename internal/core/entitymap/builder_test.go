package entitymap

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/ledger/internal/core/model"
)

func developerTable(rows ...model.Record) *model.Table {
	return &model.Table{
		Name:    "developers",
		Columns: []string{model.FieldDeveloperID, model.FieldDeveloperName, model.FieldAlternateNames, model.FieldProjectID, model.FieldCountry},
		Rows:    rows,
	}
}

func TestBuild_Developers(t *testing.T) {
	warnings := model.NewWarnings(zerolog.Nop())
	b := NewBuilder(nil, warnings)

	table := developerTable(
		model.Record{"DeveloperID": "D1", "DeveloperName": "VerdeNova Solutions", "AlternateNames": "Verde Nova; VerdeNova ;;"},
		model.Record{"DeveloperID": "D2", "DeveloperName": "Terra Bio Ltd"},
	)

	m, err := b.Build(table, model.Developer, DeveloperFields)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"D1", "D2"}, m.IDs())

	d1, ok := m.Get("D1")
	require.True(t, ok)
	assert.Equal(t, model.Developer, d1.Type)
	assert.Equal(t, "VerdeNova Solutions", d1.CanonicalName)
	assert.Equal(t, []string{"Verde Nova", "VerdeNova"}, d1.AlternateNames)
	assert.Equal(t, []string{"verde nova", "verdenova"}, d1.NormalizedVariants)

	d2, _ := m.Get("D2")
	assert.Empty(t, d2.AlternateNames)
	assert.NotNil(t, d2.AlternateNames)
	assert.Equal(t, []string{"terra bio"}, d2.NormalizedVariants)
	assert.Zero(t, warnings.Len())
}

func TestBuild_VariantsContainEveryName(t *testing.T) {
	b := NewBuilder(nil, nil)
	table := developerTable(
		model.Record{"DeveloperID": "D1", "DeveloperName": "Sun Agro", "AlternateNames": "Sunshine Farms;S.F. Ltd"},
	)

	m, err := b.Build(table, model.Developer, DeveloperFields)
	require.NoError(t, err)

	e, _ := m.Get("D1")
	for _, name := range e.Names() {
		assert.Contains(t, e.NormalizedVariants, b.Normalizer.Normalize(name))
	}
}

func TestBuild_InvestorsIgnoreMissingAltColumn(t *testing.T) {
	table := &model.Table{
		Name:    "investors",
		Columns: []string{model.FieldInvestorID, model.FieldFundName},
		Rows: []model.Record{
			{"InvestorID": "I1", "FundName": "NorthStar Capital"},
		},
	}

	m, err := NewBuilder(nil, nil).Build(table, model.Investor, Fields{ID: model.FieldInvestorID, Name: model.FieldFundName, AltNames: "Aliases"})
	require.NoError(t, err)

	e, _ := m.Get("I1")
	assert.Empty(t, e.AlternateNames)
	assert.Equal(t, []string{"northstar"}, e.NormalizedVariants)
}

func TestBuild_MissingField(t *testing.T) {
	table := &model.Table{
		Name:    "developers",
		Columns: []string{model.FieldDeveloperID},
		Rows:    []model.Record{{"DeveloperID": "D1"}},
	}

	_, err := NewBuilder(nil, nil).Build(table, model.Developer, DeveloperFields)

	var mfe *model.MissingFieldError
	require.True(t, errors.As(err, &mfe))
	assert.Equal(t, model.FieldDeveloperName, mfe.Field)
	assert.Equal(t, "developers", mfe.Table)
}

func TestBuild_DropsRowsWithoutID(t *testing.T) {
	warnings := model.NewWarnings(zerolog.Nop())
	table := developerTable(
		model.Record{"DeveloperID": "", "DeveloperName": "Ghost"},
		model.Record{"DeveloperID": "D1", "DeveloperName": "Real One"},
		model.Record{"DeveloperID": "D1", "DeveloperName": "Real One Again"},
		model.Record{"DeveloperID": "D3", "DeveloperName": "  "},
	)

	m, err := NewBuilder(nil, warnings).Build(table, model.Developer, DeveloperFields)
	require.NoError(t, err)

	assert.Equal(t, []string{"D1"}, m.IDs())
	e, _ := m.Get("D1")
	assert.Equal(t, "Real One", e.CanonicalName)

	counts := warnings.CountByKind()
	assert.Equal(t, 1, counts[model.WarnMissingIdentifier])
	assert.Equal(t, 1, counts[model.WarnDuplicateIdentifier])
	assert.Equal(t, 1, counts[model.WarnMissingName])
}

func TestBuild_EmptyEntitySet(t *testing.T) {
	table := developerTable(
		model.Record{"DeveloperID": "", "DeveloperName": "Ghost"},
	)

	_, err := NewBuilder(nil, nil).Build(table, model.Developer, DeveloperFields)

	var empty *model.EmptyEntitySetError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, model.Developer, empty.Type)
}

func TestParseAlternateNames(t *testing.T) {
	assert.Nil(t, ParseAlternateNames(""))
	assert.Nil(t, ParseAlternateNames(" ; ;"))
	assert.Equal(t, []string{"A", "B c"}, ParseAlternateNames(" A ;B c;"))
}

func TestBuildProjectIndex(t *testing.T) {
	table := developerTable(
		model.Record{"DeveloperID": "D1", "DeveloperName": "A", "ProjectID": "P001"},
		model.Record{"DeveloperID": "D2", "DeveloperName": "B", "ProjectID": "P001"},
		model.Record{"DeveloperID": "D3", "DeveloperName": "C", "ProjectID": "P003"},
		model.Record{"DeveloperID": "D4", "DeveloperName": "D"},
	)

	idx, err := BuildProjectIndex(table)
	require.NoError(t, err)

	d, ok := idx.Developer("P001")
	assert.True(t, ok)
	assert.Equal(t, "D1", d)
	d, _ = idx.Developer("P003")
	assert.Equal(t, "D3", d)
	_, ok = idx.Developer("P999")
	assert.False(t, ok)
	assert.Equal(t, 2, idx.Len())
}

func TestBuildProjectIndex_MissingColumn(t *testing.T) {
	table := &model.Table{Name: "developers", Columns: []string{model.FieldDeveloperID}}

	_, err := BuildProjectIndex(table)

	var mfe *model.MissingFieldError
	assert.True(t, errors.As(err, &mfe))
}

func TestMasterEntities(t *testing.T) {
	devTable := developerTable(
		model.Record{"DeveloperID": "D1", "DeveloperName": "VerdeNova Solutions", "ProjectID": "P001", "Country": "Brazil", "Hectares": "1,200"},
	)
	invTable := &model.Table{
		Name:    "investors",
		Columns: []string{model.FieldInvestorID, model.FieldFundName, model.FieldTicketSizeMin},
		Rows:    []model.Record{{"InvestorID": "I1", "FundName": "NorthStar Capital", "TicketSizeMin": "500000", "PrimaryContactName": "Ana"}},
	}
	b := NewBuilder(nil, nil)
	devs, err := b.Build(devTable, model.Developer, DeveloperFields)
	require.NoError(t, err)
	invs, err := b.Build(invTable, model.Investor, InvestorFields)
	require.NoError(t, err)

	master := MasterEntities(devs, devTable, invs, invTable)
	require.Len(t, master, 2)

	assert.Equal(t, "D1", master[0].EntityID)
	assert.Equal(t, "Brazil", master[0].Country)
	require.NotNil(t, master[0].Developer)
	assert.Nil(t, master[0].Investor)
	assert.Equal(t, "P001", master[0].Developer.ProjectID)
	require.NotNil(t, master[0].Developer.Hectares)
	assert.Equal(t, 1200.0, *master[0].Developer.Hectares)

	assert.Equal(t, model.Investor, master[1].EntityType)
	assert.Equal(t, "Ana", master[1].PrimaryContact)
	require.NotNil(t, master[1].Investor)
	assert.Equal(t, 500000.0, *master[1].Investor.TicketSizeMin)
	assert.Nil(t, master[1].Investor.TicketSizeMax)
}
