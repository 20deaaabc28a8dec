package entitymap

import (
	"github.com/agenthands/ledger/internal/core/model"
)

// MasterEntities joins both entity maps with the typed metadata of the record
// each entity was built from. Developers come first, then investors, each in
// source order.
func MasterEntities(developers *model.EntityMap, devTable *model.Table, investors *model.EntityMap, invTable *model.Table) []model.MasterEntity {
	var out []model.MasterEntity

	devRows := firstRows(devTable, model.FieldDeveloperID)
	for _, e := range developers.Entities() {
		row := devRows[e.ID]
		meta := model.NewDeveloperMetadata(row)
		out = append(out, model.MasterEntity{
			EntityID:       e.ID,
			EntityType:     model.Developer,
			CanonicalName:  e.CanonicalName,
			AlternateNames: nonNil(e.AlternateNames),
			PrimaryContact: row.Get(model.FieldPrimaryContactName),
			Email:          row.Get(model.FieldPrimaryContactEmail),
			Country:        meta.Country,
			Developer:      meta,
		})
	}

	invRows := firstRows(invTable, model.FieldInvestorID)
	for _, e := range investors.Entities() {
		row := invRows[e.ID]
		out = append(out, model.MasterEntity{
			EntityID:       e.ID,
			EntityType:     model.Investor,
			CanonicalName:  e.CanonicalName,
			AlternateNames: nonNil(e.AlternateNames),
			PrimaryContact: row.Get(model.FieldPrimaryContactName),
			Email:          row.Get(model.FieldPrimaryContactEmail),
			Investor:       model.NewInvestorMetadata(row),
		})
	}
	return out
}

func firstRows(t *model.Table, idField string) map[string]model.Record {
	rows := make(map[string]model.Record)
	if t == nil {
		return rows
	}
	for _, r := range t.Rows {
		id := r.Get(idField)
		if _, ok := rows[id]; !ok && id != "" {
			rows[id] = r
		}
	}
	return rows
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
