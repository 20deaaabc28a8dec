package extraction

import (
	"fmt"
	"strings"

	"github.com/agenthands/ledger/internal/core/model"
)

// EmailDocuments turns email rows into documents. The scanned text is the
// subject followed by the body. A nil table yields no documents.
func EmailDocuments(t *model.Table, warnings *model.Warnings) ([]model.Document, error) {
	if t == nil {
		return nil, nil
	}
	if !t.HasColumn(model.FieldEmailID) {
		return nil, &model.MissingFieldError{Table: t.Name, Field: model.FieldEmailID}
	}

	var docs []model.Document
	for i, row := range t.Rows {
		id := row.Get(model.FieldEmailID)
		if id == "" {
			warnings.Add(model.WarnMissingIdentifier, fmt.Sprintf("%s row %d", t.Name, i+1), "email has no EmailID; skipped")
			continue
		}
		text := strings.TrimSpace(row.Get(model.FieldSubject) + " " + row.Get(model.FieldBody))
		docs = append(docs, model.Document{ID: id, Source: model.SourceEmail, Text: text, Record: row})
	}
	return docs, nil
}

func TranscriptDocuments(t *model.Table, warnings *model.Warnings) ([]model.Document, error) {
	if t == nil {
		return nil, nil
	}
	if !t.HasColumn(model.FieldTranscriptID) {
		return nil, &model.MissingFieldError{Table: t.Name, Field: model.FieldTranscriptID}
	}

	var docs []model.Document
	for i, row := range t.Rows {
		id := row.Get(model.FieldTranscriptID)
		if id == "" {
			warnings.Add(model.WarnMissingIdentifier, fmt.Sprintf("%s row %d", t.Name, i+1), "transcript has no TranscriptID; skipped")
			continue
		}
		docs = append(docs, model.Document{ID: id, Source: model.SourceTranscript, Text: row.Get(model.FieldTranscriptText), Record: row})
	}
	return docs, nil
}

// Communications pairs each document with the ids it mentions. found must be
// the ScanDocuments result for docs.
func Communications(docs []model.Document, found []model.DocumentMentions) []model.Communication {
	out := make([]model.Communication, 0, len(docs))
	for i, doc := range docs {
		c := model.Communication{
			CommunicationID:     doc.ID,
			CommunicationType:   doc.Source,
			MentionedDevelopers: []string{},
			MentionedInvestors:  []string{},
		}
		switch doc.Source {
		case model.SourceEmail:
			c.Date = doc.Record.Get(model.FieldDate)
			c.From = doc.Record.Get(model.FieldFrom)
			c.To = doc.Record.Get(model.FieldTo)
			c.Subject = doc.Record.Get(model.FieldSubject)
			c.Body = doc.Record.Get(model.FieldBody)
		default:
			c.Date = doc.Record.Get(model.FieldDate)
			c.Body = doc.Text
		}
		if i < len(found) {
			for _, m := range found[i].Developers {
				c.MentionedDevelopers = append(c.MentionedDevelopers, m.EntityID)
			}
			for _, m := range found[i].Investors {
				c.MentionedInvestors = append(c.MentionedInvestors, m.EntityID)
			}
		}
		out = append(out, c)
	}
	return out
}
