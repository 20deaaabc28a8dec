package extraction

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/agenthands/ledger/internal/core/model"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// naiveMentions tests each entity's names one by one against the text.
func naiveMentions(text string, m *model.EntityMap) []model.Mention {
	out := []model.Mention{}
	lower := strings.ToLower(text)
	for _, e := range m.Entities() {
		for _, name := range e.Names() {
			if strings.Contains(lower, strings.ToLower(name)) {
				out = append(out, model.Mention{EntityID: e.ID, EntityName: e.CanonicalName, MatchedText: name})
				break
			}
		}
	}
	return out
}
