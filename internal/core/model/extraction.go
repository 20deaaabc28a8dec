package model

// Mention is evidence that a document references an entity.
type Mention struct {
	EntityID    string `json:"entity_id"`
	EntityName  string `json:"entity_name"`
	MatchedText string `json:"matched_text"`
}

// Document is a free-text source scanned for mentions. Record is the row it
// was read from.
type Document struct {
	ID     string
	Source SourceType
	Text   string
	Record Record
}

// DocumentMentions holds the mention sets found in one document.
type DocumentMentions struct {
	DocumentID string     `json:"document_id"`
	Source     SourceType `json:"source_type"`
	Developers []Mention  `json:"developers"`
	Investors  []Mention  `json:"investors"`
}

func (d DocumentMentions) Empty() bool {
	return len(d.Developers) == 0 && len(d.Investors) == 0
}

// Communication is one email or transcript with the entity ids it mentions.
type Communication struct {
	CommunicationID     string     `json:"communication_id"`
	CommunicationType   SourceType `json:"communication_type"`
	Date                string     `json:"date,omitempty"`
	From                string     `json:"from,omitempty"`
	To                  string     `json:"to,omitempty"`
	Subject             string     `json:"subject,omitempty"`
	Body                string     `json:"body"`
	MentionedDevelopers []string   `json:"mentioned_developers"`
	MentionedInvestors  []string   `json:"mentioned_investors"`
}

// Mentions reports whether the communication references id.
func (c Communication) Mentions(id string) bool {
	for _, d := range c.MentionedDevelopers {
		if d == id {
			return true
		}
	}
	for _, i := range c.MentionedInvestors {
		if i == id {
			return true
		}
	}
	return false
}
