package model

type RelationshipType string

const (
	MentionedTogether RelationshipType = "mentioned_together"
	PriorInteraction  RelationshipType = "prior_interaction"
)

type SourceType string

const (
	SourceEmail         SourceType = "email"
	SourceTranscript    SourceType = "transcript"
	SourceInvestorNotes SourceType = "investor_notes"
)

// Relationship is an entity-to-entity edge. The pair is stored in the order the
// source traversal produced it.
type Relationship struct {
	Entity1          string           `json:"entity_1"`
	Entity1Name      string           `json:"entity_1_name"`
	Entity2          string           `json:"entity_2"`
	Entity2Name      string           `json:"entity_2_name"`
	RelationshipType RelationshipType `json:"relationship_type"`
	SourceType       SourceType       `json:"source_type"`
	SourceID         string           `json:"source_id"`
}

// RelationshipKey identifies a relationship for deduplication.
type RelationshipKey struct {
	Entity1 string
	Entity2 string
	Type    RelationshipType
}

func (r Relationship) Key() RelationshipKey {
	return RelationshipKey{Entity1: r.Entity1, Entity2: r.Entity2, Type: r.RelationshipType}
}

// Involves reports whether id is either endpoint.
func (r Relationship) Involves(id string) bool {
	return r.Entity1 == id || r.Entity2 == id
}

// Cluster is a group of entities connected through relationships.
type Cluster struct {
	ID      int      `json:"cluster_id"`
	Members []string `json:"members"`
}
