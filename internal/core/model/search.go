package model

// SearchResult is an entity matched by a name query.
type SearchResult struct {
	EntityID      string     `json:"entity_id"`
	EntityType    EntityType `json:"entity_type"`
	CanonicalName string     `json:"canonical_name"`
	MatchedName   string     `json:"matched_name"`
}
